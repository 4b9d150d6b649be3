package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/eligibility"
	"github.com/spigell/foundermatch/internal/logger"
	"github.com/spigell/foundermatch/internal/marketplace"
	"github.com/spigell/foundermatch/internal/session"
)

const (
	PromptAccept  = "Accept"
	PromptReject  = "Reject"
	PromptMessage = "Message"
	PromptSwipe   = "Swipe"
	PromptTab     = "Switch tab"
	PromptQuit    = "Quit"
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Browse eligible candidates one card at a time",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("as", "", "id of the actor browsing the marketplace")
	matchCmd.Flags().StringP("tab", "t", string(eligibility.TabAll), "initial tab: all, founders, talent or co-founder")
	matchCmd.MarkFlagRequired("as")
}

func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	tab, err := eligibility.ParseTab(cmd.Flag("tab").Value.String())
	if err != nil {
		logger.Fatal("parsing tab", zap.Error(err))
	}

	serveMetrics(config.Metrics, logger)

	store, closeStore, err := newStore(ctx, config.Store, logger)
	if err != nil {
		logger.Fatal("opening profile store", zap.Error(err))
	}
	defer closeStore()

	s, err := loadSession(ctx, store, cmd.Flag("as").Value.String(), logger)
	if err != nil {
		closeStore()
		logger.Fatal("loading decision session", zap.Error(err))
	}

	s.Subscribe(func(state session.State, decision *session.Decision) {
		if decision == nil {
			return
		}
		logger.Info("decision committed",
			zap.String("candidate_id", decision.ActorID),
			zap.String("outcome", string(decision.Outcome)),
			zap.Int("remaining", state.Remaining()),
		)
	})
	s.SelectTab(tab)

	for {
		if err := step(ctx, s, store); err != nil {
			if errors.Is(err, errExit) || errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("exiting", zap.String("session_id", s.ID()))
				return
			}
			closeStore()
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func loadSession(ctx context.Context, store marketplace.Store, requesterID string, log *zap.Logger) (*session.Session, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return nil, errors.New("--as is required")
	}

	s, err := session.Load(ctx, store, requesterID, log)
	if err != nil {
		return nil, err
	}

	requester := s.Requester()
	log.Info("session loaded",
		zap.String("session_id", s.ID()),
		zap.String("requester_id", requester.ID),
		zap.String("requester_role", string(requester.Role)),
		zap.Int("pool", s.State().Pool.Len()),
	)
	return s, nil
}

// step renders the current cards and applies one action.
func step(ctx context.Context, s *session.Session, store marketplace.Store) error {
	state := s.State()
	items := []string{PromptAccept, PromptReject, PromptMessage, PromptSwipe, PromptTab, PromptQuit}

	switch state.Status() {
	case session.StatusEmpty:
		fmt.Printf("\nNo candidates in the %q tab.\n", state.Tab)
		items = []string{PromptTab, PromptQuit}
	case session.StatusExhausted:
		fmt.Printf("\nYou have seen every candidate in the %q tab.\n", state.Tab)
		items = []string{PromptTab, PromptQuit}
	default:
		cards, err := s.Cards(ctx, store)
		if err != nil {
			return fmt.Errorf("rendering cards: %w", err)
		}
		fmt.Printf("\n[%s] %d left\n", state.Tab, state.Remaining())
		for i, card := range cards {
			fmt.Println(describeCard(card, i == 0))
		}
	}

	actions := promptui.Select{
		Label: "What next?",
		Items: items,
	}
	_, action, err := actions.Run()
	if err != nil {
		return err
	}

	return handleAction(action, s)
}

func handleAction(action string, s *session.Session) error {
	switch action {
	case PromptAccept:
		s.Commit(session.OutcomeAccept)
	case PromptReject:
		s.Commit(session.OutcomeReject)
	case PromptMessage:
		if d := s.Commit(session.OutcomeMessage); d != nil {
			fmt.Printf("Opening a conversation with %s.\n", d.ActorID)
		}
	case PromptSwipe:
		return swipe(s)
	case PromptTab:
		return switchTab(s)
	case PromptQuit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
	return nil
}

// swipe emulates a drag gesture: the card is released at the entered offset.
func swipe(s *session.Session) error {
	offsetPrompt := promptui.Prompt{
		Label: fmt.Sprintf("Drag offset (beyond +/-%.0f commits)", session.SwipeThreshold),
		Validate: func(in string) error {
			_, err := parseOffset(in)
			return err
		},
	}

	raw, err := offsetPrompt.Run()
	if err != nil {
		return err
	}
	offset, err := parseOffset(raw)
	if err != nil {
		return err
	}

	s.BeginDrag(0)
	s.UpdateDrag(offset)
	fmt.Printf("Card tilts %.1f degrees.\n", s.State().Rotation())

	if d := s.EndDrag(); d == nil {
		fmt.Println("Card springs back.")
	}
	return nil
}

// parseOffset reads a horizontal drag offset. NaN and infinities are refused.
func parseOffset(in string) (float64, error) {
	offset, err := strconv.ParseFloat(strings.TrimSpace(in), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return 0, fmt.Errorf("offset must be a finite number, got %q", strings.TrimSpace(in))
	}
	return offset, nil
}

func switchTab(s *session.Session) error {
	counts := s.State().Counts()
	labels := make([]string, len(eligibility.Tabs))
	for i, tab := range eligibility.Tabs {
		labels[i] = fmt.Sprintf("%s (%d)", tab, counts[tab])
	}

	tabPrompt := promptui.Select{
		Label: "Choose a tab",
		Items: labels,
	}
	idx, _, err := tabPrompt.Run()
	if err != nil {
		return err
	}

	s.SelectTab(eligibility.Tabs[idx])
	return nil
}

func describeCard(card session.Card, front bool) string {
	var b strings.Builder

	marker := "  "
	if front {
		marker = "> "
	}

	actor := card.Actor
	fmt.Fprintf(&b, "%s%s [%s]", marker, actor.Name, actor.Role)
	if actor.SubRole != "" {
		fmt.Fprintf(&b, " %s", actor.SubRole)
	}
	if actor.SeekingCoFounder {
		b.WriteString(" · seeking a co-founder")
	}
	if actor.Headline != "" {
		fmt.Fprintf(&b, "\n    %s", actor.Headline)
	}

	switch {
	case card.Placeholder:
		b.WriteString("\n    organization details unavailable")
	case card.Organization != nil:
		org := card.Organization
		fmt.Fprintf(&b, "\n    %s", org.Name)
		if org.Industry != "" || org.Stage != "" {
			fmt.Fprintf(&b, " (%s)", strings.Trim(org.Industry+", "+org.Stage, ", "))
		}
		f := org.Financials
		if f != (marketplace.Financials{}) {
			fmt.Fprintf(&b, "\n    revenue $%.0f/yr · burn $%.0f/mo · raised $%.0f · seeking $%.0f",
				f.AnnualRevenue, f.MonthlyBurn, f.TotalRaised, f.Seeking)
		}
	}

	switch {
	case len(actor.Skills) > 0:
		fmt.Fprintf(&b, "\n    skills: %s", strings.Join(actor.Skills, ", "))
	case len(actor.Industries) > 0:
		fmt.Fprintf(&b, "\n    industries: %s", strings.Join(actor.Industries, ", "))
	}

	return b.String()
}
