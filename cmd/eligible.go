package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/eligibility"
	"github.com/spigell/foundermatch/internal/logger"
	"github.com/spigell/foundermatch/internal/marketplace"
	"github.com/spigell/foundermatch/internal/session"
)

type candidateView struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Role             marketplace.Role `json:"role"`
	SeekingCoFounder bool             `json:"seekingCoFounder"`
}

type eligibleReport struct {
	Requester  string                  `json:"requester"`
	Tab        eligibility.Tab         `json:"tab"`
	Counts     map[eligibility.Tab]int `json:"counts"`
	Candidates []candidateView         `json:"candidates"`
}

var eligibleCmd = &cobra.Command{
	Use:   "eligible",
	Short: "Print the candidates an actor is allowed to see",
	Run: func(cmd *cobra.Command, _ []string) {
		eligible(cmd)
	},
}

func init() {
	rootCmd.AddCommand(eligibleCmd)

	eligibleCmd.Flags().String("as", "", "id of the actor browsing the marketplace")
	eligibleCmd.Flags().StringP("tab", "t", string(eligibility.TabAll), "tab: all, founders, talent or co-founder")
	eligibleCmd.MarkFlagRequired("as")
}

func eligible(cmd *cobra.Command) {
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

	store, closeStore, err := newStore(ctx, config.Store, logger)
	if err != nil {
		logger.Fatal("opening profile store", zap.Error(err))
	}
	defer closeStore()

	s, err := loadSession(ctx, store, cmd.Flag("as").Value.String(), logger)
	if err != nil {
		closeStore()
		logger.Fatal("loading candidates", zap.Error(err))
	}

	report, err := buildEligibleReport(ctx, s, tab, logger)
	if err != nil {
		closeStore()
		logger.Fatal("narrowing candidates", zap.Error(err))
	}

	pretty, _ := json.MarshalIndent(report, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}

// buildEligibleReport narrows the session pool to tab through the filter
// pipeline. Counts always cover the whole pool.
func buildEligibleReport(ctx context.Context, s *session.Session, tab eligibility.Tab, log *zap.Logger) (eligibleReport, error) {
	state := s.State()

	pipeline := eligibility.ForRequester(s.Requester(), tab, log)
	candidates, err := pipeline.Run(ctx, state.Pool)
	if err != nil {
		return eligibleReport{}, err
	}
	log.Debug("candidate pipeline", zap.Any("steps", pipeline.Describe()))

	report := eligibleReport{
		Requester:  s.Requester().ID,
		Tab:        tab,
		Counts:     state.Counts(),
		Candidates: make([]candidateView, 0, candidates.Len()),
	}
	for _, actor := range candidates {
		report.Candidates = append(report.Candidates, candidateView{
			ID:               actor.ID,
			Name:             actor.Name,
			Role:             actor.Role,
			SeekingCoFounder: actor.SeekingCoFounder,
		})
	}
	return report, nil
}
