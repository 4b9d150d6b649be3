package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/foundermatch/internal/logger"
	"github.com/spigell/foundermatch/internal/search"
)

type searchReport struct {
	Query         string   `json:"query"`
	Organizations []string `json:"organizations"`
	Actors        []string `json:"actors"`
	Missing       []string `json:"missing,omitempty"`
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Resolve a free-text query into matching organizations and actors",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runSearch(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, query string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	serveMetrics(config.Metrics, logger)

	store, closeStore, err := newStore(ctx, config.Store, logger)
	if err != nil {
		logger.Fatal("opening profile store", zap.Error(err))
	}
	defer closeStore()

	resolver, err := newResolver(ctx, config.AI, logger)
	if err != nil {
		closeStore()
		logger.Fatal("creating search resolver", zap.Error(err))
	}

	corpus, err := search.BuildCorpus(ctx, store)
	if err != nil {
		closeStore()
		logger.Fatal("reading marketplace snapshot", zap.Error(err))
	}

	// The CLI resolves one query per process, so the gate is never contended
	// here. It keeps the single-flight entry point shared with library callers.
	var gate search.Gate
	result, _ := gate.Do(func() search.Result {
		return resolver.Resolve(ctx, query, corpus)
	})
	if result.IsEmpty() {
		logger.Info("search found no matches", zap.String("query", query))
	}

	matches, err := search.Hydrate(ctx, store, result)
	if err != nil {
		closeStore()
		logger.Fatal("looking up search matches", zap.Error(err))
	}

	if len(matches.Missing) > 0 {
		logger.Warn("search returned unknown ids", zap.Strings("ids", matches.Missing))
	}

	pretty, _ := json.MarshalIndent(buildSearchReport(query, matches), "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
}

func buildSearchReport(query string, matches *search.Matches) searchReport {
	report := searchReport{
		Query:         query,
		Organizations: make([]string, 0, matches.Organizations.Len()),
		Actors:        make([]string, 0, matches.Actors.Len()),
		Missing:       matches.Missing,
	}
	for _, org := range matches.Organizations {
		report.Organizations = append(report.Organizations, fmt.Sprintf("%s (%s)", org.Name, org.ID))
	}
	for _, actor := range matches.Actors {
		report.Actors = append(report.Actors, fmt.Sprintf("%s [%s] (%s)", actor.Name, actor.Role, actor.ID))
	}
	return report
}
