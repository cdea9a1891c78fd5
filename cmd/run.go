package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/aggregate"
	"github.com/spigell/jobmate/internal/ai"
	"github.com/spigell/jobmate/internal/ai/gemini"
	"github.com/spigell/jobmate/internal/logger"
	"github.com/spigell/jobmate/internal/profile"
	"github.com/spigell/jobmate/internal/recommend"
	"github.com/spigell/jobmate/internal/score"
	"github.com/spigell/jobmate/internal/secrets"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	defaultProfileFile = "profile.yaml"
)

var prompt = promptui.Select{
	Label: "Generate recommendations?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the jobmate matching pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before generating recommendations")
	runCmd.Flags().StringP("profile", "p", "", "candidate profile file. Default is profile.yaml in current directory.")

	viper.BindPFlag("profile", runCmd.Flags().Lookup("profile"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobmate", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	profilePath := strings.TrimSpace(config.Profile)
	if profilePath == "" {
		profilePath = defaultProfileFile
	}

	candidate, err := profile.Load(profilePath)
	if err != nil {
		logger.Fatal("loading candidate profile",
			zap.Error(err),
			zap.String("hint", "point the 'profile' key or --profile flag at a candidate yaml file"),
		)
	}

	if err := candidate.Validate(); err != nil {
		logger.Fatal("invalid candidate profile", zap.Error(err))
	}

	logger.Info("candidate profile loaded",
		zap.String("candidate_id", candidate.CandidateID),
		zap.Int("skills", len(candidate.Skills)),
	)

	sources := buildSources(config.Sources, logger)

	agg := aggregate.New(sources, aggregate.Config{
		MinScore:      config.Matching.MinScore,
		TotalLimit:    config.Sources.TotalLimit,
		SourceTimeout: config.Sources.Timeout,
	}, logger)

	postings := agg.Aggregate(ctx, candidate)

	logger.Info("postings aggregated", zap.Int("count", postings.Len()))

	if cmd.Flag("auto-approve").Value.String() == "false" {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	// One session per invocation: without an explicit threshold the report
	// covers every aggregated posting.
	threshold := config.Recommendations.Threshold
	if threshold <= 0 {
		threshold = postings.Len()
	}

	acc := recommend.NewAccumulator(recommend.Config{
		Threshold:      threshold,
		TopMatches:     config.Recommendations.TopMatches,
		SessionTimeout: config.Recommendations.SessionTimeout,
	}, logger)

	enricher := prepareEnricher(ctx, config.AI, logger)

	// The sweeper drains sessions stuck past the timeout. With the pipeline
	// feeding the accumulator synchronously it stays idle, but a timed-out
	// session still reaches the candidate instead of being lost.
	expired := acc.Start(ctx)
	go func() {
		for report := range expired {
			emit(ctx, report, enricher, logger)
		}
	}()

	for _, posting := range postings.Items {
		result := score.Score(posting, candidate.CandidateID, candidate.Skills)

		logger.Debug("posting scored",
			zap.String("job_id", result.JobID),
			zap.String("title", result.Title),
			zap.Float64("score", result.Score),
		)

		if report, done := acc.Add(result); done {
			emit(ctx, report, enricher, logger)
		}
	}

	if report, ok := acc.Flush(candidate.CandidateID); ok {
		emit(ctx, report, enricher, logger)
	}
}

// emit delivers one report to the candidate, polished by the AI enricher when
// one is configured. Enrichment failures fall back to the plain report.
func emit(ctx context.Context, report *recommend.Report, enricher ai.Enricher, logger *zap.Logger) {
	text := report.Text

	if enricher != nil {
		polished, err := enricher.Enrich(ctx, text)
		if err != nil {
			logger.Warn("ai enrichment failed, using plain report", zap.Error(err))
		} else {
			text = polished
		}
	}

	logger.Info("recommendation report ready",
		zap.String("candidate_id", report.CandidateID),
		zap.Int("top_matches", len(report.TopMatches)),
		zap.Float64("avg_score", report.AvgScore),
	)

	fmt.Println(text)
}

func prepareEnricher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) ai.Enricher {
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	enricher, err := newAIEnricher(ctx, cfg, logger)
	if err != nil {
		logger.Warn("skipping ai enrichment", zap.Error(err))
		return nil
	}

	logger.Info("ai enrichment enabled", zap.String("model", enricher.Model()))
	return enricher
}

func newAIEnricher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Enricher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai enrichment is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	enricherLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewEnricher(generator, enricherLogger, cfg.Gemini.MaxRetries, cfg.Gemini.MaxLogLength), nil
}
