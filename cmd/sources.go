package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/logger"
	"github.com/spigell/jobmate/internal/secrets"
	"github.com/spigell/jobmate/internal/source"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List job sources and whether their credentials are configured",
	Run: func(_ *cobra.Command, _ []string) {
		logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
		if err != nil {
			log.Fatalf("creating a logger: %s", err)
		}

		config, err := getConfig()
		if err != nil {
			logger.Fatal("getting a config", zap.Error(err))
		}

		for _, src := range buildSources(config.Sources, logger) {
			status := "not configured"
			if src.Available() {
				status = "ready"
			}
			fmt.Printf("%-10s %s\n", src.Name(), status)
		}
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// buildSources wires every known adapter with its credentials. Adapters with
// missing credentials are still returned: the aggregator skips them via
// Available, and the sources command reports them as not configured.
func buildSources(cfg *SourcesConfig, logger *zap.Logger) []source.Source {
	filters := source.FilterConfig{
		RecencyDays:    cfg.RecencyDays,
		PerSourceLimit: cfg.PerSourceLimit,
	}

	var adzunaID, adzunaKey string
	if cfg.Adzuna != nil {
		adzunaID = loadOptionalSecret("adzuna app id", cfg.Adzuna.AppIDFile, logger)
		adzunaKey = loadOptionalSecret("adzuna app key", cfg.Adzuna.AppKeyFile, logger)
	}

	var findworkKey string
	if cfg.FindWork != nil {
		findworkKey = loadOptionalSecret("findwork api key", cfg.FindWork.APIKeyFile, logger)
	}

	var serpapiKey string
	if cfg.SerpAPI != nil {
		serpapiKey = loadOptionalSecret("serpapi api key", cfg.SerpAPI.APIKeyFile, logger)
	}

	return []source.Source{
		source.NewAdzuna(adzunaID, adzunaKey, filters, logger),
		source.NewFindWork(findworkKey, filters, logger),
		source.NewSerpAPI(serpapiKey, filters, logger),
		source.NewRemotive(filters, logger),
	}
}

// loadOptionalSecret resolves a credential file, treating an unset or
// unreadable file as absent so the adapter degrades to unavailable.
func loadOptionalSecret(name, file string, logger *zap.Logger) string {
	if file == "" {
		return ""
	}

	value, err := secrets.Load(secrets.Source{Name: name, File: file})
	if err != nil {
		logger.Warn("credential unavailable", zap.String("secret", name), zap.Error(err))
		return ""
	}
	return value
}
