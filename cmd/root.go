package cmd

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "jobmate"
)

type Config struct {
	Profile         string                 `mapstructure:"profile"`
	Sources         *SourcesConfig         `mapstructure:"sources"`
	Matching        *MatchingConfig        `mapstructure:"matching"`
	Recommendations *RecommendationsConfig `mapstructure:"recommendations"`
	AI              *AIConfig              `mapstructure:"ai"`
}

type SourcesConfig struct {
	PerSourceLimit int           `mapstructure:"per-source-limit"`
	TotalLimit     int           `mapstructure:"total-limit"`
	RecencyDays    int           `mapstructure:"recency-days"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Adzuna         *AdzunaConfig `mapstructure:"adzuna"`
	FindWork       *KeyedConfig  `mapstructure:"findwork"`
	SerpAPI        *KeyedConfig  `mapstructure:"serpapi"`
}

type AdzunaConfig struct {
	AppIDFile  string `mapstructure:"app-id-file"`
	AppKeyFile string `mapstructure:"app-key-file"`
}

type KeyedConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
}

type MatchingConfig struct {
	MinScore float64 `mapstructure:"min-score"`
}

type RecommendationsConfig struct {
	Threshold      int           `mapstructure:"threshold"`
	TopMatches     int           `mapstructure:"top-matches"`
	SessionTimeout time.Duration `mapstructure:"session-timeout"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobmate is a cli that matches a candidate profile against live job postings and builds a recommendation report",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Optional .env for local development; ignore when absent.
	_ = godotenv.Load()

	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("sources.adzuna.app-id-file", "ADZUNA_APP_ID_FILE"); err != nil {
		log.Fatalf("binding ADZUNA_APP_ID_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("sources.adzuna.app-key-file", "ADZUNA_APP_KEY_FILE"); err != nil {
		log.Fatalf("binding ADZUNA_APP_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("sources.findwork.api-key-file", "FINDWORK_API_KEY_FILE"); err != nil {
		log.Fatalf("binding FINDWORK_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("sources.serpapi.api-key-file", "SERPAPI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding SERPAPI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobmate.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
		viper.SetConfigType("yaml")
	}

	// A missing config file is fine: every knob has a default and the
	// credential files can come from the environment.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Sources == nil {
		config.Sources = &SourcesConfig{}
	}
	if config.Matching == nil {
		config.Matching = &MatchingConfig{}
	}
	if config.Recommendations == nil {
		config.Recommendations = &RecommendationsConfig{}
	}

	return config, nil
}
