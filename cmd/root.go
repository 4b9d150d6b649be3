package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "foundermatch"
)

type Config struct {
	Store   *StoreConfig   `mapstructure:"store"`
	AI      *AIConfig      `mapstructure:"ai"`
	Metrics *MetricsConfig `mapstructure:"metrics"`
}

type StoreConfig struct {
	// Driver is "file" or "postgres".
	Driver   string          `mapstructure:"driver"`
	File     string          `mapstructure:"file"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Cache    *CacheConfig    `mapstructure:"cache"`
}

type PostgresConfig struct {
	DSN            string `mapstructure:"dsn"`
	PasswordFile   string `mapstructure:"password-file"`
	MaxConnections int    `mapstructure:"max-connections"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Address string        `mapstructure:"address"`
	DB      int           `mapstructure:"db"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type MetricsConfig struct {
	// Address enables the /metrics endpoint when set, e.g. ":9090".
	Address string `mapstructure:"address"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "foundermatch is a cli for browsing founder, investor and talent matches",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"ai.gemini.api-key-file":       "FOUNDERMATCH_GEMINI_API_KEY_FILE",
		"store.postgres.password-file": "FOUNDERMATCH_POSTGRES_PASSWORD_FILE",
		"store.postgres.dsn":           "FOUNDERMATCH_POSTGRES_DSN",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("store.driver", "file")
	viper.SetDefault("store.file", "profiles.json")
	viper.SetDefault("store.cache.ttl", "10m")
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.timeout", "30s")
	viper.SetDefault("ai.gemini.max-log-length", 200)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is foundermatch.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// The version command works without any configuration.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	err := viper.ReadInConfig()

	// Defaults and env are enough when no config file exists in the
	// current directory. An explicit --config must be readable.
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (cfgFile != "" || !errors.As(err, &notFound)) {
		log.Fatal(err)
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
	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.Metrics == nil {
		config.Metrics = &MetricsConfig{}
	}

	return config, nil
}
