package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-insight/internal/logger"
	"github.com/spigell/resume-insight/internal/parser"
	"github.com/spigell/resume-insight/internal/upload"
)

const (
	app = "resume-insight"
)

type Config struct {
	Parser parser.Config `mapstructure:"parser"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-insight uploads a resume to a parsing service and shows what it found",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("parser.base-url", "RESUME_PARSER_URL"); err != nil {
		log.Fatalf("binding RESUME_PARSER_URL environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-insight.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// A missing .env is fine, the variables may come from the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
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

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config (set parser.base-url or RESUME_PARSER_URL): %w", err)
	}

	return config, nil
}

// newLogger builds the logger every command starts with.
func newLogger() *zap.Logger {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return logger
}

// newClient wires the config, validator and parser client shared by the
// commands that submit documents.
func newClient(logger *zap.Logger) (*upload.Validator, *parser.Client) {
	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	validator, err := upload.NewValidator(upload.DefaultConfig())
	if err != nil {
		logger.Fatal("creating a validator", zap.Error(err))
	}

	client, err := parser.New(config.Parser, logger)
	if err != nil {
		logger.Fatal("creating a parser client", zap.Error(err))
	}

	logger.Debug("using parser", zap.String("endpoint", client.Endpoint()))
	return validator, client
}
