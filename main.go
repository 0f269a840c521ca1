package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"curlcraft/internal/capture"
)

var (
	cfgFilePath string
	verbose     bool

	// settings is the viper instance every command reads through cfg.
	settings = viper.New()
	cfg      *Config

	// errReported is returned by commands that already printed the failure.
	errReported = errors.New("failure already reported")
)

var rootCmd = &cobra.Command{
	Use:   "curlcraft",
	Short: "Turn captured HTTP requests into cURL commands and generate release files",
	Long: `curlcraft converts a request capture (a JSON log entry with the request
under "_source" or "fields") into a ready-to-paste cURL command, in a
formatted multi-line version and a single-line version.

It also generates "[RELEASE] <service>-<tag>.txt" marker files and keeps a
list of the recently generated ones.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(verbose)
		return initConfig()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFilePath, "config", "", "config file (default is $HOME/.curlcraft.yaml)")
	flags.BoolVar(&verbose, "verbose", false, "Enable debug logging.")
	flags.String("base-url", capture.DefaultBaseURL, "Origin prepended to a capture's uri.")
	flags.String("method-fallback", "unknown", `Method used when a capture has none: "unknown" or "post".`)
	flags.StringSlice("variants", []string{"source", "fields"}, "Enabled capture shapes in priority order.")
	flags.Bool("strict-escaping", false, "Escape single quotes embedded in arguments.")
	flags.String("db", "", "Recent-files database (default is $HOME/.curlcraft-recent.db)")

	bindFlag("base_url", "base-url")
	bindFlag("method_fallback", "method-fallback")
	bindFlag("variants", "variants")
	bindFlag("strict_escaping", "strict-escaping")
	bindFlag("db_path", "db")

	rootCmd.AddCommand(
		newCurlCmd(),
		newReleaseCmd(),
		newRecentCmd(),
		newServeCmd(),
		newConfigCmd(),
	)
}

func bindFlag(key, flag string) {
	if err := settings.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			slog.Error(err.Error())
		}
		os.Exit(1)
	}
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func initConfig() error {
	setDefaults(settings)
	settings.SetEnvPrefix(EnvPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	settings.SetConfigType("yaml")

	if cfgFilePath != "" {
		settings.SetConfigFile(cfgFilePath)
	} else {
		if home, err := homedir.Dir(); err == nil {
			settings.AddConfigPath(home)
		}
		settings.SetConfigName(ConfigFileName)
	}

	if err := settings.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFilePath != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		slog.Debug("No config file found, using defaults")
	} else {
		slog.Debug("Using config file", "path", settings.ConfigFileUsed())
	}

	c, err := loadConfig(settings)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}
