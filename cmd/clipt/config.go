package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipt/internal/logging"
)

const envPrefix = "CLIPT"

// bindViper wires a command's flags into a viper instance so every option
// resolves through the usual precedence: flag > env > config file > default.
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}

	v.SetConfigName("clipt")
	v.SetConfigType("toml")
	v.AddConfigPath("/etc/clipt")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "clipt"))
	}
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file")
}

func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-level", "warn", "log level: debug|info|warn|error")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
}

func setupLogging(v *viper.Viper) {
	logging.Setup(
		logging.ParseFormat(v.GetString("log-format")),
		logging.ParseLevel(v.GetString("log-level")),
	)
}
