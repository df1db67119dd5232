// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/asbuiltproj/asbuilt-mcp/internal/render"
)

// EnvPrefix prefixes every configuration environment variable, e.g.
// ASBUILT_LOG_LEVEL.
const EnvPrefix = "ASBUILT"

const (
	keyConfig   = "config"
	keyCatalog  = "catalog"
	keyLogLevel = "log-level"
	keyOutput   = "output"
	keyColor    = "color"
)

// ErrUnknownColorMode reports a color setting other than auto, always or never.
var ErrUnknownColorMode = errors.New("unknown color mode")

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func (c *ColorMode) UnmarshalText(text []byte) error {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(string(text)))); mode {
	case "":
		*c = ColorAuto
	case ColorAuto, ColorAlways, ColorNever:
		*c = mode
	default:
		return fmt.Errorf("%w: %q (want auto, always or never)", ErrUnknownColorMode, string(text))
	}
	return nil
}

// Config is the resolved application configuration.
type Config struct {
	Catalog  string        `mapstructure:"catalog"`
	LogLevel logrus.Level  `mapstructure:"log-level"`
	Output   render.Format `mapstructure:"output"`
	Color    ColorMode     `mapstructure:"color"`
}

// ColorEnabled decides whether output written to w is styled.
func (c Config) ColorEnabled(w io.Writer) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}

// bindFlags registers the persistent configuration flags on cmd and binds them
// to v.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String(keyConfig, "", "Config file (default ./asbuilt.yaml or $HOME/.config/asbuilt/asbuilt.yaml)")
	flags.String(keyCatalog, "", "YAML lookup tables merged over the built-in module and F-code names")
	flags.String(keyLogLevel, "info", "Log level (trace, debug, info, warn, error)")
	flags.StringP(keyOutput, "o", string(render.FormatText), "Output format (text, yaml, json)")
	flags.String(keyColor, string(ColorAuto), "Colorize output (auto, always, never)")

	for _, key := range []string{keyConfig, keyCatalog, keyLogLevel, keyOutput, keyColor} {
		_ = v.BindPFlag(key, flags.Lookup(key))
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyOutput, string(render.FormatText))
	v.SetDefault(keyColor, string(ColorAuto))
	return v
}

// loadConfig reads the optional config file and decodes every key into Config.
// A missing default config file is not an error; a missing --config file is.
func loadConfig(v *viper.Viper) (Config, error) {
	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("asbuilt")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "asbuilt"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	decoderConfig := func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
		)
	}
	if err := v.Unmarshal(&cfg, decoderConfig); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:      cfg.Color == ColorAlways,
		DisableColors:    cfg.Color == ColorNever,
		DisableTimestamp: true,
	})
	logger.SetLevel(cfg.LogLevel)
	return logger
}
