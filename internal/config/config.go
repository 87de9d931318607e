// Package config loads cxxfilt settings from flags, CXXFILT_* environment
// variables and an optional config file.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skdltmxn/cxxdemangle/demangle"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CXXFILT"

type Config struct {
	NoParams       bool          `mapstructure:"no-params"`
	NoReturnType   bool          `mapstructure:"no-return-type"`
	LiteralCase    string        `mapstructure:"literal-case"`
	RecursionLimit int           `mapstructure:"recursion-limit"`
	OutputLimit    int           `mapstructure:"output-limit"`
	InputLimit     int           `mapstructure:"input-limit"`
	CompactAngles  bool          `mapstructure:"compact-angles"`
	Jobs           int           `mapstructure:"jobs"`
	LogLevel       string        `mapstructure:"log-level"`
	LogFormat      string        `mapstructure:"log-format"`
	ServerAddress  string        `mapstructure:"server-address"`
	ShutdownGrace  time.Duration `mapstructure:"shutdown-grace"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		LiteralCase:    "lower",
		RecursionLimit: demangle.DefaultMaxDepth,
		OutputLimit:    demangle.DefaultMaxOutput,
		InputLimit:     demangle.DefaultMaxInput,
		Jobs:           4,
		LogLevel:       "warn",
		LogFormat:      "console",
		ServerAddress:  "localhost:8080",
		ShutdownGrace:  5 * time.Second,
	}
}

// Load merges, from lowest to highest precedence, the defaults, the config
// file at path (skipped when empty), the environment and the flags that
// were set explicitly.
func Load(path string, flags *pflag.FlagSet) (config Config, err error) {
	v := viper.New()

	def := Default()
	v.SetDefault("no-params", def.NoParams)
	v.SetDefault("no-return-type", def.NoReturnType)
	v.SetDefault("literal-case", def.LiteralCase)
	v.SetDefault("recursion-limit", def.RecursionLimit)
	v.SetDefault("output-limit", def.OutputLimit)
	v.SetDefault("input-limit", def.InputLimit)
	v.SetDefault("compact-angles", def.CompactAngles)
	v.SetDefault("jobs", def.Jobs)
	v.SetDefault("log-level", def.LogLevel)
	v.SetDefault("log-format", def.LogFormat)
	v.SetDefault("server-address", def.ServerAddress)
	v.SetDefault("shutdown-grace", def.ShutdownGrace)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("cannot read config file: %w", err)
			return
		}
	}

	if flags != nil {
		if err = v.BindPFlags(flags); err != nil {
			err = fmt.Errorf("cannot bind flags: %w", err)
			return
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		err = fmt.Errorf("cannot decode config: %w", err)
		return
	}

	err = config.Validate()
	return
}

// Validate checks the fields the demangler does not check itself.
func (config Config) Validate() error {
	if config.Jobs <= 0 {
		return fmt.Errorf("jobs must be positive, got %d", config.Jobs)
	}
	if _, err := zerolog.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}
	switch config.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format %q: want console or json", config.LogFormat)
	}
	if _, err := demangle.ParseLiteralCase(config.LiteralCase); err != nil {
		return err
	}
	return nil
}

// DemangleOptions translates the configuration into demangle options.
// The returned options are checked with demangle.Options.Validate.
func (config Config) DemangleOptions(logger zerolog.Logger) ([]demangle.Option, error) {
	lc, err := demangle.ParseLiteralCase(config.LiteralCase)
	if err != nil {
		return nil, err
	}

	o := demangle.DefaultOptions()
	o.NoParams = config.NoParams
	o.NoReturnType = config.NoReturnType
	o.Literals = lc
	o.MaxDepth = config.RecursionLimit
	o.MaxOutput = config.OutputLimit
	o.MaxInput = config.InputLimit
	o.CompactAngles = config.CompactAngles
	o.Logger = logger
	if err := o.Validate(); err != nil {
		return nil, err
	}

	return []demangle.Option{demangle.WithOptions(o)}, nil
}

// Logger builds a logger writing to w. A nil w means stderr.
func (config Config) Logger(w io.Writer) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(config.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", config.LogLevel, err)
	}

	out := w
	if config.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
