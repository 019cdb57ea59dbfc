package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/torsaan/fkb/pkg/fkb"
)

const defaultConfigFile = "fkb.toml"

// config is the fkb.toml file. Command line flags override it.
type config struct {
	Standard    string `toml:"standard"`
	Strict      bool   `toml:"strict"`
	RulesDir    string `toml:"rules_dir"`
	Workers     int    `toml:"workers"`
	NetworkType string `toml:"network_type"`
	LogLevel    string `toml:"log_level"`
}

func defaultConfig() config {
	return config{
		Standard: string(fkb.DefaultOptions().Standard),
		Workers:  runtime.NumCPU(),
		LogLevel: "warn",
	}
}

// loadConfig reads a TOML config file. An empty path reads fkb.toml from
// the working directory when it exists.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return cfg, nil
		}
		path = defaultConfigFile
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// commonFlags are shared by the commands that read rules or log
type commonFlags struct {
	configPath string
	logLevel   string
	rulesDir   string
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (default ./"+defaultConfigFile+" if present)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.Flags().StringVar(&f.rulesDir, "rules", "", "rule table directory (default: embedded rules)")
}

// resolve loads the config file and applies the flags set on cmd
func (f *commonFlags) resolve(cmd *cobra.Command) (config, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if cmd.Flags().Changed("rules") {
		cfg.RulesDir = f.rulesDir
	}
	return cfg, nil
}

// newLogger builds a text logger on w
func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var l slog.Level
	if level == "" {
		level = "warn"
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

func loadRules(cfg config, logger *slog.Logger) *fkb.Rules {
	if cfg.RulesDir == "" {
		return fkb.DefaultRules()
	}
	return fkb.LoadRules(cfg.RulesDir, fkb.RuleOptions{Logger: logger})
}
