package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"

	"sharpjs/report"
)

// tomlOptions represents compilation options as they are encoded in the
// project file.
type tomlOptions struct {
	Name             string `toml:"name"`
	Debug            bool   `toml:"debug"`
	LogLevel         string `toml:"log-level"`
	WarnInlineUse    bool   `toml:"warn-inline-delegates"`
	RemotingProvider string `toml:"remoting-provider"`
}

// Options are the translation options the driver runs with.
type Options struct {
	// Name is the project name, used in the driver summary.
	Name string

	// Debug enables the invalid-form check on compiled bodies.
	Debug bool

	// LogLevel selects how much the driver prints; one of the report
	// log-level constants.
	LogLevel int

	// WarnInlineDelegates controls the warning on delegates created from
	// members without a stable function identity.
	WarnInlineDelegates bool

	// RemotingProvider overrides the default remoting provider address
	// (dot-separated path); empty selects the built-in provider.
	RemotingProvider string
}

// Default returns the options used when no project file is given.
func Default() *Options {
	return &Options{
		LogLevel:            report.LogLevelWarn,
		WarnInlineDelegates: true,
	}
}

var logLevelNames = map[string]int{
	"silent":  report.LogLevelSilent,
	"error":   report.LogLevelError,
	"warn":    report.LogLevelWarn,
	"verbose": report.LogLevelVerbose,
}

// Load reads and validates a project file.
func Load(path string) (*Options, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read project file at `%s`: %w", path, err)
	}

	tomlOpts := &tomlOptions{LogLevel: "warn", WarnInlineUse: true}
	if err := toml.Unmarshal(buff, tomlOpts); err != nil {
		return nil, fmt.Errorf("error parsing project file at `%s`: %w", path, err)
	}

	level, ok := logLevelNames[tomlOpts.LogLevel]
	if !ok {
		return nil, fmt.Errorf("invalid log level `%s` in project file at `%s`", tomlOpts.LogLevel, path)
	}

	return &Options{
		Name:                tomlOpts.Name,
		Debug:               tomlOpts.Debug,
		LogLevel:            level,
		WarnInlineDelegates: tomlOpts.WarnInlineUse,
		RemotingProvider:    tomlOpts.RemotingProvider,
	}, nil
}
