package config

import (
	"os"
	"path/filepath"
	"testing"

	"sharpjs/report"
)

func writeProjectFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sharpjs.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing project file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeProjectFile(t, `
name = "sample"
debug = true
log-level = "verbose"
remoting-provider = "My.Provider"
`)

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if opts.Name != "sample" || !opts.Debug {
		t.Errorf("options are %+v", opts)
	}
	if opts.LogLevel != report.LogLevelVerbose {
		t.Errorf("log level is %d", opts.LogLevel)
	}
	if opts.RemotingProvider != "My.Provider" {
		t.Errorf("remoting provider is %q", opts.RemotingProvider)
	}
}

func TestLoadDefaultsLogLevel(t *testing.T) {
	path := writeProjectFile(t, `name = "sample"`)

	opts, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if opts.LogLevel != report.LogLevelWarn {
		t.Errorf("default log level is %d", opts.LogLevel)
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeProjectFile(t, `log-level = "chatty"`)

	if _, err := Load(path); err == nil {
		t.Error("invalid log level must be rejected")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file must be reported")
	}
}
