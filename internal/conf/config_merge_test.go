package conf

import (
	"os"
	"path/filepath"
	"testing"

	"git.sr.ht/~spc/go-log"
)

// TestMissingKeysInDropin tests what happens when a drop-in file
// doesn't specify certain keys - they should NOT overwrite the base config
func TestMissingKeysInDropin(t *testing.T) {
	tmpDir := t.TempDir()
	mainConfigPath := filepath.Join(tmpDir, "config.toml")
	dropinDir := filepath.Join(tmpDir, "config.toml.d")
	os.Mkdir(dropinDir, 0755)

	// Main config has all values set
	mainConfig := `
uwsgi-binary = "/opt/uwsgi/uwsgi"
go-binary = "/opt/go/bin/go"
log-level = "INFO"
runtime-dir = "/run/projects"
`
	os.WriteFile(mainConfigPath, []byte(mainConfig), 0644)

	// Drop-in file only sets log-level, nothing else
	dropinConfig := `
log-level = "DEBUG"
`
	os.WriteFile(filepath.Join(dropinDir, "10-debug.toml"), []byte(dropinConfig), 0644)

	cs := &ConfigSource{Path: mainConfigPath, DropInDir: dropinDir}
	config, err := cs.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.UwsgiBinary != "/opt/uwsgi/uwsgi" {
		t.Errorf("expected UwsgiBinary=/opt/uwsgi/uwsgi (preserved!), got %s", config.UwsgiBinary)
	}
	if config.GoBinary != "/opt/go/bin/go" {
		t.Errorf("expected GoBinary=/opt/go/bin/go (preserved!), got %s", config.GoBinary)
	}
	if config.LogLevel != log.LevelDebug {
		t.Errorf("expected LogLevel=DEBUG (overridden), got %v", config.LogLevel)
	}
	if config.RuntimeDir != "/run/projects" {
		t.Errorf("expected RuntimeDir=/run/projects (preserved!), got %s", config.RuntimeDir)
	}
}

// TestEmptyStringOverwrite tests if we can actually set values to empty strings
func TestEmptyStringOverwrite(t *testing.T) {
	tmpDir := t.TempDir()
	mainConfigPath := filepath.Join(tmpDir, "config.toml")
	dropinDir := filepath.Join(tmpDir, "config.toml.d")
	os.Mkdir(dropinDir, 0755)

	mainConfig := `
runtime-dir = "/run/projects"
go-binary = "/opt/go/bin/go"
`
	os.WriteFile(mainConfigPath, []byte(mainConfig), 0644)

	dropinConfig := `
runtime-dir = ""
go-binary = ""
`
	os.WriteFile(filepath.Join(dropinDir, "10-override.toml"), []byte(dropinConfig), 0644)

	cs := &ConfigSource{Path: mainConfigPath, DropInDir: dropinDir}
	config, err := cs.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.RuntimeDir != "" {
		t.Errorf("runtime-dir was not overridden to empty: got %s", config.RuntimeDir)
	}
	if config.GoBinary != "" {
		t.Errorf("go-binary was not overridden to empty: got %s", config.GoBinary)
	}
}
