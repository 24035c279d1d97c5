package conf

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.sr.ht/~spc/go-log"
	"github.com/google/go-cmp/cmp"
)

// Helper functions for creating pointer values in DTO tests
func stringPtr(s string) *string { return &s }

func TestConfig_Update(t *testing.T) {
	tests := []struct {
		name     string
		base     Config
		overlay  configDTO
		expected Config
	}{
		{
			name: "overlay replaces values",
			base: Config{
				UwsgiBinary: "uwsgi",
				LogLevel:    log.LevelInfo,
			},
			overlay: configDTO{
				UwsgiBinary: stringPtr("/opt/uwsgi/bin/uwsgi"),
				LogLevel:    stringPtr("DEBUG"),
			},
			expected: Config{
				UwsgiBinary: "/opt/uwsgi/bin/uwsgi",
				LogLevel:    log.LevelDebug,
			},
		},
		{
			name: "overlay partial update",
			base: Config{
				UwsgiBinary: "uwsgi",
				GoBinary:    "go",
				LogLevel:    log.LevelInfo,
			},
			overlay: configDTO{
				LogLevel: stringPtr("warn"),
			},
			expected: Config{
				UwsgiBinary: "uwsgi",
				GoBinary:    "go",
				LogLevel:    log.LevelWarn,
			},
		},
		{
			name: "empty overlay does nothing",
			base: Config{
				UwsgiBinary: "uwsgi",
				LogLevel:    log.LevelInfo,
			},
			overlay: configDTO{},
			expected: Config{
				UwsgiBinary: "uwsgi",
				LogLevel:    log.LevelInfo,
			},
		},
		{
			name: "overlay can set empty strings",
			base: Config{
				GoBinary:   "go",
				RuntimeDir: "/run/app",
			},
			overlay: configDTO{
				GoBinary:   stringPtr(""),
				RuntimeDir: stringPtr(""),
			},
			expected: Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.base
			result.Update(tt.overlay)
			if diff := cmp.Diff(tt.expected, result); diff != "" {
				t.Errorf("Update() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigSource_ReadFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name        string
		fileContent string
		setupFile   bool
		expectError bool
		expected    Config
	}{
		{
			name: "valid config file",
			fileContent: `uwsgi-binary = "/usr/local/bin/uwsgi"
log-level = "DEBUG"
runtime-dir = "/run/apps"
`,
			setupFile: true,
			expected: Config{
				UwsgiBinary: "/usr/local/bin/uwsgi",
				GoBinary:    "go",
				RuntimeDir:  "/run/apps",
				LogLevel:    log.LevelDebug,
			},
		},
		{
			name:      "missing file uses defaults",
			setupFile: false,
			expected: Config{
				UwsgiBinary: "uwsgi",
				GoBinary:    "go",
				LogLevel:    log.LevelInfo,
			},
		},
		{
			name:        "malformed file is an error",
			fileContent: "uwsgi-binary = ",
			setupFile:   true,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(tmpDir, "test-"+tt.name+".toml")

			if tt.setupFile {
				if err := os.WriteFile(testFile, []byte(tt.fileContent), 0644); err != nil {
					t.Fatalf("failed to write test file: %v", err)
				}
			}

			source := &ConfigSource{Path: testFile, DropInDir: filepath.Join(tmpDir, "nonexistent")}
			result, err := source.Read()

			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.expectError {
				if diff := cmp.Diff(tt.expected, result); diff != "" {
					t.Errorf("Read() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestParseConfigDTO(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		expected    configDTO
	}{
		{
			name: "valid TOML string",
			input: `
uwsgi-binary = "/usr/bin/uwsgi"
go-binary = "/usr/lib/go/bin/go"
`,
			expected: configDTO{
				UwsgiBinary: stringPtr("/usr/bin/uwsgi"),
				GoBinary:    stringPtr("/usr/lib/go/bin/go"),
			},
		},
		{
			name:     "empty string",
			input:    "",
			expected: configDTO{},
		},
		{
			name:        "invalid TOML",
			input:       "not valid toml ===",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseConfigDTO(tt.input)

			if tt.expectError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.expectError {
				if diff := cmp.Diff(tt.expected, result); diff != "" {
					t.Errorf("parseConfigDTO() mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestConfigSource_FullStack(t *testing.T) {
	tmpDir := t.TempDir()
	mainConfigPath := filepath.Join(tmpDir, "config.toml")
	dropinDir := filepath.Join(tmpDir, "config.toml.d")

	if err := os.Mkdir(dropinDir, 0755); err != nil {
		t.Fatalf("failed to create drop-in directory: %v", err)
	}

	t.Run("full configuration stack", func(t *testing.T) {
		mainConfig := `
uwsgi-binary = "/usr/sbin/uwsgi"
log-level = "INFO"
runtime-dir = "/run/main"
`
		if err := os.WriteFile(mainConfigPath, []byte(mainConfig), 0644); err != nil {
			t.Fatalf("failed to write main config: %v", err)
		}

		dropinFiles := map[string]string{
			"10-go.toml":      `go-binary = "/opt/go/bin/go"`,
			"20-debug.toml":   `log-level = "DEBUG"`,
			"30-runtime.toml": `runtime-dir = "/run/custom"`,
		}

		for filename, content := range dropinFiles {
			path := filepath.Join(dropinDir, filename)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write drop-in file %s: %v", filename, err)
			}
		}

		cs := &ConfigSource{Path: mainConfigPath, DropInDir: dropinDir}
		config, err := cs.Read()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// Defaults < Main < Drop-ins (in order)
		want := Config{
			UwsgiBinary: "/usr/sbin/uwsgi",
			GoBinary:    "/opt/go/bin/go",
			RuntimeDir:  "/run/custom",
			LogLevel:    log.LevelDebug,
		}
		if diff := cmp.Diff(want, config); diff != "" {
			t.Errorf("Read() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("drop-in shadowing", func(t *testing.T) {
		tmpDir2 := t.TempDir()
		mainPath2 := filepath.Join(tmpDir2, "config.toml")
		dropinDir2 := filepath.Join(tmpDir2, "config.toml.d")
		if err := os.Mkdir(dropinDir2, 0755); err != nil {
			t.Fatal(err)
		}

		writeFile(t, mainPath2, `log-level = "INFO"`)
		writeFile(t, filepath.Join(dropinDir2, "10-first.toml"), `log-level = "WARN"`)
		writeFile(t, filepath.Join(dropinDir2, "20-second.toml"), `log-level = "DEBUG"`)
		writeFile(t, filepath.Join(dropinDir2, "30-ignored.conf"), `log-level = "ERROR"`)

		cs := &ConfigSource{Path: mainPath2, DropInDir: dropinDir2}
		config, err := cs.Read()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.LogLevel != log.LevelDebug {
			t.Errorf("expected LogLevel=DEBUG, got %v", config.LogLevel)
		}
	})
}

func TestEmbeddedDefault(t *testing.T) {
	dto, err := parseConfigDTO(defaultConfig)
	if err != nil {
		t.Fatalf("embedded default config is invalid: %v", err)
	}

	config := Config{}
	config.Update(dto)

	want := Config{
		UwsgiBinary: "uwsgi",
		GoBinary:    "go",
		LogLevel:    log.LevelInfo,
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoad_FallsBackAndLogs(t *testing.T) {
	var buf bytes.Buffer
	writer, level := log.Writer(), log.CurrentLevel()
	log.SetOutput(&buf)
	log.SetLevel(log.LevelInfo)
	t.Cleanup(func() {
		log.SetOutput(writer)
		log.SetLevel(level)
	})

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")
	writeFile(t, path, "uwsgi-binary = ")

	config := load(&ConfigSource{Path: path, DropInDir: filepath.Join(tmpDir, "config.toml.d")})

	want := Config{
		UwsgiBinary: "uwsgi",
		GoBinary:    "go",
		LogLevel:    log.LevelInfo,
	}
	if diff := cmp.Diff(want, config); diff != "" {
		t.Errorf("load() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "cannot load configuration") || !strings.Contains(buf.String(), path) {
		t.Errorf("expected the read error to be logged, got %q", buf.String())
	}
}
