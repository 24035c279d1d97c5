package conf

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/BurntSushi/toml"
)

func init() {
	Configuration = load(&ConfigSource{
		Path:      "/etc/uwsgiconf/config.toml",
		DropInDir: "/etc/uwsgiconf/config.toml.d/",
	})
}

// load reads sources, falling back to the embedded defaults when any
// layer is unreadable or malformed.
func load(sources *ConfigSource) Config {
	config, err := sources.Read()
	if err != nil {
		log.Errorf("cannot load configuration, using defaults: %v", err)
		dto, parseErr := parseConfigDTO(defaultConfig)
		if parseErr != nil {
			panic(fmt.Sprintf("failed to parse embedded defaults: %v", parseErr))
		}
		config = Config{}
		config.Update(dto)
	}
	return config
}

// defaultConfig contains the embedded default configuration file.
// It is the base layer applied before /etc/uwsgiconf/config.toml and
// drop-in files.
//
//go:embed config.toml
var defaultConfig string

// Configuration is the global immutable state.
var Configuration Config

// Config represents the immutable public configuration object.
type Config struct {
	// UwsgiBinary is the server binary spawned by the runner.
	UwsgiBinary string
	// GoBinary runs configuration programs given as Go sources.
	GoBinary   string
	RuntimeDir string
	LogLevel   log.Level
}

// Update applies non-nil values from a configDTO.
func (c *Config) Update(dto configDTO) {
	if dto.UwsgiBinary != nil {
		c.UwsgiBinary = *dto.UwsgiBinary
	}
	if dto.GoBinary != nil {
		c.GoBinary = *dto.GoBinary
	}
	if dto.RuntimeDir != nil {
		c.RuntimeDir = *dto.RuntimeDir
	}
	if dto.LogLevel != nil {
		switch strings.ToUpper(*dto.LogLevel) {
		case "TRACE":
			c.LogLevel = log.LevelTrace
		case "DEBUG":
			c.LogLevel = log.LevelDebug
		case "INFO":
			c.LogLevel = log.LevelInfo
		case "WARN":
			c.LogLevel = log.LevelWarn
		case "ERROR":
			c.LogLevel = log.LevelError
		}
	}
}

// ConfigSource orchestrates loading configuration from multiple sources.
// See the Read method.
type ConfigSource struct {
	Path      string
	DropInDir string
}

// Read loads and returns the complete Config by merging all layers:
// 1. Embedded defaults
// 2. Main configuration file
// 3. Drop-in files
func (cs *ConfigSource) Read() (Config, error) {
	resolved := Config{}

	dto, err := parseConfigDTO(defaultConfig)
	if err != nil {
		return resolved, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	resolved.Update(dto)

	data, err := os.ReadFile(cs.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			// Existing but unreadable file should result in failure.
			return resolved, fmt.Errorf("failed to load %s: %w", cs.Path, err)
		}
	} else {
		mainDTO, err := parseConfigDTO(string(data))
		if err != nil {
			return resolved, fmt.Errorf("failed to parse %s: %w", cs.Path, err)
		}
		resolved.Update(mainDTO)
	}

	dropInDTOs, err := cs.parseDropInFiles()
	if err != nil {
		return resolved, err
	}
	for _, dropInDTO := range dropInDTOs {
		resolved.Update(dropInDTO)
	}

	return resolved, nil
}

type configDTO struct {
	UwsgiBinary *string `toml:"uwsgi-binary"`
	GoBinary    *string `toml:"go-binary"`
	RuntimeDir  *string `toml:"runtime-dir"`
	LogLevel    *string `toml:"log-level"`
}

// parseConfigDTO parses a TOML string into a configDTO.
func parseConfigDTO(data string) (configDTO, error) {
	var dto configDTO

	if err := toml.Unmarshal([]byte(data), &dto); err != nil {
		return dto, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return dto, nil
}

// findDropInFiles returns sorted paths to drop-in configuration files.
// Returns nil if the drop-in directory doesn't exist (not an error).
func (cs *ConfigSource) findDropInFiles() ([]string, error) {
	if _, err := os.Stat(cs.DropInDir); os.IsNotExist(err) {
		return nil, nil
	}

	entries, err := os.ReadDir(cs.DropInDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read drop-in directory %s: %w", cs.DropInDir, err)
	}

	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".toml") {
			filenames = append(filenames, filepath.Join(cs.DropInDir, entry.Name()))
		}
	}

	sort.Strings(filenames)

	return filenames, nil
}

// parseDropInFiles loads .toml files.
func (cs *ConfigSource) parseDropInFiles() ([]configDTO, error) {
	paths, err := cs.findDropInFiles()
	if err != nil {
		return nil, err
	}

	var dtos []configDTO
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		dto, err := parseConfigDTO(string(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}

		dtos = append(dtos, dto)
	}

	return dtos, nil
}
