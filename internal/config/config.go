package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the varscrub configuration.
type Config struct {
	VarsFile     string        `json:"varsFile"`
	InputFile    string        `json:"inputFile"`
	OutputFile   string        `json:"outputFile,omitempty"`
	LegendMarker string        `json:"legendMarker"`
	Format       string        `json:"format"`
	SkipValues   []string      `json:"skipValues,omitempty"`
	Privacy      PrivacyConfig `json:"privacy"`
}

// PrivacyConfig controls the optional heuristic secret pass.
type PrivacyConfig struct {
	RedactSecrets bool `json:"redactSecrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		VarsFile:     filepath.Join("terraform", "environments", "cicd", "terraform.tfvars"),
		InputFile:    filepath.Join("Architecture", "azure_files_poc_architecture_diagram.drawio"),
		LegendMarker: "PLACEHOLDER MAPPING LEGEND",
		Format:       "text",
	}
}

// OutputPath returns the configured output file, or one derived from the
// input file when none is set.
func (c Config) OutputPath() string {
	if c.OutputFile != "" {
		return c.OutputFile
	}
	return DefaultOutputPath(c.InputFile)
}

// DefaultOutputPath inserts "_sanitized" before the extension of input.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_sanitized" + ext
}

// ConfigDir returns the platform-appropriate config directory for varscrub.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "varscrub"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "varscrub"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "varscrub"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "varscrub"), nil
	default:
		return filepath.Join(home, ".config", "varscrub"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.VarsFile != "" {
		dst.VarsFile = src.VarsFile
	}
	if src.InputFile != "" {
		dst.InputFile = src.InputFile
	}
	if src.OutputFile != "" {
		dst.OutputFile = src.OutputFile
	}
	if src.LegendMarker != "" {
		dst.LegendMarker = src.LegendMarker
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if len(src.SkipValues) > 0 {
		dst.SkipValues = src.SkipValues
	}
	// JSON can't distinguish an unset bool from false; the default is off,
	// so only an explicit true from the file changes it.
	dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets || dst.Privacy.RedactSecrets
}

func mergeEnv(cfg *Config) error {
	if v := os.Getenv("VARSCRUB_VARS"); v != "" {
		cfg.VarsFile = v
	}
	if v := os.Getenv("VARSCRUB_INPUT"); v != "" {
		cfg.InputFile = v
	}
	if v := os.Getenv("VARSCRUB_OUTPUT"); v != "" {
		cfg.OutputFile = v
	}
	if v := os.Getenv("VARSCRUB_LEGEND_MARKER"); v != "" {
		cfg.LegendMarker = v
	}
	if v := os.Getenv("VARSCRUB_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("VARSCRUB_REDACT_SECRETS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("VARSCRUB_REDACT_SECRETS must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "varsFile":
		cfg.VarsFile = value
	case "inputFile":
		cfg.InputFile = value
	case "outputFile":
		cfg.OutputFile = value
	case "legendMarker":
		cfg.LegendMarker = value
	case "format":
		cfg.Format = value
	case "skipValues":
		cfg.SkipValues = splitList(value)
	case "redactSecrets":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("redactSecrets must be a boolean: %w", err)
		}
		cfg.Privacy.RedactSecrets = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
