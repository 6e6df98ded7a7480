package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format is a config file format
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// DetectFormat picks the format from the file extension
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

// Load reads the file at path. Keys missing from the file keep their
// Default values. The result is not validated.
func Load(path string) (Config, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return Parse(data, format)
}

// Parse decodes data in the given format on top of Default. Empty data
// yields the defaults.
func Parse(data []byte, format Format) (Config, error) {
	var parser koanf.Parser
	switch format {
	case FormatYAML:
		parser = yaml.Parser()
	case FormatJSON:
		parser = json.Parser()
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	cfg := Default()
	if len(data) == 0 {
		return cfg, nil
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}
	if err := applyLimits(k, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyLimits maps an explicit null on a limit key to unlimited and
// rejects explicit non-positive values, which in Config would otherwise
// read as unlimited.
func applyLimits(k *koanf.Koanf, cfg *Config) error {
	limits := []struct {
		key string
		set func()
	}{
		{"file_size_limit", func() { cfg.FileSizeLimit = 0 }},
		{"retained_file_count_limit", func() { cfg.RetainedFileCountLimit = 0 }},
	}
	for _, l := range limits {
		if !k.Exists(l.key) {
			continue
		}
		if k.Get(l.key) == nil {
			l.set()
			continue
		}
		if v := k.Int64(l.key); v <= 0 {
			return fmt.Errorf("%w: %s must be positive or null for unlimited, got %d", ErrInvalidConfig, l.key, v)
		}
	}
	return nil
}
