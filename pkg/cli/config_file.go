package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// These are the settings a config file can hold. Flags given on the command
// line are applied on top.
type fileConfig struct {
	Format         string             `json:"format" yaml:"format"`
	ColorSpace     string             `json:"colorSpace" yaml:"colorSpace"`
	CurrentColor   string             `json:"currentColor" yaml:"currentColor"`
	D50            bool               `json:"d50" yaml:"d50"`
	CustomProperty map[string]string  `json:"customProperty" yaml:"customProperty"`
	Dimension      map[string]float64 `json:"dimension" yaml:"dimension"`
}

// The format is picked by file extension. INI files keep the scalar
// settings in an "[options]" section and the maps in "[customProperty]" and
// "[dimension]" sections.
func loadConfigFile(path string) (fileConfig, error) {
	var cfg fileConfig

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "Failed to read config file %q", path)
		}
		if ext == ".json" {
			err = json.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}
		if err != nil {
			return cfg, errors.Wrapf(err, "Failed to parse config file %q", path)
		}

	case ".ini":
		file, err := ini.Load(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "Failed to read config file %q", path)
		}
		options := file.Section("options")
		cfg.Format = options.Key("format").String()
		cfg.ColorSpace = options.Key("colorSpace").String()
		cfg.CurrentColor = options.Key("currentColor").String()
		cfg.D50 = options.Key("d50").MustBool(false)

		if section, err := file.GetSection("customProperty"); err == nil {
			cfg.CustomProperty = section.KeysHash()
		}
		if section, err := file.GetSection("dimension"); err == nil {
			cfg.Dimension = make(map[string]float64)
			for _, key := range section.Keys() {
				value, err := key.Float64()
				if err != nil {
					return cfg, errors.Wrapf(err, "Invalid dimension %q in config file %q", key.Name(), path)
				}
				cfg.Dimension[key.Name()] = value
			}
		}

	default:
		return cfg, errors.Errorf("Unsupported config file extension %q (expected .yaml, .yml, .json or .ini)", ext)
	}

	cfg.CustomProperty = normalizePropertyNames(cfg.CustomProperty)
	return cfg, nil
}

// Custom property names may be written without the leading "--"
func normalizePropertyNames(props map[string]string) map[string]string {
	if props == nil {
		return nil
	}
	result := make(map[string]string, len(props))
	for name, value := range props {
		name = strings.TrimSpace(name)
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		result[name] = value
	}
	return result
}
