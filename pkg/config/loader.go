package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/orcvector/pkg/errors"
)

// EnvPrefix prefixes environment overrides, e.g. ORCVECTOR_MEMORY_LIMIT_BYTES.
const EnvPrefix = "ORCVECTOR"

// Load reads the configuration at filePath, applies environment overrides
// and validates the result. An empty filePath loads defaults plus
// environment overrides only.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filePath != "" {
		data, err := os.ReadFile(filePath) //nolint:gosec // G304: path comes from the operator
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read config file").
				WithDetail("path", filePath)
		}
		if err := v.ReadConfig(bytes.NewReader([]byte(ExpandEnv(string(data))))); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse YAML").
				WithDetail("path", filePath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve overrides
// even when the file omits them.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("memory.limit_bytes", d.Memory.LimitBytes)
	v.SetDefault("memory.limit_percent", d.Memory.LimitPercent)
	v.SetDefault("memory.recycle_bytes", d.Memory.RecycleBytes)
	v.SetDefault("batch.default_capacity", d.Batch.DefaultCapacity)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.development", d.Logging.Development)
	v.SetDefault("logging.encoding", d.Logging.Encoding)
	v.SetDefault("logging.output_paths", d.Logging.OutputPaths)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
}

// Save writes cfg to filePath as YAML.
func Save(filePath string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to marshal YAML")
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil { //nolint:gosec
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write config file").
			WithDetail("path", filePath)
	}

	return nil
}

// ExpandEnv replaces ${VAR_NAME} with environment variable values. Unset
// variables expand to the empty string. Substituted values are not scanned
// again.
func ExpandEnv(content string) string {
	var sb strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		sb.WriteString(content[:start])
		sb.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	sb.WriteString(content)
	return sb.String()
}
