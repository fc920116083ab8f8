package cli

import (
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional YAML configuration file the router binary
// accepts via --config, loaded the way the teacher's pkg/config loads
// its own YAML mock configs.
type FileConfig struct {
	Port      int      `yaml:"port"`
	AdminPort int      `yaml:"admin_port"`
	Realms    []string `yaml:"realms"`
	LogLevel  string   `yaml:"log_level"`
	LogFormat string   `yaml:"log_format"`
}

// LoadFileConfig reads and parses a YAML config file at path.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
