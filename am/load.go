package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/kin/errors"
)

// ProjectFile is the name of the project config searched upward from the
// working directory, and of the user config under ~/.kin.
const ProjectFile = "am.toml"

// EnvPrefix prefixes environment overrides: dates.order is KIN_DATES_ORDER.
const EnvPrefix = "KIN"

var systemConfigPath = "/etc/kin/config.toml"

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper

	// ConfigSources records which file set each key during the last load.
	// Keys absent from the map come from defaults or the environment.
	ConfigSources = map[string]SourceInfo{}
)

// Load reads, validates and caches the configuration.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return cfg, nil
}

// GetViper returns the merged Viper instance.
func GetViper() *viper.Viper {
	mu.Lock()
	defer mu.Unlock()
	return initViper()
}

// LoadWithViper unmarshals and validates the configuration held by v.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// LoadFromFile loads defaults plus the single file at path, ignoring the
// environment and the other config locations.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig walks up from the working directory looking for am.toml.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// UserConfigPath returns ~/.kin/am.toml, or "" without a home directory.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kin", ProjectFile)
}

type configFile struct {
	path   string
	source ConfigSource
}

// configFiles lists config locations, lowest precedence first.
func configFiles() []configFile {
	files := []configFile{{systemConfigPath, SourceSystem}}
	user := UserConfigPath()
	if user != "" {
		files = append(files, configFile{user, SourceUser})
	}
	// Run from inside ~/.kin, the project search finds the user file again.
	if project := findProjectConfig(); project != "" && project != user {
		files = append(files, configFile{project, SourceProject})
	}
	return files
}

// ConfigPaths returns the config files that exist, lowest precedence first.
func ConfigPaths() []string {
	var paths []string
	for _, f := range configFiles() {
		if _, err := os.Stat(f.path); err == nil {
			paths = append(paths, f.path)
		}
	}
	return paths
}

// mergeConfigFiles deep-merges existing config files into v's config
// layer, so a later file overrides single keys rather than whole sections
// and the environment still wins over every file.
func mergeConfigFiles(v *viper.Viper) {
	for _, f := range configFiles() {
		if _, err := os.Stat(f.path); err != nil {
			continue
		}
		tmp := viper.New()
		tmp.SetConfigFile(f.path)
		tmp.SetConfigType("toml")
		if err := tmp.ReadInConfig(); err != nil {
			continue
		}
		if err := v.MergeConfigMap(tmp.AllSettings()); err != nil {
			continue
		}
		for _, key := range tmp.AllKeys() {
			ConfigSources[key] = SourceInfo{Source: f.source, Path: f.path}
		}
	}
}
