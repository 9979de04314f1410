package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/kin/errors"
)

// ConfigSource says where a configuration value came from.
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/kin/config.toml
	SourceUser        ConfigSource = "user"        // ~/.kin/am.toml
	SourceProject     ConfigSource = "project"     // nearest am.toml
	SourceEnvironment ConfigSource = "environment" // KIN_* variables
)

// SourceInfo locates the origin of one key.
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// SettingInfo is one effective setting with its origin.
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// Introspection lists the effective configuration.
type Introspection struct {
	Files    []string      `json:"files"`
	Settings []SettingInfo `json:"settings"`
}

// Introspect loads the configuration and reports every setting with the
// layer that set it.
func Introspect() (*Introspection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}
	v := GetViper()

	mu.Lock()
	sources := make(map[string]SourceInfo, len(ConfigSources))
	for k, s := range ConfigSources {
		sources[k] = s
	}
	mu.Unlock()

	keys := v.AllKeys()
	sort.Strings(keys)
	out := &Introspection{Files: ConfigPaths()}
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if s, ok := sources[key]; ok {
			info = s
		}
		if env := EnvVar(key); os.Getenv(env) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: env}
		}
		out.Settings = append(out.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return out, nil
}

// EnvVar returns the environment variable overriding key.
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Summary counts settings per source.
func (in *Introspection) Summary() map[ConfigSource]int {
	counts := make(map[ConfigSource]int)
	for _, s := range in.Settings {
		counts[s.Source]++
	}
	return counts
}
