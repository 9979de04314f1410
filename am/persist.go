package am

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/logger"
)

// createBackup rotates .back1, .back2, .back3 before path is rewritten.
func createBackup(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	back1, back2, back3 := path+".back1", path+".back2", path+".back3"
	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old backup", logger.FieldFile, back3, logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// writeConfig backs up path and writes data to it.
func writeConfig(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create %s", filepath.Dir(path))
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	globalWatcherMu.Lock()
	if globalWatcher != nil {
		globalWatcher.MarkOwnWrite()
	}
	globalWatcherMu.Unlock()

	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// WriteDefault writes the built-in configuration to path as a starter
// file. An existing file is rotated into the backups first.
func WriteDefault(path string) error {
	data, err := toml.Marshal(Defaults())
	if err != nil {
		return errors.Wrap(err, "failed to marshal default config")
	}
	if err := writeConfig(path, data); err != nil {
		return err
	}
	logger.AMInfow("Wrote default config", logger.FieldFile, path)
	return nil
}

// Set changes one dotted key (e.g. "dates.order") in the config file at
// path, creating the file when needed. The value is parsed with the type
// of the key's default and the result must validate.
func Set(path, key, value string) error {
	defaults := viper.New()
	SetDefaults(defaults)
	def := defaults.Get(key)
	if def == nil {
		return errors.Wrapf(errors.ErrNotFound, "unknown config key %q", key)
	}

	var parsed interface{}
	switch def.(type) {
	case map[string]interface{}:
		return errors.Wrapf(errors.ErrInvalidInput, "%q is a section, not a key", key)
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "%s expects true or false, got %q", key, value)
		}
		parsed = b
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "%s expects an integer, got %q", key, value)
		}
		parsed = int64(n)
	default:
		parsed = value
	}

	doc := map[string]interface{}{}
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &doc); err != nil {
			return errors.Wrapf(err, "failed to parse %s", path)
		}
	}
	setNested(doc, strings.Split(key, "."), parsed)

	data, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	check := viper.New()
	check.SetConfigType("toml")
	SetDefaults(check)
	if err := check.ReadConfig(bytes.NewReader(data)); err != nil {
		return errors.Wrap(err, "failed to re-read config")
	}
	if _, err := LoadWithViper(check); err != nil {
		return err
	}
	return writeConfig(path, data)
}

func setNested(doc map[string]interface{}, path []string, value interface{}) {
	for _, p := range path[:len(path)-1] {
		next, ok := doc[p].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			doc[p] = next
		}
		doc = next
	}
	doc[path[len(path)-1]] = value
}
