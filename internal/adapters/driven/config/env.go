package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

// EnvPrefix starts every configuration environment variable.
const EnvPrefix = "COMPASS_"

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// EnvName returns the environment variable for a dotted key,
// e.g. "store.path" becomes COMPASS_STORE_PATH.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ApplyEnv overrides each key whose environment variable is set.
// It returns the keys that were overridden.
func ApplyEnv(store driven.ConfigStore, keys []string) []string {
	var applied []string
	for _, key := range keys {
		if val, ok := os.LookupEnv(EnvName(key)); ok {
			store.Override(key, val)
			applied = append(applied, key)
		}
	}
	return applied
}
