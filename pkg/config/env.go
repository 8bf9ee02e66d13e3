// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Environment keys
const (
	EnvAllowList     = "LOG_PATH"
	EnvDestination   = "DESTINATION_DIR"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFile       = "LOG_FILE"
	EnvLogMaxSizeMB  = "LOG_MAX_SIZE_MB"
	EnvLogMaxBackups = "LOG_MAX_BACKUPS"
	EnvLogMaxAgeDays = "LOG_MAX_AGE_DAYS"
	EnvLogCompress   = "LOG_COMPRESS"
)

// Env files, in order of preference
const (
	DevEnvFile = ".env.dev"
	EnvFile    = ".env"
)

// 🌱 LoadEnvFiles loads .env.dev from dir when it exists, .env otherwise.
// Variables already set in the process win. Returns the file loaded, or ""
// when neither exists.
func LoadEnvFiles(logger *zerolog.Logger, dir string) (string, error) {
	for _, name := range []string{DevEnvFile, EnvFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return "", errors.Errorf("loading %s: %w", path, err)
		}
		logger.Debug().Str("file", path).Msg("environment file loaded")
		return path, nil
	}
	logger.Debug().Str("dir", dir).Msg("no environment file found")
	return "", nil
}

// 🔧 ApplyEnv overlays environment values on the config. Empty values are
// ignored except for range roots, where an empty value clears the root.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for i := range cfg.Ranges {
		if v, ok := lookup(cfg.Ranges[i].Name); ok {
			cfg.Ranges[i].Root = v
		}
	}

	cfg.AllowList = getEnvString(lookup, EnvAllowList, cfg.AllowList)
	cfg.Destination = getEnvString(lookup, EnvDestination, cfg.Destination)
	cfg.Log.Level = getEnvString(lookup, EnvLogLevel, cfg.Log.Level)
	cfg.Log.File = getEnvString(lookup, EnvLogFile, cfg.Log.File)
	cfg.Log.MaxSizeMB = getEnvInt(lookup, EnvLogMaxSizeMB, cfg.Log.MaxSizeMB)
	cfg.Log.MaxBackups = getEnvInt(lookup, EnvLogMaxBackups, cfg.Log.MaxBackups)
	cfg.Log.MaxAgeDays = getEnvInt(lookup, EnvLogMaxAgeDays, cfg.Log.MaxAgeDays)
	cfg.Log.Compress = getEnvBool(lookup, EnvLogCompress, cfg.Log.Compress)
}

func getEnvString(lookup func(string) (string, bool), key, defaultVal string) string {
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return defaultVal
}

func getEnvInt(lookup func(string) (string, bool), key string, defaultVal int) int {
	if v, ok := lookup(key); ok && v != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(lookup func(string) (string, bool), key string, defaultVal bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}
