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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/diego-abuv/ProtoSearch/pkg/roots"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📅 RangeConfig maps a span of years to a root spec ("<path>,<true|false>").
// Name doubles as the environment key that overrides Root.
type RangeConfig struct {
	Name string `json:"name" yaml:"name"`
	From int    `json:"from" yaml:"from"`
	To   int    `json:"to" yaml:"to"`
	Root string `json:"root,omitempty" yaml:"root,omitempty"`
}

// 📝 LogConfig controls the log file
type LogConfig struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty" yaml:"max_age_days,omitempty"`
	Compress   bool   `json:"compress,omitempty" yaml:"compress,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	AllowList   string        `json:"allow_list,omitempty" yaml:"allow_list,omitempty"`
	Destination string        `json:"destination,omitempty" yaml:"destination,omitempty"`
	Ranges      []RangeConfig `json:"ranges,omitempty" yaml:"ranges,omitempty"`
	Log         LogConfig     `json:"log,omitempty" yaml:"log,omitempty"`
}

// Log defaults
const (
	DefaultLogLevel   = "info"
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// 🏠 DefaultDestination is ~/Desktop/protocolos
func DefaultDestination() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "Desktop", "protocolos")
}

// DefaultRanges returns the three historical ranges with no roots set
func DefaultRanges() []RangeConfig {
	return []RangeConfig{
		{Name: roots.KeyEarly, From: 2019, To: 2021},
		{Name: roots.KeyMiddle, From: 2021, To: 2023},
		{Name: roots.KeyLate, From: 2023, To: 2025},
	}
}

// 🏭 Default returns a config with every default filled in
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills in every unset field
func (cfg *Config) SetDefaults() {
	if cfg.Destination == "" {
		cfg.Destination = DefaultDestination()
	}
	if len(cfg.Ranges) == 0 {
		cfg.Ranges = DefaultRanges()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = DefaultMaxSizeMB
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = DefaultMaxBackups
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = DefaultMaxAgeDays
	}
}

// 🎯 Load builds the configuration: defaults, then the file at path (if any),
// then the environment on top.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	cfg := &Config{}
	if path != "" {
		logger.Debug().Str("path", path).Msg("loading configuration")

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Errorf("reading config file: %w", err)
		}

		p := GetParser(path)
		if p == nil {
			return nil, errors.Errorf("no parser found for file: %s", path)
		}

		cfg, err = p.Parse(ctx, data)
		if err != nil {
			return nil, errors.Errorf("parsing config: %w", err)
		}
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.warnMalformedRoots(logger)

	return cfg, nil
}

// warnMalformedRoots logs every range whose root is set but unparseable.
// Such a range stays in the config and resolves to nothing.
func (cfg *Config) warnMalformedRoots(logger *zerolog.Logger) {
	for _, r := range cfg.Ranges {
		if r.Root == "" {
			continue
		}
		if _, ok := roots.ParseRootSpec(r.Root); !ok {
			logger.Warn().
				Str("range", r.Name).
				Str("root", r.Root).
				Msg("malformed root, want \"<path>,<true|false>\"; range left unconfigured")
		}
	}
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	seen := map[string]bool{}
	for i, r := range cfg.Ranges {
		if strings.TrimSpace(r.Name) == "" {
			return errors.Errorf("ranges[%d]: name is required", i)
		}
		if seen[r.Name] {
			return errors.Errorf("ranges[%d]: duplicate name %q", i, r.Name)
		}
		seen[r.Name] = true
		if r.From > r.To {
			return errors.Errorf("range %s: from %d is after to %d", r.Name, r.From, r.To)
		}
	}

	if cfg.Log.Level != "" {
		if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
			return errors.Errorf("log.level: %w", err)
		}
	}

	return nil
}

// 🗺️ Resolver builds the year to root resolver for this config
func (cfg *Config) Resolver() *roots.Resolver {
	ranges := make([]roots.Range, 0, len(cfg.Ranges))
	for _, r := range cfg.Ranges {
		ranges = append(ranges, roots.RangeFromSpec(r.Name, r.From, r.To, r.Root))
	}
	return roots.NewResolver(ranges...)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	configured := 0
	for _, r := range cfg.Ranges {
		if _, ok := roots.ParseRootSpec(r.Root); ok {
			configured++
		}
	}
	return fmt.Sprintf("%d/%d ranges -> %s", configured, len(cfg.Ranges), cfg.Destination)
}
