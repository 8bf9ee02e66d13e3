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

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/diego-abuv/ProtoSearch/cmd/protosearch/opts"
	"github.com/diego-abuv/ProtoSearch/pkg/config"
	"github.com/diego-abuv/ProtoSearch/pkg/log"
)

var (
	configFile string
	envDir     string
	debugFlag  bool
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (.yaml, .hcl or .json)")
	cmd.PersistentFlags().StringVar(&envDir, "env-dir", ".", "directory holding .env.dev or .env")
	cmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "enable debug logging")
}

// setupRoot loads the environment and config, builds the loggers and fills in
// o. The returned func releases the log file.
func setupRoot(ctx context.Context, o *opts.RootOpts) (context.Context, func() error, error) {
	if _, err := config.LoadEnvFiles(zerolog.Ctx(ctx), envDir); err != nil {
		return ctx, nil, errors.Errorf("loading environment: %w", err)
	}

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		return ctx, nil, errors.Errorf("loading config: %w", err)
	}

	zlog, cleanup, err := log.Setup(log.Options{
		Level:      cfg.Log.Level,
		Debug:      debugFlag,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		return ctx, nil, errors.Errorf("setting up logging: %w", err)
	}

	ctx = zlog.WithContext(ctx)
	console := log.New(os.Stdout, zlog)
	ctx = log.NewContext(ctx, console)

	o.Config = cfg
	o.Console = console
	o.UserLogger = log.NewUserLogger(ctx)

	zlog.Debug().Str("config", cfg.String()).Msg("configuration loaded")

	return ctx, cleanup, nil
}
