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

	"github.com/diego-abuv/ProtoSearch/cmd/protosearch/commands"
	"github.com/diego-abuv/ProtoSearch/cmd/protosearch/opts"
	"github.com/diego-abuv/ProtoSearch/pkg/log"
)

func main() {
	bootstrap := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel)
	ctx := bootstrap.WithContext(context.Background())

	rootOpts := &opts.RootOpts{}
	var cleanup func() error

	rootCmd := &cobra.Command{
		Use:   "protosearch",
		Short: "Find call recordings by protocol and copy them locally",
		Long: `protosearch looks up recorded calls for a date across the configured
storage roots, keeps the files whose name contains the protocol, and copies
them to ~/Desktop/protocolos (or the configured destination).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx, c, err := setupRoot(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			cleanup = c
			cmd.SetContext(ctx)
			return nil
		},
	}

	addRootFlags(rootCmd)

	rootCmd.AddCommand(
		commands.NewSearchCmd(rootOpts),
		commands.NewRootsCmd(rootOpts),
		commands.NewAccessCmd(rootOpts),
		newVersionCmd(),
	)

	err := rootCmd.ExecuteContext(ctx)
	if cleanup != nil {
		_ = cleanup()
	}
	if err != nil {
		log.NewUserLogger(ctx).LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
