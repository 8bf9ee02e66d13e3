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

package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/diego-abuv/ProtoSearch/cmd/protosearch/opts"
	"github.com/diego-abuv/ProtoSearch/pkg/dates"
	"github.com/diego-abuv/ProtoSearch/pkg/job"
	"github.com/diego-abuv/ProtoSearch/pkg/log"
	"github.com/diego-abuv/ProtoSearch/pkg/operation"
	"github.com/diego-abuv/ProtoSearch/pkg/permission"
)

// queueSize bounds the event queues between the worker and the console
const queueSize = 64

// NewSearchCmd creates the search command
func NewSearchCmd(o *opts.RootOpts) *cobra.Command {
	var (
		date        string
		protocol    string
		destination string
		noProgress  bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Copy every recording of a date whose name contains the protocol",
		Long: `Search resolves the storage roots for the year of --date, walks each of
them in order and copies every file whose name contains --protocol into the
destination directory. Existing files with the same name are overwritten.`,
		Example: `  protosearch search --date 07/03/2020 --protocol 123456
  protosearch search -p 123456 --destination /tmp/protocolos`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			if destination == "" {
				destination = o.Config.Destination
			}

			searcher, err := operation.New(operation.Options{
				AllowList: o.Config.AllowList,
				Resolver:  o.Config.Resolver(),
			})
			if err != nil {
				return errors.Errorf("creating searcher: %w", err)
			}

			in := operation.Input{
				User:        permission.CurrentUser(),
				Date:        date,
				Protocol:    protocol,
				Destination: destination,
			}

			events := job.NewChanEmitter(queueSize)
			jobs := job.NewManager(events)

			id, err := jobs.Start(ctx, "search", fmt.Sprintf("%s @ %s", protocol, date), map[string]string{
				"date":        date,
				"protocol":    protocol,
				"destination": destination,
				"user":        in.User,
			})
			if err != nil {
				return errors.Errorf("starting job: %w", err)
			}

			o.Console.StartSearch(ctx, log.SearchHeader{Protocol: protocol, Date: date, Destination: destination})

			var bar progressBar
			if !noProgress {
				pb, err := pterm.DefaultProgressbar.WithTotal(100).WithTitle("Buscando").Start()
				if err != nil {
					logger.Debug().Err(err).Msg("progress bar unavailable")
				} else {
					bar = pb
				}
			}

			task := operation.NewRunner(true, queueSize).Start(ctx, searcher.Operation(in), jobs.Sink(id))

			go func() {
				report, err := task.Wait()
				if err != nil {
					jobs.Fail(id, err)
				} else {
					jobs.Complete(id, string(report.State))
				}
				events.Close()
			}()

			r := newRenderer(o.Console, bar)
			for ev := range events.Events() {
				r.handle(ev)
			}
			r.finish()

			report, err := task.Wait()

			if report != nil {
				for _, outcome := range report.Outcomes {
					o.Console.LogOutcome(ctx, outcome)
				}
			}
			o.Console.EndSearch(ctx)
			o.UserLogger.LogReport(report)

			if snap, gerr := jobs.Get(id); gerr == nil {
				logger.Debug().
					Str("job", snap.ID).
					Str("state", string(snap.State)).
					Dur("took", snap.UpdatedAt.Sub(snap.CreatedAt)).
					Msg("job finished")
			}

			if errors.Is(err, operation.ErrNoConfiguredRoots) {
				return nil
			}
			if err != nil {
				return errors.Errorf("searching: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", dates.FormatDMY(time.Now()), "recording date (DD/MM/YYYY)")
	cmd.Flags().StringVarP(&protocol, "protocol", "p", "", "protocol to look for in file names")
	cmd.Flags().StringVar(&destination, "destination", "", "where matches are copied (default ~/Desktop/protocolos)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not draw the progress bar")
	_ = cmd.MarkFlagRequired("protocol")

	return cmd
}
