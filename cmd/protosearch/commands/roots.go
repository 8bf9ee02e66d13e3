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
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/diego-abuv/ProtoSearch/cmd/protosearch/opts"
	"github.com/diego-abuv/ProtoSearch/pkg/log"
	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

// NewRootsCmd creates the roots command
func NewRootsCmd(o *opts.RootOpts) *cobra.Command {
	var (
		year  int
		month int
		day   int
	)

	cmd := &cobra.Command{
		Use:   "roots",
		Short: "Show the configured storage roots",
		Long: `Without --year, roots lists every configured year range. With --year it
prints the roots that would be searched for that year, in search order, and
with --month and --day also the directories each root would look in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := o.Config.Resolver()

			if year == 0 {
				if err := pterm.DefaultTable.WithHasHeader().WithData(log.RangesTable(resolver.Ranges())).Render(); err != nil {
					return errors.Errorf("rendering ranges: %w", err)
				}
				return nil
			}

			if year < search.MinYear || year > search.MaxYear {
				return errors.Errorf("year %d outside %d..%d", year, search.MinYear, search.MaxYear)
			}

			found := resolver.Resolve(year)
			if len(found) == 0 {
				o.UserLogger.LogValidation(false, fmt.Sprintf("Nenhum caminho de busca configurado para %d.", year), nil)
				return nil
			}

			data := pterm.TableData{{"#", "Raiz", "Layout", "Caminhos"}}
			for i, root := range found {
				paths := "-"
				if month > 0 && day > 0 {
					paths = strings.Join(root.Paths(year, month, day), "\n")
				}
				data = append(data, []string{fmt.Sprint(i + 1), root.BasePath, root.Layout.String(), paths})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
				return errors.Errorf("rendering roots: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year to resolve")
	cmd.Flags().IntVar(&month, "month", 0, "month, to show the search directories")
	cmd.Flags().IntVar(&day, "day", 0, "day, to show the search directories")

	return cmd
}
