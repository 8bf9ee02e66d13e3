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

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/diego-abuv/ProtoSearch/cmd/protosearch/opts"
	"github.com/diego-abuv/ProtoSearch/pkg/permission"
)

// NewAccessCmd creates the access command
func NewAccessCmd(o *opts.RootOpts) *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "access",
		Short: "Check whether a user is on the allow-list",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				user = permission.CurrentUser()
			}

			if o.Config.AllowList == "" {
				o.UserLogger.LogValidation(false, "Nenhuma lista de acesso configurada (LOG_PATH).", nil)
				return errors.Errorf("no allow-list configured")
			}

			if !permission.Has(user, o.Config.AllowList) {
				o.UserLogger.LogValidation(false, fmt.Sprintf("Acesso negado para '%s'.", user), nil)
				return errors.Errorf("user %q is not allowed", user)
			}

			o.UserLogger.LogValidation(true, fmt.Sprintf("Acesso permitido para '%s'.", user), nil)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "user to check (default: current user)")

	return cmd
}
