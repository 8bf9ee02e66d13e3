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

package operation

import "gitlab.com/tozd/go/errors"

var (
	// ErrPermissionDenied means the user is not on the allow-list
	ErrPermissionDenied = errors.Base("permission denied")
	// ErrInvalidInput covers missing fields, bad dates and out of range years
	ErrInvalidInput = errors.Base("invalid input")
	// ErrNoConfiguredRoots means no storage root covers the requested year.
	// It is informational: nothing was searched.
	ErrNoConfiguredRoots = errors.Base("no storage roots configured for year")
)
