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

import (
	"github.com/diego-abuv/ProtoSearch/pkg/roots"
	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

// State is the end state of one search
type State string

const (
	StateDenied            State = "denied"
	StateInvalidInput      State = "invalid_input"
	StateNothingConfigured State = "nothing_configured"
	StateFound             State = "found"
	StateNotFound          State = "not_found"
)

// 📊 Report aggregates every engine invocation of one search
type Report struct {
	State       State                `json:"state"`
	Request     search.Request       `json:"request"`
	Roots       []roots.StorageRoot  `json:"roots"`
	Outcomes    []search.CopyOutcome `json:"outcomes"`
	Destination string               `json:"destination"`
}

// Found reports whether any root had at least one successful copy
func (r *Report) Found() bool {
	return r != nil && r.State == StateFound
}

// Matched counts matching files across all roots
func (r *Report) Matched() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, o := range r.Outcomes {
		n += o.FilesMatched
	}
	return n
}

// Copied counts successful copies across all roots
func (r *Report) Copied() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, o := range r.Outcomes {
		n += o.FilesCopiedOk
	}
	return n
}

// Failed lists every copy failure across all roots, in search order
func (r *Report) Failed() []search.CopyFailure {
	if r == nil {
		return nil
	}
	var out []search.CopyFailure
	for _, o := range r.Outcomes {
		out = append(out, o.FilesCopyFailed...)
	}
	return out
}

// AllCopiesFailed is true when files matched but none could be copied
func (r *Report) AllCopiesFailed() bool {
	return r != nil && r.State == StateNotFound && r.Matched() > 0 && r.Copied() == 0
}
