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
	"github.com/pterm/pterm"

	"github.com/diego-abuv/ProtoSearch/pkg/job"
	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

// progressBar is the part of pterm's progress bar the renderer drives
type progressBar interface {
	Add(count int) *pterm.ProgressbarPrinter
	Stop() (*pterm.ProgressbarPrinter, error)
}

// 🖼️ renderer turns job events into console lines and progress bar moves.
// It runs on the command goroutine only.
type renderer struct {
	lines search.Sink
	bar   progressBar
	shown int
}

func newRenderer(lines search.Sink, bar progressBar) *renderer {
	return &renderer{lines: lines, bar: bar}
}

func (r *renderer) handle(ev job.UpdateEvent) {
	if ev.LogLine != "" {
		r.lines.Emit(search.Info(ev.LogLine))
	}
	if r.bar != nil && ev.Percent > r.shown {
		r.bar.Add(ev.Percent - r.shown)
		r.shown = ev.Percent
	}
}

func (r *renderer) finish() {
	if r.bar == nil {
		return
	}
	if r.shown < 100 {
		r.bar.Add(100 - r.shown)
		r.shown = 100
	}
	_, _ = r.bar.Stop()
}
