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
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

// Operation is a unit of work a Runner executes
type Operation interface {
	Execute(ctx context.Context, sink search.Sink) (*Report, error)
}

// OperationFunc adapts a function to an Operation
type OperationFunc func(ctx context.Context, sink search.Sink) (*Report, error)

func (f OperationFunc) Execute(ctx context.Context, sink search.Sink) (*Report, error) {
	return f(ctx, sink)
}

// 🏃 Runner executes operations, either inline or on a background worker
type Runner struct {
	async  bool
	buffer int
}

// 🏗️ NewRunner creates a new runner. Async runners queue events through a
// buffered channel of the given size.
func NewRunner(async bool, buffer int) *Runner {
	if buffer < 0 {
		buffer = 0
	}
	return &Runner{async: async, buffer: buffer}
}

// 🎫 Task is the pending result of a started operation
type Task struct {
	done   chan struct{}
	report *Report
	err    error
}

// Done is closed once the operation returned and every event was delivered
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task is done and returns its report
func (t *Task) Wait() (*Report, error) {
	<-t.done
	return t.report, t.err
}

// 🚀 Start launches op. In async mode one goroutine executes the operation and
// another drains its events into sink, so sink is only ever called from that
// single goroutine and never concurrently.
func (r *Runner) Start(ctx context.Context, op Operation, sink search.Sink) *Task {
	if sink == nil {
		sink = search.Discard
	}
	t := &Task{done: make(chan struct{})}

	if !r.async {
		t.report, t.err = op.Execute(ctx, sink)
		close(t.done)
		return t
	}

	queue := make(chan search.Event, r.buffer)
	var g errgroup.Group

	g.Go(func() error {
		defer close(queue)
		report, err := op.Execute(ctx, search.SinkFunc(func(e search.Event) {
			queue <- e
		}))
		t.report = report
		return err
	})

	g.Go(func() error {
		for e := range queue {
			sink.Emit(e)
		}
		return nil
	})

	go func() {
		t.err = g.Wait()
		if t.err != nil {
			zerolog.Ctx(ctx).Debug().Err(t.err).Msg("operation returned an error")
		}
		close(t.done)
	}()

	return t
}

// 🏃 Run starts op and waits for it
func (r *Runner) Run(ctx context.Context, op Operation, sink search.Sink) (*Report, error) {
	return r.Start(ctx, op, sink).Wait()
}
