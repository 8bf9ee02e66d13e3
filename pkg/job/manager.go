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

package job

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrJobRunning is returned by Start while another job is running
	ErrJobRunning = errors.Base("a job is already running")
	// ErrJobNotFound is returned by Get for unknown ids
	ErrJobNotFound = errors.Base("job not found")
)

// State is the lifecycle state of a job
type State string

const (
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// 📸 Snapshot is the authoritative state of a job at a point in time
type Snapshot struct {
	ID        string            `json:"id"`
	Seq       int64             `json:"seq"`
	Kind      string            `json:"kind"`
	State     State             `json:"state"`
	Params    map[string]string `json:"params,omitempty"`
	Percent   int               `json:"percent"`
	Message   string            `json:"message"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// 📣 UpdateEvent is delivered on every state change. LogLine is only set for
// events produced by EmitLogLine.
type UpdateEvent struct {
	ID      string `json:"id"`
	Seq     int64  `json:"seq"`
	Kind    string `json:"kind"`
	State   State  `json:"state"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
	LogLine string `json:"log_line,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Emitter receives job events
type Emitter interface {
	EmitUpdate(event UpdateEvent)
}

// DefaultThrottle is the minimum spacing between progress events
const DefaultThrottle = 100 * time.Millisecond

// 🗂️ Manager tracks jobs and allows a single one to run at a time.
// Events carry a global, strictly increasing Seq and reach the emitter in Seq
// order.
type Manager struct {
	mu       sync.Mutex
	emitMu   sync.Mutex
	jobs     map[string]*Snapshot
	active   string
	seq      int64
	emitter  Emitter
	throttle time.Duration
	lastEmit map[string]time.Time
}

// 🏭 NewManager creates a manager with the default progress throttle
func NewManager(emitter Emitter) *Manager {
	return NewManagerWithThrottle(emitter, DefaultThrottle)
}

// NewManagerWithThrottle creates a manager with a custom progress throttle;
// zero emits every progress update
func NewManagerWithThrottle(emitter Emitter, throttle time.Duration) *Manager {
	return &Manager{
		jobs:     make(map[string]*Snapshot),
		emitter:  emitter,
		throttle: throttle,
		lastEmit: make(map[string]time.Time),
	}
}

// AddEmitter registers another emitter; events go to all of them
func (m *Manager) AddEmitter(e Emitter) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch cur := m.emitter.(type) {
	case nil:
		m.emitter = e
	case *MultiEmitter:
		cur.Add(e)
	default:
		m.emitter = NewMultiEmitter(cur, e)
	}
}

// 🚀 Start registers a running job of the given kind and returns its id
func (m *Manager) Start(ctx context.Context, kind, message string, params map[string]string) (string, error) {
	m.mu.Lock()
	if m.active != "" {
		active := m.jobs[m.active]
		m.mu.Unlock()
		return "", errors.Errorf("%w: %s", ErrJobRunning, active.ID)
	}

	now := time.Now()
	id := fmt.Sprintf("%s-%s", kind, uuid.NewString())
	m.jobs[id] = &Snapshot{
		ID:        id,
		Kind:      kind,
		State:     StateRunning,
		Params:    params,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.active = id
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().Str("job", id).Msg("job started")

	m.emit(id, "")
	return id, nil
}

// UpdateProgress records percent and, if the throttle allows, emits it.
// Percent never goes backwards.
func (m *Manager) UpdateProgress(id string, percent int, message string) {
	m.mu.Lock()
	snap, ok := m.jobs[id]
	if !ok || snap.State != StateRunning {
		m.mu.Unlock()
		return
	}
	if percent > snap.Percent {
		snap.Percent = percent
	}
	if message != "" {
		snap.Message = message
	}
	now := time.Now()
	snap.UpdatedAt = now

	emit := now.Sub(m.lastEmit[id]) >= m.throttle
	if emit {
		m.lastEmit[id] = now
	}
	m.mu.Unlock()

	if emit {
		m.emit(id, "")
	}
}

// EmitLogLine delivers a log line for job id without changing its state
func (m *Manager) EmitLogLine(id, line string) {
	m.emit(id, line)
}

// ✅ Complete marks a job as succeeded
func (m *Manager) Complete(id, message string) {
	m.finish(id, StateSucceeded, message, nil)
}

// ❌ Fail marks a job as failed
func (m *Manager) Fail(id string, err error) {
	m.finish(id, StateFailed, "", err)
}

func (m *Manager) finish(id string, state State, message string, err error) {
	m.mu.Lock()
	snap, ok := m.jobs[id]
	if ok {
		snap.State = state
		if message != "" {
			snap.Message = message
		}
		if err != nil {
			snap.Error = err.Error()
		}
		if state == StateSucceeded {
			snap.Percent = 100
		}
		snap.UpdatedAt = time.Now()
		if m.active == id {
			m.active = ""
		}
		delete(m.lastEmit, id)
	}
	m.mu.Unlock()

	if ok {
		m.emit(id, "")
	}
}

// emit sends the current state of id. emitMu keeps delivery in Seq order.
func (m *Manager) emit(id, line string) {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	m.mu.Lock()
	snap, ok := m.jobs[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	m.seq++
	snap.Seq = m.seq

	event := UpdateEvent{
		ID:      snap.ID,
		Seq:     snap.Seq,
		Kind:    snap.Kind,
		State:   snap.State,
		Percent: snap.Percent,
		Message: snap.Message,
		LogLine: line,
		Error:   snap.Error,
	}
	emitter := m.emitter
	m.mu.Unlock()

	if emitter != nil {
		emitter.EmitUpdate(event)
	}
}

// Get returns a copy of job id
func (m *Manager) Get(id string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap, ok := m.jobs[id]
	if !ok {
		return nil, errors.Errorf("%w: %s", ErrJobNotFound, id)
	}
	cp := *snap
	return &cp, nil
}

// Active returns a copy of the running job, or nil
func (m *Manager) Active() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == "" {
		return nil
	}
	cp := *m.jobs[m.active]
	return &cp
}

// List returns copies of every job, newest first
func (m *Manager) List() []*Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]*Snapshot, 0, len(m.jobs))
	for _, j := range m.jobs {
		cp := *j
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, k int) bool {
		if list[i].CreatedAt.Equal(list[k].CreatedAt) {
			return list[i].Seq > list[k].Seq
		}
		return list[i].CreatedAt.After(list[k].CreatedAt)
	})
	return list
}
