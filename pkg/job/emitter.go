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
	"sync"

	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

// 📡 MultiEmitter broadcasts events to several emitters
type MultiEmitter struct {
	mu       sync.Mutex
	emitters []Emitter
}

// NewMultiEmitter creates a broadcaster over emitters
func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	return &MultiEmitter{emitters: emitters}
}

// Add registers another emitter
func (m *MultiEmitter) Add(e Emitter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitters = append(m.emitters, e)
}

func (m *MultiEmitter) EmitUpdate(event UpdateEvent) {
	m.mu.Lock()
	emitters := make([]Emitter, len(m.emitters))
	copy(emitters, m.emitters)
	m.mu.Unlock()

	for _, e := range emitters {
		if e != nil {
			e.EmitUpdate(event)
		}
	}
}

// 📬 ChanEmitter queues events on a buffered channel for a consumer goroutine.
// Sends block while the buffer is full; events emitted after Close are dropped.
type ChanEmitter struct {
	mu     sync.RWMutex
	ch     chan UpdateEvent
	closed bool
}

// NewChanEmitter creates a channel emitter with the given buffer size
func NewChanEmitter(buffer int) *ChanEmitter {
	if buffer < 0 {
		buffer = 0
	}
	return &ChanEmitter{ch: make(chan UpdateEvent, buffer)}
}

// Events is closed by Close
func (c *ChanEmitter) Events() <-chan UpdateEvent {
	return c.ch
}

func (c *ChanEmitter) EmitUpdate(event UpdateEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	c.ch <- event
}

// Close stops delivery and closes the channel. It is safe to call twice.
func (c *ChanEmitter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

// 🔌 Sink routes engine events into job id: Info becomes a log line,
// Progress becomes a progress update.
func (m *Manager) Sink(id string) search.Sink {
	return search.SinkFunc(func(e search.Event) {
		switch e.Kind {
		case search.EventProgress:
			m.UpdateProgress(id, e.Percent, "")
		default:
			m.EmitLogLine(id, e.Message)
		}
	})
}
