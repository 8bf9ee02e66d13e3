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

package search

import "fmt"

// EventKind tags an Event
type EventKind int

const (
	EventInfo EventKind = iota
	EventProgress
)

func (k EventKind) String() string {
	switch k {
	case EventInfo:
		return "info"
	case EventProgress:
		return "progress"
	default:
		return "unknown"
	}
}

// 📣 Event is either a human readable status line (Info) or a
// percent-complete signal (Progress). Only the field matching Kind is set.
type Event struct {
	Kind    EventKind
	Message string
	Percent int
}

// Info builds an informational event carrying msg verbatim
func Info(msg string) Event {
	return Event{Kind: EventInfo, Message: msg}
}

// Infof builds an informational event from a format string
func Infof(format string, args ...any) Event {
	return Info(fmt.Sprintf(format, args...))
}

// Progress builds a progress event, clamped to 0..100
func Progress(percent int) Event {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return Event{Kind: EventProgress, Percent: percent}
}

func (e Event) String() string {
	if e.Kind == EventProgress {
		return fmt.Sprintf("%d%%", e.Percent)
	}
	return e.Message
}

// 🎯 Sink consumes engine events. Thread affinity is the caller's concern.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a plain function to a Sink
type SinkFunc func(Event)

func (f SinkFunc) Emit(e Event) { f(e) }

// Discard drops every event
var Discard Sink = SinkFunc(func(Event) {})
