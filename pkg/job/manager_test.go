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
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

// 🔧 MockEmitter is a mock implementation of the Emitter interface
type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) EmitUpdate(event UpdateEvent) {
	m.Called(event)
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []UpdateEvent
}

func (r *recordingEmitter) EmitUpdate(event UpdateEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEmitter) all() []UpdateEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]UpdateEvent(nil), r.events...)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func TestStartEmitsRunning(t *testing.T) {
	em := &MockEmitter{}
	em.On("EmitUpdate", mock.MatchedBy(func(e UpdateEvent) bool {
		return e.State == StateRunning && e.Seq == 1 && e.Message == "starting"
	})).Once()

	m := NewManager(em)
	id, err := m.Start(testContext(t), "search", "starting", map[string]string{"protocol": "X"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "search-"), "id should carry the kind")
	em.AssertExpectations(t)

	snap, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "X", snap.Params["protocol"])
	assert.Equal(t, StateRunning, snap.State)
}

func TestSingleActiveJob(t *testing.T) {
	m := NewManager(nil)
	ctx := testContext(t)

	first, err := m.Start(ctx, "search", "", nil)
	require.NoError(t, err)

	_, err = m.Start(ctx, "search", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrJobRunning))
	assert.Contains(t, err.Error(), first)

	require.NotNil(t, m.Active())
	assert.Equal(t, first, m.Active().ID)

	m.Complete(first, "done")
	assert.Nil(t, m.Active())

	second, err := m.Start(ctx, "search", "", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestLifecycleSequence(t *testing.T) {
	em := &recordingEmitter{}
	m := NewManagerWithThrottle(em, 0)

	id, err := m.Start(testContext(t), "search", "", nil)
	require.NoError(t, err)

	m.UpdateProgress(id, 40, "")
	m.UpdateProgress(id, 20, "") // ignored, progress never goes back
	m.EmitLogLine(id, "hello")
	m.Complete(id, "ok")

	events := em.all()
	require.Len(t, events, 5)
	for i, e := range events {
		assert.Equal(t, int64(i+1), e.Seq, "seq should increase by one")
	}
	assert.Equal(t, 40, events[1].Percent)
	assert.Equal(t, 40, events[2].Percent)
	assert.Equal(t, "hello", events[3].LogLine)
	assert.Equal(t, StateSucceeded, events[4].State)
	assert.Equal(t, 100, events[4].Percent)
	assert.Equal(t, "ok", events[4].Message)

	// no updates once the job is finished
	m.UpdateProgress(id, 10, "late")
	assert.Len(t, em.all(), 5)
}

func TestFail(t *testing.T) {
	em := &recordingEmitter{}
	m := NewManagerWithThrottle(em, 0)

	id, err := m.Start(testContext(t), "search", "", nil)
	require.NoError(t, err)

	m.Fail(id, errors.New("boom"))

	snap, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, StateFailed, snap.State)
	assert.Equal(t, "boom", snap.Error)
	assert.Nil(t, m.Active())

	last := em.all()[len(em.all())-1]
	assert.Equal(t, "boom", last.Error)
}

func TestThrottle(t *testing.T) {
	em := &recordingEmitter{}
	m := NewManagerWithThrottle(em, time.Hour)

	id, err := m.Start(testContext(t), "search", "", nil)
	require.NoError(t, err)

	for i := 1; i <= 10; i++ {
		m.UpdateProgress(id, i*10, "")
	}

	// start + the first progress update
	assert.Len(t, em.all(), 2)

	snap, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 100, snap.Percent, "state is kept even when not emitted")
}

func TestGetUnknown(t *testing.T) {
	_, err := NewManager(nil).Get("nope")
	assert.True(t, errors.Is(err, ErrJobNotFound))
}

func TestListNewestFirst(t *testing.T) {
	m := NewManager(nil)
	ctx := testContext(t)

	a, err := m.Start(ctx, "search", "", nil)
	require.NoError(t, err)
	m.Complete(a, "")
	b, err := m.Start(ctx, "search", "", nil)
	require.NoError(t, err)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, b, list[0].ID)
	assert.Equal(t, a, list[1].ID)
}

func TestSinkRoutesEvents(t *testing.T) {
	em := &recordingEmitter{}
	m := NewManagerWithThrottle(em, 0)

	id, err := m.Start(testContext(t), "search", "", nil)
	require.NoError(t, err)

	sink := m.Sink(id)
	sink.Emit(search.Info("Procurando em: /x..."))
	sink.Emit(search.Progress(50))

	events := em.all()
	require.Len(t, events, 3)
	assert.Equal(t, "Procurando em: /x...", events[1].LogLine)
	assert.Equal(t, 50, events[2].Percent)
	assert.Empty(t, events[2].LogLine)
}

func TestMultiAndChanEmitter(t *testing.T) {
	rec := &recordingEmitter{}
	ch := NewChanEmitter(8)

	m := NewManagerWithThrottle(rec, 0)
	m.AddEmitter(ch)

	id, err := m.Start(testContext(t), "search", "", nil)
	require.NoError(t, err)
	m.Complete(id, "")
	ch.Close()
	ch.Close()

	var got []UpdateEvent
	for e := range ch.Events() {
		got = append(got, e)
	}
	assert.Equal(t, rec.all(), got, "both emitters see the same stream")

	// dropped after close
	ch.EmitUpdate(UpdateEvent{ID: id})
}
