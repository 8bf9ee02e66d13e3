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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diego-abuv/ProtoSearch/pkg/roots"
	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

type collector struct {
	events []search.Event
}

func (c *collector) Emit(e search.Event) { c.events = append(c.events, e) }

func (c *collector) has(prefix string) bool {
	for _, e := range c.events {
		if e.Kind == search.EventInfo && strings.HasPrefix(e.Message, prefix) {
			return true
		}
	}
	return false
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

type fixture struct {
	allow  string
	early  string
	middle string
	late   string
	dest   string
	search *Searcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{
		allow:  filepath.Join(dir, "allow.txt"),
		early:  filepath.Join(dir, "early"),
		middle: filepath.Join(dir, "middle"),
		late:   filepath.Join(dir, "late"),
		dest:   filepath.Join(dir, "out", "protocolos"),
	}
	writeFile(t, f.allow, "alice\n")

	env := map[string]string{
		roots.KeyEarly:  f.early + ",false",
		roots.KeyMiddle: f.middle + ",true",
		roots.KeyLate:   f.late + ",true",
	}
	resolver := roots.NewResolver(roots.DefaultRanges(func(k string) string { return env[k] })...)

	s, err := New(Options{AllowList: f.allow, Resolver: resolver})
	require.NoError(t, err)
	f.search = s
	return f
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name      string
		input     func(f *fixture) Input
		setup     func(t *testing.T, f *fixture)
		wantState State
		wantErr   error
		check     func(t *testing.T, f *fixture, r *Report, c *collector)
	}{
		{
			name: "denied",
			input: func(f *fixture) Input {
				return Input{User: "mallory", Date: "01/01/2025", Protocol: "X", Destination: f.dest}
			},
			wantState: StateDenied,
			wantErr:   ErrPermissionDenied,
			check: func(t *testing.T, f *fixture, r *Report, c *collector) {
				assert.True(t, c.has("Acesso negado!"))
				assert.NoDirExists(t, f.dest, "nothing is created before validation passes")
			},
		},
		{
			name: "missing_protocol",
			input: func(f *fixture) Input {
				return Input{User: "Alice", Date: "01/01/2025", Protocol: "   ", Destination: f.dest}
			},
			wantState: StateInvalidInput,
			wantErr:   ErrInvalidInput,
			check: func(t *testing.T, f *fixture, r *Report, c *collector) {
				assert.True(t, c.has("Data ou protocolo não preenchidos."))
			},
		},
		{
			name: "bad_date",
			input: func(f *fixture) Input {
				return Input{User: "alice", Date: "2025-01-01", Protocol: "X", Destination: f.dest}
			},
			wantState: StateInvalidInput,
			wantErr:   ErrInvalidInput,
		},
		{
			name: "year_out_of_range",
			input: func(f *fixture) Input {
				return Input{User: "alice", Date: "01/01/2018", Protocol: "X", Destination: f.dest}
			},
			wantState: StateInvalidInput,
			wantErr:   ErrInvalidInput,
			check: func(t *testing.T, f *fixture, r *Report, c *collector) {
				assert.True(t, c.has("Ano fora do intervalo permitido."))
			},
		},
		{
			name: "empty_destination",
			input: func(f *fixture) Input {
				return Input{User: "alice", Date: "01/01/2025", Protocol: "X"}
			},
			wantState: StateInvalidInput,
			wantErr:   ErrInvalidInput,
		},
		{
			name: "found_in_late_root",
			input: func(f *fixture) Input {
				return Input{User: "alice", Date: "01/01/2025", Protocol: " XYZ123 ", Destination: f.dest}
			},
			setup: func(t *testing.T, f *fixture) {
				writeFile(t, filepath.Join(f.late, "2025", "1", "1", "9h", "rec_XYZ123.wav"), "a")
			},
			wantState: StateFound,
			check: func(t *testing.T, f *fixture, r *Report, c *collector) {
				assert.Equal(t, 1, r.Copied())
				assert.Equal(t, "XYZ123", r.Request.ProtocolToken, "protocol is trimmed")
				assert.FileExists(t, filepath.Join(f.dest, "rec_XYZ123.wav"))
				assert.True(t, c.has("Buscando protocolo 'XYZ123' na data 1/1/2025..."))
				assert.True(t, c.has("Busca finalizada!"))
			},
		},
		{
			name: "boundary_year_searches_both_roots_in_order",
			input: func(f *fixture) Input {
				return Input{User: "alice", Date: "15/06/2021", Protocol: "P9", Destination: f.dest}
			},
			setup: func(t *testing.T, f *fixture) {
				writeFile(t, filepath.Join(f.middle, "2021", "6", "15", "P9_a.wav"), "m")
			},
			wantState: StateFound,
			check: func(t *testing.T, f *fixture, r *Report, c *collector) {
				require.Len(t, r.Roots, 2)
				assert.Equal(t, f.early, r.Roots[0].BasePath)
				assert.Equal(t, f.middle, r.Roots[1].BasePath)
				require.Len(t, r.Outcomes, 2)
				assert.Equal(t, 0, r.Outcomes[0].FilesCopiedOk)
				assert.Equal(t, 1, r.Outcomes[1].FilesCopiedOk)
			},
		},
		{
			name: "not_found",
			input: func(f *fixture) Input {
				return Input{User: "alice", Date: "07/03/2020", Protocol: "NOPE", Destination: f.dest}
			},
			wantState: StateNotFound,
			check: func(t *testing.T, f *fixture, r *Report, c *collector) {
				assert.Len(t, r.Roots, 1)
				assert.DirExists(t, f.dest, "destination is created on demand")
				assert.True(t, c.has("Protocolo NÃO encontrado."))
				assert.False(t, r.AllCopiesFailed())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.setup != nil {
				tt.setup(t, f)
			}
			c := &collector{}

			report, err := f.search.Execute(testContext(t), tt.input(f), c)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, report)
			assert.Equal(t, tt.wantState, report.State)
			assert.True(t, c.has("Iniciando busca..."))

			if tt.check != nil {
				tt.check(t, f, report, c)
			}
		})
	}
}

func TestExecuteNothingConfigured(t *testing.T) {
	allow := filepath.Join(t.TempDir(), "allow.txt")
	writeFile(t, allow, "alice\n")

	s, err := New(Options{
		AllowList: allow,
		Resolver:  roots.NewResolver(roots.DefaultRanges(func(string) string { return "" })...),
	})
	require.NoError(t, err)

	c := &collector{}
	report, err := s.Execute(testContext(t), Input{User: "alice", Date: "01/01/2022", Protocol: "X", Destination: t.TempDir()}, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoConfiguredRoots)
	assert.Equal(t, StateNothingConfigured, report.State)
	assert.True(t, c.has("Nenhum caminho de busca configurado."))
}

func TestExecuteAllCopiesFailed(t *testing.T) {
	f := newFixture(t)
	writeFile(t, filepath.Join(f.late, "2024", "2", "3", "x_77.wav"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(f.dest, "x_77.wav"), 0o755))

	report, err := f.search.Execute(testContext(t), Input{User: "alice", Date: "03/02/2024", Protocol: "77", Destination: f.dest}, nil)
	require.NoError(t, err)

	assert.Equal(t, StateNotFound, report.State, "failed copies do not count as found")
	assert.Equal(t, 1, report.Matched())
	assert.Len(t, report.Failed(), 1)
	assert.True(t, report.AllCopiesFailed())
}

func TestExecutePermissionOverride(t *testing.T) {
	var gotUser, gotPath string
	s, err := New(Options{
		AllowList: "/allow",
		Resolver:  roots.NewResolver(),
		Permission: func(user, path string) bool {
			gotUser, gotPath = user, path
			return false
		},
	})
	require.NoError(t, err)

	_, err = s.Execute(testContext(t), Input{User: "bob"}, nil)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, "bob", gotUser)
	assert.Equal(t, "/allow", gotPath)
}

func TestNewRequiresResolver(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolver is required")
}

func TestExecuteProgressSpansRoots(t *testing.T) {
	f := newFixture(t)
	c := &collector{}

	_, err := f.search.Execute(testContext(t), Input{User: "alice", Date: "01/01/2023", Protocol: "X", Destination: f.dest}, c)
	require.NoError(t, err)

	var percents []int
	for _, e := range c.events {
		if e.Kind == search.EventProgress {
			percents = append(percents, e.Percent)
		}
	}
	require.NotEmpty(t, percents)
	assert.Equal(t, 0, percents[0])
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1], "progress should never go back across roots")
	}
	assert.Contains(t, percents, 50, "the first of two roots ends half way")
}
