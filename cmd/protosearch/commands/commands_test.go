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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diego-abuv/ProtoSearch/cmd/protosearch/opts"
	"github.com/diego-abuv/ProtoSearch/pkg/config"
	"github.com/diego-abuv/ProtoSearch/pkg/job"
	"github.com/diego-abuv/ProtoSearch/pkg/log"
	"github.com/diego-abuv/ProtoSearch/pkg/permission"
	"github.com/diego-abuv/ProtoSearch/pkg/roots"
	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

type fakeBar struct {
	added   []int
	stopped bool
}

func (f *fakeBar) Add(n int) *pterm.ProgressbarPrinter {
	f.added = append(f.added, n)
	return nil
}

func (f *fakeBar) Stop() (*pterm.ProgressbarPrinter, error) {
	f.stopped = true
	return nil, nil
}

type lines struct {
	got []string
}

func (l *lines) Emit(e search.Event) { l.got = append(l.got, e.Message) }

func TestRenderer(t *testing.T) {
	out := &lines{}
	bar := &fakeBar{}
	r := newRenderer(out, bar)

	r.handle(job.UpdateEvent{Percent: 0})
	r.handle(job.UpdateEvent{LogLine: "Procurando em: /a..."})
	r.handle(job.UpdateEvent{Percent: 30})
	r.handle(job.UpdateEvent{Percent: 20})
	r.handle(job.UpdateEvent{Percent: 80})
	r.finish()

	assert.Equal(t, []string{"Procurando em: /a..."}, out.got)
	assert.Equal(t, []int{30, 50, 20}, bar.added, "bar only moves forward and ends full")
	assert.True(t, bar.stopped)
}

func TestRendererWithoutBar(t *testing.T) {
	out := &lines{}
	r := newRenderer(out, nil)
	r.handle(job.UpdateEvent{Percent: 50, LogLine: "x"})
	r.finish()
	assert.Equal(t, []string{"x"}, out.got)
}

func TestRendererKeepsLogLinesVerbatim(t *testing.T) {
	out := &lines{}
	r := newRenderer(out, nil)
	r.handle(job.UpdateEvent{LogLine: "Arquivo 'call_100%_%d.wav' copiado para '/tmp/%s'"})
	assert.Equal(t, []string{"Arquivo 'call_100%_%d.wav' copiado para '/tmp/%s'"}, out.got)
}

type cliFixture struct {
	opts    *opts.RootOpts
	console *bytes.Buffer
	base    string
	dest    string
}

func newCLIFixture(t *testing.T, allowed bool) *cliFixture {
	t.Helper()
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	dir := t.TempDir()
	allow := filepath.Join(dir, "allow.txt")
	entry := "someone-else"
	if allowed {
		entry = permission.CurrentUser()
	}
	require.NoError(t, os.WriteFile(allow, []byte(entry+"\n"), 0o644))

	base := filepath.Join(dir, "rec")
	cfg := config.Default()
	cfg.AllowList = allow
	cfg.Destination = filepath.Join(dir, "out")
	cfg.Ranges = []config.RangeConfig{{Name: roots.KeyLate, From: 2023, To: 2025, Root: base + ",true"}}

	buf := &bytes.Buffer{}
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

	return &cliFixture{
		opts: &opts.RootOpts{
			Config:     cfg,
			Console:    log.New(buf, zerolog.New(zerolog.NewTestWriter(t))),
			UserLogger: log.NewUserLogger(ctx),
		},
		console: buf,
		base:    base,
		dest:    cfg.Destination,
	}
}

func TestSearchCmd(t *testing.T) {
	t.Setenv("USER", "tester")

	t.Run("copies_matches", func(t *testing.T) {
		f := newCLIFixture(t, true)
		src := filepath.Join(f.base, "2025", "1", "1", "10h", "call_XYZ123.wav")
		require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
		require.NoError(t, os.WriteFile(src, []byte("audio"), 0o644))

		cmd := NewSearchCmd(f.opts)
		cmd.SetArgs([]string{"--date", "01/01/2025", "--protocol", "XYZ123", "--no-progress"})
		require.NoError(t, cmd.Execute())

		assert.FileExists(t, filepath.Join(f.dest, "call_XYZ123.wav"))
		assert.Contains(t, f.console.String(), "Arquivo 'call_XYZ123.wav' copiado para")
		assert.Contains(t, f.console.String(), "1/1 copied")
	})

	t.Run("destination_flag", func(t *testing.T) {
		f := newCLIFixture(t, true)
		other := filepath.Join(t.TempDir(), "elsewhere")

		cmd := NewSearchCmd(f.opts)
		cmd.SetArgs([]string{"--date", "02/02/2024", "--protocol", "X", "--destination", other, "--no-progress"})
		require.NoError(t, cmd.Execute(), "not found is not an error")

		assert.DirExists(t, other)
		assert.Contains(t, f.console.String(), "Protocolo NÃO encontrado.")
	})

	t.Run("denied", func(t *testing.T) {
		f := newCLIFixture(t, false)

		cmd := NewSearchCmd(f.opts)
		cmd.SetArgs([]string{"--date", "01/01/2025", "--protocol", "X", "--no-progress"})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
		assert.NoDirExists(t, f.dest)
	})

	t.Run("nothing_configured_is_not_an_error", func(t *testing.T) {
		f := newCLIFixture(t, true)

		cmd := NewSearchCmd(f.opts)
		cmd.SetArgs([]string{"--date", "01/01/2019", "--protocol", "X", "--no-progress"})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, f.console.String(), "Nenhum caminho de busca configurado.")
	})

	t.Run("bad_date", func(t *testing.T) {
		f := newCLIFixture(t, true)

		cmd := NewSearchCmd(f.opts)
		cmd.SetArgs([]string{"--date", "2025-01-01", "--protocol", "X", "--no-progress"})
		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid input")
	})
}

func TestAccessCmd(t *testing.T) {
	t.Setenv("USER", "tester")

	f := newCLIFixture(t, true)

	cmd := NewAccessCmd(f.opts)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute(), "current user is allowed")

	cmd = NewAccessCmd(f.opts)
	cmd.SetArgs([]string{"--user", "nobody-here"})
	require.Error(t, cmd.Execute())

	f.opts.Config.AllowList = ""
	cmd = NewAccessCmd(f.opts)
	cmd.SetArgs([]string{"--user", "x"})
	require.Error(t, cmd.Execute())
}

func TestRootsCmd(t *testing.T) {
	f := newCLIFixture(t, true)

	for _, args := range [][]string{
		{},
		{"--year", "2024"},
		{"--year", "2024", "--month", "3", "--day", "9"},
		{"--year", "2019"},
	} {
		cmd := NewRootsCmd(f.opts)
		cmd.SetArgs(args)
		assert.NoError(t, cmd.Execute(), "args %v", args)
	}

	cmd := NewRootsCmd(f.opts)
	cmd.SetArgs([]string{"--year", "2030"})
	assert.Error(t, cmd.Execute())
}
