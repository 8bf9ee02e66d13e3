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
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/diego-abuv/ProtoSearch/pkg/dates"
	"github.com/diego-abuv/ProtoSearch/pkg/permission"
	"github.com/diego-abuv/ProtoSearch/pkg/roots"
	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

// 📋 Input is what a user hands in for one search
type Input struct {
	User        string
	Date        string // DD/MM/YYYY
	Protocol    string
	Destination string
}

// 🔧 Options wires a Searcher
type Options struct {
	// AllowList is the path of the allow-list file
	AllowList string
	// Resolver maps years to storage roots
	Resolver *roots.Resolver
	// Engine walks a single root; nil uses the local disk
	Engine *search.Engine
	// Permission overrides the allow-list check
	Permission func(user, allowList string) bool
}

// 🔍 Searcher runs a full multi-root search
type Searcher struct {
	allowList  string
	resolver   *roots.Resolver
	engine     *search.Engine
	permission func(user, allowList string) bool
}

// 🏭 New creates a searcher with the given options
func New(opts Options) (*Searcher, error) {
	if opts.Resolver == nil {
		return nil, errors.Errorf("resolver is required")
	}
	if opts.Engine == nil {
		opts.Engine = search.NewEngine(nil)
	}
	if opts.Permission == nil {
		opts.Permission = permission.Has
	}
	return &Searcher{
		allowList:  opts.AllowList,
		resolver:   opts.Resolver,
		engine:     opts.Engine,
		permission: opts.Permission,
	}, nil
}

// 🎯 Execute validates in, resolves the roots for its year and invokes the
// engine once per root, strictly in order. Validation failures return before
// any traversal with the matching state set on the report.
func (s *Searcher) Execute(ctx context.Context, in Input, sink search.Sink) (*Report, error) {
	if sink == nil {
		sink = search.Discard
	}
	logger := zerolog.Ctx(ctx)

	sink.Emit(search.Info("Iniciando busca..."))

	if !s.permission(in.User, s.allowList) {
		sink.Emit(search.Info("Acesso negado!"))
		return &Report{State: StateDenied}, errors.Errorf("%w: %q", ErrPermissionDenied, in.User)
	}

	protocol := strings.TrimSpace(in.Protocol)
	if strings.TrimSpace(in.Date) == "" || protocol == "" {
		sink.Emit(search.Info("Data ou protocolo não preenchidos."))
		return &Report{State: StateInvalidInput}, errors.Errorf("%w: date and protocol are required", ErrInvalidInput)
	}

	day, err := dates.ParseDDMMYYYY(in.Date)
	if err != nil {
		sink.Emit(search.Infof("Erro: %v", err))
		return &Report{State: StateInvalidInput}, errors.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if day.Year() < search.MinYear || day.Year() > search.MaxYear {
		sink.Emit(search.Info("Ano fora do intervalo permitido."))
		return &Report{State: StateInvalidInput}, errors.Errorf("%w: year %d outside %d..%d", ErrInvalidInput, day.Year(), search.MinYear, search.MaxYear)
	}

	found := s.resolver.Resolve(day.Year())
	if len(found) == 0 {
		sink.Emit(search.Info("Nenhum caminho de busca configurado."))
		return &Report{State: StateNothingConfigured}, errors.Errorf("%w %d", ErrNoConfiguredRoots, day.Year())
	}

	req, err := search.NewRequest(day.Year(), int(day.Month()), day.Day(), protocol, in.Destination)
	if err != nil {
		sink.Emit(search.Infof("Erro: %v", err))
		return &Report{State: StateInvalidInput}, errors.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := os.MkdirAll(req.DestinationDir, 0o755); err != nil {
		sink.Emit(search.Infof("Erro ao criar '%s': %v", req.DestinationDir, err))
		return &Report{State: StateInvalidInput, Request: req}, errors.Errorf("%w: creating destination: %w", ErrInvalidInput, err)
	}

	report := &Report{
		State:       StateNotFound,
		Request:     req,
		Roots:       found,
		Destination: req.DestinationDir,
	}

	sink.Emit(search.Infof("Buscando protocolo '%s' na data %d/%d/%d...", protocol, req.Day, req.Month, req.Year))

	for i, root := range found {
		logger.Debug().Str("root", root.String()).Msg("searching root")
		outcome := s.engine.SearchAndCopy(ctx, req, root, scaleProgress(sink, i, len(found)))
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Found() {
			report.State = StateFound
		}
	}

	if report.Found() {
		sink.Emit(search.Infof("Busca finalizada! Arquivos copiados para: %s", report.Destination))
	} else {
		sink.Emit(search.Info("Protocolo NÃO encontrado."))
	}

	logger.Info().
		Str("state", string(report.State)).
		Int("roots", len(report.Roots)).
		Int("copied", report.Copied()).
		Int("failed", len(report.Failed())).
		Msg("search finished")

	return report, nil
}

// Operation binds in to the searcher so it can be handed to a Runner
func (s *Searcher) Operation(in Input) Operation {
	return OperationFunc(func(ctx context.Context, sink search.Sink) (*Report, error) {
		return s.Execute(ctx, in, sink)
	})
}

// scaleProgress maps the 0..100 progress of root i onto its share of the
// whole search, so progress across roots never goes back
func scaleProgress(sink search.Sink, i, n int) search.Sink {
	return search.SinkFunc(func(e search.Event) {
		if e.Kind == search.EventProgress {
			e = search.Progress((i*100 + e.Percent) / n)
		}
		sink.Emit(e)
	})
}
