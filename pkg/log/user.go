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

package log

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/diego-abuv/ProtoSearch/pkg/operation"
	"github.com/diego-abuv/ProtoSearch/pkg/roots"
)

// 📢 UserLogger prints user facing feedback with pterm
type UserLogger struct {
	log zerolog.Logger // for debug/error logging
}

// 🎯 NewUserLogger creates a new user logger
func NewUserLogger(ctx context.Context) *UserLogger {
	return &UserLogger{
		log: *zerolog.Ctx(ctx),
	}
}

// 📊 LogStateChange logs a change to the overall state
func (u *UserLogger) LogStateChange(description string) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "📦"}).Println(description)
	u.log.Info().Msg(description)
}

// 🔍 LogValidation logs validation results
func (u *UserLogger) LogValidation(valid bool, description string, err error) {
	switch {
	case valid:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Println(description)
		u.log.Info().Msg(description)
	case err != nil:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Println(description)
		pterm.Error.Println(err)
		u.log.Error().Err(err).Msg(description)
	default:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).Println(description)
		u.log.Warn().Msg(description)
	}
}

// 🏁 LogReport prints the end state of a search and, when roots were
// searched, a table with one row per root
func (u *UserLogger) LogReport(r *operation.Report) {
	if r == nil {
		return
	}

	switch r.State {
	case operation.StateFound:
		pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).
			Printf("Busca finalizada! Protocolo(s) encontrado(s) e copiado(s) para: %s\n", r.Destination)
	case operation.StateNotFound:
		if r.AllCopiesFailed() {
			pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).
				Printf("%d arquivo(s) encontrados mas nenhuma cópia concluída\n", r.Matched())
		} else {
			pterm.Info.WithPrefix(pterm.Prefix{Text: "🔍"}).
				Println("Protocolo NÃO encontrado em nenhum dos caminhos verificados.")
		}
	case operation.StateNothingConfigured:
		pterm.Info.WithPrefix(pterm.Prefix{Text: "📭"}).
			Println("Nenhum caminho de busca configurado para o ano especificado.")
	case operation.StateDenied:
		pterm.Error.WithPrefix(pterm.Prefix{Text: "🔒"}).
			Println("Acesso negado! Você não possui permissão para usar este programa.")
	case operation.StateInvalidInput:
		pterm.Warning.WithPrefix(pterm.Prefix{Text: "⚠️"}).
			Println("Entrada inválida.")
	}

	for _, f := range r.Failed() {
		pterm.Error.Printf("Erro ao copiar '%s': %s\n", f.Filename, f.Error)
	}

	if len(r.Outcomes) > 0 {
		if err := pterm.DefaultTable.WithHasHeader().WithData(ReportTable(r)).Render(); err != nil {
			u.log.Debug().Err(err).Msg("rendering outcome table")
		}
	}

	u.log.Info().
		Str("state", string(r.State)).
		Int("matched", r.Matched()).
		Int("copied", r.Copied()).
		Int("failed", len(r.Failed())).
		Msg("search report")
}

// ReportTable turns a report into table rows, header first
func ReportTable(r *operation.Report) pterm.TableData {
	data := pterm.TableData{{"Raiz", "Caminhos", "Encontrados", "Copiados", "Falhas"}}
	for _, o := range r.Outcomes {
		data = append(data, []string{
			o.Root,
			strconv.Itoa(len(o.PathsTried)),
			strconv.Itoa(o.FilesMatched),
			strconv.Itoa(o.FilesCopiedOk),
			strconv.Itoa(len(o.FilesCopyFailed)),
		})
	}
	return data
}

// RangesTable lists every configured range, header first
func RangesTable(ranges []roots.Range) pterm.TableData {
	data := pterm.TableData{{"Chave", "Anos", "Raiz", "Layout"}}
	for _, r := range ranges {
		root, layout := "(não configurada)", "-"
		if r.Root != nil {
			root, layout = r.Root.BasePath, r.Root.Layout.String()
		}
		data = append(data, []string{r.Name, fmt.Sprintf("%d-%d", r.From, r.To), root, layout})
	}
	return data
}
