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

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
// Expressions can read the process environment through the env object,
// e.g. root = "${env.HOME}/gravacoes,true".
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

type hclRange struct {
	Name string `hcl:"name,label"`
	From int    `hcl:"from"`
	To   int    `hcl:"to"`
	Root string `hcl:"root,optional"`
}

type hclLog struct {
	Level      string `hcl:"level,optional"`
	File       string `hcl:"file,optional"`
	MaxSizeMB  int    `hcl:"max_size_mb,optional"`
	MaxBackups int    `hcl:"max_backups,optional"`
	MaxAgeDays int    `hcl:"max_age_days,optional"`
	Compress   bool   `hcl:"compress,optional"`
}

type hclConfig struct {
	AllowList   string     `hcl:"allow_list,optional"`
	Destination string     `hcl:"destination,optional"`
	Ranges      []hclRange `hcl:"range,block"`
	Log         *hclLog    `hcl:"log,block"`
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		AllowList:   hclCfg.AllowList,
		Destination: hclCfg.Destination,
	}
	for _, r := range hclCfg.Ranges {
		cfg.Ranges = append(cfg.Ranges, RangeConfig{
			Name: r.Name,
			From: r.From,
			To:   r.To,
			Root: r.Root,
		})
	}
	if hclCfg.Log != nil {
		cfg.Log = LogConfig{
			Level:      hclCfg.Log.Level,
			File:       hclCfg.Log.File,
			MaxSizeMB:  hclCfg.Log.MaxSizeMB,
			MaxBackups: hclCfg.Log.MaxBackups,
			MaxAgeDays: hclCfg.Log.MaxAgeDays,
			Compress:   hclCfg.Log.Compress,
		}
	}

	return cfg, nil
}

// envObject exposes the process environment as a cty object
func envObject() cty.Value {
	vals := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vals[k] = cty.StringVal(v)
	}
	if len(vals) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vals)
}
