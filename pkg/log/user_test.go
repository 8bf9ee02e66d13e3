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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diego-abuv/ProtoSearch/pkg/operation"
	"github.com/diego-abuv/ProtoSearch/pkg/roots"
	"github.com/diego-abuv/ProtoSearch/pkg/search"
)

func TestReportTable(t *testing.T) {
	r := &operation.Report{
		State: operation.StateFound,
		Outcomes: []search.CopyOutcome{
			{Root: "/a", PathsTried: []string{"/a/1", "/a/2"}, FilesMatched: 3, FilesCopiedOk: 2,
				FilesCopyFailed: []search.CopyFailure{{Filename: "x", Error: "e"}}},
			{Root: "/b", PathsTried: []string{"/b/1"}},
		},
	}

	got := ReportTable(r)
	require.Len(t, got, 3, "header plus one row per root")
	assert.Equal(t, []string{"/a", "2", "3", "2", "1"}, got[1])
	assert.Equal(t, []string{"/b", "1", "0", "0", "0"}, got[2])
}

func TestRangesTable(t *testing.T) {
	ranges := []roots.Range{
		roots.RangeFromSpec("A", 2019, 2021, "/a,false"),
		roots.RangeFromSpec("B", 2021, 2023, ""),
	}

	got := RangesTable(ranges)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A", "2019-2021", "/a", "legacy"}, got[1])
	assert.Equal(t, []string{"B", "2021-2023", "(não configurada)", "-"}, got[2])
}
