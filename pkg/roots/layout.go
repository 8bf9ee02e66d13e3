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

package roots

import (
	"fmt"
	"path/filepath"
	"strconv"
)

// 🗂️ Layout identifies the on-disk naming convention of a storage root
type Layout int

const (
	// LayoutLegacy roots fan out into LegacySubRoots and use zero-padded month/day folders
	LayoutLegacy Layout = iota
	// LayoutTimed roots hold year/month/day folders directly, without padding
	LayoutTimed
)

// LegacySubRoots are the historical backup folders every legacy root carries.
var LegacySubRoots = []string{"Backup_Gravacoes_10_11", "Backup_Gravacoes_10_12"}

// String returns a string representation of Layout
func (l Layout) String() string {
	switch l {
	case LayoutLegacy:
		return "legacy"
	case LayoutTimed:
		return "timed"
	default:
		return "unknown"
	}
}

// 🧭 Paths returns every directory that must be searched for the given date, in order
func (l Layout) Paths(base string, year, month, day int) []string {
	switch l {
	case LayoutTimed:
		return timedPaths(base, year, month, day)
	default:
		return legacyPaths(base, year, month, day)
	}
}

func legacyPaths(base string, year, month, day int) []string {
	paths := make([]string, 0, len(LegacySubRoots))
	for _, sub := range LegacySubRoots {
		paths = append(paths, filepath.Join(base, sub,
			strconv.Itoa(year),
			fmt.Sprintf("%02d", month),
			fmt.Sprintf("%02d", day),
		))
	}
	return paths
}

func timedPaths(base string, year, month, day int) []string {
	return []string{filepath.Join(base,
		strconv.Itoa(year),
		strconv.Itoa(month),
		strconv.Itoa(day),
	)}
}

// 📦 StorageRoot is a configured top-level recordings directory
type StorageRoot struct {
	BasePath string `json:"base_path"`
	Layout   Layout `json:"layout"`
}

// Paths returns the directories to search under this root for the given date
func (r StorageRoot) Paths(year, month, day int) []string {
	return r.Layout.Paths(r.BasePath, year, month, day)
}

func (r StorageRoot) String() string {
	return fmt.Sprintf("%s (%s)", r.BasePath, r.Layout)
}
