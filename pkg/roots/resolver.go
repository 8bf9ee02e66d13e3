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
	"sort"
	"strings"
)

// Environment keys for the three historical ranges.
const (
	KeyEarly  = "RAIZ_2019_2021"
	KeyMiddle = "RAIZ_2021_2023"
	KeyLate   = "RAIZ_2023_2025"
)

// 📅 Range maps an inclusive span of years to a storage root.
// A nil Root means the range is not configured and never matches.
type Range struct {
	Name string
	From int
	To   int
	Root *StorageRoot
}

// Contains reports whether year falls inside the range, bounds included
func (r Range) Contains(year int) bool {
	return year >= r.From && year <= r.To
}

// 🔍 ParseRootSpec parses a "<path>,<true|false>" value.
// The second field selects the timed layout when it equals "true" (any case,
// no surrounding spaces); any other non-empty value selects the legacy layout.
func ParseRootSpec(spec string) (StorageRoot, bool) {
	fields := strings.Split(spec, ",")
	if len(fields) != 2 {
		return StorageRoot{}, false
	}

	path := fields[0]
	flag := fields[1]
	if strings.TrimSpace(path) == "" || flag == "" {
		return StorageRoot{}, false
	}

	layout := LayoutLegacy
	if strings.EqualFold(flag, "true") {
		layout = LayoutTimed
	}

	return StorageRoot{BasePath: path, Layout: layout}, true
}

// RangeFromSpec builds a Range whose root comes from a raw spec value.
// Malformed or empty specs yield an unconfigured range.
func RangeFromSpec(name string, from, to int, spec string) Range {
	r := Range{Name: name, From: from, To: to}
	if root, ok := ParseRootSpec(spec); ok {
		r.Root = &root
	}
	return r
}

// DefaultRanges returns the early, middle and late ranges, reading each root
// spec through lookup (usually os.Getenv).
func DefaultRanges(lookup func(string) string) []Range {
	return []Range{
		RangeFromSpec(KeyEarly, 2019, 2021, lookup(KeyEarly)),
		RangeFromSpec(KeyMiddle, 2021, 2023, lookup(KeyMiddle)),
		RangeFromSpec(KeyLate, 2023, 2025, lookup(KeyLate)),
	}
}

// 🗺️ Resolver maps a year to the storage roots that may hold its recordings
type Resolver struct {
	ranges []Range
}

// 🏭 NewResolver creates a resolver; ranges are kept in ascending historical order
func NewResolver(ranges ...Range) *Resolver {
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].From != sorted[j].From {
			return sorted[i].From < sorted[j].From
		}
		return sorted[i].To < sorted[j].To
	})
	return &Resolver{ranges: sorted}
}

// Ranges returns a copy of the configured ranges
func (r *Resolver) Ranges() []Range {
	out := make([]Range, len(r.ranges))
	copy(out, r.ranges)
	return out
}

// 🎯 Resolve returns every configured root whose range contains year.
// Boundary years shared by two ranges yield both roots. An empty result means
// nothing is configured for the year and is not an error.
func (r *Resolver) Resolve(year int) []StorageRoot {
	var out []StorageRoot
	for _, rng := range r.ranges {
		if rng.Root == nil || !rng.Contains(year) {
			continue
		}
		out = append(out, *rng.Root)
	}
	return out
}
