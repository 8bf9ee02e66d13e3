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

// Package permission answers whether a user may run searches, based on a
// newline separated allow-list file.
package permission

import (
	"bufio"
	"os"
	"os/user"
	"strings"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 🔐 Has reports whether username appears in the allow-list at path.
// Entries and the username are compared trimmed and lowercased. An empty path,
// a missing file or any read error denies access.
func Has(username, path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	want := normalize(username)
	if want == "" {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if normalize(scanner.Text()) == want {
			return true
		}
	}
	return false
}

// Entries returns the normalized, non-empty entries of the allow-list
func Entries(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading allow-list: %w", err)
	}
	var out []string
	for _, line := range strings.Split(string(data), "\n") {
		if n := normalize(line); n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

// CurrentUser returns the login name of the invoking user
func CurrentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		name := u.Username
		// windows reports DOMAIN\user
		if i := strings.LastIndex(name, `\`); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return os.Getenv("USERNAME")
}

// normalize trims and lowercases with Unicode rules, so "JOÃO" matches "joão"
func normalize(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}
