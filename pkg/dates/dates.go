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

// Package dates converts between the DD/MM/YYYY form users type and time.Time.
package dates

import (
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// ErrInvalidDate is wrapped by every parse failure
var ErrInvalidDate = errors.Base("formato de data inválido, use DD/MM/AAAA")

// day and month accept one or two digits
const inputLayout = "2/1/2006"

// ParseDDMMYYYY parses "07/03/2020" or "7/3/2020"
func ParseDDMMYYYY(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.Errorf("%w: data vazia", ErrInvalidDate)
	}
	t, err := time.Parse(inputLayout, s)
	if err != nil {
		return time.Time{}, errors.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatMDY renders t as MM/DD/YY
func FormatMDY(t time.Time) string {
	return t.Format("01/02/06")
}

// FormatDMY renders t as DD/MM/YYYY
func FormatDMY(t time.Time) string {
	return t.Format("02/01/2006")
}
