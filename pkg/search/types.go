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

package search

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Supported recording years, inclusive.
const (
	MinYear = 2019
	MaxYear = 2025
)

// ErrInvalidRequest is returned by NewRequest when a field is out of range
var ErrInvalidRequest = errors.Base("invalid search request")

// ErrSameFile is recorded when a matched file would be copied onto itself
var ErrSameFile = errors.Base("source and destination are the same file")

// 📋 Request describes one search: the recording date, the protocol token to
// look for in filenames, and where matches are copied to.
type Request struct {
	Year           int
	Month          int
	Day            int
	ProtocolToken  string
	DestinationDir string
}

// 🏭 NewRequest builds a validated request.
// The token is not checked here: an empty token matches every file.
func NewRequest(year, month, day int, token, destination string) (Request, error) {
	switch {
	case year < MinYear || year > MaxYear:
		return Request{}, errors.Errorf("%w: year %d outside %d..%d", ErrInvalidRequest, year, MinYear, MaxYear)
	case month < 1 || month > 12:
		return Request{}, errors.Errorf("%w: month %d", ErrInvalidRequest, month)
	case day < 1 || day > 31:
		return Request{}, errors.Errorf("%w: day %d", ErrInvalidRequest, day)
	case strings.TrimSpace(destination) == "":
		return Request{}, errors.Errorf("%w: empty destination", ErrInvalidRequest)
	}

	return Request{
		Year:           year,
		Month:          month,
		Day:            day,
		ProtocolToken:  token,
		DestinationDir: destination,
	}, nil
}

// CopyFailure records one file that matched but could not be copied
type CopyFailure struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// 📊 CopyOutcome summarises one engine invocation against one root
type CopyOutcome struct {
	Root            string        `json:"root"`
	PathsTried      []string      `json:"paths_tried"`
	FilesMatched    int           `json:"files_matched"`
	FilesCopiedOk   int           `json:"files_copied_ok"`
	FilesCopyFailed []CopyFailure `json:"files_copy_failed,omitempty"`
	BytesCopied     int64         `json:"bytes_copied"`
}

// Found reports whether at least one file was copied
func (o CopyOutcome) Found() bool {
	return o.FilesCopiedOk > 0
}
