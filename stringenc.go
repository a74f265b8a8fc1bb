// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package construct

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// StringEncoder is the external collaborator contract for text encodings:
// [FormatString] delegates all charset handling to one of these, the same
// way [FormatField] delegates numeric layout to a [NumericFormat].
type StringEncoder interface {
	// Encode converts s to its on-disk byte representation.
	Encode(s string) ([]byte, error)
	// Decode converts raw bytes back to a string.
	Decode(b []byte) (string, error)
}

type utf8Encoder struct{}

func (utf8Encoder) Encode(s string) ([]byte, error) { return []byte(s), nil }
func (utf8Encoder) Decode(b []byte) (string, error) { return string(b), nil }

// UTF8 is the identity [StringEncoder]: bytes are the UTF-8 encoding of s
// and vice versa, with no validation.
var UTF8 StringEncoder = utf8Encoder{}

type charmapEncoder struct {
	name string
	cm   *charmap.Charmap
}

func (e charmapEncoder) Encode(s string) ([]byte, error) {
	out, err := e.cm.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("construct: encoding string as %s: %w", e.name, err)
	}
	return out, nil
}

func (e charmapEncoder) Decode(b []byte) (string, error) {
	out, err := e.cm.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("construct: decoding %s string: %w", e.name, err)
	}
	return string(out), nil
}

// Windows1252 is the single-byte Windows-1252 (a superset of Latin-1)
// [StringEncoder], common in older binary formats authored on Windows.
var Windows1252 StringEncoder = charmapEncoder{name: "windows-1252", cm: charmap.Windows1252}
