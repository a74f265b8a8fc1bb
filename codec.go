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
	"bytes"
	"compress/gzip"
	"io"
)

// Codec is the external collaborator contract for [Tunnel]/[Compressed]:
// a compression or obfuscation scheme. Encode/Decode must be mutual
// inverses on well-formed input.
type Codec interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// GzipCodec is a [Codec] backed by the standard library's compress/gzip. It
// is the one concrete Codec this package ships, so that Tunnel/Compressed
// is exercisable out of the box; callers needing a different wire
// compression or an obfuscation scheme supply their own Codec.
var GzipCodec Codec = gzipCodec{}

type gzipCodec struct{}

func (gzipCodec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
