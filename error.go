// Copyright 2020-2025 Buf Technologies, Inc.
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
	"errors"
	"fmt"
)

// ErrorKind classifies the failure modes a [Construct] can raise, per the
// error taxonomy every combinator is expected to use.
type ErrorKind int

const (
	_ ErrorKind = iota
	// StreamError signals underflow, overflow, a non-aligned exit from bit
	// mode, or a seek past the end of a stream.
	StreamError
	// FormatError signals a value out of representable range, or an
	// endianness/width mismatch.
	FormatError
	// ConstError signals that a Const field's parsed value did not equal
	// its expected value.
	ConstError
	// RangeError signals a count or size expression that is negative or
	// exceeds its bounds.
	RangeError
	// SwitchError signals no matching Switch case and no default.
	SwitchError
	// ExplicitError is raised by user expressions or Check combinators.
	ExplicitError
	// UnknownSizeError signals that a static size could not be determined.
	// Non-fatal when returned from StaticSizeof directly; fatal when a
	// caller demanded a static answer it cannot get.
	UnknownSizeError
	// ContextError signals that an expression referenced a missing path.
	ContextError
	// XMLError signals a missing tag/attribute or an unparseable
	// attribute literal.
	XMLError
)

//nolint:gochecknoglobals
var errorKindNames = [...]string{
	StreamError:      "StreamError",
	FormatError:      "FormatError",
	ConstError:       "ConstError",
	RangeError:       "RangeError",
	SwitchError:      "SwitchError",
	ExplicitError:    "ExplicitError",
	UnknownSizeError: "UnknownSizeError",
	ContextError:     "ContextError",
	XMLError:         "XMLError",
}

// String implements [fmt.Stringer].
func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) && errorKindNames[k] != "" {
		return errorKindNames[k]
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is the concrete error type raised by this package. Every error a
// [Construct] returns can be type-asserted or matched with [errors.As] to
// recover its [ErrorKind] and the dotted field path at which it occurred.
type Error struct {
	Kind  ErrorKind
	Path  string
	cause error
}

// newErr builds an *Error wrapping cause, tagged with kind and path.
func newErr(kind ErrorKind, path string, cause error) *Error {
	return &Error{Kind: kind, Path: path, cause: cause}
}

// newErrf is like newErr, but builds the cause from a format string.
func newErrf(kind ErrorKind, path, format string, args ...any) *Error {
	return newErr(kind, path, fmt.Errorf(format, args...))
}

// Unwrap implements error unwrapping via [errors.Unwrap].
func (e *Error) Unwrap() error { return e.cause }

// Error implements [error].
func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("construct: %v: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("construct: %v at %s: %v", e.Kind, e.Path, e.cause)
}

// Is allows errors.Is(err, SomeErrorKind) by comparing kinds, in addition to
// the usual errors.Is(err, otherErr) cause comparison that Unwrap gives us
// for free.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// KindOf returns the [ErrorKind] of err, if err is (or wraps) an *Error, and
// ok=false otherwise.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
