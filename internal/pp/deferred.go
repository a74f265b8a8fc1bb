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

// Package pp holds the tagged-union value the preprocess engine passes
// between its first and second sweep: a field value is either already
// resolved, or is a Deferred wrapping a closure over the sibling context
// it must wait to see fully populated before it can be evaluated.
//
// A composite combinator (Struct, FocusedSeq, ...) that meets a Deferred
// value in its first sweep stores it in the field's container entry as-is,
// then calls Resolve for every Deferred it collected once every sibling
// has been preprocessed -- left to right, so that a later Rebuild can
// legitimately depend on an earlier one, mirroring how Build sees fields.
package pp

// Deferred is a value whose computation is postponed until the structure
// containing it has finished its first preprocessing sweep.
type Deferred struct {
	// Resolve computes the final value. It closes over whatever context it
	// needs (typically a *construct.Context whose backing container is
	// mutated in place by the sweep), so it must only be called once that
	// context is fully populated.
	Resolve func() (any, error)
}
