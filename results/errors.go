// Copyright 2025 Poiesic Systems
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

package results

import "errors"

var (
	// ErrBackendRequired is returned when a Store is constructed without a
	// backend.
	ErrBackendRequired = errors.New("a backend is required")

	// ErrNilRecord is returned when a nil record is passed to PutRecord.
	ErrNilRecord = errors.New("record must not be nil")

	// ErrRecordNotFound is returned when no record exists for the
	// requested id.
	ErrRecordNotFound = errors.New("record not found")
)
