// Copyright (c) 2017 Intel Corporation
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

package extract

import (
	"fmt"
	"strings"
)

// InconsistentKeysError is returned when runs recorded different measurement names.
type InconsistentKeysError struct {
	Subgroup     string
	ReferenceRun string
	Run          string
	// Missing are names recorded by the reference run only.
	Missing []string
	// Extra are names recorded by the offending run only.
	Extra []string
}

func (e *InconsistentKeysError) Error() string {
	return fmt.Sprintf("inconsistent measurements in subgroup %q: run %q differs from run %q (missing: [%s], extra: [%s])",
		e.Subgroup, e.Run, e.ReferenceRun, strings.Join(e.Missing, ", "), strings.Join(e.Extra, ", "))
}

// InconsistentStepsError is returned when runs recorded a measurement at different steps.
type InconsistentStepsError struct {
	Subgroup     string
	ReferenceRun string
	Run          string
	Key          string
	Expected     []int64
	Actual       []int64
}

func (e *InconsistentStepsError) Error() string {
	if len(e.Expected) != len(e.Actual) {
		return fmt.Sprintf("inconsistent steps of %q in subgroup %q: run %q has %d points, run %q has %d",
			e.Key, e.Subgroup, e.Run, len(e.Actual), e.ReferenceRun, len(e.Expected))
	}
	return fmt.Sprintf("inconsistent steps of %q in subgroup %q: run %q recorded %v, run %q recorded %v",
		e.Key, e.Subgroup, e.Run, e.Actual, e.ReferenceRun, e.Expected)
}
