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
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/series"
)

// NamedMeasurements are measurements read from one run.
type NamedMeasurements struct {
	Run          string
	Measurements series.Measurements
}

// Validate checks that all runs share measurement names and steps.
// It returns sorted measurement names and the steps shared by all runs.
//
// Steps are compared for the first measurement only. Other measurements are
// only required to have the same number of points.
func Validate(subgroup string, runs []NamedMeasurements) (keys []string, steps []int64, err error) {
	if len(runs) == 0 {
		return []string{}, []int64{}, nil
	}

	reference := runs[0]
	keys = reference.Measurements.Names()
	for _, run := range runs[1:] {
		missing, extra := difference(keys, run.Measurements.Names())
		if len(missing) > 0 || len(extra) > 0 {
			return nil, nil, &InconsistentKeysError{
				Subgroup:     subgroup,
				ReferenceRun: reference.Run,
				Run:          run.Run,
				Missing:      missing,
				Extra:        extra,
			}
		}
	}

	if len(keys) == 0 {
		return keys, []int64{}, nil
	}

	first := keys[0]
	steps = reference.Measurements[first].Steps()
	for _, run := range runs[1:] {
		actual := run.Measurements[first].Steps()
		if !equalSteps(steps, actual) {
			return nil, nil, &InconsistentStepsError{
				Subgroup:     subgroup,
				ReferenceRun: reference.Run,
				Run:          run.Run,
				Key:          first,
				Expected:     steps,
				Actual:       actual,
			}
		}
	}

	for _, key := range keys[1:] {
		for _, run := range runs {
			if s := run.Measurements[key]; len(s) != len(steps) {
				return nil, nil, &InconsistentStepsError{
					Subgroup:     subgroup,
					ReferenceRun: reference.Run,
					Run:          run.Run,
					Key:          key,
					Expected:     steps,
					Actual:       s.Steps(),
				}
			}
		}
	}

	return keys, steps, nil
}

// difference returns elements only in sorted a and elements only in sorted b.
func difference(a, b []string) (onlyA, onlyB []string) {
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			onlyA = append(onlyA, a[i])
			i++
		case i == len(a) || b[j] < a[i]:
			onlyB = append(onlyB, b[j])
			j++
		default:
			i++
			j++
		}
	}
	return onlyA, onlyB
}

func equalSteps(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
