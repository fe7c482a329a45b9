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

// Package reduce collapses values of many runs into a single value per step.
package reduce

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Operation is a reduction applied across runs.
type Operation int

// Supported operations.
const (
	Mean Operation = iota
	Min
	Max
	Median
	Std
)

// Operations returns all supported operations in the order they are written.
func Operations() []Operation {
	return []Operation{Mean, Min, Max, Median, Std}
}

func (o Operation) String() string {
	switch o {
	case Mean:
		return "mean"
	case Min:
		return "min"
	case Max:
		return "max"
	case Median:
		return "median"
	case Std:
		return "std"
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Group maps measurement name to reduced values, one per step.
type Group map[string][]float64

// Reduce applies operation to values of every measurement at every step.
// Values are indexed by step, then by run.
func Reduce(values map[string][][]float64, op Operation) (Group, error) {
	group := make(Group, len(values))
	for key, steps := range values {
		reduced := make([]float64, len(steps))
		for step, runs := range steps {
			value, err := Apply(op, runs)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot compute %s of %q at step index %d", op, key, step)
			}
			reduced[step] = value
		}
		group[key] = reduced
	}
	return group, nil
}

// Apply reduces values with given operation. Any NaN makes the result NaN.
// Standard deviation is the population one. The result does not depend on the order of values.
func Apply(op Operation, values []float64) (float64, error) {
	if len(values) == 0 {
		return math.NaN(), errors.New("no values to reduce")
	}
	for _, value := range values {
		if math.IsNaN(value) {
			return math.NaN(), nil
		}
	}

	// Sorted input makes floating point sums independent of run order.
	data := append(stats.Float64Data(nil), values...)
	sort.Float64s(data)
	switch op {
	case Mean:
		return stats.Mean(data)
	case Min:
		return stats.Min(data)
	case Max:
		return stats.Max(data)
	case Median:
		return stats.Median(data)
	case Std:
		return stats.StandardDeviationPopulation(data)
	}
	return math.NaN(), errors.Errorf("unknown operation %s", op)
}
