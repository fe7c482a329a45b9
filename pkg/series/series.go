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

package series

import (
	"fmt"
	"sort"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/tfevents"
	"github.com/sirupsen/logrus"
)

// Point is a single measurement sample.
type Point struct {
	Step     int64
	WallTime float64
	Value    float64
}

// Series is an ordered list of points of one measurement, in the order returned by the reader.
type Series []Point

// Steps returns step of every point.
func (s Series) Steps() []int64 {
	steps := make([]int64, len(s))
	for i, point := range s {
		steps[i] = point.Step
	}
	return steps
}

// WallTimes returns wall time of every point.
func (s Series) WallTimes() []float64 {
	wallTimes := make([]float64, len(s))
	for i, point := range s {
		wallTimes[i] = point.WallTime
	}
	return wallTimes
}

// Measurements maps measurement name to its series.
type Measurements map[string]Series

// Names returns measurement names in lexical order.
func (m Measurements) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reader reads all measurements recorded in a directory.
type Reader interface {
	Read(dir string) (Measurements, error)
}

// ReadError is returned when measurements cannot be read or parsed.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read measurements from %q: %s", e.Path, e.Err)
}

// EventReader reads scalars from TensorBoard event files.
type EventReader struct{}

// NewEventReader returns Reader of TensorBoard event files.
func NewEventReader() Reader {
	return &EventReader{}
}

// Read implements Reader interface.
func (r *EventReader) Read(dir string) (Measurements, error) {
	accumulator := tfevents.NewAccumulator(dir)
	if err := accumulator.Reload(); err != nil {
		return nil, &ReadError{Path: dir, Err: err}
	}

	measurements := Measurements{}
	for _, tag := range accumulator.Keys() {
		events, err := accumulator.Items(tag)
		if err != nil {
			return nil, &ReadError{Path: dir, Err: err}
		}

		series := make(Series, len(events))
		for i, event := range events {
			series[i] = Point{Step: event.Step, WallTime: event.WallTime, Value: event.Value}
		}
		measurements[tag] = series
	}

	logrus.Debugf("Read %d measurements from %q", len(measurements), dir)
	return measurements, nil
}
