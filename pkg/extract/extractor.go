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
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/layout"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/series"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Group holds validated values of one subgroup.
type Group struct {
	Subgroup string
	// Runs that contributed values, in the order of the inner dimension of Values.
	Runs []string
	// Keys are measurement names in lexical order.
	Keys []string
	// Values maps measurement name to values indexed by step, then by run.
	Values    map[string][][]float64
	Steps     []int64
	WallTimes []float64
}

// Extractor reads and validates subgroups of every run of an experiment.
type Extractor struct {
	layout layout.Layout
	reader series.Reader
}

// NewExtractor returns Extractor for given experiment layout.
func NewExtractor(l layout.Layout, reader series.Reader) *Extractor {
	return &Extractor{layout: l, reader: reader}
}

// Extract reads a subgroup of every run. Runs without measurements are skipped.
func (e *Extractor) Extract(subgroup string) (*Group, error) {
	runs, err := e.layout.Runs()
	if err != nil {
		return nil, err
	}

	named := []NamedMeasurements{}
	for _, run := range runs {
		dir := e.layout.RunDir(run, subgroup)
		measurements, err := e.reader.Read(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot extract subgroup %q of run %q", subgroup, run)
		}
		if len(measurements) == 0 {
			logrus.Debugf("Excluding %q: no measurements", dir)
			continue
		}
		named = append(named, NamedMeasurements{Run: run, Measurements: measurements})
	}

	keys, steps, err := Validate(subgroup, named)
	if err != nil {
		return nil, err
	}

	group := &Group{
		Subgroup:  subgroup,
		Runs:      make([]string, len(named)),
		Keys:      keys,
		Values:    make(map[string][][]float64, len(keys)),
		Steps:     steps,
		WallTimes: make([]float64, len(steps)),
	}
	for i, run := range named {
		group.Runs[i] = run.Run
	}

	for _, key := range keys {
		values := make([][]float64, len(steps))
		for step := range steps {
			values[step] = make([]float64, len(named))
			for i, run := range named {
				values[step][i] = run.Measurements[key][step].Value
			}
		}
		group.Values[key] = values
	}

	if len(keys) > 0 {
		wallTimes := make([]float64, len(named))
		for step := range steps {
			for i, run := range named {
				wallTimes[i] = run.Measurements[keys[0]][step].WallTime
			}
			group.WallTimes[step], err = stats.Mean(wallTimes)
			if err != nil {
				return nil, errors.Wrapf(err, "cannot average wall time of step %d", steps[step])
			}
		}
	}

	logrus.Debugf("Extracted subgroup %q: %d runs, %d measurements, %d steps", subgroup, len(named), len(keys), len(steps))
	return group, nil
}
