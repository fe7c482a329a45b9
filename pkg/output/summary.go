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

package output

import (
	"path/filepath"
	"sort"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/layout"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/reduce"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/tfevents"
	"github.com/sirupsen/logrus"
)

// SummaryConfig configures SummaryWriter.
type SummaryConfig struct {
	FilenameSuffix string `help:"Suffix appended to names of written event files"`

	flagPrefix string
}

// DefaultSummaryConfig returns SummaryConfig filled from flags.
func DefaultSummaryConfig() (SummaryConfig, error) {
	config := SummaryConfig{flagPrefix: "Summary"}
	err := conf.Process(&config)
	return config, err
}

// SummaryWriter writes every target into a new event file in
// <aggregates>/<subgroup>/<operation>/<experiment>.
type SummaryWriter struct {
	layout layout.Layout
	config SummaryConfig
}

// NewSummaryWriter returns Writer of TensorBoard event files.
func NewSummaryWriter(l layout.Layout, config SummaryConfig) *SummaryWriter {
	return &SummaryWriter{layout: l, config: config}
}

// Dir returns directory where target is written.
func (w *SummaryWriter) Dir(target Target) string {
	return filepath.Join(w.layout.OutputDir(target.Subgroup), target.Operation.String(), target.Experiment)
}

// Write implements Writer interface.
func (w *SummaryWriter) Write(target Target, group reduce.Group, steps []int64, wallTimes []float64) error {
	dir := w.Dir(target)
	writer, err := tfevents.NewFileWriter(dir, w.config.FilenameSuffix)
	if err != nil {
		return &WriteError{Path: dir, Err: err}
	}

	keys := make([]string, 0, len(group))
	for key := range group {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for i, value := range group[key] {
			if err := writer.AddScalar(key, value, steps[i], wallTimes[i]); err != nil {
				writer.Close()
				return &WriteError{Path: writer.Path(), Err: err}
			}
		}
	}

	if err := writer.Close(); err != nil {
		return &WriteError{Path: writer.Path(), Err: err}
	}

	logrus.Infof("Written %s of %d measurements to %q", target.Operation, len(keys), writer.Path())
	return nil
}
