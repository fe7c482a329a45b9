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

// Package output writes reduced measurements either as TensorBoard event files or as CSV files.
package output

import (
	"fmt"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/layout"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/reduce"
	"github.com/pkg/errors"
)

// Kind selects output format.
type Kind int

// Supported output kinds.
const (
	Summary Kind = iota
	CSV
)

// KindFlag selects output format for the aggregation.
var KindFlag = conf.NewStringFlag("output", "Output format: summary (TensorBoard event files) or csv", Summary.String())

func (k Kind) String() string {
	switch k {
	case Summary:
		return "summary"
	case CSV:
		return "csv"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns Kind named by s.
func ParseKind(s string) (Kind, error) {
	switch s {
	case Summary.String():
		return Summary, nil
	case CSV.String():
		return CSV, nil
	}
	return Summary, conf.NewUsageError("output", s, "must be one of: summary, csv")
}

// Target identifies a single output of an aggregation.
type Target struct {
	Experiment string
	Subgroup   string
	Operation  reduce.Operation
}

// Writer writes reduced measurements of one target.
// Values of group are indexed like steps and wallTimes.
type Writer interface {
	Write(target Target, group reduce.Group, steps []int64, wallTimes []float64) error
}

// WriteError is returned when output cannot be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("cannot write %q: %s", e.Path, e.Err)
}

// New returns Writer of given kind storing output in the aggregates directory of the layout.
// Writer settings are taken from flags.
func New(kind Kind, l layout.Layout) (Writer, error) {
	switch kind {
	case Summary:
		config, err := DefaultSummaryConfig()
		if err != nil {
			return nil, err
		}
		return NewSummaryWriter(l, config), nil
	case CSV:
		config, err := DefaultCSVConfig()
		if err != nil {
			return nil, err
		}
		return NewCSVWriter(l, config)
	}
	return nil, errors.Errorf("unsupported output kind %s", kind)
}

func init() {
	// Flags need to be registered before the command line is parsed.
	if _, err := DefaultSummaryConfig(); err != nil {
		panic(err)
	}
	if _, err := DefaultCSVConfig(); err != nil {
		panic(err)
	}
}
