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
	"encoding/csv"
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/layout"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/reduce"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CSVConfig configures CSVWriter.
type CSVConfig struct {
	Delimiter string `help:"Field delimiter of written CSV files" default:";"`
	Extension string `help:"Extension of written CSV files" default:"csv"`
	Precision int    `help:"Number of decimal places of written values, -1 for the shortest exact representation" default:"-1"`

	flagPrefix string
}

// DefaultCSVConfig returns CSVConfig filled from flags.
func DefaultCSVConfig() (CSVConfig, error) {
	config := CSVConfig{flagPrefix: "CSV"}
	err := conf.Process(&config)
	return config, err
}

// CSVWriter writes every target into <aggregates>/<subgroup>/<experiment>_<operation>.<extension>.
// The header holds measurement names and each row starts with the step.
type CSVWriter struct {
	layout    layout.Layout
	config    CSVConfig
	delimiter rune
}

// NewCSVWriter returns Writer of CSV files. Delimiter must be a single character.
func NewCSVWriter(l layout.Layout, config CSVConfig) (*CSVWriter, error) {
	delimiter, size := utf8.DecodeRuneInString(config.Delimiter)
	if size == 0 || size != len(config.Delimiter) || delimiter == '"' || delimiter == '\r' || delimiter == '\n' {
		return nil, conf.NewUsageError("csv_delimiter", config.Delimiter, "must be a single character other than quote or newline")
	}
	return &CSVWriter{layout: l, config: config, delimiter: delimiter}, nil
}

// Path returns file where target is written.
func (w *CSVWriter) Path(target Target) string {
	name := fmt.Sprintf("%s_%s.%s", target.Experiment, target.Operation, w.config.Extension)
	return filepath.Join(w.layout.OutputDir(target.Subgroup), name)
}

// Write implements Writer interface. The file is replaced atomically.
func (w *CSVWriter) Write(target Target, group reduce.Group, steps []int64, wallTimes []float64) error {
	path := w.Path(target)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Path: dir, Err: err}
	}

	file, err := ioutil.TempFile(dir, "."+filepath.Base(path)+".")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	err = w.write(file, group, steps)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(file.Name(), 0644)
	}
	if err == nil {
		err = os.Rename(file.Name(), path)
	}
	if err != nil {
		os.Remove(file.Name())
		return &WriteError{Path: path, Err: err}
	}

	logrus.Infof("Written %s of %d measurements to %q", target.Operation, len(group), path)
	return nil
}

func (w *CSVWriter) write(file *os.File, group reduce.Group, steps []int64) error {
	keys := make([]string, 0, len(group))
	for key := range group {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	writer := csv.NewWriter(file)
	writer.Comma = w.delimiter

	if err := writer.Write(append([]string{""}, keys...)); err != nil {
		return errors.Wrap(err, "cannot write header")
	}

	row := make([]string, len(keys)+1)
	for i, step := range steps {
		row[0] = strconv.FormatInt(step, 10)
		for j, key := range keys {
			row[j+1] = FormatValue(group[key][i], w.config.Precision)
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "cannot write step %d", step)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Sync()
}

// FormatValue renders value as a decimal. Negative precision gives the shortest exact
// representation. NaN is rendered as an empty string and infinities as inf and -inf.
func FormatValue(value float64, precision int) string {
	switch {
	case math.IsNaN(value):
		return ""
	case math.IsInf(value, 1):
		return "inf"
	case math.IsInf(value, -1):
		return "-inf"
	}

	d := decimal.NewFromFloat(value)
	if precision < 0 {
		return d.String()
	}
	return d.StringFixed(int32(precision))
}
