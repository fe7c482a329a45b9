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
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/layout"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/reduce"
	. "github.com/smartystreets/goconvey/convey"
)

func readCSV(path string, delimiter rune) [][]string {
	file, err := os.Open(path)
	So(err, ShouldBeNil)
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = delimiter
	records, err := reader.ReadAll()
	So(err, ShouldBeNil)
	return records
}

func TestCSVWriter(t *testing.T) {
	Convey("While writing CSV files", t, func() {
		root, err := ioutil.TempDir("", "output")
		So(err, ShouldBeNil)
		defer os.RemoveAll(root)

		l := layout.New(root)
		config := CSVConfig{Delimiter: ";", Extension: "csv", Precision: -1}
		writer, err := NewCSVWriter(l, config)
		So(err, ShouldBeNil)

		target := Target{Experiment: "mnist", Subgroup: "train", Operation: reduce.Mean}
		group := reduce.Group{"loss": {0.5, 0.25, 1e-7}, "accuracy": {0.1, 0.2, 0.3}}
		steps := []int64{0, 10, 20}
		wallTimes := []float64{1, 2, 3}

		Convey("File should be named after experiment and operation", func() {
			So(writer.Path(target), ShouldEqual, filepath.Join(root, layout.AggregatesDirName, "train", "mnist_mean.csv"))
		})

		Convey("Re-parsed file should have a row per step and a column per measurement", func() {
			So(writer.Write(target, group, steps, wallTimes), ShouldBeNil)

			records := readCSV(writer.Path(target), ';')
			So(records, ShouldHaveLength, len(steps)+1)
			So(records[0], ShouldResemble, []string{"", "accuracy", "loss"})

			parsed := reduce.Group{}
			for i, record := range records[1:] {
				So(record[0], ShouldEqual, strconv.FormatInt(steps[i], 10))
				for j, key := range records[0][1:] {
					value, err := strconv.ParseFloat(record[j+1], 64)
					So(err, ShouldBeNil)
					parsed[key] = append(parsed[key], value)
				}
			}
			So(cmp.Equal(parsed, group, cmpopts.EquateApprox(0, 1e-12)), ShouldBeTrue)

			files, err := ioutil.ReadDir(l.OutputDir("train"))
			So(err, ShouldBeNil)
			So(files, ShouldHaveLength, 1)
		})

		Convey("Existing file should be replaced", func() {
			So(writer.Write(target, group, steps, wallTimes), ShouldBeNil)
			So(writer.Write(target, reduce.Group{"loss": {1}}, []int64{5}, []float64{1}), ShouldBeNil)

			records := readCSV(writer.Path(target), ';')
			So(records, ShouldResemble, [][]string{{"", "loss"}, {"5", "1"}})
		})

		Convey("Empty group should give a file with header only", func() {
			So(writer.Write(target, reduce.Group{}, []int64{}, []float64{}), ShouldBeNil)

			raw, err := ioutil.ReadFile(writer.Path(target))
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, "\n")
		})

		Convey("Custom delimiter, extension and precision should be used", func() {
			writer, err := NewCSVWriter(l, CSVConfig{Delimiter: ",", Extension: "txt", Precision: 2})
			So(err, ShouldBeNil)
			So(writer.Write(target, reduce.Group{"loss": {0.5, 1.0 / 3}}, []int64{1, 2}, []float64{1, 2}), ShouldBeNil)

			path := filepath.Join(l.OutputDir("train"), "mnist_mean.txt")
			raw, err := ioutil.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, ",loss\n1,0.50\n2,0.33\n")
		})

		Convey("Invalid delimiter should be a usage error", func() {
			for _, delimiter := range []string{"", ";;", "\"", "\n"} {
				_, err := NewCSVWriter(l, CSVConfig{Delimiter: delimiter, Extension: "csv", Precision: -1})
				So(conf.IsUsageError(err), ShouldBeTrue)
			}
		})

		Convey("Unwritable destination should give WriteError", func() {
			So(ioutil.WriteFile(filepath.Join(root, layout.AggregatesDirName), []byte("file"), 0644), ShouldBeNil)

			err := writer.Write(target, group, steps, wallTimes)
			writeErr, ok := err.(*WriteError)
			So(ok, ShouldBeTrue)
			So(writeErr.Path, ShouldStartWith, filepath.Join(root, layout.AggregatesDirName))
		})
	})
}

func TestFormatValue(t *testing.T) {
	Convey("Values should be rendered as decimals", t, func() {
		So(FormatValue(2, -1), ShouldEqual, "2")
		So(FormatValue(0.1, -1), ShouldEqual, "0.1")
		So(FormatValue(-1.25, -1), ShouldEqual, "-1.25")
		So(FormatValue(2, 3), ShouldEqual, "2.000")
		So(FormatValue(math.NaN(), -1), ShouldEqual, "")
		So(FormatValue(math.Inf(1), 2), ShouldEqual, "inf")
		So(FormatValue(math.Inf(-1), 2), ShouldEqual, "-inf")
	})
}
