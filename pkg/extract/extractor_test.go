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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/layout"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/series"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/series/mocks"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"
)

func loss(values ...float64) series.Series {
	s := series.Series{}
	for i, value := range values {
		s = append(s, series.Point{Step: int64(i * 10), WallTime: 100 + float64(i) + value, Value: value})
	}
	return s
}

func TestExtractor(t *testing.T) {
	Convey("While extracting a subgroup", t, func() {
		root, err := ioutil.TempDir("", "extract")
		So(err, ShouldBeNil)
		defer os.RemoveAll(root)

		for _, dir := range []string{"run_c/train", "run_a/train", "run_b/train", layout.AggregatesDirName + "/train"} {
			So(os.MkdirAll(filepath.Join(root, dir), 0755), ShouldBeNil)
		}

		l := layout.New(root)
		reader := &mocks.Reader{}
		extractor := NewExtractor(l, reader)

		Convey("Values should be arranged by step and run", func() {
			reader.On("Read", l.RunDir("run_a", "train")).Return(series.Measurements{"loss": loss(1, 4)}, nil).Once()
			reader.On("Read", l.RunDir("run_b", "train")).Return(series.Measurements{"loss": loss(2, 5)}, nil).Once()
			reader.On("Read", l.RunDir("run_c", "train")).Return(series.Measurements{"loss": loss(3, 6)}, nil).Once()

			group, err := extractor.Extract("train")
			So(err, ShouldBeNil)
			So(group.Subgroup, ShouldEqual, "train")
			So(group.Runs, ShouldResemble, []string{"run_a", "run_b", "run_c"})
			So(group.Keys, ShouldResemble, []string{"loss"})
			So(group.Steps, ShouldResemble, []int64{0, 10})
			So(group.Values["loss"], ShouldResemble, [][]float64{{1, 2, 3}, {4, 5, 6}})
			So(group.WallTimes, ShouldResemble, []float64{102, 106})
			So(reader.AssertExpectations(t), ShouldBeTrue)
		})

		Convey("Runs without measurements should be excluded", func() {
			reader.On("Read", l.RunDir("run_a", "train")).Return(series.Measurements{"loss": loss(1)}, nil).Once()
			reader.On("Read", l.RunDir("run_b", "train")).Return(series.Measurements{}, nil).Once()
			reader.On("Read", l.RunDir("run_c", "train")).Return(series.Measurements{"loss": loss(3)}, nil).Once()

			group, err := extractor.Extract("train")
			So(err, ShouldBeNil)
			So(group.Runs, ShouldResemble, []string{"run_a", "run_c"})
			So(group.Values["loss"], ShouldResemble, [][]float64{{1, 3}})
		})

		Convey("All runs empty should give an empty group", func() {
			reader.On("Read", mock.Anything).Return(series.Measurements{}, nil)

			group, err := extractor.Extract("train")
			So(err, ShouldBeNil)
			So(group.Keys, ShouldBeEmpty)
			So(group.Steps, ShouldBeEmpty)
			So(group.WallTimes, ShouldBeEmpty)
			So(group.Values, ShouldBeEmpty)
		})

		Convey("Missing measurement should fail with InconsistentKeysError", func() {
			reader.On("Read", l.RunDir("run_a", "train")).Return(series.Measurements{"loss": loss(1), "accuracy": loss(1)}, nil).Once()
			reader.On("Read", l.RunDir("run_b", "train")).Return(series.Measurements{"loss": loss(1)}, nil).Once()
			reader.On("Read", l.RunDir("run_c", "train")).Return(series.Measurements{"loss": loss(1), "accuracy": loss(1)}, nil).Once()

			_, err := extractor.Extract("train")
			_, ok := err.(*InconsistentKeysError)
			So(ok, ShouldBeTrue)
		})

		Convey("Read failure should abort extraction", func() {
			readErr := &series.ReadError{Path: l.RunDir("run_a", "train"), Err: errors.New("corrupted")}
			reader.On("Read", l.RunDir("run_a", "train")).Return(nil, readErr).Once()

			_, err := extractor.Extract("train")
			So(err, ShouldNotBeNil)
			So(errors.Cause(err), ShouldEqual, readErr)
			reader.AssertNotCalled(t, "Read", l.RunDir("run_b", "train"))
		})
	})
}
