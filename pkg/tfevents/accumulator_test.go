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

package tfevents

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// writeEventFile writes events into a new event file named name in dir.
func writeEventFile(dir, name string, events ...*Event) {
	file, err := os.Create(filepath.Join(dir, name))
	So(err, ShouldBeNil)
	defer file.Close()

	writer := NewRecordWriter(file)
	for _, event := range events {
		So(writer.Write(event.Marshal()), ShouldBeNil)
	}
}

func steps(events []ScalarEvent) []int64 {
	result := []int64{}
	for _, e := range events {
		result = append(result, e.Step)
	}
	return result
}

func TestAccumulator(t *testing.T) {
	Convey("While accumulating scalars from a directory", t, func() {
		dir, err := ioutil.TempDir("", "tfevents")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		version := &Event{WallTime: 1, FileVersion: FileVersion}

		Convey("Missing or empty directory should have no keys", func() {
			accumulator := NewAccumulator(filepath.Join(dir, "missing"))
			So(accumulator.Reload(), ShouldBeNil)
			So(accumulator.Keys(), ShouldBeEmpty)

			accumulator = NewAccumulator(dir)
			So(accumulator.Reload(), ShouldBeNil)
			So(accumulator.Keys(), ShouldBeEmpty)
		})

		Convey("Scalars from all event files should be collected in file order", func() {
			writeEventFile(dir, "events.out.tfevents.1.host",
				version,
				NewScalarEvent("loss", 1, 0, 10),
				NewScalarEvent("acc", 0.5, 0, 10),
			)
			writeEventFile(dir, "events.out.tfevents.2.host",
				version,
				NewScalarEvent("loss", 2, 1, 11),
			)
			writeEventFile(dir, "notes.txt", NewScalarEvent("ignored", 1, 0, 0))

			accumulator := NewAccumulator(dir)
			So(accumulator.Reload(), ShouldBeNil)
			So(accumulator.Keys(), ShouldResemble, []string{"acc", "loss"})

			loss, err := accumulator.Items("loss")
			So(err, ShouldBeNil)
			So(loss, ShouldResemble, []ScalarEvent{{WallTime: 10, Step: 0, Value: 1}, {WallTime: 11, Step: 1, Value: 2}})

			_, err = accumulator.Items("ignored")
			So(err, ShouldNotBeNil)
		})

		Convey("Session restart should purge scalars recorded at or after its step", func() {
			writeEventFile(dir, "events.out.tfevents.1.host",
				version,
				NewScalarEvent("loss", 1, 1, 10),
				NewScalarEvent("loss", 2, 2, 11),
				NewScalarEvent("loss", 3, 3, 12),
				&Event{Step: 2, SessionLog: &SessionLog{Status: StatusStart}},
				NewScalarEvent("loss", 20, 2, 20),
				NewScalarEvent("loss", 30, 3, 21),
			)

			accumulator := NewAccumulator(dir)
			So(accumulator.Reload(), ShouldBeNil)
			loss, err := accumulator.Items("loss")
			So(err, ShouldBeNil)
			So(steps(loss), ShouldResemble, []int64{1, 2, 3})
			So(loss[1].Value, ShouldEqual, 20.0)
			So(loss[2].Value, ShouldEqual, 30.0)
		})

		Convey("Without file version, steps going backwards should purge the tags of that event", func() {
			writeEventFile(dir, "events.out.tfevents.1.host",
				NewScalarEvent("loss", 1, 1, 10),
				NewScalarEvent("acc", 1, 1, 10),
				NewScalarEvent("loss", 2, 2, 11),
				NewScalarEvent("acc", 2, 2, 11),
				NewScalarEvent("loss", 10, 1, 20),
			)

			accumulator := NewAccumulator(dir)
			So(accumulator.Reload(), ShouldBeNil)

			loss, _ := accumulator.Items("loss")
			So(steps(loss), ShouldResemble, []int64{1})
			So(loss[0].Value, ShouldEqual, 10.0)

			acc, _ := accumulator.Items("acc")
			So(steps(acc), ShouldResemble, []int64{1, 2})
		})

		Convey("Truncated tail should be ignored", func() {
			writeEventFile(dir, "events.out.tfevents.1.host",
				version,
				NewScalarEvent("loss", 1, 1, 10),
				NewScalarEvent("loss", 2, 2, 11),
			)
			path := filepath.Join(dir, "events.out.tfevents.1.host")
			info, err := os.Stat(path)
			So(err, ShouldBeNil)
			So(os.Truncate(path, info.Size()-3), ShouldBeNil)

			accumulator := NewAccumulator(dir)
			So(accumulator.Reload(), ShouldBeNil)
			loss, err := accumulator.Items("loss")
			So(err, ShouldBeNil)
			So(steps(loss), ShouldResemble, []int64{1})
		})

		Convey("Corrupted record should fail the reload", func() {
			writeEventFile(dir, "events.out.tfevents.1.host",
				version,
				NewScalarEvent("loss", 1, 1, 10),
			)
			path := filepath.Join(dir, "events.out.tfevents.1.host")
			raw, err := ioutil.ReadFile(path)
			So(err, ShouldBeNil)
			raw[len(raw)-6] ^= 0xff
			So(ioutil.WriteFile(path, raw, 0644), ShouldBeNil)

			So(NewAccumulator(dir).Reload(), ShouldNotBeNil)
		})
	})
}

func TestFileWriter(t *testing.T) {
	Convey("While writing an event file", t, func() {
		dir, err := ioutil.TempDir("", "tfevents")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		target := filepath.Join(dir, "nested", "run")
		writer, err := NewFileWriter(target, ".agg")
		So(err, ShouldBeNil)
		So(writer.AddScalar("loss", 0.5, 1, 100.25), ShouldBeNil)
		So(writer.AddScalar("loss", 0.25, 2, 101.25), ShouldBeNil)
		So(writer.Close(), ShouldBeNil)

		Convey("The file should be named like TensorBoard event files", func() {
			files, err := EventFiles(target)
			So(err, ShouldBeNil)
			So(files, ShouldResemble, []string{writer.Path()})
			So(filepath.Base(writer.Path()), ShouldStartWith, "events.out.tfevents.")
			So(filepath.Base(writer.Path()), ShouldEndWith, ".agg")
		})

		Convey("Accumulator should read written scalars back", func() {
			accumulator := NewAccumulator(target)
			So(accumulator.Reload(), ShouldBeNil)
			loss, err := accumulator.Items("loss")
			So(err, ShouldBeNil)
			So(loss, ShouldResemble, []ScalarEvent{{WallTime: 100.25, Step: 1, Value: 0.5}, {WallTime: 101.25, Step: 2, Value: 0.25}})
		})

		Convey("Accumulator should read a single event file given by path", func() {
			files, err := EventFiles(writer.Path())
			So(err, ShouldBeNil)
			So(files, ShouldResemble, []string{writer.Path()})

			accumulator := NewAccumulator(writer.Path())
			So(accumulator.Reload(), ShouldBeNil)
			So(accumulator.Keys(), ShouldResemble, []string{"loss"})
			loss, err := accumulator.Items("loss")
			So(err, ShouldBeNil)
			So(steps(loss), ShouldResemble, []int64{1, 2})
		})
	})
}
