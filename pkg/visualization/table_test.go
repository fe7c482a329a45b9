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

package visualization

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTable(t *testing.T) {
	Convey("While drawing a table", t, func() {
		table := NewTable("Subgroup train", []string{"measurement", "mean (+/- std)"})
		table.Append("loss", "2.000000 (+/- 0.816497)")
		table.Append("accuracy", "0.500000 (+/- 0.000000)")

		buffer := &bytes.Buffer{}
		table.Draw(buffer)

		Convey("Caption, headers and rows should be rendered", func() {
			So(table.Len(), ShouldEqual, 2)
			So(buffer.String(), ShouldStartWith, "Subgroup train\n")
			So(buffer.String(), ShouldContainSubstring, "measurement")
			So(buffer.String(), ShouldContainSubstring, "mean (+/- std)")
			So(buffer.String(), ShouldContainSubstring, "2.000000 (+/- 0.816497)")
			So(buffer.String(), ShouldContainSubstring, "accuracy")
		})
	})
}

func TestList(t *testing.T) {
	Convey("List should print labeled elements", t, func() {
		buffer := &bytes.Buffer{}
		NewList([]string{"run_1", "run_2"}, " - ").Print(buffer)
		So(buffer.String(), ShouldEqual, " - run_1\n - run_2\n")
	})
}
