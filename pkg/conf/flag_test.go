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

package conf

import (
	"fmt"
	"os"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEnvFlag(t *testing.T) {
	Convey("While using Flag struct, it should construct proper environment var name", t, func() {
		So(NewStringFlag("test_name", "", "").envName(), ShouldEqual, "AGGREGATOR_TEST_NAME")
	})
}

func TestFlags(t *testing.T) {
	Convey("While using Conf flags", t, func() {
		Convey("When some custom String Flag is defined", func() {
			customFlag := NewStringFlag("custom_string_arg", "help", "default")
			customFlag.clear()
			defer customFlag.clear()

			Convey("When we do not define any environment variable we should have default value after parse", func() {
				err := ParseEnv()
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, customFlag.defaultValue)
			})

			Convey("When we define custom environment variable we should have custom value after parse", func() {
				os.Setenv(customFlag.envName(), "customContent")

				err := ParseEnv()
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, "customContent")
			})

			Convey("Redefining it with the same default returns the same flag", func() {
				So(NewStringFlag("custom_string_arg", "help", "default"), ShouldEqual, customFlag)
			})

			Convey("Redefining it with other default or type panics", func() {
				So(func() { NewStringFlag("custom_string_arg", "help", "other") }, ShouldPanic)
				So(func() { NewIntFlag("custom_string_arg", "help", 1) }, ShouldPanic)
			})
		})

		Convey("When some custom Int Flag is defined", func() {
			customFlag := NewIntFlag("custom_int_arg", "help", 23424)
			customFlag.clear()
			defer customFlag.clear()

			Convey("When we define custom environment variable we should have custom value after parse", func() {
				os.Setenv(customFlag.envName(), fmt.Sprintf("%d", 12))

				err := ParseEnv()
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, 12)
			})
		})

		Convey("When some custom Bool Flag is defined", func() {
			customFlag := NewBoolFlag("custom_bool_arg", "help", false)
			customFlag.clear()
			defer customFlag.clear()

			Convey("After parse with no env it should be default", func() {
				So(ParseEnv(), ShouldBeNil)
				So(customFlag.Value(), ShouldBeFalse)
			})

			Convey("When we define custom environment variable we should have custom value after parse", func() {
				os.Setenv(customFlag.envName(), "true")

				So(ParseEnv(), ShouldBeNil)
				So(customFlag.Value(), ShouldBeTrue)
			})
		})

		Convey("When some custom Duration Flag is defined", func() {
			customFlag := NewDurationFlag("custom_duration_arg", "help", 3*time.Second)
			customFlag.clear()
			defer customFlag.clear()

			Convey("When we define custom environment variable we should have custom value after parse", func() {
				os.Setenv(customFlag.envName(), "1m")

				So(ParseEnv(), ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, time.Minute)
			})
		})

		Convey("When some custom List Flag is defined", func() {
			customFlag := NewListFlag("custom_list_arg", "help", "test", "train")
			customFlag.clear()
			defer customFlag.clear()

			Convey("After parse with no env it should be default list", func() {
				So(ParseEnv(), ShouldBeNil)
				list, err := customFlag.Value()
				So(err, ShouldBeNil)
				So(list, ShouldResemble, []string{"test", "train"})
			})

			Convey("Malformed value should be reported as usage error naming the flag", func() {
				os.Setenv(customFlag.envName(), "test,train")

				So(ParseEnv(), ShouldBeNil)
				_, err := customFlag.Value()
				So(err, ShouldNotBeNil)
				So(IsUsageError(err), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "custom_list_arg")
			})
		})
	})
}
