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
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

const testAppName = "testAppName"

var customFlag = NewStringFlag("custom_arg", "help", "default")

func clearEnv() {
	// Clear all environment variables in context of that test.
	logLevelFlag.clear()
	customFlag.clear()
}

func TestConf(t *testing.T) {
	Convey("While using Conf pkg", t, func() {
		clearEnv()
		defer clearEnv()

		SetAppName(testAppName)
		SetHelp("aggregates runs")

		Convey("Name and help should match to specified one", func() {
			So(AppName(), ShouldEqual, testAppName)
			So(app.Help, ShouldEqual, "aggregates runs")
		})

		Convey("Log level can be fetched from env", func() {
			os.Setenv(logLevelFlag.envName(), "debug")

			err := ParseEnv()
			So(err, ShouldBeNil)
			So(LogLevel(), ShouldEqual, logrus.DebugLevel)
		})

		Convey("Log level can be fetched from arguments", func() {
			err := ParseArgs([]string{"--log=warn"})
			So(err, ShouldBeNil)
			So(LogLevel(), ShouldEqual, logrus.WarnLevel)
		})

		Convey("Unknown arguments are reported", func() {
			err := ParseArgs([]string{"--no_such_flag=1"})
			So(err, ShouldNotBeNil)
			So(IsUsageError(err), ShouldBeTrue)
		})

		Convey("When some custom argument is defined", func() {
			Convey("When we define custom environment variable we should have custom value after parse", func() {
				os.Setenv(customFlag.envName(), "customContent")

				err := ParseEnv()
				So(err, ShouldBeNil)
				So(customFlag.Value(), ShouldEqual, "customContent")
			})

			Convey("Config dump should contain its current value", func() {
				err := ParseArgs([]string{"--custom_arg=dumped"})
				So(err, ShouldBeNil)

				dump := DumpConfig()
				So(dump, ShouldContainSubstring, "AGGREGATOR_CUSTOM_ARG=dumped")
				So(strings.HasPrefix(dump, "# Source this file"), ShouldBeTrue)
				So(GetFlags()["custom_arg"], ShouldEqual, "dumped")
			})

			Convey("Config dump values can be overwritten", func() {
				dump := DumpConfigMap(map[string]string{"custom_arg": "overwritten"})
				So(dump, ShouldContainSubstring, "AGGREGATOR_CUSTOM_ARG=overwritten")
				So(dump, ShouldNotContainSubstring, "AGGREGATOR_HELP")
			})
		})
	})
}
