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

package errutil

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCheck(t *testing.T) {
	Convey("While checking errors", t, func() {
		logger := logrus.StandardLogger()
		hook := test.NewLocal(logger)
		exitCode := -1
		logger.ExitFunc = func(code int) { exitCode = code }
		logger.Out = ioutil.Discard
		defer func() {
			logger.ExitFunc = nil
			logger.Out = os.Stderr
			hook.Reset()
		}()

		Convey("Nil error should not exit", func() {
			Check(nil)
			So(exitCode, ShouldEqual, -1)
		})

		Convey("Usage error should exit with usage code", func() {
			CheckWithContext(errors.Wrap(conf.NewUsageError("output", "json", "unknown"), "wrapped"), "cannot start")
			So(exitCode, ShouldEqual, UsageExitCode)
			So(hook.LastEntry().Message, ShouldStartWith, "cannot start: wrapped")
		})

		Convey("Other errors should exit with 1", func() {
			Check(errors.New("broken"))
			So(exitCode, ShouldEqual, 1)
			So(hook.LastEntry().Level, ShouldEqual, logrus.FatalLevel)
			So(hook.LastEntry().Message, ShouldEqual, "broken")
		})
	})
}
