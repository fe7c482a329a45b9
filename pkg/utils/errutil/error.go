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
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/sirupsen/logrus"
)

// UsageExitCode is the exit status for invalid parameters.
const UsageExitCode = 2

// Check checks the error and exit if it is not nil.
func Check(err error) {
	CheckWithContext(err, "")
}

// CheckWithContext checks the error and exit if it is not nil. Logs additional context information.
// Usage errors are followed by the usage text and exit with UsageExitCode.
func CheckWithContext(err error, context string) {
	if err == nil {
		return
	}

	message := err.Error()
	if context != "" {
		message = context + ": " + message
	}

	logrus.Debugf("%s: %+v", context, err)
	if conf.IsUsageError(err) {
		logrus.Error(message)
		conf.Usage()
		logrus.StandardLogger().Exit(UsageExitCode)
		return
	}
	logrus.Fatal(message)
}
