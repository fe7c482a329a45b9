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

	"github.com/pkg/errors"
)

// UsageError reports an invalid parameter detected before any work is started.
type UsageError struct {
	Parameter string
	Value     string
	Reason    string
}

// NewUsageError returns UsageError for given parameter.
func NewUsageError(parameter, value, reason string) error {
	return &UsageError{Parameter: parameter, Value: value, Reason: reason}
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("parameter %s %q is invalid: %s", e.Parameter, e.Value, e.Reason)
}

// IsUsageError checks if the cause of given error is a UsageError.
func IsUsageError(err error) bool {
	_, ok := errors.Cause(err).(*UsageError)
	return ok
}
