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

package aggregator

import (
	"strconv"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/output"
)

var (
	// ParallelFlag limits number of subgroups extracted concurrently.
	ParallelFlag = conf.NewIntFlag("parallel", "Number of subgroups extracted concurrently", 1)
	// ProgressFlag enables progress bar of written outputs.
	ProgressFlag = conf.NewBoolFlag("progress", "Show progress bar while writing outputs", false)
	// ShowTableFlag enables summary of final step statistics.
	ShowTableFlag = conf.NewBoolFlag("show_table", "Print statistics of the final step of every subgroup", false)
)

// Config holds aggregation settings.
type Config struct {
	Output    output.Kind
	Parallel  int
	Progress  bool
	ShowTable bool
}

// DefaultConfig returns Config filled from flags.
func DefaultConfig() (Config, error) {
	kind, err := output.ParseKind(output.KindFlag.Value())
	if err != nil {
		return Config{}, err
	}

	parallel := ParallelFlag.Value()
	if parallel < 1 {
		return Config{}, conf.NewUsageError("parallel", strconv.Itoa(parallel), "must be positive")
	}

	return Config{
		Output:    kind,
		Parallel:  parallel,
		Progress:  ProgressFlag.Value(),
		ShowTable: ShowTableFlag.Value(),
	}, nil
}
