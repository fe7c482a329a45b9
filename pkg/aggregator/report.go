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
	"fmt"
	"io"
	"strconv"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/extract"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/reduce"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/visualization"
)

var reportHeaders = []string{"measurement", "mean (+/- std)", "min", "max", "median", "runs", "steps"}

// Report prints runs of the group and statistics of every measurement at the last step.
func Report(w io.Writer, group *extract.Group) error {
	if len(group.Steps) == 0 {
		fmt.Fprintf(w, "Subgroup %s: no measurements\n", group.Subgroup)
		return nil
	}

	last := len(group.Steps) - 1
	fmt.Fprintf(w, "Subgroup %s runs:\n", group.Subgroup)
	visualization.NewList(group.Runs, "  ").Print(w)

	table := visualization.NewTable(fmt.Sprintf("Subgroup %s at step %d", group.Subgroup, group.Steps[last]), reportHeaders)
	for _, key := range group.Keys {
		values := group.Values[key][last]

		stats := map[reduce.Operation]float64{}
		for _, op := range reduce.Operations() {
			value, err := reduce.Apply(op, values)
			if err != nil {
				return err
			}
			stats[op] = value
		}

		table.Append(
			key,
			fmt.Sprintf("%f (+/- %f)", stats[reduce.Mean], stats[reduce.Std]),
			fmt.Sprintf("%f", stats[reduce.Min]),
			fmt.Sprintf("%f", stats[reduce.Max]),
			fmt.Sprintf("%f", stats[reduce.Median]),
			strconv.Itoa(len(values)),
			strconv.Itoa(len(group.Steps)),
		)
	}
	table.Draw(w)
	return nil
}
