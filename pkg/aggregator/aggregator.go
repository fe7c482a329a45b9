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

// Package aggregator drives aggregation of a single experiment: it extracts every
// subgroup, reduces it with every operation and writes the results.
package aggregator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/extract"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/layout"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/metadata"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/output"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/reduce"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"
)

// Extractor returns validated values of a subgroup.
type Extractor interface {
	Extract(subgroup string) (*extract.Group, error)
}

// Aggregator aggregates runs of a single experiment.
type Aggregator struct {
	layout    layout.Layout
	extractor Extractor
	writer    output.Writer
	metadata  metadata.Metadata
	config    Config
	out       io.Writer
}

// New returns Aggregator. Notices, progress and tables are printed to out.
// Metadata may be nil.
func New(l layout.Layout, extractor Extractor, writer output.Writer, meta metadata.Metadata, config Config, out io.Writer) *Aggregator {
	return &Aggregator{
		layout:    l,
		extractor: extractor,
		writer:    writer,
		metadata:  meta,
		config:    config,
		out:       out,
	}
}

// Run aggregates given subgroups. Nothing is written unless every subgroup was extracted.
func (a *Aggregator) Run(subgroups []string) error {
	name := a.layout.Name()
	start := time.Now()
	fmt.Fprintf(a.out, "Started aggregation %s\n", name)

	groups, err := a.extractAll(subgroups)
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	if a.config.Progress {
		bar = pb.New(len(reduce.Operations()) * len(groups))
		bar.Output = a.out
		bar.ShowCounters = true
		bar.Start()
	}

	for _, op := range reduce.Operations() {
		for _, group := range groups {
			err := a.write(name, op, group)
			if err != nil {
				if bar != nil {
					bar.Finish()
				}
				return err
			}
			if bar != nil {
				bar.Increment()
			}
		}
	}

	if bar != nil {
		bar.Finish()
	}

	if a.config.ShowTable {
		for _, group := range groups {
			if err := Report(a.out, group); err != nil {
				return err
			}
		}
	}

	a.recordMetadata(groups, start)

	fmt.Fprintf(a.out, "Ended aggregation %s\n", name)
	return nil
}

// extractAll extracts subgroups with at most config.Parallel running at once.
// Groups are returned in order of subgroups.
func (a *Aggregator) extractAll(subgroups []string) ([]*extract.Group, error) {
	groups := make([]*extract.Group, len(subgroups))

	parallel := a.config.Parallel
	if parallel < 1 {
		parallel = 1
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(parallel)
	for i, subgroup := range subgroups {
		i, subgroup := i, subgroup
		g.Go(func() error {
			// Skip remaining subgroups once any of them failed.
			if ctx.Err() != nil {
				return nil
			}
			logrus.Debugf("Extracting subgroup %q of %q", subgroup, a.layout.Root)
			group, err := a.extractor.Extract(subgroup)
			if err != nil {
				return err
			}
			groups[i] = group
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return groups, nil
}

func (a *Aggregator) write(experiment string, op reduce.Operation, group *extract.Group) error {
	reduced, err := reduce.Reduce(group.Values, op)
	if err != nil {
		return errors.Wrapf(err, "cannot reduce subgroup %q", group.Subgroup)
	}

	target := output.Target{Experiment: experiment, Subgroup: group.Subgroup, Operation: op}
	return a.writer.Write(target, reduced, group.Steps, group.WallTimes)
}

// recordMetadata stores aggregation summary. Failures are only logged as the output is already written.
func (a *Aggregator) recordMetadata(groups []*extract.Group, start time.Time) {
	if a.metadata == nil {
		return
	}

	aggregation := metadata.Aggregation{
		Experiment: a.layout.Name(),
		Path:       a.layout.Root,
		Output:     a.config.Output.String(),
		Start:      start,
		Duration:   time.Since(start),
	}
	for _, group := range groups {
		aggregation.Subgroups = append(aggregation.Subgroups, metadata.Subgroup{
			Name:  group.Subgroup,
			Runs:  group.Runs,
			Keys:  group.Keys,
			Steps: len(group.Steps),
		})
	}

	if err := metadata.RecordAggregation(a.metadata, aggregation); err != nil {
		logrus.Warnf("Cannot record metadata of aggregation %q: %v", aggregation.Experiment, err)
	}
}
