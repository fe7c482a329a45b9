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

package main

import (
	"fmt"
	"os"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/aggregator"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/extract"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/layout"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/metadata"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/output"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/series"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/utils/errutil"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/utils/uuid"
	"github.com/sirupsen/logrus"
)

const help = `Aggregates TensorBoard logs of repeated runs of an experiment.

Every directory of --path, except the aggregates directory, is a run. Scalars of every
subgroup listed in --subpaths are read from all runs, checked to be recorded under
the same names at the same steps and reduced across runs with mean, min, max, median
and standard deviation. Results are written to <path>/aggregates/<subgroup> as
TensorBoard event files or as CSV files.

All flags can be also set with AGGREGATOR_<FLAG> environment variables.`

var (
	pathFlag     = conf.NewStringFlag("path", "Experiment directory with run directories (default: current working directory)", "")
	subpathsFlag = conf.NewListFlag("subpaths", "List of subgroups present in every run", "test", "train")

	// Names include dash to exclude them from dumping.
	dumpConfigFlag              = conf.NewBoolFlag("config-dump", "Dump configuration as environment script", false)
	dumpConfigAggregationIDFlag = conf.NewStringFlag("config-dump-aggregation-id", "Dump configuration recorded in metadata of given aggregation", "")
)

func main() {
	conf.SetAppName("aggregator")
	conf.SetHelp(help)
	errutil.CheckWithContext(conf.ParseFlags(), "Cannot parse flags")

	logrus.SetLevel(conf.LogLevel())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.100"})

	if dumpConfigFlag.Value() {
		dumpConfig()
		os.Exit(0)
	}

	path := pathFlag.Value()
	if path == "" {
		var err error
		path, err = os.Getwd()
		errutil.CheckWithContext(err, "Cannot get current working directory")
	}

	subgroups, err := subpathsFlag.Value()
	errutil.Check(err)

	config, err := aggregator.DefaultConfig()
	errutil.Check(err)

	l := layout.New(path)
	errutil.Check(l.Check(subgroups))

	writer, err := output.New(config.Output, l)
	errutil.Check(err)

	aggregationID := uuid.New()
	logrus.Infof("Aggregating %q with ID %s", path, aggregationID)

	meta, err := metadata.NewDefault(aggregationID)
	if conf.IsUsageError(err) {
		errutil.Check(err)
	}
	if err != nil {
		logrus.Warnf("Cannot connect to metadata database, metadata will not be recorded: %v", err)
		meta = nil
	}

	extractor := extract.NewExtractor(l, series.NewEventReader())
	err = aggregator.New(l, extractor, writer, meta, config, os.Stdout).Run(subgroups)
	errutil.CheckWithContext(err, "Aggregation failed")
}

func dumpConfig() {
	previousID := dumpConfigAggregationIDFlag.Value()
	if previousID == "" {
		fmt.Println(conf.DumpConfig())
		return
	}

	meta, err := metadata.NewDefault(previousID)
	errutil.CheckWithContext(err, "Cannot connect to metadata database")
	flags, err := meta.GetByKind(metadata.TypeFlags)
	errutil.CheckWithContext(err, "Cannot retrieve configuration")
	fmt.Println(conf.DumpConfigMap(flags))
}
