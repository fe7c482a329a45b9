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

package metadata

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/utils/err_collection"
	"github.com/pkg/errors"
)

// Subgroup describes what was aggregated in one subgroup.
type Subgroup struct {
	Name  string
	Runs  []string
	Keys  []string
	Steps int
}

// Aggregation describes a single aggregation invocation.
type Aggregation struct {
	Experiment string
	Path       string
	Output     string
	Subgroups  []Subgroup
	Start      time.Time
	Duration   time.Duration
}

// Map flattens aggregation into metadata entries.
// Per subgroup entries are prefixed with the subgroup name.
func (a Aggregation) Map() map[string]string {
	names := make([]string, 0, len(a.Subgroups))
	for _, subgroup := range a.Subgroups {
		names = append(names, subgroup.Name)
	}

	metadata := map[string]string{
		"experiment": a.Experiment,
		"path":       a.Path,
		"output":     a.Output,
		"subgroups":  conf.FormatListLiteral(names),
		"time":       a.Start.Format(time.RFC822Z),
		"duration":   a.Duration.String(),
	}
	for _, subgroup := range a.Subgroups {
		metadata[subgroup.Name+".runs"] = conf.FormatListLiteral(subgroup.Runs)
		metadata[subgroup.Name+".keys"] = conf.FormatListLiteral(subgroup.Keys)
		metadata[subgroup.Name+".steps"] = strconv.Itoa(subgroup.Steps)
	}
	return metadata
}

// RecordAggregation stores configuration, environment, platform and the aggregation itself.
// Every kind is recorded even if recording of a previous one failed.
func RecordAggregation(metadata Metadata, aggregation Aggregation) error {
	var errs errcollection.ErrorCollection

	errs.Add(recordFlags(metadata))
	// Store AGGREGATOR_ environment configuration.
	errs.Add(recordEnv(metadata, conf.EnvironmentPrefix+"_"))
	errs.Add(recordPlatform(metadata))
	errs.Add(metadata.RecordMap(aggregation.Map(), TypeAggregation))

	return errs.GetErrIfAny()
}

// recordFlags saves whole flags based configuration in the metadata information.
func recordFlags(metadata Metadata) error {
	flags := conf.GetFlags()
	return metadata.RecordMap(flags, TypeFlags)
}

// recordEnv adds all OS Environment variables that starts with prefix 'prefix'
// in the metadata information
func recordEnv(metadata Metadata, prefix string) error {
	envMetadata := map[string]string{}
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, prefix) {
			fields := strings.SplitN(env, "=", 2)
			envMetadata[fields[0]] = fields[1]
		}
	}
	return metadata.RecordMap(envMetadata, TypeEnviron)
}

// recordPlatform stores host the aggregation was run on.
func recordPlatform(metadata Metadata) error {
	hostname, err := os.Hostname()
	if err != nil {
		return errors.Wrap(err, "cannot retrieve hostname")
	}

	return metadata.RecordMap(map[string]string{
		"host":       hostname,
		"os":         fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		"cpus":       strconv.Itoa(runtime.NumCPU()),
		"go_version": runtime.Version(),
	}, TypePlatform)
}
