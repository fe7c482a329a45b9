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

package layout

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AggregatesDirName is the directory inside an experiment that holds aggregated output.
// It is never treated as a run.
const AggregatesDirName = "aggregates"

// Layout describes directories of a single experiment:
// <Root>/<run>/<subgroup> for inputs and <Root>/<AggregatesDir>/<subgroup> for outputs.
type Layout struct {
	Root          string
	AggregatesDir string
}

// New returns Layout for experiment rooted at given directory.
func New(root string) Layout {
	return Layout{Root: root, AggregatesDir: AggregatesDirName}
}

// Name returns experiment name, which is the base name of the root directory.
func (l Layout) Name() string {
	root := filepath.Clean(l.Root)
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return filepath.Base(root)
}

// Runs returns names of run directories in lexical order.
// Regular files and the aggregates directory are skipped.
func (l Layout) Runs() ([]string, error) {
	entries, err := ioutil.ReadDir(l.Root)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot list runs of %q", l.Root)
	}

	runs := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if name == l.AggregatesDir {
			continue
		}
		if !isDir(filepath.Join(l.Root, name)) {
			logrus.Debugf("Skipping %q: not a run directory", filepath.Join(l.Root, name))
			continue
		}
		runs = append(runs, name)
	}
	sort.Strings(runs)
	return runs, nil
}

// RunDir returns input directory of a subgroup in given run.
func (l Layout) RunDir(run, subgroup string) string {
	return filepath.Join(l.Root, run, subgroup)
}

// AggregatesPath returns the aggregates directory of the experiment.
func (l Layout) AggregatesPath() string {
	return filepath.Join(l.Root, l.AggregatesDir)
}

// OutputDir returns output directory for a subgroup.
func (l Layout) OutputDir(subgroup string) string {
	return filepath.Join(l.AggregatesPath(), subgroup)
}

// Check validates that root is a directory and that every run has every subgroup.
// Returned error is a conf.UsageError naming the offending parameter.
func (l Layout) Check(subgroups []string) error {
	info, err := os.Stat(l.Root)
	if os.IsNotExist(err) {
		return conf.NewUsageError("path", l.Root, "directory does not exist")
	}
	if err != nil {
		return conf.NewUsageError("path", l.Root, err.Error())
	}
	if !info.IsDir() {
		return conf.NewUsageError("path", l.Root, "not a directory")
	}

	runs, err := l.Runs()
	if err != nil {
		return conf.NewUsageError("path", l.Root, errors.Cause(err).Error())
	}

	for _, run := range runs {
		for _, subgroup := range subgroups {
			dir := l.RunDir(run, subgroup)
			if _, err := os.Stat(dir); err != nil {
				return conf.NewUsageError("subpaths", subgroup, fmt.Sprintf("%q does not exist", dir))
			}
		}
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
