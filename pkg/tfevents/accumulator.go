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

package tfevents

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ScalarEvent is a scalar recorded for a tag.
type ScalarEvent struct {
	WallTime float64
	Step     int64
	Value    float64
}

// Accumulator collects scalar summaries from all event files of a directory.
// It purges orphaned data the way TensorBoard does after a training restart.
type Accumulator struct {
	path           string
	scalars        map[string][]ScalarEvent
	fileVersion    float64
	mostRecentStep int64
}

// NewAccumulator returns Accumulator for event files in given directory or for a single event file.
func NewAccumulator(path string) *Accumulator {
	return &Accumulator{
		path:    path,
		scalars: map[string][]ScalarEvent{},
	}
}

// IsEventFile checks if file name denotes an event file.
func IsEventFile(name string) bool {
	return strings.Contains(filepath.Base(name), "tfevents")
}

// EventFiles lists event files in dir in lexical order. Missing dir has no event files.
// A path naming a single regular file is that file alone.
func EventFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot stat %q", dir)
	}
	if info.Mode().IsRegular() {
		return []string{dir}, nil
	}

	entries, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot list %q", dir)
	}

	files := []string{}
	for _, entry := range entries {
		if entry.Mode().IsRegular() && IsEventFile(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// Reload reads all event files of the directory from scratch.
func (a *Accumulator) Reload() error {
	a.scalars = map[string][]ScalarEvent{}
	a.fileVersion = 0
	a.mostRecentStep = 0

	files, err := EventFiles(a.path)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := a.loadFile(file); err != nil {
			return err
		}
	}
	return nil
}

func (a *Accumulator) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "cannot open event file %q", path)
	}
	defer file.Close()

	reader := NewRecordReader(file)
	for {
		data, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if errors.Cause(err) == ErrTruncatedRecord {
			logrus.Warnf("Truncated record in %q at offset %d, ignoring the rest of the file", path, reader.Offset())
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "cannot read event file %q", path)
		}

		event, err := UnmarshalEvent(data)
		if err != nil {
			return errors.Wrapf(err, "cannot parse event file %q at offset %d", path, reader.Offset())
		}
		a.ProcessEvent(event)
	}
}

// ProcessEvent adds scalars from the event, purging orphaned data first.
func (a *Accumulator) ProcessEvent(event *Event) {
	if event.FileVersion != "" {
		a.fileVersion = event.FileVersionNumber()
	}

	a.maybePurgeOrphanedData(event)

	if event.Summary == nil {
		return
	}

	for i := range event.Summary.Values {
		value := &event.Summary.Values[i]
		scalar, ok := value.Scalar()
		if !ok {
			continue
		}
		a.scalars[value.Tag] = append(a.scalars[value.Tag], ScalarEvent{
			WallTime: event.WallTime,
			Step:     event.Step,
			Value:    scalar,
		})
	}
}

func (a *Accumulator) maybePurgeOrphanedData(event *Event) {
	if a.fileVersion >= 2 {
		// Restarts are marked explicitly with SessionLog.START.
		if event.SessionLog != nil && event.SessionLog.Status == StatusStart {
			a.purge(event.Step, nil)
		}
		return
	}

	// Old files only: detect a restart by a step going backwards.
	if event.Step < a.mostRecentStep && event.Summary != nil {
		tags := make([]string, 0, len(event.Summary.Values))
		for _, value := range event.Summary.Values {
			tags = append(tags, value.Tag)
		}
		a.purge(event.Step, tags)
		return
	}
	a.mostRecentStep = event.Step
}

// purge drops scalars with step >= given step, for given tags or for all tags when tags is nil.
func (a *Accumulator) purge(step int64, tags []string) {
	if tags == nil {
		for tag := range a.scalars {
			tags = append(tags, tag)
		}
	}

	for _, tag := range tags {
		events, ok := a.scalars[tag]
		if !ok {
			continue
		}
		kept := events[:0]
		for _, e := range events {
			if e.Step < step {
				kept = append(kept, e)
			}
		}
		if expired := len(events) - len(kept); expired > 0 {
			logrus.Debugf("Purged %d expired scalars of %q in %q (step >= %d)", expired, tag, a.path, step)
		}
		a.scalars[tag] = kept
	}
}

// Keys returns sorted tags having at least one scalar.
func (a *Accumulator) Keys() []string {
	keys := []string{}
	for tag, events := range a.scalars {
		if len(events) > 0 {
			keys = append(keys, tag)
		}
	}
	sort.Strings(keys)
	return keys
}

// Items returns scalars recorded for a tag in file order.
func (a *Accumulator) Items(tag string) ([]ScalarEvent, error) {
	events, ok := a.scalars[tag]
	if !ok || len(events) == 0 {
		return nil, errors.Errorf("no scalars for tag %q in %q", tag, a.path)
	}
	return append([]ScalarEvent(nil), events...), nil
}
