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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// FileWriter appends events to a new event file in a directory.
type FileWriter struct {
	path    string
	file    *os.File
	buffer  *bufio.Writer
	records *RecordWriter
}

// EventFileName returns TensorBoard style file name for an event file.
func EventFileName(created time.Time, hostname, suffix string) string {
	return fmt.Sprintf("events.out.tfevents.%d.%s%s", created.Unix(), hostname, suffix)
}

// NewFileWriter creates (or reuses) dir and opens an event file in it.
// The file starts with the file version event.
func NewFileWriter(dir string, suffix string) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "cannot create event directory %q", dir)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	now := time.Now()
	path := filepath.Join(dir, EventFileName(now, hostname, suffix))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open event file %q", path)
	}

	buffer := bufio.NewWriter(file)
	w := &FileWriter{
		path:    path,
		file:    file,
		buffer:  buffer,
		records: NewRecordWriter(buffer),
	}

	err = w.AddEvent(&Event{WallTime: float64(now.UnixNano()) / 1e9, FileVersion: FileVersion})
	if err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// Path returns path of the event file.
func (w *FileWriter) Path() string {
	return w.path
}

// AddEvent appends an event.
func (w *FileWriter) AddEvent(event *Event) error {
	return errors.Wrapf(w.records.Write(event.Marshal()), "cannot append event to %q", w.path)
}

// AddScalar appends a simple_value summary event.
func (w *FileWriter) AddScalar(tag string, value float64, step int64, wallTime float64) error {
	return w.AddEvent(NewScalarEvent(tag, value, step, wallTime))
}

// Flush writes buffered events and syncs the file.
func (w *FileWriter) Flush() error {
	if err := w.buffer.Flush(); err != nil {
		return errors.Wrapf(err, "cannot flush %q", w.path)
	}
	return errors.Wrapf(w.file.Sync(), "cannot sync %q", w.path)
}

// Close flushes and closes the file.
func (w *FileWriter) Close() error {
	flushErr := w.Flush()
	closeErr := w.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return errors.Wrapf(closeErr, "cannot close %q", w.path)
}
