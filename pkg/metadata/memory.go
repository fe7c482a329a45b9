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
	"sync"

	"github.com/pkg/errors"
)

// InMemory keeps metadata in the process only. It is used when no database is configured.
type InMemory struct {
	aggregationID string

	mutex sync.Mutex
	kinds map[string]map[string]string
}

// NewInMemory returns Metadata which is lost when the process exits.
func NewInMemory(aggregationID string) *InMemory {
	return &InMemory{
		aggregationID: aggregationID,
		kinds:         map[string]map[string]string{},
	}
}

// Record stores a key and value and associates with the aggregation id.
func (m *InMemory) Record(key, value, kind string) error {
	return m.RecordMap(map[string]string{key: value}, kind)
}

// RecordMap stores a key and value map and associates with the aggregation id.
// Values recorded earlier under the same kind and key are overwritten.
func (m *InMemory) RecordMap(metadata map[string]string, kind string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored, ok := m.kinds[kind]
	if !ok {
		stored = map[string]string{}
		m.kinds[kind] = stored
	}
	for key, value := range metadata {
		stored[key] = value
	}
	return nil
}

// GetByKind returns a copy of metadata recorded under given kind.
func (m *InMemory) GetByKind(kind string) (map[string]string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	stored, ok := m.kinds[kind]
	if !ok {
		return nil, errors.Errorf("cannot retrieve metadata for aggregation ID %q and %q kind", m.aggregationID, kind)
	}

	metadata := make(map[string]string, len(stored))
	for key, value := range stored {
		metadata[key] = value
	}
	return metadata, nil
}

// Clear deletes all metadata entries.
func (m *InMemory) Clear() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.kinds = map[string]map[string]string{}
	return nil
}
