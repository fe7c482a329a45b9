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

// Package metadata records what every aggregation did, so results can be traced back
// to the runs and settings they were produced from.
package metadata

import (
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
)

// Predefined types of metadata.
// This selector allows to group metadata by their common characteristics.
// TypeFlags holds parameters passed to the aggregator, TypeEnviron its environment
// variables, TypePlatform the host it ran on and TypeAggregation the aggregated runs.
const (
	TypeEmpty       = ""
	TypeFlags       = "flags"
	TypeEnviron     = "environ"
	TypePlatform    = "platform"
	TypeAggregation = "aggregation"
)

// Supported metadata backends.
const (
	BackendNone      = "none"
	BackendCassandra = "cassandra"
	BackendInfluxDB  = "influxdb"
)

// BackendFlag selects where aggregation metadata is recorded.
var BackendFlag = conf.NewStringFlag("metadata_db", "Database for aggregation metadata: none, cassandra or influxdb", BackendNone)

// Metadata interface defines methods which must be supported by DB backend
type Metadata interface {
	// Record stores a key and value and associates with the aggregation id.
	Record(key string, value string, kind string) error
	// RecordMap stores a key and value map and associates with the aggregation id.
	RecordMap(metadata map[string]string, kind string) error
	// GetByKind retrives single metadata type from the database.
	// Returns error if no kind or too many groups found.
	GetByKind(kind string) (map[string]string, error)
	// Clear deletes all metadata entries associated with the current aggregation id.
	Clear() error
}

// NewDefault initialize metadata object which is configured via flags or env. variables.
func NewDefault(aggregationID string) (Metadata, error) {
	switch backend := BackendFlag.Value(); backend {
	case BackendNone:
		return NewInMemory(aggregationID), nil
	case BackendCassandra:
		config, err := DefaultCassandraConfig()
		if err != nil {
			return nil, err
		}
		return NewCassandra(aggregationID, config)
	case BackendInfluxDB:
		config, err := DefaultInfluxDBConfig()
		if err != nil {
			return nil, err
		}
		return NewInfluxDB(aggregationID, config)
	default:
		return nil, conf.NewUsageError("metadata_db", backend, "must be one of: none, cassandra, influxdb")
	}
}

func init() {
	// Backend flags are registered up front so they show up in help and config dumps.
	if _, err := DefaultCassandraConfig(); err != nil {
		panic(err)
	}
	if _, err := DefaultInfluxDBConfig(); err != nil {
		panic(err)
	}
}
