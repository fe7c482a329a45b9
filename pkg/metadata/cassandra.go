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
	"time"

	"github.com/gocql/gocql"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/pkg/errors"
)

const (
	cassandraCreateTable = `CREATE TABLE IF NOT EXISTS metadata (aggregation_id text, kind text, time timestamp, timeuuid TIMEUUID, metadata map<text,text>, PRIMARY KEY ((aggregation_id), timeuuid),) WITH CLUSTERING ORDER BY (timeuuid DESC);`
	cassandraInsert      = `INSERT INTO metadata (aggregation_id, kind, time, timeuuid, metadata) VALUES (?, ?, ?, ?, ?)`
	cassandraSelect      = `SELECT metadata FROM metadata WHERE aggregation_id = ? AND kind = ? ALLOW FILTERING`
	cassandraDelete      = `DELETE FROM metadata WHERE aggregation_id = ?`
)

// CassandraConfig encodes the settings for connecting to the database.
type CassandraConfig struct {
	Address           string        `help:"Address of Cassandra DB endpoint" default:"127.0.0.1" name:"Addr"`
	Port              int           `help:"Port of Cassandra DB endpoint" default:"9042"`
	Username          string        `help:"Cassandra username"`
	Password          string        `help:"Cassandra password"`
	KeyspaceName      string        `help:"Keyspace used to store metadata" default:"aggregator"`
	CreateKeyspace    bool          `help:"Create the keyspace if it does not exist" default:"true"`
	ConnectionTimeout time.Duration `help:"Initial connection timeout" default:"10s"`
	Timeout           time.Duration `help:"Query timeout" default:"10s"`
	SslEnabled        bool          `help:"Use TLS for the Cassandra connection" name:"Ssl"`
	SslCAPath         string        `help:"Path to the CA certificate"`
	SslCertPath       string        `help:"Path to the client certificate"`
	SslKeyPath        string        `help:"Path to the client key"`

	flagPrefix string
}

// DefaultCassandraConfig applies the Cassandra settings from the command line flags and
// environment variables.
func DefaultCassandraConfig() (CassandraConfig, error) {
	config := CassandraConfig{flagPrefix: "Cassandra"}
	err := conf.Process(&config)
	return config, err
}

// Cassandra is a helper struct which keeps the Cassandra session alive,
// holds the active configuration and the aggregation id to tag the metadata with.
type Cassandra struct {
	aggregationID string
	config        CassandraConfig
	session       *gocql.Session
}

// NewCassandra connects to Cassandra and makes sure the metadata table exists.
func NewCassandra(aggregationID string, config CassandraConfig) (*Cassandra, error) {
	m := &Cassandra{
		aggregationID: aggregationID,
		config:        config,
	}

	if config.CreateKeyspace {
		if err := m.createKeyspace(); err != nil {
			return nil, err
		}
	}

	cluster := m.clusterConfig()
	cluster.Keyspace = config.KeyspaceName
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to Cassandra at %s:%d", config.Address, config.Port)
	}
	m.session = session

	if err := session.Query(cassandraCreateTable).Exec(); err != nil {
		session.Close()
		return nil, errors.Wrap(err, "cannot create metadata table")
	}
	return m, nil
}

// clusterConfig prepares configuration to Cassandra cluster without a keyspace.
func (m *Cassandra) clusterConfig() *gocql.ClusterConfig {
	cluster := gocql.NewCluster(m.config.Address)
	cluster.Port = m.config.Port
	cluster.Consistency = gocql.LocalOne
	cluster.SerialConsistency = gocql.LocalSerial
	cluster.ProtoVersion = 4
	cluster.ConnectTimeout = m.config.ConnectionTimeout
	cluster.Timeout = m.config.Timeout

	if m.config.Username != "" && m.config.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: m.config.Username,
			Password: m.config.Password,
		}
	}

	if m.config.SslEnabled {
		cluster.SslOpts = &gocql.SslOptions{
			CaPath:                 m.config.SslCAPath,
			CertPath:               m.config.SslCertPath,
			KeyPath:                m.config.SslKeyPath,
			EnableHostVerification: true,
		}
	}

	return cluster
}

func (m *Cassandra) createKeyspace() error {
	session, err := m.clusterConfig().CreateSession()
	if err != nil {
		return errors.Wrap(err, "cannot create session for creating keyspace")
	}
	defer session.Close()

	query := fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = {'class': 'SimpleStrategy', 'replication_factor': 1};", m.config.KeyspaceName)
	return errors.Wrap(session.Query(query).Exec(), "cannot create keyspace")
}

// Record stores a key and value and associates with the aggregation id.
func (m *Cassandra) Record(key, value, kind string) error {
	return m.RecordMap(map[string]string{key: value}, kind)
}

// RecordMap stores a key and value map as a single row.
func (m *Cassandra) RecordMap(metadata map[string]string, kind string) error {
	err := m.session.Query(cassandraInsert, m.aggregationID, kind, time.Now(), gocql.TimeUUID(), metadata).Exec()
	return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
}

// GetByKind retrieves single kind from the database.
// Returns error if no kind or too many rows found.
func (m *Cassandra) GetByKind(kind string) (map[string]string, error) {
	var metadata map[string]string
	maps := []map[string]string{}

	iter := m.session.Query(cassandraSelect, m.aggregationID, kind).Iter()
	for iter.Scan(&metadata) {
		maps = append(maps, metadata)
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "cannot query metadata of kind %q", kind)
	}

	if len(maps) != 1 {
		return nil, errors.Errorf("cannot retrieve metadata for aggregation ID %q and %q kind: found %d entries", m.aggregationID, kind, len(maps))
	}
	return maps[0], nil
}

// Clear deletes all metadata entries associated with the current aggregation id.
func (m *Cassandra) Clear() error {
	return errors.Wrapf(m.session.Query(cassandraDelete, m.aggregationID).Exec(), "cannot clear metadata of aggregation %q", m.aggregationID)
}

// Close closes the Cassandra session.
func (m *Cassandra) Close() {
	m.session.Close()
}
