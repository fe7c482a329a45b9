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
	"strings"
	"time"

	"github.com/influxdata/influxdb/client/v2"
	"github.com/intelsdi-x/tensorboard-aggregator/pkg/conf"
	"github.com/pkg/errors"
)

const influxMeasurement = "metadata"

// InfluxDBConfig holds configuration for InfluxDB
type InfluxDBConfig struct {
	Address            string `help:"Address of InfluxDB endpoint" default:"127.0.0.1" name:"Addr"`
	Port               int    `help:"Port of InfluxDB endpoint" default:"8086"`
	Username           string `help:"InfluxDB username"`
	Password           string `help:"InfluxDB password"`
	DatabaseName       string `help:"Name of the InfluxDB database for metadata" default:"aggregator" name:"MetadataDBName"`
	CreateDatabase     bool   `help:"Create the InfluxDB database if it does not exist" default:"true"`
	InsecureSkipVerify bool   `help:"Skip TLS certificate verification"`

	flagPrefix string
}

// DefaultInfluxDBConfig applies the InfluxDB settings from the command line flags and
// environment variables.
func DefaultInfluxDBConfig() (InfluxDBConfig, error) {
	config := InfluxDBConfig{flagPrefix: "Influxdb"}
	err := conf.Process(&config)
	return config, err
}

func (c InfluxDBConfig) httpConfig() client.HTTPConfig {
	return client.HTTPConfig{
		Addr:               fmt.Sprintf("http://%s:%d", c.Address, c.Port),
		Username:           c.Username,
		Password:           c.Password,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}

// InfluxDB is a helper struct which keeps the InfluxDB client alive,
// holds the active configuration and the aggregation id to tag the metadata with.
type InfluxDB struct {
	aggregationID string
	client        client.Client
	config        InfluxDBConfig
}

// NewInfluxDB returns the Metadata helper from an aggregation id and configuration.
func NewInfluxDB(aggregationID string, config InfluxDBConfig) (*InfluxDB, error) {
	httpClient, err := client.NewHTTPClient(config.httpConfig())
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create influx client for aggregation %s", aggregationID)
	}

	m := &InfluxDB{
		aggregationID: aggregationID,
		client:        httpClient,
		config:        config,
	}

	if config.CreateDatabase {
		if _, err := m.query(fmt.Sprintf("CREATE DATABASE %s", config.DatabaseName), ""); err != nil {
			httpClient.Close()
			return nil, errors.Wrapf(err, "cannot create influx database %q", config.DatabaseName)
		}
	}
	return m, nil
}

func (m *InfluxDB) query(command, database string) (*client.Response, error) {
	response, err := m.client.Query(client.Query{Command: command, Database: database})
	if err != nil {
		return nil, errors.Wrapf(err, "query %q failed for aggregation %s", command, m.aggregationID)
	}
	if response.Error() != nil {
		return nil, errors.Wrapf(response.Error(), "response from influxdb contained error for aggregation %s", m.aggregationID)
	}
	return response, nil
}

// Record stores a key and value and associates with the aggregation id.
func (m *InfluxDB) Record(key, value, kind string) error {
	return m.RecordMap(map[string]string{key: value}, kind)
}

// RecordMap writes metadata as a single point tagged with kind and aggregation id.
// Empty maps are skipped as InfluxDB does not accept points without fields.
func (m *InfluxDB) RecordMap(metadata map[string]string, kind string) error {
	if len(metadata) == 0 {
		return nil
	}

	batchPoints, err := client.NewBatchPoints(client.BatchPointsConfig{Database: m.config.DatabaseName})
	if err != nil {
		return errors.Wrapf(err, "creation of batch points for InfluxDB failed for metadata kind %q", kind)
	}

	fields := make(map[string]interface{}, len(metadata))
	for key, value := range metadata {
		fields[key] = value
	}
	tags := map[string]string{"kind": kind, "aggregation_id": m.aggregationID}
	point, err := client.NewPoint(influxMeasurement, tags, fields, time.Now())
	if err != nil {
		return errors.Wrapf(err, "cannot create new point, kind %q", kind)
	}
	batchPoints.AddPoint(point)

	return errors.Wrapf(m.client.Write(batchPoints), "cannot publish metadata of kind %q", kind)
}

// GetByKind retrieves single kind from the database. If duplicates are found then
// the last one is returned.
func (m *InfluxDB) GetByKind(kind string) (map[string]string, error) {
	cmd := fmt.Sprintf("SELECT last(*) FROM %s WHERE aggregation_id='%s' AND kind='%s' GROUP BY aggregation_id,kind", influxMeasurement, m.aggregationID, kind)
	response, err := m.query(cmd, m.config.DatabaseName)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{}
	for _, result := range response.Results {
		for _, row := range result.Series {
			for _, value := range row.Values {
				for idx, cell := range value {
					// Column 0 is the timestamp. Results may be sparse.
					if cell != nil && idx != 0 {
						column := strings.TrimPrefix(row.Columns[idx], "last_")
						metadata[column] = fmt.Sprint(cell)
					}
				}
			}
		}
	}

	if len(metadata) == 0 {
		return nil, errors.Errorf("cannot retrieve metadata for aggregation ID %q and %q kind", m.aggregationID, kind)
	}
	return metadata, nil
}

// Clear deletes all metadata entries associated with the current aggregation id.
func (m *InfluxDB) Clear() error {
	_, err := m.query(fmt.Sprintf("DROP SERIES FROM %s WHERE aggregation_id='%s'", influxMeasurement, m.aggregationID), m.config.DatabaseName)
	return err
}
