/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package provider provides functionality for managing database connections and clients.
package provider

import (
	"database/sql"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/asgardeo/conductor/internal/system/config"
	"github.com/asgardeo/conductor/internal/system/constants"
	"github.com/asgardeo/conductor/internal/system/database/client"
	"github.com/asgardeo/conductor/internal/system/database/model"
	"github.com/asgardeo/conductor/internal/system/log"
)

const (
	loggerComponentName    = "DBProvider"
	dataSourceTypePostgres = "postgres"
	dataSourceTypeSQLite   = "sqlite"
)

// dbConfig represents the local database configuration.
type dbConfig struct {
	dsn        string
	driverName string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient(dbName string) (client.DBClientInterface, error)
	Close() error
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct {
	serverHome    string
	runtime       config.DataSource
	runtimeClient client.DBClientInterface
	runtimeMutex  sync.RWMutex
	open          func(driverName, dsn string) (*sql.DB, error)
}

var (
	instance *DBProvider
	once     sync.Once
)

// GetDBProvider returns the process wide provider built from the server runtime configuration.
func GetDBProvider() DBProviderInterface {
	once.Do(func() {
		runtime := config.GetServerRuntime()
		instance = NewDBProvider(runtime.ServerHome, runtime.Config.Database.Runtime)
	})
	return instance
}

// NewDBProvider creates a provider for the given runtime data source. Connections are opened lazily.
func NewDBProvider(serverHome string, runtime config.DataSource) *DBProvider {
	return &DBProvider{
		serverHome: serverHome,
		runtime:    runtime,
		open:       sql.Open,
	}
}

// GetDBClient returns a database client based on the provided database name.
// Not required to close the returned client manually since it manages its own connection pool.
func (d *DBProvider) GetDBClient(dbName string) (client.DBClientInterface, error) {
	if dbName != constants.RuntimeDBName {
		return nil, fmt.Errorf("unsupported database name: %s", dbName)
	}

	d.runtimeMutex.RLock()
	if d.runtimeClient != nil {
		dbClient := d.runtimeClient
		d.runtimeMutex.RUnlock()
		return dbClient, nil
	}
	d.runtimeMutex.RUnlock()

	d.runtimeMutex.Lock()
	defer d.runtimeMutex.Unlock()

	if d.runtimeClient != nil {
		return d.runtimeClient, nil
	}

	dbClient, err := d.initializeClient(d.runtime)
	if err != nil {
		return nil, err
	}
	d.runtimeClient = dbClient
	return dbClient, nil
}

// initializeClient opens and verifies a connection pool for the data source.
func (d *DBProvider) initializeClient(dataSource config.DataSource) (client.DBClientInterface, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbConfig, err := d.getDBConfig(dataSource)
	if err != nil {
		return nil, err
	}
	dbName := dataSource.Name
	if dbName == "" {
		dbName = dataSource.Path
	}

	db, err := d.open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", dbName, err)
	}

	// Configure connection pool using values from configuration
	db.SetMaxOpenConns(dataSource.MaxOpenConns)
	db.SetMaxIdleConns(dataSource.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(dataSource.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database %s: %w (close error: %w)", dbName, err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database %s: %w", dbName, err)
	}

	logger.Debug("Database connection established", log.String("type", dbConfig.driverName),
		log.String("database", dbName))
	return client.NewDBClient(model.NewDB(db), dbConfig.driverName), nil
}

// getDBConfig returns the database configuration based on the provided data source.
func (d *DBProvider) getDBConfig(dataSource config.DataSource) (dbConfig, error) {
	switch dataSource.Type {
	case dataSourceTypePostgres:
		return dbConfig{
			driverName: dataSourceTypePostgres,
			dsn: fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
				dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
				dataSource.Name, dataSource.SSLMode),
		}, nil
	case dataSourceTypeSQLite:
		options := dataSource.Options
		if options != "" && options[0] != '?' {
			options = "?" + options
		}
		return dbConfig{
			driverName: dataSourceTypeSQLite,
			dsn:        path.Join(d.serverHome, dataSource.Path) + options,
		}, nil
	default:
		return dbConfig{}, fmt.Errorf("unsupported database type: %q", dataSource.Type)
	}
}

// Close closes the runtime database connection if it was opened.
func (d *DBProvider) Close() error {
	d.runtimeMutex.Lock()
	defer d.runtimeMutex.Unlock()

	if d.runtimeClient == nil {
		return nil
	}
	if err := d.runtimeClient.Close(); err != nil {
		return fmt.Errorf("failed to close runtime client: %w", err)
	}
	d.runtimeClient = nil
	return nil
}
