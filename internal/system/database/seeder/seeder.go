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

// Package seeder prepares the runtime database before the server starts accepting requests.
package seeder

import (
	"fmt"

	"github.com/asgardeo/conductor/internal/system/database/client"
	"github.com/asgardeo/conductor/internal/system/database/model"
	"github.com/asgardeo/conductor/internal/system/log"
)

const loggerComponentName = "DBSeeder"

// SeederInterface defines the operations to seed a database.
type SeederInterface interface {
	SeedSchema(statements ...model.DBQuery) error
}

// DBSeeder implements SeederInterface for database schema seeding.
type DBSeeder struct {
	dbClient client.DBClientInterface
}

// NewDBSeeder creates a new instance of DBSeeder.
func NewDBSeeder(dbClient client.DBClientInterface) SeederInterface {
	return &DBSeeder{
		dbClient: dbClient,
	}
}

// SeedSchema executes the given statements in order. Statements must be idempotent, since they run on
// every start. Seeding stops at the first failure.
func (s *DBSeeder) SeedSchema(statements ...model.DBQuery) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))
	logger.Debug("Starting database schema seeding", log.Int("statements", len(statements)))

	for _, statement := range statements {
		if _, err := s.dbClient.Execute(statement); err != nil {
			logger.Error("Failed to execute schema statement", log.String("id", statement.GetID()),
				log.Error(err))
			return fmt.Errorf("failed to execute schema statement %s: %w", statement.GetID(), err)
		}
		logger.Debug("Executed schema statement", log.String("id", statement.GetID()))
	}

	logger.Info("Database schema seeding completed")
	return nil
}
