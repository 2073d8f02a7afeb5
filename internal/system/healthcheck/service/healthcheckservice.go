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

// Package service provides health check-related business logic and operations.
package service

import (
	"github.com/asgardeo/conductor/internal/system/constants"
	"github.com/asgardeo/conductor/internal/system/database/provider"
	"github.com/asgardeo/conductor/internal/system/healthcheck/model"
	"github.com/asgardeo/conductor/internal/system/log"
)

const runtimeDBServiceName = "RuntimeDB"

// HealthCheckServiceInterface defines the interface for the health check service.
type HealthCheckServiceInterface interface {
	CheckReadiness() model.ServerStatus
}

// HealthCheckService is the default implementation of the HealthCheckServiceInterface.
type HealthCheckService struct {
	dbProvider provider.DBProviderInterface
}

// NewHealthCheckService creates a health check service. A nil provider means the server runs without a
// runtime database and readiness does not depend on one.
func NewHealthCheckService(dbProvider provider.DBProviderInterface) HealthCheckServiceInterface {
	return &HealthCheckService{dbProvider: dbProvider}
}

// CheckReadiness checks the readiness of the server and its dependencies.
func (hcs *HealthCheckService) CheckReadiness() model.ServerStatus {
	serverStatus := model.ServerStatus{Status: model.StatusUp, ServiceStatus: []model.ServiceStatus{}}
	if hcs.dbProvider == nil {
		return serverStatus
	}

	runtimeDBStatus := model.ServiceStatus{
		ServiceName: runtimeDBServiceName,
		Status:      hcs.checkDatabaseStatus(constants.RuntimeDBName),
	}
	serverStatus.ServiceStatus = append(serverStatus.ServiceStatus, runtimeDBStatus)
	if runtimeDBStatus.Status == model.StatusDown {
		serverStatus.Status = model.StatusDown
	}
	return serverStatus
}

// checkDatabaseStatus pings the specified database. The client is owned by the provider and stays open.
func (hcs *HealthCheckService) checkDatabaseStatus(dbName string) model.Status {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "HealthCheckService"))

	dbClient, err := hcs.dbProvider.GetDBClient(dbName)
	if err != nil {
		logger.Error("Failed to get database client", log.String("database", dbName), log.Error(err))
		return model.StatusDown
	}
	if err := dbClient.Ping(); err != nil {
		logger.Error("Database ping failed", log.String("database", dbName), log.Error(err))
		return model.StatusDown
	}
	return model.StatusUp
}
