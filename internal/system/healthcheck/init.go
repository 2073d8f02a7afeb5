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

// Package healthcheck registers the liveness and readiness endpoints.
package healthcheck

import (
	"net/http"

	"github.com/asgardeo/conductor/internal/system/database/provider"
	"github.com/asgardeo/conductor/internal/system/healthcheck/handler"
	"github.com/asgardeo/conductor/internal/system/healthcheck/service"
)

// Initialize creates the health check service and registers its routes. dbProvider may be nil.
func Initialize(mux *http.ServeMux, dbProvider provider.DBProviderInterface) service.HealthCheckServiceInterface {
	healthCheckService := service.NewHealthCheckService(dbProvider)
	healthCheckHandler := handler.NewHealthCheckHandler(healthCheckService)

	mux.HandleFunc("GET /health/liveness", healthCheckHandler.HandleLivenessRequest)
	mux.HandleFunc("GET /health/readiness", healthCheckHandler.HandleReadinessRequest)
	return healthCheckService
}
