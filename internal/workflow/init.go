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

package workflow

import (
	"fmt"
	"net/http"

	"github.com/asgardeo/conductor/internal/saga/flow"
	"github.com/asgardeo/conductor/internal/saga/journal"
	"github.com/asgardeo/conductor/internal/system/middleware"
)

// RegisterFlows validates and registers the flows served by this package.
func RegisterFlows(registry *flow.Registry) error {
	for _, def := range definitions() {
		if err := registry.Register(def); err != nil {
			return fmt.Errorf("failed to register flow %s: %w", def.Name, err)
		}
	}
	return nil
}

// Initialize initializes the workflow service and registers its routes.
func Initialize(mux *http.ServeMux, orchestrator flow.OrchestratorInterface,
	txJournal journal.JournalInterface) WorkflowServiceInterface {
	workflowService := newWorkflowService(orchestrator, txJournal)
	workflowHandler := newWorkflowHandler(workflowService)
	registerRoutes(mux, workflowHandler)
	return workflowService
}

// registerRoutes registers the routes for the transaction endpoints.
func registerRoutes(mux *http.ServeMux, workflowHandler *workflowHandler) {
	noContent := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}

	postOptions := middleware.CORSOptions{
		AllowedMethods:   "POST",
		AllowedHeaders:   "Content-Type, X-User-ID, X-User-Role, X-User-Email",
		AllowCredentials: true,
	}
	postRoutes := map[string]http.HandlerFunc{
		"/orders":                  workflowHandler.HandleCreateOrderRequest,
		"/orders/{orderId}/accept": workflowHandler.HandleAcceptDeliveryRequest,
		"/orders/{orderId}/cancel": workflowHandler.HandleCancelOrderRequest,
		"/reviews":                 workflowHandler.HandleCreateReviewRequest,
	}
	for path, handler := range postRoutes {
		mux.HandleFunc(middleware.WithCORS("POST "+path, middleware.WithCaller(handler), postOptions))
		mux.HandleFunc(middleware.WithCORS("OPTIONS "+path, noContent, postOptions))
	}

	getOptions := middleware.CORSOptions{
		AllowedMethods:   "GET",
		AllowedHeaders:   "X-User-ID, X-User-Role, X-User-Email",
		AllowCredentials: true,
	}
	mux.HandleFunc(middleware.WithCORS("GET /transactions/{transactionId}",
		middleware.WithCaller(workflowHandler.HandleGetTransactionRequest), getOptions))
	mux.HandleFunc(middleware.WithCORS("OPTIONS /transactions/{transactionId}", noContent, getOptions))
}
