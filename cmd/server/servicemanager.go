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

package main

import (
	"net/http"

	"github.com/asgardeo/conductor/internal/saga/compensation"
	"github.com/asgardeo/conductor/internal/saga/executor"
	"github.com/asgardeo/conductor/internal/saga/flow"
	"github.com/asgardeo/conductor/internal/saga/journal"
	"github.com/asgardeo/conductor/internal/saga/remote"
	"github.com/asgardeo/conductor/internal/system/config"
	"github.com/asgardeo/conductor/internal/system/constants"
	"github.com/asgardeo/conductor/internal/system/database/provider"
	"github.com/asgardeo/conductor/internal/system/database/seeder"
	"github.com/asgardeo/conductor/internal/system/healthcheck"
	syshttp "github.com/asgardeo/conductor/internal/system/http"
	"github.com/asgardeo/conductor/internal/system/log"
	"github.com/asgardeo/conductor/internal/system/metrics"
	"github.com/asgardeo/conductor/internal/workflow"
)

// registerServices builds the saga engine and registers every endpoint with the multiplexer. It returns
// the runtime database provider, or nil when the transaction journal is disabled.
func registerServices(logger *log.Logger, mux *http.ServeMux, cfg *config.Config) provider.DBProviderInterface {
	mux.Handle("GET /metrics", metrics.Handler())

	var dbProvider provider.DBProviderInterface
	var txJournal journal.JournalInterface = journal.NoopJournal{}
	if cfg.Orchestrator.JournalEnabled {
		dbProvider = provider.GetDBProvider()
		seedJournalSchema(logger, dbProvider)
		txJournal = journal.NewDBJournal(dbProvider)
	}
	_ = healthcheck.Initialize(mux, dbProvider)

	rules := executor.NewDefaultRuleRegistry()
	registry := flow.NewRegistry(rules)
	if err := workflow.RegisterFlows(registry); err != nil {
		logger.Fatal("Failed to register flows", log.Error(err))
	}

	router := remote.NewServiceRouter(cfg.Services)
	warnUnroutedServices(logger, registry, router)

	client := remote.NewClient(syshttp.GetHTTPClient(), router, remote.Backoff{
		Base: cfg.Orchestrator.RetryBaseDelay(),
		Cap:  cfg.Orchestrator.RetryMaxDelay(),
	})
	orchestrator := flow.NewOrchestrator(registry,
		executor.NewStepExecutor(client, rules, cfg.Orchestrator),
		compensation.NewManager(client, cfg.Orchestrator),
		txJournal)
	_ = workflow.Initialize(mux, orchestrator, txJournal)

	logger.Info("Registered flows", log.Any("flows", registry.Names()), log.Any("services", router.Services()),
		log.Bool("compensationEnabled", cfg.Orchestrator.CompensationEnabled),
		log.Bool("journalEnabled", cfg.Orchestrator.JournalEnabled))
	return dbProvider
}

// warnUnroutedServices logs the services that registered flows call but that have no base URL. Calls to
// them fail with a routing error at run time.
func warnUnroutedServices(logger *log.Logger, registry *flow.Registry, router *remote.ServiceRouter) {
	for _, name := range registry.Names() {
		def, _ := registry.Get(name)
		for _, step := range def.Steps {
			if _, ok := router.BaseURL(step.Service); !ok {
				logger.Warn("No base URL configured for service", log.String(log.LoggerKeyFlowName, name),
					log.String(log.LoggerKeyStepName, step.Name), log.String(log.LoggerKeyServiceName, step.Service))
			}
		}
	}
}

// seedJournalSchema creates the journal tables in the runtime database when they do not exist yet.
func seedJournalSchema(logger *log.Logger, dbProvider provider.DBProviderInterface) {
	dbSeeder, err := seeder.NewSeederProvider(dbProvider).GetSeeder(constants.RuntimeDBName)
	if err != nil {
		logger.Fatal("Failed to open the runtime database", log.Error(err))
	}
	if err := dbSeeder.SeedSchema(journal.SchemaQueries()...); err != nil {
		logger.Fatal("Failed to create the transaction journal schema", log.Error(err))
	}
}
