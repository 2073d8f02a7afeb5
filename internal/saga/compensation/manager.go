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

// Package compensation undoes the completed steps of a failed transaction.
package compensation

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/go-multierror"

	sagaconst "github.com/asgardeo/conductor/internal/saga/constants"
	"github.com/asgardeo/conductor/internal/saga/model"
	"github.com/asgardeo/conductor/internal/saga/remote"
	"github.com/asgardeo/conductor/internal/saga/template"
	"github.com/asgardeo/conductor/internal/system/config"
	"github.com/asgardeo/conductor/internal/system/log"
	"github.com/asgardeo/conductor/internal/system/metrics"
)

const loggerComponentName = "CompensationManager"

// ManagerInterface compensates failed transactions.
type ManagerInterface interface {
	// Compensate calls the compensating action of every completed step in reverse completion order.
	// It always returns normally; failed compensations are logged and skipped.
	Compensate(ctx context.Context, sagaCtx *model.OrchestrationContext, failedStep string)
}

// Manager is the default ManagerInterface implementation.
type Manager struct {
	client  remote.ClientInterface
	enabled bool
	timeout time.Duration
}

// NewManager creates a compensation manager.
func NewManager(client remote.ClientInterface, cfg config.OrchestratorConfig) *Manager {
	return &Manager{
		client:  client,
		enabled: cfg.CompensationEnabled,
		timeout: cfg.Timeout(),
	}
}

// Compensate rolls back the completed steps of the transaction.
func (m *Manager) Compensate(ctx context.Context, sagaCtx *model.OrchestrationContext, failedStep string) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyTransactionID, sagaCtx.TransactionID()),
		log.String(log.LoggerKeyFlowName, sagaCtx.FlowName()))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unexpected panic during compensation", log.Any("panic", r))
		}
	}()

	if !m.enabled {
		logger.Warn("Compensation is disabled, completed steps are left in place",
			log.String("failedStep", failedStep), log.Any("completedSteps", sagaCtx.CompletedSteps()))
		return
	}

	// A caller that goes away must not stop a rollback halfway.
	ctx = context.WithoutCancel(ctx)

	completed := sagaCtx.CompletedSteps()
	logger.Info("Starting compensation", log.String("failedStep", failedStep),
		log.Int("completedSteps", len(completed)))
	m.record(sagaCtx, logger, "", model.EventCompensationStarted, failedStep)

	var result *multierror.Error
	for _, name := range slices.Backward(completed) {
		if err := m.compensateStep(ctx, sagaCtx, name, logger); err != nil {
			result = multierror.Append(result, err)
		}
	}

	m.record(sagaCtx, logger, "", model.EventCompensationFinished, "")
	if err := result.ErrorOrNil(); err != nil {
		logger.Error("Compensation finished with failures", log.Int("failed", result.Len()),
			log.Any("rolledBack", sagaCtx.RollbackSteps()), log.Error(err))
		return
	}
	logger.Info("Compensation finished", log.Any("rolledBack", sagaCtx.RollbackSteps()))
}

// compensateStep issues the single compensating call of one step.
func (m *Manager) compensateStep(ctx context.Context, sagaCtx *model.OrchestrationContext, name string,
	logger *log.Logger) error {
	step, ok := sagaCtx.Step(name)
	if !ok || !step.IsCompensable() {
		logger.Debug("Step has no compensation, skipping", log.String(log.LoggerKeyStepName, name))
		metrics.CompensationsTotal.WithLabelValues(name, sagaconst.OutcomeSkipped).Inc()
		return nil
	}
	if sagaCtx.StepStatus(name) == model.StepUndoFinished {
		logger.Debug("Step already compensated, skipping", log.String(log.LoggerKeyStepName, name))
		return nil
	}

	m.record(sagaCtx, logger, name, model.EventUndoStarted, "")

	data := template.MergeData(sagaCtx.Data(), nil, sagaCtx.FixedData())
	req := remote.CallRequest{
		Service:       step.Service,
		Endpoint:      template.ResolveString(step.Compensation.Endpoint, data),
		Method:        step.Compensation.Method,
		Identity:      sagaCtx.Identity(),
		TransactionID: sagaCtx.TransactionID(),
		Timeout:       m.timeout,
	}
	if step.Compensation.Payload != nil {
		req.Body = template.Resolve(step.Compensation.Payload, data)
	}

	result := m.client.Call(ctx, req)
	if !result.Success {
		logger.Error("Compensation call failed", log.String(log.LoggerKeyStepName, name),
			log.String("endpoint", req.Endpoint), log.String("reason", result.Error))
		m.record(sagaCtx, logger, name, model.EventUndoFailed, result.Error)
		metrics.CompensationsTotal.WithLabelValues(name, sagaconst.OutcomeFailed).Inc()
		return fmt.Errorf("compensation of step %s failed: %s", name, result.Error)
	}

	if err := sagaCtx.MarkRolledBack(name); err != nil {
		logger.Warn("Failed to mark step as rolled back", log.String(log.LoggerKeyStepName, name), log.Error(err))
	}
	m.record(sagaCtx, logger, name, model.EventUndoFinished, "")
	metrics.CompensationsTotal.WithLabelValues(name, sagaconst.OutcomeSucceeded).Inc()
	logger.Info("Step compensated", log.String(log.LoggerKeyStepName, name))
	return nil
}

func (m *Manager) record(sagaCtx *model.OrchestrationContext, logger *log.Logger, step string,
	eventType model.EventType, detail string) {
	if err := sagaCtx.Record(step, eventType, detail); err != nil {
		logger.Warn("Failed to record compensation event", log.String("event", string(eventType)), log.Error(err))
	}
}
