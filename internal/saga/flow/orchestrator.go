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

package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asgardeo/conductor/internal/saga/compensation"
	sagaconst "github.com/asgardeo/conductor/internal/saga/constants"
	"github.com/asgardeo/conductor/internal/saga/executor"
	"github.com/asgardeo/conductor/internal/saga/journal"
	"github.com/asgardeo/conductor/internal/saga/model"
	"github.com/asgardeo/conductor/internal/system/log"
	"github.com/asgardeo/conductor/internal/system/metrics"
	sysutils "github.com/asgardeo/conductor/internal/system/utils"
)

const loggerComponentName = "SagaOrchestrator"

// Body is the imperative part of a flow. It runs the steps through the transaction handle and returns
// the first error it cannot handle.
type Body func(tx *Transaction) error

// OrchestratorInterface runs registered flows.
type OrchestratorInterface interface {
	// Run executes one transaction of the named flow. Any error or panic from the body triggers a single
	// compensation pass. The result always carries the transaction ID.
	Run(ctx context.Context, flowName string, identity model.CallerIdentity, body Body) model.FlowResult
}

// Orchestrator is the default OrchestratorInterface implementation.
type Orchestrator struct {
	registry    *Registry
	executor    executor.StepExecutorInterface
	compensator compensation.ManagerInterface
	journal     journal.JournalInterface
	now         func() time.Time
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(registry *Registry, stepExecutor executor.StepExecutorInterface,
	compensator compensation.ManagerInterface, txJournal journal.JournalInterface) *Orchestrator {
	if txJournal == nil {
		txJournal = journal.NoopJournal{}
	}
	return &Orchestrator{
		registry:    registry,
		executor:    stepExecutor,
		compensator: compensator,
		journal:     txJournal,
		now:         time.Now,
	}
}

// panicError carries a value recovered from a flow body.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic in flow body: %v", e.value)
}

// Run executes one transaction of the named flow.
func (o *Orchestrator) Run(ctx context.Context, flowName string, identity model.CallerIdentity,
	body Body) model.FlowResult {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyFlowName, flowName))

	def, ok := o.registry.Get(flowName)
	if !ok {
		transactionID := sysutils.GenerateUUID()
		logger.Error("Flow is not registered", log.String(log.LoggerKeyTransactionID, transactionID))
		return model.FlowResult{Error: sagaconst.GenericInternalErrorMessage, TransactionID: transactionID}
	}

	sagaCtx, err := model.NewOrchestrationContext(def.Name, identity, def.Steps)
	if err != nil {
		transactionID := sysutils.GenerateUUID()
		logger.Error("Failed to create orchestration context",
			log.String(log.LoggerKeyTransactionID, transactionID), log.Error(err))
		return model.FlowResult{Error: sagaconst.GenericInternalErrorMessage, TransactionID: transactionID}
	}

	logger = logger.With(log.String(log.LoggerKeyTransactionID, sagaCtx.TransactionID()))
	logger.Info("Transaction started", log.String("userId", identity.UserID))

	tx := &Transaction{ctx: ctx, sagaCtx: sagaCtx, executor: o.executor}
	err = runBody(body, tx)
	if err == nil {
		o.record(sagaCtx, logger, model.EventFlowSucceeded, "")
		o.finish(sagaCtx, "", "", logger)
		return model.FlowResult{
			Success:       true,
			Data:          sagaCtx.Data(),
			TransactionID: sagaCtx.TransactionID(),
		}
	}

	failedStep := ""
	var stepErr *model.StepError
	if errors.As(err, &stepErr) {
		failedStep = stepErr.StepName
	}
	var pErr *panicError
	if errors.As(err, &pErr) {
		logger.Error("Unexpected panic while running flow body", log.Any("panic", pErr.value))
	}

	o.record(sagaCtx, logger, model.EventFlowFailed, err.Error())
	logger.Error("Transaction failed", log.String("failedStep", failedStep), log.Error(err))
	o.compensator.Compensate(ctx, sagaCtx, failedStep)

	reason := callerMessage(err)
	o.finish(sagaCtx, failedStep, reason, logger)
	return model.FlowResult{
		Error:         reason,
		TransactionID: sagaCtx.TransactionID(),
	}
}

// runBody calls the flow body and turns a panic into an error.
func runBody(body Body, tx *Transaction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r}
		}
	}()
	return body(tx)
}

// callerMessage is the error reported to the caller. Step and business failures are reported as is;
// anything else is hidden behind a generic message.
func callerMessage(err error) string {
	var stepErr *model.StepError
	if errors.As(err, &stepErr) {
		return stepErr.Error()
	}
	var flowErr *model.FlowError
	if errors.As(err, &flowErr) {
		return flowErr.Error()
	}
	return sagaconst.GenericInternalErrorMessage
}

func (o *Orchestrator) record(sagaCtx *model.OrchestrationContext, logger *log.Logger,
	eventType model.EventType, detail string) {
	if err := sagaCtx.Record("", eventType, detail); err != nil {
		logger.Warn("Failed to record transaction event", log.String("event", string(eventType)), log.Error(err))
	}
}

// finish publishes the terminal state of the transaction to the metrics and the journal.
func (o *Orchestrator) finish(sagaCtx *model.OrchestrationContext, failedStep, reason string, logger *log.Logger) {
	endedAt := o.now()
	state := sagaCtx.State()
	metrics.TransactionsTotal.WithLabelValues(sagaCtx.FlowName(), string(state)).Inc()

	if err := o.journal.Write(journal.NewRecord(sagaCtx, failedStep, reason, endedAt)); err != nil {
		logger.Warn("Failed to write transaction journal", log.Error(err))
	}

	logger.Info("Transaction finished", log.String("state", string(state)),
		log.Duration("duration", endedAt.Sub(sagaCtx.StartedAt())),
		log.Any("completedSteps", sagaCtx.CompletedSteps()),
		log.Any("rollbackSteps", sagaCtx.RollbackSteps()))
}
