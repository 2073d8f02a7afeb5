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

// Package executor runs single saga steps and folds their results into the orchestration context.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/asgardeo/conductor/internal/saga/model"
	"github.com/asgardeo/conductor/internal/saga/remote"
	"github.com/asgardeo/conductor/internal/saga/template"
	"github.com/asgardeo/conductor/internal/system/config"
	"github.com/asgardeo/conductor/internal/system/log"
	"github.com/asgardeo/conductor/internal/system/metrics"
)

const loggerComponentName = "StepExecutor"

// StepExecutorInterface executes one step of a transaction.
type StepExecutorInterface interface {
	// ExecuteStep calls the step's service with retries. On success it merges the extracted fields
	// into the context, marks the step completed and returns the raw result. On failure it returns a
	// *model.StepError and leaves the completed steps untouched.
	ExecuteStep(ctx context.Context, step model.StepDescriptor, sagaCtx *model.OrchestrationContext,
		extra map[string]any) (map[string]any, error)
}

// StepExecutor is the default StepExecutorInterface implementation.
type StepExecutor struct {
	client      remote.ClientInterface
	rules       *RuleRegistry
	maxAttempts int
	timeout     time.Duration
}

// NewStepExecutor creates a step executor.
func NewStepExecutor(client remote.ClientInterface, rules *RuleRegistry,
	cfg config.OrchestratorConfig) *StepExecutor {
	return &StepExecutor{
		client:      client,
		rules:       rules,
		maxAttempts: cfg.MaxRetryAttempts,
		timeout:     cfg.Timeout(),
	}
}

// ExecuteStep executes a step of the transaction.
func (e *StepExecutor) ExecuteStep(ctx context.Context, step model.StepDescriptor,
	sagaCtx *model.OrchestrationContext, extra map[string]any) (map[string]any, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyTransactionID, sagaCtx.TransactionID()),
		log.String(log.LoggerKeyFlowName, sagaCtx.FlowName()),
		log.String(log.LoggerKeyStepName, step.Name))

	if _, ok := sagaCtx.Step(step.Name); !ok {
		return nil, &model.StepError{StepName: step.Name, Kind: model.FailureRequest,
			Reason: fmt.Sprintf("step is not part of flow %s", sagaCtx.FlowName())}
	}
	if err := sagaCtx.Record(step.Name, model.EventStepStarted, ""); err != nil {
		return nil, &model.StepError{StepName: step.Name, Kind: model.FailureRequest, Reason: err.Error()}
	}

	data := template.MergeData(sagaCtx.Data(), extra, sagaCtx.FixedData())
	req := remote.CallRequest{
		Service:       step.Service,
		Endpoint:      template.ResolveString(step.Endpoint, data),
		Method:        step.Method,
		Identity:      sagaCtx.Identity(),
		TransactionID: sagaCtx.TransactionID(),
		Timeout:       e.timeout,
	}
	if step.Payload != nil {
		req.Body = template.Resolve(step.Payload, data)
	}

	logger.Debug("Executing step", log.String(log.LoggerKeyServiceName, step.Service),
		log.String("endpoint", req.Endpoint))

	start := time.Now()
	result, attempts := e.client.CallWithRetry(ctx, req, e.maxAttempts)
	metrics.StepDuration.WithLabelValues(step.Name).Observe(time.Since(start).Seconds())

	if !result.Success {
		logger.Error("Step failed", log.Int("attempts", attempts), log.String("reason", result.Error),
			log.String("kind", string(result.Kind)))
		if err := sagaCtx.Record(step.Name, model.EventStepFailed, result.Error); err != nil {
			logger.Warn("Failed to record step failure", log.Error(err))
		}
		return nil, &model.StepError{
			StepName: step.Name,
			Reason:   result.Error,
			Kind:     result.Kind,
			Attempts: attempts,
		}
	}

	extracted := e.rules.extract(step.Name, result.Data, sagaCtx.Data())
	if err := sagaCtx.MarkCompleted(step.Name, result.Data); err != nil {
		if recErr := sagaCtx.Record(step.Name, model.EventStepFailed, err.Error()); recErr != nil {
			logger.Warn("Failed to record step failure", log.Error(recErr))
		}
		return nil, &model.StepError{StepName: step.Name, Kind: model.FailureRequest, Reason: err.Error(),
			Attempts: attempts}
	}
	sagaCtx.Merge(extracted)
	if err := sagaCtx.Record(step.Name, model.EventStepSucceeded, ""); err != nil {
		logger.Warn("Failed to record step success", log.Error(err))
	}

	logger.Debug("Step completed", log.Int("attempts", attempts), log.Int("extractedFields", len(extracted)))
	return result.Data, nil
}
