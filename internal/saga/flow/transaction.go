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

	"github.com/asgardeo/conductor/internal/saga/executor"
	"github.com/asgardeo/conductor/internal/saga/model"
)

// Transaction is the handle a flow body uses to run the steps of one saga.
type Transaction struct {
	ctx      context.Context
	sagaCtx  *model.OrchestrationContext
	executor executor.StepExecutorInterface
}

// Execute runs the named step with the given per-call data and returns its raw result.
func (t *Transaction) Execute(stepName string, extra map[string]any) (map[string]any, error) {
	step, ok := t.sagaCtx.Step(stepName)
	if !ok {
		return nil, &model.StepError{StepName: stepName, Kind: model.FailureRequest,
			Reason: "step is not part of flow " + t.sagaCtx.FlowName()}
	}
	return t.executor.ExecuteStep(t.ctx, step, t.sagaCtx, extra)
}

// Fail returns the error a flow body reports when a business rule stops the transaction.
func (t *Transaction) Fail(reason string) error {
	return &model.FlowError{Reason: reason}
}

// Value returns one accumulated value.
func (t *Transaction) Value(key string) (any, bool) {
	return t.sagaCtx.Value(key)
}

// TransactionID returns the correlation identifier of the transaction.
func (t *Transaction) TransactionID() string {
	return t.sagaCtx.TransactionID()
}
