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

package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/btree"

	sysutils "github.com/asgardeo/conductor/internal/system/utils"
)

// Keys of the transaction metadata visible to every template. They take precedence over any
// accumulated or per-call value with the same name.
const (
	KeyUserID        = "userId"
	KeyUserEmail     = "userEmail"
	KeyUserRole      = "userRole"
	KeyTransactionID = "transactionId"
)

// FixedKeys lists the metadata keys in a stable order.
var FixedKeys = []string{KeyUserID, KeyUserEmail, KeyUserRole, KeyTransactionID}

// OrchestrationContext is the state of one in-flight transaction. It is owned by a single goroutine
// for its whole lifetime and is never reused, so it carries no locks.
type OrchestrationContext struct {
	transactionID  string
	flowName       string
	identity       CallerIdentity
	steps          []StepDescriptor
	stepIndex      map[string]int
	completedSteps []string
	rollbackSteps  []string
	data           map[string]any
	outputs        *btree.Map[string, map[string]any]
	log            *SagaLog
	startedAt      time.Time
}

// NewOrchestrationContext creates the context of a new transaction with a fresh transaction ID.
func NewOrchestrationContext(flowName string, identity CallerIdentity,
	steps []StepDescriptor) (*OrchestrationContext, error) {
	stepIndex := make(map[string]int, len(steps))
	for i, step := range steps {
		if step.Name == "" {
			return nil, fmt.Errorf("step at position %d has no name", i)
		}
		if _, exists := stepIndex[step.Name]; exists {
			return nil, fmt.Errorf("duplicate step name %q", step.Name)
		}
		stepIndex[step.Name] = i
	}

	ownSteps := make([]StepDescriptor, len(steps))
	copy(ownSteps, steps)

	return &OrchestrationContext{
		transactionID: sysutils.GenerateUUID(),
		flowName:      flowName,
		identity:      identity,
		steps:         ownSteps,
		stepIndex:     stepIndex,
		data:          make(map[string]any),
		outputs:       btree.NewMap[string, map[string]any](8),
		log:           NewSagaLog(),
		startedAt:     time.Now(),
	}, nil
}

// TransactionID returns the correlation identifier of the transaction.
func (c *OrchestrationContext) TransactionID() string { return c.transactionID }

// FlowName returns the name of the flow being executed.
func (c *OrchestrationContext) FlowName() string { return c.flowName }

// Identity returns the caller identity captured when the transaction started.
func (c *OrchestrationContext) Identity() CallerIdentity { return c.identity }

// StartedAt returns the creation time of the context.
func (c *OrchestrationContext) StartedAt() time.Time { return c.startedAt }

// Steps returns the ordered step descriptors of the flow.
func (c *OrchestrationContext) Steps() []StepDescriptor {
	steps := make([]StepDescriptor, len(c.steps))
	copy(steps, c.steps)
	return steps
}

// Step returns the descriptor of the named step.
func (c *OrchestrationContext) Step(name string) (StepDescriptor, bool) {
	i, ok := c.stepIndex[name]
	if !ok {
		return StepDescriptor{}, false
	}
	return c.steps[i], true
}

// CompletedSteps returns the names of the successful steps in completion order.
func (c *OrchestrationContext) CompletedSteps() []string {
	return append([]string(nil), c.completedSteps...)
}

// RollbackSteps returns the names of the steps whose compensation succeeded, in compensation order.
func (c *OrchestrationContext) RollbackSteps() []string {
	return append([]string(nil), c.rollbackSteps...)
}

// Data returns a shallow copy of the accumulated data.
func (c *OrchestrationContext) Data() map[string]any {
	data := make(map[string]any, len(c.data))
	for k, v := range c.data {
		data[k] = v
	}
	return data
}

// Value returns one accumulated value.
func (c *OrchestrationContext) Value(key string) (any, bool) {
	v, ok := c.data[key]
	return v, ok
}

// FixedData returns the transaction metadata exposed to templates under the fixed keys.
func (c *OrchestrationContext) FixedData() map[string]any {
	return map[string]any{
		KeyUserID:        c.identity.UserID,
		KeyUserEmail:     c.identity.Email,
		KeyUserRole:      c.identity.Role,
		KeyTransactionID: c.transactionID,
	}
}

// StepOutputs returns the raw results of all completed steps keyed by step name.
func (c *OrchestrationContext) StepOutputs() map[string]map[string]any {
	outputs := make(map[string]map[string]any, c.outputs.Len())
	c.outputs.Scan(func(name string, output map[string]any) bool {
		outputs[name] = output
		return true
	})
	return outputs
}

// Merge writes the given values into the accumulated data. Existing keys may be overwritten, but
// nothing is ever removed.
func (c *OrchestrationContext) Merge(values map[string]any) {
	for k, v := range values {
		c.data[k] = v
	}
}

// MarkCompleted appends a step to the completed list and keeps its raw result.
func (c *OrchestrationContext) MarkCompleted(name string, output map[string]any) error {
	if _, ok := c.stepIndex[name]; !ok {
		return fmt.Errorf("step %q is not part of flow %s", name, c.flowName)
	}
	if _, done := c.outputs.Get(name); done {
		return fmt.Errorf("step %q has already completed", name)
	}
	if output == nil {
		output = map[string]any{}
	}
	c.outputs.Set(name, output)
	c.completedSteps = append(c.completedSteps, name)
	return nil
}

// MarkRolledBack appends a completed step to the rollback list.
func (c *OrchestrationContext) MarkRolledBack(name string) error {
	if _, done := c.outputs.Get(name); !done {
		return fmt.Errorf("step %q has not completed", name)
	}
	for _, rolledBack := range c.rollbackSteps {
		if rolledBack == name {
			return errors.New("step " + name + " has already been rolled back")
		}
	}
	c.rollbackSteps = append(c.rollbackSteps, name)
	return nil
}

// Record appends an event to the transaction event log.
func (c *OrchestrationContext) Record(step string, eventType EventType, detail string) error {
	return c.log.Record(step, eventType, detail)
}

// Events returns the transaction event log.
func (c *OrchestrationContext) Events() []Event {
	return c.log.Events()
}

// State returns the transaction state derived from the event log.
func (c *OrchestrationContext) State() TransactionState {
	return c.log.State()
}

// StepStatus returns the status of one step derived from the event log.
func (c *OrchestrationContext) StepStatus(name string) StepStatus {
	return c.log.StepStatus(name)
}
