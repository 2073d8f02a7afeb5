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
	"fmt"
	"time"
)

// EventType identifies an entry of the transaction event log.
type EventType string

// Step level events.
const (
	EventStepStarted   EventType = "step_started"
	EventStepSucceeded EventType = "step_succeeded"
	EventStepFailed    EventType = "step_failed"
	EventUndoStarted   EventType = "undo_started"
	EventUndoFinished  EventType = "undo_finished"
	EventUndoFailed    EventType = "undo_failed"
)

// Transaction level events. They carry no step name.
const (
	EventFlowSucceeded        EventType = "flow_succeeded"
	EventFlowFailed           EventType = "flow_failed"
	EventCompensationStarted  EventType = "compensation_started"
	EventCompensationFinished EventType = "compensation_finished"
)

// TransactionState is the lifecycle state of a transaction, derived from its event log.
type TransactionState string

const (
	StatePending              TransactionState = "pending"
	StateRunning              TransactionState = "running"
	StateSucceeded            TransactionState = "succeeded"
	StateFailed               TransactionState = "failed"
	StateCompensating         TransactionState = "compensating"
	StateCompensated          TransactionState = "compensated"
	StatePartiallyCompensated TransactionState = "partially_compensated"
)

// StepStatus is the status of one step, derived from its events.
type StepStatus string

const (
	StepNeverStarted StepStatus = "never_started"
	StepStarted      StepStatus = "started"
	StepSucceeded    StepStatus = "succeeded"
	StepFailed       StepStatus = "failed"
	StepUndoStarted  StepStatus = "undo_started"
	StepUndoFinished StepStatus = "undo_finished"
	StepUndoFailed   StepStatus = "undo_failed"
)

// Event is one entry of the transaction event log.
type Event struct {
	Step   string    `json:"step,omitempty"`
	Type   EventType `json:"type"`
	At     time.Time `json:"at"`
	Detail string    `json:"detail,omitempty"`
}

// nextStepStatus returns the status of a step after the given event, or an error for an illegal sequence.
func nextStepStatus(current StepStatus, eventType EventType) (StepStatus, error) {
	switch current {
	case StepNeverStarted:
		if eventType == EventStepStarted {
			return StepStarted, nil
		}
	case StepStarted:
		switch eventType {
		case EventStepSucceeded:
			return StepSucceeded, nil
		case EventStepFailed:
			return StepFailed, nil
		}
	case StepSucceeded:
		if eventType == EventUndoStarted {
			return StepUndoStarted, nil
		}
	case StepUndoStarted:
		switch eventType {
		case EventUndoFinished:
			return StepUndoFinished, nil
		case EventUndoFailed:
			return StepUndoFailed, nil
		}
	}
	return current, fmt.Errorf("illegal event %s for step status %s", eventType, current)
}

// nextState returns the transaction state after the given event.
func nextState(current TransactionState, eventType EventType, undoFailed bool) (TransactionState, error) {
	switch eventType {
	case EventStepStarted, EventStepSucceeded, EventStepFailed:
		if current == StatePending || current == StateRunning {
			return StateRunning, nil
		}
	case EventFlowSucceeded:
		if current == StatePending || current == StateRunning {
			return StateSucceeded, nil
		}
	case EventFlowFailed:
		if current == StatePending || current == StateRunning {
			return StateFailed, nil
		}
	case EventCompensationStarted:
		if current == StateFailed {
			return StateCompensating, nil
		}
	case EventUndoStarted, EventUndoFinished, EventUndoFailed:
		if current == StateCompensating {
			return StateCompensating, nil
		}
	case EventCompensationFinished:
		if current == StateCompensating {
			if undoFailed {
				return StatePartiallyCompensated, nil
			}
			return StateCompensated, nil
		}
	}
	return current, fmt.Errorf("illegal event %s for transaction state %s", eventType, current)
}

// SagaLog is the ordered event log of one transaction. Recording validates every event against the
// step and transaction state machines, so the log can never describe an impossible history.
type SagaLog struct {
	events     []Event
	stepStatus map[string]StepStatus
	state      TransactionState
	undoFailed bool
	now        func() time.Time
}

// NewSagaLog creates an empty log.
func NewSagaLog() *SagaLog {
	return &SagaLog{
		stepStatus: make(map[string]StepStatus),
		state:      StatePending,
		now:        time.Now,
	}
}

// Record appends an event after validating it.
func (l *SagaLog) Record(step string, eventType EventType, detail string) error {
	isStepEvent := isStepEvent(eventType)
	if isStepEvent && step == "" {
		return fmt.Errorf("event %s requires a step name", eventType)
	}

	var newStepStatus StepStatus
	if isStepEvent {
		var err error
		newStepStatus, err = nextStepStatus(l.StepStatus(step), eventType)
		if err != nil {
			return fmt.Errorf("step %s: %w", step, err)
		}
	}
	undoFailed := l.undoFailed || eventType == EventUndoFailed
	newState, err := nextState(l.state, eventType, undoFailed)
	if err != nil {
		return err
	}

	if isStepEvent {
		l.stepStatus[step] = newStepStatus
	}
	l.undoFailed = undoFailed
	l.state = newState
	l.events = append(l.events, Event{Step: step, Type: eventType, At: l.now(), Detail: detail})
	return nil
}

// StepStatus returns the current status of a step.
func (l *SagaLog) StepStatus(step string) StepStatus {
	status, ok := l.stepStatus[step]
	if !ok {
		return StepNeverStarted
	}
	return status
}

// State returns the transaction state implied by the recorded events.
func (l *SagaLog) State() TransactionState {
	return l.state
}

// Events returns a copy of the recorded events.
func (l *SagaLog) Events() []Event {
	events := make([]Event, len(l.events))
	copy(events, l.events)
	return events
}

func isStepEvent(eventType EventType) bool {
	switch eventType {
	case EventStepStarted, EventStepSucceeded, EventStepFailed,
		EventUndoStarted, EventUndoFinished, EventUndoFailed:
		return true
	}
	return false
}
