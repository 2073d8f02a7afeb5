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

// Package journal records the terminal outcome of every transaction for post-mortem lookups.
// Records are written once a transaction is over and are never used to resume one.
package journal

import (
	"time"

	"github.com/asgardeo/conductor/internal/saga/model"
)

// Record is the journal entry of one finished transaction.
type Record struct {
	TransactionID  string                    `json:"transactionId"`
	FlowName       string                    `json:"flow"`
	UserID         string                    `json:"userId"`
	State          model.TransactionState    `json:"state"`
	CompletedSteps []string                  `json:"completedSteps"`
	RollbackSteps  []string                  `json:"rollbackSteps"`
	FailedStep     string                    `json:"failedStep,omitempty"`
	Error          string                    `json:"error,omitempty"`
	StartedAt      time.Time                 `json:"startedAt"`
	EndedAt        time.Time                 `json:"endedAt"`
	StepOutputs    map[string]map[string]any `json:"stepOutputs"`
	Events         []model.Event             `json:"events"`
}

// NewRecord captures the final state of a transaction.
func NewRecord(sagaCtx *model.OrchestrationContext, failedStep, reason string, endedAt time.Time) Record {
	completed := sagaCtx.CompletedSteps()
	if completed == nil {
		completed = []string{}
	}
	rolledBack := sagaCtx.RollbackSteps()
	if rolledBack == nil {
		rolledBack = []string{}
	}
	return Record{
		TransactionID:  sagaCtx.TransactionID(),
		FlowName:       sagaCtx.FlowName(),
		UserID:         sagaCtx.Identity().UserID,
		State:          sagaCtx.State(),
		CompletedSteps: completed,
		RollbackSteps:  rolledBack,
		FailedStep:     failedStep,
		Error:          reason,
		StartedAt:      sagaCtx.StartedAt(),
		EndedAt:        endedAt,
		StepOutputs:    sagaCtx.StepOutputs(),
		Events:         sagaCtx.Events(),
	}
}

// JournalInterface stores and reads transaction records.
type JournalInterface interface {
	// Write stores the record of a finished transaction.
	Write(record Record) error
	// Get returns the record of a transaction, or nil when none exists.
	Get(transactionID string) (*Record, error)
}

// NoopJournal discards every record.
type NoopJournal struct{}

// Write discards the record.
func (NoopJournal) Write(Record) error { return nil }

// Get never finds a record.
func (NoopJournal) Get(string) (*Record, error) { return nil, nil }
