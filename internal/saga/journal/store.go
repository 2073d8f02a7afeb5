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

package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asgardeo/conductor/internal/saga/model"
	"github.com/asgardeo/conductor/internal/system/constants"
	"github.com/asgardeo/conductor/internal/system/database/provider"
	"github.com/asgardeo/conductor/internal/system/log"
)

const loggerComponentName = "TransactionJournal"

const (
	// maxErrorLength bounds the stored error message.
	maxErrorLength  = 1024
	truncatedMarker = "... [TRUNCATED]"
)

// DBJournal stores transaction records in the runtime database.
type DBJournal struct {
	dbProvider provider.DBProviderInterface
}

// NewDBJournal creates a journal backed by the runtime database.
func NewDBJournal(dbProvider provider.DBProviderInterface) *DBJournal {
	return &DBJournal{dbProvider: dbProvider}
}

// Write stores the record and its events in one database transaction.
func (j *DBJournal) Write(record Record) (err error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyTransactionID, record.TransactionID))

	dbClient, err := j.dbProvider.GetDBClient(constants.RuntimeDBName)
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return fmt.Errorf("failed to get database client: %w", err)
	}

	completed, err := json.Marshal(record.CompletedSteps)
	if err != nil {
		return fmt.Errorf("failed to encode completed steps: %w", err)
	}
	rolledBack, err := json.Marshal(record.RollbackSteps)
	if err != nil {
		return fmt.Errorf("failed to encode rollback steps: %w", err)
	}
	outputs, err := json.Marshal(record.StepOutputs)
	if err != nil {
		return fmt.Errorf("failed to encode step outputs: %w", err)
	}

	tx, err := dbClient.BeginTx()
	if err != nil {
		logger.Error("Failed to begin transaction", log.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("failed to roll back: %w", rbErr))
			}
		}
	}()

	_, err = tx.Exec(QueryInsertTransaction, record.TransactionID, record.FlowName, record.UserID,
		string(record.State), string(completed), string(rolledBack), record.FailedStep,
		truncate(record.Error, maxErrorLength), string(outputs), formatTime(record.StartedAt),
		formatTime(record.EndedAt))
	if err != nil {
		logger.Error("Failed to insert journal record", log.Error(err))
		return fmt.Errorf("failed to insert journal record: %w", err)
	}

	for i, event := range record.Events {
		_, err = tx.Exec(QueryInsertTransactionEvent, record.TransactionID, i, event.Step, string(event.Type),
			truncate(event.Detail, maxErrorLength), formatTime(event.At))
		if err != nil {
			logger.Error("Failed to insert journal event", log.Error(err))
			return fmt.Errorf("failed to insert journal event: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.Error("Failed to commit journal record", log.Error(err))
		return fmt.Errorf("failed to commit journal record: %w", err)
	}

	logger.Debug("Journal record stored", log.String("state", string(record.State)),
		log.Int("events", len(record.Events)))
	return nil
}

// Get reads the record of a transaction.
func (j *DBJournal) Get(transactionID string) (*Record, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyTransactionID, transactionID))

	dbClient, err := j.dbProvider.GetDBClient(constants.RuntimeDBName)
	if err != nil {
		logger.Error("Failed to get database client", log.Error(err))
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryGetTransaction, transactionID)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	if len(results) == 0 {
		logger.Debug("Journal record not found")
		return nil, nil
	}
	if len(results) != 1 {
		logger.Error("Unexpected number of results", log.Int("resultCount", len(results)))
		return nil, fmt.Errorf("unexpected number of results: %d", len(results))
	}

	record, err := buildRecordFromResultRow(results[0])
	if err != nil {
		logger.Error("Failed to read journal record", log.Error(err))
		return nil, err
	}

	eventRows, err := dbClient.Query(QueryGetTransactionEvents, transactionID)
	if err != nil {
		logger.Error("Failed to execute query", log.Error(err))
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	record.Events = make([]model.Event, 0, len(eventRows))
	for _, row := range eventRows {
		at, err := parseTime(row["occurred_at"])
		if err != nil {
			return nil, err
		}
		record.Events = append(record.Events, model.Event{
			Step:   columnString(row["step_name"]),
			Type:   model.EventType(columnString(row["event_type"])),
			Detail: columnString(row["detail"]),
			At:     at,
		})
	}

	return record, nil
}

func buildRecordFromResultRow(row map[string]interface{}) (*Record, error) {
	record := &Record{
		TransactionID: columnString(row["transaction_id"]),
		FlowName:      columnString(row["flow_name"]),
		UserID:        columnString(row["user_id"]),
		State:         model.TransactionState(columnString(row["state"])),
		FailedStep:    columnString(row["failed_step"]),
		Error:         columnString(row["error_message"]),
	}

	if err := json.Unmarshal([]byte(columnString(row["completed_steps"])), &record.CompletedSteps); err != nil {
		return nil, fmt.Errorf("failed to decode completed steps: %w", err)
	}
	if err := json.Unmarshal([]byte(columnString(row["rollback_steps"])), &record.RollbackSteps); err != nil {
		return nil, fmt.Errorf("failed to decode rollback steps: %w", err)
	}
	record.StepOutputs = map[string]map[string]any{}
	if outputs := columnString(row["step_outputs"]); outputs != "" {
		if err := json.Unmarshal([]byte(outputs), &record.StepOutputs); err != nil {
			return nil, fmt.Errorf("failed to decode step outputs: %w", err)
		}
	}

	var err error
	if record.StartedAt, err = parseTime(row["started_at"]); err != nil {
		return nil, err
	}
	if record.EndedAt, err = parseTime(row["ended_at"]); err != nil {
		return nil, err
	}
	return record, nil
}

// columnString reads a text column. Drivers return either string or []byte for text values.
func columnString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v interface{}) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, columnString(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return t, nil
}

// truncate shortens s to at most max bytes and marks the cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.ToValidUTF8(s[:max-len(truncatedMarker)], "") + truncatedMarker
}
