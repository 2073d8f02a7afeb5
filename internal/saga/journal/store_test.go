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
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/conductor/internal/saga/model"
	"github.com/asgardeo/conductor/internal/system/database/client"
	dbmodel "github.com/asgardeo/conductor/internal/system/database/model"
	"github.com/asgardeo/conductor/tests/mocks/databasemock"
)

type DBJournalTestSuite struct {
	suite.Suite
	mockDB     *sql.DB
	mock       sqlmock.Sqlmock
	dbProvider *databasemock.MockDBProvider
	journal    *DBJournal
}

func TestDBJournalSuite(t *testing.T) {
	suite.Run(t, new(DBJournalTestSuite))
}

func (suite *DBJournalTestSuite) SetupTest() {
	var err error
	suite.mockDB, suite.mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	suite.Require().NoError(err)

	dbClient := client.NewDBClient(dbmodel.NewDB(suite.mockDB), "postgres")
	suite.dbProvider = &databasemock.MockDBProvider{
		MockGetDBClient: func(string) (client.DBClientInterface, error) { return dbClient, nil },
	}
	suite.journal = NewDBJournal(suite.dbProvider)
}

func (suite *DBJournalTestSuite) TearDownTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *DBJournalTestSuite) failedRecord() Record {
	steps := []model.StepDescriptor{{Name: "create_order"}, {Name: "create_payment"}}
	sagaCtx, err := model.NewOrchestrationContext("create_order", model.CallerIdentity{UserID: "u1"}, steps)
	suite.Require().NoError(err)

	suite.Require().NoError(sagaCtx.Record("create_order", model.EventStepStarted, ""))
	suite.Require().NoError(sagaCtx.MarkCompleted("create_order", map[string]any{"id": "o1"}))
	suite.Require().NoError(sagaCtx.Record("create_order", model.EventStepSucceeded, ""))
	suite.Require().NoError(sagaCtx.Record("create_payment", model.EventStepStarted, ""))
	suite.Require().NoError(sagaCtx.Record("create_payment", model.EventStepFailed, "HTTP 502"))
	suite.Require().NoError(sagaCtx.Record("", model.EventFlowFailed, "step create_payment failed: HTTP 502"))

	return NewRecord(sagaCtx, "create_payment", "step create_payment failed: HTTP 502", time.Now())
}

func (suite *DBJournalTestSuite) TestNewRecord() {
	record := suite.failedRecord()

	suite.Equal("create_order", record.FlowName)
	suite.Equal("u1", record.UserID)
	suite.Equal(model.StateFailed, record.State)
	suite.Equal([]string{"create_order"}, record.CompletedSteps)
	suite.Equal([]string{}, record.RollbackSteps)
	suite.Equal("create_payment", record.FailedStep)
	suite.Equal(map[string]map[string]any{"create_order": {"id": "o1"}}, record.StepOutputs)
	suite.Len(record.Events, 5)
	suite.False(record.StartedAt.After(record.EndedAt))
}

func (suite *DBJournalTestSuite) TestWrite() {
	record := suite.failedRecord()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(QueryInsertTransaction.Query).
		WithArgs(record.TransactionID, "create_order", "u1", "failed", `["create_order"]`, `[]`,
			"create_payment", "step create_payment failed: HTTP 502", `{"create_order":{"id":"o1"}}`,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	for i, event := range record.Events {
		suite.mock.ExpectExec(QueryInsertTransactionEvent.Query).
			WithArgs(record.TransactionID, i, event.Step, string(event.Type), event.Detail, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	suite.mock.ExpectCommit()

	suite.NoError(suite.journal.Write(record))
	suite.Equal([]string{"runtime"}, suite.dbProvider.GetDBClientCalls)
}

func (suite *DBJournalTestSuite) TestWriteRollsBackOnFailure() {
	record := suite.failedRecord()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(QueryInsertTransaction.Query).WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectExec(QueryInsertTransactionEvent.Query).WillReturnError(errors.New("disk full"))
	suite.mock.ExpectRollback()

	err := suite.journal.Write(record)

	suite.ErrorContains(err, "failed to insert journal event: disk full")
}

func (suite *DBJournalTestSuite) TestWriteWithoutClient() {
	journal := NewDBJournal(&databasemock.MockDBProvider{
		MockGetDBClient: func(string) (client.DBClientInterface, error) { return nil, errors.New("no db") },
	})

	suite.ErrorContains(journal.Write(Record{}), "failed to get database client")
}

func (suite *DBJournalTestSuite) TestGet() {
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	ended := started.Add(1500 * time.Millisecond)

	suite.mock.ExpectQuery(QueryGetTransaction.Query).WithArgs("tx-1").WillReturnRows(
		sqlmock.NewRows([]string{"TRANSACTION_ID", "FLOW_NAME", "USER_ID", "STATE", "COMPLETED_STEPS",
			"ROLLBACK_STEPS", "FAILED_STEP", "ERROR_MESSAGE", "STEP_OUTPUTS", "STARTED_AT", "ENDED_AT"}).
			AddRow("tx-1", "create_order", "u1", "compensated", []byte(`["create_order"]`),
				`["create_order"]`, "create_payment", "step create_payment failed: HTTP 502",
				`{"create_order":{"id":"o1","totalAmount":42}}`, formatTime(started), ended))
	suite.mock.ExpectQuery(QueryGetTransactionEvents.Query).WithArgs("tx-1").WillReturnRows(
		sqlmock.NewRows([]string{"STEP_NAME", "EVENT_TYPE", "DETAIL", "OCCURRED_AT"}).
			AddRow("create_order", "step_started", "", formatTime(started)).
			AddRow(nil, "flow_failed", "boom", formatTime(ended)))

	record, err := suite.journal.Get("tx-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(record)
	suite.Equal(model.StateCompensated, record.State)
	suite.Equal([]string{"create_order"}, record.CompletedSteps)
	suite.Equal([]string{"create_order"}, record.RollbackSteps)
	suite.Equal(map[string]map[string]any{"create_order": {"id": "o1", "totalAmount": 42.0}}, record.StepOutputs)
	suite.True(started.Equal(record.StartedAt))
	suite.True(ended.Equal(record.EndedAt))
	suite.Equal([]model.Event{
		{Step: "create_order", Type: model.EventStepStarted, At: started},
		{Type: model.EventFlowFailed, Detail: "boom", At: ended},
	}, record.Events)
}

func (suite *DBJournalTestSuite) TestGetNotFound() {
	suite.mock.ExpectQuery(QueryGetTransaction.Query).WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"TRANSACTION_ID"}))

	record, err := suite.journal.Get("missing")

	suite.NoError(err)
	suite.Nil(record)
}

func (suite *DBJournalTestSuite) TestGetCorruptSteps() {
	suite.mock.ExpectQuery(QueryGetTransaction.Query).WithArgs("tx-1").WillReturnRows(
		sqlmock.NewRows([]string{"TRANSACTION_ID", "COMPLETED_STEPS"}).AddRow("tx-1", "not json"))

	record, err := suite.journal.Get("tx-1")

	suite.Nil(record)
	suite.ErrorContains(err, "failed to decode completed steps")
}

func (suite *DBJournalTestSuite) TestGetCorruptStepOutputs() {
	suite.mock.ExpectQuery(QueryGetTransaction.Query).WithArgs("tx-1").WillReturnRows(
		sqlmock.NewRows([]string{"TRANSACTION_ID", "COMPLETED_STEPS", "ROLLBACK_STEPS", "STEP_OUTPUTS"}).
			AddRow("tx-1", "[]", "[]", "{"))

	record, err := suite.journal.Get("tx-1")

	suite.Nil(record)
	suite.ErrorContains(err, "failed to decode step outputs")
}

func (suite *DBJournalTestSuite) TestTruncate() {
	suite.Equal("short", truncate("short", 16))

	long := strings.Repeat("é", 20)
	cut := truncate(long, 24)
	suite.LessOrEqual(len(cut), 24)
	suite.True(strings.HasSuffix(cut, truncatedMarker))
	suite.True(utf8.ValidString(cut))
}

func (suite *DBJournalTestSuite) TestNoopJournal() {
	var journal JournalInterface = NoopJournal{}

	suite.NoError(journal.Write(Record{TransactionID: "tx-1"}))
	record, err := journal.Get("tx-1")
	suite.NoError(err)
	suite.Nil(record)
}

func (suite *DBJournalTestSuite) TestSchemaQueries() {
	queries := SchemaQueries()

	suite.Require().Len(queries, 3)
	for _, query := range queries {
		for _, dbType := range []string{"postgres", "sqlite"} {
			suite.Contains(query.GetQuery(dbType), "IF NOT EXISTS", query.GetID())
		}
	}
	suite.Contains(queries[0].GetQuery("postgres"), "SERIAL PRIMARY KEY")
	suite.Contains(queries[0].GetQuery("sqlite"), "AUTOINCREMENT")
	suite.Contains(queries[1].GetQuery("sqlite"), "REFERENCES TRANSACTION_JOURNAL(TRANSACTION_ID)")
}
