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

import "github.com/asgardeo/conductor/internal/system/database/model"

var (
	// QueryInsertTransaction is the query to store a finished transaction.
	QueryInsertTransaction = model.DBQuery{
		ID: "SGQ-JOURNAL-01",
		Query: "INSERT INTO TRANSACTION_JOURNAL (TRANSACTION_ID, FLOW_NAME, USER_ID, STATE, " +
			"COMPLETED_STEPS, ROLLBACK_STEPS, FAILED_STEP, ERROR_MESSAGE, STEP_OUTPUTS, STARTED_AT, ENDED_AT) " +
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
	}

	// QueryInsertTransactionEvent is the query to store one event of a finished transaction.
	QueryInsertTransactionEvent = model.DBQuery{
		ID: "SGQ-JOURNAL-02",
		Query: "INSERT INTO TRANSACTION_EVENT (TRANSACTION_ID, SEQ, STEP_NAME, EVENT_TYPE, DETAIL, " +
			"OCCURRED_AT) VALUES ($1, $2, $3, $4, $5, $6)",
	}

	// QueryGetTransaction is the query to read a finished transaction.
	QueryGetTransaction = model.DBQuery{
		ID: "SGQ-JOURNAL-03",
		Query: "SELECT TRANSACTION_ID, FLOW_NAME, USER_ID, STATE, COMPLETED_STEPS, ROLLBACK_STEPS, " +
			"FAILED_STEP, ERROR_MESSAGE, STEP_OUTPUTS, STARTED_AT, ENDED_AT FROM TRANSACTION_JOURNAL " +
			"WHERE TRANSACTION_ID = $1",
	}

	// QueryGetTransactionEvents is the query to read the events of a finished transaction in order.
	QueryGetTransactionEvents = model.DBQuery{
		ID: "SGQ-JOURNAL-04",
		Query: "SELECT STEP_NAME, EVENT_TYPE, DETAIL, OCCURRED_AT FROM TRANSACTION_EVENT " +
			"WHERE TRANSACTION_ID = $1 ORDER BY SEQ",
	}
)

var (
	queryCreateJournalTable = model.DBQuery{
		ID: "SGQ-JOURNAL-SCHEMA-01",
		SQLiteQuery: "CREATE TABLE IF NOT EXISTS TRANSACTION_JOURNAL (ID INTEGER PRIMARY KEY AUTOINCREMENT, " +
			journalColumns,
		PostgresQuery: "CREATE TABLE IF NOT EXISTS TRANSACTION_JOURNAL (ID SERIAL PRIMARY KEY, " + journalColumns,
	}

	queryCreateEventTable = model.DBQuery{
		ID: "SGQ-JOURNAL-SCHEMA-02",
		SQLiteQuery: "CREATE TABLE IF NOT EXISTS TRANSACTION_EVENT (ID INTEGER PRIMARY KEY AUTOINCREMENT, " +
			eventColumns,
		PostgresQuery: "CREATE TABLE IF NOT EXISTS TRANSACTION_EVENT (ID SERIAL PRIMARY KEY, " + eventColumns,
	}

	queryCreateUserIndex = model.DBQuery{
		ID:    "SGQ-JOURNAL-SCHEMA-03",
		Query: "CREATE INDEX IF NOT EXISTS IDX_TRANSACTION_JOURNAL_USER ON TRANSACTION_JOURNAL (USER_ID)",
	}
)

const (
	journalColumns = "TRANSACTION_ID VARCHAR(36) UNIQUE NOT NULL, FLOW_NAME VARCHAR(100) NOT NULL, " +
		"USER_ID VARCHAR(255), STATE VARCHAR(50) NOT NULL, COMPLETED_STEPS TEXT, ROLLBACK_STEPS TEXT, " +
		"FAILED_STEP VARCHAR(100), ERROR_MESSAGE TEXT, STEP_OUTPUTS TEXT, STARTED_AT VARCHAR(40) NOT NULL, " +
		"ENDED_AT VARCHAR(40) NOT NULL)"
	eventColumns = "TRANSACTION_ID VARCHAR(36) NOT NULL, SEQ INTEGER NOT NULL, STEP_NAME VARCHAR(100), " +
		"EVENT_TYPE VARCHAR(50) NOT NULL, DETAIL TEXT, OCCURRED_AT VARCHAR(40) NOT NULL, " +
		"UNIQUE (TRANSACTION_ID, SEQ), FOREIGN KEY (TRANSACTION_ID) " +
		"REFERENCES TRANSACTION_JOURNAL(TRANSACTION_ID) ON DELETE CASCADE)"
)

// SchemaQueries returns the idempotent statements that create the journal tables.
func SchemaQueries() []model.DBQuery {
	return []model.DBQuery{queryCreateJournalTable, queryCreateEventTable, queryCreateUserIndex}
}
