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

package utils

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// transactionIDColumnWidth is the width of the TRANSACTION_ID journal column.
const transactionIDColumnWidth = 36

type UUIDUtilTestSuite struct {
	suite.Suite
}

func TestUUIDUtilSuite(t *testing.T) {
	suite.Run(t, new(UUIDUtilTestSuite))
}

func (suite *UUIDUtilTestSuite) TestGenerateUUIDIsRandomVersion4() {
	id := GenerateUUID()

	parsed, err := uuid.Parse(id)
	suite.Require().NoError(err)
	suite.Equal(uuid.Version(4), parsed.Version())
	suite.Equal(uuid.RFC4122, parsed.Variant())
	suite.Equal(parsed.String(), id, "transaction IDs use the canonical lower case form")
}

func (suite *UUIDUtilTestSuite) TestGenerateUUIDFitsJournalColumn() {
	suite.Len(GenerateUUID(), transactionIDColumnWidth)
}

func (suite *UUIDUtilTestSuite) TestGenerateUUIDUniqueAcrossGoroutines() {
	const workers, perWorker = 8, 250

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for range perWorker {
				local = append(local, GenerateUUID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()

	suite.Len(seen, workers*perWorker)
}
