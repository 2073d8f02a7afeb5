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

// Package journalmock provides mocks of the transaction journal.
package journalmock

import (
	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/conductor/internal/saga/journal"
)

// JournalInterfaceMock is a mock implementation of journal.JournalInterface.
type JournalInterfaceMock struct {
	mock.Mock
}

// NewJournalInterfaceMock creates a mock whose expectations are asserted when the test ends.
func NewJournalInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *JournalInterfaceMock {
	m := &JournalInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Write provides a mock function with the given fields: record
func (_m *JournalInterfaceMock) Write(record journal.Record) error {
	ret := _m.Called(record)
	return ret.Error(0)
}

// Get provides a mock function with the given fields: transactionID
func (_m *JournalInterfaceMock) Get(transactionID string) (*journal.Record, error) {
	ret := _m.Called(transactionID)

	var r0 *journal.Record
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*journal.Record)
	}
	return r0, ret.Error(1)
}
