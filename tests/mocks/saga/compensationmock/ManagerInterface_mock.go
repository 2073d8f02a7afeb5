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

// Package compensationmock provides mocks of the compensation manager.
package compensationmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/conductor/internal/saga/model"
)

// ManagerInterfaceMock is a mock implementation of compensation.ManagerInterface.
type ManagerInterfaceMock struct {
	mock.Mock
}

// NewManagerInterfaceMock creates a mock whose expectations are asserted when the test ends.
func NewManagerInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *ManagerInterfaceMock {
	m := &ManagerInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Compensate provides a mock function with the given fields: ctx, sagaCtx, failedStep
func (_m *ManagerInterfaceMock) Compensate(ctx context.Context, sagaCtx *model.OrchestrationContext,
	failedStep string) {
	_m.Called(ctx, sagaCtx, failedStep)
}
