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

// Package executormock provides mocks of the step executor.
package executormock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/conductor/internal/saga/model"
)

// StepExecutorInterfaceMock is a mock implementation of executor.StepExecutorInterface.
type StepExecutorInterfaceMock struct {
	mock.Mock
}

// NewStepExecutorInterfaceMock creates a mock whose expectations are asserted when the test ends.
func NewStepExecutorInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *StepExecutorInterfaceMock {
	m := &StepExecutorInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ExecuteStep provides a mock function with the given fields: ctx, step, sagaCtx, extra
func (_m *StepExecutorInterfaceMock) ExecuteStep(ctx context.Context, step model.StepDescriptor,
	sagaCtx *model.OrchestrationContext, extra map[string]any) (map[string]any, error) {
	ret := _m.Called(ctx, step, sagaCtx, extra)

	if rf, ok := ret.Get(0).(func(context.Context, model.StepDescriptor, *model.OrchestrationContext,
		map[string]any) (map[string]any, error)); ok {
		return rf(ctx, step, sagaCtx, extra)
	}

	var r0 map[string]any
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]any)
	}
	return r0, ret.Error(1)
}
