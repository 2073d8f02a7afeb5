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

// Package flowmock provides mocks of the saga orchestrator.
package flowmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/conductor/internal/saga/flow"
	"github.com/asgardeo/conductor/internal/saga/model"
)

// OrchestratorInterfaceMock is a mock implementation of flow.OrchestratorInterface.
type OrchestratorInterfaceMock struct {
	mock.Mock
}

// NewOrchestratorInterfaceMock creates a mock whose expectations are asserted when the test ends.
func NewOrchestratorInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrchestratorInterfaceMock {
	m := &OrchestratorInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Run provides a mock function with the given fields: ctx, flowName, identity, body
func (_m *OrchestratorInterfaceMock) Run(ctx context.Context, flowName string, identity model.CallerIdentity,
	body flow.Body) model.FlowResult {
	ret := _m.Called(ctx, flowName, identity, body)

	if rf, ok := ret.Get(0).(func(context.Context, string, model.CallerIdentity, flow.Body) model.FlowResult); ok {
		return rf(ctx, flowName, identity, body)
	}
	return ret.Get(0).(model.FlowResult)
}
