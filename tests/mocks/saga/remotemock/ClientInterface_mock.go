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

// Package remotemock provides mocks of the remote call client.
package remotemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/conductor/internal/saga/model"
	"github.com/asgardeo/conductor/internal/saga/remote"
)

// ClientInterfaceMock is a mock implementation of remote.ClientInterface.
type ClientInterfaceMock struct {
	mock.Mock
}

// NewClientInterfaceMock creates a mock whose expectations are asserted when the test ends.
func NewClientInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *ClientInterfaceMock {
	m := &ClientInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Call provides a mock function with the given fields: ctx, req
func (_m *ClientInterfaceMock) Call(ctx context.Context, req remote.CallRequest) model.CallResult {
	ret := _m.Called(ctx, req)

	if rf, ok := ret.Get(0).(func(context.Context, remote.CallRequest) model.CallResult); ok {
		return rf(ctx, req)
	}
	return ret.Get(0).(model.CallResult)
}

// CallWithRetry provides a mock function with the given fields: ctx, req, maxAttempts
func (_m *ClientInterfaceMock) CallWithRetry(ctx context.Context, req remote.CallRequest,
	maxAttempts int) (model.CallResult, int) {
	ret := _m.Called(ctx, req, maxAttempts)

	if rf, ok := ret.Get(0).(func(context.Context, remote.CallRequest, int) (model.CallResult, int)); ok {
		return rf(ctx, req, maxAttempts)
	}
	return ret.Get(0).(model.CallResult), ret.Int(1)
}
