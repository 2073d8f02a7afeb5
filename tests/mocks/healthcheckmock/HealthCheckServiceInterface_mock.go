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

// Package healthcheckmock provides mocks of the health check service.
package healthcheckmock

import (
	"github.com/stretchr/testify/mock"

	"github.com/asgardeo/conductor/internal/system/healthcheck/model"
)

// HealthCheckServiceInterfaceMock is a mock implementation of service.HealthCheckServiceInterface.
type HealthCheckServiceInterfaceMock struct {
	mock.Mock
}

// NewHealthCheckServiceInterfaceMock creates a mock whose expectations are asserted when the test ends.
func NewHealthCheckServiceInterfaceMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *HealthCheckServiceInterfaceMock {
	m := &HealthCheckServiceInterfaceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// CheckReadiness provides a mock function with no fields
func (_m *HealthCheckServiceInterfaceMock) CheckReadiness() model.ServerStatus {
	ret := _m.Called()
	return ret.Get(0).(model.ServerStatus)
}
