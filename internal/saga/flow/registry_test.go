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

package flow

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/conductor/internal/saga/executor"
	"github.com/asgardeo/conductor/internal/saga/model"
)

type RegistryTestSuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewRegistry(executor.NewDefaultRuleRegistry())
}

func orderFlow() Definition {
	return Definition{
		Name:   "create_order",
		Inputs: []string{"restaurantId"},
		Steps: []model.StepDescriptor{
			{
				Name: "create_order", Service: "order", Endpoint: "/orders", Method: http.MethodPost,
				Payload: map[string]any{"customerId": "{{userId}}", "restaurantId": "{{restaurantId}}"},
				Compensation: &model.CompensationDescriptor{
					Endpoint: "/orders/{{orderId}}/cancel", Method: http.MethodPost,
				},
			},
			{
				Name: "create_payment", Service: "payment", Endpoint: "/payments", Method: http.MethodPost,
				Payload: map[string]any{"orderId": "{{orderId}}", "amount": "{{totalAmount}}"},
				Compensation: &model.CompensationDescriptor{
					Endpoint: "/payments/{{sessionId}}/cancel", Method: http.MethodPost,
				},
			},
			{
				Name: "send_order_notification", Service: "notification", Endpoint: "/notifications",
				Method:  http.MethodPost,
				Payload: map[string]any{"to": "{{customerEmail}}", "link": "{{paymentLink}}", "note": "{{note}}"},
				Inputs:  []string{"note"},
			},
		},
	}
}

func (suite *RegistryTestSuite) TestRegisterValidFlow() {
	suite.NoError(suite.registry.Register(orderFlow()))

	def, ok := suite.registry.Get("create_order")
	suite.True(ok)
	suite.Len(def.Steps, 3)
	suite.Equal([]string{"create_order"}, suite.registry.Names())
}

func (suite *RegistryTestSuite) TestRegisterTwice() {
	suite.NoError(suite.registry.Register(orderFlow()))
	suite.EqualError(suite.registry.Register(orderFlow()), "flow create_order is already registered")
}

func (suite *RegistryTestSuite) TestRegisterCopiesSteps() {
	def := orderFlow()
	suite.NoError(suite.registry.Register(def))
	def.Steps[0].Name = "mutated"

	stored, _ := suite.registry.Get("create_order")
	suite.Equal("create_order", stored.Steps[0].Name)
}

func (suite *RegistryTestSuite) TestRegisterInvalidFlows() {
	cases := []struct {
		name    string
		mutate  func(def *Definition)
		message string
	}{
		{"NoName", func(def *Definition) { def.Name = "" }, "flow name is required"},
		{"NoSteps", func(def *Definition) { def.Steps = nil }, "has no steps"},
		{"DuplicateStep", func(def *Definition) { def.Steps[1].Name = "create_order" }, "duplicate step name"},
		{"MissingService", func(def *Definition) { def.Steps[2].Service = "" }, "has no service"},
		{"UnsupportedMethod", func(def *Definition) { def.Steps[0].Method = "TRACE" }, "unsupported method"},
		{"UnsupportedCompensationMethod", func(def *Definition) {
			def.Steps[0].Compensation.Method = ""
		}, "compensation of step create_order uses unsupported method"},
		{"UnknownToken", func(def *Definition) {
			def.Steps[1].Payload = map[string]any{"coupon": "{{couponCode}}"}
		}, `step create_payment reads "couponCode" which is never written`},
		{"ReadsLaterOutput", func(def *Definition) {
			def.Steps[0].Endpoint = "/orders?session={{sessionId}}"
		}, "step create_order reads data written by later step create_payment"},
		{"ForwardReadsOwnOutput", func(def *Definition) {
			def.Steps[0].Endpoint = "/orders/{{orderId}}"
		}, `step create_order reads "orderId" before writing it`},
		{"CompensationCannotSeeInputs", func(def *Definition) {
			def.Steps[0].Compensation.Payload = map[string]any{"restaurantId": "{{restaurantId}}"}
		}, `step create_order reads "restaurantId" which is never written`},
		{"StepInputsAreNotShared", func(def *Definition) {
			def.Steps[1].Payload = map[string]any{"note": "{{note}}"}
		}, `step create_payment reads "note" which is never written`},
		{"CyclicDependency", func(def *Definition) {
			def.Steps[0].Payload = map[string]any{"session": "{{sessionId}}"}
			def.Steps[1].Payload = map[string]any{"order": "{{orderId}}"}
			def.Steps[0].Compensation = nil
		}, "cyclic data dependency"},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			def := orderFlow()
			tc.mutate(&def)

			err := NewRegistry(executor.NewDefaultRuleRegistry()).Register(def)

			suite.Error(err)
			suite.Contains(err.Error(), tc.message)
		})
	}
}

func (suite *RegistryTestSuite) TestGenericStepsDeclareWrites() {
	def := Definition{
		Name: "accept_delivery",
		Steps: []model.StepDescriptor{
			{Name: "update_order_status", Service: "order", Endpoint: "/orders/1/status", Method: http.MethodPatch,
				Writes: []string{"status"}},
			{Name: "notify", Service: "notification", Endpoint: "/notifications", Method: http.MethodPost,
				Payload: map[string]any{"a": "{{status}}", "b": "{{update_order_status_status}}"}},
		},
	}

	suite.NoError(suite.registry.Register(def))
}
