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

package model

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type OrchestrationContextTestSuite struct {
	suite.Suite
	steps []StepDescriptor
}

func TestOrchestrationContextSuite(t *testing.T) {
	suite.Run(t, new(OrchestrationContextTestSuite))
}

func (suite *OrchestrationContextTestSuite) SetupTest() {
	suite.steps = []StepDescriptor{
		{Name: "create_order", Service: "order", Endpoint: "/orders", Method: "POST",
			Compensation: &CompensationDescriptor{Endpoint: "/orders/{{orderId}}/status", Method: "PATCH"}},
		{Name: "create_payment", Service: "payment", Endpoint: "/payments", Method: "POST"},
	}
}

func (suite *OrchestrationContextTestSuite) newContext() *OrchestrationContext {
	ctx, err := NewOrchestrationContext("create_order", CallerIdentity{UserID: "u1", Role: "customer",
		Email: "u1@example.com"}, suite.steps)
	suite.Require().NoError(err)
	return ctx
}

func (suite *OrchestrationContextTestSuite) TestNewContext() {
	ctx := suite.newContext()

	suite.NotEmpty(ctx.TransactionID())
	suite.Equal("create_order", ctx.FlowName())
	suite.Empty(ctx.CompletedSteps())
	suite.Empty(ctx.RollbackSteps())
	suite.Empty(ctx.Data())
	suite.Equal(StatePending, ctx.State())
	suite.Len(ctx.Steps(), 2)

	other := suite.newContext()
	suite.NotEqual(ctx.TransactionID(), other.TransactionID())
}

func (suite *OrchestrationContextTestSuite) TestNewContextRejectsBadSteps() {
	_, err := NewOrchestrationContext("f", CallerIdentity{}, []StepDescriptor{{Name: "a"}, {Name: "a"}})
	suite.ErrorContains(err, "duplicate step name")

	_, err = NewOrchestrationContext("f", CallerIdentity{}, []StepDescriptor{{}})
	suite.ErrorContains(err, "has no name")
}

func (suite *OrchestrationContextTestSuite) TestFixedData() {
	ctx := suite.newContext()

	fixed := ctx.FixedData()
	suite.Equal("u1", fixed[KeyUserID])
	suite.Equal("u1@example.com", fixed[KeyUserEmail])
	suite.Equal("customer", fixed[KeyUserRole])
	suite.Equal(ctx.TransactionID(), fixed[KeyTransactionID])
}

func (suite *OrchestrationContextTestSuite) TestMarkCompleted() {
	ctx := suite.newContext()

	suite.NoError(ctx.MarkCompleted("create_order", map[string]any{"id": "o1"}))
	suite.ErrorContains(ctx.MarkCompleted("create_order", nil), "already completed")
	suite.ErrorContains(ctx.MarkCompleted("unknown", nil), "not part of flow")
	suite.NoError(ctx.MarkCompleted("create_payment", nil))

	suite.Equal([]string{"create_order", "create_payment"}, ctx.CompletedSteps())
	outputs := ctx.StepOutputs()
	suite.Len(outputs, 2)
	suite.Equal("o1", outputs["create_order"]["id"])
}

func (suite *OrchestrationContextTestSuite) TestMergeNeverRemoves() {
	ctx := suite.newContext()

	ctx.Merge(map[string]any{"orderId": "o1", "totalAmount": 42.0})
	ctx.Merge(map[string]any{"totalAmount": 50.0})

	suite.Equal(map[string]any{"orderId": "o1", "totalAmount": 50.0}, ctx.Data())
	v, ok := ctx.Value("orderId")
	suite.True(ok)
	suite.Equal("o1", v)

	copied := ctx.Data()
	delete(copied, "orderId")
	_, ok = ctx.Value("orderId")
	suite.True(ok)
}

func (suite *OrchestrationContextTestSuite) TestMarkRolledBack() {
	ctx := suite.newContext()

	suite.ErrorContains(ctx.MarkRolledBack("create_order"), "has not completed")
	suite.Require().NoError(ctx.MarkCompleted("create_order", nil))
	suite.NoError(ctx.MarkRolledBack("create_order"))
	suite.Error(ctx.MarkRolledBack("create_order"))
	suite.Equal([]string{"create_order"}, ctx.RollbackSteps())
}

func (suite *OrchestrationContextTestSuite) TestStepLookup() {
	ctx := suite.newContext()

	step, ok := ctx.Step("create_order")
	suite.True(ok)
	suite.True(step.IsCompensable())

	step, ok = ctx.Step("create_payment")
	suite.True(ok)
	suite.False(step.IsCompensable())

	_, ok = ctx.Step("missing")
	suite.False(ok)
}

func (suite *OrchestrationContextTestSuite) TestStepsAreCopied() {
	ctx := suite.newContext()
	suite.steps[0].Name = "mutated"

	_, ok := ctx.Step("create_order")
	suite.True(ok)
	suite.Equal("create_order", ctx.Steps()[0].Name)
}

func (suite *OrchestrationContextTestSuite) TestErrors() {
	err := &StepError{StepName: "create_payment", Reason: "HTTP 500", Kind: FailureHTTPStatus, Attempts: 3}
	suite.Equal("step create_payment failed: HTTP 500", err.Error())

	suite.Equal("order is not paid", (&FlowError{Reason: "order is not paid"}).Error())
}
