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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/conductor/internal/saga/compensation"
	sagaconst "github.com/asgardeo/conductor/internal/saga/constants"
	"github.com/asgardeo/conductor/internal/saga/executor"
	"github.com/asgardeo/conductor/internal/saga/journal"
	"github.com/asgardeo/conductor/internal/saga/model"
	"github.com/asgardeo/conductor/internal/saga/remote"
	"github.com/asgardeo/conductor/internal/system/config"
	syshttp "github.com/asgardeo/conductor/internal/system/http"
	"github.com/asgardeo/conductor/tests/mocks/saga/compensationmock"
	"github.com/asgardeo/conductor/tests/mocks/saga/executormock"
	"github.com/asgardeo/conductor/tests/mocks/saga/journalmock"
)

var identity = model.CallerIdentity{UserID: "u1", Role: "customer", Email: "u1@example.com"}

// orderBody runs the three steps of the order flow.
func orderBody(tx *Transaction) error {
	if _, err := tx.Execute("create_order", map[string]any{"restaurantId": "r1"}); err != nil {
		return err
	}
	if _, err := tx.Execute("create_payment", nil); err != nil {
		return err
	}
	_, err := tx.Execute("send_order_notification", map[string]any{"note": "thanks"})
	return err
}

type OrchestratorTestSuite struct {
	suite.Suite
	executor    *executormock.StepExecutorInterfaceMock
	compensator *compensationmock.ManagerInterfaceMock
	journal     *journalmock.JournalInterfaceMock
	orch        *Orchestrator
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (suite *OrchestratorTestSuite) SetupTest() {
	registry := NewRegistry(executor.NewDefaultRuleRegistry())
	suite.Require().NoError(registry.Register(orderFlow()))

	suite.executor = executormock.NewStepExecutorInterfaceMock(suite.T())
	suite.compensator = compensationmock.NewManagerInterfaceMock(suite.T())
	suite.journal = journalmock.NewJournalInterfaceMock(suite.T())
	suite.orch = NewOrchestrator(registry, suite.executor, suite.compensator, suite.journal)
}

func stepNamed(name string) any {
	return mock.MatchedBy(func(step model.StepDescriptor) bool { return step.Name == name })
}

// completeStep mimics a successful executor call on the context.
func completeStep(output map[string]any) func(context.Context, model.StepDescriptor,
	*model.OrchestrationContext, map[string]any) (map[string]any, error) {
	return func(_ context.Context, step model.StepDescriptor, sagaCtx *model.OrchestrationContext,
		_ map[string]any) (map[string]any, error) {
		if err := sagaCtx.Record(step.Name, model.EventStepStarted, ""); err != nil {
			return nil, err
		}
		if err := sagaCtx.MarkCompleted(step.Name, output); err != nil {
			return nil, err
		}
		sagaCtx.Merge(output)
		return output, sagaCtx.Record(step.Name, model.EventStepSucceeded, "")
	}
}

func (suite *OrchestratorTestSuite) TestRunSuccess() {
	suite.executor.On("ExecuteStep", mock.Anything, stepNamed("create_order"), mock.Anything,
		map[string]any{"restaurantId": "r1"}).Return(completeStep(map[string]any{"orderId": "o1"}), nil).Once()
	suite.executor.On("ExecuteStep", mock.Anything, stepNamed("create_payment"), mock.Anything,
		map[string]any(nil)).Return(completeStep(map[string]any{"sessionId": "s1"}), nil).Once()
	suite.executor.On("ExecuteStep", mock.Anything, stepNamed("send_order_notification"), mock.Anything,
		mock.Anything).Return(completeStep(map[string]any{}), nil).Once()
	suite.journal.On("Write", mock.MatchedBy(func(record journal.Record) bool {
		return record.State == model.StateSucceeded && len(record.CompletedSteps) == 3 && record.Error == "" &&
			record.StepOutputs["create_payment"]["sessionId"] == "s1"
	})).Return(nil).Once()

	result := suite.orch.Run(context.Background(), "create_order", identity, orderBody)

	suite.True(result.Success)
	suite.NotEmpty(result.TransactionID)
	suite.Equal(map[string]any{"orderId": "o1", "sessionId": "s1"}, result.Data)
	suite.Empty(result.Error)
	suite.compensator.AssertNotCalled(suite.T(), "Compensate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrchestratorTestSuite) TestRunStepFailureCompensatesOnce() {
	suite.executor.On("ExecuteStep", mock.Anything, stepNamed("create_order"), mock.Anything, mock.Anything).
		Return(completeStep(map[string]any{"orderId": "o1"}), nil).Once()
	suite.executor.On("ExecuteStep", mock.Anything, stepNamed("create_payment"), mock.Anything, mock.Anything).
		Return(nil, &model.StepError{StepName: "create_payment", Reason: "HTTP 502", Kind: model.FailureHTTPStatus}).
		Once()
	suite.compensator.On("Compensate", mock.Anything, mock.MatchedBy(func(sagaCtx *model.OrchestrationContext) bool {
		return sagaCtx.State() == model.StateFailed
	}), "create_payment").Once()
	suite.journal.On("Write", mock.MatchedBy(func(record journal.Record) bool {
		return record.FailedStep == "create_payment" && record.Error == "step create_payment failed: HTTP 502"
	})).Return(nil).Once()

	result := suite.orch.Run(context.Background(), "create_order", identity, orderBody)

	suite.False(result.Success)
	suite.Nil(result.Data)
	suite.NotEmpty(result.TransactionID)
	suite.Equal("step create_payment failed: HTTP 502", result.Error)
}

func (suite *OrchestratorTestSuite) TestRunBusinessRuleFailure() {
	suite.compensator.On("Compensate", mock.Anything, mock.Anything, "").Once()
	suite.journal.On("Write", mock.Anything).Return(nil).Once()

	result := suite.orch.Run(context.Background(), "create_order", identity, func(tx *Transaction) error {
		return tx.Fail("order is not refundable")
	})

	suite.False(result.Success)
	suite.Equal("order is not refundable", result.Error)
}

func (suite *OrchestratorTestSuite) TestRunPanicIsReportedGenerically() {
	suite.compensator.On("Compensate", mock.Anything, mock.Anything, "").Once()
	suite.journal.On("Write", mock.Anything).Return(nil).Once()

	var result model.FlowResult
	suite.NotPanics(func() {
		result = suite.orch.Run(context.Background(), "create_order", identity, func(tx *Transaction) error {
			var data map[string]any
			data["boom"] = true
			return nil
		})
	})

	suite.False(result.Success)
	suite.Equal(sagaconst.GenericInternalErrorMessage, result.Error)
	suite.NotEmpty(result.TransactionID)
}

func (suite *OrchestratorTestSuite) TestRunUnexpectedErrorIsReportedGenerically() {
	suite.compensator.On("Compensate", mock.Anything, mock.Anything, "").Once()
	suite.journal.On("Write", mock.Anything).Return(errors.New("journal down")).Once()

	result := suite.orch.Run(context.Background(), "create_order", identity, func(tx *Transaction) error {
		return errors.New("decoder state corrupted")
	})

	suite.False(result.Success)
	suite.Equal(sagaconst.GenericInternalErrorMessage, result.Error)
}

func (suite *OrchestratorTestSuite) TestRunWrappedStepError() {
	suite.compensator.On("Compensate", mock.Anything, mock.Anything, "create_order").Once()
	suite.journal.On("Write", mock.Anything).Return(nil).Once()

	result := suite.orch.Run(context.Background(), "create_order", identity, func(tx *Transaction) error {
		return errors.Join(errors.New("while ordering"),
			&model.StepError{StepName: "create_order", Reason: "HTTP 500"})
	})

	suite.Equal("step create_order failed: HTTP 500", result.Error)
}

func (suite *OrchestratorTestSuite) TestRunUnknownStep() {
	suite.compensator.On("Compensate", mock.Anything, mock.Anything, "refund").Once()
	suite.journal.On("Write", mock.Anything).Return(nil).Once()

	result := suite.orch.Run(context.Background(), "create_order", identity, func(tx *Transaction) error {
		_, err := tx.Execute("refund", nil)
		return err
	})

	suite.Equal("step refund failed: step is not part of flow create_order", result.Error)
}

func (suite *OrchestratorTestSuite) TestRunUnregisteredFlow() {
	result := suite.orch.Run(context.Background(), "missing", identity, func(*Transaction) error {
		suite.Fail("body must not run")
		return nil
	})

	suite.False(result.Success)
	suite.Equal(sagaconst.GenericInternalErrorMessage, result.Error)
	suite.NotEmpty(result.TransactionID)
}

// SagaScenarioTestSuite runs the order flow end to end against fake downstream services.
type SagaScenarioTestSuite struct {
	suite.Suite
	orderServer   *httptest.Server
	paymentServer *httptest.Server
	notifyServer  *httptest.Server
	paymentFails  bool
	paymentCalls  atomic.Int32
	cancelCalls   atomic.Int32
	orch          *Orchestrator
}

func TestSagaScenarioSuite(t *testing.T) {
	suite.Run(t, new(SagaScenarioTestSuite))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (suite *SagaScenarioTestSuite) SetupTest() {
	suite.paymentFails = false
	suite.paymentCalls.Store(0)
	suite.cancelCalls.Store(0)

	orderMux := http.NewServeMux()
	orderMux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"success": true,
			"data": map[string]any{"id": "o1", "totalAmount": 42}})
	})
	orderMux.HandleFunc("POST /orders/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		suite.cancelCalls.Add(1)
		suite.Equal("o1", r.PathValue("id"))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	suite.orderServer = httptest.NewServer(orderMux)

	suite.paymentServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.paymentCalls.Add(1)
		if suite.paymentFails {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"success": false, "error": "gateway down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true,
			"data": map[string]any{"sessionId": "s1", "paymentUrl": "http://pay/s1"}})
	}))
	suite.notifyServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))

	router := remote.NewServiceRouter(map[string]config.ServiceConfig{
		"order":        {BaseURL: suite.orderServer.URL},
		"payment":      {BaseURL: suite.paymentServer.URL},
		"notification": {BaseURL: suite.notifyServer.URL},
	})
	cfg := config.OrchestratorConfig{TimeoutMs: 2000, MaxRetryAttempts: 3, CompensationEnabled: true}
	client := remote.NewClient(syshttp.NewHTTPClient(), router, remote.Backoff{Base: time.Millisecond,
		Cap: 2 * time.Millisecond})

	registry := NewRegistry(executor.NewDefaultRuleRegistry())
	suite.Require().NoError(registry.Register(orderFlow()))
	suite.orch = NewOrchestrator(registry, executor.NewStepExecutor(client, executor.NewDefaultRuleRegistry(), cfg),
		compensation.NewManager(client, cfg), journal.NoopJournal{})
}

func (suite *SagaScenarioTestSuite) TearDownTest() {
	suite.orderServer.Close()
	suite.paymentServer.Close()
	suite.notifyServer.Close()
}

func (suite *SagaScenarioTestSuite) TestOrderCreated() {
	result := suite.orch.Run(context.Background(), "create_order", identity, orderBody)

	suite.True(result.Success)
	suite.NotEmpty(result.TransactionID)
	suite.Equal("o1", result.Data["orderId"])
	suite.Equal(42.0, result.Data["totalAmount"])
	suite.Equal("s1", result.Data["sessionId"])
	suite.Equal("http://pay/s1", result.Data["paymentLink"])
	suite.Equal(int32(0), suite.cancelCalls.Load())
}

func (suite *SagaScenarioTestSuite) TestPaymentFailureCancelsOrder() {
	suite.paymentFails = true

	result := suite.orch.Run(context.Background(), "create_order", identity, orderBody)

	suite.False(result.Success)
	suite.NotEmpty(result.TransactionID)
	suite.Contains(result.Error, "create_payment")
	suite.Equal("step create_payment failed: gateway down", result.Error)
	suite.Equal(int32(3), suite.paymentCalls.Load())
	suite.Equal(int32(1), suite.cancelCalls.Load())
}
