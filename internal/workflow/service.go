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

// Package workflow exposes the order, delivery and review transactions of the platform over HTTP.
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sagaconst "github.com/asgardeo/conductor/internal/saga/constants"
	"github.com/asgardeo/conductor/internal/saga/flow"
	"github.com/asgardeo/conductor/internal/saga/journal"
	"github.com/asgardeo/conductor/internal/saga/model"
	"github.com/asgardeo/conductor/internal/system/error/serviceerror"
	"github.com/asgardeo/conductor/internal/system/log"
)

const (
	serviceLoggerComponentName = "WorkflowService"
	defaultCancelReason        = "cancelled by customer"
)

// WorkflowServiceInterface defines the business transactions of the platform.
type WorkflowServiceInterface interface {
	CreateOrder(ctx context.Context, caller model.CallerIdentity,
		request CreateOrderRequest) (*model.FlowResult, *serviceerror.ServiceError)
	AcceptDelivery(ctx context.Context, caller model.CallerIdentity,
		orderID string) (*model.FlowResult, *serviceerror.ServiceError)
	CancelOrder(ctx context.Context, caller model.CallerIdentity, orderID string,
		request CancelOrderRequest) (*model.FlowResult, *serviceerror.ServiceError)
	CreateReview(ctx context.Context, caller model.CallerIdentity,
		request CreateReviewRequest) (*model.FlowResult, *serviceerror.ServiceError)
	GetTransaction(caller model.CallerIdentity, transactionID string) (*journal.Record,
		*serviceerror.ServiceError)
}

// workflowService is the default implementation of WorkflowServiceInterface.
type workflowService struct {
	orchestrator flow.OrchestratorInterface
	journal      journal.JournalInterface
}

// newWorkflowService creates a new instance of workflowService.
func newWorkflowService(orchestrator flow.OrchestratorInterface,
	txJournal journal.JournalInterface) WorkflowServiceInterface {
	if txJournal == nil {
		txJournal = journal.NoopJournal{}
	}
	return &workflowService{
		orchestrator: orchestrator,
		journal:      txJournal,
	}
}

// CreateOrder places an order, opens a payment session for it and notifies the customer.
func (s *workflowService) CreateOrder(ctx context.Context, caller model.CallerIdentity,
	request CreateOrderRequest) (*model.FlowResult, *serviceerror.ServiceError) {
	if err := request.Validate(); err != nil {
		return nil, serviceerror.CustomServiceError(sagaconst.ErrorInvalidRequest, err.Error())
	}
	items, err := json.Marshal(request.Items)
	if err != nil {
		return nil, serviceerror.CustomServiceError(sagaconst.ErrorInvalidRequest,
			"items cannot be encoded: "+err.Error())
	}

	extra := map[string]any{
		inputRestaurantID:    request.RestaurantID,
		inputItems:           string(items),
		inputDeliveryAddress: request.DeliveryAddress,
	}
	result := s.orchestrator.Run(ctx, sagaconst.FlowCreateOrder, caller, func(tx *flow.Transaction) error {
		if _, err := tx.Execute(sagaconst.StepCreateOrder, extra); err != nil {
			return err
		}
		if _, err := tx.Execute(sagaconst.StepCreatePayment, nil); err != nil {
			return err
		}
		_, err := tx.Execute(sagaconst.StepSendOrderNotification, nil)
		return err
	})
	return &result, nil
}

// AcceptDelivery lets the calling driver accept an order and books the delivery.
func (s *workflowService) AcceptDelivery(ctx context.Context, caller model.CallerIdentity,
	orderID string) (*model.FlowResult, *serviceerror.ServiceError) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, serviceerror.CustomServiceError(sagaconst.ErrorInvalidRequest, "orderId is required")
	}

	extra := map[string]any{inputOrderID: orderID}
	result := s.orchestrator.Run(ctx, sagaconst.FlowAcceptDelivery, caller, func(tx *flow.Transaction) error {
		for _, step := range []string{
			sagaconst.StepUpdateOrderStatus,
			sagaconst.StepAssignDelivery,
			sagaconst.StepNotifyDriverAssigned,
		} {
			if _, err := tx.Execute(step, extra); err != nil {
				return err
			}
		}
		return nil
	})
	return &result, nil
}

// CancelOrder cancels a paid order and refunds it. Orders that were not paid cannot be cancelled
// through this transaction.
func (s *workflowService) CancelOrder(ctx context.Context, caller model.CallerIdentity, orderID string,
	request CancelOrderRequest) (*model.FlowResult, *serviceerror.ServiceError) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, serviceerror.CustomServiceError(sagaconst.ErrorInvalidRequest, "orderId is required")
	}
	if err := request.Validate(); err != nil {
		return nil, serviceerror.CustomServiceError(sagaconst.ErrorInvalidRequest, err.Error())
	}
	reason := strings.TrimSpace(request.Reason)
	if reason == "" {
		reason = defaultCancelReason
	}

	extra := map[string]any{inputOrderID: orderID, inputReason: reason}
	result := s.orchestrator.Run(ctx, sagaconst.FlowCancelOrder, caller, func(tx *flow.Transaction) error {
		if _, err := tx.Execute(sagaconst.StepGetOrder, extra); err != nil {
			return err
		}

		paymentStatus, ok := tx.Value("paymentStatus")
		if !ok {
			paymentStatus = "unknown"
		}
		if paymentStatus != sagaconst.PaymentStatusPaid {
			logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, serviceLoggerComponentName),
				log.String(log.LoggerKeyTransactionID, tx.TransactionID()))
			logger.Info("Order is not refundable", log.String("orderId", orderID),
				log.Any("paymentStatus", paymentStatus))
			return tx.Fail(fmt.Sprintf("order %s cannot be cancelled: payment status is %v", orderID,
				paymentStatus))
		}

		for _, step := range []string{
			sagaconst.StepCancelOrder,
			sagaconst.StepProcessRefund,
			sagaconst.StepNotifyOrderCancelled,
		} {
			if _, err := tx.Execute(step, extra); err != nil {
				return err
			}
		}
		return nil
	})
	return &result, nil
}

// CreateReview records a review and folds its rating into the restaurant rating.
func (s *workflowService) CreateReview(ctx context.Context, caller model.CallerIdentity,
	request CreateReviewRequest) (*model.FlowResult, *serviceerror.ServiceError) {
	if err := request.Validate(); err != nil {
		return nil, serviceerror.CustomServiceError(sagaconst.ErrorInvalidRequest, err.Error())
	}

	extra := map[string]any{
		inputOrderID:      request.OrderID,
		inputRestaurantID: request.RestaurantID,
		inputRating:       request.Rating,
		inputComment:      request.Comment,
	}
	result := s.orchestrator.Run(ctx, sagaconst.FlowCreateReview, caller, func(tx *flow.Transaction) error {
		for _, step := range []string{
			sagaconst.StepCreateReview,
			sagaconst.StepUpdateRestaurantRating,
			sagaconst.StepNotifyReviewCreated,
		} {
			if _, err := tx.Execute(step, extra); err != nil {
				return err
			}
		}
		return nil
	})
	return &result, nil
}

// GetTransaction returns the journal record of a finished transaction. Callers only see their own
// transactions unless they hold the admin role; a record owned by someone else is reported as not found.
func (s *workflowService) GetTransaction(caller model.CallerIdentity, transactionID string) (*journal.Record,
	*serviceerror.ServiceError) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, serviceLoggerComponentName))

	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, &sagaconst.ErrorInvalidTransactionID
	}

	record, err := s.journal.Get(transactionID)
	if err != nil {
		logger.Error("Failed to read transaction journal", log.String(log.LoggerKeyTransactionID, transactionID),
			log.Error(err))
		return nil, &sagaconst.ErrorJournalRead
	}
	if record == nil {
		return nil, &sagaconst.ErrorTransactionNotFound
	}
	if record.UserID != caller.UserID && caller.Role != sagaconst.RoleAdmin {
		logger.Debug("Refused journal record owned by another user",
			log.String(log.LoggerKeyTransactionID, transactionID), log.String("userId", caller.UserID))
		return nil, &sagaconst.ErrorTransactionNotFound
	}
	return record, nil
}
