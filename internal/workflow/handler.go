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

package workflow

import (
	"errors"
	"io"
	"net/http"

	sagaconst "github.com/asgardeo/conductor/internal/saga/constants"
	"github.com/asgardeo/conductor/internal/saga/model"
	serverconst "github.com/asgardeo/conductor/internal/system/constants"
	"github.com/asgardeo/conductor/internal/system/error/apierror"
	"github.com/asgardeo/conductor/internal/system/error/serviceerror"
	"github.com/asgardeo/conductor/internal/system/log"
	"github.com/asgardeo/conductor/internal/system/middleware"
	sysutils "github.com/asgardeo/conductor/internal/system/utils"
)

const handlerLoggerComponentName = "WorkflowHandler"

// workflowHandler is the handler for the transaction endpoints.
type workflowHandler struct {
	service WorkflowServiceInterface
}

// newWorkflowHandler creates a new instance of workflowHandler.
func newWorkflowHandler(service WorkflowServiceInterface) *workflowHandler {
	return &workflowHandler{service: service}
}

// HandleCreateOrderRequest handles the create order request.
func (h *workflowHandler) HandleCreateOrderRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, handlerLoggerComponentName))

	request, err := sysutils.DecodeJSONBody[CreateOrderRequest](w, r)
	if err != nil {
		h.writeDecodeError(w, err)
		return
	}

	result, svcErr := h.service.CreateOrder(r.Context(), callerIdentity(r), *request)
	if svcErr != nil {
		h.handleError(w, logger, svcErr)
		return
	}
	h.writeFlowResult(w, logger, result)
}

// HandleAcceptDeliveryRequest handles the accept delivery request.
func (h *workflowHandler) HandleAcceptDeliveryRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, handlerLoggerComponentName))

	result, svcErr := h.service.AcceptDelivery(r.Context(), callerIdentity(r), r.PathValue("orderId"))
	if svcErr != nil {
		h.handleError(w, logger, svcErr)
		return
	}
	h.writeFlowResult(w, logger, result)
}

// HandleCancelOrderRequest handles the cancel order request. The request body is optional.
func (h *workflowHandler) HandleCancelOrderRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, handlerLoggerComponentName))

	request := CancelOrderRequest{}
	decoded, err := sysutils.DecodeJSONBody[CancelOrderRequest](w, r)
	switch {
	case err == nil:
		request = *decoded
	case !errors.Is(err, io.EOF):
		h.writeDecodeError(w, err)
		return
	}

	result, svcErr := h.service.CancelOrder(r.Context(), callerIdentity(r), r.PathValue("orderId"), request)
	if svcErr != nil {
		h.handleError(w, logger, svcErr)
		return
	}
	h.writeFlowResult(w, logger, result)
}

// HandleCreateReviewRequest handles the create review request.
func (h *workflowHandler) HandleCreateReviewRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, handlerLoggerComponentName))

	request, err := sysutils.DecodeJSONBody[CreateReviewRequest](w, r)
	if err != nil {
		h.writeDecodeError(w, err)
		return
	}

	result, svcErr := h.service.CreateReview(r.Context(), callerIdentity(r), *request)
	if svcErr != nil {
		h.handleError(w, logger, svcErr)
		return
	}
	h.writeFlowResult(w, logger, result)
}

// HandleGetTransactionRequest handles the get transaction request.
func (h *workflowHandler) HandleGetTransactionRequest(w http.ResponseWriter, r *http.Request) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, handlerLoggerComponentName))

	record, svcErr := h.service.GetTransaction(callerIdentity(r), r.PathValue("transactionId"))
	if svcErr != nil {
		h.handleError(w, logger, svcErr)
		return
	}

	sysutils.WriteJSONResponse(w, http.StatusOK, record)
	logger.Debug("Returned transaction record", log.String(log.LoggerKeyTransactionID, record.TransactionID))
}

// callerIdentity returns the identity stored by the caller middleware.
func callerIdentity(r *http.Request) model.CallerIdentity {
	caller, _ := middleware.CallerFromContext(r.Context())
	return model.CallerIdentity{UserID: caller.UserID, Role: caller.Role, Email: caller.Email}
}

// writeFlowResult writes the outcome of a transaction. A failed transaction is reported as 422 with the
// same body shape as a successful one.
func (h *workflowHandler) writeFlowResult(w http.ResponseWriter, logger *log.Logger, result *model.FlowResult) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set(serverconst.TransactionIDHeaderName, result.TransactionID)
	sysutils.WriteJSONResponse(w, status, result)

	logger.Debug("Transaction response sent", log.String(log.LoggerKeyTransactionID, result.TransactionID),
		log.Bool("success", result.Success))
}

func (h *workflowHandler) writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		sysutils.WriteErrorResponse(w, http.StatusRequestEntityTooLarge, sagaconst.APIErrorRequestTooLarge)
		return
	}

	errResp := sagaconst.APIErrorRequestJSONDecodeError
	errResp.Description = "Failed to parse request body: " + err.Error()
	sysutils.WriteErrorResponse(w, http.StatusBadRequest, errResp)
}

// handleError maps a service error to an HTTP error response.
func (h *workflowHandler) handleError(w http.ResponseWriter, logger *log.Logger,
	svcErr *serviceerror.ServiceError) {
	errResp := apierror.ErrorResponse{
		Code:        svcErr.Code,
		Message:     svcErr.Error,
		Description: svcErr.ErrorDescription,
	}

	statusCode := http.StatusInternalServerError
	if svcErr.Type == serviceerror.ClientErrorType {
		switch svcErr.Code {
		case sagaconst.ErrorTransactionNotFound.Code:
			statusCode = http.StatusNotFound
		default:
			statusCode = http.StatusBadRequest
		}
	} else {
		logger.Error("Server error while processing request", log.String("code", svcErr.Code),
			log.String("description", svcErr.ErrorDescription))
		errResp = sagaconst.APIErrorInternalServerError
	}

	sysutils.WriteErrorResponse(w, statusCode, errResp)
}
