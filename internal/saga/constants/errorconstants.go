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

package constants

import (
	"github.com/asgardeo/conductor/internal/system/error/apierror"
	"github.com/asgardeo/conductor/internal/system/error/serviceerror"
)

// Client error structs

// APIErrorRequestJSONDecodeError is returned when a request body is not valid JSON.
var APIErrorRequestJSONDecodeError = apierror.ErrorResponse{
	Code:        "SAG-60001",
	Message:     "Invalid request payload",
	Description: "Failed to decode request payload",
}

// APIErrorRequestTooLarge is returned when a request body exceeds the size limit.
var APIErrorRequestTooLarge = apierror.ErrorResponse{
	Code:        "SAG-60006",
	Message:     "Request payload too large",
	Description: "The request payload exceeds the maximum allowed size",
}

// ErrorInvalidRequest is returned when a request body fails validation.
var ErrorInvalidRequest = serviceerror.ServiceError{
	Code:             "SAG-60002",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "One or more request fields are invalid",
}

// ErrorTransactionNotFound is returned when no journal record exists for a transaction ID.
var ErrorTransactionNotFound = serviceerror.ServiceError{
	Code:             "SAG-60004",
	Type:             serviceerror.ClientErrorType,
	Error:            "Not found",
	ErrorDescription: "No record was found for the transaction ID",
}

// ErrorInvalidTransactionID is returned when the transaction ID path value is empty.
var ErrorInvalidTransactionID = serviceerror.ServiceError{
	Code:             "SAG-60005",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "A transaction ID is required",
}

// Server error structs

// ErrorFlowNotRegistered is returned when a flow is executed before it was registered.
var ErrorFlowNotRegistered = serviceerror.ServiceError{
	Code:             "SAG-65001",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "The requested flow is not registered",
}

// ErrorInvalidFlowDefinition is returned when a flow definition fails registration checks.
var ErrorInvalidFlowDefinition = serviceerror.ServiceError{
	Code:             "SAG-65002",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "The flow definition is invalid",
}

// ErrorJournalRead is returned when the transaction journal cannot be read.
var ErrorJournalRead = serviceerror.ServiceError{
	Code:             "SAG-65003",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Failed to read the transaction journal",
}

// APIErrorInternalServerError is the body of unexpected server errors.
var APIErrorInternalServerError = apierror.ErrorResponse{
	Code:        "SAG-65000",
	Message:     "Internal server error",
	Description: "An unexpected error occurred while processing the request",
}
