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

import "fmt"

// FailureKind classifies why a remote call did not succeed.
type FailureKind string

const (
	// FailureTransport means the request did not reach the service.
	FailureTransport FailureKind = "transport"
	// FailureTimeout means the request was cancelled after the per-call timeout elapsed.
	FailureTimeout FailureKind = "timeout"
	// FailureHTTPStatus means the service answered with a non-2xx status.
	FailureHTTPStatus FailureKind = "http_status"
	// FailureBusiness means the service answered 2xx with success set to false.
	FailureBusiness FailureKind = "business"
	// FailureDecode means the response body was not valid JSON.
	FailureDecode FailureKind = "decode"
	// FailureTooLarge means the response body exceeded the size the client reads.
	FailureTooLarge FailureKind = "response_too_large"
	// FailureRouting means the logical service name has no configured base URL.
	FailureRouting FailureKind = "routing"
	// FailureRequest means the outbound request could not be built.
	FailureRequest FailureKind = "request"
)

// CallResult is the outcome of one remote call. A failure never carries data.
type CallResult struct {
	Success    bool
	Data       map[string]any
	Error      string
	StatusCode int
	Kind       FailureKind
}

// SuccessResult builds a successful call outcome.
func SuccessResult(statusCode int, data map[string]any) CallResult {
	if data == nil {
		data = map[string]any{}
	}
	return CallResult{Success: true, Data: data, StatusCode: statusCode}
}

// FailureResult builds a failed call outcome.
func FailureResult(kind FailureKind, statusCode int, reason string) CallResult {
	return CallResult{Kind: kind, StatusCode: statusCode, Error: reason}
}

// StepError reports that a step exhausted its attempts without a successful call.
type StepError struct {
	StepName string
	Reason   string
	Kind     FailureKind
	Attempts int
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %s", e.StepName, e.Reason)
}

// FlowError reports a business rule violation detected by a flow between steps.
type FlowError struct {
	Reason string
}

func (e *FlowError) Error() string {
	return e.Reason
}

// FlowResult is the caller-facing outcome of one transaction.
type FlowResult struct {
	Success       bool           `json:"success"`
	Data          map[string]any `json:"data,omitempty"`
	Error         string         `json:"error,omitempty"`
	TransactionID string         `json:"transactionId"`
}
