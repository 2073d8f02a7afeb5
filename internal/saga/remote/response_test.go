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

package remote

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/conductor/internal/saga/model"
)

type ResponseTestSuite struct {
	suite.Suite
}

func TestResponseSuite(t *testing.T) {
	suite.Run(t, new(ResponseTestSuite))
}

func (suite *ResponseTestSuite) TestInterpretResponse() {
	testCases := []struct {
		name     string
		status   int
		body     string
		success  bool
		kind     model.FailureKind
		reason   string
		expected map[string]any
	}{
		{
			name:     "DataObjectWithExtraFields",
			status:   http.StatusCreated,
			body:     `{"success":true,"data":{"id":"o1","totalAmount":42},"traceId":"t1","id":"outer"}`,
			success:  true,
			expected: map[string]any{"id": "o1", "totalAmount": 42.0, "traceId": "t1"},
		},
		{
			name:     "NonObjectData",
			status:   http.StatusOK,
			body:     `{"success":true,"data":[1,2]}`,
			success:  true,
			expected: map[string]any{"data": []any{1.0, 2.0}},
		},
		{
			name:     "NoEnvelope",
			status:   http.StatusOK,
			body:     `{"sessionId":"s1","paymentUrl":"http://pay/s1"}`,
			success:  true,
			expected: map[string]any{"sessionId": "s1", "paymentUrl": "http://pay/s1"},
		},
		{
			name:     "TopLevelArray",
			status:   http.StatusOK,
			body:     `["a"]`,
			success:  true,
			expected: map[string]any{"data": []any{"a"}},
		},
		{
			name:     "EmptyBody",
			status:   http.StatusNoContent,
			body:     "",
			success:  true,
			expected: map[string]any{},
		},
		{
			name:     "MessageOnSuccessIsDropped",
			status:   http.StatusOK,
			body:     `{"success":true,"message":"created","data":{"id":"r1"}}`,
			success:  true,
			expected: map[string]any{"id": "r1"},
		},
		{
			name:   "BusinessFailureWithError",
			status: http.StatusOK,
			body:   `{"success":false,"error":"restaurant closed","message":"ignored"}`,
			kind:   model.FailureBusiness,
			reason: "restaurant closed",
		},
		{
			name:   "BusinessFailureWithMessage",
			status: http.StatusOK,
			body:   `{"success":false,"message":"out of stock"}`,
			kind:   model.FailureBusiness,
			reason: "out of stock",
		},
		{
			name:   "BusinessFailureWithoutReason",
			status: http.StatusOK,
			body:   `{"success":false}`,
			kind:   model.FailureBusiness,
			reason: "HTTP 200",
		},
		{
			name:   "HTTPErrorWithError",
			status: http.StatusBadRequest,
			body:   `{"success":false,"error":"invalid items"}`,
			kind:   model.FailureHTTPStatus,
			reason: "invalid items",
		},
		{
			name:   "HTTPErrorWithPlainBody",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			kind:   model.FailureHTTPStatus,
			reason: "HTTP 502",
		},
		{
			name:   "HTTPErrorEvenWhenSuccessTrue",
			status: http.StatusInternalServerError,
			body:   `{"success":true}`,
			kind:   model.FailureHTTPStatus,
			reason: "HTTP 500",
		},
		{
			name:   "InvalidJSON",
			status: http.StatusOK,
			body:   `{"success":`,
			kind:   model.FailureDecode,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			result := interpretResponse(tc.status, []byte(tc.body))

			suite.Equal(tc.success, result.Success)
			suite.Equal(tc.status, result.StatusCode)
			if tc.success {
				suite.Equal(tc.expected, result.Data)
				suite.Empty(result.Error)
				return
			}
			suite.Equal(tc.kind, result.Kind)
			suite.Nil(result.Data)
			if tc.reason != "" {
				suite.Equal(tc.reason, result.Error)
			} else {
				suite.NotEmpty(result.Error)
			}
		})
	}
}
