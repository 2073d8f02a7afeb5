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

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/asgardeo/conductor/internal/system/error/apierror"
)

type CallerMiddlewareTestSuite struct {
	suite.Suite
}

func TestCallerMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(CallerMiddlewareTestSuite))
}

func (suite *CallerMiddlewareTestSuite) TestCallerIsStoredInContext() {
	var seen Caller
	var found bool
	handler := WithCaller(func(w http.ResponseWriter, r *http.Request) {
		seen, found = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("X-User-ID", " u1 ")
	req.Header.Set("X-User-Role", "customer")
	req.Header.Set("X-User-Email", "u1@example.com")
	w := httptest.NewRecorder()

	handler(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.True(found)
	suite.Equal(Caller{UserID: "u1", Role: "customer", Email: "u1@example.com"}, seen)
}

func (suite *CallerMiddlewareTestSuite) TestMissingUserIDIsUnauthorized() {
	called := false
	handler := WithCaller(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	req.Header.Set("X-User-Role", "customer")
	w := httptest.NewRecorder()

	handler(w, req)

	suite.False(called)
	suite.Equal(http.StatusUnauthorized, w.Code)
	var body apierror.ErrorResponse
	suite.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
	suite.Equal("SAG-60003", body.Code)
}

func (suite *CallerMiddlewareTestSuite) TestCallerFromEmptyContext() {
	_, ok := CallerFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	suite.False(ok)
}
