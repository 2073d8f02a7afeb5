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

package log

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/asgardeo/conductor/internal/system/constants"
)

type AccessLogTestSuite struct {
	suite.Suite
}

func TestAccessLogSuite(t *testing.T) {
	suite.Run(t, new(AccessLogTestSuite))
}

func (suite *AccessLogTestSuite) TestAccessLogHandler() {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLogger(core)

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(constants.TransactionIDHeaderName, "tx-42")
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			suite.T().Errorf("Failed to write response: %v", err)
		}
	})

	handler := AccessLogHandler(l, testHandler)

	req := httptest.NewRequest("POST", "/orders", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	req.Header.Set(constants.UserIDHeaderName, "user-7")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(suite.T(), http.StatusOK, rr.Code)
	assert.Equal(suite.T(), "OK", rr.Body.String())

	entries := logs.All()
	suite.Require().Len(entries, 1)
	msg := entries[0].Message
	assert.True(suite.T(), strings.HasPrefix(msg, "192.168.1.1 - user-7 ["))
	assert.Contains(suite.T(), msg, `"POST /orders HTTP/1.1" 200 2`)
	assert.Equal(suite.T(), "tx-42", entries[0].ContextMap()[LoggerKeyTransactionID])
}

func (suite *AccessLogTestSuite) TestAccessLogHandlerWithoutUser() {
	core, logs := observer.New(zapcore.InfoLevel)

	handler := AccessLogHandler(NewLogger(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	req := httptest.NewRequest("GET", "/health/liveness", nil)
	req.RemoteAddr = "10.0.0.1"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	suite.Require().Len(entries, 1)
	assert.True(suite.T(), strings.HasPrefix(entries[0].Message, "10.0.0.1 - - ["))
	assert.Contains(suite.T(), entries[0].Message, " 401 0 ")
	assert.NotContains(suite.T(), entries[0].ContextMap(), LoggerKeyTransactionID)
}

func (suite *AccessLogTestSuite) TestLoggingResponseWriter() {
	rec := httptest.NewRecorder()
	lrw := &loggingResponseWriter{
		ResponseWriter: rec,
		statusCode:     http.StatusOK,
	}

	lrw.WriteHeader(http.StatusNotFound)
	assert.Equal(suite.T(), http.StatusNotFound, lrw.statusCode)

	n, err := lrw.Write([]byte("test content"))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12, n)
	assert.Equal(suite.T(), 12, lrw.size)
}
