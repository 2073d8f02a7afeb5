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

// Package remote implements the client that calls downstream services on behalf of a saga step.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/asgardeo/conductor/internal/saga/model"
	"github.com/asgardeo/conductor/internal/system/constants"
	syshttp "github.com/asgardeo/conductor/internal/system/http"
	"github.com/asgardeo/conductor/internal/system/log"
	"github.com/asgardeo/conductor/internal/system/metrics"
)

const (
	loggerComponentName = "RemoteCallClient"
	// defaultMaxResponseBytes bounds how much of a response body is read.
	defaultMaxResponseBytes = 10 << 20
	outcomeSuccess          = "success"
)

// ClientInterface calls downstream services and reports normalized outcomes.
type ClientInterface interface {
	// Call makes a single attempt. It never returns an error; every failure is a failed result.
	Call(ctx context.Context, req CallRequest) model.CallResult
	// CallWithRetry repeats Call with exponential backoff until it succeeds or maxAttempts calls were
	// made. It returns the last result and the number of attempts.
	CallWithRetry(ctx context.Context, req CallRequest, maxAttempts int) (model.CallResult, int)
}

// CallRequest describes one outbound call. Endpoint must already be resolved.
type CallRequest struct {
	Service       string
	Endpoint      string
	Method        string
	Body          any
	Identity      model.CallerIdentity
	TransactionID string
	Timeout       time.Duration
}

// Client is the default ClientInterface implementation.
type Client struct {
	httpClient syshttp.HTTPClientInterface
	router     ServiceRouterInterface
	backoff    Backoff
	timer      retry.Timer
	maxBody    int64
}

// NewClient creates a remote call client.
func NewClient(httpClient syshttp.HTTPClientInterface, router ServiceRouterInterface, backoff Backoff) *Client {
	return &Client{
		httpClient: httpClient,
		router:     router,
		backoff:    backoff,
		maxBody:    defaultMaxResponseBytes,
	}
}

// Call makes a single attempt against the service.
func (c *Client) Call(ctx context.Context, req CallRequest) (result model.CallResult) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyServiceName, req.Service),
		log.String(log.LoggerKeyTransactionID, req.TransactionID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unexpected panic while calling service", log.Any("panic", r))
			result = model.FailureResult(model.FailureTransport, 0,
				fmt.Sprintf("unexpected error calling %s: %v", req.Service, r))
		}
		outcome := outcomeSuccess
		if !result.Success {
			outcome = string(result.Kind)
		}
		metrics.StepAttemptsTotal.WithLabelValues(req.Service, outcome).Inc()
	}()

	baseURL, ok := c.router.BaseURL(req.Service)
	if !ok {
		return model.FailureResult(model.FailureRouting, 0, "unknown service "+req.Service)
	}

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return model.FailureResult(model.FailureRequest, 0,
				fmt.Sprintf("failed to encode request body for %s: %v", req.Service, err))
		}
		body = bytes.NewReader(encoded)
	}

	callCtx, cancel := withTimeout(ctx, req.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, req.Method, joinURL(baseURL, req.Endpoint), body)
	if err != nil {
		return model.FailureResult(model.FailureRequest, 0,
			fmt.Sprintf("failed to build request for %s: %v", req.Service, err))
	}
	setHeaders(httpReq, req)

	if logger.IsDebugEnabled() {
		logger.Debug("Calling service", log.String("method", req.Method), log.String("endpoint", req.Endpoint))
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return transportFailure(ctx, callCtx, req, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Error("Failed to close response body", log.Error(closeErr))
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return transportFailure(ctx, callCtx, req, err)
	}
	if int64(len(raw)) > c.maxBody {
		return model.FailureResult(model.FailureTooLarge, resp.StatusCode,
			fmt.Sprintf("response from %s exceeds %d bytes", req.Service, c.maxBody))
	}

	return interpretResponse(resp.StatusCode, raw)
}

// CallWithRetry calls the service until it succeeds or maxAttempts calls were made.
// Values of maxAttempts below one mean a single attempt.
func (c *Client) CallWithRetry(ctx context.Context, req CallRequest, maxAttempts int) (model.CallResult, int) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyServiceName, req.Service),
		log.String(log.LoggerKeyTransactionID, req.TransactionID))

	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var last model.CallResult
	attempts := 0

	opts := []retry.Option{
		retry.Attempts(uint(maxAttempts)),
		retry.DelayType(func(_ uint, _ error, _ *retry.Config) time.Duration {
			return c.backoff.Delay(attempts)
		}),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(_ uint, err error) {
			if attempts < maxAttempts {
				logger.Warn("Remote call failed, retrying", log.Int("attempt", attempts),
					log.Int("maxAttempts", maxAttempts), log.Duration("delay", c.backoff.Delay(attempts)),
					log.Error(err))
			}
		}),
	}
	if c.timer != nil {
		opts = append(opts, retry.WithTimer(c.timer))
	}

	err := retry.Do(func() error {
		attempts++
		last = c.Call(ctx, req)
		if last.Success {
			return nil
		}
		return errors.New(last.Error)
	}, opts...)

	if attempts == 0 {
		// The context was already done, so no attempt was made.
		return model.FailureResult(model.FailureTransport, 0,
			fmt.Sprintf("request to %s cancelled: %v", req.Service, err)), 0
	}
	if !last.Success {
		logger.Error("Remote call failed after all attempts", log.Int("attempts", attempts),
			log.String("reason", last.Error))
	}
	return last, attempts
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func joinURL(baseURL, endpoint string) string {
	if endpoint == "" {
		return baseURL
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return baseURL + endpoint
}

func setHeaders(httpReq *http.Request, req CallRequest) {
	httpReq.Header.Set(constants.ContentTypeHeaderName, constants.ContentTypeJSON)
	httpReq.Header.Set(constants.AcceptHeaderName, constants.ContentTypeJSON)

	optional := map[string]string{
		constants.UserIDHeaderName:        req.Identity.UserID,
		constants.UserRoleHeaderName:      req.Identity.Role,
		constants.UserEmailHeaderName:     req.Identity.Email,
		constants.TransactionIDHeaderName: req.TransactionID,
	}
	for name, value := range optional {
		if value != "" {
			httpReq.Header.Set(name, value)
		}
	}
}

// transportFailure classifies an error raised while sending the request or reading the response.
func transportFailure(parent, callCtx context.Context, req CallRequest, err error) model.CallResult {
	if parent.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return model.FailureResult(model.FailureTimeout, 0,
			fmt.Sprintf("request to %s timed out after %s", req.Service, req.Timeout))
	}
	return model.FailureResult(model.FailureTransport, 0, fmt.Sprintf("request to %s failed: %v", req.Service, err))
}
