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
	"context"
	"net/http"
	"strings"

	"github.com/asgardeo/conductor/internal/system/constants"
	"github.com/asgardeo/conductor/internal/system/error/apierror"
	"github.com/asgardeo/conductor/internal/system/log"
	"github.com/asgardeo/conductor/internal/system/utils"
)

// Caller is the identity of the end user on whose behalf a request runs. It is established by the
// upstream authentication layer and passed in request headers.
type Caller struct {
	UserID string
	Role   string
	Email  string
}

type callerContextKey struct{}

var errorMissingCaller = apierror.ErrorResponse{
	Code:        "SAG-60003",
	Message:     "Unauthorized",
	Description: "The " + constants.UserIDHeaderName + " header is required",
}

// WithCaller rejects requests without a user ID header and stores the caller identity in the request
// context for the wrapped handler.
func WithCaller(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := Caller{
			UserID: strings.TrimSpace(r.Header.Get(constants.UserIDHeaderName)),
			Role:   strings.TrimSpace(r.Header.Get(constants.UserRoleHeaderName)),
			Email:  strings.TrimSpace(r.Header.Get(constants.UserEmailHeaderName)),
		}
		if caller.UserID == "" {
			log.GetLogger().Debug("Rejecting request without caller identity",
				log.String(log.LoggerKeyComponentName, "CallerMiddleware"), log.String("path", r.URL.Path))
			utils.WriteErrorResponse(w, http.StatusUnauthorized, errorMissingCaller)
			return
		}
		handler(w, r.WithContext(context.WithValue(r.Context(), callerContextKey{}, caller)))
	}
}

// CallerFromContext returns the caller stored by WithCaller.
func CallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerContextKey{}).(Caller)
	return caller, ok
}
