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

// Package constants defines global constants used across the system module.
package constants

import "github.com/go-http-utils/headers"

const (
	// LogLevelEnvironmentVariable is the environment variable name for the log level.
	LogLevelEnvironmentVariable = "LOG_LEVEL"
	// DefaultLogLevel is the default log level used if not specified.
	DefaultLogLevel = "info"
)

// AcceptHeaderName is the name of the accept header used in HTTP requests.
const AcceptHeaderName = headers.Accept

// ContentTypeHeaderName is the name of the content type header used in HTTP requests.
const ContentTypeHeaderName = headers.ContentType

// OriginHeaderName is the name of the origin header used in CORS requests.
const OriginHeaderName = headers.Origin

// ContentTypeJSON is the content type for JSON data.
const ContentTypeJSON = "application/json"

// MaxRequestBodyBytes is the largest request body the server decodes.
const MaxRequestBodyBytes = 1 << 20

// Caller identity headers, set by the upstream authentication layer and forwarded to downstream services.
const (
	UserIDHeaderName    = "X-User-ID"
	UserRoleHeaderName  = "X-User-Role"
	UserEmailHeaderName = "X-User-Email"
)

// TransactionIDHeaderName carries the saga transaction ID on outbound calls and on responses.
const TransactionIDHeaderName = "X-Transaction-ID"

// RuntimeDBName is the logical name of the runtime database.
const RuntimeDBName = "runtime"
