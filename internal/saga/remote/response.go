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
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/asgardeo/conductor/internal/saga/model"
)

// Envelope fields that are never copied into the result data.
var envelopeFields = map[string]struct{}{
	"success": {},
	"data":    {},
	"error":   {},
	"message": {},
}

// interpretResponse turns a downstream response into a call outcome.
//
// Any non-2xx status, or a body with success set to false, is a failure whose reason is the body's
// error field, else its message field, else "HTTP <status>". A successful result exposes the fields
// of the data object plus any extra top-level fields it does not already have. A data value that is
// not an object is exposed under the key "data".
func interpretResponse(statusCode int, raw []byte) model.CallResult {
	trimmed := bytes.TrimSpace(raw)
	is2xx := statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices

	var decoded any
	var decodeErr error
	if len(trimmed) > 0 {
		decodeErr = json.Unmarshal(trimmed, &decoded)
	}
	envelope, _ := decoded.(map[string]any)

	if !is2xx {
		return model.FailureResult(model.FailureHTTPStatus, statusCode, failureReason(envelope, statusCode))
	}
	if len(trimmed) == 0 {
		return model.SuccessResult(statusCode, nil)
	}
	if decodeErr != nil {
		return model.FailureResult(model.FailureDecode, statusCode,
			fmt.Sprintf("invalid JSON response: %v", decodeErr))
	}
	if envelope == nil {
		return model.SuccessResult(statusCode, map[string]any{"data": decoded})
	}
	if success, ok := envelope["success"].(bool); ok && !success {
		return model.FailureResult(model.FailureBusiness, statusCode, failureReason(envelope, statusCode))
	}

	data := make(map[string]any)
	switch d := envelope["data"].(type) {
	case map[string]any:
		for k, v := range d {
			data[k] = v
		}
	case nil:
	default:
		data["data"] = d
	}
	for k, v := range envelope {
		if _, reserved := envelopeFields[k]; reserved {
			continue
		}
		if _, exists := data[k]; !exists {
			data[k] = v
		}
	}
	return model.SuccessResult(statusCode, data)
}

func failureReason(envelope map[string]any, statusCode int) string {
	for _, field := range []string{"error", "message"} {
		if reason, ok := envelope[field].(string); ok && reason != "" {
			return reason
		}
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}
