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

// Package utils provides utility functions for HTTP operations.
package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/asgardeo/conductor/internal/system/constants"
	"github.com/asgardeo/conductor/internal/system/error/apierror"
	"github.com/asgardeo/conductor/internal/system/log"
)

// DecodeJSONBody decodes the JSON request body into a value of type T. Bodies larger than
// constants.MaxRequestBodyBytes fail with an error wrapping *http.MaxBytesError.
func DecodeJSONBody[T any](w http.ResponseWriter, r *http.Request) (*T, error) {
	if r.Body == nil {
		return nil, errors.New("request body is empty")
	}

	var data T
	body := http.MaxBytesReader(w, r.Body, constants.MaxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(&data); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return &data, nil
}

// WriteJSONResponse writes the given body as a JSON response with the given status code.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set(constants.ContentTypeHeaderName, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.GetLogger().Error("Error encoding response", log.Error(err))
	}
}

// WriteErrorResponse writes an API error body with the given status code.
func WriteErrorResponse(w http.ResponseWriter, statusCode int, errResp apierror.ErrorResponse) {
	log.GetLogger().Debug("Error in HTTP response", log.String("code", errResp.Code),
		log.String("description", errResp.Description))
	WriteJSONResponse(w, statusCode, errResp)
}
