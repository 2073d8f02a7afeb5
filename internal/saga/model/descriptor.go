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

// Package model defines the data structures shared by the saga orchestration engine.
package model

// CallerIdentity is the authenticated caller on whose behalf a transaction runs.
type CallerIdentity struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
	Email  string `json:"email,omitempty"`
}

// CompensationDescriptor declares the call that semantically undoes a completed step.
type CompensationDescriptor struct {
	Endpoint string
	Method   string
	Payload  any
}

// StepDescriptor declares one remote call of a flow. Endpoint and Payload may contain {{key}} tokens.
type StepDescriptor struct {
	Name     string
	Service  string
	Endpoint string
	Method   string
	Payload  any
	// Inputs lists the per-call extra data keys the step's templates read.
	Inputs []string
	// Writes lists the response fields stored by the generic extraction rule.
	// Steps with a dedicated extraction rule leave it empty.
	Writes       []string
	Compensation *CompensationDescriptor
}

// IsCompensable reports whether the step declares a compensating call.
func (s StepDescriptor) IsCompensable() bool {
	return s.Compensation != nil && s.Compensation.Endpoint != ""
}
