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

package executor

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/asgardeo/conductor/internal/saga/constants"
	"github.com/asgardeo/conductor/internal/saga/model"
)

// FieldMapping copies one response field into the accumulated data under a possibly different key.
type FieldMapping struct {
	From string
	To   string
}

// ExtractionRule is the fixed set of response fields a step contributes to the accumulated data.
type ExtractionRule struct {
	Fields []FieldMapping
}

// Outputs returns the accumulated data keys the rule can write.
func (r ExtractionRule) Outputs() []string {
	outputs := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		outputs = append(outputs, f.To)
	}
	return outputs
}

// Apply picks the mapped fields out of a step result. Fields absent from the result are skipped.
func (r ExtractionRule) Apply(result map[string]any) map[string]any {
	extracted := make(map[string]any, len(r.Fields))
	for _, f := range r.Fields {
		if v, ok := result[f.From]; ok {
			extracted[f.To] = v
		}
	}
	return extracted
}

func same(keys ...string) []FieldMapping {
	fields := make([]FieldMapping, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, FieldMapping{From: k, To: k})
	}
	return fields
}

// RuleRegistry holds the extraction rules keyed by step name.
type RuleRegistry struct {
	rules *xsync.MapOf[string, ExtractionRule]
}

// NewRuleRegistry creates an empty registry.
func NewRuleRegistry() *RuleRegistry {
	return &RuleRegistry{rules: xsync.NewMapOf[string, ExtractionRule]()}
}

// NewDefaultRuleRegistry creates a registry holding the built-in rules.
func NewDefaultRuleRegistry() *RuleRegistry {
	r := NewRuleRegistry()
	r.Register(constants.StepCreateOrder, ExtractionRule{Fields: append(
		[]FieldMapping{{From: "id", To: "orderId"}}, same("totalAmount", "customerEmail", "customerName")...)})
	r.Register(constants.StepCreatePayment, ExtractionRule{Fields: []FieldMapping{
		{From: "sessionId", To: "sessionId"},
		{From: "paymentUrl", To: "paymentLink"},
	}})
	r.Register(constants.StepAssignDelivery, ExtractionRule{
		Fields: same("deliveryId", "driverName", "estimatedArrival")})
	r.Register(constants.StepGetOrder, ExtractionRule{Fields: append(
		[]FieldMapping{{From: "id", To: "orderId"}, {From: "status", To: "orderStatus"}},
		same("paymentStatus", "totalAmount", "customerId", "restaurantId")...)})
	r.Register(constants.StepProcessRefund, ExtractionRule{Fields: []FieldMapping{
		{From: "refundId", To: "refundId"},
		{From: "status", To: "refundStatus"},
	}})
	r.Register(constants.StepCreateReview, ExtractionRule{Fields: append(
		[]FieldMapping{{From: "id", To: "reviewId"}}, same("rating", "restaurantId", "orderId")...)})
	return r
}

// Register adds or replaces the rule of a step.
func (r *RuleRegistry) Register(stepName string, rule ExtractionRule) {
	r.rules.Store(stepName, rule)
}

// Lookup returns the rule of a step.
func (r *RuleRegistry) Lookup(stepName string) (ExtractionRule, bool) {
	return r.rules.Load(stepName)
}

// OutputKeys returns the keys a step can write into the accumulated data. Steps without a rule
// write their declared fields both bare and prefixed with the step name.
func (r *RuleRegistry) OutputKeys(step model.StepDescriptor) []string {
	if rule, ok := r.Lookup(step.Name); ok {
		return rule.Outputs()
	}
	keys := make([]string, 0, 2*len(step.Writes))
	for _, field := range step.Writes {
		keys = append(keys, field, GenericKey(step.Name, field))
	}
	return keys
}

// GenericKey is the key under which the generic rule stores a field of a step result.
func GenericKey(stepName, field string) string {
	return stepName + "_" + field
}

// extract folds a step result into the values to merge into the accumulated data.
func (r *RuleRegistry) extract(stepName string, result map[string]any,
	accumulated map[string]any) map[string]any {
	if rule, ok := r.Lookup(stepName); ok {
		return rule.Apply(result)
	}

	extracted := make(map[string]any, 2*len(result))
	for field, v := range result {
		extracted[GenericKey(stepName, field)] = v
		if _, exists := accumulated[field]; !exists {
			extracted[field] = v
		}
	}
	return extracted
}
