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

// Package template resolves {{key}} placeholder tokens inside step endpoints and payloads.
//
// Only whole tokens made of letters, digits, '_', '.' and '-' are recognized. A token whose key is
// absent from the data set is left in place. Substituted text is never scanned again.
package template

import (
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
)

var tokenPattern = regexp.MustCompile(`\{\{([A-Za-z0-9_.\-]+)\}\}`)

// Resolve returns a copy of value with every token in every string replaced. Maps and slices are
// walked recursively; map keys and non-string scalars are left untouched.
func Resolve(value any, data map[string]any) any {
	switch v := value.(type) {
	case string:
		return ResolveString(v, data)
	case map[string]any:
		resolved := make(map[string]any, len(v))
		for k, item := range v {
			resolved[k] = Resolve(item, data)
		}
		return resolved
	case []any:
		resolved := make([]any, len(v))
		for i, item := range v {
			resolved[i] = Resolve(item, data)
		}
		return resolved
	case map[string]string:
		resolved := make(map[string]string, len(v))
		for k, item := range v {
			resolved[k] = ResolveString(item, data)
		}
		return resolved
	case []string:
		resolved := make([]string, len(v))
		for i, item := range v {
			resolved[i] = ResolveString(item, data)
		}
		return resolved
	default:
		return value
	}
}

// ResolveString replaces every token in s whose key is present in data.
func ResolveString(s string, data map[string]any) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		key := token[2 : len(token)-2]
		v, ok := data[key]
		if !ok {
			return token
		}
		return Stringify(v)
	})
}

// Stringify renders a value the way it is inserted into a template.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	case map[string]any, []any, map[string]string, []string:
		encoded, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(encoded)
	default:
		return fmt.Sprint(t)
	}
}

// Tokens lists the distinct token keys found anywhere in value, in first-seen order.
func Tokens(value any) []string {
	seen := make(map[string]struct{})
	var keys []string
	collectTokens(value, seen, &keys)
	return keys
}

func collectTokens(value any, seen map[string]struct{}, keys *[]string) {
	addFrom := func(s string) {
		for _, match := range tokenPattern.FindAllStringSubmatch(s, -1) {
			if _, ok := seen[match[1]]; !ok {
				seen[match[1]] = struct{}{}
				*keys = append(*keys, match[1])
			}
		}
	}

	switch v := value.(type) {
	case string:
		addFrom(v)
	case map[string]any:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			collectTokens(v[k], seen, keys)
		}
	case []any:
		for _, item := range v {
			collectTokens(item, seen, keys)
		}
	case map[string]string:
		for _, k := range slices.Sorted(maps.Keys(v)) {
			addFrom(v[k])
		}
	case []string:
		for _, item := range v {
			addFrom(item)
		}
	}
}

// MergeData builds the data set a template is resolved against. Per-call extra values override
// accumulated values, and the fixed transaction metadata overrides both. Passing a nil extra map
// gives the compensation view.
func MergeData(accumulated, extra, fixed map[string]any) map[string]any {
	merged := make(map[string]any, len(accumulated)+len(extra)+len(fixed))
	for k, v := range accumulated {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	for k, v := range fixed {
		merged[k] = v
	}
	return merged
}
