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

// Package flow registers named step sequences and runs them as sagas.
package flow

import (
	"fmt"
	"maps"
	"slices"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/asgardeo/conductor/internal/saga/executor"
	"github.com/asgardeo/conductor/internal/saga/model"
)

// Registry holds the validated flow definitions.
type Registry struct {
	flows *xsync.MapOf[string, Definition]
	rules *executor.RuleRegistry
}

// NewRegistry creates an empty registry that validates flows against the given extraction rules.
func NewRegistry(rules *executor.RuleRegistry) *Registry {
	return &Registry{
		flows: xsync.NewMapOf[string, Definition](),
		rules: rules,
	}
}

// Register validates a definition and adds it. A flow name can be registered only once.
func (r *Registry) Register(def Definition) error {
	if err := validate(def, r.rules); err != nil {
		return err
	}

	steps := make([]model.StepDescriptor, len(def.Steps))
	copy(steps, def.Steps)
	def.Steps = steps
	def.Inputs = slices.Clone(def.Inputs)

	if _, loaded := r.flows.LoadOrStore(def.Name, def); loaded {
		return fmt.Errorf("flow %s is already registered", def.Name)
	}
	return nil
}

// Get returns a registered definition.
func (r *Registry) Get(name string) (Definition, bool) {
	return r.flows.Load(name)
}

// Names returns the registered flow names in sorted order.
func (r *Registry) Names() []string {
	names := make(map[string]struct{}, r.flows.Size())
	r.flows.Range(func(name string, _ Definition) bool {
		names[name] = struct{}{}
		return true
	})
	return slices.Sorted(maps.Keys(names))
}
