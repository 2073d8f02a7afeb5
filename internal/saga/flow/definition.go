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

package flow

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/asgardeo/conductor/internal/saga/executor"
	"github.com/asgardeo/conductor/internal/saga/model"
	"github.com/asgardeo/conductor/internal/saga/template"
)

var supportedMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
}

// Definition is a named, ordered list of steps. Inputs lists the per-call values the flow body passes
// to its steps; they are visible to forward calls only.
type Definition struct {
	Name   string
	Inputs []string
	Steps  []model.StepDescriptor
}

// dependencyChecker links every template token of a flow to the step that produces its value.
type dependencyChecker struct {
	def     Definition
	writers map[string][]int
	graph   *simple.DirectedGraph
	errs    *multierror.Error
}

// validate checks the step declarations and the data dependencies between steps. A forward template
// may read the fixed keys, the flow inputs, the step's own inputs and anything an earlier step writes.
// A compensation template may read the fixed keys and anything written by the step or an earlier one.
func validate(def Definition, rules *executor.RuleRegistry) error {
	if def.Name == "" {
		return errors.New("flow name is required")
	}
	if len(def.Steps) == 0 {
		return fmt.Errorf("flow %s has no steps", def.Name)
	}

	c := &dependencyChecker{
		def:     def,
		writers: make(map[string][]int),
		graph:   simple.NewDirectedGraph(),
	}
	c.checkDeclarations()
	if err := c.errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("invalid flow %s: %w", def.Name, err)
	}

	for i, step := range def.Steps {
		c.graph.AddNode(simple.Node(i))
		for _, key := range rules.OutputKeys(step) {
			c.writers[key] = append(c.writers[key], i)
		}
	}

	for i, step := range def.Steps {
		for _, key := range append(template.Tokens(step.Endpoint), template.Tokens(step.Payload)...) {
			if slices.Contains(model.FixedKeys, key) || slices.Contains(def.Inputs, key) ||
				slices.Contains(step.Inputs, key) {
				continue
			}
			c.link(i, key, false)
		}
		if !step.IsCompensable() {
			continue
		}
		tokens := append(template.Tokens(step.Compensation.Endpoint), template.Tokens(step.Compensation.Payload)...)
		for _, key := range tokens {
			if slices.Contains(model.FixedKeys, key) {
				continue
			}
			c.link(i, key, true)
		}
	}

	if _, err := topo.Sort(c.graph); err != nil {
		c.errs = multierror.Append(c.errs, fmt.Errorf("cyclic data dependency between steps: %w", err))
	}
	edges := c.graph.Edges()
	for edges.Next() {
		e := edges.Edge()
		if e.From().ID() > e.To().ID() {
			c.errs = multierror.Append(c.errs, fmt.Errorf("step %s reads data written by later step %s",
				def.Steps[e.To().ID()].Name, def.Steps[e.From().ID()].Name))
		}
	}

	if err := c.errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("invalid flow %s: %w", def.Name, err)
	}
	return nil
}

func (c *dependencyChecker) checkDeclarations() {
	seen := make(map[string]struct{}, len(c.def.Steps))
	for i, step := range c.def.Steps {
		if step.Name == "" {
			c.errs = multierror.Append(c.errs, fmt.Errorf("step at position %d has no name", i))
			continue
		}
		if _, dup := seen[step.Name]; dup {
			c.errs = multierror.Append(c.errs, fmt.Errorf("duplicate step name %q", step.Name))
		}
		seen[step.Name] = struct{}{}

		if step.Service == "" {
			c.errs = multierror.Append(c.errs, fmt.Errorf("step %s has no service", step.Name))
		}
		if !slices.Contains(supportedMethods, step.Method) {
			c.errs = multierror.Append(c.errs, fmt.Errorf("step %s uses unsupported method %q",
				step.Name, step.Method))
		}
		if step.IsCompensable() && !slices.Contains(supportedMethods, step.Compensation.Method) {
			c.errs = multierror.Append(c.errs, fmt.Errorf("compensation of step %s uses unsupported method %q",
				step.Name, step.Compensation.Method))
		}
	}
}

// link records that step reader reads key. The nearest earlier writer becomes the producer. When
// only later writers exist they are linked anyway so the ordering check reports them.
func (c *dependencyChecker) link(reader int, key string, allowSelf bool) {
	name := c.def.Steps[reader].Name
	ws := c.writers[key]
	if len(ws) == 0 {
		c.errs = multierror.Append(c.errs, fmt.Errorf("step %s reads %q which is never written", name, key))
		return
	}

	producer := -1
	for _, w := range ws {
		if w < reader || (allowSelf && w == reader) {
			producer = w
		}
	}
	if producer >= 0 {
		if producer != reader {
			c.graph.SetEdge(c.graph.NewEdge(simple.Node(producer), simple.Node(reader)))
		}
		return
	}

	for _, w := range ws {
		if w == reader {
			c.errs = multierror.Append(c.errs, fmt.Errorf("step %s reads %q before writing it", name, key))
			continue
		}
		c.graph.SetEdge(c.graph.NewEdge(simple.Node(w), simple.Node(reader)))
	}
}
