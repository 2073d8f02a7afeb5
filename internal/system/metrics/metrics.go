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

// Package metrics holds the Prometheus registry and the saga engine metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the process wide registry exposed on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		TransactionsTotal, StepAttemptsTotal, StepDuration, CompensationsTotal,
	)
}

// TransactionsTotal counts finished transactions by flow and terminal state.
var TransactionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conductor_saga_transactions_total",
		Help: "Finished saga transactions by flow and terminal state.",
	},
	[]string{"flow", "outcome"},
)

// StepAttemptsTotal counts remote call attempts by service and outcome.
var StepAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conductor_saga_step_attempts_total",
		Help: "Remote call attempts by downstream service and outcome.",
	},
	[]string{"service", "outcome"},
)

// StepDuration observes the wall time of a step including retries.
var StepDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "conductor_saga_step_duration_seconds",
		Help:    "Step execution time in seconds, including retries and backoff.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"step"},
)

// CompensationsTotal counts compensating calls by step and outcome.
var CompensationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "conductor_saga_compensations_total",
		Help: "Compensating calls by step and outcome.",
	},
	[]string{"step", "outcome"},
)

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
