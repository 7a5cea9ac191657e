// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace of all prover metrics.
const Namespace = "zkvm"

// Prover records prover measurements as prometheus metrics.  It implements
// stark.Metrics.
type Prover struct {
	traceRows      *prometheus.CounterVec
	stageDuration  *prometheus.HistogramVec
	proofRejection *prometheus.CounterVec
}

// NewProver constructs the prover metrics, and registers them with a given
// registerer.
func NewProver(registerer prometheus.Registerer) *Prover {
	p := &Prover{
		traceRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "prover",
				Name:      "trace_rows_total",
				Help:      "Total number of main trace rows generated, by chip",
			},
			[]string{"chip"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "prover",
				Name:      "stage_duration_seconds",
				Help:      "Time taken by each prover stage",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"stage"},
		),
		proofRejection: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "prover",
				Name:      "proof_rejections_total",
				Help:      "Total number of rejected proofs, by reason",
			},
			[]string{"reason"},
		),
	}
	//
	registerer.MustRegister(p.traceRows, p.stageDuration, p.proofRejection)
	//
	return p
}

// ObserveStage implementation for stark.Metrics interface.
func (p *Prover) ObserveStage(stage string, seconds float64) {
	p.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// ObserveTrace implementation for stark.Metrics interface.
func (p *Prover) ObserveTrace(chip string, rows uint) {
	p.traceRows.WithLabelValues(chip).Add(float64(rows))
}

// ObserveRejection implementation for stark.Metrics interface.
func (p *Prover) ObserveRejection(reason string) {
	p.proofRejection.WithLabelValues(reason).Inc()
}
