// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric status label values.
const (
	statusSuccess = "success"
	statusError   = "error"
)

// metrics are kept in a private registry so each run reports only itself.
type metrics struct {
	registry *prometheus.Registry

	runDuration   prometheus.Gauge
	runTimestamp  prometheus.Gauge
	runTotal      *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	stageTotal    *prometheus.CounterVec
	filesWritten  *prometheus.GaugeVec
	secretsMade   prometheus.Gauge
}

func newMetrics(version string) *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"version": version}

	return &metrics{
		registry: reg,
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "passingcircle_setup_duration_seconds",
			Help:        "Wall time of the last provisioning run",
			ConstLabels: constLabels,
		}),
		runTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "passingcircle_setup_last_run_timestamp_seconds",
			Help:        "Unix time the last provisioning run finished",
			ConstLabels: constLabels,
		}),
		runTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "passingcircle_setup_runs_total",
			Help:        "Provisioning runs by outcome",
			ConstLabels: constLabels,
		}, []string{"status"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "passingcircle_setup_stage_duration_seconds",
			Help:        "Time taken by individual provisioning stages",
			Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			ConstLabels: constLabels,
		}, []string{"stage"}),
		stageTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "passingcircle_setup_stage_total",
			Help:        "Provisioning stage executions by outcome",
			ConstLabels: constLabels,
		}, []string{"stage", "status"}),
		filesWritten: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "passingcircle_setup_files_written",
			Help:        "Files written by each stage in the last run",
			ConstLabels: constLabels,
		}, []string{"stage"}),
		secretsMade: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "passingcircle_setup_secrets_generated",
			Help:        "Secrets generated in the last run",
			ConstLabels: constLabels,
		}),
	}
}

func (m *metrics) observeStage(stage string, d time.Duration, files int, err error) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	m.stageTotal.WithLabelValues(stage, status(err)).Inc()
	m.filesWritten.WithLabelValues(stage).Set(float64(files))
}

func (m *metrics) observeRun(d time.Duration, finished time.Time, err error) {
	m.runDuration.Set(d.Seconds())
	m.runTimestamp.Set(float64(finished.Unix()))
	m.runTotal.WithLabelValues(status(err)).Inc()
}

// write stores the registry in node-exporter textfile format.
func (m *metrics) write(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func status(err error) string {
	if err != nil {
		return statusError
	}
	return statusSuccess
}
