// Package metrics holds the Prometheus collectors shared by middleware and services.
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	AuthRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Total number of rejected admin or metrics logins",
		},
		[]string{"reason"},
	)
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "step_submissions_total",
			Help: "Step submissions appended to the record store",
		},
		[]string{"completed"},
	)
	StepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "steps_submitted_total",
			Help: "Sum of all submitted steps",
		},
	)
	ProofUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proof_uploads_total",
			Help: "Stored proof images by upload path",
		},
		[]string{"mode"},
	)
	CurrentGoal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "step_goal_current",
			Help: "Daily step goal currently in effect",
		},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Call this from main.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AuthRejections,
			SubmissionsTotal,
			StepsTotal,
			ProofUploadsTotal,
			CurrentGoal,
		)
	})
}

// ObserveSubmission records one appended submission
func ObserveSubmission(steps int, completed bool) {
	SubmissionsTotal.WithLabelValues(strconv.FormatBool(completed)).Inc()
	StepsTotal.Add(float64(steps))
}
