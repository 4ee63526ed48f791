package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds every siskamling collector. It is written to a node_exporter
// textfile rather than served over HTTP.
var Registry = prometheus.NewRegistry()

var (
	submissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siskamling", Name: "submissions_total", Help: "Accepted attendance submissions",
	}, []string{"schedule"})
	prelekAmount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siskamling", Name: "prelek_rupiah_total", Help: "Sum of reported prelek amounts",
	}, []string{"schedule"})
	rejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siskamling", Name: "submissions_rejected_total", Help: "Submit attempts that were rejected",
	}, []string{"reason"})
	malformedLogs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "siskamling", Name: "malformed_log_loads_total", Help: "Loads that found an undecodable submission log",
	})
	storeOps = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "siskamling", Name: "store_operation_seconds", Help: "Key-value store call latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"driver", "op", "result"})

	jobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siskamling", Name: "job_runs_total", Help: "Total background job runs",
	}, []string{"job"})
	jobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "siskamling", Name: "job_errors_total", Help: "Total background job errors",
	}, []string{"job"})
	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "siskamling", Name: "job_duration_seconds", Help: "Background job duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
)

func init() {
	Registry.MustRegister(submissions, prelekAmount, rejected, malformedLogs, storeOps, jobRuns, jobErrors, jobDuration)
}

func SubmissionAccepted(schedule string, prelek float64) {
	submissions.WithLabelValues(schedule).Inc()
	prelekAmount.WithLabelValues(schedule).Add(prelek)
}

func SubmissionRejected(reason string) { rejected.WithLabelValues(reason).Inc() }

func MalformedLog() { malformedLogs.Inc() }

func ObserveStoreOp(driver, op string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeOps.WithLabelValues(driver, op, result).Observe(d.Seconds())
}

func ObserveJob(job string, d time.Duration, err error) {
	if err != nil {
		jobErrors.WithLabelValues(job).Inc()
	}
	jobRuns.WithLabelValues(job).Inc()
	jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the text exposition format.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
