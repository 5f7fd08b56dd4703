package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Counter metrics
var (
	// Provisioning operation counter
	ProvisioningCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_provisioning_total",
			Help: "Total number of shop provisioning runs by outcome",
		},
		[]string{"outcome"}, // "success" or "failure"
	)

	// Provisioning step failure counter
	ProvisioningStepErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_provisioning_step_errors_total",
			Help: "Total number of failed provisioning steps",
		},
		[]string{"step"},
	)

	// Health check counter by resulting status
	HealthCheckCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_health_checks_total",
			Help: "Total number of per-tenant health check passes by overall status",
		},
		[]string{"status"},
	)

	// Alert creation counter
	AlertCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_alerts_created_total",
			Help: "Total number of alerts persisted by alert type",
		},
		[]string{"alert_type"},
	)

	// Backup counter
	BackupCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_backups_total",
			Help: "Total number of shop backups by outcome",
		},
		[]string{"outcome"},
	)

	// Batch update counter
	BatchUpdateCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_batch_updates_total",
			Help: "Total number of batch shop updates by outcome",
		},
		[]string{"outcome"},
	)
)

// Histogram metrics
var (
	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shop_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)

	// Health check pass duration
	HealthCheckDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shop_health_check_duration_seconds",
			Help:    "Duration of per-tenant health check passes in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tenant_id"},
	)
)

// Gauge metrics
var (
	// Active shops
	ActiveShopsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "shop_active_total",
			Help: "Number of active shops",
		},
	)

	// Pending orders per tenant, refreshed by the health monitor
	PendingOrdersGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "shop_pending_orders",
			Help: "Number of pending orders observed by the last health check",
		},
		[]string{"tenant_id"},
	)
)

func init() {
	prometheus.MustRegister(
		ProvisioningCounter,
		ProvisioningStepErrorCounter,
		HealthCheckCounter,
		AlertCounter,
		BackupCounter,
		BatchUpdateCounter,
		DBOperationDuration,
		HealthCheckDuration,
		ActiveShopsGauge,
		PendingOrdersGauge,
	)
}

// RecordProvisioning records a provisioning run outcome
func RecordProvisioning(success bool) {
	ProvisioningCounter.With(prometheus.Labels{"outcome": outcome(success)}).Inc()
}

// RecordProvisioningStepError records a failed provisioning step
func RecordProvisioningStepError(step string) {
	ProvisioningStepErrorCounter.With(prometheus.Labels{"step": step}).Inc()
}

// RecordHealthCheck records a completed health check pass
func RecordHealthCheck(status string) {
	HealthCheckCounter.With(prometheus.Labels{"status": status}).Inc()
}

// RecordAlert records a persisted alert
func RecordAlert(alertType string) {
	AlertCounter.With(prometheus.Labels{"alert_type": alertType}).Inc()
}

// RecordBackup records a backup outcome
func RecordBackup(success bool) {
	BackupCounter.With(prometheus.Labels{"outcome": outcome(success)}).Inc()
}

// RecordBatchUpdate records a single batch update item outcome
func RecordBatchUpdate(success bool) {
	BatchUpdateCounter.With(prometheus.Labels{"outcome": outcome(success)}).Inc()
}

// TrackDBOperation returns a function that records the duration of a database
// operation when called. Intended for use with defer.
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.With(prometheus.Labels{"operation": operation}).Observe(time.Since(start).Seconds())
	}
}

// ObserveHealthCheckDuration records a health check pass duration
func ObserveHealthCheckDuration(tenantID string, d time.Duration) {
	HealthCheckDuration.With(prometheus.Labels{"tenant_id": tenantID}).Observe(d.Seconds())
}

// UpdatePendingOrders updates the pending orders gauge for a tenant
func UpdatePendingOrders(tenantID string, count int) {
	PendingOrdersGauge.With(prometheus.Labels{"tenant_id": tenantID}).Set(float64(count))
}

// UpdateActiveShops updates the active shops gauge
func UpdateActiveShops(count int) {
	ActiveShopsGauge.Set(float64(count))
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
