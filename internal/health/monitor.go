package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shop-service/internal/alert"
	"shop-service/internal/model"
	"shop-service/internal/store"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

// Status is the outcome of a single health check
type Status string

const (
	StatusHealthy Status = "healthy"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Check names
const (
	CheckOrderProcessing = "order_processing"
	CheckConnection      = "connection"
	CheckConfiguration   = "configuration"
)

// CheckResult is one check's contribution to a tenant's health report
type CheckResult struct {
	Check   string                 `json:"check"`
	Status  Status                 `json:"status"`
	Details map[string]interface{} `json:"details"`
}

// Report aggregates all checks for one tenant. OverallStatus is healthy only
// when every check is healthy.
type Report struct {
	TenantID      string        `json:"tenantId"`
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []CheckResult `json:"checks"`
	OverallStatus Status        `json:"overallStatus"`
}

// Monitor runs periodic health checks against tenant shops
type Monitor struct {
	store        store.Store
	dispatcher   *alert.Dispatcher
	checkTimeout time.Duration
	concurrency  int
}

// NewMonitor creates a health monitor. checkTimeout bounds each store call
// within a check; concurrency bounds the all-tenant fan-out.
func NewMonitor(s store.Store, d *alert.Dispatcher, checkTimeout time.Duration, concurrency int) *Monitor {
	if checkTimeout <= 0 {
		checkTimeout = 10 * time.Second
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Monitor{
		store:        s,
		dispatcher:   d,
		checkTimeout: checkTimeout,
		concurrency:  concurrency,
	}
}

// CheckShop runs all checks for one tenant and assembles the composite
// report. The three checks touch disjoint data and run concurrently; a
// failing check downgrades to status=error and never aborts the others.
// Any non-healthy check produces a single batched alert.
func (m *Monitor) CheckShop(ctx context.Context, tenantID string) *Report {
	log := logger.FromContext(ctx).With(zap.String("tenant_id", tenantID))
	start := time.Now()

	checks := make([]CheckResult, 3)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		checks[0] = m.checkOrderProcessing(gctx, tenantID)
		return nil
	})
	g.Go(func() error {
		checks[1] = m.checkConnection(gctx)
		return nil
	})
	g.Go(func() error {
		checks[2] = m.checkConfiguration(gctx, tenantID)
		return nil
	})
	_ = g.Wait()

	report := &Report{
		TenantID:      tenantID,
		Timestamp:     time.Now().UTC(),
		Checks:        checks,
		OverallStatus: StatusHealthy,
	}

	var problems []CheckResult
	for _, c := range checks {
		if c.Status != StatusHealthy {
			problems = append(problems, c)
			report.OverallStatus = StatusWarning
		}
	}

	if len(problems) > 0 {
		m.dispatcher.Dispatch(ctx, tenantID, model.AlertTypeHealthCheck, problems)
	}

	prometheus.RecordHealthCheck(string(report.OverallStatus))
	prometheus.ObserveHealthCheckDuration(tenantID, time.Since(start))
	log.Debug("health check completed",
		zap.String("overall_status", string(report.OverallStatus)),
		zap.Int("problems", len(problems)))

	return report
}

// checkOrderProcessing inspects the tenant's pending order backlog. An order
// is long-waiting once its age exceeds the tenant's configured
// max_waiting_time; the default applies when no config row exists.
func (m *Monitor) checkOrderProcessing(ctx context.Context, tenantID string) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, m.checkTimeout)
	defer cancel()

	maxWaiting := time.Duration(model.DefaultAlertRules().MaxWaitingTime) * time.Minute
	cfg, err := m.store.GetMonitoringConfig(ctx, tenantID)
	if err == nil && cfg.AlertRules.MaxWaitingTime > 0 {
		maxWaiting = time.Duration(cfg.AlertRules.MaxWaitingTime) * time.Minute
	} else if err != nil && !errors.Is(err, store.ErrConfigNotFound) {
		return errorResult(CheckOrderProcessing, err)
	}

	pending, err := m.store.PendingOrders(ctx, tenantID)
	if err != nil {
		return errorResult(CheckOrderProcessing, err)
	}

	now := time.Now()
	longWaiting := 0
	for _, o := range pending {
		if now.Sub(o.CreatedAt) > maxWaiting {
			longWaiting++
		}
	}

	details := map[string]interface{}{
		"pendingOrders":     len(pending),
		"longWaitingOrders": longWaiting,
	}
	if len(pending) > 0 {
		details["oldestOrder"] = pending[0].CreatedAt
	}
	prometheus.UpdatePendingOrders(tenantID, len(pending))

	status := StatusHealthy
	if longWaiting > 0 {
		status = StatusWarning
	}
	return CheckResult{Check: CheckOrderProcessing, Status: status, Details: details}
}

// checkConnection verifies the backing store is reachable
func (m *Monitor) checkConnection(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, m.checkTimeout)
	defer cancel()

	if err := m.store.Ping(ctx); err != nil {
		return errorResult(CheckConnection, err)
	}
	return CheckResult{
		Check:   CheckConnection,
		Status:  StatusHealthy,
		Details: map[string]interface{}{"connected": true},
	}
}

// checkConfiguration verifies the monitoring config and settings rows exist
func (m *Monitor) checkConfiguration(ctx context.Context, tenantID string) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, m.checkTimeout)
	defer cancel()

	hasConfig := true
	if _, err := m.store.GetMonitoringConfig(ctx, tenantID); err != nil {
		if !errors.Is(err, store.ErrConfigNotFound) {
			return errorResult(CheckConfiguration, err)
		}
		hasConfig = false
	}

	settings, err := m.store.ListSettings(ctx, tenantID)
	if err != nil {
		return errorResult(CheckConfiguration, err)
	}

	details := map[string]interface{}{
		"hasMonitoringConfig": hasConfig,
		"settingsCount":       len(settings),
	}
	status := StatusHealthy
	if !hasConfig || len(settings) == 0 {
		status = StatusWarning
	}
	return CheckResult{Check: CheckConfiguration, Status: status, Details: details}
}

func errorResult(check string, err error) CheckResult {
	return CheckResult{
		Check:   check,
		Status:  StatusError,
		Details: map[string]interface{}{"error": err.Error()},
	}
}

// CheckAllShops runs one health pass per tenant through a bounded worker
// pool. Cancellation stops scheduling new tenants; reports for tenants
// already in flight are still collected and returned.
func (m *Monitor) CheckAllShops(ctx context.Context, tenantIDs []string) []*Report {
	var (
		mu      sync.Mutex
		reports []*Report
	)

	g := &errgroup.Group{}
	g.SetLimit(m.concurrency)

	for _, tenantID := range tenantIDs {
		if ctx.Err() != nil {
			break
		}
		tenantID := tenantID
		g.Go(func() error {
			report := m.CheckShop(ctx, tenantID)
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return reports
}
