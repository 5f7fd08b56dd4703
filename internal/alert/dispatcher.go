package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"shop-service/internal/model"
	"shop-service/internal/store"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

type template struct {
	title       string
	description string
}

// templates maps each known alert type to its static title/description.
// Unknown types fall back to the generic template; dispatch never fails on an
// unrecognized type.
var templates = map[model.AlertType]template{
	model.AlertTypeHealthCheck: {
		title:       "Health check anomaly",
		description: "Detected abnormal configuration or runtime state",
	},
	model.AlertTypeOrderOverflow: {
		title:       "Order backlog alert",
		description: "Pending order count exceeded the configured threshold",
	},
	model.AlertTypeConnectionLost: {
		title:       "Database connection lost",
		description: "Unable to reach the backing store",
	},
}

var genericTemplate = template{
	title:       "System alert",
	description: "Detected a system anomaly",
}

// Dispatcher converts detected problems into persisted alert records
type Dispatcher struct {
	store store.Store
}

// NewDispatcher creates an alert dispatcher backed by the given store
func NewDispatcher(s store.Store) *Dispatcher {
	return &Dispatcher{store: s}
}

// Dispatch persists one alert for the tenant. The payload is stored as the
// alert's structured data. Persistence failures are logged, never returned:
// alerting must not fail the monitoring pass that triggered it.
func (d *Dispatcher) Dispatch(ctx context.Context, tenantID string, alertType model.AlertType, payload interface{}) {
	log := logger.FromContext(ctx)

	tmpl, ok := templates[alertType]
	if !ok {
		tmpl = genericTemplate
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to encode alert payload",
			zap.String("tenant_id", tenantID),
			zap.String("alert_type", string(alertType)),
			zap.Error(err))
		data = []byte("{}")
	}

	record := &model.Alert{
		TenantID:     tenantID,
		AlertType:    alertType,
		AlertTitle:   tmpl.title,
		AlertDesc:    fmt.Sprintf("%s - %s", tmpl.description, tenantID),
		AlertData:    string(data),
		Acknowledged: false,
	}

	if err := d.store.CreateAlert(ctx, record); err != nil {
		log.Error("failed to persist alert",
			zap.String("tenant_id", tenantID),
			zap.String("alert_type", string(alertType)),
			zap.Error(err))
		return
	}

	prometheus.RecordAlert(string(alertType))
	log.Info("alert created",
		zap.String("tenant_id", tenantID),
		zap.String("alert_type", string(alertType)),
		zap.Uint("alert_id", record.ID))
}

// Acknowledge marks an alert as seen
func (d *Dispatcher) Acknowledge(ctx context.Context, id uint) error {
	return d.store.AcknowledgeAlert(ctx, id)
}

// List returns the alert history for one tenant, newest first
func (d *Dispatcher) List(ctx context.Context, tenantID string) ([]model.Alert, error) {
	return d.store.ListAlerts(ctx, tenantID)
}
