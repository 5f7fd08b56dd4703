package provision

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shop-service/internal/model"
	"shop-service/internal/store"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

// ErrInvalidRequest is returned for requests that fail validation before any
// write is attempted
var ErrInvalidRequest = errors.New("invalid provisioning request")

// Pipeline step names, in execution order
const (
	StepCreateShop             = "create_shop"
	StepSeedSettings           = "seed_settings"
	StepCreateDishes           = "create_dishes"
	StepCreateRecommendations  = "create_recommendations"
	StepCreateMonitoringConfig = "create_monitoring_config"
)

// StepStatus is the outcome of one pipeline step
type StepStatus string

const (
	StepStatusSuccess StepStatus = "success"
	StepStatusError   StepStatus = "error"
	StepStatusSkipped StepStatus = "skipped"
)

// StepResult reports the outcome of one provisioning step
type StepResult struct {
	Step    string     `json:"step"`
	Status  StepStatus `json:"status"`
	Message string     `json:"message,omitempty"`
}

// SetupResult is the aggregate outcome of one provisioning run. Steps after
// the first failure are reported as skipped; writes from earlier steps are
// left in place.
type SetupResult struct {
	TenantID string       `json:"tenant_id"`
	Success  bool         `json:"success"`
	Steps    []StepResult `json:"steps"`
	Error    string       `json:"error,omitempty"`
}

// DishInput is one dish supplied with a setup request. ID is the positional
// id from the source menu and becomes the dish sort order.
type DishInput struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Category string   `json:"category"`
	Emoji    string   `json:"emoji"`
	Tags     []string `json:"tags"`
}

// SetupRequest carries everything needed to provision one shop
type SetupRequest struct {
	TenantID        string      `json:"tenant_id"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	ContactName     string      `json:"contact_name"`
	ContactPhone    string      `json:"contact_phone"`
	ContactEmail    string      `json:"contact_email"`
	Description     string      `json:"description"`
	ShopType        string      `json:"shop_type"`
	ThemeColor      string      `json:"theme_color"`
	WechatQRURL     string      `json:"wechat_qr_url"`
	AlipayQRURL     string      `json:"alipay_qr_url"`
	AdminPassword   string      `json:"admin_password"`
	Dishes          []DishInput `json:"dishes,omitempty"`
	RecommendDishes []uint      `json:"recommend_dishes,omitempty"`
}

// Validate checks the request before any write
func (r *SetupRequest) Validate() error {
	if r.TenantID == "" {
		return fmt.Errorf("%w: tenant_id is required", ErrInvalidRequest)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	for _, d := range r.Dishes {
		if d.Price < 0 {
			return fmt.Errorf("%w: dish %q has negative price", ErrInvalidRequest, d.Name)
		}
	}
	return nil
}

// UpdateRequest is one item of a batch shop update
type UpdateRequest struct {
	TenantID string            `json:"tenant_id"`
	Update   *model.ShopUpdate `json:"update"`
}

// UpdateResult reports the outcome of one batch update item
type UpdateResult struct {
	TenantID string `json:"tenant_id"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// Orchestrator executes the ordered shop onboarding pipeline
type Orchestrator struct {
	store       store.Store
	concurrency int
}

// NewOrchestrator creates a provisioning orchestrator. concurrency bounds the
// batch update fan-out.
func NewOrchestrator(s store.Store, concurrency int) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Orchestrator{store: s, concurrency: concurrency}
}

// SetupShop provisions a new shop across all dependent record sets, in strict
// order. Shop creation failure is fatal to the call. A later step's failure
// marks the run failed but leaves earlier writes intact; there is no
// compensating rollback.
func (o *Orchestrator) SetupShop(ctx context.Context, req *SetupRequest) *SetupResult {
	log := logger.FromContext(ctx).With(zap.String("tenant_id", req.TenantID))
	result := &SetupResult{TenantID: req.TenantID}

	if err := req.Validate(); err != nil {
		result.Error = err.Error()
		prometheus.RecordProvisioning(false)
		return result
	}

	log.Info("provisioning new shop")

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{StepCreateShop, func(ctx context.Context) error { return o.createShop(ctx, req) }},
		{StepSeedSettings, func(ctx context.Context) error {
			return o.store.CreateSettings(ctx, model.DefaultSettings(req.TenantID))
		}},
		{StepCreateDishes, func(ctx context.Context) error { return o.createDishes(ctx, req) }},
		{StepCreateRecommendations, func(ctx context.Context) error { return o.createRecommendations(ctx, req) }},
		{StepCreateMonitoringConfig, func(ctx context.Context) error { return o.createMonitoringConfig(ctx, req) }},
	}

	failed := false
	for _, step := range steps {
		if failed {
			result.Steps = append(result.Steps, StepResult{Step: step.name, Status: StepStatusSkipped})
			continue
		}
		if err := step.run(ctx); err != nil {
			log.Error("provisioning step failed", zap.String("step", step.name), zap.Error(err))
			prometheus.RecordProvisioningStepError(step.name)
			result.Steps = append(result.Steps, StepResult{Step: step.name, Status: StepStatusError, Message: err.Error()})
			result.Error = err.Error()
			failed = true
			continue
		}
		result.Steps = append(result.Steps, StepResult{Step: step.name, Status: StepStatusSuccess})
	}

	result.Success = !failed
	prometheus.RecordProvisioning(result.Success)
	if result.Success {
		log.Info("shop provisioned")
	}
	return result
}

func (o *Orchestrator) createShop(ctx context.Context, req *SetupRequest) error {
	shop := &model.Shop{
		TenantID:      req.TenantID,
		Name:          req.Name,
		Slug:          req.Slug,
		ContactName:   req.ContactName,
		ContactPhone:  req.ContactPhone,
		ContactEmail:  req.ContactEmail,
		Description:   req.Description,
		ShopType:      req.ShopType,
		ThemeColor:    req.ThemeColor,
		WechatQRURL:   req.WechatQRURL,
		AlipayQRURL:   req.AlipayQRURL,
		AdminPassword: req.AdminPassword,
		IsActive:      true,
	}
	return o.store.CreateShop(ctx, shop)
}

func (o *Orchestrator) createDishes(ctx context.Context, req *SetupRequest) error {
	if len(req.Dishes) == 0 {
		return nil
	}
	dishes := make([]model.Dish, 0, len(req.Dishes))
	for _, d := range req.Dishes {
		tags := d.Tags
		if tags == nil {
			tags = []string{}
		}
		dishes = append(dishes, model.Dish{
			TenantID:  req.TenantID,
			Name:      d.Name,
			Price:     d.Price,
			Category:  d.Category,
			Emoji:     d.Emoji,
			Tags:      tags,
			IsActive:  true,
			SortOrder: d.ID,
		})
	}
	return o.store.CreateDishes(ctx, dishes)
}

func (o *Orchestrator) createRecommendations(ctx context.Context, req *SetupRequest) error {
	if len(req.RecommendDishes) == 0 {
		return nil
	}
	recs := make([]model.Recommendation, 0, len(req.RecommendDishes))
	for i, dishID := range req.RecommendDishes {
		recs = append(recs, model.Recommendation{
			TenantID:  req.TenantID,
			DishID:    dishID,
			SortOrder: i + 1,
		})
	}
	return o.store.CreateRecommendations(ctx, recs)
}

func (o *Orchestrator) createMonitoringConfig(ctx context.Context, req *SetupRequest) error {
	cfg := &model.MonitoringConfig{
		TenantID:   req.TenantID,
		ShopName:   req.Name,
		AlertRules: model.DefaultAlertRules(),
		IsActive:   true,
	}
	return o.store.CreateMonitoringConfig(ctx, cfg)
}

// BatchUpdateShops applies each update independently. One item's failure never
// blocks the others; items run concurrently up to the configured limit.
// Cancellation stops scheduling new items; results for completed items are
// still returned.
func (o *Orchestrator) BatchUpdateShops(ctx context.Context, updates []UpdateRequest) []UpdateResult {
	var (
		mu      sync.Mutex
		results []UpdateResult
	)

	g := &errgroup.Group{}
	g.SetLimit(o.concurrency)

	for _, update := range updates {
		if ctx.Err() != nil {
			break
		}
		update := update
		g.Go(func() error {
			res := UpdateResult{TenantID: update.TenantID, Success: true}
			if update.Update == nil {
				update.Update = &model.ShopUpdate{}
			}
			if err := o.store.UpdateShop(ctx, update.TenantID, update.Update); err != nil {
				res.Success = false
				res.Error = err.Error()
			}
			prometheus.RecordBatchUpdate(res.Success)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; failures live in the result list.
	_ = g.Wait()
	return results
}
