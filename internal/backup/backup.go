package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"shop-service/internal/model"
	"shop-service/internal/store"
	"shop-service/pkg/logger"
	"shop-service/prometheus"
)

// recentOrderLimit bounds how many orders a backup carries
const recentOrderLimit = 100

// Document is the portable snapshot of one shop's full record set
type Document struct {
	Shop         *model.Shop     `json:"shop"`
	Dishes       []model.Dish    `json:"dishes"`
	Settings     []model.Setting `json:"settings"`
	RecentOrders []model.Order   `json:"recentOrders"`
}

// Archive is the serialized backup returned to the caller. It is not
// persisted by this service.
type Archive struct {
	Filename  string    `json:"filename"`
	Data      []byte    `json:"data"`
	Size      int       `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

// Service snapshots a tenant's record set into a single document
type Service struct {
	store store.Store
}

// NewService creates a backup service backed by the given store
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// BackupShop reads the shop and its dependent collections and serializes them
// into one indented JSON document. The shop row itself is required; failures
// reading the optional sub-collections degrade to empty collections so a
// flaky order table never blocks a backup.
func (s *Service) BackupShop(ctx context.Context, tenantID string) (*Archive, error) {
	log := logger.FromContext(ctx).With(zap.String("tenant_id", tenantID))

	shop, err := s.store.GetShop(ctx, tenantID)
	if err != nil {
		prometheus.RecordBackup(false)
		return nil, fmt.Errorf("backup shop %s: %w", tenantID, err)
	}

	doc := Document{
		Shop:         shop,
		Dishes:       []model.Dish{},
		Settings:     []model.Setting{},
		RecentOrders: []model.Order{},
	}

	if dishes, err := s.store.ListDishes(ctx, tenantID); err != nil {
		log.Warn("backup: failed to read dishes, continuing with empty set", zap.Error(err))
	} else if dishes != nil {
		doc.Dishes = dishes
	}

	if settings, err := s.store.ListSettings(ctx, tenantID); err != nil {
		log.Warn("backup: failed to read settings, continuing with empty set", zap.Error(err))
	} else if settings != nil {
		doc.Settings = settings
	}

	if orders, err := s.store.RecentOrders(ctx, tenantID, recentOrderLimit); err != nil {
		log.Warn("backup: failed to read recent orders, continuing with empty set", zap.Error(err))
	} else if orders != nil {
		doc.RecentOrders = orders
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		prometheus.RecordBackup(false)
		return nil, fmt.Errorf("backup shop %s: encode document: %w", tenantID, err)
	}

	now := time.Now().UTC()
	archive := &Archive{
		Filename:  fmt.Sprintf("backup_%s_%s.json", tenantID, now.Format("2006-01-02")),
		Data:      data,
		Size:      len(data),
		Timestamp: now,
	}

	prometheus.RecordBackup(true)
	log.Info("shop backup created",
		zap.String("filename", archive.Filename),
		zap.Int("size", archive.Size))

	return archive, nil
}
