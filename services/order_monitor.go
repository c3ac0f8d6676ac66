package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// OrderMonitor polls the orders table and tells the screens to refresh when
// something changed outside this process (another terminal, a manual fix).
type OrderMonitor struct {
	DB        *gorm.DB
	Publisher kds.Publisher
	StopChan  chan struct{}
	Interval  time.Duration
	BatchSize int

	// Rows are read in (updated_at, id) order; the watermark is the last pair seen.
	watermark   time.Time
	watermarkID uint
}

// RefreshPayload is the data of an orders_refresh event.
type RefreshPayload struct {
	OrderIDs []uint    `json:"order_ids"`
	Since    time.Time `json:"since"`
}

func NewOrderMonitor(db *gorm.DB, publisher kds.Publisher, interval time.Duration) *OrderMonitor {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &OrderMonitor{
		DB:        db,
		Publisher: publisher,
		StopChan:  make(chan struct{}),
		Interval:  interval,
		BatchSize: 100,
		watermark: time.Now(),
	}
}

func (m *OrderMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := m.CheckChanges(context.Background()); err != nil {
					utils.ErrorLogger.Errorf("Order monitor: %v", err)
				}
			case <-m.StopChan:
				return
			}
		}
	}()
}

func (m *OrderMonitor) Stop() {
	close(m.StopChan)
}

// CheckChanges publishes one orders_refresh for the orders updated after the
// watermark, at most BatchSize at a time, then moves the watermark to the last
// one reported. Rows sharing an updated_at are told apart by id.
func (m *OrderMonitor) CheckChanges(ctx context.Context) (int, error) {
	var changed []models.Order
	if err := m.DB.WithContext(ctx).
		Select("id", "updated_at").
		Where("updated_at > ? OR (updated_at = ? AND id > ?)", m.watermark, m.watermark, m.watermarkID).
		Order("updated_at ASC").
		Order("id ASC").
		Limit(m.BatchSize).
		Find(&changed).Error; err != nil {
		return 0, err
	}
	if len(changed) == 0 {
		return 0, nil
	}

	payload := RefreshPayload{Since: m.watermark, OrderIDs: make([]uint, 0, len(changed))}
	for _, o := range changed {
		payload.OrderIDs = append(payload.OrderIDs, o.ID)
	}
	last := changed[len(changed)-1]
	m.watermark, m.watermarkID = last.UpdatedAt, last.ID

	msg := kds.Message{Event: kds.EventOrdersRefresh, Data: payload, OccurredAt: time.Now()}
	if err := m.Publisher.Publish(ctx, msg); err != nil {
		return len(changed), err
	}

	utils.InfoLogger.Debugf("Order monitor: %d orders changed", len(changed))
	return len(changed), nil
}
