// Package events menyebarkan perubahan pesanan ke dashboard kantin dan
// ke broker pesan bila dikonfigurasi.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/ekantin/models"
)

const (
	OrderCreated       = "order_created"
	OrderStatusUpdated = "order_status_updated"
)

type OrderEvent struct {
	Type           string             `json:"event"`
	KantinID       string             `json:"kantinId"`
	Order          models.Transaction `json:"order"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
	Message        string             `json:"message,omitempty"`
	OccurredAt     time.Time          `json:"occurredAt"`
}

type Publisher interface {
	PublishOrderEvent(ctx context.Context, ev OrderEvent) error
}

// Multi meneruskan event ke semua publisher dan menggabungkan error.
type Multi []Publisher

func (m Multi) PublishOrderEvent(ctx context.Context, ev OrderEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.PublishOrderEvent(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) PublishOrderEvent(context.Context, OrderEvent) error { return nil }
