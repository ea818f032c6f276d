package models

import (
	"encoding/json"
	"fmt"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusReady      OrderStatus = "ready"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusReady, StatusCancelled},
	StatusProcessing: {StatusReady, StatusCompleted, StatusCancelled},
	StatusReady:      {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition melaporkan apakah status boleh berubah dari s ke next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ConsumesStock bernilai true untuk perpindahan yang memotong stok menu.
func ConsumesStock(previous, next OrderStatus) bool {
	return previous == StatusPending && (next == StatusProcessing || next == StatusReady)
}

type DeliveryLocation struct {
	Name        string `json:"name"`
	TableNumber string `json:"tableNumber"`
	ScannedAt   string `json:"scannedAt,omitempty"`
}

// Transaction adalah satu pesanan pada sheet Pesanan.
type Transaction struct {
	ID               string            `json:"id" validate:"required"`
	Code             string            `json:"code"`
	KantinID         string            `json:"kantinId" validate:"required"`
	KantinName       string            `json:"kantinName,omitempty"`
	CustomerName     string            `json:"customerName,omitempty"`
	Items            []CartItem        `json:"items" validate:"dive"`
	Total            int64             `json:"total" validate:"gte=0"`
	PaymentProof     string            `json:"paymentProof,omitempty"`
	DeliveryLocation *DeliveryLocation `json:"deliveryLocation,omitempty"`
	Status           OrderStatus       `json:"status" validate:"required,oneof=pending processing ready completed cancelled"`
	CreatedAt        string            `json:"createdAt"`
	UpdatedAt        string            `json:"updatedAt,omitempty"`
}

// QuantitiesByMenu menjumlahkan qty per menuId.
func (t Transaction) QuantitiesByMenu() map[string]int {
	out := make(map[string]int, len(t.Items))
	for _, item := range t.Items {
		if item.MenuID == "" || item.Quantity <= 0 {
			continue
		}
		out[item.MenuID] += item.Quantity
	}
	return out
}

// ToRow: items dan deliveryLocation disimpan sebagai string JSON.
func (t Transaction) ToRow() (map[string]interface{}, error) {
	items := t.Items
	if items == nil {
		items = []CartItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	location := ""
	if t.DeliveryLocation != nil {
		b, err := json.Marshal(t.DeliveryLocation)
		if err != nil {
			return nil, fmt.Errorf("encode delivery location: %w", err)
		}
		location = string(b)
	}
	return map[string]interface{}{
		"id":               t.ID,
		"code":             t.Code,
		"kantinId":         t.KantinID,
		"kantinName":       t.KantinName,
		"customerName":     t.CustomerName,
		"items":            string(itemsJSON),
		"total":            t.Total,
		"paymentProof":     t.PaymentProof,
		"deliveryLocation": location,
		"status":           string(t.Status),
		"createdAt":        t.CreatedAt,
		"updatedAt":        t.UpdatedAt,
	}, nil
}
