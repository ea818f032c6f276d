package services

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/sheets"
)

func kantinFromRow(r sheets.Row) (models.KantinAccount, error) {
	return models.KantinAccount{
		ID:                r.String("id"),
		Name:              r.String("name"),
		Description:       r.String("description"),
		OwnerID:           r.String("ownerId"),
		Password:          rawString(r, "password"),
		Email:             r.String("email"),
		Whatsapp:          r.String("whatsapp"),
		CoverImage:        r.String("coverImage"),
		QrisImage:         r.String("qrisImage"),
		SpreadsheetAPIURL: r.String("spreadsheetApiUrl"),
		SpreadsheetURL:    r.String("spreadsheetUrl"),
		IsOpen:            r.Bool("isOpen"),
		OperatingHours:    models.ParseOperatingHours(r.Raw("operatingHours")),
		CreatedAt:         r.String("createdAt"),
	}, nil
}

func menuFromRow(r sheets.Row) (models.Menu, error) {
	price, ok := r.Int("price")
	if !ok && r.Has("price") {
		return models.Menu{}, fmt.Errorf("price %q bukan angka", r.String("price"))
	}
	return models.Menu{
		ID:          r.String("id"),
		Name:        r.String("name"),
		Description: r.String("description"),
		Price:       price,
		Image:       r.String("image"),
		Available:   availability(r),
		Quantity:    r.OptionalInt("quantity"),
	}, nil
}

// availability: kolom kosong dianggap tersedia.
func availability(r sheets.Row) bool {
	if !r.Has("available") {
		return true
	}
	return r.Bool("available")
}

func orderFromRow(r sheets.Row) (models.Transaction, error) {
	items, err := itemsFromRow(r)
	if err != nil {
		return models.Transaction{}, err
	}

	var location *models.DeliveryLocation
	if r.Has("deliveryLocation") {
		var loc models.DeliveryLocation
		if err := r.JSON("deliveryLocation", &loc); err != nil {
			return models.Transaction{}, fmt.Errorf("deliveryLocation: %w", err)
		}
		location = &loc
	}

	total, _ := r.Int("total")
	return models.Transaction{
		ID:               r.String("id"),
		Code:             r.String("code"),
		KantinID:         r.String("kantinId"),
		KantinName:       r.String("kantinName"),
		CustomerName:     r.String("customerName"),
		Items:            items,
		Total:            total,
		PaymentProof:     r.String("paymentProof"),
		DeliveryLocation: location,
		Status:           models.OrderStatus(strings.ToLower(r.String("status"))),
		CreatedAt:        r.String("createdAt"),
		UpdatedAt:        r.String("updatedAt"),
	}, nil
}

// itemsFromRow membaca items yang bisa berupa string JSON atau array,
// dengan quantity dan price yang mungkin tersimpan sebagai string.
func itemsFromRow(r sheets.Row) ([]models.CartItem, error) {
	var raw []map[string]interface{}
	if err := r.JSON("items", &raw); err != nil {
		return nil, fmt.Errorf("items: %w", err)
	}

	items := make([]models.CartItem, 0, len(raw))
	for _, m := range raw {
		row := sheets.Row(m)
		qty, _ := row.Int("quantity")
		price, _ := row.Int("price")
		items = append(items, models.CartItem{
			MenuID:   row.String("menuId"),
			MenuName: row.String("menuName"),
			Quantity: int(qty),
			Price:    price,
		})
	}
	return items, nil
}

// rawString tidak melakukan trim agar password dibandingkan persis.
func rawString(r sheets.Row, key string) string {
	if s, ok := r.Raw(key).(string); ok {
		return s
	}
	return r.String(key)
}
