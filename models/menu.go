package models

// Menu disimpan di sheet Menus milik masing-masing kantin.
// Quantity nil berarti stok tidak dibatasi.
type Menu struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price" validate:"gte=0"`
	Image       string `json:"image,omitempty"`
	Available   bool   `json:"available"`
	Quantity    *int   `json:"quantity,omitempty" validate:"omitempty,gte=0"`
}

// HasStock melaporkan apakah stok menu cukup untuk qty porsi.
func (m Menu) HasStock(qty int) bool {
	if m.Quantity == nil {
		return true
	}
	return *m.Quantity >= qty
}

func (m Menu) ToRow() map[string]interface{} {
	row := map[string]interface{}{
		"id":          m.ID,
		"name":        m.Name,
		"description": m.Description,
		"price":       m.Price,
		"image":       m.Image,
		"available":   m.Available,
		"quantity":    "",
	}
	if m.Quantity != nil {
		row["quantity"] = *m.Quantity
	}
	return row
}

// DecrementStock menghitung stok baru tanpa pernah menjadi negatif.
func DecrementStock(current, ordered int) int {
	next := current - ordered
	if next < 0 {
		return 0
	}
	return next
}
