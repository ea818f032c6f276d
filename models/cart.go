package models

import (
	"math"
	"sort"
)

// MaxItemQuantity adalah batas qty satu menu dalam satu pesanan.
const MaxItemQuantity = 1000

type CartItem struct {
	MenuID   string `json:"menuId" validate:"required"`
	MenuName string `json:"menuName"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Price    int64  `json:"price" validate:"gte=0"`
}

func (i CartItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Cart dikunci berdasarkan menuId.
type Cart map[string]CartItem

// Add menambah qty bila menu sudah ada. Nama dan harga diambil dari menu
// terakhir yang ditambahkan.
func (c Cart) Add(menu Menu, qty int) {
	if qty <= 0 {
		return
	}
	item := c[menu.ID]
	item.MenuID = menu.ID
	item.MenuName = menu.Name
	item.Price = menu.Price
	item.Quantity += qty
	c[menu.ID] = item
}

// SetQuantity mengganti qty; qty <= 0 menghapus item.
func (c Cart) SetQuantity(menuID string, qty int) {
	item, ok := c[menuID]
	if !ok {
		return
	}
	if qty <= 0 {
		delete(c, menuID)
		return
	}
	item.Quantity = qty
	c[menuID] = item
}

func (c Cart) Remove(menuID string) {
	delete(c, menuID)
}

// Items mengembalikan isi keranjang terurut berdasarkan menuId.
func (c Cart) Items() []CartItem {
	items := make([]CartItem, 0, len(c))
	for _, item := range c {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].MenuID < items[j].MenuID })
	return items
}

func (c Cart) Total() int64 {
	total, _ := c.CheckedTotal()
	return total
}

// CheckedTotal mengembalikan false bila total melebihi int64 atau ada
// nilai negatif.
func (c Cart) CheckedTotal() (int64, bool) {
	var total int64
	for _, item := range c {
		if item.Price < 0 || item.Quantity < 0 {
			return 0, false
		}
		if item.Quantity > 0 && item.Price > math.MaxInt64/int64(item.Quantity) {
			return 0, false
		}
		sub := item.Subtotal()
		if total > math.MaxInt64-sub {
			return 0, false
		}
		total += sub
	}
	return total, true
}

func (c Cart) Count() int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}
