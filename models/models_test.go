package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDay(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int
	}{
		{"indonesian", "Kamis", 4},
		{"indonesian upper", " MINGGU ", 7},
		{"jumat apostrophe", "Jum'at", 5},
		{"english", "saturday", 6},
		{"numeric string", "3", 3},
		{"float", float64(2), 2},
		{"int", 5, 5},
		{"too large", 9, 7},
		{"zero", 0, 1},
		{"negative string", "-4", 1},
		{"unknown name", "libur", 1},
		{"nil", nil, 1},
		{"bool", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDay(tt.in))
		})
	}
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "Senin", DayName(1))
	assert.Equal(t, "Minggu", DayName(7))
	assert.Equal(t, "Minggu", DayName(12))
}

func TestDefaultOperatingHours(t *testing.T) {
	hours := DefaultOperatingHours()
	require.Len(t, hours, 7)
	for _, h := range hours {
		assert.Equal(t, DefaultOpenTime, h.Open)
		assert.Equal(t, DefaultCloseTime, h.Close)
		assert.Equal(t, h.Day <= 5, h.IsOpen, "day %d", h.Day)
	}
}

func TestParseOperatingHours(t *testing.T) {
	t.Run("json string", func(t *testing.T) {
		got := ParseOperatingHours(`[
			{"day":"Rabu","open":"09:00","close":"14:00","isOpen":"TRUE"},
			{"day":1,"open":"","close":"","isOpen":false},
			{"day":"3","open":"10:00","close":"11:00","isOpen":true},
			"bukan object"
		]`)
		assert.Equal(t, []OperatingHours{
			{Day: 1, Open: "08:00", Close: "17:00", IsOpen: false},
			{Day: 3, Open: "09:00", Close: "14:00", IsOpen: true},
		}, got)
	})

	t.Run("array", func(t *testing.T) {
		got := ParseOperatingHours([]interface{}{
			map[string]interface{}{"day": float64(7), "open": "06:00", "close": "10:00", "isOpen": float64(1)},
		})
		assert.Equal(t, []OperatingHours{{Day: 7, Open: "06:00", Close: "10:00", IsOpen: true}}, got)
	})

	t.Run("invalid", func(t *testing.T) {
		assert.Empty(t, ParseOperatingHours("{rusak"))
		assert.Empty(t, ParseOperatingHours(""))
		assert.Empty(t, ParseOperatingHours(nil))
		assert.Empty(t, ParseOperatingHours(42))
	})
}

func TestEncodeOperatingHoursRoundTrip(t *testing.T) {
	encoded := EncodeOperatingHours(DefaultOperatingHours())
	assert.Equal(t, DefaultOperatingHours(), ParseOperatingHours(encoded))
	assert.Equal(t, "[]", EncodeOperatingHours(nil))
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusReady, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusProcessing, StatusReady, true},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusPending, false},
		{StatusReady, StatusCompleted, true},
		{StatusReady, StatusProcessing, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}

	assert.False(t, OrderStatus("shipped").Valid())
	assert.True(t, StatusCompleted.Terminal())
	assert.False(t, StatusReady.Terminal())
}

func TestConsumesStock(t *testing.T) {
	assert.True(t, ConsumesStock(StatusPending, StatusProcessing))
	assert.True(t, ConsumesStock(StatusPending, StatusReady))
	assert.False(t, ConsumesStock(StatusProcessing, StatusReady))
	assert.False(t, ConsumesStock(StatusPending, StatusCancelled))
	assert.False(t, ConsumesStock(StatusReady, StatusCompleted))
}

func TestTransactionQuantitiesAndRow(t *testing.T) {
	txn := Transaction{
		ID:       "txn-1",
		KantinID: "kantin-1",
		Items: []CartItem{
			{MenuID: "m1", Quantity: 2, Price: 1000},
			{MenuID: "m1", Quantity: 1, Price: 1000},
			{MenuID: "m2", Quantity: 0, Price: 500},
			{MenuID: "", Quantity: 4},
		},
		Status:           StatusPending,
		DeliveryLocation: &DeliveryLocation{Name: "Gazebo", TableNumber: "2"},
	}
	assert.Equal(t, map[string]int{"m1": 3}, txn.QuantitiesByMenu())

	row, err := txn.ToRow()
	require.NoError(t, err)
	items, ok := row["items"].(string)
	require.True(t, ok)

	var decoded []CartItem
	require.NoError(t, json.Unmarshal([]byte(items), &decoded))
	assert.Equal(t, txn.Items, decoded)
	assert.JSONEq(t, `{"name":"Gazebo","tableNumber":"2"}`, row["deliveryLocation"].(string))
	assert.Equal(t, "pending", row["status"])
}

func TestCart(t *testing.T) {
	nasi := Menu{ID: "m1", Name: "Nasi Goreng", Price: 15000}
	teh := Menu{ID: "m2", Name: "Es Teh", Price: 5000}

	cart := Cart{}
	cart.Add(teh, 1)
	cart.Add(nasi, 2)
	cart.Add(teh, 2)
	cart.Add(nasi, 0)

	assert.Equal(t, 5, cart.Count())
	assert.Equal(t, int64(2*15000+3*5000), cart.Total())
	assert.Equal(t, []CartItem{
		{MenuID: "m1", MenuName: "Nasi Goreng", Quantity: 2, Price: 15000},
		{MenuID: "m2", MenuName: "Es Teh", Quantity: 3, Price: 5000},
	}, cart.Items())

	nasi.Price = 16000
	cart.Add(nasi, 1)
	assert.Equal(t, int64(16000), cart.Items()[0].Price)

	cart.SetQuantity("m2", 0)
	cart.SetQuantity("m404", 3)
	assert.Len(t, cart, 1)

	cart.Remove("m1")
	assert.Zero(t, cart.Count())
	assert.Empty(t, cart.Items())
}

func TestCartCheckedTotal(t *testing.T) {
	cart := Cart{}
	cart.Add(Menu{ID: "m1", Price: 15000}, 2)
	total, ok := cart.CheckedTotal()
	assert.True(t, ok)
	assert.Equal(t, int64(30000), total)

	big := Cart{}
	big.Add(Menu{ID: "m1", Price: math.MaxInt64 / 2}, 3)
	_, ok = big.CheckedTotal()
	assert.False(t, ok)
	assert.Zero(t, big.Total())

	sum := Cart{}
	sum.Add(Menu{ID: "m1", Price: math.MaxInt64 - 10}, 1)
	sum.Add(Menu{ID: "m2", Price: 11}, 1)
	_, ok = sum.CheckedTotal()
	assert.False(t, ok)

	negative := Cart{"m1": {MenuID: "m1", Price: -1, Quantity: 1}}
	_, ok = negative.CheckedTotal()
	assert.False(t, ok)
}

func TestMenuStock(t *testing.T) {
	five := 5
	limited := Menu{ID: "m1", Quantity: &five}
	unlimited := Menu{ID: "m2"}

	assert.True(t, limited.HasStock(5))
	assert.False(t, limited.HasStock(6))
	assert.True(t, unlimited.HasStock(1000))

	assert.Equal(t, 2, DecrementStock(5, 3))
	assert.Equal(t, 0, DecrementStock(2, 3))

	assert.Equal(t, "", unlimited.ToRow()["quantity"])
	assert.Equal(t, 5, limited.ToRow()["quantity"])
}

func TestKantinPublicHidesPassword(t *testing.T) {
	k := KantinAccount{ID: "k1", Name: "Kantin", Password: "hash", Email: "A@Example.com"}
	pub := k.Public()
	assert.Empty(t, pub.Password)
	assert.NotNil(t, pub.OperatingHours)
	assert.True(t, k.MatchesEmail(" a@example.com "))
	assert.False(t, KantinAccount{}.MatchesEmail(""))

	b, err := json.Marshal(pub)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "password")
}
