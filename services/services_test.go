package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ekantin/events"
	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/sheets"
	"github.com/yeremiapane/ekantin/sheets/sheetstest"
	"github.com/yeremiapane/ekantin/store"
	"github.com/yeremiapane/ekantin/utils"
)

const testSecret = "test-secret"

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
}

func (r *recordingPublisher) PublishOrderEvent(_ context.Context, ev events.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) Events() []events.OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.OrderEvent(nil), r.events...)
}

type testEnv struct {
	server    *sheetstest.Server
	kantins   *KantinService
	auth      *AuthService
	menus     *MenuService
	orders    *OrderService
	publisher *recordingPublisher
	tokens    *utils.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	server := sheetstest.NewServer()
	t.Cleanup(server.Close)

	seedSheets(server)

	gateway := sheets.NewClient(server.URL, nil, server.Client())
	snapshots := store.NewMemorySnapshotStore()
	tokens := utils.NewTokenIssuer(testSecret, 0)
	publisher := &recordingPublisher{}

	kantins := NewKantinService(gateway, snapshots)
	menus := NewMenuService(gateway, kantins, snapshots)
	env := &testEnv{
		server:    server,
		kantins:   kantins,
		auth:      NewAuthService(kantins, tokens, "admin", "admin-pass"),
		menus:     menus,
		orders:    NewOrderService(gateway, kantins, menus, publisher, snapshots),
		publisher: publisher,
		tokens:    tokens,
	}
	t.Cleanup(func() {
		kantins.Wait()
		menus.Wait()
		env.orders.Wait()
	})
	return env
}

func seedSheets(server *sheetstest.Server) {
	server.Seed(models.SheetKantin,
		map[string]interface{}{
			"id":                "kantin-1",
			"name":              "Kantin Bu Sri",
			"ownerId":           "owner-1",
			"email":             "kantin@example.com",
			"password":          "secret",
			"spreadsheetApiUrl": server.URL,
			"isOpen":            true,
			"operatingHours":    `[{"day":"Senin","open":"07:00","close":"15:00","isOpen":true},{"day":9,"open":"","close":"","isOpen":"false"}]`,
			"createdAt":         "2026-01-01T00:00:00Z",
		},
		map[string]interface{}{
			"id":        "kantin-2",
			"name":      "Kantin Teknik",
			"email":     "teknik@example.com",
			"password":  "teknik",
			"isOpen":    "FALSE",
			"createdAt": "2026-02-01T00:00:00Z",
		},
	)
	server.Seed(models.SheetMenus,
		map[string]interface{}{"id": "m1", "name": "Nasi Goreng", "price": 15000, "available": true, "quantity": 5},
		map[string]interface{}{"id": "m2", "name": "Es Teh", "price": "5000", "available": "TRUE", "quantity": ""},
		map[string]interface{}{"id": "m3", "name": "Soto", "price": 12000, "available": false, "quantity": 10},
	)
	server.Seed(models.SheetOrders,
		map[string]interface{}{
			"id":        "txn-1",
			"code":      "EK-ABC123",
			"kantinId":  "kantin-1",
			"items":     `[{"menuId":"m1","menuName":"Nasi Goreng","quantity":2,"price":15000}]`,
			"total":     30000,
			"status":    "pending",
			"createdAt": "2026-01-02T10:00:00Z",
		},
		map[string]interface{}{
			"id":        "txn-2",
			"code":      "EK-DEF456",
			"kantinId":  "kantin-2",
			"items":     []interface{}{map[string]interface{}{"menuId": "m1", "quantity": 1, "price": 15000}},
			"total":     15000,
			"status":    "pending",
			"createdAt": "2026-01-03T10:00:00Z",
		},
	)
}

func requireKind(t *testing.T, err error, kind Kind, message string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected kind for %v", err)
	if message != "" {
		require.Equal(t, message, err.Error())
	}
}

func menuQuantity(t *testing.T, server *sheetstest.Server, id string) float64 {
	t.Helper()
	row := server.Row(models.SheetMenus, id)
	require.NotNil(t, row)
	q, ok := row["quantity"].(float64)
	require.True(t, ok, "quantity of %s is %v", id, row["quantity"])
	return q
}
