package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ekantin/config"
	"github.com/yeremiapane/ekantin/events"
	"github.com/yeremiapane/ekantin/kds"
	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/router"
	"github.com/yeremiapane/ekantin/services"
	"github.com/yeremiapane/ekantin/sheets"
	"github.com/yeremiapane/ekantin/sheets/sheetstest"
	"github.com/yeremiapane/ekantin/store"
	"github.com/yeremiapane/ekantin/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger()
	os.Exit(m.Run())
}

type testApp struct {
	router *gin.Engine
	script *sheetstest.Server
	hub    *kds.Hub
	deps   router.Dependencies
}

// setupApp menyiapkan router lengkap di atas Apps Script palsu.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	script := sheetstest.NewServer()
	t.Cleanup(script.Close)

	hash, err := utils.HashPassword("secret")
	require.NoError(t, err)

	script.Seed(models.SheetKantin, map[string]interface{}{
		"id":                "kantin-1",
		"name":              "Kantin Bu Sri",
		"email":             "kantin@example.com",
		"password":          hash,
		"spreadsheetApiUrl": script.URL,
		"isOpen":            true,
		"operatingHours":    models.EncodeOperatingHours(models.DefaultOperatingHours()),
		"createdAt":         "2026-01-01T00:00:00Z",
	})
	script.Seed(models.SheetMenus,
		map[string]interface{}{"id": "m1", "name": "Nasi Goreng", "price": 15000, "available": true, "quantity": 5},
		map[string]interface{}{"id": "m2", "name": "Es Teh", "price": 5000, "available": true, "quantity": ""},
	)
	script.Seed(models.SheetOrders, map[string]interface{}{
		"id":        "txn-1",
		"code":      "EK-ABC123",
		"kantinId":  "kantin-1",
		"items":     `[{"menuId":"m1","menuName":"Nasi Goreng","quantity":2,"price":15000}]`,
		"total":     30000,
		"status":    "pending",
		"createdAt": "2026-01-02T10:00:00Z",
	})

	cfg := &config.Config{
		CORSOrigins:        []string{"*"},
		GoogleClientID:     "client-id.apps.googleusercontent.com",
		SuperAdminUsername: "admin",
		SuperAdminPassword: "admin-pass",
	}
	gateway := sheets.NewClient(script.URL, nil, script.Client())
	snapshots := store.NewMemorySnapshotStore()
	tokens := utils.NewTokenIssuer("integration-secret", 0)
	hub := kds.NewHub()

	kantins := services.NewKantinService(gateway, snapshots)
	menus := services.NewMenuService(gateway, kantins, snapshots)
	orders := services.NewOrderService(gateway, kantins, menus, events.Multi{hub}, snapshots)
	deps := router.Dependencies{
		Config:   cfg,
		Gateway:  gateway,
		Auth:     services.NewAuthService(kantins, tokens, cfg.SuperAdminUsername, cfg.SuperAdminPassword),
		Kantins:  kantins,
		Menus:    menus,
		Orders:   orders,
		Uploader: services.NewDriveUploader(""),
		Hub:      hub,
	}
	t.Cleanup(func() {
		kantins.Wait()
		menus.Wait()
		orders.Wait()
	})

	return &testApp{router: router.SetupRouter(deps), script: script, hub: hub, deps: deps}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func stockOf(t *testing.T, script *sheetstest.Server, id string) float64 {
	t.Helper()
	q, ok := script.Row(models.SheetMenus, id)["quantity"].(float64)
	require.True(t, ok)
	return q
}

// TestEndToEndIntegration menguji flow utama:
// 1. Login kantin -> token
// 2. Update status txn-1 ke processing -> stok m1 terpotong sekali
// 3. Checkout pelanggan -> pesanan baru masuk ke dashboard
// 4. Pelanggan melacak pesanan
func TestEndToEndIntegration(t *testing.T) {
	app := setupApp(t)

	token := loginTest(t, app)
	updateStatusTest(t, app, token)
	code := checkoutTest(t, app)
	trackTest(t, app, code, token)
}

func loginTest(t *testing.T, app *testApp) string {
	w, resp := app.do(t, http.MethodPost, "/api/auth/kantin/login", "", gin.H{
		"email":    "KANTIN@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, resp["success"])
	assert.NotContains(t, w.Body.String(), "password")

	token, ok := resp["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	w, resp = app.do(t, http.MethodPost, "/api/auth/kantin/login", "", gin.H{
		"email":    "kantin@example.com",
		"password": "Secret",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Password salah", resp["error"])

	w, resp = app.do(t, http.MethodPost, "/api/auth/kantin/login", "", gin.H{
		"email":    "nobody@example.com",
		"password": "secret",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Email tidak ditemukan", resp["error"])

	w, resp = app.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "kantin-1", data["id"])
	return token
}

func updateStatusTest(t *testing.T, app *testApp, token string) {
	body := gin.H{"transactionId": "txn-1", "status": "processing"}

	w, resp := app.do(t, http.MethodPost, "/api/auth/kantin/update-transaction-status", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Status transaksi berhasil diupdate", resp["message"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "pending", data["previousStatus"])
	assert.Equal(t, true, data["stockAdjusted"])
	assert.Equal(t, float64(3), stockOf(t, app.script, "m1"))

	w, _ = app.do(t, http.MethodPost, "/api/auth/kantin/update-transaction-status", token, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), stockOf(t, app.script, "m1"))

	w, resp = app.do(t, http.MethodPost, "/api/auth/kantin/update-transaction-status", token, gin.H{"transactionId": "txn-1", "status": "pending"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, resp["success"])

	w, resp = app.do(t, http.MethodPost, "/api/auth/kantin/update-transaction-status", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token tidak ditemukan", resp["error"])
}

func checkoutTest(t *testing.T, app *testApp) string {
	server := httptest.NewServer(app.router)
	defer server.Close()

	token := loginToken(t, app)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/kantin?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return app.hub.ClientCount("kantin-1") == 1 }, 2*time.Second, 10*time.Millisecond)

	w, resp := app.do(t, http.MethodPost, "/api/kantin/kantin-1/checkout", "", gin.H{
		"customerName": "Budi",
		"items": []gin.H{
			{"menuId": "m1", "quantity": 1},
			{"menuId": "m2", "quantity": 3},
		},
		"paymentProof":     "https://drive.google.com/uc?export=view&id=proof",
		"deliveryLocation": gin.H{"name": "Meja Taman", "tableNumber": "4"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(30000), order["total"])
	assert.Equal(t, "pending", order["status"])

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg kds.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, events.OrderCreated, msg.Event)

	w, resp = app.do(t, http.MethodPost, "/api/kantin/kantin-1/checkout", "", gin.H{
		"items":        []gin.H{{"menuId": "m1", "quantity": 9}},
		"paymentProof": "proof",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Stok Nasi Goreng tidak mencukupi", resp["error"])

	return order["code"].(string)
}

func loginToken(t *testing.T, app *testApp) string {
	result, err := app.deps.Auth.KantinLogin(context.Background(), "kantin@example.com", "secret")
	require.NoError(t, err)
	return result.Token
}

func trackTest(t *testing.T, app *testApp, code, token string) {
	w, resp := app.do(t, http.MethodGet, "/api/kantin/kantin-1/orders/"+strings.ToLower(code), "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, code, resp["data"].(map[string]interface{})["code"])

	w, resp = app.do(t, http.MethodGet, "/api/kantin/me/orders?status=pending", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := resp["data"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, code, list[0].(map[string]interface{})["code"])
}

func TestPublicKantinEndpoints(t *testing.T) {
	app := setupApp(t)

	w, resp := app.do(t, http.MethodGet, "/api/kantin", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 1)
	assert.NotContains(t, w.Body.String(), "password")

	w, resp = app.do(t, http.MethodGet, "/api/kantin/kantin-1/menus", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["data"], 2)

	w, resp = app.do(t, http.MethodGet, "/api/kantin/kantin-404", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Kantin tidak ditemukan", resp["error"])

	w, resp = app.do(t, http.MethodGet, "/api/auth/google/config", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cfg := resp["data"].(map[string]interface{})
	assert.Equal(t, "client-id.apps.googleusercontent.com", cfg["clientId"])
	assert.Equal(t, services.DriveScope, cfg["scope"])
}

func TestSuperAdminManagesKantin(t *testing.T) {
	app := setupApp(t)

	w, resp := app.do(t, http.MethodPost, "/api/auth/superadmin/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Username atau password salah", resp["error"])

	w, resp = app.do(t, http.MethodPost, "/api/auth/superadmin/login", "", gin.H{"username": "admin", "password": "admin-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	token := resp["token"].(string)
	assert.Equal(t, "superadmin", resp["data"].(map[string]interface{})["role"])

	w, resp = app.do(t, http.MethodPost, "/api/superadmin/kantin", token, gin.H{
		"name":     "Kantin Teknik",
		"email":    "teknik@example.com",
		"password": "teknik123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := resp["data"].(map[string]interface{})
	id := created["id"].(string)
	assert.True(t, strings.HasPrefix(id, "kantin-"))
	assert.Len(t, created["operatingHours"], 7)

	stored := app.script.Row(models.SheetKantin, id)
	require.NotNil(t, stored)
	assert.True(t, utils.IsPasswordHash(stored["password"].(string)))

	w, resp = app.do(t, http.MethodPost, "/api/superadmin/kantin", token, gin.H{
		"name":     "Duplikat",
		"email":    "Teknik@Example.com",
		"password": "x",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email sudah digunakan", resp["error"])

	w, _ = app.do(t, http.MethodDelete, "/api/superadmin/kantin/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, app.script.Row(models.SheetKantin, id))

	// token kantin tidak boleh mengakses route super admin
	w, resp = app.do(t, http.MethodGet, "/api/superadmin/kantin", loginToken(t, app), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Akses ditolak", resp["error"])
}

func TestGoogleScriptProxyHTMLResponse(t *testing.T) {
	app := setupApp(t)
	app.script.ServeHTML(true)

	w, resp := app.do(t, http.MethodGet, "/api/google-script?sheet=AkunKantin", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, sheets.ErrHTMLResponse.Error(), resp["error"])
}

func TestGoogleScriptProxyForwardsJSON(t *testing.T) {
	app := setupApp(t)

	w, resp := app.do(t, http.MethodGet, "/api/google-script", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
	assert.Len(t, resp["data"], 1)
	row := resp["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "kantin-1", row["id"])
	assert.NotContains(t, row, "password")

	w, resp = app.do(t, http.MethodPost, "/api/google-script?sheet=Menus", "", gin.H{
		"action": "update",
		"id":     "m404",
		"data":   gin.H{"name": "x"},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Record not found", resp["error"])

	app.script.FailWith(http.StatusBadGateway)
	w, resp = app.do(t, http.MethodGet, "/api/google-script?sheet=Menus", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.True(t, strings.HasPrefix(resp["error"].(string), "HTTP 502"))
}

func TestGoogleScriptProxyAccountWritesNeedSuperAdmin(t *testing.T) {
	app := setupApp(t)
	takeover := gin.H{
		"action": "update",
		"id":     "kantin-1",
		"data":   gin.H{"password": "x"},
	}

	for _, path := range []string{"/api/google-script", "/api/google-script?sheet=AkunKantin", "/api/google-script?sheet=akunkantin"} {
		w, resp := app.do(t, http.MethodPost, path, "", takeover)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "Token tidak ditemukan", resp["error"])
	}

	w, resp := app.do(t, http.MethodPost, "/api/google-script", loginToken(t, app), takeover)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Akses ditolak", resp["error"])
	assert.NotEqual(t, "x", app.script.Row(models.SheetKantin, "kantin-1")["password"])

	// login dengan password lama masih berhasil
	loginToken(t, app)

	w, resp = app.do(t, http.MethodPost, "/api/auth/superadmin/login", "", gin.H{"username": "admin", "password": "admin-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	adminToken := resp["token"].(string)

	w, resp = app.do(t, http.MethodPost, "/api/google-script", adminToken, gin.H{
		"action": "update",
		"id":     "kantin-1",
		"data":   gin.H{"whatsapp": "08123"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, resp["data"], "password")
	assert.Equal(t, "08123", app.script.Row(models.SheetKantin, "kantin-1")["whatsapp"])
}
