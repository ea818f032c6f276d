package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ekantin/events"
	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/sheets"
	"github.com/yeremiapane/ekantin/store"
	"github.com/yeremiapane/ekantin/utils"
)

// OrderService menangani checkout, pelacakan, dan perubahan status pesanan.
type OrderService struct {
	gateway   *sheets.Client
	kantins   *KantinService
	menus     *MenuService
	publisher events.Publisher
	repos     *store.Set[models.Transaction]
	locks     *keyedMutex
	now       func() time.Time
}

func NewOrderService(gateway *sheets.Client, kantins *KantinService, menus *MenuService, publisher events.Publisher, snapshots store.SnapshotStore) *OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &OrderService{
		gateway:   gateway,
		kantins:   kantins,
		menus:     menus,
		publisher: publisher,
		repos:     store.NewSet[models.Transaction]("orders", snapshots),
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

func (s *OrderService) repoFor(kantin models.KantinAccount, scriptURL string) *store.Repository[models.Transaction] {
	return s.repos.For(kantin.ID, func(ctx context.Context) ([]models.Transaction, error) {
		rows, err := s.gateway.Rows(ctx, scriptURL, models.SheetOrders)
		if err != nil {
			return nil, upstreamError(err)
		}
		orders, _ := sheets.Decode(models.SheetOrders, rows, orderFromRow)
		return orders, nil
	})
}

type CheckoutItem struct {
	MenuID   string `json:"menuId"`
	Quantity int    `json:"quantity"`
}

type CheckoutInput struct {
	CustomerName     string                   `json:"customerName"`
	Items            []CheckoutItem           `json:"items"`
	PaymentProof     string                   `json:"paymentProof"`
	DeliveryLocation *models.DeliveryLocation `json:"deliveryLocation"`
}

// Checkout membuat pesanan berstatus pending. Nama dan harga item diambil
// dari sheet Menus, bukan dari client.
func (s *OrderService) Checkout(ctx context.Context, kantinID string, in CheckoutInput) (models.Transaction, error) {
	if len(in.Items) == 0 {
		return models.Transaction{}, validationError("Keranjang masih kosong")
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.MenuID) == "" || item.Quantity <= 0 || item.Quantity > models.MaxItemQuantity {
			return models.Transaction{}, validationError("Jumlah pesanan tidak valid")
		}
	}
	if strings.TrimSpace(in.PaymentProof) == "" {
		return models.Transaction{}, validationError("Bukti pembayaran harus diupload")
	}
	if !s.gateway.Configured() {
		return models.Transaction{}, ErrScriptNotConfigured
	}

	kantin, err := s.kantins.FindByID(ctx, kantinID)
	if err != nil {
		return models.Transaction{}, err
	}
	if !kantin.IsOpen {
		return models.Transaction{}, validationError("Kantin sedang tutup")
	}
	scriptURL, err := spreadsheetURL(kantin)
	if err != nil {
		return models.Transaction{}, err
	}

	menus, err := s.menus.Fresh(ctx, kantin)
	if err != nil {
		return models.Transaction{}, err
	}
	byID := make(map[string]models.Menu, len(menus))
	for _, m := range menus {
		byID[m.ID] = m
	}

	cart := models.Cart{}
	for _, item := range in.Items {
		menu, ok := byID[item.MenuID]
		if !ok {
			return models.Transaction{}, validationError(fmt.Sprintf("Menu %s tidak ditemukan", item.MenuID))
		}
		if !menu.Available {
			return models.Transaction{}, validationError(fmt.Sprintf("Menu %s tidak tersedia", menu.Name))
		}
		cart.Add(menu, item.Quantity)
	}
	for _, item := range cart.Items() {
		if item.Quantity > models.MaxItemQuantity {
			return models.Transaction{}, validationError("Jumlah pesanan tidak valid")
		}
		if !byID[item.MenuID].HasStock(item.Quantity) {
			return models.Transaction{}, validationError(fmt.Sprintf("Stok %s tidak mencukupi", item.MenuName))
		}
	}

	total, ok := cart.CheckedTotal()
	if !ok {
		return models.Transaction{}, validationError("Total pesanan terlalu besar")
	}

	now := s.now().UTC().Format(time.RFC3339Nano)
	order := models.Transaction{
		ID:               "txn-" + uuid.NewString(),
		Code:             newOrderCode(),
		KantinID:         kantin.ID,
		KantinName:       kantin.Name,
		CustomerName:     strings.TrimSpace(in.CustomerName),
		Items:            cart.Items(),
		Total:            total,
		PaymentProof:     strings.TrimSpace(in.PaymentProof),
		DeliveryLocation: in.DeliveryLocation,
		Status:           models.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if order.DeliveryLocation != nil && order.DeliveryLocation.ScannedAt == "" {
		order.DeliveryLocation.ScannedAt = now
	}

	row, err := order.ToRow()
	if err != nil {
		return models.Transaction{}, err
	}
	if _, err := s.gateway.Create(ctx, scriptURL, models.SheetOrders, row); err != nil {
		return models.Transaction{}, upstreamError(err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"kantinId": kantin.ID,
		"orderId":  order.ID,
		"code":     order.Code,
	}).Infof("Pesanan baru %s", utils.FormatRupiah(order.Total))

	s.publish(ctx, events.OrderEvent{
		Type:       events.OrderCreated,
		KantinID:   kantin.ID,
		Order:      order,
		Message:    fmt.Sprintf("Pesanan baru %s - %s", order.Code, utils.FormatRupiah(order.Total)),
		OccurredAt: s.now(),
	})
	return order, nil
}

func newOrderCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "EK-" + strings.ToUpper(raw[:8])
}

// Track mencari pesanan berdasarkan kode (tanpa membedakan huruf) atau id.
func (s *OrderService) Track(ctx context.Context, kantinID, code string) (models.Transaction, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return models.Transaction{}, validationError("Kode pesanan harus diisi")
	}
	kantin, err := s.kantins.Get(ctx, kantinID)
	if err != nil {
		return models.Transaction{}, err
	}
	scriptURL, err := spreadsheetURL(kantin)
	if err != nil {
		return models.Transaction{}, err
	}

	orders, err := s.repoFor(kantin, scriptURL).Refresh(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	for _, o := range orders {
		if o.KantinID == kantin.ID && (strings.EqualFold(o.Code, code) || o.ID == code) {
			return o, nil
		}
	}
	return models.Transaction{}, notFoundError("Pesanan tidak ditemukan")
}

// ListForOwner mengembalikan pesanan kantin, terbaru lebih dulu. Bila sheet
// tidak dapat dihubungi, salinan terakhir yang tersimpan dipakai.
func (s *OrderService) ListForOwner(ctx context.Context, kantinID string, status string) ([]models.Transaction, error) {
	filter := models.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if filter != "" && !filter.Valid() {
		return nil, validationError("Status tidak valid")
	}

	kantin, err := s.kantins.FindByID(ctx, kantinID)
	if err != nil {
		return nil, err
	}
	scriptURL, err := spreadsheetURL(kantin)
	if err != nil {
		return nil, err
	}

	repo := s.repoFor(kantin, scriptURL)
	orders, err := repo.Refresh(ctx)
	if err != nil {
		cached, ok := repo.Cached(ctx)
		if !ok {
			return nil, err
		}
		utils.ErrorLogger.Errorf("Gagal mengambil pesanan kantin %s, memakai cache: %v", kantin.ID, err)
		orders = cached
	}

	out := make([]models.Transaction, 0, len(orders))
	for _, o := range orders {
		if o.KantinID != kantin.ID {
			continue
		}
		if filter != "" && o.Status != filter {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

type StatusUpdateResult struct {
	TransactionID  string             `json:"transactionId"`
	Status         models.OrderStatus `json:"status"`
	PreviousStatus models.OrderStatus `json:"previousStatus"`
	StockAdjusted  bool               `json:"stockAdjusted"`
	Unchanged      bool               `json:"unchanged,omitempty"`
}

// UpdateStatus mengubah status pesanan milik kantin. Stok menu dipotong
// satu kali, yaitu saat pesanan berpindah dari pending ke processing/ready.
func (s *OrderService) UpdateStatus(ctx context.Context, kantinID, transactionID, status string) (*StatusUpdateResult, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, validationError("Transaction ID diperlukan")
	}
	next := models.OrderStatus(status)
	if !next.Valid() {
		return nil, validationError("Status tidak valid")
	}
	if !s.gateway.Configured() {
		return nil, ErrScriptNotConfigured
	}

	kantin, err := s.kantins.FindByID(ctx, kantinID)
	if err != nil {
		return nil, err
	}
	scriptURL, err := spreadsheetURL(kantin)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(kantin.ID + "/" + transactionID)
	defer unlock()

	order, err := s.findOrder(ctx, kantin, scriptURL, transactionID)
	if err != nil {
		return nil, err
	}
	if order.KantinID != kantin.ID {
		return nil, forbiddenError("Transaksi tidak milik kantin ini")
	}

	previous := order.Status
	result := &StatusUpdateResult{TransactionID: order.ID, Status: next, PreviousStatus: previous}
	if previous == next {
		result.Unchanged = true
		return result, nil
	}
	if !previous.CanTransition(next) {
		return nil, conflictError(fmt.Sprintf("Status pesanan tidak dapat diubah dari %s ke %s", previous, next))
	}

	latest, err := s.findOrder(ctx, kantin, scriptURL, transactionID)
	if err != nil {
		return nil, err
	}
	if latest.Status != order.Status || latest.UpdatedAt != order.UpdatedAt {
		return nil, conflictError("Pesanan telah diubah oleh permintaan lain, silakan coba lagi")
	}

	updatedAt := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := s.gateway.Update(ctx, scriptURL, models.SheetOrders, order.ID, map[string]interface{}{
		"status":    string(next),
		"updatedAt": updatedAt,
	}); err != nil {
		return nil, upstreamError(err)
	}

	log := utils.InfoLogger.WithFields(logrus.Fields{
		"kantinId": kantin.ID,
		"orderId":  order.ID,
	})
	log.Infof("Status pesanan %s -> %s", previous, next)

	if models.ConsumesStock(previous, next) {
		result.StockAdjusted = s.decrementStock(ctx, kantin, scriptURL, order)
	}

	order.Status = next
	order.UpdatedAt = updatedAt
	s.publish(ctx, events.OrderEvent{
		Type:           events.OrderStatusUpdated,
		KantinID:       kantin.ID,
		Order:          order,
		PreviousStatus: previous,
		Message:        fmt.Sprintf("Pesanan %s: %s", order.Code, next),
		OccurredAt:     s.now(),
	})
	return result, nil
}

func (s *OrderService) findOrder(ctx context.Context, kantin models.KantinAccount, scriptURL, id string) (models.Transaction, error) {
	orders, err := s.repoFor(kantin, scriptURL).Refresh(ctx)
	if err != nil {
		return models.Transaction{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Transaction{}, notFoundError("Transaksi tidak ditemukan")
}

// decrementStock memotong stok menu yang dipesan. Kegagalan hanya dicatat
// dan tidak membatalkan perubahan status.
func (s *OrderService) decrementStock(ctx context.Context, kantin models.KantinAccount, scriptURL string, order models.Transaction) bool {
	menus, err := s.menus.Fresh(ctx, kantin)
	if err != nil {
		utils.ErrorLogger.Errorf("Gagal mengambil menu untuk update stok pesanan %s: %v", order.ID, err)
		return false
	}
	byID := make(map[string]models.Menu, len(menus))
	for _, m := range menus {
		byID[m.ID] = m
	}

	quantities := order.QuantitiesByMenu()
	ids := make([]string, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	adjusted := false
	for _, id := range ids {
		menu, ok := byID[id]
		if !ok || menu.Quantity == nil {
			continue
		}
		next := models.DecrementStock(*menu.Quantity, quantities[id])
		if err := s.menus.SetQuantity(ctx, scriptURL, id, next); err != nil {
			utils.ErrorLogger.Errorf("Gagal update stok menu %s: %v", id, err)
			continue
		}
		utils.InfoLogger.Printf("Stok menu %s: %d -> %d", id, *menu.Quantity, next)
		adjusted = true
	}

	if adjusted {
		s.menus.refreshQuietly(ctx, kantin, scriptURL)
	}
	return adjusted
}

func (s *OrderService) publish(ctx context.Context, ev events.OrderEvent) {
	if err := s.publisher.PublishOrderEvent(ctx, ev); err != nil {
		utils.ErrorLogger.Errorf("Gagal mengirim event %s untuk pesanan %s: %v", ev.Type, ev.Order.ID, err)
	}
}

func (s *OrderService) Wait() {
	s.repos.Wait()
}
