package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/sheets"
	"github.com/yeremiapane/ekantin/store"
	"github.com/yeremiapane/ekantin/utils"
)

var errNoSpreadsheet = configError("Spreadsheet API URL tidak ditemukan untuk kantin ini")

// MenuService membaca dan menulis sheet Menus milik kantin.
type MenuService struct {
	gateway *sheets.Client
	kantins *KantinService
	repos   *store.Set[models.Menu]
}

func NewMenuService(gateway *sheets.Client, kantins *KantinService, snapshots store.SnapshotStore) *MenuService {
	return &MenuService{
		gateway: gateway,
		kantins: kantins,
		repos:   store.NewSet[models.Menu]("menus", snapshots),
	}
}

func spreadsheetURL(kantin models.KantinAccount) (string, error) {
	if strings.TrimSpace(kantin.SpreadsheetAPIURL) == "" {
		return "", errNoSpreadsheet
	}
	return kantin.SpreadsheetAPIURL, nil
}

func (s *MenuService) repoFor(kantin models.KantinAccount, scriptURL string) *store.Repository[models.Menu] {
	return s.repos.For(kantin.ID, func(ctx context.Context) ([]models.Menu, error) {
		rows, err := s.gateway.Rows(ctx, scriptURL, models.SheetMenus)
		if err != nil {
			return nil, upstreamError(err)
		}
		menus, _ := sheets.Decode(models.SheetMenus, rows, menuFromRow)
		return menus, nil
	})
}

// ListPublic mengembalikan menu kantin untuk pelanggan (cache lalu revalidasi).
func (s *MenuService) ListPublic(ctx context.Context, kantinID string) ([]models.Menu, error) {
	kantin, err := s.kantins.Get(ctx, kantinID)
	if err != nil {
		return nil, err
	}
	scriptURL, err := spreadsheetURL(kantin)
	if err != nil {
		return nil, err
	}
	return s.repoFor(kantin, scriptURL).Get(ctx)
}

// Fresh mengambil menu kanonik dari sheet kantin.
func (s *MenuService) Fresh(ctx context.Context, kantin models.KantinAccount) ([]models.Menu, error) {
	scriptURL, err := spreadsheetURL(kantin)
	if err != nil {
		return nil, err
	}
	return s.repoFor(kantin, scriptURL).Refresh(ctx)
}

// ListForOwner dipakai dashboard kantin.
func (s *MenuService) ListForOwner(ctx context.Context, kantinID string) ([]models.Menu, error) {
	kantin, err := s.kantins.FindByID(ctx, kantinID)
	if err != nil {
		return nil, err
	}
	return s.Fresh(ctx, kantin)
}

type MenuInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       *int64 `json:"price"`
	Image       string `json:"image"`
	Available   *bool  `json:"available"`
	Quantity    *int   `json:"quantity"`
}

func (in MenuInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationError("Nama menu harus diisi")
	}
	if in.Price == nil || *in.Price < 0 {
		return validationError("Harga menu tidak valid")
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return validationError("Stok menu tidak valid")
	}
	return nil
}

func (in MenuInput) apply(m models.Menu) models.Menu {
	m.Name = strings.TrimSpace(in.Name)
	m.Description = in.Description
	m.Price = *in.Price
	m.Image = in.Image
	if in.Available != nil {
		m.Available = *in.Available
	}
	m.Quantity = in.Quantity
	return m
}

func (s *MenuService) Create(ctx context.Context, kantinID string, in MenuInput) (models.Menu, error) {
	if err := in.validate(); err != nil {
		return models.Menu{}, err
	}
	kantin, scriptURL, err := s.ownerSheet(ctx, kantinID)
	if err != nil {
		return models.Menu{}, err
	}

	menu := in.apply(models.Menu{ID: "menu-" + uuid.NewString(), Available: true})
	if _, err := s.gateway.Create(ctx, scriptURL, models.SheetMenus, menu.ToRow()); err != nil {
		return models.Menu{}, upstreamError(err)
	}
	s.refreshQuietly(ctx, kantin, scriptURL)
	utils.InfoLogger.Printf("Menu %s ditambahkan ke kantin %s", menu.ID, kantin.ID)
	return menu, nil
}

func (s *MenuService) Update(ctx context.Context, kantinID, menuID string, in MenuInput) (models.Menu, error) {
	if err := in.validate(); err != nil {
		return models.Menu{}, err
	}
	kantin, scriptURL, err := s.ownerSheet(ctx, kantinID)
	if err != nil {
		return models.Menu{}, err
	}

	current, err := s.find(ctx, kantin, scriptURL, menuID)
	if err != nil {
		return models.Menu{}, err
	}
	menu := in.apply(current)
	if _, err := s.gateway.Update(ctx, scriptURL, models.SheetMenus, menu.ID, menu.ToRow()); err != nil {
		return models.Menu{}, upstreamError(err)
	}
	s.refreshQuietly(ctx, kantin, scriptURL)
	return menu, nil
}

func (s *MenuService) Delete(ctx context.Context, kantinID, menuID string) error {
	kantin, scriptURL, err := s.ownerSheet(ctx, kantinID)
	if err != nil {
		return err
	}
	if _, err := s.find(ctx, kantin, scriptURL, menuID); err != nil {
		return err
	}
	if _, err := s.gateway.Delete(ctx, scriptURL, models.SheetMenus, menuID); err != nil {
		return upstreamError(err)
	}
	s.refreshQuietly(ctx, kantin, scriptURL)
	return nil
}

// SetQuantity menulis stok baru satu menu.
func (s *MenuService) SetQuantity(ctx context.Context, scriptURL, menuID string, quantity int) error {
	_, err := s.gateway.Update(ctx, scriptURL, models.SheetMenus, menuID, map[string]interface{}{"quantity": quantity})
	return upstreamError(err)
}

func (s *MenuService) ownerSheet(ctx context.Context, kantinID string) (models.KantinAccount, string, error) {
	if !s.gateway.Configured() {
		return models.KantinAccount{}, "", ErrScriptNotConfigured
	}
	kantin, err := s.kantins.FindByID(ctx, kantinID)
	if err != nil {
		return models.KantinAccount{}, "", err
	}
	scriptURL, err := spreadsheetURL(kantin)
	if err != nil {
		return models.KantinAccount{}, "", err
	}
	return kantin, scriptURL, nil
}

func (s *MenuService) find(ctx context.Context, kantin models.KantinAccount, scriptURL, menuID string) (models.Menu, error) {
	menus, err := s.repoFor(kantin, scriptURL).Refresh(ctx)
	if err != nil {
		return models.Menu{}, err
	}
	for _, m := range menus {
		if m.ID == menuID {
			return m, nil
		}
	}
	return models.Menu{}, notFoundError("Menu tidak ditemukan")
}

func (s *MenuService) refreshQuietly(ctx context.Context, kantin models.KantinAccount, scriptURL string) {
	if _, err := s.repoFor(kantin, scriptURL).Refresh(ctx); err != nil {
		utils.ErrorLogger.Errorf("Gagal memperbarui cache menu kantin %s: %v", kantin.ID, err)
	}
}

// Wait menunggu revalidasi cache menu yang berjalan di background.
func (s *MenuService) Wait() {
	s.repos.Wait()
}
