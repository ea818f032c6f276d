package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/sheets"
	"github.com/yeremiapane/ekantin/store"
	"github.com/yeremiapane/ekantin/utils"
)

// KantinService mengelola akun kantin pada sheet AkunKantin milik super admin.
type KantinService struct {
	gateway *sheets.Client
	repo    *store.Repository[models.KantinAccount]
	now     func() time.Time
}

func NewKantinService(gateway *sheets.Client, snapshots store.SnapshotStore) *KantinService {
	s := &KantinService{gateway: gateway, now: time.Now}
	s.repo = store.NewRepository("kantin:list", snapshots, s.load)
	return s
}

func (s *KantinService) load(ctx context.Context) ([]models.KantinAccount, error) {
	if !s.gateway.Configured() {
		return nil, ErrScriptNotConfigured
	}
	rows, err := s.gateway.Rows(ctx, "", models.SheetKantin)
	if err != nil {
		return nil, upstreamError(err)
	}
	kantins, _ := sheets.Decode(models.SheetKantin, rows, kantinFromRow)
	return kantins, nil
}

// Fresh selalu mengambil data kanonik dari sheet.
func (s *KantinService) Fresh(ctx context.Context) ([]models.KantinAccount, error) {
	return s.repo.Refresh(ctx)
}

// List mengembalikan semua kantin tanpa password, terbaru lebih dulu.
func (s *KantinService) List(ctx context.Context) ([]models.KantinAccount, error) {
	kantins, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := models.PublicKantins(kantins)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

// Get mencari kantin untuk halaman publik. Bila tidak ada di cache, data
// diambil ulang dari sheet sekali.
func (s *KantinService) Get(ctx context.Context, id string) (models.KantinAccount, error) {
	kantins, err := s.repo.Get(ctx)
	if err != nil {
		return models.KantinAccount{}, err
	}
	if k, ok := findKantin(kantins, id); ok {
		return k.Public(), nil
	}

	kantins, err = s.repo.Refresh(ctx)
	if err != nil {
		return models.KantinAccount{}, err
	}
	if k, ok := findKantin(kantins, id); ok {
		return k.Public(), nil
	}
	return models.KantinAccount{}, ErrKantinNotFound
}

// FindByID mengambil akun kanonik, termasuk password.
func (s *KantinService) FindByID(ctx context.Context, id string) (models.KantinAccount, error) {
	kantins, err := s.Fresh(ctx)
	if err != nil {
		return models.KantinAccount{}, err
	}
	if k, ok := findKantin(kantins, id); ok {
		return k, nil
	}
	return models.KantinAccount{}, ErrKantinNotFound
}

func findKantin(list []models.KantinAccount, id string) (models.KantinAccount, bool) {
	for _, k := range list {
		if k.ID == id {
			return k, true
		}
	}
	return models.KantinAccount{}, false
}

type ProfileInput struct {
	Name           string      `json:"name"`
	Description    string      `json:"description"`
	Whatsapp       string      `json:"whatsapp"`
	CoverImage     string      `json:"coverImage"`
	QrisImage      *string     `json:"qrisImage"`
	OperatingHours interface{} `json:"operatingHours"`
}

// UpdateProfile mengubah profil kantin. Email dan password tidak pernah
// diubah lewat jalur ini.
func (s *KantinService) UpdateProfile(ctx context.Context, kantinID string, in ProfileInput) (models.KantinAccount, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.KantinAccount{}, validationError("Nama kantin harus diisi")
	}
	if !s.gateway.Configured() {
		return models.KantinAccount{}, ErrScriptNotConfigured
	}

	kantin, err := s.FindByID(ctx, kantinID)
	if err != nil {
		return models.KantinAccount{}, err
	}

	kantin.Name = strings.TrimSpace(in.Name)
	kantin.Description = in.Description
	kantin.Whatsapp = in.Whatsapp
	kantin.CoverImage = in.CoverImage
	if in.QrisImage != nil {
		kantin.QrisImage = *in.QrisImage
	}
	kantin.OperatingHours = models.ParseOperatingHours(in.OperatingHours)

	if err := s.write(ctx, kantin); err != nil {
		return models.KantinAccount{}, err
	}
	utils.InfoLogger.Printf("Profil kantin %s diperbarui", kantin.ID)
	return kantin.Public(), nil
}

// UpdateStatus membuka atau menutup kantin.
func (s *KantinService) UpdateStatus(ctx context.Context, kantinID string, isOpen *bool) (models.KantinAccount, error) {
	if isOpen == nil {
		return models.KantinAccount{}, validationError("Status harus boolean")
	}
	if !s.gateway.Configured() {
		return models.KantinAccount{}, ErrScriptNotConfigured
	}

	kantin, err := s.FindByID(ctx, kantinID)
	if err != nil {
		return models.KantinAccount{}, err
	}
	kantin.IsOpen = *isOpen

	if err := s.write(ctx, kantin); err != nil {
		return models.KantinAccount{}, err
	}
	utils.InfoLogger.Printf("Status kantin %s: isOpen=%v", kantin.ID, kantin.IsOpen)
	return kantin.Public(), nil
}

// KantinInput dipakai super admin untuk membuat dan mengubah akun.
type KantinInput struct {
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Email             string      `json:"email"`
	Password          string      `json:"password"`
	Whatsapp          string      `json:"whatsapp"`
	CoverImage        string      `json:"coverImage"`
	QrisImage         string      `json:"qrisImage"`
	SpreadsheetAPIURL string      `json:"spreadsheetApiUrl"`
	SpreadsheetURL    string      `json:"spreadsheetUrl"`
	IsOpen            *bool       `json:"isOpen"`
	OperatingHours    interface{} `json:"operatingHours"`
}

func (s *KantinService) Create(ctx context.Context, in KantinInput) (models.KantinAccount, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return models.KantinAccount{}, validationError("Nama, email, dan password harus diisi")
	}
	if err := sheets.ValidateStruct(struct {
		Email string `validate:"email"`
	}{email}); err != nil {
		return models.KantinAccount{}, validationError("Format email tidak valid")
	}
	if !s.gateway.Configured() {
		return models.KantinAccount{}, ErrScriptNotConfigured
	}

	kantins, err := s.Fresh(ctx)
	if err != nil {
		return models.KantinAccount{}, err
	}
	for _, k := range kantins {
		if k.MatchesEmail(email) {
			return models.KantinAccount{}, conflictError("Email sudah digunakan")
		}
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.KantinAccount{}, err
	}

	hours := models.DefaultOperatingHours()
	if in.OperatingHours != nil {
		hours = models.ParseOperatingHours(in.OperatingHours)
	}
	kantin := models.KantinAccount{
		ID:                "kantin-" + uuid.NewString(),
		Name:              name,
		Description:       in.Description,
		OwnerID:           "owner-" + uuid.NewString(),
		Password:          hashed,
		Email:             email,
		Whatsapp:          in.Whatsapp,
		CoverImage:        in.CoverImage,
		QrisImage:         in.QrisImage,
		SpreadsheetAPIURL: strings.TrimSpace(in.SpreadsheetAPIURL),
		SpreadsheetURL:    strings.TrimSpace(in.SpreadsheetURL),
		IsOpen:            in.IsOpen == nil || *in.IsOpen,
		OperatingHours:    hours,
		CreatedAt:         s.now().UTC().Format(time.RFC3339Nano),
	}

	if _, err := s.gateway.Create(ctx, "", models.SheetKantin, kantin.ToRow()); err != nil {
		return models.KantinAccount{}, upstreamError(err)
	}
	s.refreshQuietly(ctx)
	utils.InfoLogger.Printf("Kantin baru dibuat: %s (%s)", kantin.ID, kantin.Email)
	return kantin.Public(), nil
}

// Update mengganti data akun. Password kosong mempertahankan password lama.
func (s *KantinService) Update(ctx context.Context, id string, in KantinInput) (models.KantinAccount, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return models.KantinAccount{}, validationError("Nama dan email harus diisi")
	}
	if !s.gateway.Configured() {
		return models.KantinAccount{}, ErrScriptNotConfigured
	}

	kantins, err := s.Fresh(ctx)
	if err != nil {
		return models.KantinAccount{}, err
	}
	kantin, ok := findKantin(kantins, id)
	if !ok {
		return models.KantinAccount{}, ErrKantinNotFound
	}
	for _, k := range kantins {
		if k.ID != id && k.MatchesEmail(email) {
			return models.KantinAccount{}, conflictError("Email sudah digunakan")
		}
	}

	kantin.Name = name
	kantin.Description = in.Description
	kantin.Email = email
	kantin.Whatsapp = in.Whatsapp
	kantin.CoverImage = in.CoverImage
	kantin.QrisImage = in.QrisImage
	kantin.SpreadsheetAPIURL = strings.TrimSpace(in.SpreadsheetAPIURL)
	kantin.SpreadsheetURL = strings.TrimSpace(in.SpreadsheetURL)
	if in.IsOpen != nil {
		kantin.IsOpen = *in.IsOpen
	}
	if in.OperatingHours != nil {
		kantin.OperatingHours = models.ParseOperatingHours(in.OperatingHours)
	}
	if in.Password != "" {
		hashed, err := utils.HashPassword(in.Password)
		if err != nil {
			return models.KantinAccount{}, err
		}
		kantin.Password = hashed
	}

	if err := s.write(ctx, kantin); err != nil {
		return models.KantinAccount{}, err
	}
	return kantin.Public(), nil
}

func (s *KantinService) Delete(ctx context.Context, id string) error {
	if !s.gateway.Configured() {
		return ErrScriptNotConfigured
	}
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	if _, err := s.gateway.Delete(ctx, "", models.SheetKantin, id); err != nil {
		return upstreamError(err)
	}
	s.refreshQuietly(ctx)
	utils.InfoLogger.Printf("Kantin %s dihapus", id)
	return nil
}

func (s *KantinService) write(ctx context.Context, kantin models.KantinAccount) error {
	if _, err := s.gateway.Update(ctx, "", models.SheetKantin, kantin.ID, kantin.ToRow()); err != nil {
		return upstreamError(err)
	}
	s.refreshQuietly(ctx)
	return nil
}

// refreshQuietly memperbarui cache setelah penulisan berhasil.
func (s *KantinService) refreshQuietly(ctx context.Context) {
	if _, err := s.repo.Refresh(ctx); err != nil {
		utils.ErrorLogger.Errorf("Gagal memperbarui cache kantin: %v", err)
	}
}

// Wait menunggu revalidasi cache kantin yang berjalan di background.
func (s *KantinService) Wait() {
	s.repo.Wait()
}
