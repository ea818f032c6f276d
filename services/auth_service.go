package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/utils"
)

// AuthService menangani login kantin dan super admin.
type AuthService struct {
	kantins       *KantinService
	tokens        *utils.TokenIssuer
	adminUsername string
	adminPassword string
}

func NewAuthService(kantins *KantinService, tokens *utils.TokenIssuer, adminUsername, adminPassword string) *AuthService {
	return &AuthService{
		kantins:       kantins,
		tokens:        tokens,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

type KantinLoginResult struct {
	Kantin models.KantinAccount
	Token  string
}

type SuperAdminSession struct {
	Role     string `json:"role"`
	Username string `json:"username"`
}

var errSecretMissing = configError(utils.ErrSecretNotConfigured.Error())

// KantinLogin mencocokkan email (tanpa membedakan huruf besar/kecil) lalu
// password secara persis.
func (s *AuthService) KantinLogin(ctx context.Context, email, password string) (*KantinLoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, validationError("Email dan password harus diisi")
	}
	if !s.tokens.Configured() {
		return nil, errSecretMissing
	}

	kantins, err := s.kantins.Fresh(ctx)
	if err != nil {
		return nil, err
	}

	var found *models.KantinAccount
	for i := range kantins {
		if kantins[i].MatchesEmail(email) {
			found = &kantins[i]
			break
		}
	}
	if found == nil {
		return nil, unauthorizedError("Email tidak ditemukan")
	}
	if !utils.CheckPassword(found.Password, password) {
		utils.InfoLogger.Printf("Login gagal untuk kantin %s: password salah", found.ID)
		return nil, unauthorizedError("Password salah")
	}

	token, err := s.tokens.GenerateToken(found.ID, found.Email, utils.RoleKantin)
	if err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Kantin %s berhasil login", found.ID)
	return &KantinLoginResult{Kantin: found.Public(), Token: token}, nil
}

// SuperAdminLogin memakai kredensial dari environment.
func (s *AuthService) SuperAdminLogin(username, password string) (SuperAdminSession, string, error) {
	if s.adminUsername == "" || s.adminPassword == "" {
		return SuperAdminSession{}, "", configError("Konfigurasi super admin belum diatur")
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return SuperAdminSession{}, "", validationError("Username dan password harus diisi")
	}
	if !s.tokens.Configured() {
		return SuperAdminSession{}, "", errSecretMissing
	}

	userOK := utils.SecureCompare(strings.TrimSpace(username), s.adminUsername)
	passOK := utils.SecureCompare(password, s.adminPassword)
	if !userOK || !passOK {
		return SuperAdminSession{}, "", unauthorizedError("Username atau password salah")
	}

	token, err := s.tokens.GenerateToken(s.adminUsername, s.adminUsername, utils.RoleSuperAdmin)
	if err != nil {
		return SuperAdminSession{}, "", err
	}
	return SuperAdminSession{Role: utils.RoleSuperAdmin, Username: s.adminUsername}, token, nil
}

// Verify memvalidasi token bearer.
func (s *AuthService) Verify(token string) (*utils.CustomClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, unauthorizedError("Token tidak ditemukan")
	}
	claims, err := s.tokens.ParseToken(token)
	if errors.Is(err, utils.ErrSecretNotConfigured) {
		return nil, errSecretMissing
	}
	if err != nil {
		return nil, unauthorizedError("Token tidak valid")
	}
	return claims, nil
}

// Me mengambil ulang akun kantin pemilik token.
func (s *AuthService) Me(ctx context.Context, kantinID string) (models.KantinAccount, error) {
	kantin, err := s.kantins.FindByID(ctx, kantinID)
	if err != nil {
		return models.KantinAccount{}, err
	}
	return kantin.Public(), nil
}
