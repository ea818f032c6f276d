package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ekantin/models"
	"github.com/yeremiapane/ekantin/sheets"
	"github.com/yeremiapane/ekantin/store"
	"github.com/yeremiapane/ekantin/utils"
)

func TestKantinLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		res, err := env.auth.KantinLogin(ctx, "kantin@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "kantin-1", res.Kantin.ID)
		assert.Empty(t, res.Kantin.Password)
		assert.Equal(t, []models.OperatingHours{
			{Day: 1, Open: "07:00", Close: "15:00", IsOpen: true},
			{Day: 7, Open: "08:00", Close: "17:00", IsOpen: false},
		}, res.Kantin.OperatingHours)

		claims, err := env.tokens.ParseToken(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "kantin-1", claims.KantinID)
		assert.Equal(t, utils.RoleKantin, claims.Role)
		assert.Equal(t, "kantin@example.com", claims.Email)
	})

	t.Run("email is case-insensitive", func(t *testing.T) {
		res, err := env.auth.KantinLogin(ctx, "  KANTIN@Example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "kantin-1", res.Kantin.ID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.auth.KantinLogin(ctx, "nobody@example.com", "secret")
		requireKind(t, err, KindUnauthorized, "Email tidak ditemukan")
	})

	t.Run("password is case-sensitive", func(t *testing.T) {
		_, err := env.auth.KantinLogin(ctx, "kantin@example.com", "Secret")
		requireKind(t, err, KindUnauthorized, "Password salah")
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.auth.KantinLogin(ctx, "", "secret")
		requireKind(t, err, KindValidation, "Email dan password harus diisi")
		_, err = env.auth.KantinLogin(ctx, "kantin@example.com", "")
		requireKind(t, err, KindValidation, "Email dan password harus diisi")
	})

	t.Run("bcrypt password", func(t *testing.T) {
		hashed, err := utils.HashPassword("rahasia")
		require.NoError(t, err)
		env.server.Patch(models.SheetKantin, "kantin-2", map[string]interface{}{"password": hashed})

		res, err := env.auth.KantinLogin(ctx, "teknik@example.com", "rahasia")
		require.NoError(t, err)
		assert.Equal(t, "kantin-2", res.Kantin.ID)
	})

	t.Run("upstream html", func(t *testing.T) {
		env.server.ServeHTML(true)
		defer env.server.ServeHTML(false)

		_, err := env.auth.KantinLogin(ctx, "kantin@example.com", "secret")
		requireKind(t, err, KindUpstream, "")
		assert.ErrorIs(t, err, sheets.ErrHTMLResponse)
	})

	t.Run("upstream status", func(t *testing.T) {
		env.server.FailWith(http.StatusBadGateway)
		defer env.server.FailWith(0)

		_, err := env.auth.KantinLogin(ctx, "kantin@example.com", "secret")
		requireKind(t, err, KindUpstream, "HTTP 502: Bad Gateway - script failure")
	})
}

func TestKantinLogin_FailsClosed(t *testing.T) {
	ctx := context.Background()
	snapshots := store.NewMemorySnapshotStore()

	noScript := NewAuthService(NewKantinService(sheets.NewClient("", nil, nil), snapshots), utils.NewTokenIssuer(testSecret, 0), "", "")
	_, err := noScript.KantinLogin(ctx, "kantin@example.com", "secret")
	requireKind(t, err, KindConfig, "Google Script URL tidak dikonfigurasi")

	noSecret := NewAuthService(NewKantinService(sheets.NewClient("https://script.google.com/x", nil, nil), snapshots), utils.NewTokenIssuer("", 0), "", "")
	_, err = noSecret.KantinLogin(ctx, "kantin@example.com", "secret")
	requireKind(t, err, KindConfig, "JWT secret tidak dikonfigurasi")
}

func TestSuperAdminLogin(t *testing.T) {
	env := newTestEnv(t)

	session, token, err := env.auth.SuperAdminLogin("admin", "admin-pass")
	require.NoError(t, err)
	assert.Equal(t, SuperAdminSession{Role: "superadmin", Username: "admin"}, session)

	claims, err := env.auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, utils.RoleSuperAdmin, claims.Role)
	assert.Empty(t, claims.KantinID)

	_, _, err = env.auth.SuperAdminLogin("admin", "wrong")
	requireKind(t, err, KindUnauthorized, "Username atau password salah")

	_, _, err = env.auth.SuperAdminLogin("", "")
	requireKind(t, err, KindValidation, "Username dan password harus diisi")

	unconfigured := NewAuthService(env.kantins, env.tokens, "", "")
	_, _, err = unconfigured.SuperAdminLogin("admin", "admin-pass")
	requireKind(t, err, KindConfig, "Konfigurasi super admin belum diatur")
}

func TestVerifyAndMe(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Verify("")
	requireKind(t, err, KindUnauthorized, "Token tidak ditemukan")

	_, err = env.auth.Verify("not-a-token")
	requireKind(t, err, KindUnauthorized, "Token tidak valid")

	token, err := env.tokens.GenerateToken("kantin-1", "kantin@example.com", utils.RoleKantin)
	require.NoError(t, err)
	claims, err := env.auth.Verify(token)
	require.NoError(t, err)

	me, err := env.auth.Me(ctx, claims.KantinID)
	require.NoError(t, err)
	assert.Equal(t, "Kantin Bu Sri", me.Name)
	assert.Empty(t, me.Password)

	_, err = env.auth.Me(ctx, "kantin-deleted")
	requireKind(t, err, KindNotFound, "Kantin tidak ditemukan")
}
