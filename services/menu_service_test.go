package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/ekantin/models"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestMenuService_ListPublic(t *testing.T) {
	env := newTestEnv(t)

	menus, err := env.menus.ListPublic(context.Background(), "kantin-1")
	require.NoError(t, err)
	require.Len(t, menus, 3)

	byID := map[string]models.Menu{}
	for _, m := range menus {
		byID[m.ID] = m
	}
	assert.Equal(t, int64(5000), byID["m2"].Price)
	assert.True(t, byID["m2"].Available)
	assert.Nil(t, byID["m2"].Quantity)
	require.NotNil(t, byID["m1"].Quantity)
	assert.Equal(t, 5, *byID["m1"].Quantity)
	assert.False(t, byID["m3"].Available)

	_, err = env.menus.ListPublic(context.Background(), "kantin-2")
	requireKind(t, err, KindConfig, "Spreadsheet API URL tidak ditemukan untuk kantin ini")
}

func TestMenuService_ListPublicServesCacheWhenSheetFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.menus.ListPublic(ctx, "kantin-1")
	require.NoError(t, err)
	env.menus.Wait()
	env.kantins.repo.Wait()

	env.server.FailWith(500)
	menus, err := env.menus.ListPublic(ctx, "kantin-1")
	require.NoError(t, err)
	assert.Len(t, menus, 3)

	_, err = env.menus.ListForOwner(ctx, "kantin-1")
	requireKind(t, err, KindUpstream, "")
}

func TestMenuService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.menus.Create(ctx, "kantin-1", MenuInput{
		Name:     "  Mie Ayam ",
		Price:    int64Ptr(13000),
		Quantity: intPtr(8),
	})
	require.NoError(t, err)
	assert.Equal(t, "Mie Ayam", created.Name)
	assert.True(t, created.Available)

	row := env.server.Row(models.SheetMenus, created.ID)
	require.NotNil(t, row)
	assert.Equal(t, float64(13000), row["price"])
	assert.Equal(t, float64(8), row["quantity"])

	updated, err := env.menus.Update(ctx, "kantin-1", created.ID, MenuInput{
		Name:      "Mie Ayam Bakso",
		Price:     int64Ptr(16000),
		Available: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Nil(t, updated.Quantity)

	row = env.server.Row(models.SheetMenus, created.ID)
	assert.Equal(t, "Mie Ayam Bakso", row["name"])
	assert.Equal(t, "", row["quantity"])

	menus, err := env.menus.ListForOwner(ctx, "kantin-1")
	require.NoError(t, err)
	assert.Len(t, menus, 4)

	require.NoError(t, env.menus.Delete(ctx, "kantin-1", created.ID))
	assert.Nil(t, env.server.Row(models.SheetMenus, created.ID))

	err = env.menus.Delete(ctx, "kantin-1", created.ID)
	requireKind(t, err, KindNotFound, "Menu tidak ditemukan")
}

func TestMenuService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.menus.Create(ctx, "kantin-1", MenuInput{Price: int64Ptr(1000)})
	requireKind(t, err, KindValidation, "Nama menu harus diisi")

	_, err = env.menus.Create(ctx, "kantin-1", MenuInput{Name: "Tahu"})
	requireKind(t, err, KindValidation, "Harga menu tidak valid")

	_, err = env.menus.Create(ctx, "kantin-1", MenuInput{Name: "Tahu", Price: int64Ptr(1000), Quantity: intPtr(-1)})
	requireKind(t, err, KindValidation, "Stok menu tidak valid")

	_, err = env.menus.Update(ctx, "kantin-1", "m404", MenuInput{Name: "Tahu", Price: int64Ptr(1000)})
	requireKind(t, err, KindNotFound, "Menu tidak ditemukan")

	_, err = env.menus.Create(ctx, "kantin-2", MenuInput{Name: "Tahu", Price: int64Ptr(1000)})
	requireKind(t, err, KindConfig, "")

	assert.Empty(t, env.server.Writes(models.SheetMenus, "create"))
}

func TestMenuService_UpstreamErrorIsForwarded(t *testing.T) {
	env := newTestEnv(t)
	env.server.FailWrites(models.SheetMenus, "Sheet Menus tidak ditemukan")

	_, err := env.menus.Create(context.Background(), "kantin-1", MenuInput{Name: "Tahu", Price: int64Ptr(1000)})
	requireKind(t, err, KindUpstream, "Sheet Menus tidak ditemukan")
}
