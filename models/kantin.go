package models

import "strings"

// Nama sheet pada Google Spreadsheet
const (
	SheetKantin = "AkunKantin"
	SheetMenus  = "Menus"
	SheetOrders = "Pesanan"
)

// KantinAccount adalah akun satu kantin. Password tidak pernah dikirim ke
// client, gunakan Public sebelum menulis response.
type KantinAccount struct {
	ID                string           `json:"id" validate:"required"`
	Name              string           `json:"name" validate:"required"`
	Description       string           `json:"description,omitempty"`
	OwnerID           string           `json:"ownerId,omitempty"`
	Password          string           `json:"password,omitempty"`
	Email             string           `json:"email,omitempty" validate:"omitempty,email"`
	Whatsapp          string           `json:"whatsapp,omitempty"`
	CoverImage        string           `json:"coverImage,omitempty"`
	QrisImage         string           `json:"qrisImage,omitempty"`
	SpreadsheetAPIURL string           `json:"spreadsheetApiUrl,omitempty"`
	SpreadsheetURL    string           `json:"spreadsheetUrl,omitempty"`
	IsOpen            bool             `json:"isOpen"`
	OperatingHours    []OperatingHours `json:"operatingHours"`
	CreatedAt         string           `json:"createdAt,omitempty"`
}

// Public mengembalikan salinan akun tanpa password.
func (k KantinAccount) Public() KantinAccount {
	k.Password = ""
	if k.OperatingHours == nil {
		k.OperatingHours = []OperatingHours{}
	}
	return k
}

// MatchesEmail membandingkan email tanpa memperhatikan huruf besar/kecil.
func (k KantinAccount) MatchesEmail(email string) bool {
	return k.Email != "" && strings.EqualFold(strings.TrimSpace(k.Email), strings.TrimSpace(email))
}

// ToRow menyusun payload untuk ditulis ke sheet AkunKantin.
// operatingHours disimpan sebagai string JSON.
func (k KantinAccount) ToRow() map[string]interface{} {
	return map[string]interface{}{
		"id":                k.ID,
		"name":              k.Name,
		"description":       k.Description,
		"ownerId":           k.OwnerID,
		"password":          k.Password,
		"email":             k.Email,
		"whatsapp":          k.Whatsapp,
		"coverImage":        k.CoverImage,
		"qrisImage":         k.QrisImage,
		"spreadsheetApiUrl": k.SpreadsheetAPIURL,
		"spreadsheetUrl":    k.SpreadsheetURL,
		"isOpen":            k.IsOpen,
		"operatingHours":    EncodeOperatingHours(k.OperatingHours),
		"createdAt":         k.CreatedAt,
	}
}

// PublicKantins menghapus password dari setiap akun.
func PublicKantins(list []KantinAccount) []KantinAccount {
	out := make([]KantinAccount, 0, len(list))
	for _, k := range list {
		out = append(out, k.Public())
	}
	return out
}
