package models

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultOpenTime  = "08:00"
	DefaultCloseTime = "17:00"
)

// OperatingHours adalah jam buka untuk satu hari. Day bernilai 1 (Senin)
// sampai 7 (Minggu).
type OperatingHours struct {
	Day    int    `json:"day"`
	Open   string `json:"open"`
	Close  string `json:"close"`
	IsOpen bool   `json:"isOpen"`
}

var dayNames = map[string]int{
	"senin":     1,
	"selasa":    2,
	"rabu":      3,
	"kamis":     4,
	"jumat":     5,
	"jum'at":    5,
	"sabtu":     6,
	"minggu":    7,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
	"sunday":    7,
}

var indonesianDays = [...]string{"Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu", "Minggu"}

// DayName mengembalikan nama hari dalam bahasa Indonesia.
func DayName(day int) string {
	return indonesianDays[clampDay(day)-1]
}

// NormalizeDay mengubah nilai hari dari sheet menjadi 1..7.
// Nama hari yang tidak dikenal dan tipe lain menjadi 1.
func NormalizeDay(v interface{}) int {
	switch d := v.(type) {
	case int:
		return clampDay(d)
	case int64:
		return clampDay(int(d))
	case float64:
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return 1
		}
		return clampDay(int(d))
	case json.Number:
		if n, err := d.Float64(); err == nil {
			return NormalizeDay(n)
		}
		return 1
	case string:
		s := strings.ToLower(strings.TrimSpace(d))
		if n, ok := dayNames[s]; ok {
			return n
		}
		if n, err := strconv.Atoi(s); err == nil {
			return clampDay(n)
		}
		return 1
	default:
		return 1
	}
}

func clampDay(d int) int {
	if d < 1 {
		return 1
	}
	if d > 7 {
		return 7
	}
	return d
}

// DefaultOperatingHours: Senin-Jumat buka 08:00-17:00, akhir pekan tutup.
func DefaultOperatingHours() []OperatingHours {
	hours := make([]OperatingHours, 0, 7)
	for day := 1; day <= 7; day++ {
		hours = append(hours, OperatingHours{
			Day:    day,
			Open:   DefaultOpenTime,
			Close:  DefaultCloseTime,
			IsOpen: day <= 5,
		})
	}
	return hours
}

// SanitizeOperatingHours mengisi jam kosong dengan default, menjaga agar
// setiap hari hanya muncul sekali, lalu mengurutkan berdasarkan hari.
func SanitizeOperatingHours(hours []OperatingHours) []OperatingHours {
	seen := make(map[int]bool, 7)
	out := make([]OperatingHours, 0, len(hours))
	for _, h := range hours {
		h.Day = clampDay(h.Day)
		if seen[h.Day] {
			continue
		}
		seen[h.Day] = true
		h.Open = strings.TrimSpace(h.Open)
		h.Close = strings.TrimSpace(h.Close)
		if h.Open == "" {
			h.Open = DefaultOpenTime
		}
		if h.Close == "" {
			h.Close = DefaultCloseTime
		}
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// ParseOperatingHours membaca operatingHours dari sheet. Nilai bisa berupa
// string JSON atau array; string yang rusak menghasilkan list kosong.
// Entry yang bukan object dibuang.
func ParseOperatingHours(v interface{}) []OperatingHours {
	var entries []interface{}
	switch raw := v.(type) {
	case nil:
		return []OperatingHours{}
	case string:
		if strings.TrimSpace(raw) == "" {
			return []OperatingHours{}
		}
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			return []OperatingHours{}
		}
	case []interface{}:
		entries = raw
	case []map[string]interface{}:
		for _, m := range raw {
			entries = append(entries, m)
		}
	case []OperatingHours:
		return SanitizeOperatingHours(raw)
	default:
		return []OperatingHours{}
	}

	hours := make([]OperatingHours, 0, len(entries))
	for _, e := range entries {
		obj, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		open, _ := obj["open"].(string)
		closing, _ := obj["close"].(string)
		hours = append(hours, OperatingHours{
			Day:    NormalizeDay(obj["day"]),
			Open:   open,
			Close:  closing,
			IsOpen: truthy(obj["isOpen"]),
		})
	}
	return SanitizeOperatingHours(hours)
}

// EncodeOperatingHours menghasilkan string JSON untuk disimpan di sheet.
func EncodeOperatingHours(hours []OperatingHours) string {
	if hours == nil {
		hours = []OperatingHours{}
	}
	b, err := json.Marshal(SanitizeOperatingHours(hours))
	if err != nil {
		return "[]"
	}
	return string(b)
}

func truthy(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		return s == "true" || s == "1" || s == "yes" || s == "ya"
	case float64:
		return b != 0
	case int:
		return b != 0
	default:
		return false
	}
}
