package utils

import (
	"strconv"
	"strings"
)

// FormatRupiah memformat nominal rupiah dengan pemisah ribuan.
// Contoh: 15000 -> "Rp 15.000"
func FormatRupiah(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return "Rp " + sign + b.String()
}
