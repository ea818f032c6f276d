package sheets

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ekantin/utils"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Quarantined adalah baris yang gagal dibaca atau gagal validasi.
type Quarantined struct {
	Index int
	ID    string
	Err   error
}

// Decode mengubah setiap baris menjadi record bertipe lalu memvalidasinya
// dengan tag `validate`. Baris yang gagal tidak ikut dikembalikan.
func Decode[T any](sheet string, rows []Row, mapRow func(Row) (T, error)) ([]T, []Quarantined) {
	records := make([]T, 0, len(rows))
	var bad []Quarantined

	for i, row := range rows {
		rec, err := mapRow(row)
		if err == nil {
			err = validatorInstance().Struct(rec)
		}
		if err != nil {
			q := Quarantined{Index: i, ID: row.String("id"), Err: err}
			bad = append(bad, q)
			utils.ErrorLogger.WithFields(logrus.Fields{
				"sheet": sheet,
				"row":   i,
				"id":    q.ID,
			}).Errorf("baris sheet tidak valid, dikarantina: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records, bad
}

// ValidateStruct memvalidasi struct dengan validator yang sama.
func ValidateStruct(v interface{}) error {
	if err := validatorInstance().Struct(v); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
