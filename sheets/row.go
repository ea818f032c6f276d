package sheets

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Row adalah satu baris sheet apa adanya. Spreadsheet tidak menjaga tipe,
// sehingga angka bisa datang sebagai string dan boolean sebagai "TRUE".
type Row map[string]interface{}

func (r Row) Has(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

func (r Row) Raw(key string) interface{} {
	return r[key]
}

func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == math.Trunc(v) && math.Abs(v) < 1e15 {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Int mengubah nilai menjadi integer. ok bernilai false bila nilai kosong
// atau tidak dapat dibaca sebagai angka.
func (r Row) Int(key string) (int64, bool) {
	switch v := r[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// OptionalInt mengembalikan nil bila kolom kosong atau tidak valid.
func (r Row) OptionalInt(key string) *int {
	n, ok := r.Int(key)
	if !ok {
		return nil
	}
	v := int(n)
	return &v
}

func (r Row) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "ya":
			return true
		}
		return false
	case float64:
		return v != 0
	default:
		return false
	}
}

// JSON membaca kolom yang bisa berisi string JSON atau nilai terstruktur
// ke dalam out. Kolom kosong tidak mengubah out.
func (r Row) JSON(key string, out interface{}) error {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	if s, isString := v.(string); isString {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return json.Unmarshal([]byte(s), out)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
