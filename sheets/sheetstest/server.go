// Package sheetstest menyediakan Google Apps Script palsu untuk test.
package sheetstest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Request mencatat satu panggilan yang diterima server.
type Request struct {
	Method string
	Sheet  string
	Action string
	ID     string
	Data   map[string]interface{}
	Query  map[string]string
}

// Server meniru web app Apps Script: GET mengembalikan {"data": rows},
// POST menjalankan action create/update/delete.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	sheets     map[string][]map[string]interface{}
	requests   []Request
	html       bool
	failStatus int
	failWrites map[string]string
	hook       func(Request)
}

func NewServer() *Server {
	s := &Server{
		sheets:     make(map[string][]map[string]interface{}),
		failWrites: make(map[string]string),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Seed menambahkan baris ke sheet.
func (s *Server) Seed(sheet string, rows ...map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.sheets[sheet] = append(s.sheets[sheet], normalize(r))
	}
}

// Rows mengembalikan salinan isi sheet.
func (s *Server) Rows(sheet string) []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]interface{}, 0, len(s.sheets[sheet]))
	for _, r := range s.sheets[sheet] {
		out = append(out, normalize(r))
	}
	return out
}

// Row mengembalikan baris dengan id tertentu atau nil.
func (s *Server) Row(sheet, id string) map[string]interface{} {
	for _, r := range s.Rows(sheet) {
		if fmt.Sprint(r["id"]) == id {
			return r
		}
	}
	return nil
}

// Patch mengubah baris secara langsung, seolah ditulis oleh proses lain.
func (s *Server) Patch(sheet, id string, data map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.sheets[sheet] {
		if fmt.Sprint(r["id"]) == id {
			for k, v := range normalize(data) {
				r[k] = v
			}
		}
	}
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Writes mengembalikan request POST untuk sheet dan action tertentu.
func (s *Server) Writes(sheet, action string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == http.MethodPost && r.Sheet == sheet && r.Action == action {
			out = append(out, r)
		}
	}
	return out
}

// ServeHTML membuat server mengembalikan halaman HTML dengan status 200.
func (s *Server) ServeHTML(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html = on
}

// FailWith membuat semua request gagal dengan status tersebut. 0 mematikan.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// FailWrites membuat POST ke sheet mengembalikan {"error": msg}.
func (s *Server) FailWrites(sheet, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg == "" {
		delete(s.failWrites, sheet)
		return
	}
	s.failWrites[sheet] = msg
}

// OnRequest memasang hook yang dipanggil sebelum request diproses.
func (s *Server) OnRequest(hook func(Request)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = hook
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	req := Request{
		Method: r.Method,
		Sheet:  r.URL.Query().Get("sheet"),
		Query:  map[string]string{},
	}
	for k := range r.URL.Query() {
		req.Query[k] = r.URL.Query().Get(k)
	}

	if r.Method == http.MethodPost {
		var body struct {
			Action string                 `json:"action"`
			ID     interface{}            `json:"id"`
			Data   map[string]interface{} `json:"data"`
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &body); err != nil {
			writeJSON(w, http.StatusOK, map[string]interface{}{"error": "Invalid JSON body"})
			return
		}
		req.Action = body.Action
		if body.ID != nil {
			req.ID = fmt.Sprint(body.ID)
		}
		req.Data = body.Data
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	hook := s.hook
	s.mu.Unlock()

	if hook != nil {
		hook(req)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failStatus != 0 {
		w.WriteHeader(s.failStatus)
		_, _ = w.Write([]byte("script failure"))
		return
	}
	if s.html {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<!DOCTYPE html><html><body>Sign in</body></html>"))
		return
	}

	if r.Method == http.MethodGet {
		rows := make([]map[string]interface{}, 0, len(s.sheets[req.Sheet]))
		for _, row := range s.sheets[req.Sheet] {
			rows = append(rows, normalize(row))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"data": rows})
		return
	}

	if msg, ok := s.failWrites[req.Sheet]; ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"error": msg})
		return
	}

	switch req.Action {
	case "create":
		row := normalize(req.Data)
		s.sheets[req.Sheet] = append(s.sheets[req.Sheet], row)
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": row})
	case "update":
		for _, row := range s.sheets[req.Sheet] {
			if fmt.Sprint(row["id"]) == req.ID {
				for k, v := range normalize(req.Data) {
					row[k] = v
				}
				writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": normalize(row)})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"error": "Record not found"})
	case "delete":
		rows := s.sheets[req.Sheet]
		for i, row := range rows {
			if fmt.Sprint(row["id"]) == req.ID {
				s.sheets[req.Sheet] = append(rows[:i:i], rows[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"error": "Record not found"})
	default:
		writeJSON(w, http.StatusOK, map[string]interface{}{"error": "Unknown action"})
	}
}

// normalize menyalin map melalui JSON sehingga tipe nilai sama dengan
// yang diterima client sungguhan.
func normalize(in map[string]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	if in == nil {
		return out
	}
	b, err := json.Marshal(in)
	if err != nil {
		return out
	}
	_ = json.Unmarshal(b, &out)
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
