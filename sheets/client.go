// Package sheets meneruskan operasi CRUD ke Google Apps Script yang
// dipublikasikan sebagai web app di atas Google Spreadsheet.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yeremiapane/ekantin/config"
	"github.com/yeremiapane/ekantin/utils"
)

const maxBodySize = 10 << 20

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// WriteRequest adalah body POST yang dikirim ke script.
type WriteRequest struct {
	Action Action      `json:"action"`
	ID     string      `json:"id,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Response adalah hasil panggilan yang sudah lolos klasifikasi.
type Response struct {
	StatusCode int
	Body       []byte
	Object     map[string]interface{}
}

// Client tidak menyimpan state selain konfigurasi dan tidak melakukan retry.
type Client struct {
	defaultURL   string
	allowedHosts []string
	httpClient   *http.Client
	now          func() time.Time
}

// NewClient membuat client gateway. allowedHosts kosong mengizinkan semua
// host script. httpClient nil memakai client dengan timeout 30 detik.
func NewClient(defaultURL string, allowedHosts []string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		defaultURL:   strings.TrimSpace(defaultURL),
		allowedHosts: allowedHosts,
		httpClient:   httpClient,
		now:          time.Now,
	}
}

func (c *Client) DefaultURL() string {
	return c.defaultURL
}

// Configured melaporkan apakah URL script default tersedia.
func (c *Client) Configured() bool {
	return c.defaultURL != ""
}

// Fetch mengambil isi sheet dengan GET.
func (c *Client) Fetch(ctx context.Context, scriptURL, sheet string) (*Response, error) {
	target, err := c.buildURL(scriptURL, sheet)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	return c.do(req, sheet)
}

// Write mengirim operasi create/update/delete dengan POST.
func (c *Client) Write(ctx context.Context, scriptURL, sheet string, payload WriteRequest) (*Response, error) {
	target, err := c.buildURL(scriptURL, sheet)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return c.Forward(ctx, target, body)
}

// ForwardRaw meneruskan body POST apa adanya ke script, dipakai oleh proxy.
func (c *Client) ForwardRaw(ctx context.Context, scriptURL, sheet string, body []byte) (*Response, error) {
	target, err := c.buildURL(scriptURL, sheet)
	if err != nil {
		return nil, err
	}
	return c.Forward(ctx, target, body)
}

// Forward mengirim POST ke URL yang sudah dibangun oleh buildURL.
func (c *Client) Forward(ctx context.Context, target string, body []byte) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, req.URL.Query().Get("sheet"))
}

func (c *Client) Create(ctx context.Context, scriptURL, sheet string, data interface{}) (*Response, error) {
	return c.Write(ctx, scriptURL, sheet, WriteRequest{Action: ActionCreate, Data: data})
}

func (c *Client) Update(ctx context.Context, scriptURL, sheet, id string, data interface{}) (*Response, error) {
	return c.Write(ctx, scriptURL, sheet, WriteRequest{Action: ActionUpdate, ID: id, Data: data})
}

func (c *Client) Delete(ctx context.Context, scriptURL, sheet, id string) (*Response, error) {
	return c.Write(ctx, scriptURL, sheet, WriteRequest{Action: ActionDelete, ID: id})
}

// Rows mengambil isi sheet dan mengembalikan array "data".
// Elemen yang bukan object dibuang.
func (c *Client) Rows(ctx context.Context, scriptURL, sheet string) ([]Row, error) {
	resp, err := c.Fetch(ctx, scriptURL, sheet)
	if err != nil {
		return nil, err
	}

	raw, ok := resp.Object["data"].([]interface{})
	if !ok {
		return nil, ErrInvalidFormat
	}

	rows := make([]Row, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			utils.ErrorLogger.Errorf("sheet %s: baris %d bukan object, dilewati", sheet, i)
			continue
		}
		rows = append(rows, Row(obj))
	}
	return rows, nil
}

// buildURL menambahkan parameter sheet dan parameter anti-cache.
func (c *Client) buildURL(scriptURL, sheet string) (string, error) {
	base := strings.TrimSpace(scriptURL)
	if base == "" {
		base = c.defaultURL
	}
	if base == "" {
		return "", ErrNotConfigured
	}

	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrHostNotAllowed, base)
	}
	if !config.HostAllowed(c.allowedHosts, u.Hostname()) {
		return "", fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Hostname())
	}

	ts := strconv.FormatInt(c.now().UnixMilli(), 10)
	q := u.Query()
	q.Set("sheet", sheet)
	q.Set("t", ts)
	q.Set("r", strconv.FormatUint(rand.Uint64(), 36))
	q.Set("_cb", ts)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) do(req *http.Request, sheet string) (*Response, error) {
	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to Google Script failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read Google Script response: %w", err)
	}

	utils.InfoLogger.Debugf("google script %s sheet=%s status=%d (%v)", req.Method, sheet, resp.StatusCode, c.now().Sub(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Code:    resp.StatusCode,
			Status:  statusText(resp),
			Snippet: snippet(body, 100),
		}
	}

	obj, err := classify(body)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Body: body, Object: obj}, nil
}

// classify memeriksa body yang dikembalikan script. Script yang salah
// deploy mengembalikan halaman HTML dengan status 200.
func classify(body []byte) (map[string]interface{}, error) {
	if looksLikeHTML(body) {
		return nil, ErrHTMLResponse
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, &InvalidJSONError{Snippet: snippet(body, 200), Err: err}
	}
	if obj == nil {
		return nil, ErrInvalidFormat
	}

	if e, ok := obj["error"]; ok && e != nil {
		if msg := strings.TrimSpace(fmt.Sprint(e)); msg != "" {
			return nil, &ScriptError{Message: msg}
		}
	}
	if _, ok := obj["data"]; ok {
		return obj, nil
	}
	if success, ok := obj["success"].(bool); ok {
		if success {
			return obj, nil
		}
		msg, _ := obj["message"].(string)
		if msg == "" {
			msg = "Request failed"
		}
		return nil, &ScriptError{Message: msg}
	}
	return nil, ErrInvalidFormat
}

// looksLikeHTML: tag html di tengah body hanya dihitung bila body bukan
// JSON valid.
func looksLikeHTML(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return true
	}
	if json.Valid(trimmed) {
		return false
	}
	lower := bytes.ToLower(trimmed)
	return bytes.Contains(lower, []byte("<html")) || bytes.Contains(lower, []byte("<!doctype"))
}

func statusText(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}

// snippet memotong body maksimal n byte tanpa memecah rune UTF-8.
func snippet(body []byte, n int) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
