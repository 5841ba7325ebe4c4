// Package apiclient adalah klien JSON untuk backend REST Impala
// (`/form-templates`, `/form-builder`, `/impala`).
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// HTTPClient cukup Do, supaya test bisa memakai mock.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient membuat *http.Client dengan timeout default.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

type Client struct {
	baseURL string
	token   string
	http    HTTPClient
}

func New(baseURL, token string, hc HTTPClient) *Client {
	if hc == nil {
		hc = NewHTTPClient(0)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    hc,
	}
}

// envelope mengikuti bentuk respons backend: {success, message, data}.
// success boleh tidak ada (mis. endpoint program-name).
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError mewakili kegagalan dari backend atau jaringan.
// Status 0 berarti request tidak pernah mendapat respons HTTP.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return fmt.Sprintf("request gagal: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("backend %d", e.Status)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

// Get, Post, Put, Delete adalah pintasan untuk Do.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do mengirim request JSON lalu men-decode field `data` ke out (jika tidak nil).
// Respons non-2xx atau `success:false` menjadi *APIError dengan message dari server.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Err: err}
	}

	var env envelope
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		// beberapa endpoint mengembalikan array mentah tanpa envelope
		env.Data = trimmed
	} else if len(trimmed) > 0 {
		if err := sonic.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return &APIError{Status: resp.StatusCode, Message: "respons backend tidak valid", Err: err}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(env.Message)}
	}
	if env.Success != nil && !*env.Success {
		return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(env.Message)}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data %s %s: %w", method, path, err)
	}
	return nil
}

const (
	MsgServerError = "Terjadi kesalahan pada server. Silakan coba beberapa saat lagi."
	MsgBadRequest  = "Data yang dikirim tidak valid. Periksa kembali isian Anda."
)

// UserMessage memilih teks yang ditampilkan ke user: 500 selalu diganti copy
// yang ramah, message server dipakai apa adanya jika ada, 400 tanpa message
// diganti copy ramah, sisanya fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}
	switch {
	case apiErr.Status >= 500:
		return MsgServerError
	case apiErr.Message != "":
		return apiErr.Message
	case apiErr.Status == http.StatusBadRequest:
		return MsgBadRequest
	default:
		return fallback
	}
}
