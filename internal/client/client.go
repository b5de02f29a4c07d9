// Package client wraps the trading API endpoints. Every call returns a
// normalized *Result; none of them retry.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mehrbod2002/fxmobile/internal/models"
)

// GenericFailure is shown when the server gives no message of its own.
const GenericFailure = "Something went wrong. Please try again."

var (
	ErrNoData       = errors.New("response has no data")
	ErrUnauthorized = errors.New("missing auth token")
)

// Result is the outcome of one API call. OK means the request reached the
// server, the status was 2xx and the envelope flagged success.
type Result struct {
	OK      bool
	Status  int
	Message string
	Data    json.RawMessage
	Err     error
}

// Decode unmarshals the envelope's data section into v.
func (r *Result) Decode(v any) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return ErrNoData
	}
	return json.Unmarshal(r.Data, v)
}

// Failure is the message to show for an unsuccessful result.
func (r *Result) Failure() string {
	if r.Message != "" {
		return r.Message
	}
	return GenericFailure
}

type Client struct {
	host string
	http *http.Client
}

func New(host string, timeout time.Duration) *Client {
	return NewWithHTTPClient(host, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(host string, hc *http.Client) *Client {
	return &Client{host: strings.TrimRight(host, "/"), http: hc}
}

func (c *Client) Host() string {
	return c.host
}

type request struct {
	method      string
	path        string
	token       string
	query       url.Values
	body        io.Reader
	contentType string
}

func (c *Client) getJSON(ctx context.Context, path, token string, query url.Values) *Result {
	return c.do(ctx, request{method: http.MethodGet, path: path, token: token, query: query})
}

func (c *Client) sendJSON(ctx context.Context, method, path, token string, payload any) *Result {
	data, err := json.Marshal(payload)
	if err != nil {
		return &Result{Err: fmt.Errorf("encode request: %w", err), Message: GenericFailure}
	}
	return c.do(ctx, request{method: method, path: path, token: token, body: bytes.NewReader(data), contentType: "application/json"})
}

func (c *Client) sendForm(ctx context.Context, method, path, token string, form url.Values) *Result {
	return c.do(ctx, request{
		method:      method,
		path:        path,
		token:       token,
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
}

func (c *Client) do(ctx context.Context, r request) *Result {
	u := c.host + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return &Result{Err: fmt.Errorf("build request: %w", err), Message: GenericFailure}
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("Request %s %s failed: %v", r.method, r.path, err)
		return &Result{Err: err, Message: GenericFailure}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Reading %s %s response failed: %v", r.method, r.path, err)
		return &Result{Status: resp.StatusCode, Err: err, Message: GenericFailure}
	}

	res := &Result{Status: resp.StatusCode}
	var env models.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			res.Err = fmt.Errorf("decode response: %w", err)
		}
		res.Message = GenericFailure
		return res
	}
	res.Message = env.Message
	res.Data = env.Data
	res.OK = resp.StatusCode >= 200 && resp.StatusCode < 300 && env.Status
	return res
}

func unauthorized() *Result {
	return &Result{Status: http.StatusUnauthorized, Err: ErrUnauthorized, Message: "Please log in again"}
}
