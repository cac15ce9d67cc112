// Package apiclient talks to the candidate REST API. Every page gets its own
// Client from a Factory built once at startup from an explicit Config.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"

	"github.com/codewithwan/erecruitment/internal/logger"
	"github.com/codewithwan/erecruitment/internal/utils"
)

const (
	MsgGeneric = "Terjadi kesalahan. Silakan coba lagi."
	MsgTimeout = "Permintaan melebihi batas waktu. Silakan coba lagi."

	DefaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
)

// Config replaces the ambient CSRF token / axios defaults of a browser page.
type Config struct {
	BaseURL   string
	CSRFToken string
	Timeout   time.Duration
	UserAgent string
}

// API is the surface the wizard consumes.
type API interface {
	Get(ctx context.Context, path string, out any) error
	Send(ctx context.Context, method, path string, p *Payload, out any) error
}

type Factory struct {
	cfg    Config
	hc     *http.Client
	log    *logrus.Entry
	policy *bluemonday.Policy
}

func NewFactory(cfg Config, hc *http.Client, l logrus.FieldLogger) (*Factory, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("apiclient: base url is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Factory{
		cfg:    cfg,
		hc:     hc,
		log:    logger.Component(l, "apiclient"),
		policy: bluemonday.StrictPolicy(),
	}, nil
}

// ForToken returns a client that authenticates as the holder of token.
func (f *Factory) ForToken(token string) *Client {
	return &Client{f: f, token: token}
}

type Client struct {
	f *Factory

	mu    sync.RWMutex
	token string
}

// SetToken swaps the bearer token, ex: after the candidate's session refreshed.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// APIError is an upstream non-2xx (or success=false) reply.
type APIError struct {
	Status        int
	ServerMessage string
	Fields        map[string][]string
}

func (e *APIError) Error() string {
	if e.ServerMessage != "" {
		return fmt.Sprintf("upstream %d: %s", e.Status, e.ServerMessage)
	}
	return fmt.Sprintf("upstream %d", e.Status)
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) Send(ctx context.Context, method, path string, p *Payload, out any) error {
	if p == nil {
		return c.do(ctx, method, path, nil, "", out)
	}
	body, ct, err := p.encode()
	if err != nil {
		return utils.E(utils.CodeInternal, "Client.Send", MsgGeneric, err)
	}
	return c.do(ctx, method, path, body, ct, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	const op = "Client.Do"

	ctx, cancel := context.WithTimeout(ctx, c.f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.f.cfg.BaseURL+path, body)
	if err != nil {
		return utils.E(utils.CodeInternal, op, MsgGeneric, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.f.cfg.CSRFToken != "" {
		req.Header.Set("X-CSRF-TOKEN", c.f.cfg.CSRFToken)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.f.cfg.UserAgent)
	}

	start := time.Now()
	log := c.f.log.WithFields(logrus.Fields{"method": method, "path": path})

	resp, err := c.f.hc.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return transportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.WithError(err).Warn("read body failed")
		return transportError(op, err)
	}

	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "latency_ms": time.Since(start).Milliseconds()})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.parseError(resp.StatusCode, raw)
		log.WithError(apiErr).Warn("upstream rejected request")
		return wrapAPIError(op, apiErr)
	}
	log.Debug("request")

	return c.decode(op, resp.StatusCode, raw, out)
}

type envelope struct {
	Status  string          `json:"status"`
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decode unwraps {status|success, data} envelopes; bare bodies are decoded as is.
func (c *Client) decode(op string, status int, raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}

	target := trimmed
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err == nil {
			if (env.Success != nil && !*env.Success) || env.Status == "error" {
				return wrapAPIError(op, &APIError{Status: status, ServerMessage: c.clean(env.Message)})
			}
			if len(env.Data) > 0 {
				target = env.Data
			}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(target, out); err != nil {
		return utils.E(utils.CodeInternal, op, MsgGeneric, err)
	}
	return nil
}

func (c *Client) parseError(status int, raw []byte) *APIError {
	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	_ = json.Unmarshal(raw, &body)

	e := &APIError{Status: status, ServerMessage: c.clean(body.Message)}
	if len(body.Errors) > 0 {
		e.Fields = make(map[string][]string, len(body.Errors))
		for k, msgs := range body.Errors {
			for _, m := range msgs {
				e.Fields[k] = append(e.Fields[k], c.clean(m))
			}
		}
	}
	return e
}

func (c *Client) clean(s string) string {
	return strings.TrimSpace(c.f.policy.Sanitize(s))
}

func wrapAPIError(op string, e *APIError) error {
	code := utils.CodeForStatus(e.Status)
	if e.Status >= 200 && e.Status <= 299 {
		code = utils.CodeInternal
	}
	ae := &utils.AppError{Code: code, Op: op, Message: e.ServerMessage, Err: e}
	if e.Status == http.StatusUnprocessableEntity {
		ae.Message = Flatten(e.Fields)
		if ae.Message == "" {
			ae.Message = e.ServerMessage
		}
		ae.Fields = firstMessages(e.Fields)
	}
	return ae
}

func transportError(op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return utils.E(utils.CodeTimeout, op, MsgTimeout, err)
	case errors.Is(err, context.Canceled):
		return utils.E(utils.CodeCanceled, op, "", err)
	default:
		return utils.E(utils.CodeUnavailable, op, MsgGeneric, err)
	}
}

// Flatten joins every per-field message into one line, fields in key order.
func Flatten(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var all []string
	for _, k := range keys {
		all = append(all, fields[k]...)
	}
	return strings.Join(all, ", ")
}

func firstMessages(fields map[string][]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for k, msgs := range fields {
		if len(msgs) > 0 {
			out[k] = msgs[0]
		}
	}
	return out
}

// FormMessage is the banner text of a failed form submission: the flattened
// 422 message, the timeout notice, or the generic fallback.
func FormMessage(err error) string {
	var ae *utils.AppError
	if !errors.As(err, &ae) {
		return MsgGeneric
	}
	var apiErr *APIError
	switch {
	case ae.Code == utils.CodeTimeout:
		return MsgTimeout
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity && ae.Message != "":
		return ae.Message
	default:
		return MsgGeneric
	}
}

// ServerMessage prefers whatever the upstream said, falling back otherwise.
func ServerMessage(err error, fallback string) string {
	if utils.IsCode(err, utils.CodeTimeout) {
		return MsgTimeout
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnprocessableEntity && len(apiErr.Fields) > 0 {
			return Flatten(apiErr.Fields)
		}
		if apiErr.ServerMessage != "" {
			return apiErr.ServerMessage
		}
	}
	return fallback
}

// IsCanceled reports a request abandoned because its page closed.
func IsCanceled(err error) bool {
	return utils.IsCode(err, utils.CodeCanceled) || errors.Is(err, context.Canceled)
}

func ItemPath(base string, id int64) string {
	return fmt.Sprintf("%s/%d", base, id)
}
