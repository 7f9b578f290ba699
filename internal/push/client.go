// Package push talks to the push relay: it exchanges a project identifier
// for a push token and sends push messages addressed to a token.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public relay.
	DefaultBaseURL = "https://exp.host"

	sendPath  = "/--/api/v2/push/send"
	tokenPath = "/--/api/v2/push/getExpoPushToken"

	maxResponseBytes = 1 << 20
)

// ErrEmptyProjectID is returned by GetPushToken when no project is given.
var ErrEmptyProjectID = errors.New("project id is empty")

// Config configures a Client.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	Development bool

	// AppID identifies the application to the relay.
	AppID string

	// DeviceID identifies this installation. Empty means a fresh UUID per Client.
	DeviceID string
}

// Message is one push notification.
type Message struct {
	To    string         `json:"to"`
	Sound string         `json:"sound"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data"`
}

// Ticket is the relay's receipt for a sent message.
type Ticket struct {
	Status  string         `json:"status"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// OK reports whether the relay accepted the message.
func (t Ticket) OK() bool {
	return t.Status == "ok"
}

// RelayError is a failure reported by the relay.
type RelayError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *RelayError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("push relay: %s: %s (HTTP %d)", e.Code, e.Message, e.StatusCode)
	case e.Message != "":
		return fmt.Sprintf("push relay: %s (HTTP %d)", e.Message, e.StatusCode)
	default:
		return fmt.Sprintf("push relay: HTTP %d", e.StatusCode)
	}
}

// Client is a push relay client. It never retries.
type Client struct {
	http     *http.Client
	baseURL  string
	cfg      Config
	deviceID string
	log      *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client.
func New(cfg Config, opts ...Option) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	deviceID := cfg.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
	}
	c := &Client{
		http:     newHTTPClient(cfg.Timeout),
		baseURL:  base,
		cfg:      cfg,
		deviceID: deviceID,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.Named("push")
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// DeviceID returns the installation identifier sent with token requests.
func (c *Client) DeviceID() string {
	return c.deviceID
}

type tokenRequest struct {
	Type        string `json:"type"`
	DeviceID    string `json:"deviceId"`
	Development bool   `json:"development"`
	AppID       string `json:"appId,omitempty"`
	ProjectID   string `json:"projectId"`
}

type tokenResponse struct {
	Data struct {
		ExpoPushToken string `json:"expoPushToken"`
	} `json:"data"`
	Errors []relayErrorBody `json:"errors"`
}

type relayErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetPushToken exchanges projectID for this installation's push token.
func (c *Client) GetPushToken(ctx context.Context, projectID string) (string, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return "", ErrEmptyProjectID
	}

	var out tokenResponse
	err := c.post(ctx, tokenPath, tokenRequest{
		Type:        "expo",
		DeviceID:    c.deviceID,
		Development: c.cfg.Development,
		AppID:       c.cfg.AppID,
		ProjectID:   projectID,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("get push token: %w", err)
	}
	if len(out.Errors) > 0 {
		return "", fmt.Errorf("get push token: %w", &RelayError{StatusCode: http.StatusOK, Code: out.Errors[0].Code, Message: out.Errors[0].Message})
	}
	if out.Data.ExpoPushToken == "" {
		return "", fmt.Errorf("get push token: %w", &RelayError{StatusCode: http.StatusOK, Message: "response has no token"})
	}

	c.log.Info("push token issued", zap.String("project_id", projectID))
	return out.Data.ExpoPushToken, nil
}

type sendResponse struct {
	Data   Ticket           `json:"data"`
	Errors []relayErrorBody `json:"errors"`
}

// Send pushes msg through the relay and returns the relay's ticket.
// A ticket with status "error" is returned together with a *RelayError.
func (c *Client) Send(ctx context.Context, msg Message) (Ticket, error) {
	if strings.TrimSpace(msg.To) == "" {
		return Ticket{}, errors.New("send push: recipient token is empty")
	}

	var out sendResponse
	if err := c.post(ctx, sendPath, msg, &out); err != nil {
		return Ticket{}, fmt.Errorf("send push: %w", err)
	}
	if len(out.Errors) > 0 {
		return Ticket{}, fmt.Errorf("send push: %w", &RelayError{StatusCode: http.StatusOK, Code: out.Errors[0].Code, Message: out.Errors[0].Message})
	}
	if !out.Data.OK() {
		code, _ := out.Data.Details["error"].(string)
		return out.Data, fmt.Errorf("send push: %w", &RelayError{StatusCode: http.StatusOK, Code: code, Message: out.Data.Message})
	}

	c.log.Info("push sent", zap.String("ticket", out.Data.ID))
	return out.Data, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	r, err := decodeBody(resp)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		relayErr := &RelayError{StatusCode: resp.StatusCode}
		var eb struct {
			Errors []relayErrorBody `json:"errors"`
		}
		if json.Unmarshal(data, &eb) == nil && len(eb.Errors) > 0 {
			relayErr.Code = eb.Errors[0].Code
			relayErr.Message = eb.Errors[0].Message
		}
		return relayErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeBody undoes the Content-Encoding the relay chose. Setting
// Accept-Encoding by hand turns off net/http's transparent decompression.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip response: %w", err)
		}
		return zr, nil
	case "deflate":
		zr, err := zlib.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("deflate response: %w", err)
		}
		return zr, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Header.Get("Content-Encoding"))
	}
}
