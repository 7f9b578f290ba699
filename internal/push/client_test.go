package push

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/", Timeout: 2 * time.Second, DeviceID: "device-1", AppID: "notiftest"},
		WithHTTPClient(srv.Client()))
}

func TestSend_RequestShape(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, sendPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "gzip, deflate", r.Header.Get("Accept-Encoding"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, `{"data":{"status":"ok","id":"ticket-1"}}`)
	})

	ticket, err := c.Send(context.Background(), Message{
		To:    "ExponentPushToken[abc]",
		Sound: "default",
		Title: "Original Title",
		Body:  "And here is the body!",
		Data:  map[string]any{"someData": "goes here"},
	})
	require.NoError(t, err)
	assert.True(t, ticket.OK())
	assert.Equal(t, "ticket-1", ticket.ID)

	assert.Equal(t, "ExponentPushToken[abc]", gotBody["to"])
	assert.Equal(t, "default", gotBody["sound"])
	assert.Equal(t, "Original Title", gotBody["title"])
	assert.Equal(t, "And here is the body!", gotBody["body"])
	assert.Equal(t, map[string]any{"someData": "goes here"}, gotBody["data"])
}

func TestSend_EmptyRecipient(t *testing.T) {
	c := New(Config{})
	_, err := c.Send(context.Background(), Message{To: "  "})
	assert.Error(t, err)
}

func TestSend_TicketError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"status":"error","message":"not registered","details":{"error":"DeviceNotRegistered"}}}`)
	})

	ticket, err := c.Send(context.Background(), Message{To: "ExponentPushToken[x]"})
	require.Error(t, err)
	assert.Equal(t, "error", ticket.Status)

	var relayErr *RelayError
	require.True(t, errors.As(err, &relayErr))
	assert.Equal(t, "DeviceNotRegistered", relayErr.Code)
	assert.Equal(t, "not registered", relayErr.Message)
}

func TestSend_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errors":[{"code":"VALIDATION_ERROR","message":"\"to\" is invalid"}]}`)
	})

	_, err := c.Send(context.Background(), Message{To: "bogus"})
	var relayErr *RelayError
	require.True(t, errors.As(err, &relayErr))
	assert.Equal(t, http.StatusBadRequest, relayErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", relayErr.Code)
	assert.Contains(t, err.Error(), "HTTP 400")
}

func TestSend_DecodesCompressedResponses(t *testing.T) {
	const payload = `{"data":{"status":"ok","id":"zipped"}}`

	tests := []struct {
		name     string
		encoding string
		write    func(w io.Writer)
	}{
		{
			name:     "gzip",
			encoding: "gzip",
			write: func(w io.Writer) {
				zw := gzip.NewWriter(w)
				_, _ = io.WriteString(zw, payload)
				_ = zw.Close()
			},
		},
		{
			name:     "deflate",
			encoding: "deflate",
			write: func(w io.Writer) {
				zw := zlib.NewWriter(w)
				_, _ = io.WriteString(zw, payload)
				_ = zw.Close()
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", tc.encoding)
				tc.write(w)
			})
			ticket, err := c.Send(context.Background(), Message{To: "ExponentPushToken[x]"})
			require.NoError(t, err)
			assert.Equal(t, "zipped", ticket.ID)
		})
	}
}

func TestSend_UnsupportedEncoding(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		_, _ = io.WriteString(w, "???")
	})
	_, err := c.Send(context.Background(), Message{To: "ExponentPushToken[x]"})
	assert.ErrorContains(t, err, "unsupported content encoding")
}

func TestGetPushToken(t *testing.T) {
	var got tokenRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, tokenPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"data":{"expoPushToken":"ExponentPushToken[xyz]"}}`)
	})

	token, err := c.GetPushToken(context.Background(), " project-1 ")
	require.NoError(t, err)
	assert.Equal(t, "ExponentPushToken[xyz]", token)

	assert.Equal(t, "expo", got.Type)
	assert.Equal(t, "device-1", got.DeviceID)
	assert.Equal(t, "project-1", got.ProjectID)
	assert.Equal(t, "notiftest", got.AppID)
	assert.False(t, got.Development)
}

func TestGetPushToken_Failures(t *testing.T) {
	t.Run("empty project", func(t *testing.T) {
		_, err := New(Config{}).GetPushToken(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmptyProjectID)
	})

	t.Run("relay errors array", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"errors":[{"code":"PROJECT_NOT_FOUND","message":"no such project"}]}`)
		})
		_, err := c.GetPushToken(context.Background(), "p")
		var relayErr *RelayError
		require.True(t, errors.As(err, &relayErr))
		assert.Equal(t, "PROJECT_NOT_FOUND", relayErr.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"data":{}}`)
		})
		_, err := c.GetPushToken(context.Background(), "p")
		assert.ErrorContains(t, err, "no token")
	})

	t.Run("server down", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := New(Config{BaseURL: srv.URL, Timeout: time.Second})
		_, err := c.GetPushToken(context.Background(), "p")
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"data":{"expoPushToken":"x"}}`)
		})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := c.GetPushToken(ctx, "p")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.NotEmpty(t, c.DeviceID())
	assert.NotEqual(t, c.DeviceID(), New(Config{}).DeviceID(), "device ids are per client")
}

func TestRelayErrorMessage(t *testing.T) {
	assert.Equal(t, "push relay: HTTP 502", (&RelayError{StatusCode: 502}).Error())
	assert.Equal(t, "push relay: boom (HTTP 500)", (&RelayError{StatusCode: 500, Message: "boom"}).Error())
	assert.Equal(t, "push relay: C: m (HTTP 400)", (&RelayError{StatusCode: 400, Code: "C", Message: "m"}).Error())
}
