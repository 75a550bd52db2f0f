package preview

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/eyedropper-mcp/internal/sampler"
)

func newResult(t *testing.T, w, h int) *sampler.Result {
	t.Helper()
	r, err := sampler.NewResult(image.NewNRGBA(image.Rect(0, 0, w, h)))
	require.NoError(t, err)
	return r
}

func TestNew_NilLoggerDiscards(t *testing.T) {
	l, ok := New(sampler.NewSlot(), nil).log.(*logrus.Logger)
	require.True(t, ok)
	assert.Equal(t, io.Discard, l.Out)
}

func TestImage_NotFoundBeforeFirstResult(t *testing.T) {
	srv := httptest.NewServer(New(sampler.NewSlot(), nil).Handler())
	defer srv.Close()

	for _, path := range []string{"/last.png", "/last/dim"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestImage_ServesLastResult(t *testing.T) {
	slot := sampler.NewSlot()
	res := newResult(t, 60, 60)
	slot.Store(res)

	srv := httptest.NewServer(New(slot, nil).Handler())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/last.png", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, res.ID.String(), resp.Header.Get("X-Result-Id"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, res.PNG, body)
}

func TestDimensions(t *testing.T) {
	slot := sampler.NewSlot()
	slot.Store(newResult(t, 60, 40))

	srv := httptest.NewServer(New(slot, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/last/dim")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))

	var got dimensions
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, dimensions{Width: 60, Height: 40}, got)
}

func TestWebSocket_PushesUpdates(t *testing.T) {
	slot := sampler.NewSlot()
	srv := httptest.NewServer(New(slot, nil).Handler())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	res := newResult(t, 20, 20)
	slot.Store(res)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, msgType)
	assert.Equal(t, res.PNG, data)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(sampler.NewSlot(), nil).ListenAndServe(ctx, addr)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/last/dim")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
