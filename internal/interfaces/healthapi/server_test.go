package healthapi

import (
	"context"
	"errors"
	"net"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func serve(t *testing.T, db Pinger) *fasthttp.Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	srv := NewServer(db, "v1.2.3", logging.NewNop())
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	return &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}
}

func get(t *testing.T, client *fasthttp.Client, path string) (int, []byte) {
	t.Helper()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("http://health.test" + path)
	require.NoError(t, client.Do(req, resp))
	return resp.StatusCode(), append([]byte(nil), resp.Body()...)
}

func TestRoot(t *testing.T) {
	t.Parallel()

	code, body := get(t, serve(t, nil), "/")
	assert.Equal(t, fasthttp.StatusOK, code)
	assert.Equal(t, greeting, string(body))
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		code, body := get(t, serve(t, stubPinger{}), "/healthz")
		assert.Equal(t, fasthttp.StatusOK, code)

		var got healthResponse
		require.NoError(t, sonic.Unmarshal(body, &got))
		assert.Equal(t, statusOK, got.Status)
		assert.Equal(t, "v1.2.3", got.Version)
	})

	t.Run("database down", func(t *testing.T) {
		code, body := get(t, serve(t, stubPinger{err: errors.New("connection refused")}), "/healthz")
		assert.Equal(t, fasthttp.StatusServiceUnavailable, code)

		var got healthResponse
		require.NoError(t, sonic.Unmarshal(body, &got))
		assert.Equal(t, statusDegrade, got.Status)
		assert.Equal(t, "unreachable", got.Database)
	})
}

func TestUnknownPath(t *testing.T) {
	t.Parallel()

	code, _ := get(t, serve(t, nil), "/metrics")
	assert.Equal(t, fasthttp.StatusNotFound, code)
}
