package healthapi

import (
	"context"
	"net"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/commishbot/internal/platform/logging"
	"github.com/valyala/fasthttp"
)

const (
	greeting      = "CommishBot, reporting for duty."
	pingTimeout   = 2 * time.Second
	statusOK      = "ok"
	statusDegrade = "degraded"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	server  *fasthttp.Server
	db      Pinger
	version string
	started time.Time
	logger  *logging.Logger
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version,omitempty"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

func NewServer(db Pinger, version string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Server{
		db:      db,
		version: version,
		started: time.Now(),
		logger:  logger,
	}
	s.server = &fasthttp.Server{
		Handler:      s.handle,
		Name:         "commishbot",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	switch string(ctx.Path()) {
	case "/":
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString(greeting)
	case "/healthz":
		s.health(ctx)
	default:
		ctx.Error("not found", fasthttp.StatusNotFound)
	}
}

func (s *Server) health(ctx *fasthttp.RequestCtx) {
	resp := healthResponse{
		Status:   statusOK,
		Version:  s.version,
		Database: statusOK,
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	}
	code := fasthttp.StatusOK

	if s.db != nil {
		pingCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err := s.db.PingContext(pingCtx)
		cancel()
		if err != nil {
			s.logger.Warn("health check database ping failed", "error", err)
			resp.Status = statusDegrade
			resp.Database = "unreachable"
			code = fasthttp.StatusServiceUnavailable
		}
	}

	body, err := sonic.Marshal(resp)
	if err != nil {
		ctx.Error("encode health", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(code)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

// Serve blocks until ln is closed or Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	return s.server.Serve(ln)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("health server listening", "addr", addr)
	return s.server.ListenAndServe(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.ShutdownWithContext(ctx)
}
