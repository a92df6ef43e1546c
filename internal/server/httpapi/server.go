package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/primesolution/invoicer/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Server runs the HTTP front of the ledger.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger logging.Logger
}

func NewServer(addr string, handler *Handler, logger logging.Logger) *Server {
	e := echo.New()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	e.POST("/api", func(c *echo.Context) error {
		return handler.Dispatch(c)
	})

	return &Server{echo: e, addr: addr, logger: logger.With("component", "http")}
}

// Run serves until ctx is cancelled, then shuts down gracefully, waiting up
// to shutdownTimeout for in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "server listening", "addr", s.addr)

	sc := echo.StartConfig{
		Address:         s.addr,
		HideBanner:      true,
		GracefulTimeout: shutdownTimeout,
	}
	if err := sc.Start(ctx, s.echo); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	s.logger.Info(context.Background(), "server stopped")
	return nil
}

func requestLogger(logger logging.Logger) echo.MiddlewareFunc {
	l := logger.With("component", "http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()
			err := next(c)

			req := (*c).Request()
			l.Info(req.Context(), "request",
				"method", req.Method,
				"uri", req.RequestURI,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", (*c).Response().Header().Get(echo.HeaderXRequestID),
			)
			return err
		}
	}
}
