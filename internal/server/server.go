package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spigell/resume-agent/internal/config"
	"github.com/spigell/resume-agent/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const (
	Title       = "Resume Agent API"
	Description = "AI-powered resume optimization with human-in-the-loop feedback"
	Version     = "0.1.0"

	shutdownTimeout = 5 * time.Second
)

// allowedMethods is every method the frontend may use.
var allowedMethods = []string{
	fiber.MethodGet,
	fiber.MethodHead,
	fiber.MethodPost,
	fiber.MethodPut,
	fiber.MethodPatch,
	fiber.MethodDelete,
	fiber.MethodOptions,
	fiber.MethodConnect,
	fiber.MethodTrace,
}

// Server serves the Resume Agent API.
type Server struct {
	app      *fiber.App
	settings *config.Settings
	logger   *zap.Logger
}

func New(settings *config.Settings, log *zap.Logger) *Server {
	s := &Server{
		settings: settings,
		logger:   logger.WithFields(log, logger.ServiceFields(Title, Version)...),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               Title,
		DisableStartupMessage: true,
		Immutable:             true,
		ErrorHandler:          s.handleError,
	})

	s.app.Use(recover.New())
	s.app.Use(s.requestLogger)
	s.app.Use(cors.New(cors.Config{
		AllowOrigins:     settings.AllowedOrigin(),
		AllowMethods:     strings.Join(allowedMethods, ","),
		AllowCredentials: true,
	}))

	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Get("/", s.root)
	s.app.Get("/health", s.health)
	s.app.Get("/openapi.json", s.openAPI)
}

// Run serves on addr until ctx is cancelled and then shuts down gracefully.
// A ctx that is already done returns without serving.
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := ctx.Err(); err != nil {
		return nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()), zap.String("allowed_origin", s.settings.AllowedOrigin()))
		errCh <- s.app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving on %s: %w", ln.Addr(), err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))

	shutdownErr := s.app.ShutdownWithTimeout(shutdownTimeout)
	// fasthttp only closes listeners it has already registered
	_ = ln.Close()

	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		return fmt.Errorf("serving on %s: %w", ln.Addr(), err)
	}
	if shutdownErr != nil {
		return fmt.Errorf("shutting down: %w", shutdownErr)
	}

	return nil
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	} else if err != nil {
		status = fiber.StatusInternalServerError
	}

	fields := logger.RequestFields(c.Method(), c.Path(), c.Get(fiber.HeaderOrigin), c.Get(fiber.HeaderUserAgent))
	fields = append(fields, zap.Int(logger.FieldStatus, status), zap.Duration(logger.FieldLatency, time.Since(start)))

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Debug("request", fields...)
	}

	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(ErrorResponse{Error: message})
}
