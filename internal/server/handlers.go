package server

import (
	"github.com/gofiber/fiber/v2"
)

const (
	statusRunning = "running"
	statusHealthy = "healthy"
)

type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) root(c *fiber.Ctx) error {
	return c.JSON(StatusResponse{
		Message: Title,
		Status:  statusRunning,
		Version: Version,
	})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: statusHealthy})
}
