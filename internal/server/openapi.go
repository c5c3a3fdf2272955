package server

import (
	"github.com/gofiber/fiber/v2"
)

const openAPIVersion = "3.1.0"

// OpenAPIDocument is the subset of an OpenAPI document this service publishes.
type OpenAPIDocument struct {
	OpenAPI string                     `json:"openapi"`
	Info    OpenAPIInfo                `json:"info"`
	Paths   map[string]OpenAPIPathItem `json:"paths"`
}

type OpenAPIInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

type OpenAPIPathItem struct {
	Get *OpenAPIOperation `json:"get,omitempty"`
}

type OpenAPIOperation struct {
	Summary     string                     `json:"summary"`
	OperationID string                     `json:"operationId"`
	Responses   map[string]OpenAPIResponse `json:"responses"`
}

type OpenAPIResponse struct {
	Description string `json:"description"`
}

func newOpenAPIDocument() OpenAPIDocument {
	ok := map[string]OpenAPIResponse{
		"200": {Description: "Successful Response"},
	}

	return OpenAPIDocument{
		OpenAPI: openAPIVersion,
		Info: OpenAPIInfo{
			Title:       Title,
			Description: Description,
			Version:     Version,
		},
		Paths: map[string]OpenAPIPathItem{
			"/": {Get: &OpenAPIOperation{
				Summary:     "Root",
				OperationID: "root",
				Responses:   ok,
			}},
			"/health": {Get: &OpenAPIOperation{
				Summary:     "Health Check",
				OperationID: "health_check",
				Responses:   ok,
			}},
		},
	}
}

func (s *Server) openAPI(c *fiber.Ctx) error {
	return c.JSON(newOpenAPIDocument())
}
