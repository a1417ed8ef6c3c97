package http

import (
	"net/http"

	"github.com/cmlabs-hris/hrms-lite/internal/handler/http/response"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, HealthResponse{Status: "ok", Version: Version})
}
