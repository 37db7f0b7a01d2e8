package handlers

import (
	"net/http"

	"github.com/studyhall-ai/studyhall/internal/api"
)

type MetaHandler struct {
	name    string
	version string
}

func NewMetaHandler(name, version string) *MetaHandler {
	return &MetaHandler{name: name, version: version}
}

type MetaResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Root describes the service and its endpoints.
func (h *MetaHandler) Root(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, MetaResponse{
		Name:    h.name,
		Version: h.version,
		Endpoints: map[string]string{
			"ask":    "POST /api/",
			"stats":  "GET /api/stats",
			"reload": "POST /api/reload",
			"health": "GET /health",
		},
	})
}
