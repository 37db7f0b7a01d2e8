package handlers

import (
	"context"
	"net/http"

	"github.com/studyhall-ai/studyhall/internal/api"
	"github.com/studyhall-ai/studyhall/internal/stats"
)

type KnowledgeBaseService interface {
	Reload(ctx context.Context) (stats.Report, error)
	Stats(ctx context.Context) stats.Report
}

type KnowledgeBaseHandler struct {
	svc KnowledgeBaseService
}

func NewKnowledgeBaseHandler(svc KnowledgeBaseService) *KnowledgeBaseHandler {
	return &KnowledgeBaseHandler{svc: svc}
}

func (h *KnowledgeBaseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.svc.Stats(r.Context()))
}

func (h *KnowledgeBaseHandler) Reload(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.Reload(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, report)
}
