package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/studyhall-ai/studyhall/internal/answer"
	"github.com/studyhall-ai/studyhall/internal/api"
	"github.com/studyhall-ai/studyhall/internal/service"
)

type QAService interface {
	Answer(ctx context.Context, input service.AnswerInput) (*answer.Result, error)
}

type QuestionHandler struct {
	svc QAService
}

func NewQuestionHandler(svc QAService) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

type AskRequest struct {
	Question string `json:"question"`
	Image    string `json:"image,omitempty"`
}

func (h *QuestionHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Answer(r.Context(), service.AnswerInput{
		Question:    req.Question,
		ImageBase64: req.Image,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, result)
}
