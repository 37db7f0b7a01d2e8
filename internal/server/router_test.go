package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyhall-ai/studyhall/internal/answer"
	"github.com/studyhall-ai/studyhall/internal/api/handlers"
	"github.com/studyhall-ai/studyhall/internal/service"
	"github.com/studyhall-ai/studyhall/internal/stats"
)

type MockQAService struct {
	mock.Mock
}

func (m *MockQAService) Answer(ctx context.Context, input service.AnswerInput) (*answer.Result, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*answer.Result), args.Error(1)
}

type MockKnowledgeBaseService struct {
	mock.Mock
}

func (m *MockKnowledgeBaseService) Reload(ctx context.Context) (stats.Report, error) {
	args := m.Called(ctx)
	return args.Get(0).(stats.Report), args.Error(1)
}

func (m *MockKnowledgeBaseService) Stats(ctx context.Context) stats.Report {
	args := m.Called(ctx)
	return args.Get(0).(stats.Report)
}

func setupRouter() (http.Handler, *MockQAService, *MockKnowledgeBaseService) {
	qaSvc := new(MockQAService)
	kbSvc := new(MockKnowledgeBaseService)

	cfg := RouterConfig{
		QuestionHandler:      handlers.NewQuestionHandler(qaSvc),
		KnowledgeBaseHandler: handlers.NewKnowledgeBaseHandler(kbSvc),
		MetaHandler:          handlers.NewMetaHandler("studyhall", "test"),
	}

	router := NewRouter(cfg)
	return router, qaSvc, kbSvc
}

func TestRouter_HealthEndpoint(t *testing.T) {
	router, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "ok", data["status"])
}

func TestRouter_RootEndpoint(t *testing.T) {
	router, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "studyhall")
}

func TestRouter_AskEndpoint(t *testing.T) {
	router, qaSvc, _ := setupRouter()

	qaSvc.On("Answer", mock.Anything, mock.MatchedBy(func(input service.AnswerInput) bool {
		return input.Question == "how do I install pandas?"
	})).Return(&answer.Result{Answer: "answer text", Links: []answer.Link{}}, nil)

	body, _ := json.Marshal(map[string]string{"question": "how do I install pandas?"})
	req := httptest.NewRequest(http.MethodPost, "/api/", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	qaSvc.AssertExpectations(t)
}

func TestRouter_StatsEndpoint(t *testing.T) {
	router, _, kbSvc := setupRouter()

	kbSvc.On("Stats", mock.Anything).Return(stats.Report{TotalEntries: 7})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_entries":7`)
	kbSvc.AssertExpectations(t)
}

func TestRouter_ReloadEndpoint(t *testing.T) {
	router, _, kbSvc := setupRouter()

	kbSvc.On("Reload", mock.Anything).Return(stats.Report{TotalEntries: 3}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reload", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	kbSvc.AssertExpectations(t)
}

func TestRouter_PreflightRequest(t *testing.T) {
	router, _, _ := setupRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_OversizedBodyRejected(t *testing.T) {
	router, _, _ := setupRouter()

	big := bytes.Repeat([]byte("x"), 6*1024*1024)
	req := httptest.NewRequest(http.MethodPost, "/api/", bytes.NewReader(big))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
