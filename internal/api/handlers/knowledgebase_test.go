package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyhall-ai/studyhall/internal/domain"
	"github.com/studyhall-ai/studyhall/internal/stats"
)

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

func TestKnowledgeBaseHandler_Stats(t *testing.T) {
	mockSvc := new(MockKnowledgeBaseService)
	handler := NewKnowledgeBaseHandler(mockSvc)

	report := stats.Report{
		CourseEntryCount: 10,
		ForumEntryCount:  5,
		TotalEntries:     15,
		KeywordsIndexed:  42,
		LastUpdated:      time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	mockSvc.On("Stats", mock.Anything).Return(report)

	req := httptest.NewRequest("GET", "/api/stats", nil)
	rec := httptest.NewRecorder()

	handler.Stats(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data stats.Report `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 15, resp.Data.TotalEntries)
	assert.Equal(t, 10, resp.Data.CourseEntryCount)
	mockSvc.AssertExpectations(t)
}

func TestKnowledgeBaseHandler_Reload_Success(t *testing.T) {
	mockSvc := new(MockKnowledgeBaseService)
	handler := NewKnowledgeBaseHandler(mockSvc)

	mockSvc.On("Reload", mock.Anything).Return(stats.Report{TotalEntries: 3}, nil)

	req := httptest.NewRequest("POST", "/api/reload", nil)
	rec := httptest.NewRecorder()

	handler.Reload(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockSvc.AssertExpectations(t)
}

func TestKnowledgeBaseHandler_Reload_LoadError(t *testing.T) {
	mockSvc := new(MockKnowledgeBaseService)
	handler := NewKnowledgeBaseHandler(mockSvc)

	mockSvc.On("Reload", mock.Anything).Return(stats.Report{}, domain.ErrKnowledgeBaseEmpty)

	req := httptest.NewRequest("POST", "/api/reload", nil)
	rec := httptest.NewRecorder()

	handler.Reload(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetaHandler_Root(t *testing.T) {
	handler := NewMetaHandler("studyhall", "1.0.0")

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	handler.Root(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data MetaResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "studyhall", resp.Data.Name)
	assert.Contains(t, resp.Data.Endpoints, "ask")
}
