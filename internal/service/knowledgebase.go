package service

import (
	"context"

	"github.com/studyhall-ai/studyhall/internal/kb"
	"github.com/studyhall-ai/studyhall/internal/stats"
	"github.com/studyhall-ai/studyhall/internal/telemetry"
)

// KnowledgeBaseService manages the lifecycle of the loaded knowledge base
type KnowledgeBaseService struct {
	loader *kb.Loader
	store  *kb.Store
}

// NewKnowledgeBaseService creates a new KnowledgeBaseService instance
func NewKnowledgeBaseService(loader *kb.Loader, store *kb.Store) *KnowledgeBaseService {
	return &KnowledgeBaseService{loader: loader, store: store}
}

// Reload fetches both collections again and atomically swaps in the fresh
// snapshot. On failure the previous snapshot stays live.
func (s *KnowledgeBaseService) Reload(ctx context.Context) (stats.Report, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeBaseService.Reload", telemetry.SpanAttributes{
		Operation: "reload",
	})
	defer span.End()

	snap, err := s.loader.Load(ctx)
	if err != nil {
		span.SetError(err)
		return stats.Report{}, err
	}

	s.store.Swap(snap)
	return stats.Compute(snap), nil
}

// Stats summarizes the currently loaded snapshot.
func (s *KnowledgeBaseService) Stats(ctx context.Context) stats.Report {
	_, span := telemetry.StartSpan(ctx, "KnowledgeBaseService.Stats", telemetry.SpanAttributes{
		Operation: "stats",
	})
	defer span.End()

	return stats.Compute(s.store.Snapshot())
}
