package cli

import (
	"context"
	"time"

	"github.com/docent-dev/docent/internal/adapters/driven/storage/memory"
	"github.com/docent-dev/docent/internal/core/domain"
	"github.com/docent-dev/docent/internal/core/ports/driven"
	"github.com/docent-dev/docent/internal/core/services"
)

// stubAIService is a deterministic in-process model for command tests.
type stubAIService struct{}

var _ driven.AIService = (*stubAIService)(nil)

func (s *stubAIService) Summarize(_ context.Context, text string, maxLen int) (string, error) {
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text, nil
}

func (s *stubAIService) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (s *stubAIService) GenerateAnswer(_ context.Context, _, _ string, _ []domain.ConversationTurn, _ int) (string, error) {
	return "stub answer", nil
}

func (s *stubAIService) ModelName() string { return "stub-model" }

func (s *stubAIService) Ping(_ context.Context) error { return nil }

func (s *stubAIService) Close() error { return nil }

// setupTestServices wires the commands to in-memory backends so they
// run without touching the filesystem or the network. The returned
// cleanup restores the uninitialised state.
func setupTestServices() func() {
	docs := memory.NewDocStore()
	blobs := memory.NewBlobStore()
	cache := memory.NewAnswerCache(time.Hour)
	history := memory.NewHistoryStore(10)

	aiService = &stubAIService{}
	assistantService = services.NewAssistant(aiService, docs, blobs, cache, history, services.DefaultOptions())
	answerCache = cache
	conversations = history
	queryRouter = services.NewRouter()
	aiAvailable = true

	return func() {
		assistantService = nil
		aiService = nil
		answerCache = nil
		conversations = nil
		queryRouter = nil
		aiAvailable = false
		closers = nil
	}
}
