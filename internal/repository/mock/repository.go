package mock

import (
	"context"

	"github.com/mpreston/teamsync/internal/models"
	"github.com/mpreston/teamsync/internal/repository"
)

// Repository wraps a real repository and allows injecting errors for
// testing. This provides a flexible way to test error paths without
// complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.UpsertDocumentError = errors.New("database error")
//	st := store.New(log, mockRepo, clock, ids)
//	_, _, err := st.ApplyAction(ctx, code, act)
//	// err will now reflect the injected error
type Repository struct {
	repository.DocumentRepository

	GetDocumentError    error
	UpsertDocumentError error

	// UpsertCalls counts UpsertDocument invocations that reached the
	// wrapped repository.
	UpsertCalls int
}

// NewRepository creates a mock wrapping the given real repository.
func NewRepository(real repository.DocumentRepository) *Repository {
	return &Repository{DocumentRepository: real}
}

func (m *Repository) GetDocument(ctx context.Context, teamCode string) (*models.State, bool, error) {
	if m.GetDocumentError != nil {
		return nil, false, m.GetDocumentError
	}
	return m.DocumentRepository.GetDocument(ctx, teamCode)
}

func (m *Repository) UpsertDocument(ctx context.Context, teamCode string, state *models.State) error {
	if m.UpsertDocumentError != nil {
		return m.UpsertDocumentError
	}
	m.UpsertCalls++
	return m.DocumentRepository.UpsertDocument(ctx, teamCode, state)
}
