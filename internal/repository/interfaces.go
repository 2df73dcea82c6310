package repository

import (
	"context"

	"github.com/mpreston/teamsync/internal/models"
)

// DocumentRepository is the only contract the store needs from its backing
// persistence: read a document by key and upsert a document by key. No
// ordering or transactionality stronger than read-your-last-write is
// assumed of an implementation.
type DocumentRepository interface {
	// GetDocument returns the document for a team code. The boolean is
	// false when no document exists for the code.
	GetDocument(ctx context.Context, teamCode string) (*models.State, bool, error)
	// UpsertDocument writes the document for a team code, creating the
	// row if necessary.
	UpsertDocument(ctx context.Context, teamCode string, state *models.State) error
}

// Ensure Repository implements the interface
var _ DocumentRepository = (*Repository)(nil)
