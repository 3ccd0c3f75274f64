package ports

import (
	"context"

	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
)

// PostingPublisher publica los asientos ya confirmados hacia otros sistemas (ej: Kafka).
type PostingPublisher interface {
	PublishPosting(ctx context.Context, posting entity.Posting) error
}

// NopPublisher descarta los asientos; se usa cuando no hay broker configurado.
type NopPublisher struct{}

func (NopPublisher) PublishPosting(context.Context, entity.Posting) error { return nil }
