package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-conciliacion/internal/application/ports"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
)

var _ ports.PostingPublisher = (*PostingPublisher)(nil)

// messageWriter subconjunto de *kafka.Writer usado por el publicador.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PostingEvent mensaje publicado por cada asiento confirmado.
type PostingEvent struct {
	PostingID    string          `json:"posting_id"`
	AccountID    string          `json:"account_id"`
	Type         string          `json:"type"`
	Counterparty string          `json:"counterparty"`
	Reference    string          `json:"reference"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Timestamp    time.Time       `json:"timestamp"`
}

// PostingPublisher publica asientos en un tópico Kafka. La clave del mensaje es la cuenta,
// así los asientos de una misma cuenta llegan en orden a la misma partición.
type PostingPublisher struct {
	writer messageWriter
}

// NewPostingPublisher crea el publicador sobre los brokers y el tópico dados.
func NewPostingPublisher(brokers []string, topic string) *PostingPublisher {
	return &PostingPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func newWithWriter(w messageWriter) *PostingPublisher {
	return &PostingPublisher{writer: w}
}

// PublishPosting serializa el asiento y lo escribe en el tópico.
func (p *PostingPublisher) PublishPosting(ctx context.Context, posting entity.Posting) error {
	data, err := json.Marshal(PostingEvent{
		PostingID:    posting.ID,
		AccountID:    posting.AccountID,
		Type:         posting.Type,
		Counterparty: posting.Counterparty,
		Reference:    posting.Reference,
		Amount:       posting.Amount,
		Currency:     posting.Currency,
		Timestamp:    posting.Timestamp.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal posting: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(posting.AccountID),
		Value: data,
	}); err != nil {
		return fmt.Errorf("kafka write posting %s: %w", posting.ID, err)
	}
	return nil
}

// Close libera el writer.
func (p *PostingPublisher) Close() error {
	return p.writer.Close()
}
