// Package events publishes catalog audit events to NATS JetStream.
// Publishing is best-effort: the site keeps working when NATS is down.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

const (
	streamName = "CATALOG"

	SubjectProductsImported = "catalog.products.imported"
	SubjectReviewSubmitted  = "catalog.reviews.submitted"
)

type Publisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the catalog stream exists.
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = nats.DefaultURL
	}

	nc, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"catalog.>"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		logger.WithError(err).Warn("Failed to ensure catalog stream (may already exist)")
	}

	return &Publisher{
		nc:     nc,
		js:     js,
		logger: logger.WithField("component", "catalog-events"),
	}, nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// ProductsImportedEvent is emitted after a bulk import batch is written.
type ProductsImportedEvent struct {
	EventID   string    `json:"eventId"`
	Imported  int       `json:"imported"`
	ActorID   string    `json:"actorId"`
	Timestamp time.Time `json:"timestamp"`
}

// PublishProductsImported publishes a catalog.products.imported event.
func (p *Publisher) PublishProductsImported(ctx context.Context, imported int, actorID string) {
	p.publish(SubjectProductsImported, ProductsImportedEvent{
		EventID:   uuid.New().String(),
		Imported:  imported,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	})
}

// ReviewSubmittedEvent is emitted when a visitor submits a review.
type ReviewSubmittedEvent struct {
	EventID   string    `json:"eventId"`
	ReviewID  string    `json:"reviewId"`
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

// PublishReviewSubmitted publishes a catalog.reviews.submitted event.
func (p *Publisher) PublishReviewSubmitted(ctx context.Context, review *models.Review) {
	p.publish(SubjectReviewSubmitted, ReviewSubmittedEvent{
		EventID:   uuid.New().String(),
		ReviewID:  review.ID.String(),
		Rating:    review.Rating,
		Timestamp: time.Now().UTC(),
	})
}

// publish sends the event asynchronously so request latency never waits
// on the broker.
func (p *Publisher) publish(subject string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).WithField("subject", subject).Error("Failed to marshal event")
		return
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := p.js.Publish(pubCtx, subject, payload); err != nil {
			p.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
		}
	}()
}
