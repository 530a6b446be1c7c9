package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petworld/internal/domain/pets"
	"petworld/internal/platform/httpclient"
	"petworld/internal/platform/logger"

	"github.com/cenkalti/backoff/v4"
)

// LogObserver registra cada alta. Para algunos tipos agrega un saludo.
type LogObserver struct {
	Logger logger.Logger
}

var greetings = map[string]string{
	"dog":   "¡Guau! Un nuevo perro se unió",
	"perro": "¡Guau! Un nuevo perro se unió",
	"cat":   "¡Miau! Un nuevo gato se unió",
	"gato":  "¡Miau! Un nuevo gato se unió",
}

func (LogObserver) Name() string { return "log" }

func (o LogObserver) PetCreated(ctx context.Context, ev pets.CreatedEvent) error {
	fields := map[string]any{
		"pet_id":   ev.PetID,
		"name":     ev.Name,
		"type":     ev.Type,
		"owner_id": ev.OwnerUserID,
	}
	if g, ok := greetings[strings.ToLower(ev.Type)]; ok {
		fields["greeting"] = g
	}
	logger.FromContext(ctx, o.Logger).Info("pet created event", fields)
	return nil
}

// WebhookObserver hace POST del evento a una URL externa.
type WebhookObserver struct {
	client *httpclient.Client
	url    string
}

func NewWebhookObserver(client *httpclient.Client, url string) *WebhookObserver {
	return &WebhookObserver{client: client, url: strings.TrimSpace(url)}
}

func (*WebhookObserver) Name() string { return "webhook" }

type webhookPayload struct {
	Event       string    `json:"event"`
	PetID       string    `json:"pet_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	OwnerUserID string    `json:"owner_user_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (w *WebhookObserver) PetCreated(ctx context.Context, ev pets.CreatedEvent) error {
	err := w.client.PostJSON(ctx, w.url, map[string]string{"X-Petworld-Event": "pet.created"}, webhookPayload{
		Event:       "pet.created",
		PetID:       ev.PetID,
		Name:        ev.Name,
		Type:        ev.Type,
		OwnerUserID: ev.OwnerUserID,
		OccurredAt:  ev.OccurredAt,
	})
	if err != nil && !httpclient.Retryable(err) {
		return backoff.Permanent(fmt.Errorf("webhook: %w", err))
	}
	return err
}
