package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/dashsync/internal/models"
)

// ErrEmptyPayload is returned when no payload JSON was given
var ErrEmptyPayload = errors.New("payload cannot be empty")

func (c *Cli) runAdd(ctx context.Context, collection models.Collection, raw string) error {
	payload, err := c.readPayload(collection, raw)
	if err != nil {
		return err
	}

	record, err := c.dataService.Create(ctx, payload)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Added %s record %s (pending sync)\n", collection, record.ID)
	return nil
}

func (c *Cli) runUpdate(ctx context.Context, collection models.Collection, id, raw string) error {
	payload, err := c.readPayload(collection, raw)
	if err != nil {
		return err
	}

	record, err := c.dataService.Update(ctx, id, payload)
	if err != nil {
		return notFound(err, collection, id)
	}

	c.io.Printf("✓ Updated %s record %s (version %d, pending sync)\n", collection, record.ID, record.Version)
	return nil
}

// readPayload разбирает JSON из аргумента или запрашивает его интерактивно
func (c *Cli) readPayload(collection models.Collection, raw string) (models.Payload, error) {
	if strings.TrimSpace(raw) == "" {
		input, err := c.io.ReadInput(fmt.Sprintf("%s payload (JSON): ", collection))
		if err != nil {
			return nil, fmt.Errorf("failed to read payload: %w", err)
		}
		raw = input
	}
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyPayload
	}

	payload, err := models.DecodePayloadJSON(collection, []byte(raw))
	if err != nil {
		return nil, err
	}

	fillDefaults(payload, c.now())
	return payload, nil
}

// fillDefaults подставляет текущее время в пустые обязательные даты
// и средний приоритет задачам без приоритета
func fillDefaults(payload models.Payload, now time.Time) {
	switch p := payload.(type) {
	case *models.Transaction:
		if p.Date.IsZero() {
			p.Date = now
		}
	case *models.Meal:
		if p.Date.IsZero() {
			p.Date = now
		}
	case *models.Workout:
		if p.Date.IsZero() {
			p.Date = now
		}
	case *models.Task:
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if p.Priority == "" {
			p.Priority = models.PriorityMedium
		}
	}
}
