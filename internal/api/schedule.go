package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// AvailableSlot элемент ответа /schedule/available/{date}
type AvailableSlot struct {
	TimeSlot  string `json:"timeSlot"`
	Available *bool  `json:"available,omitempty"`
}

// IsAvailable считает слот доступным, если сервер не прислал флаг явно
func (s AvailableSlot) IsAvailable() bool {
	return s.Available == nil || *s.Available
}

// SetAvailabilityRequest тело POST /schedule
type SetAvailabilityRequest struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot  string `json:"timeSlot" validate:"required"`
	Available bool   `json:"available"`
}

// AvailableSlots возвращает слоты, открытые на дату
func (c *Client) AvailableSlots(ctx context.Context, date string) ([]AvailableSlot, error) {
	if err := c.validate.Var(date, "required,datetime=2006-01-02"); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	var raw json.RawMessage
	path := "/schedule/available/" + url.PathEscape(date)
	if err := c.do(ctx, http.MethodGet, path, "/schedule/available/{date}", nil, &raw); err != nil {
		return nil, err
	}

	slots, err := decodeOneOrMany[AvailableSlot](raw)
	if err != nil {
		return nil, fmt.Errorf("decode available slots: %w", err)
	}
	return slots, nil
}

// SetAvailability публикует или снимает слот на дату
func (c *Client) SetAvailability(ctx context.Context, req SetAvailabilityRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid schedule request: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/schedule", "/schedule", req, nil)
}
