package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Freeeeeet/meeting_bot/internal/model"
)

// CreateMeetingRequest тело POST /meeting
type CreateMeetingRequest struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot string `json:"timeSlot" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
}

type cancelMeetingRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CreateMeeting бронирует встречу
func (c *Client) CreateMeeting(ctx context.Context, req CreateMeetingRequest) (*model.Meeting, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid meeting request: %w", err)
	}

	var meeting model.Meeting
	if err := c.do(ctx, http.MethodPost, "/meeting", "/meeting", req, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// FutureMeetingsForProfessor возвращает будущие встречи преподавателя
// API иногда отдаёт одиночный объект вместо массива
func (c *Client) FutureMeetingsForProfessor(ctx context.Context) ([]model.Meeting, error) {
	var raw json.RawMessage
	path := "/meeting/allFutureForProfessor"
	if err := c.do(ctx, http.MethodGet, path, path, nil, &raw); err != nil {
		return nil, err
	}

	meetings, err := decodeOneOrMany[model.Meeting](raw)
	if err != nil {
		return nil, fmt.Errorf("decode meetings: %w", err)
	}
	return meetings, nil
}

// CancelMeeting отменяет встречу с указанной причиной
func (c *Client) CancelMeeting(ctx context.Context, id, reason string) error {
	if id == "" {
		return fmt.Errorf("meeting id is required")
	}
	req := cancelMeetingRequest{Reason: reason}
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid cancel request: %w", err)
	}

	path := "/meeting/" + url.PathEscape(id) + "/cancel"
	return c.do(ctx, http.MethodPatch, path, "/meeting/{id}/cancel", req, nil)
}
