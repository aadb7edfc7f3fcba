package app

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// InvocationResponse is returned to the scheduler on every invocation.
type InvocationResponse struct {
	StatusCode int `json:"statusCode"`
}

// ScheduledHandler adapts a NotificationService to a scheduler that invokes
// it with an opaque event. The scheduler always observes the same
// completion code.
type ScheduledHandler struct {
	service NotificationService
	logger  *logrus.Entry
}

func NewScheduledHandler(service NotificationService, logger *logrus.Entry) *ScheduledHandler {
	return &ScheduledHandler{service: service, logger: logger}
}

func (h *ScheduledHandler) Handle(ctx context.Context, event json.RawMessage) (InvocationResponse, error) {
	h.logger.WithField("event", string(event)).Info("Scheduled invocation received")

	if err := h.service.Run(ctx); err != nil {
		h.logger.WithError(err).Error("Expiry notification run failed")
	}
	return InvocationResponse{StatusCode: http.StatusNoContent}, nil
}
