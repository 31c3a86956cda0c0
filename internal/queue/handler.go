// Package queue imports uploaded CVs from a message queue. Each message names
// an object in storage; the handler downloads it, merges it into the user's
// profile and publishes status updates for the user.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/career-matcher/internal/logging"
	"github.com/jonathan/career-matcher/internal/recommend"
	"github.com/jonathan/career-matcher/internal/types"
)

// Import status values
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ImportMessage asks the worker to import one uploaded CV
type ImportMessage struct {
	UserID    uuid.UUID `json:"user_id"`
	ObjectKey string    `json:"object_key"`
	Filename  string    `json:"filename"`
}

// StatusUpdate reports the progress of one import
type StatusUpdate struct {
	UserID    uuid.UUID           `json:"user_id"`
	ObjectKey string              `json:"object_key,omitempty"`
	Status    string              `json:"status"`
	Message   string              `json:"message"`
	Summary   *types.MergeSummary `json:"summary,omitempty"`
	Warnings  []string            `json:"warnings,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// Importer merges CV bytes into a stored profile
type Importer interface {
	ImportCV(ctx context.Context, userID uuid.UUID, data []byte, filename string) (*recommend.ImportResult, error)
}

// Fetcher downloads an uploaded object
type Fetcher interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// Publisher delivers status updates
type Publisher interface {
	Publish(ctx context.Context, update StatusUpdate) error
}

// Handler processes import messages
type Handler struct {
	importer  Importer
	fetcher   Fetcher
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewHandler creates a Handler. A nil publisher drops status updates.
func NewHandler(importer Importer, fetcher Fetcher, publisher Publisher, logger *zap.Logger) *Handler {
	return &Handler{
		importer:  importer,
		fetcher:   fetcher,
		publisher: publisher,
		logger:    logging.OrNop(logger),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// DecodeImportMessage parses and checks a message body
func DecodeImportMessage(body []byte) (ImportMessage, error) {
	var msg ImportMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, fmt.Errorf("invalid import message: %w", err)
	}
	if msg.UserID == uuid.Nil {
		return msg, errors.New("invalid import message: user_id is required")
	}
	msg.ObjectKey = strings.TrimSpace(msg.ObjectKey)
	if msg.ObjectKey == "" {
		return msg, errors.New("invalid import message: object_key is required")
	}
	if msg.Filename == "" {
		msg.Filename = msg.ObjectKey[strings.LastIndex(msg.ObjectKey, "/")+1:]
	}
	return msg, nil
}

// Handle processes one message body and returns the final status update.
// Every outcome is reported through the publisher; the returned error is set
// only when the import failed.
func (h *Handler) Handle(ctx context.Context, body []byte) (StatusUpdate, error) {
	msg, err := DecodeImportMessage(body)
	if err != nil {
		h.logger.Warn("dropping malformed import message", zap.Error(err))
		update := h.update(msg, StatusFailed, "invalid import message")
		if msg.UserID != uuid.Nil {
			h.publish(ctx, update)
		}
		return update, err
	}

	log := h.logger.With(zap.String("user_id", msg.UserID.String()), zap.String("object_key", msg.ObjectKey))
	log.Info("processing cv import")
	h.publish(ctx, h.update(msg, StatusProcessing, "import started"))

	data, err := h.fetcher.Download(ctx, msg.ObjectKey)
	if err != nil {
		log.Error("cv download failed", zap.Error(err))
		update := h.update(msg, StatusFailed, "could not download cv")
		h.publish(ctx, update)
		return update, err
	}

	result, err := h.importer.ImportCV(ctx, msg.UserID, data, msg.Filename)
	if err != nil {
		log.Error("cv import failed", zap.Error(err))
		update := h.update(msg, StatusFailed, "import failed")
		h.publish(ctx, update)
		return update, err
	}

	update := h.update(msg, StatusCompleted, "import completed")
	update.Summary = &result.Summary
	if result.Parsed != nil {
		update.Warnings = result.Parsed.Warnings
	}
	h.publish(ctx, update)
	log.Info("cv import completed",
		zap.Int("added_skills", len(result.Summary.AddedSkills)),
		zap.Strings("filled_fields", result.Summary.FilledFields))
	return update, nil
}

func (h *Handler) update(msg ImportMessage, status, message string) StatusUpdate {
	return StatusUpdate{
		UserID:    msg.UserID,
		ObjectKey: msg.ObjectKey,
		Status:    status,
		Message:   message,
		Timestamp: h.now(),
	}
}

func (h *Handler) publish(ctx context.Context, update StatusUpdate) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, update); err != nil {
		h.logger.Warn("failed to publish import status",
			zap.String("user_id", update.UserID.String()),
			zap.String("status", update.Status),
			zap.Error(err))
	}
}
