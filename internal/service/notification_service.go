package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/jobs"
)

const (
	jobTypeReportCardShared = "report_card.shared"

	defaultNotificationChannel = "report_cards.shared"
)

type eventPublisher interface {
	Publish(ctx context.Context, channel string, event interface{}) error
}

// NotificationConfig configures the delivery worker pool.
type NotificationConfig struct {
	Workers    int
	Retries    int
	RetryDelay time.Duration
	Channel    string
}

// ReportCardSharedEvent is published when a report card becomes visible to its family.
type ReportCardSharedEvent struct {
	Type           string          `json:"type"`
	ReportCardID   string          `json:"bulletin_id"`
	StudentID      string          `json:"eleve_id"`
	ClassID        string          `json:"classe_id"`
	PeriodID       string          `json:"periode_id"`
	OverallAverage *float64        `json:"moyenne_generale,omitempty"`
	Mention        *models.Mention `json:"mention,omitempty"`
	SharedAt       time.Time       `json:"shared_at"`
}

// NotificationService delivers events in the background. Callers never wait for
// or observe delivery failures.
type NotificationService struct {
	queue     *jobs.Queue
	publisher eventPublisher
	channel   string
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewNotificationService builds the service and its worker pool. Start must be
// called before events are accepted.
func NewNotificationService(publisher eventPublisher, cfg NotificationConfig, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Channel == "" {
		cfg.Channel = defaultNotificationChannel
	}
	s := &NotificationService{
		publisher: publisher,
		channel:   cfg.Channel,
		metrics:   metrics,
		logger:    logger,
	}
	s.queue = jobs.NewQueue("notifications", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop halts delivery; pending events are discarded.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Stats exposes queue counters.
func (s *NotificationService) Stats() jobs.Stats {
	return s.queue.Stats()
}

// ReportCardShared schedules the shared event for a card.
func (s *NotificationService) ReportCardShared(card models.ReportCard) {
	sharedAt := time.Now().UTC()
	if card.SharedAt != nil {
		sharedAt = *card.SharedAt
	}
	event := ReportCardSharedEvent{
		Type:           jobTypeReportCardShared,
		ReportCardID:   card.ID,
		StudentID:      card.StudentID,
		ClassID:        card.ClassID,
		PeriodID:       card.PeriodID,
		OverallAverage: card.OverallAverage,
		Mention:        card.Mention,
		SharedAt:       sharedAt,
	}
	job := jobs.Job{ID: uuid.NewString(), Type: jobTypeReportCardShared, Payload: event}
	if err := s.queue.TryEnqueue(job); err != nil {
		s.metrics.RecordNotification("dropped")
		s.logger.Warn("notification dropped", zap.String("report_card_id", card.ID), zap.Error(err))
		return
	}
	s.metrics.RecordNotification("queued")
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(ReportCardSharedEvent)
	if !ok {
		s.metrics.RecordNotification("failed")
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID), zap.String("type", job.Type))
		return nil
	}
	if err := s.publisher.Publish(ctx, s.channel, event); err != nil {
		s.metrics.RecordNotification("failed")
		return fmt.Errorf("publish %s: %w", job.Type, err)
	}
	s.metrics.RecordNotification("published")
	s.logger.Debug("notification published", zap.String("report_card_id", event.ReportCardID), zap.Int("attempt", job.Attempt))
	return nil
}
