package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JulesBestDev176/isiportal-front-sub002/internal/models"
)

type recordingPublisher struct {
	mu       sync.Mutex
	failures int
	channels []string
	events   []ReportCardSharedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, channel string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return errors.New("redis unavailable")
	}
	p.channels = append(p.channels, channel)
	p.events = append(p.events, event.(ReportCardSharedEvent))
	return nil
}

func (p *recordingPublisher) published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func TestNotificationServicePublishesSharedCard(t *testing.T) {
	publisher := &recordingPublisher{}
	metrics := NewMetricsService()
	svc := NewNotificationService(publisher, NotificationConfig{Workers: 1, Retries: 2, RetryDelay: 5 * time.Millisecond}, metrics, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	avg := 14.5
	svc.ReportCardShared(models.ReportCard{ID: "card-1", StudentID: "alice", ClassID: "6A", PeriodID: "S1", OverallAverage: &avg})

	require.Eventually(t, func() bool { return publisher.published() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{defaultNotificationChannel}, publisher.channels)
	assert.Equal(t, "card-1", publisher.events[0].ReportCardID)
	assert.Equal(t, 14.5, *publisher.events[0].OverallAverage)
}

func TestNotificationServiceRetriesFailedDelivery(t *testing.T) {
	publisher := &recordingPublisher{failures: 2}
	svc := NewNotificationService(publisher, NotificationConfig{Workers: 1, Retries: 3, RetryDelay: 5 * time.Millisecond, Channel: "bulletins"}, nil, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.ReportCardShared(models.ReportCard{ID: "card-2"})

	require.Eventually(t, func() bool { return publisher.published() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "bulletins", publisher.channels[0])
}

func TestNotificationServiceDropsWhenStopped(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := NewNotificationService(publisher, NotificationConfig{}, nil, nil)

	svc.ReportCardShared(models.ReportCard{ID: "card-3"})

	assert.Zero(t, publisher.published())
}
