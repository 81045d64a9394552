package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	HealthUp       = "up"
	HealthDown     = "down"
	HealthDisabled = "disabled"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Cache     string    `json:"cache"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Pinger is satisfied by *redis.Client.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthMonitor keeps the latest health snapshot in memory.
type HealthMonitor struct {
	cache Pinger

	mu      sync.RWMutex
	current HealthStatus
}

// NewHealthMonitor accepts a nil cache, reported as disabled.
func NewHealthMonitor(cache Pinger) *HealthMonitor {
	m := &HealthMonitor{cache: cache}
	m.current = HealthStatus{Cache: HealthDisabled, CheckedAt: time.Now()}
	if cache != nil {
		m.current.Cache = HealthDown
	}
	return m
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Check pings every dependency once and stores the result.
func (m *HealthMonitor) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Cache: HealthDisabled, CheckedAt: time.Now()}
	if m.cache != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		status.Cache = HealthUp
		if err := m.cache.Ping(pingCtx).Err(); err != nil {
			status.Cache = HealthDown
			GetLogger().Warn("Cache health check failed", zap.Error(err))
		}
	}

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
	return status
}

// Start checks immediately and then on schedule, a cron expression such as
// "@every 30s", until ctx is done.
func (m *HealthMonitor) Start(ctx context.Context, schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { m.Check(ctx) }); err != nil {
		return fmt.Errorf("HealthMonitor.Start: invalid schedule %q: %w", schedule, err)
	}
	m.Check(ctx)
	c.Start()
	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return nil
}
