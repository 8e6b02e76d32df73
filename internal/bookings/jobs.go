package bookings

import (
	"context"
	"log"
	"sync"
	"time"

	"tourdesk/pkg/logger"
)

// JobProcessor handles background jobs for booking housekeeping
type JobProcessor struct {
	service Service
	config  *JobConfig
	done    chan struct{}
	once    sync.Once
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	CompletionInterval time.Duration
	RunOnStart         bool
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		CompletionInterval: 1 * time.Hour, // Sweep past tours hourly
		RunOnStart:         true,
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	if config == nil {
		config = DefaultJobConfig()
	}
	if config.CompletionInterval <= 0 {
		config.CompletionInterval = DefaultJobConfig().CompletionInterval
	}

	return &JobProcessor{
		service: service,
		config:  config,
		done:    make(chan struct{}),
	}
}

// Start starts all background jobs
func (jp *JobProcessor) Start(ctx context.Context) {
	log.Println("🕒 Starting booking background jobs...")

	go jp.startCompletionSweeper(ctx)

	log.Println("✅ Booking background jobs started")
}

// Stop stops all background jobs. Safe to call more than once.
func (jp *JobProcessor) Stop() {
	jp.once.Do(func() {
		log.Println("🛑 Stopping booking background jobs...")
		close(jp.done)
		log.Println("✅ Booking background jobs stopped")
	})
}

// startCompletionSweeper completes confirmed bookings whose tour date has passed
func (jp *JobProcessor) startCompletionSweeper(ctx context.Context) {
	ticker := time.NewTicker(jp.config.CompletionInterval)
	defer ticker.Stop()

	log.Printf("Started booking completion sweeper with %v interval", jp.config.CompletionInterval)

	if jp.config.RunOnStart {
		jp.completePastBookings(ctx)
	}

	for {
		select {
		case <-ticker.C:
			jp.completePastBookings(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) completePastBookings(ctx context.Context) {
	completed, err := jp.service.CompletePastBookings(ctx)
	if err != nil {
		log.Printf("❌ Error completing past bookings: %v", err)
		return
	}

	if completed > 0 {
		logger.GetDefault().InfoWithContext(ctx, "Completed past bookings", map[string]interface{}{
			"completed": completed,
		})
	}
}

// GetJobStatus returns the status of background jobs
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	status := "running"
	select {
	case <-jp.done:
		status = "stopped"
	default:
	}

	return map[string]interface{}{
		"completion_interval": jp.config.CompletionInterval.String(),
		"run_on_start":        jp.config.RunOnStart,
		"status":              status,
	}
}
