package notifications

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var ErrServiceStopped = errors.New("notification service is not running")

// NotificationService accepts notifications for delivery.
type NotificationService interface {
	Send(ctx context.Context, notification *EmailNotification) error

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
	Mode() string
}

const (
	ModeKafka  = "kafka"
	ModeDirect = "direct"
)

type ServiceConfig struct {
	KafkaEnabled       bool
	KafkaBrokers       []string
	NotificationTopic  string
	ConsumerGroupID    string
	NumConsumerWorkers int
	MaxRetries         int
	RetryBackoff       time.Duration
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	SMTPFromEmail      string
	SMTPFromName       string
	SMTPUseTLS         bool
}

// NewNotificationService publishes through Kafka when it is enabled and
// otherwise delivers in-process. Delivery uses SMTP when a host is set and
// the log mailer when it is not.
func NewNotificationService(config *ServiceConfig) (NotificationService, error) {
	if config == nil {
		return nil, fmt.Errorf("notification service config is nil")
	}

	mailer, err := newMailer(config)
	if err != nil {
		return nil, err
	}

	if !config.KafkaEnabled {
		log.Printf("📧 Notification service running in direct mode")
		return NewDirectNotificationService(mailer, config.MaxRetries, config.RetryBackoff), nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = config.KafkaBrokers
	if config.NotificationTopic != "" {
		producerConfig.NotificationTopic = config.NotificationTopic
	}

	producer, err := NewKafkaNotificationProducer(producerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = config.KafkaBrokers
	consumerConfig.Topics = []string{producerConfig.NotificationTopic}
	if config.ConsumerGroupID != "" {
		consumerConfig.GroupID = config.ConsumerGroupID
	}
	if config.MaxRetries > 0 {
		consumerConfig.MaxRetries = config.MaxRetries
	}
	if config.RetryBackoff > 0 {
		consumerConfig.RetryBackoffDuration = config.RetryBackoff
	}

	consumer, err := NewKafkaNotificationConsumer(consumerConfig, mailer)
	if err != nil {
		_ = producer.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	log.Printf("📧 Notification service running in kafka mode (topic: %s)", producerConfig.NotificationTopic)
	return NewKafkaNotificationService(producer, consumer, config.NumConsumerWorkers), nil
}

func newMailer(config *ServiceConfig) (EmailService, error) {
	if config.SMTPHost == "" {
		log.Printf("📧 SMTP_HOST not set, emails will be written to the log")
		return NewLogEmailService(), nil
	}

	mailer, err := NewSMTPEmailService(&SMTPConfig{
		Host:      config.SMTPHost,
		Port:      config.SMTPPort,
		Username:  config.SMTPUsername,
		Password:  config.SMTPPassword,
		FromEmail: config.SMTPFromEmail,
		FromName:  config.SMTPFromName,
		UseTLS:    config.SMTPUseTLS,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📧 SMTP mailer configured (Host: %s, Port: %d)", config.SMTPHost, config.SMTPPort)
	return mailer, nil
}

// KafkaNotificationService publishes to the topic and runs the consumer
// workers that deliver from it.
type KafkaNotificationService struct {
	producer   NotificationProducer
	consumer   NotificationConsumer
	numWorkers int

	isRunning bool
	mu        sync.RWMutex
}

func NewKafkaNotificationService(producer NotificationProducer, consumer NotificationConsumer, numWorkers int) *KafkaNotificationService {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &KafkaNotificationService{
		producer:   producer,
		consumer:   consumer,
		numWorkers: numWorkers,
	}
}

func (s *KafkaNotificationService) Mode() string { return ModeKafka }

func (s *KafkaNotificationService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	log.Printf("🚀 Starting Email Notification Service...")
	if err := s.consumer.StartConsumers(ctx, s.numWorkers); err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	s.isRunning = true
	log.Printf("✅ Email Notification Service started successfully")
	return nil
}

func (s *KafkaNotificationService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return ErrServiceStopped
	}

	log.Printf("🛑 Stopping Email Notification Service...")

	if err := s.consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	if err := s.producer.Close(); err != nil {
		log.Printf("Error closing producer: %v", err)
	}

	s.isRunning = false
	log.Printf("✅ Email Notification Service stopped")
	return nil
}

func (s *KafkaNotificationService) Send(ctx context.Context, notification *EmailNotification) error {
	return s.producer.Publish(ctx, notification)
}

func (s *KafkaNotificationService) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	isRunning := s.isRunning
	s.mu.RUnlock()

	if !isRunning {
		return ErrServiceStopped
	}

	if err := s.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}

	if err := s.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}

	return nil
}

// DirectNotificationService delivers each notification on its own goroutine
// without a broker.
type DirectNotificationService struct {
	mailer     EmailService
	maxRetries int
	backoff    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	isRunning bool
	mu        sync.RWMutex
}

func NewDirectNotificationService(mailer EmailService, maxRetries int, backoff time.Duration) *DirectNotificationService {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &DirectNotificationService{
		mailer:     mailer,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

func (s *DirectNotificationService) Mode() string { return ModeDirect }

func (s *DirectNotificationService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("notification service is already running")
	}
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.isRunning = true
	return nil
}

// Stop waits for in-flight deliveries to finish.
func (s *DirectNotificationService) Stop() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrServiceStopped
	}
	s.isRunning = false
	s.mu.Unlock()

	s.wg.Wait()
	s.cancel()
	return nil
}

func (s *DirectNotificationService) Send(_ context.Context, notification *EmailNotification) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return ErrServiceStopped
	}

	// The request context ends with the request; delivery outlives it
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := deliverWithRetry(s.ctx, s.mailer, notification, notification.RetryLimit(s.maxRetries), s.backoff); err != nil {
			log.Printf("📧 Failed to deliver %s to %s: %v", notification.TemplateID, notification.RecipientEmail, err)
		}
	}()
	return nil
}

func (s *DirectNotificationService) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return ErrServiceStopped
	}
	return ctx.Err()
}
