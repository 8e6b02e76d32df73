package notifications

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/IBM/sarama"
)

// NotificationProducer publishes notifications to the notifications topic.
type NotificationProducer interface {
	Publish(ctx context.Context, notification *EmailNotification) error
	Close() error
	HealthCheck(ctx context.Context) error
}

// KafkaProducerConfig contains configuration for the Kafka notification producer
type KafkaProducerConfig struct {
	Brokers           []string
	NotificationTopic string
	RetryMax          int
	TimeoutMs         int
	RequiredAcks      sarama.RequiredAcks
	CompressionType   sarama.CompressionCodec
	IdempotentWrites  bool
	MaxMessageBytes   int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:           []string{"localhost:9092"},
		NotificationTopic: "notifications",
		RetryMax:          3,
		TimeoutMs:         10000,
		RequiredAcks:      sarama.WaitForAll,
		CompressionType:   sarama.CompressionSnappy,
		IdempotentWrites:  true,
		MaxMessageBytes:   1000000,
	}
}

// KafkaNotificationProducer handles publishing notifications to Kafka
type KafkaNotificationProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	metrics  producerCounters
}

type producerCounters struct {
	sent      atomic.Int64
	failed    atomic.Int64
	lastSent  atomic.Int64
	bytesSent atomic.Int64
}

// ProducerMetrics is a snapshot of producer counters.
type ProducerMetrics struct {
	MessagesSent    int64     `json:"messages_sent"`
	MessagesFailed  int64     `json:"messages_failed"`
	TotalBytes      int64     `json:"total_bytes"`
	LastMessageTime time.Time `json:"last_message_time,omitempty"`
}

func newSaramaProducerConfig(config *KafkaProducerConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Idempotent producers need a single in-flight request
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Same recipient, same partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	return saramaConfig
}

// NewKafkaNotificationProducer creates a new Kafka notification producer
func NewKafkaNotificationProducer(config *KafkaProducerConfig) (*KafkaNotificationProducer, error) {
	producer, err := sarama.NewSyncProducer(config.Brokers, newSaramaProducerConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("📤 Kafka notification producer created successfully")
	return newKafkaNotificationProducer(producer, config), nil
}

func newKafkaNotificationProducer(producer sarama.SyncProducer, config *KafkaProducerConfig) *KafkaNotificationProducer {
	return &KafkaNotificationProducer{
		producer: producer,
		config:   config,
	}
}

func (knp *KafkaNotificationProducer) buildMessage(notification *EmailNotification) (*sarama.ProducerMessage, int, error) {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal notification: %w", err)
	}

	return &sarama.ProducerMessage{
		Topic:     knp.config.NotificationTopic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}, len(messageBytes), nil
}

// Publish publishes a single notification to Kafka
func (knp *KafkaNotificationProducer) Publish(ctx context.Context, notification *EmailNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message, size, err := knp.buildMessage(notification)
	if err != nil {
		return err
	}

	partition, offset, err := knp.producer.SendMessage(message)
	if err != nil {
		knp.metrics.failed.Add(1)
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	knp.recordSent(1, size)
	log.Printf("📤 Notification published to Kafka - Topic: %s, Partition: %d, Offset: %d, Template: %s, Recipient: %s",
		knp.config.NotificationTopic, partition, offset, notification.TemplateID, notification.RecipientEmail)

	return nil
}

func (knp *KafkaNotificationProducer) recordSent(count, size int) {
	knp.metrics.sent.Add(int64(count))
	knp.metrics.bytesSent.Add(int64(size))
	knp.metrics.lastSent.Store(time.Now().UnixNano())
}

// createHeaders creates Kafka headers for notifications
func createHeaders(notification *EmailNotification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("template_id"), Value: []byte(notification.TemplateID)},
		{Key: []byte("priority"), Value: []byte(notification.Priority)},
		{Key: []byte("recipient_email"), Value: []byte(notification.RecipientEmail)},
		{Key: []byte("version"), Value: []byte("1.0")},
		{Key: []byte("producer"), Value: []byte("tourdesk-notifications")},
		{Key: []byte("created_at"), Value: []byte(notification.CreatedAt.Format(time.RFC3339))},
	}

	if notification.BookingID != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("booking_id"),
			Value: []byte(notification.BookingID.String()),
		})
	}

	if notification.ExpiresAt != nil {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("expires_at"),
			Value: []byte(notification.ExpiresAt.Format(time.RFC3339)),
		})
	}

	return headers
}

// Close closes the Kafka producer
func (knp *KafkaNotificationProducer) Close() error {
	if knp.producer != nil {
		if err := knp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		log.Printf("📤 Kafka notification producer closed")
	}
	return nil
}

// HealthCheck validates the producer configuration without sending anything.
func (knp *KafkaNotificationProducer) HealthCheck(ctx context.Context) error {
	if knp.producer == nil {
		return fmt.Errorf("health check failed - producer is nil")
	}

	if knp.config.NotificationTopic == "" {
		return fmt.Errorf("health check failed - notification topic not configured")
	}

	return ctx.Err()
}

// GetMetrics returns a snapshot of producer counters
func (knp *KafkaNotificationProducer) GetMetrics() *ProducerMetrics {
	m := &ProducerMetrics{
		MessagesSent:   knp.metrics.sent.Load(),
		MessagesFailed: knp.metrics.failed.Load(),
		TotalBytes:     knp.metrics.bytesSent.Load(),
	}
	if last := knp.metrics.lastSent.Load(); last > 0 {
		m.LastMessageTime = time.Unix(0, last)
	}
	return m
}
