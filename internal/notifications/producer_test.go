package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func headerValue(msg *sarama.ProducerMessage, key string) string {
	for _, h := range msg.Headers {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublishSendsKeyedMessage(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	producer := newKafkaNotificationProducer(mock, DefaultKafkaProducerConfig())
	defer producer.Close()

	bookingID := uuid.New()
	n := NewNotificationBuilder().
		WithTemplate(TemplateBookingConfirmed).
		WithRecipient("Ana@Example.com", "Ana").
		WithBookingContext(bookingID).
		Build()

	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "notifications" {
			return fmt.Errorf("unexpected topic %s", msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "ana@example.com" {
			return fmt.Errorf("unexpected key %s", key)
		}
		if headerValue(msg, "template_id") != TemplateBookingConfirmed {
			return errors.New("missing template_id header")
		}
		if headerValue(msg, "booking_id") != bookingID.String() {
			return errors.New("missing booking_id header")
		}
		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var decoded EmailNotification
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		if decoded.Status != NotificationStatusQueued {
			return fmt.Errorf("unexpected status %s", decoded.Status)
		}
		return nil
	})

	require.NoError(t, producer.Publish(context.Background(), n))
	assert.Equal(t, NotificationStatusQueued, n.Status)
	assert.Equal(t, int64(1), producer.GetMetrics().MessagesSent)
}

func TestPublishFailureMarksNotification(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	producer := newKafkaNotificationProducer(mock, DefaultKafkaProducerConfig())
	defer producer.Close()

	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	n := NewNotificationBuilder().WithTemplate(TemplateBookingReceived).WithRecipient("a@b.co", "A").Build()
	err := producer.Publish(context.Background(), n)

	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	assert.Equal(t, NotificationStatusFailed, n.Status)
	assert.Equal(t, int64(1), producer.GetMetrics().MessagesFailed)
}

func TestProducerHealthCheck(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	config := DefaultKafkaProducerConfig()
	producer := newKafkaNotificationProducer(mock, config)
	defer producer.Close()

	assert.NoError(t, producer.HealthCheck(context.Background()))

	config.NotificationTopic = ""
	assert.Error(t, producer.HealthCheck(context.Background()))
}

func TestSaramaProducerConfig(t *testing.T) {
	cfg := newSaramaProducerConfig(DefaultKafkaProducerConfig())

	assert.True(t, cfg.Producer.Return.Successes)
	assert.True(t, cfg.Producer.Idempotent)
	assert.Equal(t, 1, cfg.Net.MaxOpenRequests)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
}
