package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"tourdesk/internal/bookings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectServiceDelivers(t *testing.T) {
	mailer := &fakeMailer{failures: 1}
	svc := NewDirectNotificationService(mailer, 2, time.Millisecond)
	require.NoError(t, svc.Start(context.Background()))

	require.NoError(t, svc.Send(context.Background(), sampleNotification()))
	require.NoError(t, svc.Send(context.Background(), sampleNotification()))

	require.NoError(t, svc.Stop())
	assert.Equal(t, 2, mailer.sentCount())
	assert.Equal(t, ModeDirect, svc.Mode())
}

func TestDirectServiceHonoursZeroRetries(t *testing.T) {
	mailer := &fakeMailer{failures: 100}
	svc := NewDirectNotificationService(mailer, 3, time.Millisecond)
	require.NoError(t, svc.Start(context.Background()))

	n := sampleNotification()
	n.MaxRetries = new(int)
	require.NoError(t, svc.Send(context.Background(), n))
	require.NoError(t, svc.Stop())

	assert.Equal(t, 1, mailer.attempts)
	assert.Equal(t, NotificationStatusFailed, n.Status)
	assert.Equal(t, 0, n.RetryCount)
}

func TestDirectServiceRejectsWhenStopped(t *testing.T) {
	svc := NewDirectNotificationService(&fakeMailer{}, 0, time.Millisecond)

	err := svc.Send(context.Background(), sampleNotification())
	assert.ErrorIs(t, err, ErrServiceStopped)
	assert.ErrorIs(t, svc.HealthCheck(context.Background()), ErrServiceStopped)
	assert.ErrorIs(t, svc.Stop(), ErrServiceStopped)
}

func TestNewNotificationServiceDirectMode(t *testing.T) {
	svc, err := NewNotificationService(&ServiceConfig{})
	require.NoError(t, err)
	assert.Equal(t, ModeDirect, svc.Mode())

	_, err = NewNotificationService(&ServiceConfig{SMTPHost: "smtp.example.com", SMTPPort: 587})
	assert.Error(t, err, "SMTP host without credentials is rejected")
}

type fakeProducer struct {
	published []*EmailNotification
	closed    bool
	err       error
}

func (f *fakeProducer) Publish(_ context.Context, n *EmailNotification) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, n)
	return nil
}

func (f *fakeProducer) Close() error { f.closed = true; return nil }
func (f *fakeProducer) HealthCheck(context.Context) error { return f.err }

type fakeConsumer struct {
	workers int
	stopped bool
}

func (f *fakeConsumer) StartConsumers(_ context.Context, n int) error { f.workers = n; return nil }
func (f *fakeConsumer) Stop() error { f.stopped = true; return nil }
func (f *fakeConsumer) HealthCheck(context.Context) error { return nil }

func TestKafkaServiceLifecycle(t *testing.T) {
	producer := &fakeProducer{}
	consumer := &fakeConsumer{}
	svc := NewKafkaNotificationService(producer, consumer, 3)

	assert.ErrorIs(t, svc.HealthCheck(context.Background()), ErrServiceStopped)

	require.NoError(t, svc.Start(context.Background()))
	assert.Equal(t, 3, consumer.workers)
	assert.Error(t, svc.Start(context.Background()))
	assert.NoError(t, svc.HealthCheck(context.Background()))

	require.NoError(t, svc.Send(context.Background(), sampleNotification()))
	assert.Len(t, producer.published, 1)

	require.NoError(t, svc.Stop())
	assert.True(t, producer.closed)
	assert.True(t, consumer.stopped)
}

func TestBookingNotifier(t *testing.T) {
	producer := &fakeProducer{}
	notifier := NewBookingNotifier(NewKafkaNotificationService(producer, &fakeConsumer{}, 1))

	bookingID := uuid.New()
	err := notifier.Notify(context.Background(), bookings.Notification{
		TemplateID:     bookings.TemplateBookingCancelled,
		BookingID:      bookingID,
		RecipientEmail: "ana@example.com",
		RecipientName:  "Ana",
		Data:           map[string]string{bookings.PlaceholderBookingReference: "BK-00000001"},
	})
	require.NoError(t, err)
	require.Len(t, producer.published, 1)

	n := producer.published[0]
	assert.Equal(t, bookings.TemplateBookingCancelled, n.TemplateID)
	assert.Equal(t, NotificationPriorityHigh, n.Priority)
	assert.Equal(t, "BK-00000001", n.TemplateData[bookings.PlaceholderBookingReference])
	assert.Equal(t, &bookingID, n.BookingID)
}

func TestBookingNotifierErrors(t *testing.T) {
	producer := &fakeProducer{}
	notifier := NewBookingNotifier(NewKafkaNotificationService(producer, &fakeConsumer{}, 1))

	err := notifier.Notify(context.Background(), bookings.Notification{TemplateID: "unknown"})
	assert.ErrorIs(t, err, ErrTemplateNotFound)

	producer.err = errors.New("broker down")
	err = notifier.Notify(context.Background(), bookings.Notification{TemplateID: bookings.TemplateBookingReceived})
	assert.EqualError(t, err, "broker down")
}
