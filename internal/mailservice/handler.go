package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"
	"golang.org/x/time/rate"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

const (
	postPublishedTemplate = "post_published.html"

	maxRetries = 5
	baseDelay  = 500 * time.Millisecond

	// Outgoing mail is limited to one message a second with a small burst.
	sendInterval = time.Second
	sendBurst    = 3
)

// NewMailService builds the notifier. baseURL is the public site root used to link to posts.
func NewMailService(mb common.MessageConsumer, cfg common.MailConfig, baseURL string, logger *slog.Logger) *MailService {
	return newMailService(mb, NewMailer(cfg, NewTemplate()), cfg.Notify, baseURL, logger)
}

func newMailService(mb common.MessageConsumer, m Mailer, recipients []string, baseURL string, logger MailLogger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())

	var clean []string
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			clean = append(clean, r)
		}
	}

	return &MailService{
		mb:         mb,
		m:          m,
		logger:     logger,
		limiter:    rate.NewLimiter(rate.Every(sendInterval), sendBurst),
		recipients: clean,
		baseURL:    strings.TrimRight(baseURL, "/"),
		sleep:      sleepContext,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NotifyPostPublished starts consuming post.published events and mails every configured recipient.
// It returns once the consumer is registered; deliveries are handled in the background until Close.
func (s *MailService) NotifyPostPublished() error {
	msgs, err := s.mb.Consume(common.PostPublishedKey, common.CatalogExchange, common.PostPublishedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handle(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping post notifications due to context cancellation")
				return
			}
		}
	}()

	return nil
}

func (s *MailService) handle(msg amqp.Delivery) {
	var ev catalog.Event
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		msg.Ack(false)
		return
	}

	data := PostPublishedData{
		Title:       ev.Title,
		Author:      ev.Author,
		Link:        s.baseURL + "/blog/" + ev.Slug,
		PublishedAt: ev.At,
	}

	for _, recipient := range s.recipients {
		if err := s.limiter.Wait(s.ctx); err != nil {
			// Shutting down: leave the message for the next consumer.
			msg.Nack(false, true)
			return
		}

		if s.sendWithRetry(recipient, data) {
			s.logger.Info("post notification sent", slog.String("email", recipient), slog.Int("post_id", ev.ID))
		} else {
			s.logger.Error("could not send post notification", slog.String("email", recipient), slog.Int("post_id", ev.ID))
		}
	}

	msg.Ack(false)
}

// sendWithRetry uses exponential backoff with full jitter.
func (s *MailService) sendWithRetry(recipient string, data PostPublishedData) bool {
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := s.m.send(recipient, data, postPublishedTemplate)
		if err == nil {
			return true
		}

		delay := time.Duration(rand.Int63n(int64(baseDelay) << uint(attempt)))
		s.logger.Info("delaying post notification", slog.String("email", recipient), slog.Int("attempt", attempt), slog.Duration("delay", delay), slog.String("error", err.Error()))

		if s.sleep(s.ctx, delay) != nil {
			return false
		}
	}

	return false
}

// Close stops the consumer and waits for the message in flight.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
