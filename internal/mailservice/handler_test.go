package mailservice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/sushihentaime/toolshelf/internal/catalog"
	"github.com/sushihentaime/toolshelf/internal/common"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func publishedEvent(t *testing.T) []byte {
	t.Helper()

	post := catalog.Post{ID: 3, Title: "GPT-4: A New Era!", Slug: "gpt-4-a-new-era", Author: "Ada"}
	body, err := json.Marshal(catalog.PostEvent(common.PostPublishedKey, post, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	return body
}

func newTestService(mc *MockMessageConsumer, mailer *MockMailer, logger *MockLogger, recipients ...string) *MailService {
	s := newMailService(mc, mailer, recipients, "https://example.com/", logger)
	s.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return s
}

// waitDone closes s once the consumer has drained every delivery.
func waitDone(t *testing.T, mc *MockMessageConsumer, s *MailService) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not drain")
	}

	s.Close()
	mc.AssertExpectations(t)
}

func TestNotifyPostPublished(t *testing.T) {
	mc := &MockMessageConsumer{Bodies: [][]byte{publishedEvent(t)}}
	mc.On("Consume", common.PostPublishedKey, common.CatalogExchange, common.PostPublishedQueue).Return(nil)

	want := PostPublishedData{
		Title:       "GPT-4: A New Era!",
		Author:      "Ada",
		Link:        "https://example.com/blog/gpt-4-a-new-era",
		PublishedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	mailer := new(MockMailer)
	mailer.On("send", "a@example.com", want, "post_published.html").Return(nil).Once()
	mailer.On("send", "b@example.com", want, "post_published.html").Return(nil).Once()

	logger := new(MockLogger)
	logger.On("Info", "post notification sent", mock.Anything).Return()

	s := newTestService(mc, mailer, logger, "a@example.com", " ", "b@example.com")
	require.NoError(t, s.NotifyPostPublished())
	waitDone(t, mc, s)

	mailer.AssertExpectations(t)
	logger.AssertNumberOfCalls(t, "Info", 2)
}

func TestNotifyRetriesThenGivesUp(t *testing.T) {
	mc := &MockMessageConsumer{Bodies: [][]byte{publishedEvent(t)}}
	mc.On("Consume", common.PostPublishedKey, common.CatalogExchange, common.PostPublishedQueue).Return(nil)

	mailer := new(MockMailer)
	mailer.On("send", "a@example.com", mock.Anything, "post_published.html").Return(errors.New("421 try again later"))

	logger := new(MockLogger)
	logger.On("Info", "delaying post notification", mock.Anything).Return()
	logger.On("Error", "could not send post notification", mock.Anything).Return()

	s := newMailService(mc, mailer, []string{"a@example.com"}, "https://example.com", logger)
	s.sleep = func(context.Context, time.Duration) error { return nil }
	require.NoError(t, s.NotifyPostPublished())
	waitDone(t, mc, s)

	mailer.AssertNumberOfCalls(t, "send", maxRetries)
	logger.AssertNumberOfCalls(t, "Error", 1)
}

func TestNotifySkipsMalformedMessages(t *testing.T) {
	mc := &MockMessageConsumer{Bodies: [][]byte{[]byte("not json")}}
	mc.On("Consume", common.PostPublishedKey, common.CatalogExchange, common.PostPublishedQueue).Return(nil)

	mailer := new(MockMailer)
	logger := new(MockLogger)
	logger.On("Error", "could not unmarshal message", mock.Anything).Return()

	s := newTestService(mc, mailer, logger, "a@example.com")
	require.NoError(t, s.NotifyPostPublished())
	waitDone(t, mc, s)

	mailer.AssertNotCalled(t, "send", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyConsumeError(t *testing.T) {
	mc := new(MockMessageConsumer)
	mc.On("Consume", common.PostPublishedKey, common.CatalogExchange, common.PostPublishedQueue).Return(errors.New("channel closed"))

	logger := new(MockLogger)
	logger.On("Error", "could not consume message", mock.Anything).Return()

	s := newTestService(mc, new(MockMailer), logger)
	assert.Error(t, s.NotifyPostPublished())
	s.Close()
}
