package mailservice

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"
	"golang.org/x/time/rate"

	"github.com/sushihentaime/toolshelf/internal/common"
)

type MailService struct {
	mb         common.MessageConsumer
	m          Mailer
	logger     MailLogger
	limiter    *rate.Limiter
	recipients []string
	baseURL    string
	sleep      func(ctx context.Context, d time.Duration) error
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	mu     sync.Mutex
	dialer Dialer
	parser TemplateParser
	sender string
}

type Mailer interface {
	send(recipient string, data any, templateFile string) error
}

type Template struct{}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type TemplateParser interface {
	ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error)
}

// PostPublishedData is what the post_published template renders.
type PostPublishedData struct {
	Title       string
	Author      string
	Link        string
	PublishedAt time.Time
}
