package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrEmptyContent = errors.New("feedback content required")

// Notifier pushes a submitted feedback somewhere out-of-band. Best
// effort: failures are logged by the service and never fail the request.
type Notifier interface {
	Notify(ctx context.Context, fb Feedback) error
}

// WebhookNotifier posts a plain-text summary to a chat webhook.
type WebhookNotifier struct {
	http *resty.Client
	url  string
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{http: resty.New(), url: url}
}

func (n *WebhookNotifier) Notify(ctx context.Context, fb Feedback) error {
	text := fmt.Sprintf("새로운 피드백이 도착했습니다\n내용: %s\n연락처: %s", fb.Content, fb.Email)
	resp, err := n.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"text": text}).
		Post(n.url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook: status=%d", resp.StatusCode())
	}
	return nil
}

type Service struct {
	DB       *gorm.DB
	Notifier Notifier
	Log      zerolog.Logger
}

type SubmitInput struct {
	UserID  *uint64
	Email   string
	Content string
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (Feedback, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return Feedback{}, ErrEmptyContent
	}

	fb := Feedback{
		UserID:    in.UserID,
		Email:     strings.TrimSpace(in.Email),
		Content:   in.Content,
		CreatedAt: time.Now(),
	}
	if err := s.DB.WithContext(ctx).Create(&fb).Error; err != nil {
		return Feedback{}, err
	}

	if s.Notifier != nil {
		if err := s.Notifier.Notify(ctx, fb); err != nil {
			s.Log.Warn().Err(err).Msg("feedback webhook failed")
		}
	}
	return fb, nil
}
