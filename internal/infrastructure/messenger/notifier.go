// Package messenger はメッセンジャーゲートウェイ経由で管理者へ通知を送る。
package messenger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	admindomain "github.com/sngm3741/review-wall/api/internal/admin/domain"
	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

// adminUserID はゲートウェイに渡す送信者識別子。
const adminUserID = "review-wall"

// Config はゲートウェイの接続設定。
type Config struct {
	Endpoint    string
	Destination string
	Timeout     time.Duration
	RetryCount  int
	RetryWait   time.Duration
}

// Notifier は POST <endpoint>/messages へ {userId,text,destination} を送る。
type Notifier struct {
	client      *resty.Client
	destination string
}

type messagePayload struct {
	UserID      string `json:"userId"`
	Text        string `json:"text"`
	Destination string `json:"destination,omitempty"`
}

// New は設定が揃っていれば Notifier を返し、未設定なら nil を返す。
func New(cfg Config) *Notifier {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	destination := strings.TrimSpace(cfg.Destination)
	if endpoint == "" || destination == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	retryCount := cfg.RetryCount
	if retryCount < 0 {
		retryCount = 0
	}
	retryWait := cfg.RetryWait
	if retryWait <= 0 {
		retryWait = 200 * time.Millisecond
	}

	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryWait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() >= 500
		})

	return &Notifier{client: client, destination: destination}
}

// ReviewSubmitted は新規投稿/編集保存を通知する。
func (n *Notifier) ReviewSubmitted(ctx context.Context, review domain.Review, edited bool) error {
	return n.send(ctx, buildReviewMessage(review, edited))
}

// ReviewsPurged はサンプルレビュー削除の結果を通知する。
func (n *Notifier) ReviewsPurged(ctx context.Context, target admindomain.PurgeTarget, result admindomain.PurgeResult) error {
	return n.send(ctx, fmt.Sprintf("Admin purge (%s / %s): %s", target.Name(), target.Text(), result.Message()))
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if n == nil {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("message text is empty")
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(messagePayload{UserID: adminUserID, Text: text, Destination: n.destination}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("メッセンジャー送信リクエストに失敗: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("メッセンジャー送信でエラーが発生: status=%d body=%s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

func buildReviewMessage(review domain.Review, edited bool) string {
	var builder strings.Builder
	if edited {
		builder.WriteString(fmt.Sprintf("**%s** updated their review.\n", review.Name))
	} else {
		builder.WriteString(fmt.Sprintf("New review from **%s**.\n", review.Name))
	}
	builder.WriteString(fmt.Sprintf("- Total: %s / 5 (code %d, character %d, satisfaction %d)\n",
		domain.FormatAverage(review.Total), review.Code, review.Character, review.Sat))
	if text := strings.TrimSpace(review.Text); text != "" {
		builder.WriteString("> " + text + "\n")
	}
	return builder.String()
}
