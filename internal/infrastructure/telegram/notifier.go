package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CuratorHub/internal/domain"
	"CuratorHub/internal/ports"
)

const defaultAPIURL = "https://api.telegram.org"

// Notifier announces newly published articles to a Telegram chat via bot API.
type Notifier struct {
	apiURL   string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		apiURL:   defaultAPIURL,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Announce posts a short Markdown message about the new article.
func (n *Notifier) Announce(ctx context.Context, article domain.Article) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	message := fmt.Sprintf("*%s* (%s)\n%s\n%s",
		article.Title,
		article.Category,
		article.Summary,
		article.URL)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", message)
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}
