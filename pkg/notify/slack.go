package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// maxBodyRunes caps the release notes excerpt in a Slack attachment.
const maxBodyRunes = 2000

// SlackNotifier posts to a Slack incoming webhook.
type SlackNotifier struct {
	WebhookURL string
	Channel    string
	Username   string
	IconEmoji  string
	Mention    string
	Client     *http.Client
}

// NewSlackNotifier creates a Slack webhook notifier.
func NewSlackNotifier(webhookURL string, opts ...SlackOption) *SlackNotifier {
	n := &SlackNotifier{
		WebhookURL: webhookURL,
		Username:   "gitflow",
		IconEmoji:  ":rocket:",
		Client:     &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// SlackOption configures SlackNotifier. Empty values leave the default.
type SlackOption func(*SlackNotifier)

// WithSlackChannel sets the channel to post to.
func WithSlackChannel(channel string) SlackOption {
	return func(n *SlackNotifier) {
		if channel != "" {
			n.Channel = channel
		}
	}
}

// WithSlackUsername sets the bot username.
func WithSlackUsername(username string) SlackOption {
	return func(n *SlackNotifier) {
		if username != "" {
			n.Username = username
		}
	}
}

// WithSlackIconEmoji sets the bot icon.
func WithSlackIconEmoji(emoji string) SlackOption {
	return func(n *SlackNotifier) {
		if emoji != "" {
			n.IconEmoji = emoji
		}
	}
}

// WithSlackMention prefixes the message with a mention such as "<!here>".
func WithSlackMention(mention string) SlackOption {
	return func(n *SlackNotifier) { n.Mention = mention }
}

// WithSlackHTTPClient sets the HTTP client.
func WithSlackHTTPClient(client *http.Client) SlackOption {
	return func(n *SlackNotifier) {
		if client != nil {
			n.Client = client
		}
	}
}

// Notify implements Notifier.
func (n *SlackNotifier) Notify(ctx context.Context, rel Release) error {
	body, err := json.Marshal(n.payload(rel))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	return nil
}

func (n *SlackNotifier) payload(rel Release) slackPayload {
	label := "Release"
	if rel.Kind == "hotfix" {
		label = "Hotfix release"
	}
	text := fmt.Sprintf("%s <%s|%s> published for %s", label, rel.URL, rel.Name, rel.Repository)
	if n.Mention != "" {
		text = n.Mention + " " + text
	}

	return slackPayload{
		Username:  n.Username,
		Channel:   n.Channel,
		IconEmoji: n.IconEmoji,
		Text:      text,
		Attachments: []slackAttachment{
			{
				Color:     "good",
				Title:     rel.Name,
				TitleLink: rel.URL,
				Text:      truncate(rel.Body, maxBodyRunes),
				Footer:    rel.Repository,
			},
		},
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}

// Slack webhook payload types
type slackPayload struct {
	Username    string            `json:"username,omitempty"`
	Channel     string            `json:"channel,omitempty"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments,omitempty"`
}

type slackAttachment struct {
	Color     string `json:"color,omitempty"`
	Title     string `json:"title"`
	TitleLink string `json:"title_link,omitempty"`
	Text      string `json:"text,omitempty"`
	Footer    string `json:"footer,omitempty"`
}
