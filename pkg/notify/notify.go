// Package notify delivers release announcements to chat webhooks.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Release is the announcement payload.
type Release struct {
	Repository string `json:"repository"`
	Name       string `json:"name"`
	TagName    string `json:"tag_name"`
	URL        string `json:"url"`
	Body       string `json:"body,omitempty"`
	// Kind is "release" or "hotfix".
	Kind string `json:"kind"`
}

// Notifier announces a release.
type Notifier interface {
	Notify(ctx context.Context, rel Release) error
}

// Destination formats.
const (
	FormatSlack = "slack"
	FormatJSON  = "json"
)

// DefaultTimeout bounds a single webhook delivery.
const DefaultTimeout = 10 * time.Second

// Options is the structured form of a destination descriptor. It is
// accepted as YAML or JSON.
type Options struct {
	WebhookURL string            `yaml:"webhook_url"`
	Format     string            `yaml:"format,omitempty"`
	Channel    string            `yaml:"channel,omitempty"`
	Username   string            `yaml:"username,omitempty"`
	IconEmoji  string            `yaml:"icon_emoji,omitempty"`
	Mention    string            `yaml:"mention,omitempty"`
	Headers    map[string]string `yaml:"headers,omitempty"`
}

// ParseOptions parses a destination descriptor: either a bare webhook URL
// or a YAML/JSON options document.
func ParseOptions(descriptor string) (Options, error) {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return Options{}, fmt.Errorf("empty notification destination")
	}
	if isURL(descriptor) {
		return Options{WebhookURL: descriptor, Format: FormatSlack}, nil
	}

	var opts Options
	if err := yaml.Unmarshal([]byte(descriptor), &opts); err != nil {
		return Options{}, fmt.Errorf("parse notification options: %w", err)
	}
	if opts.WebhookURL == "" {
		return Options{}, fmt.Errorf("notification options: webhook_url is required")
	}
	if !isURL(opts.WebhookURL) {
		return Options{}, fmt.Errorf("notification options: webhook_url %q is not an http(s) URL", opts.WebhookURL)
	}
	if opts.Format == "" {
		opts.Format = FormatSlack
	}
	return opts, nil
}

// New builds the notifier for a destination descriptor.
func New(descriptor string) (Notifier, error) {
	opts, err := ParseOptions(descriptor)
	if err != nil {
		return nil, err
	}
	return FromOptions(opts, &http.Client{Timeout: DefaultTimeout})
}

// FromOptions builds the notifier selected by opts.Format.
func FromOptions(opts Options, client *http.Client) (Notifier, error) {
	switch opts.Format {
	case FormatSlack:
		return NewSlackNotifier(opts.WebhookURL,
			WithSlackChannel(opts.Channel),
			WithSlackUsername(opts.Username),
			WithSlackIconEmoji(opts.IconEmoji),
			WithSlackMention(opts.Mention),
			WithSlackHTTPClient(client),
		), nil
	case FormatJSON:
		n := NewWebhookNotifier(opts.WebhookURL, opts.Headers)
		if client != nil {
			n.Client = client
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown notification format %q", opts.Format)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "https://") || strings.HasPrefix(s, "http://")
}
