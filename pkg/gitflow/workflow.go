package gitflow

import (
	"time"

	"github.com/holon-run/gitflow/pkg/config"
	"github.com/holon-run/gitflow/pkg/notify"
)

// ReleaseLabel is added to every automatically opened release pull request.
const ReleaseLabel = "release"

// Workflow runs the release orchestrators against a Host.
type Workflow struct {
	settings    config.Settings
	host        Host
	newNotifier func(descriptor string) (notify.Notifier, error)
	now         func() time.Time
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithNotifierFactory replaces the constructor used for the chat
// destination descriptor.
func WithNotifierFactory(f func(descriptor string) (notify.Notifier, error)) Option {
	return func(w *Workflow) { w.newNotifier = f }
}

// WithClock sets the time source used for date-based hotfix versions.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// New creates a Workflow.
func New(settings config.Settings, host Host, opts ...Option) *Workflow {
	w := &Workflow{
		settings:    settings,
		host:        host,
		newNotifier: notify.New,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Settings returns the workflow configuration.
func (w *Workflow) Settings() config.Settings {
	return w.settings
}
