// Package actions adapts the GitHub Actions runner environment: trigger
// detection, action inputs, step outputs and workflow annotations.
package actions

import (
	"fmt"
	"sort"

	"github.com/holon-run/gitflow/pkg/gitflow"
	"github.com/sethvargo/go-githubactions"
)

// Event names the dispatcher routes on.
const (
	EventPullRequest      = "pull_request"
	EventWorkflowDispatch = "workflow_dispatch"
)

// TriggerKind is the routing decision for a run.
type TriggerKind string

const (
	// TriggerUnmatched means no release path applies to the event.
	TriggerUnmatched TriggerKind = "unmatched"
	// TriggerDispatch is a manual dispatch; Hotfix is set when it ran on
	// the production branch.
	TriggerDispatch TriggerKind = "dispatch"
	// TriggerPullRequestClosed is a closed pull request.
	TriggerPullRequestClosed TriggerKind = "pull_request_closed"
)

// Trigger describes the event that started the run.
type Trigger struct {
	Kind        TriggerKind
	EventName   string
	Ref         string
	Hotfix      bool
	PullRequest gitflow.PullRequestEvent
}

// Runtime reads from and writes to the Actions runner.
type Runtime struct {
	action *githubactions.Action
}

// New creates a Runtime. Options are passed to go-githubactions, for
// example githubactions.WithGetenv in tests.
func New(opts ...githubactions.Option) *Runtime {
	return &Runtime{action: githubactions.New(opts...)}
}

// Input returns the trimmed value of the action input name.
func (r *Runtime) Input(name string) string {
	return r.action.GetInput(name)
}

// Getenv reads the runner environment.
func (r *Runtime) Getenv(key string) string {
	return r.action.Getenv(key)
}

// Detect reads the event context and decides which path to run.
// mainBranch is the configured production branch.
func (r *Runtime) Detect(mainBranch string) (Trigger, error) {
	ghctx, err := r.action.Context()
	if err != nil {
		return Trigger{}, fmt.Errorf("failed to read event context: %w", err)
	}
	return detect(ghctx.EventName, ghctx.Ref, ghctx.Event, mainBranch), nil
}

func detect(eventName, ref string, event map[string]any, mainBranch string) Trigger {
	t := Trigger{Kind: TriggerUnmatched, EventName: eventName, Ref: ref}

	switch eventName {
	case EventWorkflowDispatch:
		t.Kind = TriggerDispatch
		t.Hotfix = ref == "refs/heads/"+mainBranch
	case EventPullRequest:
		if action, _ := event["action"].(string); action != "closed" {
			return t
		}
		t.Kind = TriggerPullRequestClosed
		pr, _ := event["pull_request"].(map[string]any)
		t.PullRequest.Merged, _ = pr["merged"].(bool)
		// JSON numbers decode as float64.
		if n, ok := pr["number"].(float64); ok {
			t.PullRequest.Number = int(n)
		} else if n, ok := event["number"].(float64); ok {
			t.PullRequest.Number = int(n)
		}
	}
	return t
}

// WriteOutputs sets every key of outputs as a step output, in key order.
func (r *Runtime) WriteOutputs(outputs map[string]string) {
	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.action.SetOutput(k, outputs[k])
	}
}

// Notice emits a notice annotation.
func (r *Runtime) Notice(format string, args ...any) {
	r.action.Noticef(format, args...)
}

// Error emits an error annotation.
func (r *Runtime) Error(format string, args ...any) {
	r.action.Errorf(format, args...)
}
