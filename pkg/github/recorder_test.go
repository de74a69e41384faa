package github

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/dnaeon/go-vcr.v2/cassette"
	vcr "gopkg.in/dnaeon/go-vcr.v2/recorder"
)

// recordEnv switches the recorder to record mode when set to "record".
const recordEnv = "GITFLOW_VCR_MODE"

// newRecorder creates a VCR recorder backed by testdata/fixtures/<name>.yaml.
//
// In replay mode (the default) the fixture must exist. To record, run
// against a repository you own:
//
//	GITFLOW_VCR_MODE=record GITHUB_TOKEN=your_token GITFLOW_VCR_REPOSITORY=you/sandbox go test ./pkg/github/...
func newRecorder(t *testing.T, name string) (*vcr.Recorder, bool, error) {
	t.Helper()

	recording := os.Getenv(recordEnv) == "record"
	mode := vcr.ModeReplaying
	if recording {
		mode = vcr.ModeRecording
	}

	// go-vcr adds the ".yaml" extension.
	fixturePath := filepath.Join("testdata", "fixtures", name)
	r, err := vcr.NewAsMode(fixturePath, mode, nil)
	if err != nil {
		if errors.Is(err, cassette.ErrCassetteNotFound) {
			return nil, false, fmt.Errorf("cassette %q not found: %w", fixturePath, os.ErrNotExist)
		}
		return nil, false, fmt.Errorf("failed to create recorder: %w", err)
	}

	r.AddSaveFilter(func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	})
	return r, recording, nil
}

// setupRecordedRepository returns a Repository whose traffic goes through
// the recorder. Tests are skipped when the fixture has not been recorded.
func setupRecordedRepository(t *testing.T, fixtureName string) *Repository {
	t.Helper()

	r, recording, err := newRecorder(t, fixtureName)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.Skipf("fixture %q not found. To record it, run: %s=record GITHUB_TOKEN=your_token go test -v ./pkg/github/ -run %s",
				fixtureName, recordEnv, t.Name())
		}
		t.Fatalf("failed to create recorder: %v", err)
	}
	t.Cleanup(func() {
		if err := r.Stop(); err != nil {
			t.Errorf("failed to stop recorder: %v", err)
		}
	})

	token := "test-token"
	owner, repo := "holon-run", "gitflow-sandbox"
	if recording {
		token = os.Getenv(TokenEnv)
		if token == "" {
			t.Fatalf("%s must be set when recording fixtures", TokenEnv)
		}
		if o, n, ok := strings.Cut(os.Getenv("GITFLOW_VCR_REPOSITORY"), "/"); ok {
			owner, repo = o, n
		}
	}

	client := NewClient(token,
		WithTimeout(10*time.Second),
		WithHTTPClient(&http.Client{Transport: r}),
	)
	return client.Repository(owner, repo)
}
