package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/holon-run/gitflow/pkg/config"
	"github.com/holon-run/gitflow/pkg/gitflow"
)

func testSettings() config.Settings {
	return config.Settings{
		Owner:               "acme",
		Repo:                "widgets",
		MainBranch:          "main",
		DevelopBranch:       "develop",
		ReleaseBranchPrefix: "release/",
		HotfixBranchPrefix:  "hotfix/",
		MergeBackFromMain:   true,
	}
}

// newTestRepository serves mux as the GitHub API for acme/widgets.
func newTestRepository(t *testing.T, mux *http.ServeMux) *Repository {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient("test-token",
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
	)
	return client.Repository("acme", "widgets")
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	data, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", data, err)
	}
	return body
}

func TestRepository_AuthorizationHeader(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/branches/develop", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		fmt.Fprint(w, `{"name": "develop", "commit": {"sha": "abc123"}}`)
	})

	sha, err := newTestRepository(t, mux).BranchSHA(context.Background(), "develop")
	if err != nil {
		t.Fatalf("BranchSHA() error = %v", err)
	}
	if sha != "abc123" {
		t.Errorf("sha = %q, want abc123", sha)
	}
}

func TestRepository_BranchSHA_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/branches/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Branch not found"}`, http.StatusNotFound)
	})

	_, err := newTestRepository(t, mux).BranchSHA(context.Background(), "missing")
	if err == nil {
		t.Fatal("BranchSHA() should fail")
	}
	if !IsNotFoundError(err) {
		t.Errorf("IsNotFoundError(%v) = false", err)
	}
}

func TestRepository_LatestRelease(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /repos/acme/widgets/releases/latest", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id": 9, "tag_name": "1.4.0", "name": "1.4.0", "html_url": "https://github.com/acme/widgets/releases/tag/1.4.0"}`)
		})

		rel, err := newTestRepository(t, mux).LatestRelease(context.Background())
		if err != nil {
			t.Fatalf("LatestRelease() error = %v", err)
		}
		if rel == nil || rel.TagName != "1.4.0" || rel.ID != 9 {
			t.Errorf("release = %+v", rel)
		}
	})

	t.Run("none yet", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /repos/acme/widgets/releases/latest", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
		})

		rel, err := newTestRepository(t, mux).LatestRelease(context.Background())
		if err != nil {
			t.Fatalf("LatestRelease() error = %v", err)
		}
		if rel != nil {
			t.Errorf("release = %+v, want nil", rel)
		}
	})

	t.Run("server error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /repos/acme/widgets/releases/latest", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message": "boom"}`, http.StatusInternalServerError)
		})

		if _, err := newTestRepository(t, mux).LatestRelease(context.Background()); err == nil {
			t.Error("LatestRelease() should fail on 500")
		}
	})
}

func TestRepository_GenerateReleaseNotes(t *testing.T) {
	tests := []struct {
		name         string
		req          gitflow.ReleaseNotesRequest
		wantPrevious bool
	}{
		{"with previous tag", gitflow.ReleaseNotesRequest{TagName: "1.4.1", TargetCommitish: "develop", PreviousTagName: "1.4.0"}, true},
		{"first release", gitflow.ReleaseNotesRequest{TagName: "0.1.0", TargetCommitish: "develop"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /repos/acme/widgets/releases/generate-notes", func(w http.ResponseWriter, r *http.Request) {
				body := decodeBody(t, r)
				if body["tag_name"] != tt.req.TagName {
					t.Errorf("tag_name = %v", body["tag_name"])
				}
				if body["target_commitish"] != tt.req.TargetCommitish {
					t.Errorf("target_commitish = %v", body["target_commitish"])
				}
				_, hasPrevious := body["previous_tag_name"]
				if hasPrevious != tt.wantPrevious {
					t.Errorf("previous_tag_name present = %t, want %t", hasPrevious, tt.wantPrevious)
				}
				fmt.Fprintf(w, `{"name": %q, "body": "* thing in https://github.com/acme/widgets/pull/3"}`, tt.req.TagName)
			})

			notes, err := newTestRepository(t, mux).GenerateReleaseNotes(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("GenerateReleaseNotes() error = %v", err)
			}
			if notes.Name != tt.req.TagName {
				t.Errorf("Name = %q", notes.Name)
			}
		})
	}
}

func TestRepository_CreateBranch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/git/refs", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["ref"] != "refs/heads/release/1.4.1" {
			t.Errorf("ref = %v", body["ref"])
		}
		if body["sha"] != "abc123" {
			t.Errorf("sha = %v", body["sha"])
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"ref": "refs/heads/release/1.4.1", "object": {"sha": "abc123"}}`)
	})

	if err := newTestRepository(t, mux).CreateBranch(context.Background(), "release/1.4.1", "abc123"); err != nil {
		t.Fatalf("CreateBranch() error = %v", err)
	}
}

func TestRepository_CreatePullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["head"] != "release/1.4.1" || body["base"] != "main" {
			t.Errorf("head/base = %v/%v", body["head"], body["base"])
		}
		if body["maintainer_can_modify"] != false {
			t.Errorf("maintainer_can_modify = %v, want false", body["maintainer_can_modify"])
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{
			"number": 101,
			"title": "Release 1.4.1",
			"html_url": "https://github.com/acme/widgets/pull/101",
			"head": {"ref": "release/1.4.1"},
			"base": {"ref": "main"}
		}`)
	})

	pr, err := newTestRepository(t, mux).CreatePullRequest(context.Background(), gitflow.NewPullRequest{
		Title: "Release 1.4.1",
		Head:  "release/1.4.1",
		Base:  "main",
		Body:  "notes",
	})
	if err != nil {
		t.Fatalf("CreatePullRequest() error = %v", err)
	}
	if pr.Number != 101 || pr.HeadRef != "release/1.4.1" || pr.BaseRef != "main" {
		t.Errorf("pr = %+v", pr)
	}
}

func TestRepository_LabelsAndComments(t *testing.T) {
	var labels []string
	var comment string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/issues/101/labels", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&labels); err != nil {
			t.Errorf("invalid labels body: %v", err)
		}
		fmt.Fprint(w, `[{"name": "release"}]`)
	})
	mux.HandleFunc("POST /repos/acme/widgets/issues/101/comments", func(w http.ResponseWriter, r *http.Request) {
		comment, _ = decodeBody(t, r)["body"].(string)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1}`)
	})

	repo := newTestRepository(t, mux)
	ctx := context.Background()
	if err := repo.AddLabels(ctx, 101, "release"); err != nil {
		t.Fatalf("AddLabels() error = %v", err)
	}
	if err := repo.CreateComment(ctx, 101, "hello"); err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if len(labels) != 1 || labels[0] != "release" {
		t.Errorf("labels = %v", labels)
	}
	if comment != "hello" {
		t.Errorf("comment = %q", comment)
	}
}

func TestRepository_GetPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"number": 42,
			"body": "notes",
			"merged": true,
			"merged_at": "2024-03-05T14:30:00Z",
			"labels": [{"name": "release"}],
			"head": {"ref": "hotfix/urgent-fix"},
			"base": {"ref": "main"}
		}`)
	})

	pr, err := newTestRepository(t, mux).GetPullRequest(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetPullRequest() error = %v", err)
	}
	if !pr.Merged || pr.HeadRef != "hotfix/urgent-fix" || pr.BaseRef != "main" {
		t.Errorf("pr = %+v", pr)
	}
	if want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC); !pr.MergedAt.Equal(want) {
		t.Errorf("MergedAt = %v, want %v", pr.MergedAt, want)
	}
	if len(pr.Labels) != 1 || pr.Labels[0] != "release" {
		t.Errorf("Labels = %v", pr.Labels)
	}
}

func TestRepository_CreateRelease(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /repos/acme/widgets/releases", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		if body["tag_name"] != "2.0.0" || body["target_commitish"] != "main" || body["name"] != "2.0.0" {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 5, "tag_name": "2.0.0", "name": "2.0.0", "html_url": "https://github.com/acme/widgets/releases/tag/2.0.0"}`)
	})

	rel, err := newTestRepository(t, mux).CreateRelease(context.Background(), gitflow.NewRelease{
		TagName:         "2.0.0",
		TargetCommitish: "main",
		Name:            "2.0.0",
		Body:            "notes",
	})
	if err != nil {
		t.Fatalf("CreateRelease() error = %v", err)
	}
	if rel.HTMLURL != "https://github.com/acme/widgets/releases/tag/2.0.0" {
		t.Errorf("HTMLURL = %q", rel.HTMLURL)
	}
}

func TestRepository_Merge(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		response     string
		want         gitflow.MergeStatus
		wantConflict bool
		wantErr      bool
	}{
		{name: "merged", status: http.StatusCreated, response: `{"sha": "def456"}`, want: gitflow.MergeStatusMerged},
		{name: "up to date", status: http.StatusNoContent, want: gitflow.MergeStatusUpToDate},
		{name: "conflict", status: http.StatusConflict, response: `{"message": "Merge conflict"}`, wantConflict: true, wantErr: true},
		{name: "missing branch", status: http.StatusNotFound, response: `{"message": "Base does not exist"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /repos/acme/widgets/merges", func(w http.ResponseWriter, r *http.Request) {
				body := decodeBody(t, r)
				if body["base"] != "develop" || body["head"] != "main" {
					t.Errorf("base/head = %v/%v", body["base"], body["head"])
				}
				if body["commit_message"] != "Merge main into develop" {
					t.Errorf("commit_message = %v", body["commit_message"])
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.response)
			})

			got, err := newTestRepository(t, mux).Merge(context.Background(), "develop", "main", "Merge main into develop")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Merge() error = %v, wantErr %v", err, tt.wantErr)
			}
			if conflict := errors.Is(err, gitflow.ErrMergeConflict); conflict != tt.wantConflict {
				t.Errorf("errors.Is(ErrMergeConflict) = %t, want %t", conflict, tt.wantConflict)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWorkflowRunsAgainstRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets/pulls/42", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number": 42, "merged": true, "head": {"ref": "release/2.0.0"}, "base": {"ref": "main"}}`)
	})
	mux.HandleFunc("POST /repos/acme/widgets/releases", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 5, "tag_name": "2.0.0", "name": "2.0.0", "html_url": "https://github.com/acme/widgets/releases/tag/2.0.0"}`)
	})
	mux.HandleFunc("POST /repos/acme/widgets/merges", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message": "Merge conflict"}`)
	})
	mux.HandleFunc("POST /repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number": 43, "html_url": "https://github.com/acme/widgets/pull/43", "head": {"ref": "main"}, "base": {"ref": "develop"}}`)
	})

	repo := newTestRepository(t, mux)
	s := testSettings()
	result, err := gitflow.New(s, repo).ExecuteOnRelease(context.Background(), gitflow.PullRequestEvent{Number: 42, Merged: true})
	if err != nil {
		t.Fatalf("ExecuteOnRelease() error = %v", err)
	}
	if result.Version != "2.0.0" || result.MergeBack != gitflow.MergeOpenedPullRequest || result.MergeBackPullNumber != 43 {
		t.Errorf("result = %+v", result)
	}
}
