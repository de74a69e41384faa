package integration

import (
	"fmt"
	"net/http"
)

// newFakeAPI serves the subset of the GitHub REST API the binary uses for
// the acme/widgets repository. It is stateless so scripts can run in
// parallel.
func newFakeAPI() http.Handler {
	mux := http.NewServeMux()
	const repo = "/repos/acme/widgets"

	mux.HandleFunc("GET "+repo+"/branches/{branch}", func(w http.ResponseWriter, r *http.Request) {
		branch := r.PathValue("branch")
		fmt.Fprintf(w, `{"name": %q, "commit": {"sha": "sha-%s"}}`, branch, branch)
	})
	mux.HandleFunc("GET "+repo+"/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 1, "tag_name": "1.4.0", "name": "1.4.0"}`)
	})
	mux.HandleFunc("POST "+repo+"/releases/generate-notes", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
  "name": "",
  "body": "## What's Changed\n* Fix a by @dev in https://github.com/acme/widgets/pull/12\n* Add b by @new in https://github.com/acme/widgets/pull/7\n\n## New Contributors\n* @new made their first contribution in https://github.com/acme/widgets/pull/12\n"
}`)
	})
	mux.HandleFunc("GET "+repo+"/pulls/{number}", func(w http.ResponseWriter, r *http.Request) {
		switch r.PathValue("number") {
		case "42":
			fmt.Fprint(w, `{
  "number": 42,
  "body": "Release notes for 2.0.0",
  "merged": true,
  "merged_at": "2024-03-05T14:30:00Z",
  "base": {"ref": "main"},
  "head": {"ref": "release/2.0.0"}
}`)
		case "43":
			fmt.Fprint(w, `{
  "number": 43,
  "merged": true,
  "base": {"ref": "develop"},
  "head": {"ref": "feature/login"}
}`)
		default:
			http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
		}
	})
	mux.HandleFunc("POST "+repo+"/releases", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 2, "tag_name": "2.0.0", "name": "2.0.0", "html_url": "https://github.com/acme/widgets/releases/tag/2.0.0"}`)
	})
	mux.HandleFunc("POST "+repo+"/merges", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"sha": "merge-sha"}`)
	})
	return mux
}
