package main

import (
	"encoding/json"
	"io"

	"github.com/holon-run/gitflow/pkg/actions"
	"github.com/holon-run/gitflow/pkg/gitflow"
)

// writeResult prints result as JSON and, inside a workflow run, sets the
// step outputs.
func writeResult(w io.Writer, rt *actions.Runtime, result *gitflow.Result) error {
	if result == nil {
		return nil
	}
	if rt.Getenv("GITHUB_OUTPUT") != "" {
		rt.WriteOutputs(result.Outputs())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// hotfixNotice tells the operator what to do after a hotfix branch is cut.
func hotfixNotice(rt *actions.Runtime, result *gitflow.Result, mainBranch string) {
	rt.Notice("Hotfix branch %s was created from %s. Push your fix to it and open a pull request into %s.",
		result.ReleaseBranch, mainBranch, mainBranch)
}
