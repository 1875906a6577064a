package model

import (
	"fmt"
	"regexp"
	"strings"
)

// host must be github.com, with an optional scheme and ssh user
var githubURLPattern = regexp.MustCompile(`^(?:(?:https?|git|ssh)://)?(?:[A-Za-z0-9_.-]+@)?(?:www\.)?github\.com[/:]([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)`)

// RepoRef identifies a GitHub repository
type RepoRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// ParseRepoURL extracts owner and name from a GitHub URL.
// Trailing slashes and a trailing .git are ignored, in any order.
func ParseRepoURL(rawURL string) (RepoRef, error) {
	trimmed := strings.TrimSpace(rawURL)

	for {
		before := trimmed
		trimmed = strings.TrimSuffix(trimmed, "/")
		trimmed = strings.TrimSuffix(trimmed, ".git")

		if trimmed == before {
			break
		}
	}

	matches := githubURLPattern.FindStringSubmatch(trimmed)
	if matches == nil {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, rawURL)
	}

	ref := RepoRef{
		Owner: matches[1],
		Name:  strings.TrimSuffix(matches[2], ".git"),
	}

	if ref.Name == "" || ref.Owner == "." || ref.Owner == ".." || ref.Name == "." || ref.Name == ".." {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, rawURL)
	}

	return ref, nil
}

// RepoSnapshot holds everything fetched from GitHub for a single analysis
type RepoSnapshot struct {
	Repo     RepoRef
	Readme   string
	Files    []string
	Manifest *string // nil when the manifest could not be fetched
	Context  string  // concatenated prioritized file contents
}

// FileContent is the outcome of fetching a single file, failures included
type FileContent struct {
	Path    string
	Content string
	Err     error
}
