package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FlorianRuen/repo-insight/config"
	"github.com/FlorianRuen/repo-insight/model"
	"github.com/google/go-github/v66/github"

	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"

	"golang.org/x/time/rate"
)

// branches tried in order when listing the repository tree
var treeBranches = []string{"main", "master"}

type GithubService interface {
	FetchReadme(ctx context.Context, repo model.RepoRef) (string, error)
	FetchFileTree(ctx context.Context, repo model.RepoRef) ([]string, error)
	FetchManifest(ctx context.Context, repo model.RepoRef) *string
	FetchPrioritizedContext(ctx context.Context, repo model.RepoRef, files []string) (string, error)
	FetchFiles(ctx context.Context, repo model.RepoRef, paths []string) ([]model.FileContent, error)
	FetchSingleFile(ctx context.Context, repo model.RepoRef, path string, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.FileContent)

	HandleRequestErrors(err error) error
}

type githubService struct {
	githubClient      *github.Client
	githubRateLimiter *rate.Limiter // nil disables the local guard
	config            config.Config
}

func NewGithubService(config config.Config, githubClient *github.Client, rateLimiter *rate.Limiter) GithubService {
	return githubService{
		githubClient:      githubClient,
		githubRateLimiter: rateLimiter,
		config:            config,
	}
}

// FetchReadme returns the decoded README truncated to the configured length.
// A repository without README is not an error, an empty string is returned.
func (s githubService) FetchReadme(ctx context.Context, repo model.RepoRef) (string, error) {
	if err := s.allow(); err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"owner": repo.Owner,
		"name":  repo.Name,
	}).Debug("fetch readme from github")

	readme, _, err := s.githubClient.Repositories.GetReadme(ctx, repo.Owner, repo.Name, nil)
	if err != nil {
		err = s.HandleRequestErrors(err)

		if errors.Is(err, model.ErrRepoNotFound) {
			log.WithField("repository", repo.FullName()).Debug("repository without readme")
			return "", nil
		}

		return "", err
	}

	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("%w: unable to decode readme: %v", model.ErrUpstream, err)
	}

	return truncate(content, s.config.Github.MaxReadmeLength), nil
}

// FetchFileTree lists blob paths of the main branch, falling back to master.
// A rate limit on the first branch is returned immediately.
func (s githubService) FetchFileTree(ctx context.Context, repo model.RepoRef) ([]string, error) {
	for _, branch := range treeBranches {
		if err := s.allow(); err != nil {
			return nil, err
		}

		logger := log.WithFields(log.Fields{
			"owner":  repo.Owner,
			"name":   repo.Name,
			"branch": branch,
		})

		logger.Debug("fetch recursive tree from github")

		tree, _, err := s.githubClient.Git.GetTree(ctx, repo.Owner, repo.Name, branch, true)
		if err != nil {
			err = s.HandleRequestErrors(err)

			if errors.Is(err, model.ErrRepoNotFound) {
				logger.Debug("branch not found")
				continue
			}

			return nil, err
		}

		if tree.GetTruncated() {
			logger.Warning("github truncated the tree listing, some files are missing")
		}

		return blobPaths(tree, s.config.Github.MaxTreeFiles), nil
	}

	return nil, fmt.Errorf("%w: no accessible main or master branch for %s", model.ErrRepoNotFound, repo.FullName())
}

// FetchManifest is best effort, any failure gives nil
func (s githubService) FetchManifest(ctx context.Context, repo model.RepoRef) *string {
	manifestPath := s.config.Github.ManifestPath

	if err := s.allow(); err != nil {
		log.WithField("path", manifestPath).Debug("manifest skipped, local rate limit reached")
		return nil
	}

	content, err := s.fetchContent(ctx, repo, manifestPath)
	if err != nil {
		log.WithFields(log.Fields{
			"repository": repo.FullName(),
			"path":       manifestPath,
		}).WithError(err).Debug("manifest not available")

		return nil
	}

	content = truncate(content, s.config.Github.MaxReadmeLength)
	return &content
}

// FetchPrioritizedContext concatenates the content of the most relevant files.
// Files that cannot be fetched are omitted, only a rate limit aborts the whole operation.
func (s githubService) FetchPrioritizedContext(ctx context.Context, repo model.RepoRef, files []string) (string, error) {
	paths := PrioritizeFiles(files, s.config.Github.MaxContextFiles)
	if len(paths) == 0 {
		return "", nil
	}

	log.WithFields(log.Fields{
		"repository": repo.FullName(),
		"files":      len(paths),
	}).Debug("fetch prioritized files for analysis context")

	results, err := s.FetchFiles(ctx, repo, paths)
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for _, r := range results {
		if r.Err != nil {
			log.WithFields(log.Fields{
				"repository": repo.FullName(),
				"path":       r.Path,
			}).WithError(r.Err).Debug("file omitted from analysis context")

			continue
		}

		builder.WriteString("--- FILE: " + r.Path + " ---\n")
		builder.WriteString(truncate(r.Content, s.config.Github.MaxContextFileLength))
		builder.WriteString("\n\n")
	}

	return strings.TrimRight(builder.String(), "\n"), nil
}

// FetchFiles fetches paths in fixed size batches, waiting for each batch before starting the next.
// At most MaxParallelTasksAllowed requests run at once.
// Every path gets a result, in the same order as paths. Only a rate limit is returned as error.
func (s githubService) FetchFiles(ctx context.Context, repo model.RepoRef, paths []string) ([]model.FileContent, error) {
	batchSize := s.config.Tasks.ContextBatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	// in-flight requests never exceed MaxParallelTasksAllowed, even inside a batch
	parallel := batchSize
	if limit := s.config.Tasks.MaxParallelTasksAllowed; limit > 0 && limit < parallel {
		parallel = limit
	}

	byPath := make(map[string]model.FileContent, len(paths))

	for start := 0; start < len(paths); start += batchSize {
		end := min(start+batchSize, len(paths))
		batch := paths[start:end]

		swg := sizedwaitgroup.New(parallel)
		results := make(chan model.FileContent, len(batch))

		for _, p := range batch {
			swg.Add()
			go s.FetchSingleFile(ctx, repo, p, &swg, results)
		}

		swg.Wait()
		close(results)

		rateLimited := false
		for result := range results {
			byPath[result.Path] = result

			if errors.Is(result.Err, model.ErrRateLimited) {
				rateLimited = true
			}
		}

		if rateLimited {
			return nil, fmt.Errorf("%w: while fetching files of %s", model.ErrRateLimited, repo.FullName())
		}
	}

	ordered := make([]model.FileContent, 0, len(paths))
	for _, p := range paths {
		ordered = append(ordered, byPath[p])
	}

	return ordered, nil
}

// FetchSingleFile fetches one file and always sends exactly one result to the channel
func (s githubService) FetchSingleFile(ctx context.Context, repo model.RepoRef, path string, swg *sizedwaitgroup.SizedWaitGroup, ch chan<- model.FileContent) {
	defer swg.Done()

	if err := s.allow(); err != nil {
		ch <- model.FileContent{Path: path, Err: err}
		return
	}

	content, err := s.fetchContent(ctx, repo, path)
	ch <- model.FileContent{Path: path, Content: content, Err: err}
}

func (s githubService) fetchContent(ctx context.Context, repo model.RepoRef, path string) (string, error) {
	file, _, _, err := s.githubClient.Repositories.GetContents(ctx, repo.Owner, repo.Name, path, nil)
	if err != nil {
		return "", s.HandleRequestErrors(err)
	}

	if file == nil {
		return "", fmt.Errorf("%w: %s is a directory", model.ErrUpstream, path)
	}

	content, err := file.GetContent()
	if err != nil {
		return "", fmt.Errorf("%w: unable to decode %s: %v", model.ErrUpstream, path, err)
	}

	return content, nil
}

// allow consumes one request from the local rate limiter
func (s githubService) allow() error {
	if s.githubRateLimiter == nil || s.githubRateLimiter.Allow() {
		return nil
	}

	log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
	return fmt.Errorf("%w: local limiter exhausted", model.ErrRateLimited)
}

// HandleRequestErrors manage errors including github rate limit errors at the same location
// If error is a rate limit error, this function will update the local rate limiter to consume all available requests
// this can help us to keep the local rate limiter up to date
func (s githubService) HandleRequestErrors(err error) error {
	var rateLimitErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var responseErr *github.ErrorResponse

	switch {
	case errors.As(err, &rateLimitErr), errors.As(err, &abuseErr):
		s.exhaustRateLimiter()
		log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
		return fmt.Errorf("%w: %v", model.ErrRateLimited, err)

	case errors.As(err, &responseErr) && responseErr.Response != nil:
		switch responseErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", model.ErrRepoNotFound, err)
		case http.StatusForbidden, http.StatusTooManyRequests:
			s.exhaustRateLimiter()
			log.Warning("the Github rate limit has been reached. Use a token or wait until the limit reset")
			return fmt.Errorf("%w: %v", model.ErrRateLimited, err)
		}
	}

	log.WithError(err).Error("error catched when fetching data from github")
	return fmt.Errorf("%w: %v", model.ErrUpstream, err)
}

// exhaustRateLimiter consumes every remaining token, the limiter refills at its own pace
func (s githubService) exhaustRateLimiter() {
	if s.githubRateLimiter == nil {
		return
	}

	now := time.Now()
	if remaining := int(s.githubRateLimiter.TokensAt(now)); remaining > 0 {
		s.githubRateLimiter.ReserveN(now, remaining)
	}
}

func blobPaths(tree *github.Tree, maxFiles int) []string {
	paths := make([]string, 0, len(tree.Entries))

	for _, entry := range tree.Entries {
		if entry == nil || entry.GetType() != "blob" {
			continue
		}

		paths = append(paths, entry.GetPath())

		if maxFiles > 0 && len(paths) >= maxFiles {
			break
		}
	}

	return paths
}

// truncate keeps at most maxChars characters, maxChars <= 0 keeps everything
func truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}

	return string([]rune(s)[:maxChars])
}
