package service

import (
	"context"

	"github.com/FlorianRuen/repo-insight/model"
	"github.com/FlorianRuen/repo-insight/scoring"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type RepositoryService interface {
	Analyze(ctx context.Context, repo model.RepoRef, mode model.AnalysisMode) (model.AnalyzeRepoResponse, error)
	FetchSnapshot(ctx context.Context, repo model.RepoRef, withContext bool) (model.RepoSnapshot, error)
}

type repositoryService struct {
	githubService   GithubService
	analysisService AnalysisService
	scorer          scoring.Scorer
}

func NewRepositoryService(githubService GithubService, analysisService AnalysisService, scorer scoring.Scorer) RepositoryService {
	return repositoryService{
		githubService:   githubService,
		analysisService: analysisService,
		scorer:          scorer,
	}
}

// Analyze fetches, scores and analyzes a repository.
// Any GitHub failure is returned as is. LLM failures never are, they degrade the analysis.
func (s repositoryService) Analyze(ctx context.Context, repo model.RepoRef, mode model.AnalysisMode) (model.AnalyzeRepoResponse, error) {
	log.WithFields(log.Fields{
		"owner": repo.Owner,
		"name":  repo.Name,
		"mode":  mode,
	}).Info("analyze repository")

	snapshot, err := s.FetchSnapshot(ctx, repo, s.analysisService.Enabled())
	if err != nil {
		return model.AnalyzeRepoResponse{}, err
	}

	scorecard := s.scorer.Score(snapshot.Readme, snapshot.Files)

	var deps []string
	if snapshot.Manifest != nil {
		deps = ExtractDependencies(*snapshot.Manifest)
	}

	analysis := s.analysisService.Analyze(ctx, AnalysisInput{
		Repo:      repo,
		Readme:    snapshot.Readme,
		Files:     snapshot.Files,
		TechStack: TechStackDescription(snapshot.Manifest, deps),
		Context:   snapshot.Context,
		Mode:      mode,
	})

	// advisory only, overall stays the deterministic sum
	scorecard.AIScore = analysis.AIScore

	return model.AnalyzeRepoResponse{
		Repo:               repo,
		Mode:               string(mode),
		Summary:            analysis.Summary,
		TechnicalQuestions: analysis.TechnicalQuestions,
		Scorecard:          scorecard,
		Notes:              analysis.Notes,
		TechStack:          deps,
		FilesAnalyzed:      len(snapshot.Files),
		HasReadme:          snapshot.Readme != "",
		AnalysisDegraded:   analysis.Degraded,
	}, nil
}

// FetchSnapshot runs the README, tree and manifest fetches concurrently, then the
// prioritized context fetch when withContext is set
func (s repositoryService) FetchSnapshot(ctx context.Context, repo model.RepoRef, withContext bool) (model.RepoSnapshot, error) {
	snapshot := model.RepoSnapshot{Repo: repo}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		readme, err := s.githubService.FetchReadme(gCtx, repo)
		snapshot.Readme = readme
		return err
	})

	g.Go(func() error {
		files, err := s.githubService.FetchFileTree(gCtx, repo)
		snapshot.Files = files
		return err
	})

	g.Go(func() error {
		snapshot.Manifest = s.githubService.FetchManifest(gCtx, repo)
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.RepoSnapshot{}, err
	}

	if !withContext {
		return snapshot, nil
	}

	prioritizedContext, err := s.githubService.FetchPrioritizedContext(ctx, repo, snapshot.Files)
	if err != nil {
		return model.RepoSnapshot{}, err
	}

	snapshot.Context = prioritizedContext
	return snapshot, nil
}
