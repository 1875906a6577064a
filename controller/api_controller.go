package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/FlorianRuen/repo-insight/config"
	"github.com/FlorianRuen/repo-insight/model"
	"github.com/FlorianRuen/repo-insight/service"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type APIController interface {
	AnalyzeRepo(ctx *gin.Context)
	EvaluateAnswer(ctx *gin.Context)
	Health(ctx *gin.Context)
}

type apiController struct {
	repositoryService service.RepositoryService
	evaluationService service.EvaluationService
	config            config.Config
}

func NewAPIController(config config.Config, repositoryService service.RepositoryService, evaluationService service.EvaluationService) APIController {
	return apiController{
		repositoryService: repositoryService,
		evaluationService: evaluationService,
		config:            config,
	}
}

// AnalyzeRepo handles POST /api/v1/analyze-repo
func (s apiController) AnalyzeRepo(c *gin.Context) {
	var request model.AnalyzeRepoRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		s.abortWithError(c, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		return
	}

	mode, err := request.AnalysisMode()
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	repo, err := model.ParseRepoURL(request.RepoURL)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	// execute the request
	response, err := s.repositoryService.Analyze(ctx, repo, mode)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// EvaluateAnswer handles POST /api/v1/evaluate-answer
func (s apiController) EvaluateAnswer(c *gin.Context) {
	var body model.EvaluateAnswerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.abortWithError(c, fmt.Errorf("%w: %v", model.ErrInvalidInput, err))
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	result, err := s.evaluationService.Evaluate(ctx, body.ToRequest())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s apiController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestContext bounds the whole request, upstream calls included
func (s apiController) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(s.config.API.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}

	return context.WithTimeout(c.Request.Context(), timeout)
}

func (s apiController) abortWithError(c *gin.Context, err error) {
	status := model.StatusCode(err)

	entry := log.WithFields(log.Fields{
		"path":   c.FullPath(),
		"status": status,
	}).WithError(err)

	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	c.AbortWithStatusJSON(status, model.NewAPIError(err))
}
