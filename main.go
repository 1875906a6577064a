package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FlorianRuen/repo-insight/config"
	"github.com/FlorianRuen/repo-insight/controller"
	"github.com/FlorianRuen/repo-insight/llm"
	"github.com/FlorianRuen/repo-insight/logger"
	"github.com/FlorianRuen/repo-insight/model"
	"github.com/FlorianRuen/repo-insight/scoring"
	"github.com/FlorianRuen/repo-insight/service"
	"github.com/gin-gonic/gin"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

type services struct {
	repository service.RepositoryService
	evaluation service.EvaluationService
}

func main() {
	root := &cobra.Command{
		Use:           "repo-insight",
		Short:         "Score GitHub repositories and evaluate answers about them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd(), analyzeCmd())

	if err := root.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			svc, err := buildServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			return serve(cfg, svc)
		},
	}
}

func analyzeCmd() *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "analyze <repo_url>",
		Short: "Analyze a single repository and print the JSON result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			analysisMode, err := model.AnalyzeRepoRequest{Mode: mode}.AnalysisMode()
			if err != nil {
				return err
			}

			repo, err := model.ParseRepoURL(args[0])
			if err != nil {
				return err
			}

			svc, err := buildServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.API.RequestTimeoutSeconds)*time.Second)
			defer cancel()

			response, err := svc.repository.Analyze(ctx, repo, analysisMode)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(response)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(model.AnalysisModeStandard), "analysis mode: standard or forensic")
	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("unable to load configuration")
		return nil, err
	}

	// configure logger
	logger.Setup(*cfg)
	return cfg, nil
}

func buildServices(ctx context.Context, cfg *config.Config) (services, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// setup github client
	// we do here and pass the client to Github service to easily improve tests with mock client
	githubClient := github.NewClient(&http.Client{Timeout: time.Duration(cfg.Github.TimeoutSeconds) * time.Second})

	if cfg.Github.Token != "" {
		log.Debug("will setup github client with authorization token")
		githubClient = githubClient.WithAuthToken(cfg.Github.Token)
	}

	var rateLimiter *rate.Limiter
	if cfg.Github.LocalRateLimit {
		rateLimiter = service.NewGithubRateLimiter(ctx, githubClient, cfg.Github.Token != "")
	}

	generator, err := llm.NewGenerator(ctx, cfg.LLM)
	if err != nil {
		log.WithError(err).Error("unable to setup llm client")
		return services{}, err
	}

	// setup handlers and services
	githubService := service.NewGithubService(*cfg, githubClient, rateLimiter)
	analysisService := service.NewAnalysisService(*cfg, generator)

	return services{
		repository: service.NewRepositoryService(githubService, analysisService, scoring.NewScorer(scoring.DefaultRules())),
		evaluation: service.NewEvaluationService(*cfg, generator),
	}, nil
}

func serve(cfg *config.Config, svc services) error {
	apiController := controller.NewAPIController(*cfg, svc.repository, svc.evaluation)

	// setup server and define all routes
	gin.SetMode(gin.ReleaseMode)
	router := controller.NewRouter(*cfg, apiController)

	server := &http.Server{
		Addr:              ":" + cfg.API.ListenPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// start with configuration
	go func() {
		log.Info("server listening on port " + cfg.API.ListenPort)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("error while starting server")
		}
	}()

	// wait for interrupt signal to gracefully shut down the server with a timeout of 15 seconds.
	// kill default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("SIGINT, SIGTERM received, will shut down server ...")

	// create context with 15 seconds timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		return err
	}

	log.Info("Application stopped gracefully !")
	return nil
}
