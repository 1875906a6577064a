package service

import (
	"context"
	"time"

	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	unauthenticatedHourlyLimit = 60
	authenticatedHourlyLimit   = 5000
)

// NewGithubRateLimiter mirrors the github core rate limit locally.
// The current limits are loaded from github, consuming the requests already used
// so that requests made by other clients with the same token are accounted.
// When github cannot be reached, the documented hourly limits are used.
func NewGithubRateLimiter(ctx context.Context, githubClient *github.Client, authenticated bool) *rate.Limiter {
	limit := unauthenticatedHourlyLimit
	if authenticated {
		limit = authenticatedHourlyLimit
	}

	log.Debug("loading current rate limit from github")
	rateLimits, _, err := githubClient.RateLimit.Get(ctx)

	if err != nil || rateLimits == nil || rateLimits.Core == nil || rateLimits.Core.Limit <= 0 {
		log.WithError(err).WithField("hourlyLimit", limit).Warning("unable to load current github rate limits, using documented defaults")
		return newHourlyLimiter(limit)
	}

	log.WithFields(log.Fields{
		"totalAvailable":    rateLimits.Core.Limit,
		"remainingRequests": rateLimits.Core.Remaining,
	}).Debug("will setup local rate limiter with rate limits infos from github")

	limiter := newHourlyLimiter(rateLimits.Core.Limit)

	// consume the requests already used in the current window
	used := rateLimits.Core.Limit - rateLimits.Core.Remaining
	if used > 0 && !limiter.AllowN(time.Now(), used) {
		log.WithField("used", used).Warning("unable to sync the github rate limiter with remaining requests")
	}

	return limiter
}

// newHourlyLimiter refills limit requests per hour, all of them usable at once
func newHourlyLimiter(limit int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(time.Hour/time.Duration(limit)), limit)
}
