package service

import (
	"context"
	"sync"

	"github.com/FlorianRuen/repo-insight/llm"
)

// fakeGenerator replies with a fixed text or error and records the prompts it received
type fakeGenerator struct {
	reply string
	err   error

	mu      sync.Mutex
	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, _ llm.Options) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.err != nil {
		return "", g.err
	}

	return g.reply, ctx.Err()
}

func (g *fakeGenerator) Name() string { return "fake" }
