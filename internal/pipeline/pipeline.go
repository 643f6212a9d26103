// Package pipeline wires the verification components into one runnable
// unit shared by the CLI commands and the HTTP server.
package pipeline

import (
	"context"
	"log"

	"github.com/rickdevqrz/veredicto/internal/fetch"
	"github.com/rickdevqrz/veredicto/internal/llm"
	"github.com/rickdevqrz/veredicto/internal/model"
	"github.com/rickdevqrz/veredicto/internal/safeurl"
	"github.com/rickdevqrz/veredicto/internal/search"
	"github.com/rickdevqrz/veredicto/internal/trust"
	"github.com/rickdevqrz/veredicto/internal/verify"
)

// Pipeline bundles the long-lived verification components. One instance
// is constructed at process start and owns all mutable state (cache,
// rate limiters, refresh tracking).
type Pipeline struct {
	Config     *model.Config
	Classifier *trust.Classifier
	Verifier   *verify.Verifier
	Fetcher    *fetch.ArticleFetcher
	Judge      llm.Provider // nil when no provider is configured
}

// New assembles a pipeline from configuration
func New(cfg *model.Config, logger *log.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = log.Default()
	}

	classifier := trust.NewClassifier(&cfg.Trust)
	checker := safeurl.NewChecker()

	primary := search.NewSerperBackend(cfg.Search.SerperAPIKey, cfg.Trust.Allowlist, cfg.Search.MaxResults, cfg.HTTP.Timeout)
	fallback := search.NewFeedBackend(classifier, &cfg.Search, &cfg.HTTP)
	enricher := fetch.NewEnricher(classifier, checker, &cfg.HTTP, &cfg.Search)

	judge, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Config:     cfg,
		Classifier: classifier,
		Verifier:   verify.New(cfg, classifier, primary, fallback, enricher, logger),
		Fetcher:    fetch.NewArticleFetcher(checker, &cfg.HTTP),
		Judge:      judge,
	}, nil
}

// VerifyContent runs article verification, consulting the judge when one
// is configured. Judge failures degrade silently to the search-only
// result.
func (p *Pipeline) VerifyContent(ctx context.Context, article model.Article) *model.Result {
	result := p.Verifier.VerifyContent(ctx, article)
	if p.Judge == nil {
		return result
	}
	jr, err := p.Judge.Judge(ctx, llm.JudgeRequest{Article: article, Sources: result.Sources})
	if err != nil {
		return result
	}
	return llm.MergeResult(result, jr)
}

// VerifyQuery runs query verification; the judge never applies here
func (p *Pipeline) VerifyQuery(ctx context.Context, query string) *model.Result {
	return p.Verifier.VerifyQuery(ctx, query)
}

// VerifyURL fetches an article and verifies its content
func (p *Pipeline) VerifyURL(ctx context.Context, rawURL string) (*model.Result, error) {
	article, err := p.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return p.VerifyContent(ctx, *article), nil
}
