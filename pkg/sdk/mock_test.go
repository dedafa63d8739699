package gigmarket

import (
	"context"

	domgig "github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	domusage "github.com/kailas-cloud/gigmarket/internal/domain/usage"
	healthuc "github.com/kailas-cloud/gigmarket/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/gigmarket/internal/usecase/recommend"
)

// --- recommendUseCase mock ---

type mockRecommendUC struct {
	recommendFn func(ctx context.Context, prompt string) (recommenduc.Result, error)
}

func (m *mockRecommendUC) Recommend(ctx context.Context, prompt string) (recommenduc.Result, error) {
	return m.recommendFn(ctx, prompt)
}

// --- gigUseCase mock ---

type mockGigUC struct {
	getFn           func(ctx context.Context, gigID uint) (domgig.Detail, error)
	reviewsFn       func(ctx context.Context, gigID uint, page int) ([]review.Review, error)
	searchFn        func(ctx context.Context, c domgig.Criteria) (domgig.Page, error)
	randomFn        func(ctx context.Context, limit int) ([]domgig.Gig, int64, error)
	recentFn        func(ctx context.Context) (domgig.Recent, error)
	publicProfileFn func(ctx context.Context, userID uint) (domgig.Seller, error)
}

func (m *mockGigUC) Get(ctx context.Context, gigID uint) (domgig.Detail, error) {
	return m.getFn(ctx, gigID)
}

func (m *mockGigUC) Reviews(ctx context.Context, gigID uint, page int) ([]review.Review, error) {
	return m.reviewsFn(ctx, gigID, page)
}

func (m *mockGigUC) Search(ctx context.Context, c domgig.Criteria) (domgig.Page, error) {
	return m.searchFn(ctx, c)
}

func (m *mockGigUC) Random(ctx context.Context, limit int) ([]domgig.Gig, int64, error) {
	return m.randomFn(ctx, limit)
}

func (m *mockGigUC) Recent(ctx context.Context) (domgig.Recent, error) {
	return m.recentFn(ctx)
}

func (m *mockGigUC) PublicProfile(ctx context.Context, userID uint) (domgig.Seller, error) {
	return m.publicProfileFn(ctx, userID)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- usageUseCase mock ---

type mockUsageUC struct {
	report domusage.Report
}

func (m *mockUsageUC) GetReport(_ context.Context, _ domusage.Period) domusage.Report {
	return m.report
}

// --- Completer mock ---

type mockCompleter struct {
	fn func(ctx context.Context, req CompletionRequest) (Completion, error)
}

func (m *mockCompleter) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	return m.fn(ctx, req)
}

// --- helpers ---

func testClient(recommendSvc recommendUseCase, gigSvc gigUseCase) *Client {
	return &Client{
		recommendSvc: recommendSvc,
		gigSvc:       gigSvc,
	}
}
