package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gigmarket/internal/auth"
	"github.com/kailas-cloud/gigmarket/internal/domain"
	domgig "github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/order"
	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	"github.com/kailas-cloud/gigmarket/internal/domain/search/filter"
	"github.com/kailas-cloud/gigmarket/internal/domain/user"
	accountuc "github.com/kailas-cloud/gigmarket/internal/usecase/account"
	assistantuc "github.com/kailas-cloud/gigmarket/internal/usecase/assistant"
	giguc "github.com/kailas-cloud/gigmarket/internal/usecase/gig"
	healthuc "github.com/kailas-cloud/gigmarket/internal/usecase/health"
	recommenduc "github.com/kailas-cloud/gigmarket/internal/usecase/recommend"
	usageuc "github.com/kailas-cloud/gigmarket/internal/usecase/usage"
)

const testSecret = "test-secret"

// --- Mocks ---

type memUsers struct {
	mu     sync.Mutex
	byID   map[uint]user.User
	nextID uint
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[uint]user.User), nextID: 1}
}

func (m *memUsers) add(u user.User) user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = m.nextID
	}
	if u.ID >= m.nextID {
		m.nextID = u.ID + 1
	}
	m.byID[u.ID] = u
	return u
}

func (m *memUsers) Get(_ context.Context, id uint) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, domain.ErrUserNotFound
}

func (m *memUsers) Create(ctx context.Context, email, hash string) (user.User, error) {
	if _, err := m.GetByEmail(ctx, email); err == nil {
		return user.User{}, domain.ErrAlreadyExists
	}
	return m.add(user.User{Email: email, PasswordHash: hash, CreatedAt: time.Now()}), nil
}

func (m *memUsers) UpdateProfile(ctx context.Context, id uint, p user.Profile) (user.User, error) {
	u, err := m.Get(ctx, id)
	if err != nil {
		return user.User{}, err
	}
	u.Username, u.FullName = p.Username(), p.FullName()
	u.Description, u.ProfileImage = p.Description(), p.ProfileImage()
	u.ProfileInfoSet = true
	return m.add(u), nil
}

func (m *memUsers) UsernameTaken(_ context.Context, username string, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type memGigs struct {
	mu           sync.Mutex
	byID         map[uint]domgig.Gig
	nextID       uint
	lastCriteria domgig.Criteria
	lastExclude  uint
	lastLimit    int
}

func newMemGigs() *memGigs {
	return &memGigs{byID: make(map[uint]domgig.Gig), nextID: 1}
}

func (m *memGigs) put(g domgig.Gig) domgig.Gig {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID == 0 {
		g.ID = m.nextID
	}
	if g.ID >= m.nextID {
		m.nextID = g.ID + 1
	}
	m.byID[g.ID] = g
	return g
}

func (m *memGigs) sorted() []domgig.Gig {
	out := make([]domgig.Gig, 0, len(m.byID))
	for _, g := range m.byID {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memGigs) Get(_ context.Context, id uint) (domgig.Gig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.byID[id]
	if !ok {
		return domgig.Gig{}, domain.ErrGigNotFound
	}
	return g, nil
}

func (m *memGigs) Create(_ context.Context, ownerID uint, f domgig.Fields) (domgig.Gig, error) {
	now := time.Now()
	return m.put(domgig.Gig{OwnerID: ownerID, Fields: f, Visible: true, CreatedAt: now, UpdatedAt: now}), nil
}

func (m *memGigs) Update(ctx context.Context, id uint, f domgig.Fields) (domgig.Gig, error) {
	g, err := m.Get(ctx, id)
	if err != nil {
		return domgig.Gig{}, err
	}
	g.Fields = f
	g.UpdatedAt = time.Now()
	return m.put(g), nil
}

func (m *memGigs) SetVisibility(ctx context.Context, id uint, visible bool) error {
	g, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	g.Visible = visible
	m.put(g)
	return nil
}

func (m *memGigs) SoftDelete(ctx context.Context, id uint) error {
	g, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	g.Deleted = true
	m.put(g)
	return nil
}

func (m *memGigs) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
	return nil
}

func (m *memGigs) CountActiveByOwner(_ context.Context, ownerID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, g := range m.byID {
		if g.OwnerID == ownerID && !g.Deleted {
			n++
		}
	}
	return n, nil
}

func (m *memGigs) TitleTaken(_ context.Context, ownerID uint, title string, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.byID {
		if g.OwnerID == ownerID && g.ID != excludeID && !g.Deleted && strings.EqualFold(g.Title, title) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memGigs) Search(_ context.Context, c domgig.Criteria) (domgig.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCriteria = c
	var out []domgig.Gig
	for _, g := range m.sorted() {
		if g.Searchable() && (c.Term == "" || strings.Contains(strings.ToLower(g.Title), strings.ToLower(c.Term))) {
			out = append(out, g)
		}
	}
	return domgig.Page{Gigs: out, Total: int64(len(out)), Page: c.Page, Limit: c.Limit}, nil
}

func (m *memGigs) Browse(_ context.Context, excludeOwner uint, page, limit int) (domgig.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastExclude = excludeOwner
	var out []domgig.Gig
	for _, g := range m.sorted() {
		if g.Searchable() && g.OwnerID != excludeOwner {
			out = append(out, g)
		}
	}
	return domgig.Page{Gigs: out, Total: int64(len(out)), Page: page, Limit: limit}, nil
}

func (m *memGigs) Random(_ context.Context, limit int) ([]domgig.Gig, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	all := m.sorted()
	total := int64(len(all))
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *memGigs) Since(_ context.Context, t time.Time) ([]domgig.Gig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domgig.Gig
	for _, g := range m.sorted() {
		if g.Searchable() && !g.CreatedAt.Before(t) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memGigs) ListByOwner(_ context.Context, ownerID uint, onlyVisible bool) ([]domgig.Gig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domgig.Gig{}
	for _, g := range m.sorted() {
		if g.OwnerID != ownerID || g.Deleted || (onlyVisible && !g.Visible) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (m *memGigs) MatchListings(_ context.Context, _ filter.ListingQuery) ([]domgig.Gig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domgig.Gig
	for _, g := range m.sorted() {
		if g.Searchable() {
			out = append(out, g)
		}
	}
	return out, nil
}

type memSellers struct {
	sellers []domgig.Seller
	calls   int
}

func (m *memSellers) MatchSellers(_ context.Context, _ filter.UserQuery) ([]domgig.Seller, error) {
	m.calls++
	return m.sellers, nil
}

type memReviews struct {
	mu    sync.Mutex
	byGig map[uint][]review.Review
}

func (m *memReviews) List(_ context.Context, gigID uint, offset, limit int) ([]review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs := m.byGig[gigID]
	if offset >= len(rs) {
		return []review.Review{}, nil
	}
	end := min(offset+limit, len(rs))
	return rs[offset:end], nil
}

func (m *memReviews) Create(_ context.Context, gigID, reviewerID uint, in review.Input) (review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.byGig == nil {
		m.byGig = make(map[uint][]review.Review)
	}
	r := review.Review{
		ID:         uint(len(m.byGig[gigID]) + 1),
		GigID:      gigID,
		ReviewerID: reviewerID,
		Rating:     in.Rating(),
		Text:       in.Text(),
		CreatedAt:  time.Now(),
	}
	m.byGig[gigID] = append(m.byGig[gigID], r)
	return r, nil
}

func (m *memReviews) SummaryForGig(_ context.Context, gigID uint) (review.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, r := range m.byGig[gigID] {
		sum += int64(r.Rating)
	}
	return review.NewSummary(int64(len(m.byGig[gigID])), sum), nil
}

func (m *memReviews) SummaryForOwner(_ context.Context, _ uint) (review.Summary, error) {
	return review.Summary{}, nil
}

type memOrders struct {
	byGig     map[uint][]order.Order
	completed map[[2]uint]bool
}

func (m *memOrders) ListByGig(_ context.Context, gigID uint) ([]order.Order, error) {
	return m.byGig[gigID], nil
}

func (m *memOrders) HasCompleted(_ context.Context, buyerID, gigID uint) (bool, error) {
	return m.completed[[2]uint{buyerID, gigID}], nil
}

type fakeCompleter struct {
	text   string
	tokens int
	err    error
	last   domain.CompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req domain.CompletionRequest) (domain.Completion, error) {
	f.last = req
	if f.err != nil {
		return domain.Completion{}, f.err
	}
	return domain.Completion{Text: f.text, PromptTokens: f.tokens / 2, TotalTokens: f.tokens}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

// --- Fixture ---

type testEnv struct {
	handler   http.Handler
	tokens    *auth.Tokens
	users     *memUsers
	gigs      *memGigs
	sellers   *memSellers
	reviews   *memReviews
	orders    *memOrders
	completer *fakeCompleter
	budget    *assistantuc.BudgetTracker
	db        *fakePinger
}

const (
	sellerID = uint(1)
	buyerID  = uint(2)
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		tokens:    auth.NewTokens(testSecret, time.Hour),
		users:     newMemUsers(),
		gigs:      newMemGigs(),
		sellers:   &memSellers{},
		reviews:   &memReviews{},
		orders:    &memOrders{byGig: map[uint][]order.Order{}, completed: map[[2]uint]bool{}},
		completer: &fakeCompleter{},
		db:        &fakePinger{},
	}
	env.users.add(user.User{
		ID: sellerID, Email: "seller@example.com", Username: "seller", FullName: "Sam Seller",
		ProfileInfoSet: true, EmailConfirmed: true,
	})
	env.users.add(user.User{ID: buyerID, Email: "buyer@example.com", Username: "buyer", FullName: "Bo Buyer"})

	log := zap.NewNop()
	env.budget = assistantuc.NewBudgetTracker("openai", "test:", 0, 1000, assistantuc.BudgetActionReject, log)
	completer := assistantuc.NewInstrumentedCompleter(env.completer, "openai", env.budget, log)
	asst := assistantuc.New(completer, assistantuc.Profiles{
		Keywords: domain.TaskProfile{Task: domain.TaskKeywords, Model: "gpt-4o-mini", MaxTokens: 50},
		Chat:     domain.TaskProfile{Task: domain.TaskChat, Model: "gpt-3.5-turbo", MaxTokens: 100},
		Describe: domain.TaskProfile{Task: domain.TaskDescribe, Model: "gpt-3.5-turbo", MaxTokens: 150},
	})

	svc := Services{
		Accounts: accountuc.New(env.users, auth.NewPasswords(4), env.tokens),
		Gigs: giguc.New(env.gigs, env.reviews, env.orders, env.users, giguc.Rules{
			MaxGigsPerUser: 2,
			PageSize:       12,
			MaxPageSize:    100,
			ReviewPageSize: 5,
			RandomLimit:    60,
			RecentWindow:   30 * 24 * time.Hour,
		}),
		Recommend: recommenduc.New(asst, env.gigs, env.sellers),
		Assistant: asst,
		Usage:     usageuc.New(env.budget, 0.5),
		Health:    healthuc.New(env.db),
	}

	srv := NewServer(svc, env.tokens, "test", log)
	r := chi.NewRouter()
	srv.Mount(r)
	env.handler = r
	return env
}

func (e *testEnv) token(t *testing.T, userID uint) string {
	t.Helper()
	tok, err := e.tokens.Issue(userID, "")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) seedGig(owner uint, title, category string) domgig.Gig {
	now := time.Now()
	return e.gigs.put(domgig.Gig{
		OwnerID: owner,
		Fields: domgig.Fields{
			Title: title, Description: "desc", Category: category,
			Price: 100, DeliveryTime: 3, TimeUnit: "days", City: "Austin", State: "TX",
		},
		Visible:   true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, code ErrorCode) ErrorResponse {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, status, rr.Body.String())
	}
	resp := decodeBody[ErrorResponse](t, rr)
	if resp.Code != code {
		t.Errorf("code = %q, want %q", resp.Code, code)
	}
	return resp
}

func validGigRequest(title string) GigRequest {
	return GigRequest{
		Title:       title,
		Description: "Hand-drawn logos for small businesses.",
		Category:    "Design & Creative",
		Features:    []string{"vector files"},
		Price:       250,
		Revisions:   2,
		Time:        5,
		TimeUnit:    "days",
		City:        "Austin",
		State:       "TX",
	}
}
