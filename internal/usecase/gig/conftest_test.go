package gig

import (
	"context"
	"time"

	"github.com/kailas-cloud/gigmarket/internal/domain"
	domgig "github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/order"
	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	"github.com/kailas-cloud/gigmarket/internal/domain/user"
)

// --- Gig store ---

type mockGigs struct {
	gigs        map[uint]domgig.Gig
	nextID      uint
	active      int64
	titleTaken  bool
	err         error
	softDeleted []uint
	deleted     []uint
	visibility  map[uint]bool

	titleExclude uint
	criteria     domgig.Criteria
	browseArgs   [3]int
	randomLimit  int
	since        time.Time
	onlyVisible  *bool
}

func newMockGigs(gs ...domgig.Gig) *mockGigs {
	m := &mockGigs{gigs: map[uint]domgig.Gig{}, nextID: 100, visibility: map[uint]bool{}}
	for _, g := range gs {
		m.gigs[g.ID] = g
	}
	return m
}

func (m *mockGigs) Get(_ context.Context, id uint) (domgig.Gig, error) {
	if m.err != nil {
		return domgig.Gig{}, m.err
	}
	g, ok := m.gigs[id]
	if !ok {
		return domgig.Gig{}, domain.ErrGigNotFound
	}
	return g, nil
}

func (m *mockGigs) Create(_ context.Context, ownerID uint, f domgig.Fields) (domgig.Gig, error) {
	g := domgig.Gig{ID: m.nextID, OwnerID: ownerID, Fields: f, Visible: true}
	m.nextID++
	m.gigs[g.ID] = g
	return g, nil
}

func (m *mockGigs) Update(_ context.Context, id uint, f domgig.Fields) (domgig.Gig, error) {
	g := m.gigs[id]
	g.Fields = f
	m.gigs[id] = g
	return g, nil
}

func (m *mockGigs) SetVisibility(_ context.Context, id uint, visible bool) error {
	m.visibility[id] = visible
	return nil
}

func (m *mockGigs) SoftDelete(_ context.Context, id uint) error {
	m.softDeleted = append(m.softDeleted, id)
	return nil
}

func (m *mockGigs) Delete(_ context.Context, id uint) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockGigs) CountActiveByOwner(_ context.Context, _ uint) (int64, error) {
	return m.active, nil
}

func (m *mockGigs) TitleTaken(_ context.Context, _ uint, _ string, excludeID uint) (bool, error) {
	m.titleExclude = excludeID
	return m.titleTaken, nil
}

func (m *mockGigs) Search(_ context.Context, c domgig.Criteria) (domgig.Page, error) {
	m.criteria = c
	return domgig.Page{Page: c.Page, Limit: c.Limit}, m.err
}

func (m *mockGigs) Browse(_ context.Context, excludeOwner uint, page, limit int) (domgig.Page, error) {
	m.browseArgs = [3]int{int(excludeOwner), page, limit}
	return domgig.Page{Page: page, Limit: limit}, m.err
}

func (m *mockGigs) Random(_ context.Context, limit int) ([]domgig.Gig, int64, error) {
	m.randomLimit = limit
	return nil, int64(len(m.gigs)), m.err
}

func (m *mockGigs) Since(_ context.Context, t time.Time) ([]domgig.Gig, error) {
	m.since = t
	out := make([]domgig.Gig, 0, len(m.gigs))
	for _, g := range m.gigs {
		out = append(out, g)
	}
	return out, m.err
}

func (m *mockGigs) ListByOwner(_ context.Context, ownerID uint, onlyVisible bool) ([]domgig.Gig, error) {
	m.onlyVisible = &onlyVisible
	var out []domgig.Gig
	for _, g := range m.gigs {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, m.err
}

// --- Review store ---

type mockReviews struct {
	list       []review.Review
	gigSum     review.Summary
	ownerSum   review.Summary
	created    *review.Input
	listArgs   [2]int
	ownerAsked uint
}

func (m *mockReviews) List(_ context.Context, _ uint, offset, limit int) ([]review.Review, error) {
	m.listArgs = [2]int{offset, limit}
	return m.list, nil
}

func (m *mockReviews) Create(_ context.Context, gigID, reviewerID uint, in review.Input) (review.Review, error) {
	m.created = &in
	return review.Review{ID: 1, GigID: gigID, ReviewerID: reviewerID, Rating: in.Rating(), Text: in.Text()}, nil
}

func (m *mockReviews) SummaryForGig(_ context.Context, _ uint) (review.Summary, error) {
	return m.gigSum, nil
}

func (m *mockReviews) SummaryForOwner(_ context.Context, ownerID uint) (review.Summary, error) {
	m.ownerAsked = ownerID
	return m.ownerSum, nil
}

// --- Orders ---

type mockOrders struct {
	orders    []order.Order
	completed bool
}

func (m *mockOrders) ListByGig(_ context.Context, _ uint) ([]order.Order, error) {
	return m.orders, nil
}

func (m *mockOrders) HasCompleted(_ context.Context, _, _ uint) (bool, error) {
	return m.completed, nil
}

// --- Users ---

type mockUsers struct {
	users map[uint]user.User
}

func (m *mockUsers) Get(_ context.Context, id uint) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

// --- Fixture ---

const (
	sellerID uint = 1
	buyerID  uint = 2
)

type fixture struct {
	svc     *Service
	gigs    *mockGigs
	reviews *mockReviews
	orders  *mockOrders
	users   *mockUsers
}

func testRules() Rules {
	return Rules{
		MaxGigsPerUser: 5,
		PageSize:       12,
		MaxPageSize:    100,
		ReviewPageSize: 5,
		RandomLimit:    60,
		RecentWindow:   30 * 24 * time.Hour,
	}
}

func newFixture(gs ...domgig.Gig) *fixture {
	f := &fixture{
		gigs:    newMockGigs(gs...),
		reviews: &mockReviews{},
		orders:  &mockOrders{},
		users: &mockUsers{users: map[uint]user.User{
			sellerID: {ID: sellerID, Username: "seller", ProfileInfoSet: true, EmailConfirmed: true},
			buyerID:  {ID: buyerID, Username: "buyer"},
		}},
	}
	f.svc = New(f.gigs, f.reviews, f.orders, f.users, testRules())
	return f
}

func validFields() domgig.Fields {
	return domgig.Fields{
		Title:        "Logo design",
		Description:  "Vector logos",
		Category:     "Design & Creative",
		Price:        5000,
		DeliveryTime: 3,
		TimeUnit:     "days",
	}
}

func ownedGig() domgig.Gig {
	return domgig.Gig{ID: 10, OwnerID: sellerID, Fields: validFields(), Visible: true}
}
