package gigmarket

import (
	domgig "github.com/kailas-cloud/gigmarket/internal/domain/gig"
	"github.com/kailas-cloud/gigmarket/internal/domain/review"
	"github.com/kailas-cloud/gigmarket/internal/domain/user"
	recommenduc "github.com/kailas-cloud/gigmarket/internal/usecase/recommend"
)

func fromInternalUser(u user.User) User {
	return User{
		ID:           u.ID,
		Username:     u.Username,
		FullName:     u.FullName,
		Description:  u.Description,
		ProfileImage: u.ProfileImage,
	}
}

func fromInternalGig(g domgig.Gig) Gig {
	out := Gig{
		ID:           g.ID,
		OwnerID:      g.OwnerID,
		Title:        g.Title,
		Description:  g.Description,
		ShortDesc:    g.ShortDesc,
		Category:     g.Category,
		Features:     append([]string{}, g.Features...),
		Price:        g.Price,
		Revisions:    g.Revisions,
		DeliveryTime: g.DeliveryTime,
		TimeUnit:     g.TimeUnit,
		City:         g.City,
		State:        g.State,
		Images:       append([]string{}, g.Images...),
		CreatedAt:    g.CreatedAt,
	}
	if g.Owner != nil {
		owner := fromInternalUser(*g.Owner)
		out.Owner = &owner
	}
	return out
}

func fromInternalGigs(gs []domgig.Gig) []Gig {
	out := make([]Gig, len(gs))
	for i, g := range gs {
		out[i] = fromInternalGig(g)
	}
	return out
}

func fromInternalSeller(s domgig.Seller) Seller {
	return Seller{User: fromInternalUser(s.User), Gigs: fromInternalGigs(s.Gigs)}
}

func fromInternalReviews(rs []review.Review) []Review {
	out := make([]Review, len(rs))
	for i, r := range rs {
		out[i] = Review{ID: r.ID, Rating: r.Rating, Text: r.Text, CreatedAt: r.CreatedAt}
		if r.Reviewer != nil {
			u := fromInternalUser(*r.Reviewer)
			out[i].Reviewer = &u
		}
	}
	return out
}

func fromInternalRating(s review.Summary) Rating {
	return Rating{Count: s.Count, Average: s.Average}
}

func fromInternalDetail(d domgig.Detail) GigDetail {
	return GigDetail{
		Gig:          fromInternalGig(d.Gig),
		Reviews:      fromInternalReviews(d.Reviews),
		Rating:       fromInternalRating(d.GigRating),
		SellerRating: fromInternalRating(d.SellerRating),
	}
}

func fromInternalPage(p domgig.Page) GigPage {
	return GigPage{
		Gigs:       fromInternalGigs(p.Gigs),
		Total:      p.Total,
		Page:       p.Page,
		TotalPages: p.TotalPages(),
	}
}

func fromInternalRecent(r domgig.Recent) RecentGigs {
	out := RecentGigs{All: fromInternalGigs(r.All), Buckets: make(map[string][]Gig, len(r.Buckets))}
	for b, gs := range r.Buckets {
		out.Buckets[string(b)] = fromInternalGigs(gs)
	}
	return out
}

func fromInternalRecommendation(r recommenduc.Result) Recommendation {
	sellers := make([]Seller, len(r.Sellers))
	for i, s := range r.Sellers {
		sellers[i] = fromInternalSeller(s)
	}
	return Recommendation{
		Keywords: append([]string{}, r.Keywords...),
		Gigs:     fromInternalGigs(r.Gigs),
		Sellers:  sellers,
	}
}

func toInternalCriteria(q SearchQuery) domgig.Criteria {
	return domgig.Criteria{
		Term:      q.Term,
		Category:  q.Category,
		MinBudget: q.MinBudget,
		MaxBudget: q.MaxBudget,
		MinTime:   q.MinTime,
		MaxTime:   q.MaxTime,
		City:      q.City,
		State:     q.State,
		From:      q.From,
		Page:      q.Page,
		Limit:     q.Limit,
	}
}
