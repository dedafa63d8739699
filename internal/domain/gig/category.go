package gig

// Bucket groups related categories on the landing page.
type Bucket string

// Landing page buckets.
const (
	BucketSoftware     Bucket = "software"
	BucketProfessional Bucket = "professional"
	BucketCreative     Bucket = "creative"
	BucketArtisan      Bucket = "artisan"
)

var bucketCategories = map[Bucket][]string{
	BucketSoftware:     {"Software Developer", "Data & AI"},
	BucketProfessional: {"Photography", "Digital Marketing", "Writing & Translation"},
	BucketCreative:     {"Design & Creative", "Video & Animation", "Music & Audio", "Decoration", "Fashion & Beauty"},
	BucketArtisan:      {"Handyman", "Builders"},
}

// Buckets lists buckets in display order.
func Buckets() []Bucket {
	return []Bucket{BucketSoftware, BucketProfessional, BucketCreative, BucketArtisan}
}

// Categories returns the categories of b.
func (b Bucket) Categories() []string {
	return append([]string(nil), bucketCategories[b]...)
}

// Recent is the landing page feed: all recent gigs and the same gigs grouped by bucket.
type Recent struct {
	All     []Gig
	Buckets map[Bucket][]Gig
}

// GroupRecent sorts gigs into buckets by category. Gigs keep their order; a
// gig whose category belongs to no bucket only appears in All.
func GroupRecent(gigs []Gig) Recent {
	index := make(map[string]Bucket)
	for b, cats := range bucketCategories {
		for _, c := range cats {
			index[c] = b
		}
	}

	r := Recent{All: gigs, Buckets: make(map[Bucket][]Gig, len(bucketCategories))}
	for _, b := range Buckets() {
		r.Buckets[b] = []Gig{}
	}
	for _, g := range gigs {
		if b, ok := index[g.Category]; ok {
			r.Buckets[b] = append(r.Buckets[b], g)
		}
	}
	return r
}
