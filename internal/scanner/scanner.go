// Package scanner runs the public quick scan: a places lookup scored with
// fixed heuristics, no model call.
package scanner

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/luxbiz/biz-optimizer/internal/places"
	"github.com/luxbiz/biz-optimizer/internal/platform/validation"
)

type PlacesProvider interface {
	SearchText(ctx context.Context, query string, max int) ([]places.Place, error)
	Details(ctx context.Context, placeID string) (*places.Place, error)
}

type Input struct {
	BusinessName string `validate:"required,max=200"`
	Location     string `validate:"required,max=200"`
}

type Signals struct {
	FoundOnMaps bool    `json:"foundOnMaps"`
	HasWebsite  bool    `json:"hasWebsite"`
	HasPhone    bool    `json:"hasPhone"`
	HasHours    bool    `json:"hasHours"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	PhotoCount  int     `json:"photoCount"`
}

type Result struct {
	BusinessName string   `json:"businessName"`
	Location     string   `json:"location"`
	MatchedName  string   `json:"matchedName,omitempty"`
	Address      string   `json:"address,omitempty"`
	MapsURL      string   `json:"mapsUrl,omitempty"`
	Signals      Signals  `json:"signals"`
	Score        int      `json:"score"`
	Tips         []string `json:"tips"`
}

type Scanner struct {
	places PlacesProvider
}

func New(p PlacesProvider) *Scanner {
	return &Scanner{places: p}
}

func (s *Scanner) Scan(ctx context.Context, in Input) (*Result, error) {
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.Location = strings.TrimSpace(in.Location)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	res := &Result{BusinessName: in.BusinessName, Location: in.Location}

	hits, err := s.places.SearchText(ctx, in.BusinessName+" "+in.Location, 1)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		res.Tips = tips(res.Signals)
		return res, nil
	}

	p, err := s.places.Details(ctx, hits[0].ID)
	if errors.Is(err, places.ErrPlaceNotFound) {
		p = &hits[0]
	} else if err != nil {
		return nil, err
	}

	res.MatchedName = p.Name
	res.Address = p.Address
	res.MapsURL = p.MapsURL
	res.Signals = Signals{
		FoundOnMaps: true,
		HasWebsite:  p.Website != "",
		HasPhone:    p.Phone != "",
		HasHours:    p.HasOpeningHours,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingCount,
		PhotoCount:  p.PhotoCount,
	}
	res.Score = Score(res.Signals)
	res.Tips = tips(res.Signals)
	return res, nil
}

// Score weighs the listing signals into 0-100.
func Score(s Signals) int {
	if !s.FoundOnMaps {
		return 0
	}
	score := 20.0
	if s.HasWebsite {
		score += 15
	}
	if s.HasPhone {
		score += 10
	}
	if s.HasHours {
		score += 15
	}
	score += math.Min(s.Rating, 5) / 5 * 15
	score += math.Min(float64(s.ReviewCount), 100) / 100 * 15
	score += math.Min(float64(s.PhotoCount), 10) / 10 * 10
	return int(math.Round(score))
}

func tips(s Signals) []string {
	if !s.FoundOnMaps {
		return []string{"Create and verify a Google Business Profile so maps and AI assistants can find you."}
	}
	out := []string{}
	if !s.HasWebsite {
		out = append(out, "Add your website to your Google Business Profile.")
	}
	if !s.HasPhone {
		out = append(out, "Add a phone number to your listing.")
	}
	if !s.HasHours {
		out = append(out, "Publish your opening hours.")
	}
	if s.ReviewCount < 50 {
		out = append(out, "Ask recent customers for reviews; competitors with more reviews get recommended first.")
	}
	if s.Rating > 0 && s.Rating < 4.2 {
		out = append(out, "Reply to critical reviews to lift your average rating.")
	}
	if s.PhotoCount < 10 {
		out = append(out, "Upload more photos of your storefront, team and work.")
	}
	return out
}
