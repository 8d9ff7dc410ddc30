package places

import (
	"errors"
	"strings"
)

var ErrPlaceNotFound = errors.New("place not found")

// Place is the subset of a Google Places record the product scores on.
type Place struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Address          string   `json:"address,omitempty"`
	PrimaryType      string   `json:"primary_type,omitempty"`
	Types            []string `json:"types,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	UserRatingCount  int      `json:"user_rating_count,omitempty"`
	Website          string   `json:"website,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	BusinessStatus   string   `json:"business_status,omitempty"`
	MapsURL          string   `json:"maps_url,omitempty"`
	HasOpeningHours  bool     `json:"has_opening_hours"`
	WeekdayHours     []string `json:"weekday_hours,omitempty"`
	PhotoCount       int      `json:"photo_count"`
	EditorialSummary string   `json:"editorial_summary,omitempty"`
}

// Summary is a one-line description used inside prompts.
func (p Place) Summary() string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Address != "" {
		b.WriteString(" (" + p.Address + ")")
	}
	if p.Rating > 0 {
		b.WriteString(", rating ")
		b.WriteString(trimFloat(p.Rating))
		b.WriteString(" from ")
		b.WriteString(itoa(p.UserRatingCount))
		b.WriteString(" reviews")
	}
	if p.Website != "" {
		b.WriteString(", website " + p.Website)
	}
	return b.String()
}

// wire types of the Places API v1

type apiText struct {
	Text string `json:"text"`
}

type apiPlace struct {
	ID                       string   `json:"id"`
	DisplayName              apiText  `json:"displayName"`
	FormattedAddress         string   `json:"formattedAddress"`
	PrimaryType              string   `json:"primaryType"`
	Types                    []string `json:"types"`
	Rating                   float64  `json:"rating"`
	UserRatingCount          int      `json:"userRatingCount"`
	WebsiteURI               string   `json:"websiteUri"`
	NationalPhoneNumber      string   `json:"nationalPhoneNumber"`
	BusinessStatus           string   `json:"businessStatus"`
	GoogleMapsURI            string   `json:"googleMapsUri"`
	EditorialSummary         *apiText `json:"editorialSummary"`
	RegularOpeningHours      *struct {
		WeekdayDescriptions []string `json:"weekdayDescriptions"`
	} `json:"regularOpeningHours"`
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
}

func (a apiPlace) toPlace() Place {
	p := Place{
		ID:              a.ID,
		Name:            a.DisplayName.Text,
		Address:         a.FormattedAddress,
		PrimaryType:     a.PrimaryType,
		Types:           a.Types,
		Rating:          a.Rating,
		UserRatingCount: a.UserRatingCount,
		Website:         a.WebsiteURI,
		Phone:           a.NationalPhoneNumber,
		BusinessStatus:  a.BusinessStatus,
		MapsURL:         a.GoogleMapsURI,
		PhotoCount:      len(a.Photos),
	}
	if a.RegularOpeningHours != nil {
		p.HasOpeningHours = true
		p.WeekdayHours = a.RegularOpeningHours.WeekdayDescriptions
	}
	if a.EditorialSummary != nil {
		p.EditorialSummary = a.EditorialSummary.Text
	}
	return p
}

type searchTextRequest struct {
	TextQuery string `json:"textQuery"`
	PageSize  int    `json:"pageSize,omitempty"`
}

type searchTextResponse struct {
	Places []apiPlace `json:"places"`
}
