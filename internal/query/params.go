// Package query turns listing search parameters into an immutable filter,
// sort and pagination description that each storage backend renders itself.
package query

import (
	"cmp"
	"net/url"
	"strconv"
	"strings"

	"listing-marketplace/internal/listingerrors"
	"listing-marketplace/internal/models"
)

const (
	DefaultLimit = 9
	DefaultSort  = "createdAt"
)

// sortable fields, keyed by their JSON name
var sortFields = map[string]bool{
	"createdAt":     true,
	"updatedAt":     true,
	"regularPrice":  true,
	"discountPrice": true,
	"name":          true,
	"bedrooms":      true,
	"bathrooms":     true,
}

// Params is a parsed listing search. A false boolean filter means "either value".
type Params struct {
	SearchTerm string
	Type       string // "" matches every type
	Offer      bool
	Furnished  bool
	Parking    bool
	Sort       string
	Desc       bool
	Limit      int
	StartIndex int
}

// Default returns the parameters of an empty search
func Default() Params {
	return Params{Sort: DefaultSort, Desc: true, Limit: DefaultLimit}
}

// Parse reads searchTerm, type, offer, furnished, parking, sort, order, limit and startIndex.
func Parse(values url.Values) (Params, error) {
	p := Default()
	p.SearchTerm = values.Get("searchTerm")

	switch t := values.Get("type"); t {
	case "", "all":
	case models.TypeSale, models.TypeRent:
		p.Type = t
	default:
		return Params{}, listingerrors.Validation("invalid listing type %q", t)
	}

	var err error
	if p.Offer, err = parseFlag(values, "offer"); err != nil {
		return Params{}, err
	}
	if p.Furnished, err = parseFlag(values, "furnished"); err != nil {
		return Params{}, err
	}
	if p.Parking, err = parseFlag(values, "parking"); err != nil {
		return Params{}, err
	}

	if s := values.Get("sort"); sortFields[s] {
		p.Sort = s
	}
	if strings.EqualFold(values.Get("order"), "asc") {
		p.Desc = false
	}

	if v, err := strconv.Atoi(values.Get("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if v, err := strconv.Atoi(values.Get("startIndex")); err == nil && v > 0 {
		p.StartIndex = v
	}
	return p, nil
}

// parseFlag implements the tri-state filter: only a true value restricts.
func parseFlag(values url.Values, key string) (bool, error) {
	raw := values.Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, listingerrors.Validation("invalid value %q for %s", raw, key)
	}
	return v, nil
}

// TotalPages is ceil(total/limit)
func (p Params) TotalPages(total int64) int {
	limit := int64(p.PageSize())
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return int(pages)
}

// CurrentPage is floor(startIndex/limit)+1
func (p Params) CurrentPage() int {
	return p.StartIndex/p.PageSize() + 1
}

// PageSize is the effective page length
func (p Params) PageSize() int {
	if p.Limit <= 0 {
		return DefaultLimit
	}
	return p.Limit
}

// Page assembles a ListingPage for the given result window
func (p Params) Page(listings []models.Listing, total int64) models.ListingPage {
	if listings == nil {
		listings = []models.Listing{}
	}
	return models.ListingPage{
		Listings:    listings,
		Total:       total,
		CurrentPage: p.CurrentPage(),
		TotalPages:  p.TotalPages(total),
	}
}

// Matches reports whether l satisfies the filter part of p
func (p Params) Matches(l models.Listing) bool {
	if p.SearchTerm != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(p.SearchTerm)) {
		return false
	}
	if p.Type != "" && l.Type != p.Type {
		return false
	}
	if p.Offer && !l.Offer {
		return false
	}
	if p.Furnished && !l.Furnished {
		return false
	}
	if p.Parking && !l.Parking {
		return false
	}
	return true
}

// Less orders a before b by the sort field, then by id ascending.
func (p Params) Less(a, b models.Listing) bool {
	c := compare(p.Sort, a, b)
	if c == 0 {
		return a.ID < b.ID
	}
	if p.Desc {
		return c > 0
	}
	return c < 0
}

func compare(field string, a, b models.Listing) int {
	switch field {
	case "updatedAt":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "regularPrice":
		return cmp.Compare(a.RegularPrice, b.RegularPrice)
	case "discountPrice":
		return cmp.Compare(a.DiscountPrice, b.DiscountPrice)
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "bedrooms":
		return cmp.Compare(a.Bedrooms, b.Bedrooms)
	case "bathrooms":
		return cmp.Compare(a.Bathrooms, b.Bathrooms)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
