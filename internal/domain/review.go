package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Rating is a star rating from 1 to 5.
// Any other value (0 included) is treated as invalid and excluded from
// rating-based aggregates, but the review still counts for text scanning.
type Rating int

const (
	MinRating Rating = 1
	MaxRating Rating = 5
)

// Valid reports whether the rating is inside [1,5].
func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

// UnmarshalJSON accepts numbers and numeric strings coming from scrapers.
// Non-integral or non-numeric input becomes an invalid rating instead of failing
// the whole payload.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*r = 0
			return nil
		}
		raw = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		*r = 0
		return nil
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		*r = 0
		return nil
	}

	*r = Rating(f)
	return nil
}

// ReviewResponse is the owner's reply to a review.
// Only its presence matters for scoring; the content is never analyzed.
type ReviewResponse struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

// Review is one customer review of an agency, as handed over by the reviews
// collaborator (Google, Apify or seed data).
type Review struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Rating Rating `json:"rating"`

	// Text may be empty; a missing JSON field decodes to "".
	Text string `json:"text"`

	// Date is ISO-8601 in practice, but unparseable values are tolerated.
	Date string `json:"date"`

	Response *ReviewResponse `json:"response,omitempty"`
}

// HasResponse reports whether the business replied.
func (r Review) HasResponse() bool {
	return r.Response != nil
}

// IsComplaint reports whether the review is a complaint (1 or 2 stars).
func (r Review) IsComplaint() bool {
	return r.Rating.Valid() && r.Rating <= 2
}
