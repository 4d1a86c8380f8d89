package analytics

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

const dateFormat = "2006-01-02"

// Params are the raw, caller-supplied filter parameters as they arrive on
// the query string. Empty string means "no constraint on this dimension".
type Params struct {
	DateFrom  string
	DateTo    string
	Status    string
	DPDBucket string
	State     string
	City      string
}

// ParamsFromQuery extracts filter params from URL query values
func ParamsFromQuery(q url.Values) Params {
	return Params{
		DateFrom:  q.Get("date_from"),
		DateTo:    q.Get("date_to"),
		Status:    q.Get("status"),
		DPDBucket: q.Get("dpd_bucket"),
		State:     q.Get("state"),
		City:      q.Get("city"),
	}
}

// Criteria is the validated selection predicate consumed by the aggregation
// engine. Nil pointer / empty string fields impose no constraint.
type Criteria struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Status   *domain.LoanStatus
	Bucket   *domain.DPDBucket
	State    string // case-insensitive exact match
	City     string // case-insensitive exact match
}

// BuildCriteria validates raw params into a Criteria. It rejects malformed
// input rather than clamping it: a reversed date range fails with
// domain.ErrInvalidRange and unknown enum values fail with an EnumError.
func BuildCriteria(p Params) (Criteria, error) {
	var c Criteria

	if p.DateFrom != "" {
		t, err := time.Parse(dateFormat, p.DateFrom)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid date_from %q: expected YYYY-MM-DD", p.DateFrom)
		}
		c.DateFrom = &t
	}

	if p.DateTo != "" {
		t, err := time.Parse(dateFormat, p.DateTo)
		if err != nil {
			return Criteria{}, fmt.Errorf("invalid date_to %q: expected YYYY-MM-DD", p.DateTo)
		}
		c.DateTo = &t
	}

	if c.DateFrom != nil && c.DateTo != nil && c.DateFrom.After(*c.DateTo) {
		return Criteria{}, domain.ErrInvalidRange
	}

	if p.Status != "" {
		status, err := domain.ParseLoanStatus(p.Status)
		if err != nil {
			return Criteria{}, err
		}
		c.Status = &status
	}

	if p.DPDBucket != "" {
		bucket, err := domain.ParseDPDBucket(p.DPDBucket)
		if err != nil {
			return Criteria{}, err
		}
		c.Bucket = &bucket
	}

	c.State = strings.TrimSpace(p.State)
	c.City = strings.TrimSpace(p.City)

	return c, nil
}

// Matches reports whether a record satisfies every present dimension
// (logical AND). The date dimension is inclusive on both ends against the
// record's application date.
func (c Criteria) Matches(rec domain.LoanRecord) bool {
	if c.DateFrom != nil && rec.ApplicationDate.Before(*c.DateFrom) {
		return false
	}
	if c.DateTo != nil && rec.ApplicationDate.After(*c.DateTo) {
		return false
	}
	if c.Status != nil && rec.Status != *c.Status {
		return false
	}
	if c.Bucket != nil && rec.Bucket() != *c.Bucket {
		return false
	}
	if c.State != "" && !strings.EqualFold(rec.State, c.State) {
		return false
	}
	if c.City != "" && !strings.EqualFold(rec.City, c.City) {
		return false
	}
	return true
}
