// Package quotes ranks the quotes collected for one RFQ.
package quotes

import (
	"sort"

	"supplierhub/models"
)

// Sort keys
const (
	SortPrice    = "price"
	SortLeadTime = "lead_time"
	SortMOQ      = "moq"
)

type Options struct {
	SortBy     string
	Descending bool
	// PendingOnly drops decided quotes from the rows.
	PendingOnly bool
}

// Row is one quote with its comparison badges.
type Row struct {
	models.RFQQuote
	LowestPrice      bool `json:"lowestPrice"`
	ShortestLeadTime bool `json:"shortestLeadTime"`
	LowestMOQ        bool `json:"lowestMoq"`
	Best             bool `json:"best"`
}

type Comparison struct {
	Rows        []Row    `json:"rows"`
	BestQuoteID string   `json:"bestQuoteId,omitempty"`
	MinPrice    *float64 `json:"minPrice,omitempty"`
	MinLeadTime *int     `json:"minLeadTime,omitempty"`
	MinMOQ      *int     `json:"minMoq,omitempty"`
	Pending     int      `json:"pending"`
}

// ValidSortKey reports whether key is one of the sortable columns.
func ValidSortKey(key string) bool {
	return key == SortPrice || key == SortLeadTime || key == SortMOQ
}

// Compare flags per-column minimums among pending quotes and picks the
// cheapest pending quote as best, ties going to the earliest in input order.
// The input slice is not modified.
func Compare(in []models.RFQQuote, opts Options) Comparison {
	var cmp Comparison

	var (
		minPrice float64
		minLead  int
		minMOQ   int
		best     = -1
	)
	for i, q := range in {
		if q.Status != models.QuoteStatusPending {
			continue
		}
		if cmp.Pending == 0 {
			minPrice, minLead, minMOQ = q.Price, q.LeadTimeDays, q.MOQUnits
			best = i
		} else {
			if q.Price < minPrice {
				minPrice = q.Price
				best = i
			}
			if q.LeadTimeDays < minLead {
				minLead = q.LeadTimeDays
			}
			if q.MOQUnits < minMOQ {
				minMOQ = q.MOQUnits
			}
		}
		cmp.Pending++
	}

	if cmp.Pending > 0 {
		cmp.MinPrice = &minPrice
		cmp.MinLeadTime = &minLead
		cmp.MinMOQ = &minMOQ
		cmp.BestQuoteID = in[best].ID
	}

	rows := make([]Row, 0, len(in))
	for i, q := range in {
		if opts.PendingOnly && q.Status != models.QuoteStatusPending {
			continue
		}
		r := Row{RFQQuote: q}
		if q.Status == models.QuoteStatusPending {
			r.LowestPrice = q.Price == minPrice
			r.ShortestLeadTime = q.LeadTimeDays == minLead
			r.LowestMOQ = q.MOQUnits == minMOQ
			r.Best = i == best
		}
		rows = append(rows, r)
	}

	Sort(rows, opts.SortBy, opts.Descending)
	cmp.Rows = rows
	return cmp
}

// Sort orders rows in place by key, price when key is unknown. The sort is
// stable so equal values keep their submission order.
func Sort(rows []Row, key string, desc bool) {
	less := func(a, b Row) bool { return a.Price < b.Price }
	switch key {
	case SortLeadTime:
		less = func(a, b Row) bool { return a.LeadTimeDays < b.LeadTimeDays }
	case SortMOQ:
		less = func(a, b Row) bool { return a.MOQUnits < b.MOQUnits }
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})
}
