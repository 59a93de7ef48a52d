package model

import (
	"fmt"
	"strings"
	"time"
)

// visitTimeLayouts are the accepted textual timestamp formats at ingestion
var visitTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Visit is a single visit (reservation) model entity. Visits reference
// their customer by id only
type Visit struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	CustomerID string    `json:"customerId" bson:"customerId"`
	VisitedAt  time.Time `json:"visitedAt" bson:"visitedAt"`
	PartySize  int       `json:"partySize" bson:"partySize"`
}

// MonthCount is amount of visits registered within a single calendar month
type MonthCount struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Count int        `json:"count"`
}

// ParseVisitTime parses visit timestamp in one of the accepted layouts -
// ISO with T separator, with space separator or date-only
func ParseVisitTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range visitTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid visit timestamp %q", s)
}
