package models

import (
	"time"
)

// SiteKind tells which population a site hosts.
type SiteKind string

const (
	KindRefugees  SiteKind = "refugees"
	KindReturnees SiteKind = "returnees"
)

// Valid reports whether k is a known kind.
func (k SiteKind) Valid() bool {
	return k == KindRefugees || k == KindReturnees
}

// Site is reference data managed outside the statistics subsystem.
type Site struct {
	ID   int64    `json:"id"`
	Name string   `json:"name"`
	Kind SiteKind `json:"kind"`
}

// StructuralStats is the single current snapshot of the province's
// population figures. It is overwritten in place on every save.
type StructuralStats struct {
	PopulationTotal int64     `json:"populationTotal"`
	DisabledTotal   int64     `json:"disabledTotal"`
	FloodAffected   int64     `json:"floodAffected"`
	FireAffected    int64     `json:"fireAffected"`
	VeryVulnerable  int64     `json:"veryVulnerable"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SiteTotals holds the cumulative head counts reported for a site.
// These are running totals, never monthly increments.
type SiteTotals struct {
	RefTotalInd int64 `json:"ref_total_ind"`
	RefTotalHH  int64 `json:"ref_total_hh"`
	RetTotalInd int64 `json:"ret_total_ind"`
	RetTotalHH  int64 `json:"ret_total_hh"`
}

// SiteDelta is the "new this month" figure derived from two successive
// SiteTotals. It is computed on read and never persisted.
type SiteDelta struct {
	RefNewInd int64 `json:"ref_new_ind"`
	RefNewHH  int64 `json:"ref_new_hh"`
	RetNewInd int64 `json:"ret_new_ind"`
	RetNewHH  int64 `json:"ret_new_hh"`
}

// DeltaFrom derives the monthly increase against the previous month's
// totals. Decreases floor at zero. Without a previous row the whole
// current total counts as new.
func (t SiteTotals) DeltaFrom(prev *SiteTotals) SiteDelta {
	if prev == nil {
		return SiteDelta{
			RefNewInd: t.RefTotalInd,
			RefNewHH:  t.RefTotalHH,
			RetNewInd: t.RetTotalInd,
			RetNewHH:  t.RetTotalHH,
		}
	}
	return SiteDelta{
		RefNewInd: positiveDiff(t.RefTotalInd, prev.RefTotalInd),
		RefNewHH:  positiveDiff(t.RefTotalHH, prev.RefTotalHH),
		RetNewInd: positiveDiff(t.RetTotalInd, prev.RetTotalInd),
		RetNewHH:  positiveDiff(t.RetTotalHH, prev.RetTotalHH),
	}
}

// positiveDiff returns max(cur-prev, 0).
func positiveDiff(cur, prev int64) int64 {
	if cur <= prev {
		return 0
	}
	return cur - prev
}

// SiteMonthlyStat is one site's totals for one month. (SiteID, Period) is unique.
type SiteMonthlyStat struct {
	SiteID int64 `json:"siteId"`
	Period
	SiteTotals
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReconciledSiteStat pairs a stored row with its derived delta.
type ReconciledSiteStat struct {
	SiteMonthlyStat
	Delta       SiteDelta `json:"delta"`
	HasPrevious bool      `json:"hasPrevious"`
}

// ProvinceMonthlyStat is the legacy province-wide monthly series. The New*
// fields are supplied by the caller and stored as given.
type ProvinceMonthlyStat struct {
	ID int64 `json:"id"`
	Period
	TotalRefugees  int64     `json:"totalRefugees"`
	NewRefugees    int64     `json:"newRefugees"`
	TotalReturnees int64     `json:"totalReturnees"`
	NewReturnees   int64     `json:"newReturnees"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TotalsSource names where a DisplayTotals value came from.
type TotalsSource string

const (
	SourceSites    TotalsSource = "sites"
	SourceProvince TotalsSource = "province"
	SourceNone     TotalsSource = "none"
)

// DisplayTotals are the headline figures shown on the public stats page.
type DisplayTotals struct {
	Period
	RefugeesTotal       int64        `json:"displayRefugeesTotal"`
	ReturneesTotal      int64        `json:"displayReturneesTotal"`
	RefugeesHouseholds  int64        `json:"displayRefugeesHouseholds"`
	ReturneesHouseholds int64        `json:"displayReturneesHouseholds"`
	SiteCount           int          `json:"siteCount"`
	Source              TotalsSource `json:"source"`
	FallbackPeriod      *Period      `json:"fallbackPeriod,omitempty"`
}

// SiteBreakdownRow is one line of the per-site detail view.
type SiteBreakdownRow struct {
	SiteID      int64    `json:"siteId"`
	Name        string   `json:"name"`
	Kind        SiteKind `json:"kind"`
	Individuals int64    `json:"individuals"`
	Households  int64    `json:"households"`
}
