package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/provdelegation/portal/api/internal/middleware"
	"github.com/provdelegation/portal/api/internal/models"
	"github.com/provdelegation/portal/api/internal/services"
)

// StatsHandler handles the statistics endpoints.
type StatsHandler struct {
	service services.StatsService
}

// NewStatsHandler creates a new StatsHandler instance.
func NewStatsHandler(service services.StatsService) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

// PeriodQuery is the month/year pair carried in query strings.
type PeriodQuery struct {
	Month string `form:"month" binding:"required,month"`
	Year  int    `form:"year" binding:"required,min=2020,max=2100"`
}

func (q PeriodQuery) period() (models.Period, error) {
	return models.NewPeriod(q.Month, q.Year)
}

// BreakdownQuery selects the per-site detail view.
type BreakdownQuery struct {
	Month string `form:"month" binding:"required,month"`
	Year  int    `form:"year" binding:"required,min=2020,max=2100"`
	Kind  string `form:"kind" binding:"required,oneof=refugees returnees"`
}

// HistoryQuery bounds the province history. Zero or absent returns everything.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// SitesQuery optionally filters sites by kind.
type SitesQuery struct {
	Kind string `form:"kind" binding:"omitempty,oneof=refugees returnees"`
}

// SiteStatItem is one site's totals in a save request.
type SiteStatItem struct {
	SiteID      int64        `json:"siteId" binding:"required,gt=0"`
	RefTotalInd models.Count `json:"ref_total_ind"`
	RefTotalHH  models.Count `json:"ref_total_hh"`
	RetTotalInd models.Count `json:"ret_total_ind"`
	RetTotalHH  models.Count `json:"ret_total_hh"`
}

// SaveSiteStatsRequest is the body of POST /api/v1/stats/sites.
type SaveSiteStatsRequest struct {
	Month string         `json:"month" binding:"required,month"`
	Year  int            `json:"year" binding:"required,min=2020,max=2100"`
	Items []SiteStatItem `json:"items" binding:"dive"`
}

// SaveProvinceStatsRequest is the body of POST /api/v1/stats/province.
type SaveProvinceStatsRequest struct {
	Month          string       `json:"month" binding:"required,month"`
	Year           int          `json:"year" binding:"required,min=2020,max=2100"`
	TotalRefugees  models.Count `json:"totalRefugees"`
	NewRefugees    models.Count `json:"newRefugees"`
	TotalReturnees models.Count `json:"totalReturnees"`
	NewReturnees   models.Count `json:"newReturnees"`
}

// SaveStructuralStatsRequest is the body of POST /api/v1/stats/structural.
// Absent fields decode to 0.
type SaveStructuralStatsRequest struct {
	PopulationTotal models.Count `json:"populationTotal"`
	DisabledTotal   models.Count `json:"disabledTotal"`
	FloodAffected   models.Count `json:"floodAffected"`
	FireAffected    models.Count `json:"fireAffected"`
	VeryVulnerable  models.Count `json:"veryVulnerable"`
}

// GetStructural handles GET /api/v1/stats/structural.
// Responds with null when nothing has been saved yet.
func (h *StatsHandler) GetStructural(c *gin.Context) {
	stats, err := h.service.GetStructuralStats(c.Request.Context())
	if err != nil {
		serviceFailed(c, err, "Failed to load structural statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SaveStructural handles POST /api/v1/stats/structural.
func (h *StatsHandler) SaveStructural(c *gin.Context) {
	var req SaveStructuralStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "Invalid structural statistics payload")
		return
	}

	saved, err := h.service.SaveStructuralStats(c.Request.Context(), services.StructuralStatsInput{
		PopulationTotal: req.PopulationTotal,
		DisabledTotal:   req.DisabledTotal,
		FloodAffected:   req.FloodAffected,
		FireAffected:    req.FireAffected,
		VeryVulnerable:  req.VeryVulnerable,
	})
	if err != nil {
		serviceFailed(c, err, "Failed to save structural statistics")
		return
	}

	c.JSON(http.StatusOK, saved)
}

// ListProvince handles GET /api/v1/stats/province.
func (h *StatsHandler) ListProvince(c *gin.Context) {
	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err, "Invalid query parameters")
		return
	}

	history, err := h.service.ListMonthlyHistory(c.Request.Context(), q.Limit)
	if err != nil {
		serviceFailed(c, err, "Failed to load province statistics")
		return
	}

	c.JSON(http.StatusOK, history)
}

// SaveProvince handles POST /api/v1/stats/province. This is the legacy
// path; the new* figures are stored exactly as sent.
func (h *StatsHandler) SaveProvince(c *gin.Context) {
	var req SaveProvinceStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "Invalid province statistics payload")
		return
	}

	period, err := models.NewPeriod(req.Month, req.Year)
	if err != nil {
		serviceFailed(c, err, "Invalid period")
		return
	}

	saved, err := h.service.SaveProvinceMonthlyStats(c.Request.Context(), services.ProvinceStatInput{
		Period:         period,
		TotalRefugees:  req.TotalRefugees,
		NewRefugees:    req.NewRefugees,
		TotalReturnees: req.TotalReturnees,
		NewReturnees:   req.NewReturnees,
	})
	if err != nil {
		serviceFailed(c, err, "Failed to save province statistics")
		return
	}

	c.Header("Deprecation", "true")
	c.JSON(http.StatusOK, saved)
}

// ListSiteStats handles GET /api/v1/stats/sites?month=MM&year=YYYY.
// A period with no saved rows yields [].
func (h *StatsHandler) ListSiteStats(c *gin.Context) {
	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err, "Invalid query parameters")
		return
	}

	period, err := q.period()
	if err != nil {
		serviceFailed(c, err, "Invalid period")
		return
	}

	stats, err := h.service.GetSiteMonthlyStats(c.Request.Context(), period)
	if err != nil {
		serviceFailed(c, err, "Failed to load site statistics")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SaveSiteStats handles POST /api/v1/stats/sites.
func (h *StatsHandler) SaveSiteStats(c *gin.Context) {
	var req SaveSiteStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err, "Invalid site statistics payload")
		return
	}

	period, err := models.NewPeriod(req.Month, req.Year)
	if err != nil {
		serviceFailed(c, err, "Invalid period")
		return
	}

	items := make([]services.SiteStatInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.SiteStatInput{
			SiteID:      item.SiteID,
			RefTotalInd: item.RefTotalInd,
			RefTotalHH:  item.RefTotalHH,
			RetTotalInd: item.RetTotalInd,
			RetTotalHH:  item.RetTotalHH,
		})
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Saving site monthly stats", map[string]interface{}{
			"month": req.Month,
			"year":  req.Year,
			"items": len(items),
		})
	}

	result, err := h.service.SaveMonthlySiteStats(c.Request.Context(), period, items)
	if err != nil {
		serviceFailed(c, err, "Failed to save site statistics")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Totals handles GET /api/v1/stats/totals?month=MM&year=YYYY.
func (h *StatsHandler) Totals(c *gin.Context) {
	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err, "Invalid query parameters")
		return
	}

	period, err := q.period()
	if err != nil {
		serviceFailed(c, err, "Invalid period")
		return
	}

	totals, err := h.service.GetDisplayTotals(c.Request.Context(), period)
	if err != nil {
		serviceFailed(c, err, "Failed to compute display totals")
		return
	}

	c.JSON(http.StatusOK, totals)
}

// Breakdown handles GET /api/v1/stats/breakdown?month=MM&year=YYYY&kind=refugees.
func (h *StatsHandler) Breakdown(c *gin.Context) {
	var q BreakdownQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err, "Invalid query parameters")
		return
	}

	period, err := models.NewPeriod(q.Month, q.Year)
	if err != nil {
		serviceFailed(c, err, "Invalid period")
		return
	}

	rows, err := h.service.GetSiteBreakdown(c.Request.Context(), period, models.SiteKind(q.Kind))
	if err != nil {
		serviceFailed(c, err, "Failed to load site breakdown")
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ListSites handles GET /api/v1/sites.
func (h *StatsHandler) ListSites(c *gin.Context) {
	var q SitesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err, "Invalid query parameters")
		return
	}

	sites, err := h.service.ListSites(c.Request.Context(), models.SiteKind(q.Kind))
	if err != nil {
		serviceFailed(c, err, "Failed to load sites")
		return
	}

	c.JSON(http.StatusOK, sites)
}
