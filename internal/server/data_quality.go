package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	qualitydomain "github.com/hli122/salesops-analytics-db/internal/quality/domain"
	"github.com/shopspring/decimal"
)

func (s *Server) GetDataQuality(c *gin.Context) {
	assessment, tol, limit, ok := s.assess(c)
	if !ok {
		return
	}

	samples := assessment.Samples
	if samples == nil {
		samples = []qualitydomain.SampleRow{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  assessment.Status,
		"summary": assessment.Summary,
		"samples": samples,
		"notes": gin.H{
			"mismatch_rule": fmt.Sprintf("abs(line_total - round(unit_price*units,2)) > %s", tol),
			"sample_limit":  limit,
		},
	})
}

func (s *Server) GetDataQualitySamples(c *gin.Context) {
	assessment, _, limit, ok := s.assess(c)
	if !ok {
		return
	}

	samples := assessment.Samples
	if samples == nil {
		samples = []qualitydomain.SampleRow{}
	}

	c.JSON(http.StatusOK, gin.H{
		"start_date":   assessment.Summary.StartDate,
		"end_date":     assessment.Summary.EndDate,
		"sample_limit": limit,
		"samples":      samples,
	})
}

func (s *Server) assess(c *gin.Context) (qualitydomain.Assessment, decimal.Decimal, int, bool) {
	dateRange, err := parseDateRange(c)
	if err != nil {
		AbortWithError(c, err)
		return qualitydomain.Assessment{}, decimal.Decimal{}, 0, false
	}

	tol, err := parseBoundedFloat(c.Query("tol"), "tol",
		qualitydomain.DefaultTolerance, 0, qualitydomain.MaxTolerance)
	if err != nil {
		AbortWithError(c, err)
		return qualitydomain.Assessment{}, decimal.Decimal{}, 0, false
	}

	limit, err := parseBoundedInt(c.Query("limit"), "limit",
		qualitydomain.DefaultSampleLimit,
		qualitydomain.MinSampleLimit,
		qualitydomain.MaxSampleLimit,
	)
	if err != nil {
		AbortWithError(c, err)
		return qualitydomain.Assessment{}, decimal.Decimal{}, 0, false
	}

	tolerance := decimal.NewFromFloat(tol)
	assessment, err := s.qualitySvc.Assess(c.Request.Context(), qualitydomain.AssessRequest{
		Start:       dateRange.Start,
		End:         dateRange.End,
		Tolerance:   tolerance,
		SampleLimit: limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return qualitydomain.Assessment{}, decimal.Decimal{}, 0, false
	}

	return assessment, tolerance, limit, true
}
