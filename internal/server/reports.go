package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reportingdomain "github.com/hli122/salesops-analytics-db/internal/reporting/domain"
)

func (s *Server) GetWeeklySummary(c *gin.Context) {
	dateRange, err := parseDateRange(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summary, err := s.reportingSvc.WeeklySummary(c.Request.Context(), dateRange)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (s *Server) GetSellerRanking(c *gin.Context) {
	dateRange, err := parseDateRange(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	sellers, err := s.reportingSvc.SellerRanking(c.Request.Context(), dateRange)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if sellers == nil {
		sellers = []reportingdomain.SellerStat{}
	}

	c.JSON(http.StatusOK, gin.H{
		"start_date": dateRange.Start.Format(dateOnlyLayout),
		"end_date":   dateRange.End.Format(dateOnlyLayout),
		"sellers":    sellers,
	})
}

func (s *Server) GetTopProducts(c *gin.Context) {
	dateRange, err := parseDateRange(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	limit, err := parseBoundedInt(c.Query("limit"), "limit",
		reportingdomain.DefaultTopProductsLimit,
		reportingdomain.MinTopProductsLimit,
		reportingdomain.MaxTopProductsLimit,
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	products, err := s.reportingSvc.TopProducts(c.Request.Context(), dateRange, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if products == nil {
		products = []reportingdomain.ProductStat{}
	}

	c.JSON(http.StatusOK, gin.H{
		"start_date":   dateRange.Start.Format(dateOnlyLayout),
		"end_date":     dateRange.End.Format(dateOnlyLayout),
		"limit":        limit,
		"top_products": products,
	})
}

func (s *Server) GetShippingBreakdown(c *gin.Context) {
	dateRange, err := parseDateRange(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	companies, err := s.reportingSvc.ShippingBreakdown(c.Request.Context(), dateRange)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if companies == nil {
		companies = []reportingdomain.ShippingStat{}
	}

	c.JSON(http.StatusOK, gin.H{
		"start_date":         dateRange.Start.Format(dateOnlyLayout),
		"end_date":           dateRange.End.Format(dateOnlyLayout),
		"shipping_companies": companies,
	})
}
