package http

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// GET /api/reports/summary
func (s *Server) reportSummary(c *gin.Context) {
	summary, err := s.ledger.Summarize(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, summary)
}

// GET /api/reports/transactions?limit=N
func (s *Server) reportTransactions(c *gin.Context) {
	limit := 10
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(400, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	feed, err := s.ledger.RecentTransactions(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(200, feed)
}
