package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agrovia/agrovia/internal/auth"
	"github.com/agrovia/agrovia/internal/dashboard"
)

// dashboardStatsHandler serves the role-scoped statistics read model. The
// role gate runs before this handler; the aggregator rejects any leftover
// unsupported role before touching storage.
func dashboardStatsHandler(stats *dashboard.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := stats.Stats(c.Request.Context(), auth.CurrentUser(c))
		if err != nil {
			if err == dashboard.ErrUnsupportedRole {
				c.JSON(http.StatusForbidden, gin.H{"error": "role has no dashboard"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load dashboard"})
			return
		}
		c.JSON(http.StatusOK, st)
	}
}
