// Package server exposes the record collections over REST. Every
// response carries the {success, data, error} envelope; handlers
// validate the tenant id before touching storage.
package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/pkg/utils"
	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondDeleted(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// companyIDFromQuery parses and validates the tenant id. On failure it
// writes the 400 response itself and returns false.
func companyIDFromQuery(c *gin.Context) (int64, bool) {
	raw := c.Query("company_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || utils.ValidateCompanyID(id) != nil {
		respondError(c, http.StatusBadRequest, "invalid company_id")
		return 0, false
	}
	return id, true
}

func recordIDFromPath(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid record id")
		return 0, false
	}
	return id, true
}

// listQueryFromRequest builds the server-side filters from the query
// string. The search term is lowercased here; repositories compare
// against lowered columns.
func listQueryFromRequest(c *gin.Context, companyID int64) repository.ListQuery {
	q := repository.ListQuery{
		CompanyID: companyID,
		Search:    strings.ToLower(strings.TrimSpace(c.Query("search"))),
		Status:    strings.TrimSpace(c.Query("status")),
	}
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			q.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			q.DateTo = &end
		}
	}
	return q
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
