package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/lledoind/aerotools/internal/domain"
	"github.com/lledoind/aerotools/internal/quote"
	"github.com/lledoind/aerotools/internal/webserver"
)

// registerSubmissionRoutes registers the quote submission review routes
func registerSubmissionRoutes() {
	webserver.ApiGET("/admin/submissions", listSubmissions)
	webserver.ApiGET("/admin/submissions/:id", getSubmission)
	webserver.ApiDELETE("/admin/submissions/:id", deleteSubmission)
}

func listSubmissions(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.QuoteSubmission{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("company ILIKE ? OR email ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(company) LIKE ? OR LOWER(email) LIKE ?", "%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}

	// Date filters accept any parseable format (2024-01-02, 02/01/2024, ...)
	if raw := strings.TrimSpace(c.QueryParam("from")); raw != "" {
		from, err := dateparse.ParseAny(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse 'from' date", raw)
		}
		db = db.Where("created_at >= ?", from)
	}
	if raw := strings.TrimSpace(c.QueryParam("to")); raw != "" {
		to, err := dateparse.ParseAny(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse 'to' date", raw)
		}
		db = db.Where("created_at <= ?", to)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query submissions", err.Error())
	}

	var rows []domain.QuoteSubmission
	if err := db.Order("created_at DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query submissions", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getSubmission(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid submission ID", nil)
	}

	var submission domain.QuoteSubmission
	if err := GetDB(c).Where("id = ?", id).First(&submission).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Submission not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query submission", err.Error())
	}

	// Decode the stored item list so the detail view gets structured lines.
	var items []quote.SubmissionItem
	if err := json.Unmarshal([]byte(submission.Items), &items); err != nil {
		items = nil
	}
	return ok(c, map[string]interface{}{
		"submission": submission,
		"items":      items,
	})
}

func deleteSubmission(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid submission ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.QuoteSubmission{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete submission", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
