package adminapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lledoind/aerotools/internal/app"
	"github.com/lledoind/aerotools/internal/domain"
	"github.com/lledoind/aerotools/internal/mailer"
	"github.com/lledoind/aerotools/internal/webserver"
	"github.com/lledoind/aerotools/pkg/common"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// registerQuoteRoutes registers the quote cart and submission routes
func registerQuoteRoutes() {
	webserver.ApiGET("/quote/items", listQuoteItems)
	webserver.ApiPOST("/quote/items", addQuoteItem)
	webserver.ApiPUT("/quote/items/quantity", updateQuoteQuantity)
	webserver.ApiDELETE("/quote/items", removeQuoteItem)
	webserver.ApiDELETE("/quote/clear", clearQuote)
	webserver.ApiGET("/quote/config", getQuoteConfig)
	webserver.ApiPOST("/quote/config", setQuoteConfig)
	webserver.ApiDELETE("/quote/config", clearQuoteConfig)
	webserver.ApiGET("/quote/stats", getQuoteStats)
	webserver.ApiGET("/quote/export", exportQuote)
	webserver.ApiPOST("/quote/import", importQuote)
	webserver.ApiGET("/quote/export/xlsx", exportQuoteXlsx)
	webserver.ApiPOST("/quote/submit", submitQuote)
}

func listQuoteItems(c echo.Context) error {
	qs := app.GApp().QuoteStore()
	if c.QueryParam("group") == "helicopter" {
		return ok(c, qs.ItemsByHelicopter())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":          0,
		"msg":           "ok",
		"data":          qs.Items(),
		"lineCount":     qs.LineCount(),
		"totalQuantity": qs.TotalQuantity(),
		"zoneCount":     qs.ZoneCount(c.QueryParam("helicopterId")),
	})
}

type addItemPayload struct {
	PartID       string `json:"partId" validate:"required"`
	HelicopterID string `json:"helicopterId" validate:"required"`
	ZoneID       string `json:"zoneId" validate:"required"`
	Quantity     int    `json:"quantity"`
}

// addQuoteItem resolves the selection against the compatibility catalog and
// merges it into the quote. The part snapshot is frozen at add time.
func addQuoteItem(c echo.Context) error {
	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quote item", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	gapp := app.GApp()
	cat := gapp.Catalog()

	heli, found := cat.Helicopter(payload.HelicopterID)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Helicopter not found", nil)
	}
	var zone domain.Zone
	zoneFound := false
	for _, z := range heli.Zones {
		if z.ID == payload.ZoneID {
			zone = z
			zoneFound = true
			break
		}
	}
	if !zoneFound {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Zone not found on helicopter", nil)
	}

	// Only parts declared compatible with the pair are accepted.
	var part domain.Part
	partFound := false
	for _, p := range cat.CompatibleParts(payload.HelicopterID, payload.ZoneID) {
		if p.ID == payload.PartID {
			part = p
			partFound = true
			break
		}
	}
	if !partFound {
		return fail(c, http.StatusConflict, "INCOMPATIBLE", "Part is not compatible with this helicopter zone", nil)
	}

	quantity := payload.Quantity
	if quantity < 1 {
		quantity = 1
	}
	maxQty := int(gapp.GetSettingsInt64Value("quote", "MaxLineQuantity"))
	if maxQty > 0 && quantity > maxQty {
		quantity = maxQty
	}

	gapp.QuoteStore().AddItem(domain.QuoteLine{
		Part: domain.PartSnapshot{
			ID:           part.ID,
			Slug:         part.Slug,
			Ref:          part.Ref,
			Name:         part.Name,
			Category:     part.Category,
			Availability: part.Availability,
			PriceDisplay: "SUR DEVIS",
		},
		HelicopterID:   heli.ID,
		HelicopterName: heli.Name,
		ZoneID:         zone.ID,
		ZoneName:       zone.Name,
		Quantity:       quantity,
	})
	return ok(c, gapp.QuoteStore().Items())
}

type quantityPayload struct {
	PartID   string `json:"partId" validate:"required"`
	ZoneID   string `json:"zoneId" validate:"required"`
	Quantity int    `json:"quantity"`
}

func updateQuoteQuantity(c echo.Context) error {
	var payload quantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity update", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	qs := app.GApp().QuoteStore()
	qs.UpdateQuantity(payload.PartID, payload.ZoneID, payload.Quantity)
	return ok(c, qs.Items())
}

func removeQuoteItem(c echo.Context) error {
	partID := c.QueryParam("partId")
	zoneID := c.QueryParam("zoneId")
	if partID == "" || zoneID == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "partId and zoneId are required", nil)
	}
	qs := app.GApp().QuoteStore()
	qs.RemoveItem(partID, zoneID)
	return ok(c, qs.Items())
}

func clearQuote(c echo.Context) error {
	app.GApp().QuoteStore().Clear()
	return ok(c, []domain.QuoteLine{})
}

func getQuoteConfig(c echo.Context) error {
	cfg, found := app.GApp().QuoteStore().CurrentConfig()
	if !found {
		return ok(c, nil)
	}
	return ok(c, cfg)
}

func setQuoteConfig(c echo.Context) error {
	var cfg domain.Configuration
	if err := c.Bind(&cfg); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse configuration", err.Error())
	}
	if _, found := app.GApp().Catalog().Helicopter(cfg.HelicopterID); !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Helicopter not found", nil)
	}
	app.GApp().QuoteStore().SetCurrentConfig(cfg)
	return ok(c, cfg)
}

func clearQuoteConfig(c echo.Context) error {
	app.GApp().QuoteStore().ClearCurrentConfig()
	return ok(c, nil)
}

func getQuoteStats(c echo.Context) error {
	return ok(c, app.GApp().QuoteStore().Statistics())
}

func exportQuote(c echo.Context) error {
	data, err := app.GApp().QuoteStore().ExportConfig()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export configuration", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="quote-config.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

func importQuote(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read configuration", err.Error())
	}
	qs := app.GApp().QuoteStore()
	if err := qs.ImportConfig(data); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_CONFIG", err.Error(), nil)
	}
	return ok(c, qs.Items())
}

// exportQuoteXlsx renders the quote as a spreadsheet for offline review.
func exportQuoteXlsx(c echo.Context) error {
	items := app.GApp().QuoteStore().Items()

	xlsx := excelize.NewFile()
	sheet := "Sheet1"
	headers := []string{"Ref", "Designation", "Categorie", "Helicoptere", "Zone", "Quantite", "Prix"}
	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		xlsx.SetCellValue(sheet, cell, h)
	}
	for row, line := range items {
		r := row + 2
		xlsx.SetCellValue(sheet, fmt.Sprintf("A%d", r), line.Part.Ref)
		xlsx.SetCellValue(sheet, fmt.Sprintf("B%d", r), line.Part.Name)
		xlsx.SetCellValue(sheet, fmt.Sprintf("C%d", r), line.Part.Category)
		xlsx.SetCellValue(sheet, fmt.Sprintf("D%d", r), line.HelicopterName)
		xlsx.SetCellValue(sheet, fmt.Sprintf("E%d", r), line.ZoneName)
		xlsx.SetCellValue(sheet, fmt.Sprintf("F%d", r), line.Quantity)
		xlsx.SetCellValue(sheet, fmt.Sprintf("G%d", r), line.Part.PriceDisplay)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="quote.xlsx"`)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return xlsx.Write(c.Response())
}

type submitPayload struct {
	Company string `json:"company" validate:"required,min=1,max=200"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=50"`
	Message string `json:"message" validate:"omitempty,max=5000"`
}

// submitQuote persists the quote request and notifies the sales inbox. The
// cart itself is left untouched so the requester keeps their working state.
func submitQuote(c echo.Context) error {
	var payload submitPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quote request", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	gapp := app.GApp()
	items := gapp.QuoteStore().SubmissionItems()
	if len(items) == 0 {
		return fail(c, http.StatusBadRequest, "EMPTY_QUOTE", "Cannot submit an empty quote", nil)
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "ENCODE_ERROR", "Failed to encode quote items", err.Error())
	}

	submission := domain.QuoteSubmission{
		ID:        common.UUIDint64(),
		Company:   payload.Company,
		Name:      payload.Name,
		Email:     payload.Email,
		Phone:     payload.Phone,
		Message:   payload.Message,
		Items:     string(itemsJSON),
		ItemCount: len(items),
		MailSent:  false,
		CreatedAt: time.Now(),
	}
	db := GetDB(c)
	if err := db.Create(&submission).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to record quote request", err.Error())
	}

	lines := make([]mailer.QuoteRequestLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, mailer.QuoteRequestLine{
			ID:           item.ID,
			Name:         item.Name,
			Category:     item.Category,
			Quantity:     item.Quantity,
			PriceDisplay: item.PriceDisplay,
		})
	}
	// MailSent flips only once the worker reports a successful delivery
	submissionID := submission.ID
	gapp.Mailer().SendQuoteRequest(mailer.QuoteRequest{
		Company: payload.Company,
		Name:    payload.Name,
		Email:   payload.Email,
		Phone:   payload.Phone,
		Message: payload.Message,
		Lines:   lines,
	}, func(delivered bool) {
		if !delivered {
			return
		}
		if err := db.Model(&domain.QuoteSubmission{}).
			Where("id = ?", submissionID).
			Update("mail_sent", true).Error; err != nil {
			zap.L().Warn("failed to record mail delivery",
				zap.Int64("submission", submissionID), zap.Error(err))
		}
	})

	zap.L().Info("quote request submitted",
		zap.String("company", payload.Company),
		zap.Int("items", len(items)))
	return ok(c, submission)
}
