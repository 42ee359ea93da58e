package adminapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/lledoind/aerotools/internal/app"
	"github.com/lledoind/aerotools/internal/domain"
	"github.com/lledoind/aerotools/internal/shop"
	"github.com/lledoind/aerotools/internal/webserver"
)

// registerShopAdminRoutes registers the operator catalog management routes
func registerShopAdminRoutes() {
	webserver.ApiGET("/admin/products", adminListProducts)
	webserver.ApiGET("/admin/products/template", adminProductTemplate)
	webserver.ApiPOST("/admin/products", adminCreateProduct)
	webserver.ApiPUT("/admin/products/:id", adminUpdateProduct)
	webserver.ApiDELETE("/admin/products/:id", adminDeleteProduct)
	webserver.ApiPOST("/admin/products/:id/duplicate", adminDuplicateProduct)
	webserver.ApiPOST("/admin/products/:id/reorder", adminReorderProduct)
	webserver.ApiPOST("/admin/products/import", adminImportProducts)
	webserver.ApiGET("/admin/products/export", adminExportProducts)
	webserver.ApiGET("/admin/products/export/csv", adminExportProductsCSV)
	webserver.ApiPOST("/admin/products/reset", adminResetProducts)
}

func adminListProducts(c echo.Context) error {
	return ok(c, app.GApp().ShopStore().Products())
}

// adminProductTemplate returns the prefilled template for the creation form.
func adminProductTemplate(c echo.Context) error {
	return ok(c, domain.EmptyShopProduct())
}

func adminCreateProduct(c echo.Context) error {
	var p domain.ShopProduct
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if p.Slug == "" && p.Name != "" {
		p.Slug = shop.GenerateSlug(p.Name)
	}
	if verrs := shop.ValidateProduct(p); len(verrs) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Product validation failed", verrs)
	}
	created := app.GApp().ShopStore().AddProduct(p)
	return ok(c, created)
}

func adminUpdateProduct(c echo.Context) error {
	id := c.Param("id")
	var p domain.ShopProduct
	if err := c.Bind(&p); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if verrs := shop.ValidateProduct(p); len(verrs) > 0 {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Product validation failed", verrs)
	}
	if !app.GApp().ShopStore().UpdateProduct(id, p) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	p.ID = id
	return ok(c, p)
}

func adminDeleteProduct(c echo.Context) error {
	id := c.Param("id")
	if !app.GApp().ShopStore().DeleteProduct(id) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func adminDuplicateProduct(c echo.Context) error {
	copied, found := app.GApp().ShopStore().DuplicateProduct(c.Param("id"))
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, copied)
}

type reorderPayload struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

func adminReorderProduct(c echo.Context) error {
	var payload reorderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse reorder request", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	moved, found := app.GApp().ShopStore().ReorderProduct(c.Param("id"), payload.Direction)
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	// at the list edge the reorder is a legal no-op
	return ok(c, map[string]interface{}{"id": c.Param("id"), "direction": payload.Direction, "moved": moved})
}

// adminImportProducts replaces the whole catalog with an uploaded snapshot.
func adminImportProducts(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read snapshot", err.Error())
	}
	if err := app.GApp().ShopStore().ImportJSON(data); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_SNAPSHOT", err.Error(), nil)
	}
	return ok(c, map[string]interface{}{"count": len(app.GApp().ShopStore().Products())})
}

func adminExportProducts(c echo.Context) error {
	data, err := app.GApp().ShopStore().ExportJSON()
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export catalog", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// productCSVRow flattens a product for spreadsheet export.
type productCSVRow struct {
	ID           string `csv:"id"`
	Slug         string `csv:"slug"`
	Name         string `csv:"name"`
	Category     string `csv:"category"`
	PriceDisplay string `csv:"price_display"`
	PriceRange   string `csv:"price_range"`
	Material     string `csv:"material"`
	InStock      bool   `csv:"in_stock"`
	IsNew        bool   `csv:"is_new"`
	IsFeatured   bool   `csv:"is_featured"`
	LeadTime     string `csv:"lead_time"`
	Usage        string `csv:"usage"`
}

func adminExportProductsCSV(c echo.Context) error {
	products := app.GApp().ShopStore().Products()
	rows := make([]productCSVRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productCSVRow{
			ID:           p.ID,
			Slug:         p.Slug,
			Name:         p.Name,
			Category:     p.Category,
			PriceDisplay: p.PriceDisplay,
			PriceRange:   p.PriceRange,
			Material:     p.Material,
			InStock:      p.InStock,
			IsNew:        p.IsNew,
			IsFeatured:   p.IsFeatured,
			LeadTime:     p.LeadTime,
			Usage:        strings.Join(p.Usage, "|"),
		})
	}

	csvText, err := gocsv.MarshalString(&rows)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export catalog", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(csvText))
}

func adminResetProducts(c echo.Context) error {
	app.GApp().ShopStore().ResetToDefaults()
	return ok(c, map[string]interface{}{"count": len(app.GApp().ShopStore().Products())})
}
