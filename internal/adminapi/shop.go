package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lledoind/aerotools/internal/app"
	"github.com/lledoind/aerotools/internal/shop"
	"github.com/lledoind/aerotools/internal/webserver"
)

// registerShopRoutes registers the public product browsing endpoints
func registerShopRoutes() {
	webserver.ApiGET("/shop/products", listShopProducts)
	webserver.ApiGET("/shop/products/:slug", getShopProduct)
	webserver.ApiGET("/shop/products/:slug/related", getRelatedProducts)
	webserver.ApiGET("/shop/products/:slug/bought-together", getBoughtTogether)
	webserver.ApiGET("/shop/categories", listShopCategories)
}

// listShopProducts applies the multi-facet filter from query parameters.
// Facets compose as a conjunction; repeated values within a facet widen it.
func listShopProducts(c echo.Context) error {
	var filters shop.ActiveFilters
	if err := c.Bind(&filters); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse filters", err.Error())
	}
	if filters.Category == "" {
		filters.Category = "all"
	}

	products := app.GApp().ShopStore().Products()
	filtered := shop.FilterProducts(products, filters)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":    0,
		"msg":     "ok",
		"data":    filtered,
		"total":   len(filtered),
		"filters": filters,
	})
}

func getShopProduct(c echo.Context) error {
	p, found := app.GApp().ShopStore().ProductBySlug(c.Param("slug"))
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func getRelatedProducts(c echo.Context) error {
	gapp := app.GApp()
	p, found := gapp.ShopStore().ProductBySlug(c.Param("slug"))
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	limit := int(gapp.GetSettingsInt64Value("shop", "RelatedProductsLimit"))
	if limit <= 0 {
		limit = 4
	}
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 20 {
			limit = n
		}
	}
	return ok(c, shop.RelatedProducts(gapp.ShopStore().Products(), p, limit))
}

func getBoughtTogether(c echo.Context) error {
	store := app.GApp().ShopStore()
	p, found := store.ProductBySlug(c.Param("slug"))
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, shop.BoughtTogether(store.Products(), p))
}

// listShopCategories returns the known categories with counts over the
// unfiltered catalog.
func listShopCategories(c echo.Context) error {
	products := app.GApp().ShopStore().Products()
	counts := shop.CategoryCounts(products)

	type categoryWithCount struct {
		ID          string `json:"id"`
		Label       string `json:"label"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Count       int    `json:"count"`
	}
	result := make([]categoryWithCount, 0)
	for _, cat := range shop.Categories() {
		result = append(result, categoryWithCount{
			ID:          cat.ID,
			Label:       cat.Label,
			Slug:        cat.Slug,
			Description: cat.Description,
			Count:       counts[cat.ID],
		})
	}
	return ok(c, result)
}
