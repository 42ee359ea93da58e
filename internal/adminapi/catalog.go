package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lledoind/aerotools/internal/app"
	"github.com/lledoind/aerotools/internal/webserver"
)

// registerCatalogRoutes registers the read-only configurator endpoints
func registerCatalogRoutes() {
	webserver.ApiGET("/catalog/manufacturers", listManufacturers)
	webserver.ApiGET("/catalog/helicopters", listHelicopters)
	webserver.ApiGET("/catalog/helicopters/categories", listHelicopterCategories)
	webserver.ApiGET("/catalog/helicopters/:id", getHelicopter)
	webserver.ApiGET("/catalog/helicopters/:id/zones", getHelicopterZones)
	webserver.ApiGET("/catalog/helicopters/:id/parts/count", countHelicopterParts)
	webserver.ApiGET("/catalog/parts", listParts)
	webserver.ApiGET("/catalog/parts/categories", listPartCategories)
	webserver.ApiGET("/catalog/parts/:id", getPart)
	webserver.ApiGET("/catalog/parts/:id/helicopters", getPartHelicopters)
	webserver.ApiGET("/catalog/compatibility", getCompatibleParts)
}

func listManufacturers(c echo.Context) error {
	return ok(c, app.GApp().Catalog().Manufacturers())
}

func listHelicopters(c echo.Context) error {
	cat := app.GApp().Catalog()
	if q := c.QueryParam("q"); q != "" {
		return ok(c, cat.SearchHelicopters(q))
	}
	return ok(c, cat.Helicopters())
}

func listHelicopterCategories(c echo.Context) error {
	return ok(c, app.GApp().Catalog().HelicopterCategories())
}

// getHelicopter resolves by id first, then by slug, so both URL styles work.
func getHelicopter(c echo.Context) error {
	cat := app.GApp().Catalog()
	id := c.Param("id")
	h, found := cat.Helicopter(id)
	if !found {
		h, found = cat.HelicopterBySlug(id)
	}
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Helicopter not found", nil)
	}
	return ok(c, h)
}

func getHelicopterZones(c echo.Context) error {
	cat := app.GApp().Catalog()
	id := c.Param("id")
	if _, found := cat.Helicopter(id); !found {
		if h, foundSlug := cat.HelicopterBySlug(id); foundSlug {
			id = h.ID
		} else {
			return fail(c, http.StatusNotFound, "NOT_FOUND", "Helicopter not found", nil)
		}
	}
	return ok(c, cat.ZonesWithParts(id))
}

func countHelicopterParts(c echo.Context) error {
	cat := app.GApp().Catalog()
	id := c.Param("id")
	if _, found := cat.Helicopter(id); !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Helicopter not found", nil)
	}
	return ok(c, map[string]interface{}{
		"helicopterId": id,
		"count":        cat.CountCompatibleParts(id),
	})
}

func listParts(c echo.Context) error {
	cat := app.GApp().Catalog()
	if q := c.QueryParam("q"); q != "" {
		return ok(c, cat.SearchParts(q))
	}
	return ok(c, cat.Parts())
}

func listPartCategories(c echo.Context) error {
	return ok(c, app.GApp().Catalog().PartCategories())
}

func getPart(c echo.Context) error {
	cat := app.GApp().Catalog()
	id := c.Param("id")
	p, found := cat.Part(id)
	if !found {
		p, found = cat.PartBySlug(id)
	}
	if !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Part not found", nil)
	}
	return ok(c, p)
}

func getPartHelicopters(c echo.Context) error {
	cat := app.GApp().Catalog()
	id := c.Param("id")
	if _, found := cat.Part(id); !found {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Part not found", nil)
	}
	return ok(c, cat.CompatibleHelicopters(id))
}

// getCompatibleParts returns the parts for one (helicopter, zone) pair.
func getCompatibleParts(c echo.Context) error {
	helicopterID := c.QueryParam("helicopterId")
	zoneID := c.QueryParam("zoneId")
	if helicopterID == "" || zoneID == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "helicopterId and zoneId are required", nil)
	}
	return ok(c, app.GApp().Catalog().CompatibleParts(helicopterID, zoneID))
}
