package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"impala_backend/internals/features/forms/locations/controller"
)

// LocationPublicRoutes: /api/public/locations/...
func LocationPublicRoutes(api fiber.Router, loader controller.LocationLoader, log logrus.FieldLogger) {
	ctrl := controller.NewLocationController(loader, log)

	g := api.Group("/locations")
	g.Get("/provinces", ctrl.GetProvinces)
	g.Get("/regencies/:province_id", ctrl.GetRegencies)
	g.Get("/districts/:regency_id", ctrl.GetDistricts)
	g.Get("/villages/:district_id", ctrl.GetVillages)
}
