package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"impala_backend/internals/features/forms/locations/model"
	helper "impala_backend/internals/helpers"
	"impala_backend/internals/helpers/notify"
)

// LocationLoader dipenuhi oleh *service.Resolver.
type LocationLoader interface {
	Load(ctx context.Context, level model.Level, parentID string) ([]model.LocationNode, error)
}

type LocationController struct {
	Loader LocationLoader
	Log    logrus.FieldLogger
}

func NewLocationController(loader LocationLoader, log logrus.FieldLogger) *LocationController {
	return &LocationController{Loader: loader, Log: log}
}

// =============================
// 🌏 Lookup wilayah (fail soft: selalu 200)
// =============================
func (ctrl *LocationController) GetProvinces(c *fiber.Ctx) error {
	return ctrl.respond(c, model.LevelProvince, "")
}

func (ctrl *LocationController) GetRegencies(c *fiber.Ctx) error {
	return ctrl.respond(c, model.LevelRegency, c.Params("province_id"))
}

func (ctrl *LocationController) GetDistricts(c *fiber.Ctx) error {
	return ctrl.respond(c, model.LevelDistrict, c.Params("regency_id"))
}

func (ctrl *LocationController) GetVillages(c *fiber.Ctx) error {
	return ctrl.respond(c, model.LevelVillage, c.Params("district_id"))
}

func (ctrl *LocationController) respond(c *fiber.Ctx, level model.Level, parentID string) error {
	nodes, err := ctrl.Loader.Load(c.UserContext(), level, parentID)
	if nodes == nil {
		nodes = []model.LocationNode{}
	}
	if err != nil {
		ctrl.Log.WithFields(logrus.Fields{"level": level.String(), "parent_id": parentID}).
			WithError(err).Warn("[LOCATION] lookup gagal, memakai fallback")
		return helper.JsonOK(c, "fallback", nodes, notify.Notice{
			Level:   notify.LevelError,
			Message: "Failed to load " + level.Plural(),
		})
	}
	return helper.JsonOK(c, "ok", nodes)
}
