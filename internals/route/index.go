package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"impala_backend/internals/configs"
	tplroute "impala_backend/internals/features/forms/form_templates/route"
	tplsvc "impala_backend/internals/features/forms/form_templates/service"
	locroute "impala_backend/internals/features/forms/locations/route"
	locsvc "impala_backend/internals/features/forms/locations/service"
	pfroute "impala_backend/internals/features/forms/public_form/route"
	pfsvc "impala_backend/internals/features/forms/public_form/service"
	"impala_backend/internals/middlewares/auth"
)

var startTime time.Time

// Deps adalah semua service yang dipasang ke router.
type Deps struct {
	Config     configs.AppConfig
	DB         *gorm.DB // nil = draft di memori
	Locations  *locsvc.Resolver
	Sessions   *pfsvc.Sessions
	Workspaces *tplsvc.Workspaces
	Log        logrus.FieldLogger
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB)

	// ===================== PUBLIC =====================
	d.Log.Info("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	locroute.LocationPublicRoutes(public, d.Locations, d.Log.WithField("component", "locations"))

	d.Log.Info("[INFO] Mounting public form routes...")
	pfroute.PublicFormRoutes(app, d.Sessions, d.Log.WithField("component", "public_form"))

	// ===================== ADMIN =====================
	d.Log.Info("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		auth.AuthJWT(auth.AuthJWTOpts{
			Secret:              d.Config.JWTSecret,
			AllowCookieFallback: true,
		}),
	)
	tplroute.FormBuilderAdminRoutes(admin, d.Workspaces, d.Config.AdminRoles, d.Log.WithField("component", "builder"))
}
