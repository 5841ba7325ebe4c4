package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"impala_backend/internals/constants"
	"impala_backend/internals/features/forms/form_templates/controller"
	"impala_backend/internals/middlewares/auth"
)

// FormBuilderAdminRoutes: /api/a/form-builder/... (butuh JWT + role admin)
func FormBuilderAdminRoutes(admin fiber.Router, ws controller.WorkspaceProvider, roles []string, log logrus.FieldLogger) {
	ctrl := controller.NewFormBuilderController(ws, log)

	g := admin.Group("/form-builder",
		auth.OnlyRoles(constants.RoleErrorAdmin("form builder"), roles...),
	)
	g.Get("/state", ctrl.GetState)
	g.Get("/programs", ctrl.ListPrograms)
	g.Put("/program", ctrl.SelectProgram)
	g.Post("/schema/new", ctrl.NewSchema)
	g.Patch("/settings", ctrl.UpdateSettings)
	g.Patch("/fields", ctrl.UpdateField)
	g.Post("/publish", ctrl.Publish)

	g.Get("/templates", ctrl.ListTemplates)
	g.Post("/templates/:id/select", ctrl.SelectTemplate)
	g.Delete("/templates/:id", ctrl.DeleteTemplate)
	g.Get("/templates/:id/submissions", ctrl.ListSubmissions)
}
