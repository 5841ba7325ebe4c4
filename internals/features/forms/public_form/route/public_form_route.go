package route

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"impala_backend/internals/features/forms/public_form/controller"
	"impala_backend/internals/middlewares"
)

// PublicFormRoutes: /register/:slug/...
func PublicFormRoutes(app fiber.Router, sessions controller.SessionStore, log logrus.FieldLogger) {
	ctrl := controller.NewPublicFormController(sessions, log)

	g := app.Group("/register/:slug")
	g.Get("/", ctrl.Preview)
	g.Post("/drafts", middlewares.DraftRateLimiter(), ctrl.CreateDraft)
	g.Get("/drafts/:id", ctrl.GetDraft)
	g.Patch("/drafts/:id", ctrl.PatchDraft)
	g.Delete("/drafts/:id", ctrl.DeleteDraft)
	g.Post("/drafts/:id/submit", middlewares.SubmitRateLimiter(), ctrl.Submit)
}
