package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	schema "impala_backend/internals/features/forms/form_schema/model"
	"impala_backend/internals/features/forms/form_templates/dto"
	"impala_backend/internals/features/forms/form_templates/model"
	"impala_backend/internals/features/forms/form_templates/service"
	helper "impala_backend/internals/helpers"
	"impala_backend/internals/helpers/apiclient"
	"impala_backend/internals/middlewares/auth"
)

// WorkspaceProvider dipenuhi oleh *service.Workspaces.
type WorkspaceProvider interface {
	Get(userID string) *service.Workspace
}

type FormBuilderController struct {
	Workspaces WorkspaceProvider
	Log        logrus.FieldLogger
}

func NewFormBuilderController(ws WorkspaceProvider, log logrus.FieldLogger) *FormBuilderController {
	return &FormBuilderController{Workspaces: ws, Log: log}
}

var validate = helper.NewValidator()

func (ctrl *FormBuilderController) workspace(c *fiber.Ctx) (*service.Workspace, error) {
	uid := auth.UserID(c)
	if uid == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - user tidak dikenali")
	}
	return ctrl.Workspaces.Get(uid), nil
}

// =============================
// 📋 State editor
// =============================
func (ctrl *FormBuilderController) GetState(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", ws.State(), ws.Notices()...)
}

// =============================
// 🎯 Program
// =============================
func (ctrl *FormBuilderController) ListPrograms(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	programs, err := ws.LoadPrograms(c.UserContext(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		return ctrl.upstreamError(c, ws, err, service.MsgLoadProgramsFailed)
	}
	return helper.JsonOK(c, "ok", fiber.Map{"programs": programs, "state": ws.State()}, ws.Notices()...)
}

func (ctrl *FormBuilderController) SelectProgram(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	var req dto.SelectProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	return helper.JsonUpdated(c, "program dipilih", ws.SelectProgram(req.ProgramName), ws.Notices()...)
}

// =============================
// 🗂️ Template
// =============================
func (ctrl *FormBuilderController) ListTemplates(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	list, err := ws.ListTemplates(c.UserContext())
	if err != nil {
		return ctrl.upstreamError(c, ws, err, service.MsgLoadTemplatesFailed)
	}
	return helper.JsonOK(c, "ok", list, ws.Notices()...)
}

func (ctrl *FormBuilderController) SelectTemplate(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	s, err := ws.SelectTemplate(c.UserContext(), model.TemplateID(c.Params("id")))
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Template tidak ditemukan", ws.Notices()...)
	case err != nil:
		return ctrl.upstreamError(c, ws, err, service.MsgLoadTemplatesFailed)
	}
	return helper.JsonOK(c, "template dipilih", s, ws.Notices()...)
}

func (ctrl *FormBuilderController) NewSchema(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "schema baru", ws.NewSchema(), ws.Notices()...)
}

func (ctrl *FormBuilderController) DeleteTemplate(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	id := model.TemplateID(c.Params("id"))
	if err := ws.DeleteTemplate(c.UserContext(), id); err != nil {
		return ctrl.upstreamError(c, ws, err, service.MsgDeleteFailed)
	}
	return helper.JsonDeleted(c, service.MsgDeleted, ws.State(), ws.Notices()...)
}

// ListSubmissions: GET /templates/:id/submissions?page=&per_page=
func (ctrl *FormBuilderController) ListSubmissions(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	rows, err := ws.Submissions(c.UserContext(), model.TemplateID(c.Params("id")))
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Template tidak ditemukan", ws.Notices()...)
	case err != nil:
		return ctrl.upstreamError(c, ws, err, service.MsgSubmissionsFailed)
	}

	p := helper.ResolvePaging(c, 20, 200)
	start := min(p.Offset, len(rows))
	end := min(start+p.Limit, len(rows))
	page := rows[start:end]
	if page == nil {
		page = []dto.Submission{}
	}
	return helper.JsonList(c, "ok", page, helper.BuildPaginationFromPage(int64(len(rows)), p.Page, p.PerPage, len(page)))
}

// =============================
// ✏️ Editor
// =============================
func (ctrl *FormBuilderController) UpdateSettings(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	return helper.JsonUpdated(c, "pengaturan diperbarui", ws.UpdateSettings(req), ws.Notices()...)
}

func (ctrl *FormBuilderController) UpdateField(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	var req dto.UpdateFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	s, err := ws.UpdateField(req.Section, req.FieldID, req.Patch)
	switch {
	case errors.Is(err, service.ErrNoSchema):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, schema.ErrFieldNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, "Field tidak ditemukan")
	case err != nil:
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "field diperbarui", s, ws.Notices()...)
}

// =============================
// 🚀 Publish
// =============================
func (ctrl *FormBuilderController) Publish(c *fiber.Ctx) error {
	ws, err := ctrl.workspace(c)
	if err != nil {
		return err
	}
	res, err := ws.Publish(c.UserContext())
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return helper.JsonValidationError(c, verr.Fields, ws.Notices()...)
	case errors.Is(err, service.ErrNoSchema), errors.Is(err, service.ErrPublishInProgress):
		return helper.JsonError(c, fiber.StatusConflict, err.Error(), ws.Notices()...)
	case err != nil:
		return ctrl.upstreamError(c, ws, err, service.MsgSaveFailed)
	}

	return helper.JsonOK(c, service.MsgPublished, fiber.Map{
		"template":   res.Template,
		"public_url": res.PublicURL,
		"copied_url": ws.TakeCopied(),
		"state":      ws.State(),
	}, ws.Notices()...)
}

// upstreamError: error dari backend Impala; 4xx diteruskan, sisanya 502.
func (ctrl *FormBuilderController) upstreamError(c *fiber.Ctx, ws *service.Workspace, err error, fallback string) error {
	status := fiber.StatusBadGateway
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		status = apiErr.Status
	}
	ctrl.Log.WithError(err).WithField("path", c.Path()).Warn("[BUILDER] request backend gagal")
	return helper.JsonError(c, status, apiclient.UserMessage(err, fallback), ws.Notices()...)
}
