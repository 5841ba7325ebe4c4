package controller

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	schema "impala_backend/internals/features/forms/form_schema/model"
	subsvc "impala_backend/internals/features/forms/form_submissions/service"
	locmodel "impala_backend/internals/features/forms/locations/model"
	"impala_backend/internals/features/forms/public_form/service"
	"impala_backend/internals/features/forms/public_form/view"
	helper "impala_backend/internals/helpers"
	"impala_backend/internals/helpers/apiclient"
)

// SessionStore dipenuhi oleh *service.Sessions.
type SessionStore interface {
	Open(ctx context.Context, slug string) (*service.Renderer, error)
	Preview(ctx context.Context, slug string) (*service.Renderer, error)
	Get(ctx context.Context, slug string, id uuid.UUID) (*service.Renderer, error)
	Discard(ctx context.Context, id uuid.UUID) error
}

type PublicFormController struct {
	Sessions SessionStore
	Log      logrus.FieldLogger
}

func NewPublicFormController(sessions SessionStore, log logrus.FieldLogger) *PublicFormController {
	return &PublicFormController{Sessions: sessions, Log: log}
}

// PatchDraftRequest: semua field opsional; values diterapkan seperti input user.
type PatchDraftRequest struct {
	Values        map[string]string `json:"values"`
	Category      *string           `json:"category"`
	TermsAccepted *bool             `json:"terms_accepted"`
}

// =============================
// 👀 Halaman form
// =============================

// Preview: browser (Accept: text/html) mendapat sesi baru supaya form di
// halaman bisa langsung dikirim; klien JSON mendapat preview tanpa sesi.
func (ctrl *PublicFormController) Preview(c *fiber.Ctx) error {
	if wantsHTML(c) {
		r, err := ctrl.Sessions.Open(c.UserContext(), c.Params("slug"))
		return ctrl.respond(c, r, err, fiber.StatusOK)
	}
	r, err := ctrl.Sessions.Preview(c.UserContext(), c.Params("slug"))
	defer r.Close()
	return ctrl.respond(c, r, err, fiber.StatusOK)
}

// =============================
// ➕ Mulai pengisian (buat draft)
// =============================
func (ctrl *PublicFormController) CreateDraft(c *fiber.Ctx) error {
	r, err := ctrl.Sessions.Open(c.UserContext(), c.Params("slug"))
	return ctrl.respond(c, r, err, fiber.StatusCreated)
}

func (ctrl *PublicFormController) GetDraft(c *fiber.Ctx) error {
	r, err := ctrl.session(c)
	if err != nil {
		return ctrl.sessionError(c, r, err)
	}
	return ctrl.respond(c, r, nil, fiber.StatusOK)
}

// =============================
// ✏️ Update draft
// =============================
func (ctrl *PublicFormController) PatchDraft(c *fiber.Ctx) error {
	var req PatchDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body tidak valid")
	}

	r, err := ctrl.session(c)
	if err != nil {
		return ctrl.sessionError(c, r, err)
	}
	fieldErrs, err := ctrl.apply(c.UserContext(), r, req)
	if err != nil {
		return ctrl.stateError(c, r, err)
	}

	if len(fieldErrs) > 0 {
		return helper.JsonValidationError(c, fieldErrs, r.Notices()...)
	}
	return helper.JsonUpdated(c, "draft diperbarui", r.View(), r.Notices()...)
}

func (ctrl *PublicFormController) DeleteDraft(c *fiber.Ctx) error {
	r, err := ctrl.session(c)
	if err != nil {
		return ctrl.sessionError(c, r, err)
	}
	id := r.Draft().ID
	if err := ctrl.Sessions.Discard(c.UserContext(), id); err != nil {
		ctrl.Log.WithError(err).WithField("draft_id", id.String()).Error("[FORM] gagal menghapus draft")
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus draft")
	}
	return helper.JsonDeleted(c, "draft dihapus", fiber.Map{"draft_id": id.String()})
}

// =============================
// 📨 Kirim pendaftaran
// =============================

// Submit menerima body kosong/JSON (alur draft) atau form urlencoded dari
// halaman HTML. Isi form diterapkan ke draft dulu; intent=save hanya menyimpan
// lalu merender ulang form.
func (ctrl *PublicFormController) Submit(c *fiber.Ctx) error {
	r, err := ctrl.session(c)
	if err != nil {
		return ctrl.sessionError(c, r, err)
	}

	if isFormPost(c) {
		req := formInput(c)
		if _, err := ctrl.apply(c.UserContext(), r, req); err != nil {
			return ctrl.stateError(c, r, err)
		}
		if c.FormValue("intent") == "save" {
			return ctrl.respond(c, r, nil, fiber.StatusOK)
		}
	}

	snap, err := r.Submit(c.UserContext())
	status := submitStatus(err)
	if wantsHTML(c) {
		return ctrl.renderHTML(c, r, status)
	}

	switch {
	case err == nil:
		return helper.JsonCreated(c, service.MsgSubmitSuccess, fiber.Map{
			"submission": snap,
			"form":       r.View(),
		}, r.Notices()...)
	case errors.Is(err, service.ErrSubmitBlocked):
		gate := r.Gate()
		return helper.JsonError(c, status, gate.Tooltip, r.Notices()...)
	case errors.Is(err, service.ErrNotReady):
		return ctrl.stateError(c, r, err)
	}
	return helper.JsonError(c, status, subsvc.SubmitErrorMessage(err), r.Notices()...)
}

func submitStatus(err error) int {
	var apiErr *apiclient.APIError
	switch {
	case err == nil:
		return fiber.StatusCreated
	case errors.Is(err, service.ErrSubmitBlocked):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrNotReady):
		return fiber.StatusConflict
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	default:
		return fiber.StatusBadGateway
	}
}

// apply menerapkan perubahan seperti input user. Nilai yang sama dengan isi
// draft dilewati supaya wilayah anak tidak ikut terhapus.
func (ctrl *PublicFormController) apply(ctx context.Context, r *service.Renderer, req PatchDraftRequest) (map[string][]string, error) {
	fieldErrs := map[string][]string{}
	for _, name := range orderedFields(req.Values) {
		if r.Value(name) == req.Values[name] {
			continue
		}
		switch err := r.Change(ctx, name, req.Values[name]); {
		case errors.Is(err, service.ErrUnknownField):
			fieldErrs[name] = append(fieldErrs[name], name+" tidak dikenal")
		case err != nil:
			return nil, err
		}
	}
	if req.Category != nil {
		cat, ok := schema.ParseCategory(*req.Category)
		if !ok {
			fieldErrs["category"] = []string{"category harus salah satu dari: umkm mahasiswa profesional komunitas umum"}
		} else if err := r.SetCategory(ctx, cat); err != nil {
			return nil, err
		}
	}
	if req.TermsAccepted != nil {
		if err := r.SetTerms(ctx, *req.TermsAccepted); err != nil {
			return nil, err
		}
	}
	return fieldErrs, nil
}

func isFormPost(c *fiber.Ctx) bool {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	return strings.HasPrefix(ct, fiber.MIMEApplicationForm)
}

// formInput membaca body form HTML. Checkbox terms yang tidak dicentang tidak
// terkirim, jadi dianggap false; field dari select yang disabled juga tidak
// terkirim dan dibiarkan.
func formInput(c *fiber.Ctx) PatchDraftRequest {
	req := PatchDraftRequest{Values: map[string]string{}}
	terms := false
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		key, val := string(k), string(v)
		switch key {
		case "intent":
		case "category":
			req.Category = &val
		case "terms_accepted":
			terms = val == "true" || val == "on"
		default:
			req.Values[key] = val
		}
	})
	req.TermsAccepted = &terms
	return req
}

/* ===== helpers ===== */

func (ctrl *PublicFormController) session(c *fiber.Ctx) (*service.Renderer, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return nil, service.ErrSessionNotFound
	}
	return ctrl.Sessions.Get(c.UserContext(), c.Params("slug"), id)
}

func (ctrl *PublicFormController) sessionError(c *fiber.Ctx, r *service.Renderer, err error) error {
	if errors.Is(err, service.ErrSessionNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Draft tidak ditemukan")
	}
	if r != nil {
		// draft ada tapi template gagal dimuat ulang
		return ctrl.respond(c, r, err, fiber.StatusOK)
	}
	ctrl.Log.WithError(err).Error("[FORM] gagal memulihkan draft")
	return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memuat draft")
}

func (ctrl *PublicFormController) stateError(c *fiber.Ctx, r *service.Renderer, err error) error {
	if errors.Is(err, service.ErrNotReady) {
		if wantsHTML(c) {
			return ctrl.renderHTML(c, r, fiber.StatusConflict)
		}
		return helper.JsonError(c, fiber.StatusConflict, "Form tidak dalam keadaan bisa diubah ("+string(r.State())+")", r.Notices()...)
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error(), r.Notices()...)
}

// respond merender view sebagai HTML (Accept: text/html) atau JSON.
func (ctrl *PublicFormController) respond(c *fiber.Ctx, r *service.Renderer, loadErr error, okStatus int) error {
	status := okStatus
	if loadErr != nil {
		status = loadStatus(loadErr)
	}
	if wantsHTML(c) {
		return ctrl.renderHTML(c, r, status)
	}

	v := r.View()
	if loadErr != nil {
		return helper.JsonError(c, status, v.Error, r.Notices()...)
	}
	if status == fiber.StatusCreated {
		return helper.JsonCreated(c, "form siap diisi", v, r.Notices()...)
	}
	return helper.JsonOK(c, "ok", v, r.Notices()...)
}

func (ctrl *PublicFormController) renderHTML(c *fiber.Ctx, r *service.Renderer, status int) error {
	c.Status(status).Type("html", "utf-8")
	return view.Render(c.Response().BodyWriter(), r.View())
}

func wantsHTML(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML
}

func loadStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrLoadTimeout):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusBadGateway
	}
}

// orderedFields: field biasa dulu (urut nama), lalu wilayah dari provinsi ke
// kelurahan supaya pilihan anak tidak terhapus oleh pilihan parent.
func orderedFields(values map[string]string) []string {
	var plain []string
	var locs []string
	for name := range values {
		if _, ok := locmodel.LevelForField(name); ok {
			continue
		}
		plain = append(plain, name)
	}
	sort.Strings(plain)
	for _, l := range locmodel.Levels {
		if _, ok := values[l.IDField()]; ok {
			locs = append(locs, l.IDField())
		}
	}
	return append(plain, locs...)
}
