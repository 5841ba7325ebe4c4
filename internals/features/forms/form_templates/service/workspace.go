package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	schema "impala_backend/internals/features/forms/form_schema/model"
	"impala_backend/internals/features/forms/form_templates/dto"
	"impala_backend/internals/features/forms/form_templates/model"
	helper "impala_backend/internals/helpers"
	"impala_backend/internals/helpers/apiclient"
	"impala_backend/internals/helpers/notify"
)

const (
	MsgLoadProgramsFailed  = "Gagal memuat daftar program"
	MsgLoadTemplatesFailed = "Gagal memuat daftar template"
	MsgSaveFailed          = "Gagal menyimpan template"
	MsgPublishFailed       = "Gagal mempublikasikan template"
	MsgDeleteFailed        = "Gagal menghapus template"
	MsgSubmissionsFailed   = "Gagal memuat data pendaftar"

	MsgPublished = "Form berhasil dipublikasikan! Link sudah disalin."
	MsgDeleted   = "Template berhasil dihapus"
)

var (
	ErrNoSchema         = errors.New("belum ada template yang dipilih")
	ErrTemplateNotFound = errors.New("template tidak ditemukan")

	ErrPublishInProgress = errors.New("publish sedang berjalan")
)

// ValidationError: publish ditolak sebelum request dikirim.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, msgs := range e.Fields {
		parts = append(parts, strings.Join(msgs, ", "))
	}
	return "validasi gagal: " + strings.Join(parts, "; ")
}

var validate = helper.NewValidator()

// WorkspaceState adalah snapshot editor untuk response admin.
type WorkspaceState struct {
	Schema          *schema.FormSchema   `json:"schema"`
	Selected        *model.FormTemplate  `json:"selected_template"`
	EditMode        bool                 `json:"edit_mode"`
	Templates       []model.FormTemplate `json:"templates"`
	Programs        []dto.ProgramOption  `json:"programs"`
	ProgramsLoading bool                 `json:"programs_loading"`
}

// PublishResult dikembalikan Publish.
type PublishResult struct {
	Template  model.FormTemplate `json:"template"`
	PublicURL string             `json:"public_url"`
}

// Workspace adalah editor form milik satu operator.
// Schema nil berarti tidak ada template yang dipilih.
type Workspace struct {
	mu        sync.Mutex
	api       TemplateAPI
	clipboard Clipboard
	notices   *notify.Recorder
	origin    string
	log       logrus.FieldLogger

	schema          *schema.FormSchema
	selected        *model.FormTemplate
	templates       []model.FormTemplate
	programs        []dto.ProgramOption
	programsLoading bool
	publishing      bool
}

func NewWorkspace(api TemplateAPI, clipboard Clipboard, origin string, log logrus.FieldLogger) *Workspace {
	if clipboard == nil {
		clipboard = &ClipboardBuffer{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	def := schema.GetDefaultSchema()
	return &Workspace{
		api:       api,
		clipboard: clipboard,
		notices:   notify.NewRecorder(),
		origin:    strings.TrimRight(origin, "/"),
		log:       log,
		schema:    &def,
		templates: []model.FormTemplate{},
		programs:  []dto.ProgramOption{},
	}
}

// Notices mengambil notifikasi yang terkumpul sejak panggilan terakhir.
func (w *Workspace) Notices() []notify.Notice { return w.notices.Drain() }

func (w *Workspace) State() WorkspaceState {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := WorkspaceState{
		EditMode:        w.selected != nil,
		Templates:       append([]model.FormTemplate{}, w.templates...),
		Programs:        append([]dto.ProgramOption{}, w.programs...),
		ProgramsLoading: w.programsLoading,
	}
	if w.schema != nil {
		s := w.schema.Clone()
		st.Schema = &s
	}
	if w.selected != nil {
		t := *w.selected
		st.Selected = &t
	}
	return st
}

// LoadPrograms memuat daftar program. Jika belum ada program terpilih,
// program pertama dipilih otomatis beserta judulnya.
func (w *Workspace) LoadPrograms(ctx context.Context, search string) ([]dto.ProgramOption, error) {
	w.mu.Lock()
	w.programsLoading = true
	if w.schema != nil {
		s := w.schema.WithProgramOptions(programNames(w.programs), true)
		w.schema = &s
	}
	w.mu.Unlock()

	programs, err := w.api.SearchPrograms(ctx, search)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.programsLoading = false
	if err != nil {
		w.log.WithError(err).WithField("search", search).Error("[BUILDER] gagal memuat program")
		notify.Error(w.notices, apiclient.UserMessage(err, MsgLoadProgramsFailed))
		if w.schema != nil {
			s := w.schema.WithProgramOptions(programNames(w.programs), false)
			w.schema = &s
		}
		return nil, err
	}

	w.programs = programs
	if w.schema != nil {
		s := w.schema.WithProgramOptions(programNames(programs), false)
		if strings.TrimSpace(s.ProgramName) == "" && len(programs) > 0 {
			s.ProgramName = programs[0].ProgramName
			s.Title = schema.TitleFor(s.ProgramName)
		}
		w.schema = &s
	}
	return append([]dto.ProgramOption{}, programs...), nil
}

func programNames(ps []dto.ProgramOption) []string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.ProgramName)
	}
	return names
}

// ListTemplates menyegarkan daftar template dari backend.
func (w *Workspace) ListTemplates(ctx context.Context) ([]model.FormTemplate, error) {
	list, err := w.api.List(ctx)
	if err != nil {
		w.log.WithError(err).Error("[BUILDER] gagal memuat template")
		notify.Error(w.notices, apiclient.UserMessage(err, MsgLoadTemplatesFailed))
		return nil, err
	}
	w.mu.Lock()
	w.templates = list
	w.mu.Unlock()
	return append([]model.FormTemplate{}, list...), nil
}

// SelectTemplate memuat form_config template ke editor dan masuk mode edit.
func (w *Workspace) SelectTemplate(ctx context.Context, id model.TemplateID) (schema.FormSchema, error) {
	tpl, ok := w.findTemplate(id)
	if !ok {
		if _, err := w.ListTemplates(ctx); err != nil {
			return schema.FormSchema{}, err
		}
		if tpl, ok = w.findTemplate(id); !ok {
			return schema.FormSchema{}, ErrTemplateNotFound
		}
	}
	s, err := tpl.Schema()
	if err != nil {
		return schema.FormSchema{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	s = s.WithProgramOptions(programNames(w.programs), w.programsLoading)
	w.schema = &s
	w.selected = &tpl
	return s.Clone(), nil
}

func (w *Workspace) findTemplate(id model.TemplateID) (model.FormTemplate, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, t := range w.templates {
		if t.ID == id {
			return t, true
		}
	}
	return model.FormTemplate{}, false
}

// NewSchema kembali ke kerangka default dan keluar dari mode edit.
func (w *Workspace) NewSchema() schema.FormSchema {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := schema.GetDefaultSchema().WithProgramOptions(programNames(w.programs), w.programsLoading)
	w.schema = &s
	w.selected = nil
	return s.Clone()
}

func (w *Workspace) SelectProgram(name string) schema.FormSchema {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.current()
	s.ProgramName = strings.TrimSpace(name)
	s.Title = schema.TitleFor(s.ProgramName)
	w.schema = &s
	return s.Clone()
}

// UpdateSettings menggabungkan field yang tidak nil ke settings.
func (w *Workspace) UpdateSettings(req dto.UpdateSettingsRequest) schema.FormSchema {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.current()
	if req.WhatsappGroupLink != nil {
		s.Settings.WhatsappGroupLink = *req.WhatsappGroupLink
	}
	if req.AfterSubmitMessage != nil {
		s.Settings.AfterSubmitMessage = *req.AfterSubmitMessage
	}
	w.schema = &s
	return s.Clone()
}

func (w *Workspace) UpdateField(sectionKey, fieldID string, patch schema.FieldPatch) (schema.FormSchema, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.schema == nil {
		return schema.FormSchema{}, ErrNoSchema
	}
	s, err := w.schema.UpdateField(sectionKey, fieldID, patch)
	if err != nil {
		return s, err
	}
	w.schema = &s
	return s.Clone(), nil
}

// current mengembalikan salinan schema aktif; jika belum ada, kerangka default.
// Dipanggil dengan mu terkunci.
func (w *Workspace) current() schema.FormSchema {
	if w.schema == nil {
		return schema.GetDefaultSchema().WithProgramOptions(programNames(w.programs), w.programsLoading)
	}
	return w.schema.Clone()
}

// Publish memvalidasi lalu create/update, publish, dan menyalin link publik.
// Validasi gagal tidak mengirim request apa pun. Request ke backend berjalan
// tanpa memegang mu; hasilnya hanya diterapkan ke editor jika editor masih
// menunjuk template yang sama.
func (w *Workspace) Publish(ctx context.Context) (PublishResult, error) {
	w.mu.Lock()
	if w.publishing {
		w.mu.Unlock()
		notify.Error(w.notices, ErrPublishInProgress.Error())
		return PublishResult{}, ErrPublishInProgress
	}
	if w.schema == nil {
		w.mu.Unlock()
		notify.Error(w.notices, ErrNoSchema.Error())
		return PublishResult{}, ErrNoSchema
	}
	s := w.schema.Clone()
	var target *model.TemplateID
	if w.selected != nil {
		id := w.selected.ID
		target = &id
	}

	if err := validate.Struct(dto.NewPublishInput(s)); err != nil {
		w.mu.Unlock()
		verr := &ValidationError{Fields: publishMessages(err)}
		for _, msgs := range verr.Fields {
			for _, m := range msgs {
				notify.Error(w.notices, m)
			}
		}
		return PublishResult{}, verr
	}
	w.publishing = true
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.publishing = false
		w.mu.Unlock()
	}()

	req := dto.NewTemplateRequest(s)
	var (
		saved model.FormTemplate
		err   error
	)
	if target == nil {
		saved, err = w.api.Create(ctx, req)
	} else {
		saved, err = w.api.Update(ctx, *target, req)
	}
	if err != nil {
		w.log.WithError(err).WithField("program_name", req.ProgramName).Error("[BUILDER] gagal menyimpan template")
		notify.Error(w.notices, apiclient.UserMessage(err, MsgSaveFailed))
		return PublishResult{}, err
	}
	if saved.ID == "" && target != nil {
		saved.ID = *target
	}

	published, err := w.api.Publish(ctx, saved.ID)
	if err != nil {
		w.log.WithError(err).WithField("template_id", saved.ID.String()).Error("[BUILDER] gagal publish template")
		notify.Error(w.notices, apiclient.UserMessage(err, MsgPublishFailed))
		// template sudah tersimpan: editor tetap di mode edit
		w.mu.Lock()
		if w.sameTarget(target) {
			w.selected = &saved
		}
		w.upsertTemplate(saved)
		w.mu.Unlock()
		return PublishResult{}, err
	}
	if published.ID == "" {
		published.ID = saved.ID
	}

	// server adalah sumber kebenaran setelah publish
	w.mu.Lock()
	if w.sameTarget(target) {
		w.schema.Settings.WhatsappGroupLink = published.WhatsappGroupLink
		w.schema.Settings.AfterSubmitMessage = published.AfterSubmitMessage
		w.selected = &published
	}
	w.upsertTemplate(published)
	w.mu.Unlock()

	link := w.origin + "/register/" + published.PublicSlug()
	if err := w.clipboard.Copy(ctx, link); err != nil {
		w.log.WithError(err).Warn("[BUILDER] gagal menyalin link")
	}
	w.notices.Notify(notify.Notice{Level: notify.LevelSuccess, Message: MsgPublished, Link: link})
	w.log.WithFields(logrus.Fields{"template_id": published.ID.String(), "url": link}).Info("[BUILDER] template dipublikasikan")

	return PublishResult{Template: published, PublicURL: link}, nil
}

// sameTarget: editor masih menunjuk template (atau draft baru) yang sama
// seperti saat publish dimulai. Dipanggil dengan mu terkunci.
func (w *Workspace) sameTarget(target *model.TemplateID) bool {
	if w.schema == nil {
		return false
	}
	if target == nil {
		return w.selected == nil
	}
	return w.selected != nil && w.selected.ID == *target
}

func publishMessages(err error) map[string][]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return helper.ValidationMessages(err)
	}
	out := map[string][]string{}
	for _, fe := range ve {
		switch fe.Field() {
		case "program_name":
			out[fe.Field()] = append(out[fe.Field()], "Nama program wajib dipilih")
		case "whatsapp_group_link":
			out[fe.Field()] = append(out[fe.Field()], "Link grup WhatsApp harus diawali https://")
		default:
			out[fe.Field()] = append(out[fe.Field()], helper.ValidationMessages(ve)[fe.Field()]...)
		}
	}
	return out
}

// upsertTemplate mengganti template dengan id sama atau menambahkannya di depan.
// Dipanggil dengan mu terkunci.
func (w *Workspace) upsertTemplate(t model.FormTemplate) {
	for i := range w.templates {
		if w.templates[i].ID == t.ID {
			w.templates[i] = t
			return
		}
	}
	w.templates = append([]model.FormTemplate{t}, w.templates...)
}

// DeleteTemplate menghapus di backend dulu; list lokal hanya berubah jika
// berhasil. Menghapus template yang sedang dipilih mengosongkan editor.
func (w *Workspace) DeleteTemplate(ctx context.Context, id model.TemplateID) error {
	if err := w.api.Delete(ctx, id); err != nil {
		w.log.WithError(err).WithField("template_id", id.String()).Error("[BUILDER] gagal menghapus template")
		notify.Error(w.notices, apiclient.UserMessage(err, MsgDeleteFailed))
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	kept := w.templates[:0]
	for _, t := range w.templates {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	w.templates = kept
	if w.selected != nil && w.selected.ID == id {
		w.selected = nil
		w.schema = nil
	}
	notify.Success(w.notices, MsgDeleted)
	return nil
}

// Submissions mengambil pendaftar untuk program milik template id.
func (w *Workspace) Submissions(ctx context.Context, id model.TemplateID) ([]dto.Submission, error) {
	tpl, ok := w.findTemplate(id)
	if !ok {
		return nil, ErrTemplateNotFound
	}
	rows, err := w.api.ListSubmissions(ctx, tpl.ProgramName)
	if err != nil {
		w.log.WithError(err).WithField("program_name", tpl.ProgramName).Error("[BUILDER] gagal memuat pendaftar")
		notify.Error(w.notices, apiclient.UserMessage(err, MsgSubmissionsFailed))
		return nil, err
	}
	return rows, nil
}

// TakeCopied mengembalikan link yang terakhir disalin lalu mengosongkannya.
func (w *Workspace) TakeCopied() string {
	if b, ok := w.clipboard.(*ClipboardBuffer); ok {
		return b.Take()
	}
	return ""
}
