package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	schema "impala_backend/internals/features/forms/form_schema/model"
	submodel "impala_backend/internals/features/forms/form_submissions/model"
	subsvc "impala_backend/internals/features/forms/form_submissions/service"
	tplmodel "impala_backend/internals/features/forms/form_templates/model"
	locmodel "impala_backend/internals/features/forms/locations/model"
	locsvc "impala_backend/internals/features/forms/locations/service"
	"impala_backend/internals/helpers/apiclient"
	"impala_backend/internals/helpers/notify"
)

// State adalah status renderer form publik.
type State string

const (
	StateLoading    State = "loading"
	StateError      State = "error"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
)

const (
	DefaultLoadTimeout = 10 * time.Second

	MsgLoadTimeout   = "Waktu memuat form habis. Periksa koneksi Anda lalu coba lagi."
	MsgFormNotFound  = "Form tidak ditemukan atau belum dipublikasikan."
	MsgLoadFailed    = "Gagal memuat form. Silakan coba lagi."
	MsgSubmitSuccess = "Pendaftaran berhasil dikirim!"
)

var (
	ErrLoadTimeout   = errors.New("waktu memuat form habis")
	ErrNotFound      = errors.New("form tidak ditemukan")
	ErrNotReady      = errors.New("form belum siap diisi")
	ErrSubmitBlocked = errors.New("form belum lengkap")
	ErrUnknownField  = errors.New("field tidak dikenal")
)

// Category adoption dari auto-fill (AUTOFILL_CATEGORY_MODE).
const (
	AutoFillCategoryEmail = "email"
	AutoFillCategoryBoth  = "both"
	AutoFillCategoryNone  = "none"
)

type TemplateSource interface {
	GetBySlug(ctx context.Context, slug string) (tplmodel.FormTemplate, error)
}

type Submitter interface {
	Submit(ctx context.Context, payload subsvc.SubmissionPayload) (string, error)
}

type ParticipantLookup interface {
	Lookup(ctx context.Context, key subsvc.LookupKey, value string) subsvc.Participant
}

// Deps adalah kolaborator renderer; semua boleh diganti di test.
type Deps struct {
	Templates    TemplateSource
	Locations    locsvc.Loader
	Submitter    Submitter
	AutoFill     ParticipantLookup // nil = auto-fill mati
	Store        subsvc.DraftStore // nil = tidak disimpan
	Timeout      time.Duration
	After        func(time.Duration) <-chan time.Time
	Now          func() time.Time
	Location     *time.Location
	CategoryMode string
	Log          logrus.FieldLogger
}

func (d Deps) withDefaults() Deps {
	if d.Timeout <= 0 {
		d.Timeout = DefaultLoadTimeout
	}
	if d.After == nil {
		d.After = time.After
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	if d.CategoryMode == "" {
		d.CategoryMode = AutoFillCategoryEmail
	}
	return d
}

// Renderer adalah satu sesi form publik: state machine, draft, dan cascade
// wilayahnya. Semua perubahan draft lewat method renderer.
type Renderer struct {
	mu      sync.Mutex
	deps    Deps
	slug    string
	notices *notify.Recorder
	cascade *locsvc.Cascade
	bg      sync.WaitGroup

	state      State
	hasTimeout bool
	loadErr    string
	loadGen    uint64
	closed     bool

	template    tplmodel.FormTemplate
	schema      schema.FormSchema
	draft       submodel.Draft
	submitError string
	success     *subsvc.SuccessSnapshot
}

func NewRenderer(slug string, deps Deps) *Renderer {
	deps = deps.withDefaults()
	rec := notify.NewRecorder()
	return &Renderer{
		deps:    deps,
		slug:    slug,
		notices: rec,
		cascade: locsvc.NewCascade(deps.Locations, rec, deps.Log),
		state:   StateLoading,
		draft:   submodel.NewDraft(slug, ""),
	}
}

func (r *Renderer) ID() string   { return r.draft.ID.String() }
func (r *Renderer) Slug() string { return r.slug }

// Notices mengambil notifikasi yang terkumpul sejak panggilan terakhir.
func (r *Renderer) Notices() []notify.Notice { return r.notices.Drain() }

func (r *Renderer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Renderer) HasTimeout() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasTimeout
}

// Load mengambil template berdasarkan slug dengan batas waktu. Jika waktu
// habis, renderer masuk Error dengan hasTimeout=true dan respons yang datang
// belakangan dibuang. Setelah Ready, daftar provinsi dimuat.
func (r *Renderer) Load(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrNotReady
	}
	r.loadGen++
	g := r.loadGen
	r.state = StateLoading
	r.hasTimeout = false
	r.loadErr = ""
	r.mu.Unlock()

	done := make(chan error, 1)
	r.bg.Add(1)
	go func() {
		defer r.bg.Done()
		tpl, err := r.deps.Templates.GetBySlug(ctx, r.slug)
		done <- r.applyLoad(g, tpl, err)
	}()

	var err error
	select {
	case err = <-done:
	case <-r.deps.After(r.deps.Timeout):
		err = r.applyTimeout(g)
	}
	if err != nil {
		return err
	}

	r.cascade.LoadProvinces(ctx)
	return nil
}

func (r *Renderer) applyLoad(g uint64, tpl tplmodel.FormTemplate, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrNotReady
	}
	if r.loadGen != g || r.state != StateLoading {
		// sudah timeout atau ada Load yang lebih baru
		return ErrLoadTimeout
	}
	if err != nil {
		r.state = StateError
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			r.loadErr = MsgFormNotFound
			r.deps.Log.WithField("slug", r.slug).Info("[FORM] slug tidak ditemukan")
			return ErrNotFound
		}
		r.loadErr = MsgLoadFailed
		r.deps.Log.WithError(err).WithField("slug", r.slug).Error("[FORM] gagal memuat template")
		return err
	}
	s, perr := tpl.Schema()
	if perr != nil {
		r.state = StateError
		r.loadErr = MsgLoadFailed
		r.deps.Log.WithError(perr).WithField("slug", r.slug).Error("[FORM] form_config tidak valid")
		return perr
	}
	r.template = tpl
	r.schema = s
	r.draft.ProgramName = s.ProgramName
	r.state = StateReady
	return nil
}

func (r *Renderer) applyTimeout(g uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.loadGen != g || r.state != StateLoading {
		return nil
	}
	r.loadGen++ // respons yang masih berjalan jadi basi
	r.state = StateError
	r.hasTimeout = true
	r.loadErr = MsgLoadTimeout
	r.deps.Log.WithFields(logrus.Fields{"slug": r.slug, "timeout": r.deps.Timeout.String()}).Warn("[FORM] timeout memuat template")
	return ErrLoadTimeout
}

// Restore memulihkan draft tersimpan: template dimuat ulang lalu opsi wilayah
// untuk id yang sudah ada di-hydrate tanpa menghapus pilihan.
func (r *Renderer) Restore(ctx context.Context, d submodel.Draft) error {
	r.mu.Lock()
	r.draft = d.Clone()
	if r.draft.Values == nil {
		r.draft.Values = map[string]string{}
	}
	r.mu.Unlock()

	if err := r.Load(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	if d.Status == submodel.DraftStatusSubmitted && d.SubmissionID != "" {
		snap := subsvc.NewSuccessSnapshot(d.SubmissionID, d.UpdatedAt, r.deps.Location, r.schema.ProgramName)
		r.success = &snap
		r.state = StateSuccess
	}
	hydrate := r.cascade.BeginHydrate(r.draft.Values)
	r.mu.Unlock()

	hydrate(ctx)
	return nil
}

// Change mengubah satu field. Field wilayah menjalankan transisi cascade
// (anak-anaknya dikosongkan lalu opsi level anak dimuat). NIK/email memicu
// auto-fill di background.
func (r *Renderer) Change(ctx context.Context, field, value string) error {
	r.mu.Lock()
	if r.closed || r.state != StateReady {
		r.mu.Unlock()
		return ErrNotReady
	}
	if !r.knownField(field) {
		r.mu.Unlock()
		return ErrUnknownField
	}

	var fetch func(context.Context)
	if level, ok := locmodel.LevelForField(field); ok {
		fetch = r.cascade.Select(level, strings.TrimSpace(value), r.draft.Values)
	} else {
		r.draft.Values[field] = value
	}
	r.submitError = ""
	r.mu.Unlock()

	if fetch != nil {
		fetch(ctx)
	}

	switch field {
	case "nik":
		r.triggerAutoFill(subsvc.LookupByNIK, value)
	case "email":
		r.triggerAutoFill(subsvc.LookupByEmail, value)
	}

	r.persist(ctx)
	return nil
}

// knownField: field personal (termasuk anak reveal) atau field kategori mana pun.
// Dipanggil dengan mu terkunci.
func (r *Renderer) knownField(name string) bool {
	for _, f := range r.schema.PersonalFields() {
		if f.FieldName() == name {
			return true
		}
		if f.Reveals != nil && f.Reveals.FieldName() == name {
			return true
		}
	}
	for _, sec := range r.schema.Categories {
		for _, f := range sec.Fields {
			if f.FieldName() == name {
				return true
			}
		}
	}
	return false
}

func (r *Renderer) SetCategory(ctx context.Context, c schema.Category) error {
	if !c.Valid() {
		return ErrUnknownField
	}
	r.mu.Lock()
	if r.closed || r.state != StateReady {
		r.mu.Unlock()
		return ErrNotReady
	}
	r.draft.Category = c
	r.mu.Unlock()
	r.persist(ctx)
	return nil
}

func (r *Renderer) SetTerms(ctx context.Context, accepted bool) error {
	r.mu.Lock()
	if r.closed || r.state != StateReady {
		r.mu.Unlock()
		return ErrNotReady
	}
	r.draft.TermsAccepted = accepted
	r.mu.Unlock()
	r.persist(ctx)
	return nil
}

// Gate menghitung ulang status tombol kirim dari draft saat ini.
func (r *Renderer) Gate() SubmitGate {
	r.mu.Lock()
	defer r.mu.Unlock()
	return computeGate(r.schema, r.draft)
}

// Submit mengirim draft. Gagal validasi tidak mengirim request; gagal di
// backend mengembalikan renderer ke Ready dengan draft utuh.
func (r *Renderer) Submit(ctx context.Context) (subsvc.SuccessSnapshot, error) {
	r.mu.Lock()
	if r.closed || r.state != StateReady {
		r.mu.Unlock()
		return subsvc.SuccessSnapshot{}, ErrNotReady
	}
	if gate := computeGate(r.schema, r.draft); gate.Disabled {
		r.mu.Unlock()
		notify.Error(r.notices, gate.Tooltip)
		return subsvc.SuccessSnapshot{}, ErrSubmitBlocked
	}
	r.state = StateSubmitting
	draft := r.draft.Clone()
	programName := r.schema.ProgramName
	r.mu.Unlock()

	payload := subsvc.PrepareSubmissionPayload(draft, draft.Category, r.cascade.Snapshot(), programName)
	id, err := r.deps.Submitter.Submit(ctx, payload)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return subsvc.SuccessSnapshot{}, ErrNotReady
	}
	if err != nil {
		r.state = StateReady
		r.submitError = subsvc.SubmitErrorMessage(err)
		r.mu.Unlock()
		notify.Error(r.notices, r.submitErrorMessage())
		return subsvc.SuccessSnapshot{}, err
	}

	now := r.deps.Now()
	snap := subsvc.NewSuccessSnapshot(id, now, r.deps.Location, programName)
	r.success = &snap
	r.state = StateSuccess
	r.draft.Status = submodel.DraftStatusSubmitted
	r.draft.SubmissionID = id
	r.mu.Unlock()

	notify.Success(r.notices, MsgSubmitSuccess)
	r.deps.Log.WithFields(logrus.Fields{"slug": r.slug, "submission_id": id}).Info("[FORM] pendaftaran terkirim")
	r.persist(ctx)
	return snap, nil
}

func (r *Renderer) submitErrorMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submitError
}

// Value mengembalikan nilai satu field draft saat ini.
func (r *Renderer) Value(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draft.Value(name)
}

// Draft mengembalikan salinan draft.
func (r *Renderer) Draft() submodel.Draft {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draft.Clone()
}

// Close (unmount): semua update yang masih berjalan menjadi no-op.
func (r *Renderer) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cascade.Close()
}

// Wait menunggu pekerjaan background (load, auto-fill) selesai.
func (r *Renderer) Wait() { r.bg.Wait() }

func (r *Renderer) persist(ctx context.Context) {
	if r.deps.Store == nil {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	d := r.draft.Clone()
	r.mu.Unlock()
	d.UpdatedAt = r.deps.Now()
	if err := r.deps.Store.Save(ctx, d); err != nil {
		r.deps.Log.WithError(err).WithField("draft_id", d.ID.String()).Warn("[FORM] gagal menyimpan draft")
	}
}
