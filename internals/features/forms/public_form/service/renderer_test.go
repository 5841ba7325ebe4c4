package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schema "impala_backend/internals/features/forms/form_schema/model"
	submodel "impala_backend/internals/features/forms/form_submissions/model"
	subsvc "impala_backend/internals/features/forms/form_submissions/service"
	tplmodel "impala_backend/internals/features/forms/form_templates/model"
	locmodel "impala_backend/internals/features/forms/locations/model"
	locsvc "impala_backend/internals/features/forms/locations/service"
	"impala_backend/internals/helpers/apiclient"
	"impala_backend/internals/helpers/notify"
	"impala_backend/internals/logger"
)

/* ===== fakes ===== */

type fakeTemplates struct {
	tpl     tplmodel.FormTemplate
	err     error
	release chan struct{} // nil = langsung jawab
}

func (f *fakeTemplates) GetBySlug(ctx context.Context, slug string) (tplmodel.FormTemplate, error) {
	if f.release != nil {
		<-f.release
	}
	return f.tpl, f.err
}

type fakeLocations struct{}

var geo = map[string][]locmodel.LocationNode{
	"province:":       {{Value: "11", Label: "ACEH"}, {Value: "32", Label: "JAWA BARAT"}},
	"regency:32":      {{Value: "3273", Label: "KOTA BANDUNG"}},
	"regency:11":      {{Value: "1171", Label: "KOTA BANDA ACEH"}},
	"district:3273":   {{Value: "3273010", Label: "SUKASARI"}},
	"village:3273010": {{Value: "3273010001", Label: "SARIJADI"}},
}

func (fakeLocations) Load(_ context.Context, level locmodel.Level, parentID string) ([]locmodel.LocationNode, error) {
	return append([]locmodel.LocationNode{}, geo[level.String()+":"+parentID]...), nil
}

type fakeSubmitter struct {
	mu       sync.Mutex
	id       string
	err      error
	payloads []subsvc.SubmissionPayload
}

func (f *fakeSubmitter) Submit(_ context.Context, p subsvc.SubmissionPayload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return f.id, f.err
}

type fakeLookup struct {
	byKey map[subsvc.LookupKey]subsvc.Participant
}

func (f fakeLookup) Lookup(_ context.Context, key subsvc.LookupKey, value string) subsvc.Participant {
	return f.byKey[key]
}

func publishedTemplate() tplmodel.FormTemplate {
	return tplmodel.FormTemplate{
		ID:                 "1",
		UniqueSlug:         "beasiswa-2024",
		ProgramName:        "Beasiswa 2024",
		IsPublished:        true,
		WhatsappGroupLink:  "https://chat.whatsapp.com/abc",
		AfterSubmitMessage: "Terima kasih!",
	}
}

func testDeps(tpl TemplateSource, sub Submitter) Deps {
	return Deps{
		Templates: tpl,
		Locations: fakeLocations{},
		Submitter: sub,
		Now:       func() time.Time { return time.Date(2025, 8, 17, 3, 5, 0, 0, time.UTC) },
		Location:  time.FixedZone("WIB", 7*60*60),
		Log:       logger.Discard(),
	}
}

func readyRenderer(t *testing.T, sub Submitter) *Renderer {
	t.Helper()
	r := NewRenderer("beasiswa-2024", testDeps(&fakeTemplates{tpl: publishedTemplate()}, sub))
	require.NoError(t, r.Load(context.Background()))
	require.Equal(t, StateReady, r.State())
	return r
}

func fillRequired(t *testing.T, r *Renderer) {
	t.Helper()
	ctx := context.Background()
	for _, kv := range [][2]string{
		{"full_name", "Siti Aminah"}, {"email", "siti@contoh.id"}, {"phone", "081234567890"},
		{"gender", "Perempuan"}, {"date_of_birth", "2001-04-12"}, {"education", "S1"},
		{"address", "Jl. Merdeka 1"}, {"province_id", "32"}, {"regency_id", "3273"},
		{"district_id", "3273010"}, {"village_id", "3273010001"}, {"postal_code", "40151"},
	} {
		require.NoError(t, r.Change(ctx, kv[0], kv[1]), kv[0])
	}
}

/* ===== load ===== */

func TestLoad_TimeoutWinsAndLateResultIsDiscarded(t *testing.T) {
	src := &fakeTemplates{tpl: publishedTemplate(), release: make(chan struct{})}
	fire := make(chan time.Time)
	var asked time.Duration
	deps := testDeps(src, &fakeSubmitter{})
	deps.After = func(d time.Duration) <-chan time.Time { asked = d; return fire }
	r := NewRenderer("beasiswa-2024", deps)

	errc := make(chan error, 1)
	go func() { errc <- r.Load(context.Background()) }()
	fire <- time.Now() // 10 detik simulasi berlalu

	assert.ErrorIs(t, <-errc, ErrLoadTimeout)
	assert.Equal(t, DefaultLoadTimeout, asked)
	assert.Equal(t, StateError, r.State())
	assert.True(t, r.HasTimeout())

	close(src.release) // respons datang terlambat
	r.Wait()

	v := r.View()
	assert.Equal(t, StateError, v.State)
	assert.True(t, v.HasTimeout)
	assert.Equal(t, MsgLoadTimeout, v.Error)
}

func TestLoad_NotFoundIsNotTimeout(t *testing.T) {
	src := &fakeTemplates{err: &apiclient.APIError{Status: 404, Message: "not found"}}
	r := NewRenderer("hilang", testDeps(src, &fakeSubmitter{}))

	err := r.Load(context.Background())

	assert.ErrorIs(t, err, ErrNotFound)
	v := r.View()
	assert.Equal(t, StateError, v.State)
	assert.False(t, v.HasTimeout)
	assert.Equal(t, MsgFormNotFound, v.Error)
}

func TestLoad_ServerErrorMessage(t *testing.T) {
	src := &fakeTemplates{err: &apiclient.APIError{Status: 500}}
	r := NewRenderer("x", testDeps(src, &fakeSubmitter{}))

	require.Error(t, r.Load(context.Background()))
	assert.Equal(t, MsgLoadFailed, r.View().Error)
}

func TestClose_PendingLoadBecomesNoop(t *testing.T) {
	src := &fakeTemplates{tpl: publishedTemplate(), release: make(chan struct{})}
	r := NewRenderer("beasiswa-2024", testDeps(src, &fakeSubmitter{}))

	errc := make(chan error, 1)
	go func() { errc <- r.Load(context.Background()) }()
	r.Close()
	close(src.release)

	assert.ErrorIs(t, <-errc, ErrNotReady)
	assert.Equal(t, StateLoading, r.State())
}

/* ===== view / field engine ===== */

func TestView_OrderAndDisabilityReveal(t *testing.T) {
	r := readyRenderer(t, &fakeSubmitter{})
	ctx := context.Background()

	ids := func() []string {
		var out []string
		for _, f := range r.View().PersonalFields {
			out = append(out, f.ID)
		}
		return out
	}
	assert.NotContains(t, ids(), "disability_type")

	require.NoError(t, r.Change(ctx, "disability_status", "Penyandang disabilitas"))
	got := ids()
	idx := indexOf(got, "disability_status")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "disability_type", got[idx+1])

	require.NoError(t, r.Change(ctx, "disability_status", schema.DefaultDisabilityStatus))
	assert.NotContains(t, ids(), "disability_type")
}

func fptr(v float64) *float64 { return &v }

func indexOf(xs []string, x string) int {
	for i, v := range xs {
		if v == x {
			return i
		}
	}
	return -1
}

func TestView_FieldDispatch(t *testing.T) {
	r := readyRenderer(t, &fakeSubmitter{})
	v := r.View()

	byID := map[string]FieldView{}
	for _, f := range v.PersonalFields {
		byID[f.ID] = f
	}
	assert.Equal(t, ControlInput, byID["full_name"].Control)
	assert.Equal(t, "email", byID["email"].InputType)
	assert.Equal(t, "tel", byID["phone"].InputType)
	assert.Equal(t, "date", byID["date_of_birth"].InputType)
	assert.Equal(t, ControlTextarea, byID["address"].Control)
	require.Equal(t, ControlSelect, byID["gender"].Control)
	assert.Equal(t, Option{Value: "", Label: "Pilih Jenis Kelamin"}, byID["gender"].Options[0])

	// provinsi terisi dari cascade, level anak terkunci sampai parent dipilih
	assert.Len(t, byID["province_id"].Options, 3)
	assert.False(t, byID["province_id"].Disabled)
	assert.True(t, byID["regency_id"].Disabled)

	assert.Len(t, v.Categories, 5)
	assert.Empty(t, v.CategoryFields)
	assert.True(t, v.Submit.Disabled)
	assert.Equal(t, TooltipNoCategory, v.Submit.Tooltip)
}

func TestFieldView_UnknownTypeFallsBackToText(t *testing.T) {
	fv := fieldView(schema.FieldDefinition{ID: "hobby", Type: "color", Label: "Hobi"}, map[string]string{}, locsvc.Snapshot{})
	assert.Equal(t, ControlInput, fv.Control)
	assert.Equal(t, "text", fv.InputType)

	num := fieldView(schema.FieldDefinition{ID: "semester", Type: schema.FieldNumber, Min: fptr(1), Max: fptr(14)}, map[string]string{}, locsvc.Snapshot{})
	assert.Equal(t, "number", num.InputType)
	assert.Equal(t, 1.0, *num.Min)
	assert.Equal(t, 14.0, *num.Max)
}

func TestView_CategoryFieldsAfterSelection(t *testing.T) {
	r := readyRenderer(t, &fakeSubmitter{})
	require.NoError(t, r.SetCategory(context.Background(), schema.CategoryMahasiswa))

	v := r.View()
	require.NotEmpty(t, v.CategoryFields)
	assert.Equal(t, "institution", v.CategoryFields[0].ID)
	assert.Equal(t, schema.CategoryMahasiswa, v.SelectedCategory)

	assert.ErrorIs(t, r.SetCategory(context.Background(), "alien"), ErrUnknownField)
}

/* ===== cascade lewat renderer ===== */

func TestChange_ProvinceChangeClearsDescendants(t *testing.T) {
	r := readyRenderer(t, &fakeSubmitter{})
	ctx := context.Background()
	require.NoError(t, r.Change(ctx, "province_id", "32"))
	require.NoError(t, r.Change(ctx, "regency_id", "3273"))
	require.NoError(t, r.Change(ctx, "district_id", "3273010"))
	require.NoError(t, r.Change(ctx, "village_id", "3273010001"))
	assert.Equal(t, "SARIJADI", r.Draft().Values["village_name"])

	require.NoError(t, r.Change(ctx, "province_id", "11"))

	d := r.Draft()
	for _, k := range []string{"regency_id", "district_id", "village_id", "regency_name", "district_name", "village_name"} {
		assert.Empty(t, d.Values[k], k)
	}
	assert.Equal(t, "ACEH", d.Values["province_name"])
	v := r.View()
	for _, f := range v.PersonalFields {
		if f.ID == "regency_id" {
			assert.Equal(t, "1171", f.Options[1].Value)
		}
		if f.ID == "district_id" {
			assert.Len(t, f.Options, 1)
			assert.True(t, f.Disabled)
		}
	}
}

func TestChange_UnknownFieldRejected(t *testing.T) {
	r := readyRenderer(t, &fakeSubmitter{})
	assert.ErrorIs(t, r.Change(context.Background(), "password", "x"), ErrUnknownField)
}

/* ===== gate ===== */

func TestGate_EnabledOnlyWhenEverythingFilled(t *testing.T) {
	r := readyRenderer(t, &fakeSubmitter{})
	ctx := context.Background()
	fillRequired(t, r)

	assert.Equal(t, TooltipNoCategory, r.Gate().Tooltip)
	require.NoError(t, r.SetCategory(ctx, schema.CategoryUmum))
	assert.Equal(t, TooltipNoTerms, r.Gate().Tooltip)
	require.NoError(t, r.SetTerms(ctx, true))
	assert.False(t, r.Gate().Disabled)

	require.NoError(t, r.Change(ctx, "postal_code", "   "))
	g := r.Gate()
	assert.True(t, g.Disabled)
	assert.Equal(t, []string{"postal_code"}, g.Missing)
	assert.Contains(t, g.Tooltip, "Kode Pos")
}

/* ===== submit ===== */

func TestSubmit_SuccessScenario(t *testing.T) {
	sub := &fakeSubmitter{id: "77"}
	r := readyRenderer(t, sub)
	ctx := context.Background()
	fillRequired(t, r)
	require.NoError(t, r.SetCategory(ctx, schema.CategoryMahasiswa))
	require.NoError(t, r.Change(ctx, "institution", "UI"))
	require.NoError(t, r.Change(ctx, "major", "CS"))
	require.NoError(t, r.SetTerms(ctx, true))

	snap, err := r.Submit(ctx)

	require.NoError(t, err)
	assert.Equal(t, subsvc.SuccessSnapshot{SubmissionID: "77", SubmittedAt: "17 Agustus 2025 pukul 10.05 WIB", ProgramName: "Beasiswa 2024"}, snap)
	assert.Equal(t, StateSuccess, r.State())
	require.Len(t, sub.payloads, 1)
	p := sub.payloads[0]
	assert.Equal(t, "UI", p["institution"])
	assert.Equal(t, "Mahasiswa", p["category"])
	assert.Equal(t, "KOTA BANDUNG", p["regency_name"])
	assert.NotContains(t, p, "business_name")

	v := r.View()
	require.NotNil(t, v.Success)
	assert.Equal(t, "Terima kasih!", v.AfterSubmitMessage)
	assert.Equal(t, "https://chat.whatsapp.com/abc", v.WhatsappGroupLink)

	// Success terminal
	assert.ErrorIs(t, r.Change(ctx, "full_name", "lain"), ErrNotReady)
	_, err = r.Submit(ctx)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestSubmit_BlockedMakesNoRequest(t *testing.T) {
	sub := &fakeSubmitter{id: "1"}
	r := readyRenderer(t, sub)

	_, err := r.Submit(context.Background())

	assert.ErrorIs(t, err, ErrSubmitBlocked)
	assert.Empty(t, sub.payloads)
	assert.Equal(t, StateReady, r.State())
	notices := r.Notices()
	require.NotEmpty(t, notices)
	assert.Equal(t, notify.LevelError, notices[len(notices)-1].Level)
}

func TestSubmit_FailureKeepsDraft(t *testing.T) {
	sub := &fakeSubmitter{err: &apiclient.APIError{Status: 422, Message: "NIK sudah terdaftar"}}
	r := readyRenderer(t, sub)
	ctx := context.Background()
	fillRequired(t, r)
	require.NoError(t, r.SetCategory(ctx, schema.CategoryUmum))
	require.NoError(t, r.SetTerms(ctx, true))
	before := r.Draft()

	_, err := r.Submit(ctx)

	require.Error(t, err)
	assert.Equal(t, StateReady, r.State())
	assert.Equal(t, before.Values, r.Draft().Values)
	assert.Equal(t, "NIK sudah terdaftar", r.View().SubmitError)

	// retry tanpa mengetik ulang
	sub.err, sub.id = nil, "9"
	_, err = r.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, r.State())
}

/* ===== auto-fill ===== */

func TestAutoFill_FillsOnlyEmptyFieldsAndHydrates(t *testing.T) {
	deps := testDeps(&fakeTemplates{tpl: publishedTemplate()}, &fakeSubmitter{})
	deps.AutoFill = fakeLookup{byKey: map[subsvc.LookupKey]subsvc.Participant{
		subsvc.LookupByEmail: {
			"full_name": "Nama Lama", "phone": "0899", "province_id": "32", "regency_id": "3273",
			"category": "Mahasiswa", "password": "x",
		},
	}}
	r := NewRenderer("beasiswa-2024", deps)
	require.NoError(t, r.Load(context.Background()))
	ctx := context.Background()

	require.NoError(t, r.Change(ctx, "full_name", "Siti Aminah"))
	require.NoError(t, r.Change(ctx, "email", "siti@contoh.id"))
	r.Wait()

	d := r.Draft()
	assert.Equal(t, "Siti Aminah", d.Values["full_name"])
	assert.Equal(t, "0899", d.Values["phone"])
	assert.Equal(t, "32", d.Values["province_id"])
	assert.NotContains(t, d.Values, "password")
	assert.Equal(t, schema.CategoryMahasiswa, d.Category)
	assert.ElementsMatch(t, []string{"phone", "province_id", "regency_id"}, d.AutoFilled)

	v := r.View()
	for _, f := range v.PersonalFields {
		if f.ID == "district_id" {
			assert.Equal(t, "3273010", f.Options[1].Value, "opsi kecamatan dimuat untuk regency hasil auto-fill")
		}
	}
}

func TestAutoFill_NIKDoesNotAdoptCategoryByDefault(t *testing.T) {
	deps := testDeps(&fakeTemplates{tpl: publishedTemplate()}, &fakeSubmitter{})
	deps.AutoFill = fakeLookup{byKey: map[subsvc.LookupKey]subsvc.Participant{
		subsvc.LookupByNIK: {"category": "UMKM", "address": "Jl. Lama"},
	}}
	r := NewRenderer("beasiswa-2024", deps)
	require.NoError(t, r.Load(context.Background()))

	require.NoError(t, r.Change(context.Background(), "nik", "3273010101010001"))
	r.Wait()

	d := r.Draft()
	assert.Equal(t, "Jl. Lama", d.Values["address"])
	assert.Empty(t, d.Category)
}

func TestAutoFill_BothModeAdoptsFromNIK(t *testing.T) {
	deps := testDeps(&fakeTemplates{tpl: publishedTemplate()}, &fakeSubmitter{})
	deps.CategoryMode = AutoFillCategoryBoth
	deps.AutoFill = fakeLookup{byKey: map[subsvc.LookupKey]subsvc.Participant{
		subsvc.LookupByNIK: {"category": "umkm"},
	}}
	r := NewRenderer("beasiswa-2024", deps)
	require.NoError(t, r.Load(context.Background()))

	require.NoError(t, r.Change(context.Background(), "nik", "3273010101010001"))
	r.Wait()
	assert.Equal(t, schema.CategoryUMKM, r.Draft().Category)
}

func TestAutoFill_DoesNotMixIntoUserProvince(t *testing.T) {
	deps := testDeps(&fakeTemplates{tpl: publishedTemplate()}, &fakeSubmitter{})
	deps.AutoFill = fakeLookup{byKey: map[subsvc.LookupKey]subsvc.Participant{
		subsvc.LookupByEmail: {"province_id": "32", "regency_id": "3273", "district_id": "3273010"},
	}}
	r := NewRenderer("beasiswa-2024", deps)
	require.NoError(t, r.Load(context.Background()))
	ctx := context.Background()

	require.NoError(t, r.Change(ctx, "province_id", "11"))
	require.NoError(t, r.Change(ctx, "email", "siti@contoh.id"))
	r.Wait()

	d := r.Draft()
	assert.Equal(t, "11", d.Values["province_id"])
	assert.NotContains(t, d.Values, "regency_id")
	assert.NotContains(t, d.Values, "district_id")
	assert.Empty(t, d.AutoFilled)

	snap := r.cascade.Snapshot()
	assert.Equal(t, []locmodel.LocationNode{{Value: "1171", Label: "KOTA BANDA ACEH"}}, snap.Regencies)
	assert.Empty(t, snap.Districts)

	p := subsvc.PrepareSubmissionPayload(d, d.Category, snap, "Beasiswa 2024")
	assert.Equal(t, "ACEH", p["province_name"])
	assert.NotContains(t, p, "regency_id")
	assert.NotContains(t, p, "district_id")
}

func TestAutoFill_LocationChainStopsAtFirstGap(t *testing.T) {
	deps := testDeps(&fakeTemplates{tpl: publishedTemplate()}, &fakeSubmitter{})
	deps.AutoFill = fakeLookup{byKey: map[subsvc.LookupKey]subsvc.Participant{
		subsvc.LookupByEmail: {"province_id": "32", "regency_id": "3273", "village_id": "3273010001"},
	}}
	r := NewRenderer("beasiswa-2024", deps)
	require.NoError(t, r.Load(context.Background()))

	require.NoError(t, r.Change(context.Background(), "email", "siti@contoh.id"))
	r.Wait()

	d := r.Draft()
	assert.Equal(t, "32", d.Values["province_id"])
	assert.Equal(t, "3273", d.Values["regency_id"])
	assert.NotContains(t, d.Values, "village_id")
	assert.Equal(t, []string{"province_id", "regency_id"}, d.AutoFilled)

	p := subsvc.PrepareSubmissionPayload(d, d.Category, r.cascade.Snapshot(), "Beasiswa 2024")
	assert.Equal(t, "JAWA BARAT", p["province_name"])
	assert.Equal(t, "KOTA BANDUNG", p["regency_name"])
	assert.NotContains(t, p, "village_id")
}

/* ===== restore ===== */

func TestRestore_KeepsSelectionsAndLoadsOptions(t *testing.T) {
	r := NewRenderer("beasiswa-2024", testDeps(&fakeTemplates{tpl: publishedTemplate()}, &fakeSubmitter{}))
	d := submodel.NewDraft("beasiswa-2024", "Beasiswa 2024")
	d.Values = map[string]string{"province_id": "32", "regency_id": "3273", "district_id": "3273010"}

	require.NoError(t, r.Restore(context.Background(), d))

	assert.Equal(t, d.ID, r.Draft().ID)
	assert.Equal(t, "3273010", r.Draft().Values["district_id"])
	v := r.View()
	for _, f := range v.PersonalFields {
		if f.ID == "village_id" {
			assert.Len(t, f.Options, 2)
			assert.False(t, f.Disabled)
		}
	}
}

func TestSessions_OpenGetDiscard(t *testing.T) {
	store := subsvc.NewMemoryDraftStore(nil)
	deps := testDeps(&fakeTemplates{tpl: publishedTemplate()}, &fakeSubmitter{})
	deps.Store = store
	sessions := NewSessions(deps)
	ctx := context.Background()

	r, err := sessions.Open(ctx, "beasiswa-2024")
	require.NoError(t, err)
	require.NoError(t, r.Change(ctx, "full_name", "Siti"))
	id := r.Draft().ID

	got, err := sessions.Get(ctx, "beasiswa-2024", id)
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = sessions.Get(ctx, "slug-lain", id)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// setelah sesi di memori hilang, draft dipulihkan dari store
	assert.Equal(t, 1, sessions.PruneIdle(time.Now().Add(time.Hour)))
	restored, err := sessions.Get(ctx, "beasiswa-2024", id)
	require.NoError(t, err)
	assert.NotSame(t, r, restored)
	assert.Equal(t, "Siti", restored.Draft().Values["full_name"])

	require.NoError(t, sessions.Discard(ctx, id))
	_, err = sessions.Get(ctx, "beasiswa-2024", id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessions_OpenFailureNotStored(t *testing.T) {
	sessions := NewSessions(testDeps(&fakeTemplates{err: errors.New("down")}, &fakeSubmitter{}))

	r, err := sessions.Open(context.Background(), "x")

	require.Error(t, err)
	assert.Equal(t, StateError, r.View().State)
	assert.Equal(t, 0, sessions.Len())
}
