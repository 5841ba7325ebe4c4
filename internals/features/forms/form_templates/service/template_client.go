package service

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/text/cases"

	"impala_backend/internals/features/forms/form_templates/dto"
	"impala_backend/internals/features/forms/form_templates/model"
	"impala_backend/internals/helpers/apiclient"
)

// TemplateAPI adalah operasi backend yang dipakai Workspace dan form publik.
type TemplateAPI interface {
	List(ctx context.Context) ([]model.FormTemplate, error)
	Create(ctx context.Context, req dto.TemplateRequest) (model.FormTemplate, error)
	Update(ctx context.Context, id model.TemplateID, req dto.TemplateRequest) (model.FormTemplate, error)
	Publish(ctx context.Context, id model.TemplateID) (model.FormTemplate, error)
	GetBySlug(ctx context.Context, slug string) (model.FormTemplate, error)
	Delete(ctx context.Context, id model.TemplateID) error
	SearchPrograms(ctx context.Context, search string) ([]dto.ProgramOption, error)
	ListSubmissions(ctx context.Context, programName string) ([]dto.Submission, error)
}

type TemplateClient struct {
	api *apiclient.Client
}

func NewTemplateClient(api *apiclient.Client) *TemplateClient {
	return &TemplateClient{api: api}
}

func (c *TemplateClient) List(ctx context.Context) ([]model.FormTemplate, error) {
	out := []model.FormTemplate{}
	if err := c.api.Get(ctx, "/form-templates", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TemplateClient) Create(ctx context.Context, req dto.TemplateRequest) (model.FormTemplate, error) {
	var out model.FormTemplate
	err := c.api.Post(ctx, "/form-templates", req, &out)
	return out, err
}

func (c *TemplateClient) Update(ctx context.Context, id model.TemplateID, req dto.TemplateRequest) (model.FormTemplate, error) {
	var out model.FormTemplate
	err := c.api.Put(ctx, "/form-templates/"+url.PathEscape(id.String()), req, &out)
	return out, err
}

func (c *TemplateClient) Publish(ctx context.Context, id model.TemplateID) (model.FormTemplate, error) {
	var out model.FormTemplate
	err := c.api.Post(ctx, "/form-templates/"+url.PathEscape(id.String())+"/publish", nil, &out)
	return out, err
}

func (c *TemplateClient) GetBySlug(ctx context.Context, slug string) (model.FormTemplate, error) {
	var out model.FormTemplate
	err := c.api.Get(ctx, "/form-templates/"+url.PathEscape(slug), nil, &out)
	return out, err
}

func (c *TemplateClient) Delete(ctx context.Context, id model.TemplateID) error {
	return c.api.Delete(ctx, "/form-templates/"+url.PathEscape(id.String()))
}

// SearchPrograms mengambil daftar program; nama kosong dibuang dan duplikat
// (tanpa membedakan huruf besar/kecil) hanya diambil yang pertama.
func (c *TemplateClient) SearchPrograms(ctx context.Context, search string) ([]dto.ProgramOption, error) {
	var q url.Values
	if s := strings.TrimSpace(search); s != "" {
		q = url.Values{"search": {s}}
	}
	var raw []dto.ProgramOption
	if err := c.api.Get(ctx, "/form-builder/program-name", q, &raw); err != nil {
		return nil, err
	}
	return DedupePrograms(raw), nil
}

func DedupePrograms(in []dto.ProgramOption) []dto.ProgramOption {
	fold := cases.Fold()
	seen := make(map[string]bool, len(in))
	out := make([]dto.ProgramOption, 0, len(in))
	for _, p := range in {
		name := strings.TrimSpace(p.ProgramName)
		if name == "" {
			continue
		}
		key := fold.String(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, dto.ProgramOption{ProgramName: name})
	}
	return out
}

func (c *TemplateClient) ListSubmissions(ctx context.Context, programName string) ([]dto.Submission, error) {
	out := []dto.Submission{}
	q := url.Values{"program_name": {strings.TrimSpace(programName)}}
	if err := c.api.Get(ctx, "/impala", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
