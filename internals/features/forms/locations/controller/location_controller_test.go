package controller

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impala_backend/internals/features/forms/locations/model"
	"impala_backend/internals/logger"
)

type stubLoader struct {
	nodes []model.LocationNode
	err   error
	got   []string
}

func (s *stubLoader) Load(_ context.Context, level model.Level, parentID string) ([]model.LocationNode, error) {
	s.got = append(s.got, level.String()+":"+parentID)
	return s.nodes, s.err
}

type body struct {
	Success       bool                 `json:"success"`
	Message       string               `json:"message"`
	Data          []model.LocationNode `json:"data"`
	Notifications []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"notifications"`
}

func do(t *testing.T, loader *stubLoader, path string) body {
	t.Helper()
	app := fiber.New()
	ctrl := NewLocationController(loader, logger.Discard())
	app.Get("/provinces", ctrl.GetProvinces)
	app.Get("/regencies/:province_id", ctrl.GetRegencies)
	app.Get("/villages/:district_id", ctrl.GetVillages)

	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	var b body
	require.NoError(t, sonic.Unmarshal(raw, &b))
	return b
}

func TestGetRegencies_PassesParent(t *testing.T) {
	loader := &stubLoader{nodes: []model.LocationNode{{Value: "3273", Label: "KOTA BANDUNG"}}}
	b := do(t, loader, "/regencies/32")

	assert.True(t, b.Success)
	assert.Equal(t, []string{"regency:32"}, loader.got)
	assert.Equal(t, "KOTA BANDUNG", b.Data[0].Label)
	assert.Empty(t, b.Notifications)
}

func TestGetProvinces_FailureStillReturnsFallback(t *testing.T) {
	loader := &stubLoader{nodes: model.StaticProvinces, err: errors.New("geo down")}
	b := do(t, loader, "/provinces")

	assert.True(t, b.Success)
	assert.Len(t, b.Data, len(model.StaticProvinces))
	require.Len(t, b.Notifications, 1)
	assert.Equal(t, "Failed to load provinces", b.Notifications[0].Message)
}

func TestGetVillages_NilBecomesEmptyList(t *testing.T) {
	b := do(t, &stubLoader{err: errors.New("boom")}, "/villages/3273010")
	assert.NotNil(t, b.Data)
	assert.Empty(t, b.Data)
}
