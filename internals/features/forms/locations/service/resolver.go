package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"impala_backend/internals/features/forms/locations/model"
	"impala_backend/internals/helpers/apiclient"
	"impala_backend/internals/helpers/cache"
)

// Resolver mengambil opsi wilayah dari layanan data wilayah (geo-base).
// Hasil sukses di-cache; request identik yang berjalan bersamaan digabung.
type Resolver struct {
	baseURL string
	http    apiclient.HTTPClient
	cache   *cache.TTL[[]model.LocationNode]
	group   singleflight.Group
	log     logrus.FieldLogger
}

func NewResolver(baseURL string, hc apiclient.HTTPClient, c *cache.TTL[[]model.LocationNode], log logrus.FieldLogger) *Resolver {
	if hc == nil {
		hc = apiclient.NewHTTPClient(0)
	}
	if c == nil {
		c = cache.New[[]model.LocationNode](cache.DefaultMaxEntries, cache.DefaultTTL, nil)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		cache:   c,
		log:     log,
	}
}

func (r *Resolver) LoadProvinces(ctx context.Context) ([]model.LocationNode, error) {
	return r.Load(ctx, model.LevelProvince, "")
}

func (r *Resolver) LoadRegencies(ctx context.Context, provinceID string) ([]model.LocationNode, error) {
	return r.Load(ctx, model.LevelRegency, provinceID)
}

func (r *Resolver) LoadDistricts(ctx context.Context, regencyID string) ([]model.LocationNode, error) {
	return r.Load(ctx, model.LevelDistrict, regencyID)
}

func (r *Resolver) LoadVillages(ctx context.Context, districtID string) ([]model.LocationNode, error) {
	return r.Load(ctx, model.LevelVillage, districtID)
}

// Load mengambil opsi untuk level dengan parent parentID.
//   - parent kosong (selain provinsi) → list kosong tanpa request;
//   - gagal di level provinsi → daftar provinsi statis + error;
//   - gagal di level lain → list kosong + error.
func (r *Resolver) Load(ctx context.Context, level model.Level, parentID string) ([]model.LocationNode, error) {
	parentID = strings.TrimSpace(parentID)
	if level != model.LevelProvince && parentID == "" {
		return []model.LocationNode{}, nil
	}

	path, err := geoPath(level, parentID)
	if err != nil {
		return []model.LocationNode{}, err
	}

	if nodes, ok := r.cache.Get(path); ok {
		return cloneNodes(nodes), nil
	}

	v, err, _ := r.group.Do(path, func() (interface{}, error) {
		nodes, err := r.fetch(ctx, path)
		if err != nil {
			return nil, err
		}
		r.cache.Set(path, nodes)
		return nodes, nil
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{"level": level.String(), "parent_id": parentID}).
			WithError(err).Warn("[GEO] gagal memuat data wilayah")
		if level == model.LevelProvince {
			return cloneNodes(model.StaticProvinces), err
		}
		return []model.LocationNode{}, err
	}
	return cloneNodes(v.([]model.LocationNode)), nil
}

func geoPath(level model.Level, parentID string) (string, error) {
	switch level {
	case model.LevelProvince:
		return "/provinsi.json", nil
	case model.LevelRegency:
		return "/kabupaten/" + url.PathEscape(parentID) + ".json", nil
	case model.LevelDistrict:
		return "/kecamatan/" + url.PathEscape(parentID) + ".json", nil
	case model.LevelVillage:
		return "/kelurahan/" + url.PathEscape(parentID) + ".json", nil
	}
	return "", fmt.Errorf("level wilayah tidak dikenal: %d", level)
}

func (r *Resolver) fetch(ctx context.Context, path string) ([]model.LocationNode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo %s: status %d", path, resp.StatusCode)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var records []model.GeoRecord
	if err := sonic.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("geo %s: %w", path, err)
	}
	nodes := make([]model.LocationNode, 0, len(records))
	for _, rec := range records {
		if n := rec.Node(); n.Value != "" {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func cloneNodes(in []model.LocationNode) []model.LocationNode {
	return append([]model.LocationNode{}, in...)
}
