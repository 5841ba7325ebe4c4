package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"impala_backend/internals/features/forms/locations/model"
	"impala_backend/internals/helpers/notify"
)

// Loader adalah sumber opsi wilayah; *Resolver memenuhinya.
type Loader interface {
	Load(ctx context.Context, level model.Level, parentID string) ([]model.LocationNode, error)
}

// Snapshot adalah salinan state cascade untuk render dan payload.
type Snapshot struct {
	Provinces []model.LocationNode `json:"provinces"`
	Regencies []model.LocationNode `json:"regencies"`
	Districts []model.LocationNode `json:"districts"`
	Villages  []model.LocationNode `json:"villages"`
	Loading   map[string]bool      `json:"loading"`
}

// Options mengembalikan list untuk level tertentu.
func (s Snapshot) Options(level model.Level) []model.LocationNode {
	switch level {
	case model.LevelProvince:
		return s.Provinces
	case model.LevelRegency:
		return s.Regencies
	case model.LevelDistrict:
		return s.Districts
	case model.LevelVillage:
		return s.Villages
	}
	return nil
}

// Cascade menyimpan opsi wilayah milik satu sesi form.
//
// Setiap level punya nomor generasi. Select menaikkan generasi semua level
// turunan, dan hasil fetch hanya dipakai jika generasinya masih sama, sehingga
// respons untuk parent lama tidak pernah menimpa respons parent terbaru.
type Cascade struct {
	mu       sync.Mutex
	loader   Loader
	notifier notify.Notifier
	log      logrus.FieldLogger

	options [4][]model.LocationNode
	loading [4]bool
	gen     [4]uint64
	closed  bool
}

func NewCascade(loader Loader, notifier notify.Notifier, log logrus.FieldLogger) *Cascade {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if notifier == nil {
		notifier = notify.Log{Entry: log}
	}
	return &Cascade{loader: loader, notifier: notifier, log: log}
}

// LoadProvinces memuat level teratas.
func (c *Cascade) LoadProvinces(ctx context.Context) {
	c.mu.Lock()
	c.gen[model.LevelProvince]++
	g := c.gen[model.LevelProvince]
	c.mu.Unlock()
	c.fetch(ctx, model.LevelProvince, "", g)
}

// Select adalah transisi setParentSelection: menyimpan id (dan namanya) ke
// values, menghapus semua id/nama turunan beserta opsi turunannya, lalu
// mengembalikan fungsi untuk memuat level anak. Semua perubahan state terjadi
// sebelum Select kembali; pemanggil menjalankan fetch di luar lock-nya sendiri.
// values harus dimiliki (dan dikunci) oleh pemanggil.
func (c *Cascade) Select(level model.Level, id string, values map[string]string) func(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	values[level.IDField()] = id
	if label := model.FindLabel(c.options[level], id); label != "" {
		values[level.NameField()] = label
	} else {
		delete(values, level.NameField())
	}

	for _, d := range level.Descendants() {
		delete(values, d.IDField())
		delete(values, d.NameField())
		c.options[d] = nil
		c.loading[d] = false
		c.gen[d]++
	}

	child, ok := level.Child()
	if !ok || id == "" {
		return func(context.Context) {}
	}
	g := c.gen[child]
	return func(ctx context.Context) { c.fetch(ctx, child, id, g) }
}

// Hydrate memuat opsi untuk id yang sudah diketahui (mode edit / auto-fill)
// tanpa menghapus pilihan apa pun.
func (c *Cascade) Hydrate(ctx context.Context, values map[string]string) {
	c.BeginHydrate(values)(ctx)
}

// BeginHydrate membaca id dari values dan mengambil generasi tiap level saat
// itu juga; fetch yang dikembalikan dijalankan di luar lock pemanggil. Select
// yang terjadi setelah BeginHydrate menaikkan generasi, sehingga hasil hydrate
// untuk parent lama dibuang. Level anak dimuat paralel karena semua id parent
// sudah tersedia. values harus dimiliki (dan dikunci) oleh pemanggil.
func (c *Cascade) BeginHydrate(values map[string]string) func(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	type job struct {
		level    model.Level
		parentID string
		gen      uint64
	}
	var jobs []job
	if len(c.options[model.LevelProvince]) == 0 {
		c.gen[model.LevelProvince]++
		jobs = append(jobs, job{model.LevelProvince, "", c.gen[model.LevelProvince]})
	}
	for _, parent := range []model.Level{model.LevelProvince, model.LevelRegency, model.LevelDistrict} {
		id := values[parent.IDField()]
		if id == "" {
			break
		}
		child, _ := parent.Child()
		c.gen[child]++
		jobs = append(jobs, job{child, id, c.gen[child]})
	}

	return func(ctx context.Context) {
		var eg errgroup.Group
		for _, j := range jobs {
			j := j
			eg.Go(func() error {
				c.fetch(ctx, j.level, j.parentID, j.gen)
				return nil
			})
		}
		_ = eg.Wait()
	}
}

func (c *Cascade) fetch(ctx context.Context, level model.Level, parentID string, g uint64) {
	c.mu.Lock()
	if c.closed || c.gen[level] != g {
		c.mu.Unlock()
		return
	}
	c.loading[level] = true
	c.mu.Unlock()

	nodes, err := c.loader.Load(ctx, level, parentID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.gen[level] != g {
		// respons untuk parent lama: dibuang
		return
	}
	c.loading[level] = false
	if err != nil {
		c.log.WithFields(logrus.Fields{"level": level.String(), "parent_id": parentID}).
			WithError(err).Error("[CASCADE] gagal memuat wilayah")
		notify.Error(c.notifier, fmt.Sprintf("Failed to load %s", level.Plural()))
	}
	if nodes == nil {
		nodes = []model.LocationNode{}
	}
	c.options[level] = nodes
}

// Label mencari label id pada opsi level yang sedang aktif.
func (c *Cascade) Label(level model.Level, id string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.FindLabel(c.options[level], id)
}

func (c *Cascade) Loading(level model.Level) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[level]
}

func (c *Cascade) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := func(l model.Level) []model.LocationNode {
		return append([]model.LocationNode{}, c.options[l]...)
	}
	loading := make(map[string]bool, len(model.Levels))
	for _, l := range model.Levels {
		loading[l.String()] = c.loading[l]
	}
	return Snapshot{
		Provinces: cp(model.LevelProvince),
		Regencies: cp(model.LevelRegency),
		Districts: cp(model.LevelDistrict),
		Villages:  cp(model.LevelVillage),
		Loading:   loading,
	}
}

// Close membuat semua fetch yang masih berjalan tidak lagi mengubah state.
func (c *Cascade) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
