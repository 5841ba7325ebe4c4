package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"impala_backend/internals/configs"
	database "impala_backend/internals/databases"
	"impala_backend/internals/features/forms/form_submissions/scheduler"
	subsvc "impala_backend/internals/features/forms/form_submissions/service"
	tplsvc "impala_backend/internals/features/forms/form_templates/service"
	locmodel "impala_backend/internals/features/forms/locations/model"
	locsvc "impala_backend/internals/features/forms/locations/service"
	pfsvc "impala_backend/internals/features/forms/public_form/service"
	helper "impala_backend/internals/helpers"
	"impala_backend/internals/helpers/apiclient"
	"impala_backend/internals/helpers/cache"
	"impala_backend/internals/logger"
	middlewares "impala_backend/internals/middlewares"
	routes "impala_backend/internals/route"
)

func main() {
	cfg := configs.LoadEnv()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ErrorHandler:            helper.ErrorHandler,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("requestid", id)
		return c.Next()
	})

	middlewares.SetupMiddlewares(app, cfg, log)

	// 🔌 DB (opsional): tanpa DB_HOST draft disimpan di memori
	var (
		db    *gorm.DB
		store subsvc.DraftStore
	)
	if cfg.DB.Enabled() {
		var err error
		db, err = database.ConnectDB(cfg.DB, log)
		if err != nil {
			log.WithError(err).Fatal("❌ Gagal konek DB")
		}
		database.TunePool(db, log)
		if err := database.Migrate(db); err != nil {
			log.WithError(err).Fatal("❌ Gagal migrasi form_drafts")
		}
		store = subsvc.NewGormDraftStore(db)
	} else {
		log.Warn("⚠️ DB_HOST kosong, draft hanya disimpan di memori")
		store = subsvc.NewMemoryDraftStore(nil)
	}

	// 🌐 klien backend Impala + data wilayah
	httpClient := apiclient.NewHTTPClient(cfg.HTTPClientTimeout)
	backend := apiclient.New(cfg.BackendAPIURL, cfg.BackendAPIToken, httpClient)
	templates := tplsvc.NewTemplateClient(backend)
	resolver := locsvc.NewResolver(cfg.GeoAPIURL, httpClient,
		cache.New[[]locmodel.LocationNode](50, 5*time.Minute, nil), log.WithField("component", "geo"))

	sessions := pfsvc.NewSessions(pfsvc.Deps{
		Templates:    templates,
		Locations:    resolver,
		Submitter:    subsvc.NewSubmitter(backend, log.WithField("component", "submit")),
		AutoFill:     subsvc.NewAutoFill(backend, log.WithField("component", "autofill")),
		Store:        store,
		Timeout:      cfg.FormLoadTimeout,
		Location:     cfg.Location(),
		CategoryMode: cfg.AutoFillCategoryMode,
		Log:          log.WithField("component", "public_form"),
	})
	workspaces := tplsvc.NewWorkspaces(func() *tplsvc.Workspace {
		return tplsvc.NewWorkspace(templates, &tplsvc.ClipboardBuffer{}, cfg.PublicOrigin, log.WithField("component", "builder"))
	}, cfg.DraftTTL, nil)

	// ⏱ cleanup draft basi + sesi idle
	cleanup, err := scheduler.StartDraftCleanupCron(store, scheduler.CleanupConfig{
		TTL:      cfg.DraftTTL,
		Schedule: cfg.DraftCleanupCron,
	}, log.WithField("component", "cleanup"), func(cutoff time.Time) {
		n := sessions.PruneIdle(cutoff)
		m := workspaces.Prune()
		log.WithFields(logrus.Fields{"sessions": n, "workspaces": m}).Debug("[CLEANUP] sesi idle dibuang")
	})
	if err != nil {
		log.WithError(err).Fatal("❌ Jadwal cleanup tidak valid")
	}

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{
		Config:     cfg,
		DB:         db,
		Locations:  resolver,
		Sessions:   sessions,
		Workspaces: workspaces,
		Log:        log,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Infof("✅ Listening on :%s", cfg.Port)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.WithError(err).Fatal("server error")
		}
	}()

	waitForShutdown(app, cleanup, db, log)
}

// graceful shutdown: hentikan HTTP, tunggu job cron, tutup pool DB
func waitForShutdown(app *fiber.App, c *cron.Cron, db *gorm.DB, log *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.WithError(err).Warn("shutdown HTTP tidak bersih")
	}
	<-c.Stop().Done()
	database.Close(db)
	log.Info("👋 server berhenti")
}
