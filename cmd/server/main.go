package main

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	cfs "github.com/goliatone/go-composite-fs"
	gconfig "github.com/goliatone/go-config/config"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	vecino "github.com/vecino-labs/vecino"
	"github.com/vecino-labs/vecino/middleware/csrf"
	"github.com/vecino-labs/vecino/provider/gotrue"
)

// Templates and assets ship inside the binary; disk copies are layered
// on top so local edits win during development.
//
//go:embed public views
var embeddedFS embed.FS

type App struct {
	config *gconfig.Container[*AppConfig]
	bunDB  *bun.DB
	client *gotrue.Client
	guard  *vecino.RouteGuard
	store  *vecino.IdentityStore
	repo   vecino.RepositoryManager
	srv    router.Server[*fiber.App]
	logger *glog.BaseLogger
}

func (a *App) Config() *AppConfig {
	return a.config.Raw()
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

// routerLogger adapts a glog logger to the portal's printf-style Logger.
type routerLogger struct {
	lgr glog.Logger
}

func (l routerLogger) Debug(format string, args ...any) {
	l.lgr.Debug(fmt.Sprintf(format, args...))
}

func (l routerLogger) Info(format string, args ...any) {
	l.lgr.Info(fmt.Sprintf(format, args...))
}

func (l routerLogger) Error(format string, args ...any) {
	l.lgr.Error(fmt.Sprintf(format, args...))
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("vecino"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg := gconfig.New(&AppConfig{}).
		WithLogger(lgr.GetLogger("config"))

	ctx := context.Background()
	if err := cfg.Load(ctx); err != nil {
		panic(err)
	}

	fmt.Println("============")
	fmt.Println(print.MaybeHighlightJSON(cfg.Raw()))
	fmt.Println("============")

	app := &App{
		config: cfg,
		logger: lgr,
	}

	if err := WithPersistence(ctx, app); err != nil {
		panic(err)
	}

	if err := WithIdentity(ctx, app); err != nil {
		panic(err)
	}
	defer app.client.Close()

	if err := WithHTTPServer(ctx, app); err != nil {
		panic(err)
	}

	store := vecino.NewIdentityStore()
	reconciler := vecino.NewIdentityReconciler(store, app.client,
		vecino.WithReconcilerLogger(routerLogger{app.GetLogger("identity")}),
	)
	reconciler.Start()
	defer reconciler.Stop()
	app.store = store

	RegisterRoutes(app)

	app.srv.Serve(app.Config().Server.GetAddress())

	WaitExitSignal()
}

func WithPersistence(ctx context.Context, app *App) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, app.Config().Persistence.GetDSN())
	if err != nil {
		return err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	models := []any{
		(*vecino.Building)(nil),
		(*vecino.Unit)(nil),
		(*vecino.VisitorPreregistration)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	repo := vecino.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		return err
	}

	app.bunDB = db
	app.repo = repo

	return nil
}

func WithIdentity(ctx context.Context, app *App) error {
	pcfg := app.Config().Provider

	client, err := gotrue.NewClient(gotrue.Config{
		BaseURL:   pcfg.BaseURL,
		APIKey:    pcfg.APIKey,
		JWTSecret: pcfg.JWTSecret,
		JWKSURL:   pcfg.JWKSURL,
	})
	if err != nil {
		return err
	}

	materializer := vecino.NewSessionMaterializer(client,
		vecino.WithMaterializerLogger(routerLogger{app.GetLogger("session")}),
	)

	guard, err := vecino.NewRouteGuard(materializer, app.Config().Gate)
	if err != nil {
		return err
	}
	guard.Logger = routerLogger{app.GetLogger("gate")}

	app.client = client
	app.guard = guard

	return nil
}

func WithHTTPServer(ctx context.Context, app *App) error {
	templatesFS, err := fs.Sub(embeddedFS, "views")
	if err != nil {
		return fmt.Errorf("unable to scope embedded templates: %w", err)
	}

	// Disk overrides embedded, so it comes first.
	views := cfs.NewCompositeFS(os.DirFS("cmd/server/views"), templatesFS)

	engine := django.NewFileSystem(http.FS(views), ".html")
	for name, fn := range vecino.TemplateHelpers() {
		engine.AddFunc(name, fn)
	}

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: true,
			StrictRouting:     false,
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	srv.Router().WithLogger(app.GetLogger("router"))

	csrfKey := sha256.Sum256([]byte(app.Config().Server.GetCSRFSecret()))

	srv.Router().Use(mflash.New(mflash.ConfigDefault))
	srv.Router().Use(csrf.New(csrf.Config{SecureKey: csrfKey[:]}))
	srv.Router().Use(app.guard.Middleware())
	csrf.RegisterRoutes(srv.Router())

	assetsFS, err := fs.Sub(embeddedFS, "public")
	if err != nil {
		return fmt.Errorf("unable to scope embedded assets: %w", err)
	}

	srv.Router().Static("/public", ".", router.Static{
		FS:   cfs.NewCompositeFS(os.DirFS("cmd/server/public"), assetsFS),
		Root: ".",
	})

	app.srv = srv

	return nil
}

func RegisterRoutes(app *App) {
	r := app.srv.Router()

	r.Get("/", func(ctx router.Context) error {
		return ctx.Render("home", vecino.MergeTemplateData(ctx, router.ViewContext{
			"title": "Vecino",
		}))
	}).SetName("home")

	vecino.RegisterAuthRoutes(r.Group("/"),
		vecino.WithAuthClient(app.client),
		vecino.WithAuthGuard(app.guard),
		vecino.WithAuthLogger(routerLogger{app.GetLogger("auth:ctrl")}),
	)

	vecino.RegisterVisitorRoutes(r.Group("/"),
		vecino.WithVisitorRepo(app.repo),
		vecino.WithVisitorLogger(routerLogger{app.GetLogger("visitors")}),
	)

	vecino.RegisterAdminRoutes(r.Group("/"),
		vecino.WithAdminRepo(app.repo),
		vecino.WithAdminLogger(routerLogger{app.GetLogger("admin")}),
	)
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
