package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/aliyabuz25/forsaj-cms/internal/config"
	"github.com/aliyabuz25/forsaj-cms/internal/domain"
	"github.com/aliyabuz25/forsaj-cms/internal/infra/database"
	"github.com/aliyabuz25/forsaj-cms/internal/infra/providers"
	"github.com/aliyabuz25/forsaj-cms/internal/infra/repository"
	"github.com/aliyabuz25/forsaj-cms/internal/interface/rest"
	"github.com/aliyabuz25/forsaj-cms/internal/interface/rest/middleware"
	"github.com/aliyabuz25/forsaj-cms/internal/service"
	"github.com/aliyabuz25/forsaj-cms/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	if conf.Server.EnableTrace {
		tp, err := providers.NewTracerProvider(ctx, conf.Server.TraceEndpoint, "forsaj-cms")
		if err != nil {
			log.Fatalf("failed to set up tracing: %v", err)
		}
		defer func() {
			if err := tp.Shutdown(ctx); err != nil {
				log.Printf("tracer shutdown: %v", err)
			}
		}()
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}

	err = database.MigratePostgres(db)
	if err != nil {
		panic("failed to migrate database")
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)

	health := domain.NewHealthState(time.Duration(conf.Server.ReconnectCooldownSeconds) * time.Second)
	dbStore := repository.NewDBStore(db, health)
	fileStore := repository.NewFileStore(conf.Server.ContentDir)
	legacy := repository.NewFailover(dbStore, fileStore)

	migrator := usecase.NewMigrator(dbStore, fileStore)
	migrator.MigrateFilesToDB(ctx)

	structs := usecase.NewStructManager(dbStore, fileStore, health)
	defer structs.Close()

	signal := service.NewSignalService(rdb)
	content := usecase.NewContentUsecase(
		structs,
		legacy,
		dbStore,
		health,
		signal,
		time.Duration(conf.Server.CacheTTLSeconds)*time.Second,
	)
	auth := service.NewAuthService(conf.Server.AdminPasswordHash, conf.Server.AdminToken)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("forsaj-cms"))
	}

	h := rest.NewHandler(content, auth, signal)
	h.RegisterRoutes(e, middleware.NewAuthMiddleware(auth))

	e.Logger.Fatal(e.Start(conf.Server.Listen))
}
