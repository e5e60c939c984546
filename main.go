package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/models"
	"github.com/cppla/postboard/routes"
	"github.com/cppla/postboard/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	ctx := context.Background()
	shutdownTracing, err := utils.InitTracing(ctx, cfg)
	if err != nil {
		utils.Sugar.Fatalf("init tracing: %v", err)
	}
	defer func() {
		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = shutdownTracing(c)
	}()

	db := config.InitDatabase(&models.User{}, &models.Post{})

	utils.InitRedis(cfg)
	defer utils.CloseRedis()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r := routes.SetupRouter(db, cfg, reg)

	utils.Sugar.Infof("Starting server on port %s (driver=%s)", cfg.AppPort, cfg.DBDriver)
	if err := utils.GraceServer(ctx, ":"+cfg.AppPort, otelhttp.NewHandler(r, "http.server")); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
	}
}
