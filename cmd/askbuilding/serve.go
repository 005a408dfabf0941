package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"askbuilding/internal/config"
	"askbuilding/internal/handler"
	"askbuilding/internal/llm"
	"askbuilding/internal/repository"
	"askbuilding/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP query and tool server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := buildLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()

	graph, err := repository.NewGraphRepository(ctx, &cfg.Neo4j, log)
	if err != nil {
		return fmt.Errorf("connect to neo4j: %w", err)
	}
	defer graph.Close(ctx)
	log.Infow("connected to graph store", "uri", cfg.Neo4j.URI)

	ts := repository.NewTimeSeriesRepository(&cfg.Influx, log)
	defer ts.Close()

	var auditLog *repository.AuditLog
	var auditor service.QueryAuditor
	if cfg.Audit.Enabled {
		auditLog, err = repository.NewAuditLog(cfg.Audit.DSN, log)
		if err != nil {
			return fmt.Errorf("connect to audit store: %w", err)
		}
		defer auditLog.Close()
		auditor = auditLog
		log.Infow("query auditing enabled")
	} else {
		log.Infow("query auditing disabled, set AUDIT_PG_DSN to enable")
	}

	generator := llm.New(&cfg.Ollama, log)
	log.Infow("llm client initialized", "url", cfg.Ollama.URL, "model", cfg.Ollama.Model)

	sensors := service.NewSensorConfigStore(&cfg.Sensor)

	router := service.NewQueryRouter(generator, graph, ts, sensors, auditor, log)
	toolkit := service.NewToolkit(graph, ts, sensors, cfg.Toolkit, log)

	askHandler := handler.NewAskHandler(router)
	toolsHandler := handler.NewToolsHandler(toolkit)
	auditHandler := handler.NewAuditHandler(auditLog)

	engine := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "askbuilding",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	apiV1 := engine.Group("/api/v1")
	{
		apiV1.POST("/ask", askHandler.Ask)

		apiV1.POST("/tools/topology", toolsHandler.QueryTopology)
		apiV1.POST("/tools/sensor-config", toolsHandler.CheckSensorConfig)
		apiV1.POST("/tools/zone-metrics", toolsHandler.InspectZoneMetrics)

		apiV1.GET("/audit/recent", auditHandler.Recent)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Infow("starting server", "addr", addr)

	go func() {
		if err := engine.Run(addr); err != nil {
			log.Fatalw("server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")
	return nil
}
