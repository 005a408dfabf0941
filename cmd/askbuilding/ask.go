package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"askbuilding/internal/config"
	"askbuilding/internal/llm"
	"askbuilding/internal/model"
	"askbuilding/internal/repository"
	"askbuilding/internal/service"
	"askbuilding/internal/utils"
)

func askCmd() *cobra.Command {
	var roomName string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the building from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(strings.Join(args, " "), roomName)
		},
	}

	cmd.Flags().StringVar(&roomName, "room", "", "Room name for sensor questions")

	return cmd
}

func runAsk(question, roomName string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := buildLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	ctx := context.Background()

	graph, err := repository.NewGraphRepository(ctx, &cfg.Neo4j, log)
	if err != nil {
		return fmt.Errorf("connect to neo4j: %w", err)
	}
	defer graph.Close(ctx)

	ts := repository.NewTimeSeriesRepository(&cfg.Influx, log)
	defer ts.Close()

	var auditor service.QueryAuditor
	if cfg.Audit.Enabled {
		auditLog, err := repository.NewAuditLog(cfg.Audit.DSN, log)
		if err != nil {
			return fmt.Errorf("connect to audit store: %w", err)
		}
		defer auditLog.Close()
		auditor = auditLog
	}

	generator := llm.New(&cfg.Ollama, log)
	sensors := service.NewSensorConfigStore(&cfg.Sensor)
	router := service.NewQueryRouter(generator, graph, ts, sensors, auditor, log)

	resp, err := router.Ask(ctx, &model.AskRequest{Question: question, RoomName: roomName})
	if err != nil {
		return err
	}

	out, err := utils.PrettyPrintJSON(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	fmt.Println(out)
	return nil
}
