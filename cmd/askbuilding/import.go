package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"askbuilding/internal/config"
	"askbuilding/internal/ifc"
	"askbuilding/internal/repository"
	"askbuilding/internal/service"
)

func importCmd() *cobra.Command {
	var sensorConfigPath string

	cmd := &cobra.Command{
		Use:   "import <ifc-file>",
		Short: "Import rooms from an IFC building model into the graph store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], sensorConfigPath)
		},
	}

	cmd.Flags().StringVar(&sensorConfigPath, "sensor-config", "", "Sensor config file (overrides SENSOR_CONFIG_PATH)")

	return cmd
}

func runImport(ifcPath, sensorConfigPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := buildLogger(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	if sensorConfigPath == "" {
		sensorConfigPath = cfg.Sensor.Path
	}
	sensorCfg, err := service.LoadSensorConfig(sensorConfigPath)
	if err != nil {
		return fmt.Errorf("load sensor config %q: %w", sensorConfigPath, err)
	}

	model, err := ifc.Open(ifcPath)
	if err != nil {
		return fmt.Errorf("open model %q: %w", ifcPath, err)
	}
	spaces := model.Spaces()
	log.Infow("parsed model", "path", ifcPath, "spaces", len(spaces))

	ctx := context.Background()

	graph, err := repository.NewGraphRepository(ctx, &cfg.Neo4j, log)
	if err != nil {
		return fmt.Errorf("connect to neo4j: %w", err)
	}
	defer graph.Close(ctx)

	importer := service.NewRoomImporter(graph, log)
	summary, err := importer.Import(ctx, spaces, sensorCfg)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	fmt.Printf("Imported %d spaces: %d matched, %d fallback keys, %d skipped, %d placeholders\n",
		summary.Spaces, summary.Matched, summary.Fallback, summary.Skipped, summary.Placeholders)
	return nil
}
