// Package main provides the askbuilding binary entry point.
// Askbuilding imports IFC building models into a graph store and answers
// natural-language questions about the building through generated queries.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "askbuilding",
		Short: "Building model import and natural-language query service",
		Long: `Askbuilding loads IFC building models into Neo4j and answers
questions about rooms and their sensor readings.

It provides:
- An importer that extracts spaces from IFC STEP files and upserts Room nodes
- A query service that turns questions into Cypher or Flux via a local LLM
- Canned inspection tools for topology, sensor config and zone metrics`,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(importCmd())
	cmd.AddCommand(askCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("askbuilding version %s (build: %s, commit: %s)\n", Version, BuildTime, GitCommit)
		},
	})

	return cmd
}
