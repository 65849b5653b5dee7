// Command blazedb is BlazeDB's batch query runner: it loads a catalog from
// a database directory, plans and executes one SELECT query read from a
// file, and writes the result to an output file.
package main

import (
	"context"
	"fmt"
	"os"

	"blazedb/pkg/catalog"
	"blazedb/pkg/logging"
	"blazedb/pkg/output"
	"blazedb/pkg/parser"
	"blazedb/pkg/planner"
)

// config holds the three positional arguments blazedb accepts. There are
// no flags: the CLI's shape is parse -> initialize -> run -> cleanup, the
// same as the teacher's main(), minus the interactive/demo machinery that
// doesn't apply to a one-shot batch runner.
type config struct {
	databaseDir string
	queryFile   string
	outputFile  string
}

func main() {
	logging.InitDefault()
	log := logging.Get()

	cfg, err := parseArguments(os.Args[1:])
	if err != nil {
		log.Error("invalid arguments", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Error("query failed", "error", err)
		os.Exit(1)
	}
}

func parseArguments(args []string) (config, error) {
	if len(args) != 3 {
		return config{}, fmt.Errorf("usage: blazedb <database_dir> <query_file> <output_file>")
	}
	return config{databaseDir: args[0], queryFile: args[1], outputFile: args[2]}, nil
}

func run(ctx context.Context, cfg config) error {
	cat, err := catalog.Load(cfg.databaseDir)
	if err != nil {
		return err
	}

	queryBytes, err := os.ReadFile(cfg.queryFile)
	if err != nil {
		return fmt.Errorf("reading query file: %w", err)
	}

	stmt, err := parser.Parse(string(queryBytes))
	if err != nil {
		return err
	}

	plan, err := planner.Build(stmt, cat)
	if err != nil {
		return err
	}

	out, err := os.Create(cfg.outputFile)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if err := plan.Root.Open(); err != nil {
		return err
	}
	defer plan.Root.Close()

	return output.Write(ctx, plan.Root, out)
}
