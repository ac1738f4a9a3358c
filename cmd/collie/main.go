// Package main implements the entry point for the collie compiler. Collie
// turns batches of CIDOC CRM entity records into validated relationship
// triples and an idempotent Cypher loading script.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/DecisionNerd/collie/analysis"
	"github.com/DecisionNerd/collie/compiler"
	"github.com/DecisionNerd/collie/config"
	"github.com/DecisionNerd/collie/entity"
	"github.com/DecisionNerd/collie/graph"
	"github.com/DecisionNerd/collie/metric"
	"github.com/DecisionNerd/collie/ontology"
	"github.com/DecisionNerd/collie/report"
	"github.com/DecisionNerd/collie/validate"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "collie"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Compilation failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	entities, err := readEntities(cliCfg.InputPath)
	if err != nil {
		return err
	}
	slog.Info("Input decoded", "entities", len(entities))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var metricsRegistry *metric.MetricsRegistry
	if cliCfg.Metrics {
		metricsRegistry = metric.NewMetricsRegistry()
	}

	comp, err := buildCompiler(cfg, reg, metricsRegistry)
	if err != nil {
		return err
	}

	result, compileErr := comp.Compile(ctx, entities)
	if result != nil {
		logFindings(result)
	}
	if compileErr != nil {
		return compileErr
	}

	if err := writeOutputs(cliCfg, result); err != nil {
		return err
	}

	if cliCfg.ReportStyle != "" {
		if err := renderReport(cliCfg.ReportStyle, reg, entities); err != nil {
			return err
		}
	}

	if cliCfg.Communities {
		if err := logCommunities(ctx, result.Graph); err != nil {
			return err
		}
	}

	if metricsRegistry != nil {
		snapshot, err := metricsRegistry.TextSnapshot()
		if err != nil {
			return fmt.Errorf("metrics snapshot: %w", err)
		}
		_, _ = fmt.Fprint(os.Stderr, snapshot)
	}

	slog.Info("Compilation complete",
		"nodes", result.Graph.NodeCount(),
		"edges", result.Graph.EdgeCount(),
		"findings", len(result.Findings),
		"skipped", len(result.Skipped))
	return nil
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, true, nil
	}

	if cliCfg.ShowHelp {
		printHelp()
		return nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting collie (ontology-constrained relationship compiler)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, false, nil
}

// initializeConfiguration loads configuration and applies flag overrides
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	cfg := config.Default()
	if cliCfg.ConfigPath != "" {
		loaded, err := config.Load(cliCfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if cliCfg.Severity != "" {
		cfg.Severity = cliCfg.Severity
	}

	return cfg, nil
}

// buildRegistry loads the ontology: the built-in core tables, extended by
// a JSON document when the configuration names one.
func buildRegistry(cfg *config.Config) (*ontology.Registry, error) {
	if cfg.OntologyPath == "" {
		return ontology.Default(), nil
	}

	data, err := os.ReadFile(cfg.OntologyPath)
	if err != nil {
		return nil, fmt.Errorf("read ontology: %w", err)
	}
	reg, err := ontology.LoadJSON(data)
	if err != nil {
		return nil, fmt.Errorf("load ontology %s: %w", cfg.OntologyPath, err)
	}
	slog.Info("Ontology loaded",
		"path", cfg.OntologyPath,
		"classes", len(reg.Classes()),
		"relations", len(reg.Relations()))
	return reg, nil
}

// readEntities decodes entity records from a file or stdin.
func readEntities(path string) ([]*entity.Entity, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	entities, err := entity.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return entities, nil
}

func buildCompiler(
	cfg *config.Config,
	reg *ontology.Registry,
	metricsRegistry *metric.MetricsRegistry,
) (*compiler.Compiler, error) {
	severity, err := validate.ParseSeverity(cfg.Severity)
	if err != nil {
		return nil, fmt.Errorf("parse severity: %w", err)
	}

	opts := []compiler.Option{
		compiler.WithSeverity(severity),
		compiler.WithWorkers(cfg.Workers),
		compiler.WithBatchSize(cfg.BatchSize),
	}
	if !cfg.IncludeConstraints {
		opts = append(opts, compiler.WithoutConstraints())
	}
	if metricsRegistry != nil {
		opts = append(opts, compiler.WithMetrics(metricsRegistry))
	}

	return compiler.New(reg, opts...), nil
}

// logFindings reports validation findings and skipped entities. Runs even
// when the pass aborted so the full finding list reaches the operator.
func logFindings(result *compiler.Result) {
	for _, f := range result.Findings {
		switch f.Level {
		case validate.LevelError:
			slog.Error("Constraint violation",
				"entity", f.EntityID, "relation", f.Relation, "detail", f.Message)
		case validate.LevelWarn:
			slog.Warn("Constraint warning",
				"entity", f.EntityID, "relation", f.Relation, "detail", f.Message)
		default:
			slog.Info("Validation note",
				"entity", f.EntityID, "relation", f.Relation, "detail", f.Message)
		}
	}
	for _, s := range result.Skipped {
		slog.Warn("Entity skipped",
			"entity", s.ID, "class_code", s.ClassCode, "reason", s.Reason)
	}
}

// writeOutputs writes the Cypher script and its parameter payload.
func writeOutputs(cliCfg *CLIConfig, result *compiler.Result) error {
	if err := os.WriteFile(cliCfg.OutputPath, []byte(result.Script), 0o644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	slog.Info("Script written", "path", cliCfg.OutputPath, "bytes", len(result.Script))

	paramsPath := cliCfg.ParamsPath
	if paramsPath == "" {
		paramsPath = cliCfg.OutputPath + ".params.json"
	}
	payload, err := json.MarshalIndent(result.Parameters, "", "  ")
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	if err := os.WriteFile(paramsPath, payload, 0o644); err != nil {
		return fmt.Errorf("write parameters: %w", err)
	}
	slog.Info("Parameters written", "path", paramsPath, "keys", len(result.Parameters))
	return nil
}

// renderReport prints a markdown rendering of the batch to stdout.
func renderReport(styleName string, reg *ontology.Registry, entities []*entity.Entity) error {
	style, err := report.ParseStyle(styleName)
	if err != nil {
		return err
	}
	renderer := report.NewRenderer(reg)

	if style == report.StyleTable {
		fmt.Println(renderer.RenderTable(entities))
		return nil
	}

	var sb strings.Builder
	for _, e := range entities {
		section, err := renderer.Render(e, style)
		if err != nil {
			return err
		}
		sb.WriteString(section)
		sb.WriteString("\n")
	}
	fmt.Print(sb.String())
	return nil
}

// logCommunities detects clusters in the compiled graph and logs each with
// its most central members.
func logCommunities(ctx context.Context, g *graph.Graph) error {
	provider := graph.NewProvider(g)
	communities, err := analysis.DetectCommunities(ctx, provider, analysis.DefaultCommunityConfig())
	if err != nil {
		return fmt.Errorf("detect communities: %w", err)
	}

	slog.Info("Community detection complete", "communities", len(communities))
	for _, c := range communities {
		reps, err := analysis.RepresentativeEntities(ctx, provider, c, 3)
		if err != nil {
			return fmt.Errorf("rank community %s: %w", c.ID, err)
		}
		slog.Info("Community",
			"id", c.ID, "size", c.Size(), "representatives", reps)
	}
	return nil
}

// printHelp prints help information
func printHelp() {
	printDetailedHelp()
}
