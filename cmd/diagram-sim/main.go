package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmax-ai/diagrammer/pkg/client"
	"github.com/rmax-ai/diagrammer/pkg/editor"
	"github.com/rmax-ai/diagrammer/pkg/simulation"
)

func main() {
	var (
		scenarioFile string
		apiURL       string
		local        bool
		jsonOutput   bool
		outputFile   string
		pngFile      string
		verbose      bool
	)

	flag.StringVar(&scenarioFile, "scenario", "", "Path to scenario JSON or TOML file")
	flag.StringVar(&apiURL, "api", "http://127.0.0.1:8090", "Base URL of diagram-d API")
	flag.BoolVar(&local, "local", false, "Run against an in-process editor instead of the daemon")
	flag.BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	flag.StringVar(&outputFile, "out", "", "Write output to file instead of stdout")
	flag.StringVar(&pngFile, "png", "", "Write a PNG of the final diagram to this file")
	flag.BoolVar(&verbose, "v", false, "Log every step")
	flag.Parse()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	scenario := defaultScenario()
	if scenarioFile != "" {
		var err error
		if scenario, err = loadScenario(scenarioFile); err != nil {
			log.Fatal(err)
		}
	} else {
		fmt.Fprintln(os.Stderr, "No scenario file provided, running default demo scenario...")
	}

	var (
		driver simulation.Driver
		png    pngSource
	)
	if local {
		ed := editor.New(editor.WithLogger(logger))
		driver, png = simulation.NewLocal(ed), localPNG(ed)
	} else {
		c := client.NewClient(apiURL)
		driver, png = simulation.NewRemote(c), remotePNG(c)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := simulation.Run(ctx, scenario, driver, logger)
	if err != nil {
		log.Fatalf("Simulation aborted: %v", err)
	}

	if err := writeReport(result, jsonOutput, outputFile, os.Stdout); err != nil {
		log.Fatal(err)
	}

	if pngFile != "" {
		if err := exportPNG(ctx, png, pngFile); err != nil {
			log.Fatal(err)
		}
		fmt.Fprintf(os.Stderr, "Diagram written to %s\n", pngFile)
	}

	if !result.Success {
		os.Exit(1)
	}
}

func writeReport(res simulation.Result, jsonFmt bool, filePath string, stdout io.Writer) error {
	var output []byte

	if jsonFmt {
		var err error
		if output, err = json.MarshalIndent(res, "", "  "); err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
	} else {
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "\n--- Simulation Report: %s ---\n", res.ScenarioName)
		fmt.Fprintf(&buf, "Seed: %d | Duration: %s\n", res.Seed, res.Duration)
		fmt.Fprintf(&buf, "Events: %d | Rejected: %d\n", res.Events, res.Rejected)
		fmt.Fprintf(&buf, "Final: %d nodes, %d edges, %d sets, mode %s\n",
			res.Final.Nodes, res.Final.Edges, res.Final.Sets, res.Final.Mode)

		if len(res.Violations) > 0 {
			buf.WriteString("\nViolations:\n")
			for _, v := range res.Violations {
				fmt.Fprintf(&buf, "- %s\n", v)
			}
		}

		if len(res.Invariants) > 0 {
			buf.WriteString("\nInvariants:\n")
			for _, inv := range res.Invariants {
				status := "FAIL"
				if inv.Passed {
					status = "PASS"
				}
				fmt.Fprintf(&buf, "[%s] %s: Expected %s, Got %s\n", status, inv.Metric, inv.Expected, inv.Actual)
			}
		}
		output = buf.Bytes()
	}

	if filePath != "" {
		if err := os.WriteFile(filePath, output, 0644); err != nil {
			return fmt.Errorf("failed to write report to %s: %w", filePath, err)
		}
		fmt.Fprintf(stdout, "Report written to %s\n", filePath)
		return nil
	}
	_, err := fmt.Fprintln(stdout, string(output))
	return err
}
