// netwatch runs one network behavior analysis over a JSON telemetry
// batch and prints the result.
//
// Usage:
//
//	netwatch -input batch.json
//	cat batch.json | netwatch -summary
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dd0wney/cluso-netwatch/pkg/analyzer"
	"github.com/dd0wney/cluso-netwatch/pkg/netgraph"
	"github.com/dd0wney/cluso-netwatch/pkg/telemetry"
)

func main() {
	var (
		input     = flag.String("input", "", "telemetry batch JSON file (default: stdin)")
		output    = flag.String("output", "", "write result JSON to file (default: stdout)")
		summary   = flag.Bool("summary", false, "print a human-readable summary to stderr")
		inference = flag.Bool("inference", true, "enable edge inference")
		window    = flag.Duration("window", netgraph.DefaultInferenceWindow, "inference time window")
		threshold = flag.Float64("threshold", netgraph.DefaultInferenceThreshold, "inference score threshold")
	)
	flag.Parse()

	raws, err := readBatch(*input)
	if err != nil {
		log.Fatalf("Failed to read batch: %v", err)
	}

	opts := analyzer.DefaultOptions()
	opts.Graph.InferenceEnabled = *inference
	opts.Graph.InferenceWindow = *window
	opts.Graph.InferenceThreshold = *threshold

	start := time.Now()
	result, err := analyzer.Analyze(raws, opts)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if *summary {
		printSummary(result, len(raws), time.Since(start))
	}

	if err := writeResult(result, *output); err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}
}

func readBatch(path string) ([]telemetry.RawEvent, error) {
	var reader io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var raws []telemetry.RawEvent
	if err := json.NewDecoder(reader).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode telemetry batch: %w", err)
	}
	return raws, nil
}

func writeResult(result *analyzer.Result, path string) error {
	var writer io.Writer = os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		writer = f
	}

	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printSummary(result *analyzer.Result, batchSize int, elapsed time.Duration) {
	out := os.Stderr
	fmt.Fprintf(out, "🕸️  Network Behavior Analysis (%d events, %v)\n", batchSize, elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "   Devices: %d  Connections: %d  Health: %.2f\n",
		result.NetworkSummary.TotalDevices,
		result.NetworkSummary.TotalConnections,
		result.NetworkSummary.HealthScore)

	if result.BotnetAnalysis.BotnetDetected {
		fmt.Fprintf(out, "🤖 BOTNET DETECTED (confidence %.2f)\n", result.BotnetAnalysis.Confidence)
		for _, c2 := range result.BotnetAnalysis.C2Candidates {
			fmt.Fprintf(out, "   C&C candidate: %s (score %.3f, out %d, in %d)\n",
				c2.DeviceID, c2.C2Score, c2.OutConnections, c2.InConnections)
		}
		fmt.Fprintf(out, "   Recruited devices: %d\n", len(result.BotnetAnalysis.RecruitedDevices))
	} else {
		fmt.Fprintln(out, "✅ No botnet detected")
	}

	if result.LateralMovement.LateralMovementDetected {
		fmt.Fprintf(out, "🔄 LATERAL MOVEMENT DETECTED (entry point %s)\n", result.LateralMovement.EntryPoint)
		for i, p := range result.LateralMovement.AttackPaths {
			if i >= 3 {
				fmt.Fprintf(out, "   ... %d more paths\n", len(result.LateralMovement.AttackPaths)-3)
				break
			}
			fmt.Fprintf(out, "   Path: %v\n", p.Path)
		}
	} else {
		fmt.Fprintln(out, "✅ No lateral movement detected")
	}

	if result.CoordinatedAttack.CoordinatedAttack {
		fmt.Fprintf(out, "⚡ COORDINATED ATTACK: %d devices affected\n", result.CoordinatedAttack.AttackWave)
	} else {
		fmt.Fprintln(out, "✅ No coordinated attack detected")
	}

	for _, dev := range result.CriticalDevices {
		marker := "✅"
		if dev.IsAnomalous {
			marker = "⚠️ "
		}
		fmt.Fprintf(out, "🎯 %s %s criticality %.3f\n", marker, dev.DeviceID, dev.CriticalityScore)
	}

	if len(result.NetworkSummary.IsolatedDevices) > 0 {
		fmt.Fprintf(out, "🔌 Isolated devices: %v\n", result.NetworkSummary.IsolatedDevices)
	}
}
