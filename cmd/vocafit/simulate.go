package main

import (
	"context"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/vocafit/internal/loadgen"
)

// Simulation defaults.
const (
	defaultSubmissions = 10000
	defaultBatchSize   = 100
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive a running server with generated submissions",
	Long:  "Generate valid questionnaire results, submit them in concurrent batches to a running vocafit server and verify every response.",
	RunE:  runSimulate,
}

var simCfg loadgen.Config

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simCfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	f.IntVar(&simCfg.NumSubmissions, "submissions", defaultSubmissions, "Number of submissions to generate")
	f.IntVar(&simCfg.BatchSize, "batch", defaultBatchSize, "Submissions per batch request")
	f.IntVar(&simCfg.TopN, "top", 6, "Careers requested per submission")
	f.IntVar(&simCfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent senders")
	f.Float64Var(&simCfg.Rate, "rate", 0, "Batch requests per second, 0 for unlimited")
	f.DurationVar(&simCfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.Uint64Var(&simCfg.Seed, "seed", uint64(time.Now().UnixNano()), "Generator seed")
	f.StringVar(&simCfg.OutputFile, "output", "", "Write generated submissions to this file")
	f.BoolVar(&simCfg.Verbose, "verbose", false, "Log every failed batch")

	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), defaultRunTimeout)
	defer cancel()

	_, err := loadgen.Run(ctx, &simCfg)
	return err
}
