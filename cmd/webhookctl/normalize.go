package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sddhantjaiii/Calling-agent-sub001/internal/contract"
	"github.com/sddhantjaiii/Calling-agent-sub001/internal/webhook"
)

var (
	normalizeCheck       bool
	normalizeConcurrency int
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize FILE...",
	Short: "Normalize webhook payload files and print the results as JSON",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNormalize(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args, normalizeOptions{
			Check:       normalizeCheck,
			Concurrency: normalizeConcurrency,
		})
	},
}

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeCheck, "check", false, "validate each result against the contract schema")
	normalizeCmd.Flags().IntVar(&normalizeConcurrency, "concurrency", runtime.NumCPU(), "files processed in parallel")
	rootCmd.AddCommand(normalizeCmd)
}

type normalizeOptions struct {
	Check       bool
	Concurrency int
}

type fileResult struct {
	File      string                    `json:"file"`
	Webhook   webhook.NormalizedWebhook `json:"webhook"`
	Violation string                    `json:"contract_violation,omitempty"`
}

// ErrContractCheckFailed is returned when --check finds a violation. The
// results are still printed.
var ErrContractCheckFailed = eris.New("webhookctl: contract check failed")

// runNormalize processes files concurrently and writes one JSON line per
// file to out, in argument order.
func runNormalize(ctx context.Context, out, errOut io.Writer, files []string, opts normalizeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := normalizeFile(path, opts.Check)
			if err != nil {
				return err
			}
			results[i] = res
			zap.L().Debug("normalized", zap.String("file", path), zap.Bool("is_valid", res.Webhook.IsValid))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	violations := 0
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			return eris.Wrap(err, "webhookctl: write result")
		}
		if res.Violation != "" {
			violations++
			fmt.Fprintf(errOut, "%s: %s\n", res.File, res.Violation)
		}
	}
	if violations > 0 {
		return eris.Wrapf(ErrContractCheckFailed, "%d of %d files", violations, len(files))
	}
	return nil
}

func normalizeFile(path string, check bool) (fileResult, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return fileResult{}, eris.Wrapf(err, "webhookctl: read %s", path)
	}
	nw, err := webhook.NormalizeBytes(body)
	if err != nil {
		return fileResult{}, eris.Wrapf(err, "webhookctl: %s", path)
	}
	res := fileResult{File: path, Webhook: nw}
	if check {
		if err := contract.Validate(nw); err != nil {
			res.Violation = err.Error()
		}
	}
	return res, nil
}
