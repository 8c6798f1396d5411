// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"code.hybscloud.com/lfchan/internal/harness"
	"github.com/spf13/cobra"
)

// stressCmd represents the stress command
var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Run the many-producer stress check",
	Long: `Spawn producer goroutines that each send uniquely tagged values through
one channel while a single consumer drains it until disconnection.

The check passes when every tag arrives exactly once, each producer's tags
arrive in the order it sent them, and the consumer observes disconnection.`,
	RunE: runStress,
}

var errStressFailed = errors.New("stress check failed")

var stressOpts = harness.DefaultStressConfig()

func init() {
	d := harness.DefaultStressConfig()
	stressCmd.Flags().IntVarP(&stressOpts.Producers, "producers", "p", d.Producers, "Number of producer goroutines")
	stressCmd.Flags().IntVarP(&stressOpts.PerProducer, "per-producer", "n", d.PerProducer, "Values sent by each producer")
	stressCmd.Flags().IntVarP(&stressOpts.Capacity, "capacity", "c", d.Capacity, "Channel capacity (power of 2)")
	stressCmd.Flags().IntVar(&stressOpts.Jitter, "jitter", d.Jitter, "Max random yields between sends (0 disables)")
	stressCmd.Flags().IntVar(&stressOpts.Spin, "spin", d.Spin, "Pause rounds before a blocked call yields")
	stressCmd.Flags().BoolVar(&stressOpts.Backoff, "backoff", d.Backoff, "Block with sleep backoff instead of spin-then-yield")
}

func runStress(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	logger, err := configureLogger(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := harness.RunStress(ctx, stressOpts, logger)
	if err != nil {
		return err
	}

	if format == "json" {
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		printStressReport(cmd.OutOrStdout(), report)
	}

	if !report.OK() {
		return errStressFailed
	}
	return nil
}

func printStressReport(out io.Writer, r *harness.StressReport) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Producers:\t%d x %d\n", r.Producers, r.PerProducer)
	fmt.Fprintf(w, "Capacity:\t%d\n", r.Capacity)
	fmt.Fprintf(w, "Sent:\t%d\n", r.Sent)
	fmt.Fprintf(w, "Received:\t%d\n", r.Received)
	fmt.Fprintf(w, "Unique:\t%d\n", r.Unique)
	fmt.Fprintf(w, "Duplicates:\t%d\n", r.Duplicates)
	fmt.Fprintf(w, "Missing:\t%d\n", r.Missing)
	fmt.Fprintf(w, "Order violations:\t%d\n", r.OrderViolations)
	fmt.Fprintf(w, "Disconnected:\t%t\n", r.Disconnected)
	fmt.Fprintf(w, "Elapsed:\t%s\n", r.Elapsed)
	fmt.Fprintf(w, "Result:\t%s\n", statusLabel(r.OK()))
	w.Flush()
}

// commandContext returns the command's context, or Background when the
// command runs outside ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
