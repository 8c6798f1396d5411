// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"code.hybscloud.com/lfchan/internal/harness"
	"github.com/spf13/cobra"
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure throughput and round trip latency",
	Long: `Measure single-producer throughput in batches over a fresh channel per
batch, then ping-pong round trip latency over two capacity-1 channels.`,
	RunE: runBench,
}

var benchOpts = harness.DefaultBenchConfig()

func init() {
	d := harness.DefaultBenchConfig()
	benchCmd.Flags().IntVarP(&benchOpts.Messages, "messages", "m", d.Messages, "Values per throughput batch")
	benchCmd.Flags().IntVarP(&benchOpts.Batches, "batches", "b", d.Batches, "Throughput batches")
	benchCmd.Flags().IntVarP(&benchOpts.Capacity, "capacity", "c", d.Capacity, "Throughput channel capacity (power of 2)")
	benchCmd.Flags().IntVarP(&benchOpts.Rounds, "rounds", "r", d.Rounds, "Ping-pong round trips")
}

func runBench(cmd *cobra.Command, args []string) error {
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

	report, err := harness.RunBench(ctx, benchOpts, logger)
	if err != nil {
		return err
	}

	if format == "json" {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	printBenchReport(cmd.OutOrStdout(), report)
	return nil
}

func printBenchReport(out io.Writer, r *harness.BenchReport) {
	tp, lat := r.Throughput, r.Latency

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Throughput")
	fmt.Fprintf(w, "  Capacity:\t%d\n", tp.Capacity)
	fmt.Fprintf(w, "  Messages:\t%d\n", tp.Messages)
	fmt.Fprintf(w, "  Elapsed:\t%s\n", tp.Elapsed)
	fmt.Fprintf(w, "  Rate:\t%.0f msg/s\n", tp.MessagesPerSec)
	fmt.Fprintln(w, "Latency")
	fmt.Fprintf(w, "  Rounds:\t%d\n", lat.Rounds)
	fmt.Fprintf(w, "  Min:\t%s\n", lat.Min)
	fmt.Fprintf(w, "  Mean:\t%s\n", lat.Mean)
	fmt.Fprintf(w, "  P50:\t%s\n", lat.P50)
	fmt.Fprintf(w, "  P99:\t%s\n", lat.P99)
	fmt.Fprintf(w, "  Max:\t%s\n", lat.Max)
	w.Flush()
}
