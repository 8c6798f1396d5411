// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"
)

var validFormats = []string{"text", "json"}

// outputFormat reads and validates --format.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	if !slices.Contains(validFormats, format) {
		return "", fmt.Errorf("invalid format '%s': must be one of %v", format, validFormats)
	}
	return format, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonnet.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// statusLabel returns PASS or FAIL, colored unless color.NoColor is set.
func statusLabel(ok bool) string {
	if ok {
		return color.New(color.FgGreen, color.Bold).Sprint("PASS")
	}
	return color.New(color.FgRed, color.Bold).Sprint("FAIL")
}
