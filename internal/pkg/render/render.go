/*
 * Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package render formats command results for humans (aligned text) and
// for scripts (JSON).
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/NVIDIA/nvme-hctm/internal/pkg/appconfig"
	"github.com/NVIDIA/nvme-hctm/internal/pkg/hctm"
)

// Temp carries a temperature in both units for JSON consumers. A nil
// *Temp marks a disabled threshold or an unreported bound.
type Temp struct {
	Kelvin  uint16 `json:"kelvin"`
	Celsius int    `json:"celsius"`
}

func NewTemp(k hctm.Kelvin) *Temp {
	if k == 0 {
		return nil
	}
	return &Temp{Kelvin: uint16(k), Celsius: k.Celsius()}
}

func (t *Temp) String() string {
	if t == nil {
		return "disabled"
	}
	return fmt.Sprintf("%d K (%d C)", t.Kelvin, t.Celsius)
}

// Thresholds is a TMT pair prepared for output.
type Thresholds struct {
	TMT1 *Temp `json:"tmt1"`
	TMT2 *Temp `json:"tmt2"`
}

func NewThresholds(t hctm.Thresholds) Thresholds {
	return Thresholds{TMT1: NewTemp(t.TMT1), TMT2: NewTemp(t.TMT2)}
}

// Status is the full `status` command result.
type Status struct {
	Device        string      `json:"device"`
	Model         string      `json:"model,omitempty"`
	Serial        string      `json:"serial,omitempty"`
	Firmware      string      `json:"firmware,omitempty"`
	HCTMSupported bool        `json:"hctm_supported"`
	MinThreshold  *Temp       `json:"min_threshold,omitempty"`
	MaxThreshold  *Temp       `json:"max_threshold,omitempty"`
	WarningTemp   *Temp       `json:"warning_temp,omitempty"`
	CriticalTemp  *Temp       `json:"critical_temp,omitempty"`
	Current       *Thresholds `json:"current,omitempty"`
	Default       *Thresholds `json:"default,omitempty"`
	Saved         *Thresholds `json:"saved,omitempty"`
}

// ListEntry is one controller of the `list` command result.
type ListEntry struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Model     string `json:"model,omitempty"`
	Serial    string `json:"serial,omitempty"`
	Firmware  string `json:"firmware,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// ProfileEntry is one named preset of the `profiles` command result.
type ProfileEntry struct {
	Name string `json:"name"`
	TMT1 *Temp  `json:"tmt1"`
	TMT2 *Temp  `json:"tmt2"`
}

func WriteStatus(w io.Writer, s Status, format appconfig.OutputFormat) error {
	if format == appconfig.OutputJSON {
		return writeJSON(w, s)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Device:\t%s\n", s.Device)
	if s.Model != "" {
		fmt.Fprintf(tw, "Model:\t%s\n", s.Model)
	}
	if s.Serial != "" {
		fmt.Fprintf(tw, "Serial:\t%s\n", s.Serial)
	}
	if s.Firmware != "" {
		fmt.Fprintf(tw, "Firmware:\t%s\n", s.Firmware)
	}

	if !s.HCTMSupported {
		fmt.Fprintf(tw, "HCTM:\tnot supported\n")
		return tw.Flush()
	}

	fmt.Fprintf(tw, "HCTM:\tsupported\n")
	fmt.Fprintf(tw, "Threshold range:\t%s .. %s\n", s.MinThreshold, s.MaxThreshold)
	if s.WarningTemp != nil {
		fmt.Fprintf(tw, "Warning temp (WCTEMP):\t%s\n", s.WarningTemp)
	}
	if s.CriticalTemp != nil {
		fmt.Fprintf(tw, "Critical temp (CCTEMP):\t%s\n", s.CriticalTemp)
	}

	writeThresholdRow(tw, "Current", s.Current)
	writeThresholdRow(tw, "Default", s.Default)
	writeThresholdRow(tw, "Saved", s.Saved)

	return tw.Flush()
}

func writeThresholdRow(w io.Writer, label string, t *Thresholds) {
	if t == nil {
		return
	}
	fmt.Fprintf(w, "%s:\tTMT1=%s\tTMT2=%s\n", label, t.TMT1, t.TMT2)
}

func WriteList(w io.Writer, entries []ListEntry, format appconfig.OutputFormat) error {
	if format == appconfig.OutputJSON {
		return writeJSON(w, entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No NVMe controllers found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NODE\tMODEL\tSERIAL\tFIRMWARE\tSIZE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Path, e.Model, e.Serial, e.Firmware, formatSize(e.SizeBytes))
	}
	return tw.Flush()
}

// formatSize renders a byte count the way `nvme list` does, in decimal
// units. Zero means the size could not be determined.
func formatSize(bytes int64) string {
	if bytes == 0 {
		return "-"
	}

	value := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1000 {
			return fmt.Sprintf("%.0f %s", value, unit)
		}
		value /= 1000
	}
	return fmt.Sprintf("%.2f TB", value)
}

func WriteProfiles(w io.Writer, entries []ProfileEntry, format appconfig.OutputFormat) error {
	if format == appconfig.OutputJSON {
		return writeJSON(w, entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No profiles defined.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PROFILE\tTMT1\tTMT2")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.TMT1, e.TMT2)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
