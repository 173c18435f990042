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

// Package hctm models the NVMe Host Controlled Thermal Management feature
// (Feature Identifier 10h): the TMT1/TMT2 threshold pair packed into the
// 32-bit feature word, the controller-reported settable range, and the
// validation rules the NVMe specification imposes on new threshold values.
// The package is pure computation; device I/O lives in nvmecli.
package hctm

import (
	"fmt"
	"strconv"
	"strings"
)

// FeatureID is the NVMe feature identifier for Host Controlled Thermal Management.
const FeatureID = 0x10

// kelvinOffset is the integer Celsius-to-Kelvin offset used by the NVMe
// specification for all thermal fields.
const kelvinOffset = 273

// Kelvin is a temperature in whole Kelvin, the unit of every NVMe thermal
// field. The zero value means "threshold disabled" in TMT fields and
// "not reported" in MNTMT/MXTMT.
type Kelvin uint16

// FromCelsius converts a Celsius temperature to Kelvin.
func FromCelsius(c int) Kelvin {
	return Kelvin(c + kelvinOffset)
}

// Celsius returns the temperature in whole degrees Celsius.
func (k Kelvin) Celsius() int {
	return int(k) - kelvinOffset
}

func (k Kelvin) String() string {
	if k == 0 {
		return "disabled"
	}
	return fmt.Sprintf("%d K (%d C)", uint16(k), k.Celsius())
}

// Thresholds is the decoded HCTM feature value. TMT1 is the lighter
// throttling threshold and must be below TMT2 when both are enabled.
type Thresholds struct {
	TMT1 Kelvin
	TMT2 Kelvin
}

// Pack encodes the thresholds into the 32-bit feature word:
// TMT1 in bits 31:16, TMT2 in bits 15:00.
func (t Thresholds) Pack() uint32 {
	return uint32(t.TMT1)<<16 | uint32(t.TMT2)
}

// Unpack decodes a 32-bit HCTM feature word.
func Unpack(value uint32) Thresholds {
	return Thresholds{
		TMT1: Kelvin(value >> 16),
		TMT2: Kelvin(value & 0xffff),
	}
}

func (t Thresholds) String() string {
	return fmt.Sprintf("TMT1=%s TMT2=%s", t.TMT1, t.TMT2)
}

// Capability is the HCTM-related subset of the Identify Controller data:
// whether the controller implements HCTM (CTRATT bit 0) and the settable
// threshold range. Min or Max of 0 means the controller does not report
// that bound and range checks are skipped.
type Capability struct {
	Supported bool
	Min       Kelvin // MNTMT
	Max       Kelvin // MXTMT
}

// Validate reports why the thresholds cannot be written to a controller
// with the given capability. A zero threshold disables that trip point and
// is exempt from the range check.
func Validate(t Thresholds, c Capability) error {
	if !c.Supported {
		return fmt.Errorf("controller does not support host controlled thermal management (CTRATT bit 0 is clear)")
	}

	for _, tmt := range []struct {
		name  string
		value Kelvin
	}{
		{"TMT1", t.TMT1},
		{"TMT2", t.TMT2},
	} {
		if tmt.value == 0 {
			continue
		}
		if c.Min != 0 && tmt.value < c.Min {
			return fmt.Errorf("%s %s is below the minimum settable threshold %s", tmt.name, tmt.value, c.Min)
		}
		if c.Max != 0 && tmt.value > c.Max {
			return fmt.Errorf("%s %s is above the maximum settable threshold %s", tmt.name, tmt.value, c.Max)
		}
	}

	if t.TMT1 != 0 && t.TMT2 != 0 && t.TMT1 >= t.TMT2 {
		return fmt.Errorf("TMT1 (%s) must be below TMT2 (%s)", t.TMT1, t.TMT2)
	}

	return nil
}

// ParseTemperature parses a user-supplied temperature argument. Accepted
// forms are a bare integer (degrees Celsius), an integer with a C suffix,
// or an integer with a K suffix. The bare form "0" disables the threshold;
// "0C" is the freezing point (273 K) and "0K" is out of range.
func ParseTemperature(s string) (Kelvin, error) {
	arg := strings.TrimSpace(s)
	if arg == "" {
		return 0, fmt.Errorf("empty temperature value")
	}

	var unit byte
	switch arg[len(arg)-1] {
	case 'c', 'C':
		unit = 'C'
		arg = arg[:len(arg)-1]
	case 'k', 'K':
		unit = 'K'
		arg = arg[:len(arg)-1]
	}

	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("invalid temperature %q: expected forms are 75, 75C or 348K", s)
	}

	if n == 0 && unit == 0 {
		return 0, nil
	}

	kelvin := n
	if unit != 'K' {
		kelvin = n + kelvinOffset
	}

	// TMT fields are 16 bits wide; the low end guards nonsense like -300C.
	if kelvin < 1 || kelvin > 0xffff {
		return 0, fmt.Errorf("temperature %q is outside the representable range", s)
	}

	if unit == 'K' {
		return Kelvin(kelvin), nil
	}
	return FromCelsius(n), nil
}
