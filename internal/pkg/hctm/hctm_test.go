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

package hctm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpack(t *testing.T) {
	tests := []struct {
		name       string
		thresholds Thresholds
		word       uint32
	}{
		{
			name:       "both thresholds set",
			thresholds: Thresholds{TMT1: 343, TMT2: 353},
			word:       0x01570161,
		},
		{
			name:       "both disabled",
			thresholds: Thresholds{},
			word:       0,
		},
		{
			name:       "only TMT2",
			thresholds: Thresholds{TMT2: 358},
			word:       0x00000166,
		},
		{
			name:       "max values",
			thresholds: Thresholds{TMT1: 0xffff, TMT2: 0xffff},
			word:       0xffffffff,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.word, tt.thresholds.Pack())
			assert.Equal(t, tt.thresholds, Unpack(tt.word))
		})
	}
}

func TestKelvinCelsius(t *testing.T) {
	assert.Equal(t, Kelvin(348), FromCelsius(75))
	assert.Equal(t, 75, Kelvin(348).Celsius())
	assert.Equal(t, -273, Kelvin(0).Celsius())
	assert.Equal(t, "disabled", Kelvin(0).String())
	assert.Equal(t, "348 K (75 C)", Kelvin(348).String())
}

func TestValidate(t *testing.T) {
	cap := Capability{Supported: true, Min: 323, Max: 363}

	tests := []struct {
		name       string
		thresholds Thresholds
		capability Capability
		wantErr    string
	}{
		{
			name:       "valid pair",
			thresholds: Thresholds{TMT1: 343, TMT2: 353},
			capability: cap,
		},
		{
			name:       "unsupported controller",
			thresholds: Thresholds{TMT1: 343, TMT2: 353},
			capability: Capability{},
			wantErr:    "does not support",
		},
		{
			name:       "TMT1 below minimum",
			thresholds: Thresholds{TMT1: 300, TMT2: 353},
			capability: cap,
			wantErr:    "below the minimum",
		},
		{
			name:       "TMT2 above maximum",
			thresholds: Thresholds{TMT1: 343, TMT2: 400},
			capability: cap,
			wantErr:    "above the maximum",
		},
		{
			name:       "TMT1 not below TMT2",
			thresholds: Thresholds{TMT1: 353, TMT2: 353},
			capability: cap,
			wantErr:    "must be below TMT2",
		},
		{
			name:       "zero disables and skips range check",
			thresholds: Thresholds{TMT1: 0, TMT2: 353},
			capability: cap,
		},
		{
			name:       "both disabled",
			thresholds: Thresholds{},
			capability: cap,
		},
		{
			name:       "unreported range skips bounds",
			thresholds: Thresholds{TMT1: 300, TMT2: 400},
			capability: Capability{Supported: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.thresholds, tt.capability)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseTemperature(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    Kelvin
		wantErr bool
	}{
		{name: "bare number is celsius", arg: "75", want: 348},
		{name: "celsius suffix", arg: "75C", want: 348},
		{name: "lowercase celsius", arg: "70c", want: 343},
		{name: "kelvin suffix", arg: "348K", want: 348},
		{name: "lowercase kelvin", arg: "353k", want: 353},
		{name: "bare zero disables", arg: "0", want: 0},
		{name: "zero celsius is freezing point", arg: "0C", want: 273},
		{name: "zero kelvin is out of range", arg: "0K", wantErr: true},
		{name: "surrounding whitespace", arg: " 75C ", want: 348},
		{name: "empty", arg: "", wantErr: true},
		{name: "not a number", arg: "hot", wantErr: true},
		{name: "bare unit", arg: "C", wantErr: true},
		{name: "below absolute zero", arg: "-300", wantErr: true},
		{name: "exceeds field width", arg: "70000K", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTemperature(tt.arg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
