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

package nvmecli

import (
	"strings"

	"github.com/NVIDIA/nvme-hctm/internal/pkg/hctm"
)

// FeatureSelect is the SEL field of the Get Features command.
type FeatureSelect uint8

const (
	SelectCurrent   FeatureSelect = 0
	SelectDefault   FeatureSelect = 1
	SelectSaved     FeatureSelect = 2
	SelectSupported FeatureSelect = 3
)

func (s FeatureSelect) String() string {
	switch s {
	case SelectCurrent:
		return "current"
	case SelectDefault:
		return "default"
	case SelectSaved:
		return "saved"
	case SelectSupported:
		return "supported"
	}
	return "unknown"
}

// featureCapSaveable is bit 0 of the Get Features supported-capabilities
// word: the feature value can be saved across power cycles.
const featureCapSaveable = 0x1

// Controller is the subset of the Identify Controller data structure the
// tool needs, as emitted by `nvme id-ctrl -o json`. The identity strings
// are space-padded on the wire; normalize trims them.
type Controller struct {
	ModelNumber  string `json:"mn"`
	SerialNumber string `json:"sn"`
	Firmware     string `json:"fr"`
	CTRATT       uint32 `json:"ctratt"`
	MNTMT        uint16 `json:"mntmt"`
	MXTMT        uint16 `json:"mxtmt"`
	WCTEMP       uint16 `json:"wctemp"`
	CCTEMP       uint16 `json:"cctemp"`
}

func (c *Controller) normalize() {
	c.ModelNumber = strings.TrimSpace(c.ModelNumber)
	c.SerialNumber = strings.TrimSpace(c.SerialNumber)
	c.Firmware = strings.TrimSpace(c.Firmware)
}

// ThermalCapability derives the HCTM capability from the identify data.
// HCTMA is CTRATT bit 0.
func (c Controller) ThermalCapability() hctm.Capability {
	return hctm.Capability{
		Supported: c.CTRATT&0x1 != 0,
		Min:       hctm.Kelvin(c.MNTMT),
		Max:       hctm.Kelvin(c.MXTMT),
	}
}

// Device is one entry of `nvme list -o json`.
type Device struct {
	DevicePath   string `json:"DevicePath"`
	ModelNumber  string `json:"ModelNumber"`
	SerialNumber string `json:"SerialNumber"`
	Firmware     string `json:"Firmware"`
	PhysicalSize int64  `json:"PhysicalSize"`
}

type deviceList struct {
	Devices []Device `json:"Devices"`
}
