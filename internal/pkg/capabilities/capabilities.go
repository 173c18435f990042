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

// Package capabilities checks Linux capabilities before device access.
// The kernel requires CAP_SYS_ADMIN for NVMe admin passthrough, which is
// how nvme-cli issues Identify and Set/Get Features.
package capabilities

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	osinterface "github.com/NVIDIA/nvme-hctm/internal/pkg/os"
)

const (
	// CAP_SYS_ADMIN guards the NVME_IOCTL_ADMIN_CMD ioctl.
	CAP_SYS_ADMIN = 21

	procSelfStatus = "/proc/self/status"
)

var os osinterface.OS = osinterface.RealOS{}

// HasCapability checks the effective capability set of the current
// process from /proc/self/status.
func HasCapability(cap int) (bool, error) {
	if cap < 0 || cap > 63 {
		return false, fmt.Errorf("invalid capability number: %d (must be 0-63)", cap)
	}

	data, err := os.ReadFile(procSelfStatus)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", procSelfStatus, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "CapEff:") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		capMask, err := strconv.ParseUint(fields[1], 16, 64)
		if err != nil {
			return false, fmt.Errorf("failed to parse capability mask: %w", err)
		}

		// cap is validated to be 0-63, so conversion to uint is safe
		// #nosec G115 -- cap range validated above
		return (capMask & (1 << uint(cap))) != 0, nil
	}

	return false, fmt.Errorf("could not find CapEff in %s", procSelfStatus)
}

// CheckSysAdmin reports whether the process holds CAP_SYS_ADMIN.
func CheckSysAdmin() bool {
	has, err := HasCapability(CAP_SYS_ADMIN)
	if err != nil {
		logrus.WithError(err).Warn("Failed to check for CAP_SYS_ADMIN capability")
		return false
	}
	return has
}

// WarnIfCannotManageDevice logs a warning when a feature read or write is
// about to be attempted without the capability nvme-cli needs for admin
// passthrough. The attempt still proceeds; the kernel has the final say.
func WarnIfCannotManageDevice() {
	if CheckSysAdmin() {
		return
	}
	logrus.Warn("Process lacks CAP_SYS_ADMIN; NVMe admin commands will likely fail. Run as root or grant CAP_SYS_ADMIN.")
}
