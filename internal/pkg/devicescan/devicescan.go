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

// Package devicescan enumerates NVMe controllers from sysfs. Unlike
// `nvme list`, which needs permission to open the character devices,
// the sysfs attributes are world readable.
package devicescan

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	osinterface "github.com/NVIDIA/nvme-hctm/internal/pkg/os"
)

const sysClassNVMe = "/sys/class/nvme"

// rxController matches controller entries (nvme0, nvme1, ...) and skips
// namespaces and subsystem links.
var rxController = regexp.MustCompile(`^nvme(\d+)$`)

// Controller is one NVMe controller discovered in sysfs.
type Controller struct {
	Name     string // nvme0
	Path     string // /dev/nvme0
	Model    string
	Serial   string
	Firmware string
}

type Scanner struct {
	os   osinterface.OS
	root string
}

func New(os osinterface.OS) *Scanner {
	return &Scanner{os: os, root: sysClassNVMe}
}

// Controllers lists NVMe controllers sorted by instance number. A system
// without the nvme class directory has no controllers, which is not an
// error.
func (s *Scanner) Controllers() ([]Controller, error) {
	entries, err := s.os.ReadDir(s.root)
	if err != nil {
		if s.os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "scanning %s", s.root)
	}

	var controllers []Controller
	for _, entry := range entries {
		if !rxController.MatchString(entry.Name()) {
			continue
		}
		controllers = append(controllers, Controller{
			Name:     entry.Name(),
			Path:     "/dev/" + entry.Name(),
			Model:    s.readAttr(entry.Name(), "model"),
			Serial:   s.readAttr(entry.Name(), "serial"),
			Firmware: s.readAttr(entry.Name(), "firmware_rev"),
		})
	}

	sort.Slice(controllers, func(i, j int) bool {
		return instanceNumber(controllers[i].Name) < instanceNumber(controllers[j].Name)
	})

	return controllers, nil
}

// readAttr returns a trimmed sysfs attribute, or empty when the attribute
// is absent. Attribute files may vanish on hot-unplug between the ReadDir
// and the read.
func (s *Scanner) readAttr(controller, attr string) string {
	data, err := s.os.ReadFile(filepath.Join(s.root, controller, attr))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func instanceNumber(name string) int {
	n, _ := strconv.Atoi(rxController.FindStringSubmatch(name)[1])
	return n
}
