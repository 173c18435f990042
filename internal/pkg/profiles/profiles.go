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

// Package profiles loads named TMT1/TMT2 presets from a YAML file, so a
// throttle policy for a given enclosure can be applied by name instead
// of repeating raw temperatures:
//
//	profiles:
//	  usb-enclosure:
//	    tmt1: 70C
//	    tmt2: 77C
package profiles

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/nvme-hctm/internal/pkg/hctm"
	osinterface "github.com/NVIDIA/nvme-hctm/internal/pkg/os"
)

const defaultRelPath = "nvme-hctm/profiles.yaml"

// Profile is a named threshold preset.
type Profile struct {
	TMT1 hctm.Kelvin
	TMT2 hctm.Kelvin
}

// Thresholds converts the preset to the writable threshold pair.
func (p Profile) Thresholds() hctm.Thresholds {
	return hctm.Thresholds{TMT1: p.TMT1, TMT2: p.TMT2}
}

// temperature accepts the same forms as the CLI flags (75, 75C, 348K).
type temperature hctm.Kelvin

func (t *temperature) UnmarshalYAML(node *yaml.Node) error {
	k, err := hctm.ParseTemperature(node.Value)
	if err != nil {
		return err
	}
	*t = temperature(k)
	return nil
}

type fileProfile struct {
	TMT1 temperature `yaml:"tmt1"`
	TMT2 temperature `yaml:"tmt2"`
}

type file struct {
	Profiles map[string]fileProfile `yaml:"profiles"`
}

type Loader struct {
	os osinterface.OS
}

func NewLoader(os osinterface.OS) *Loader {
	return &Loader{os: os}
}

// DefaultPath is $XDG_CONFIG_HOME/nvme-hctm/profiles.yaml, falling back
// to ~/.config.
func (l *Loader) DefaultPath() (string, error) {
	if dir := l.os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, defaultRelPath), nil
	}

	home, err := l.os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving profiles path")
	}

	return filepath.Join(home, ".config", defaultRelPath), nil
}

// Load reads and validates the profiles file. An empty path means the
// default location; a missing file there yields no profiles rather than
// an error, while an explicitly given path must exist.
func (l *Loader) Load(path string) (map[string]Profile, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = l.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := l.os.ReadFile(path)
	if err != nil {
		if !explicit && l.os.IsNotExist(err) {
			return map[string]Profile{}, nil
		}
		return nil, errors.Wrapf(err, "reading profiles file %s", path)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parsing profiles file %s", path)
	}

	profiles := make(map[string]Profile, len(f.Profiles))
	for name, p := range f.Profiles {
		profile := Profile{TMT1: hctm.Kelvin(p.TMT1), TMT2: hctm.Kelvin(p.TMT2)}
		if profile.TMT1 != 0 && profile.TMT2 != 0 && profile.TMT1 >= profile.TMT2 {
			return nil, fmt.Errorf("profile %q in %s: tmt1 (%s) must be below tmt2 (%s)",
				name, path, profile.TMT1, profile.TMT2)
		}
		profiles[name] = profile
	}

	return profiles, nil
}

// Get resolves a profile by name, naming the available ones on a miss.
func Get(profiles map[string]Profile, name string) (Profile, error) {
	if p, ok := profiles[name]; ok {
		return p, nil
	}

	known := make([]string, 0, len(profiles))
	for n := range profiles {
		known = append(known, n)
	}
	sort.Strings(known)

	if len(known) == 0 {
		return Profile{}, fmt.Errorf("unknown profile %q: no profiles defined", name)
	}
	return Profile{}, fmt.Errorf("unknown profile %q: available profiles are %s", name, strings.Join(known, ", "))
}
