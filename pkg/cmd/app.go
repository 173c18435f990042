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

package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/NVIDIA/nvme-hctm/internal/pkg/appconfig"
	"github.com/NVIDIA/nvme-hctm/internal/pkg/capabilities"
	"github.com/NVIDIA/nvme-hctm/internal/pkg/devicescan"
	execinterface "github.com/NVIDIA/nvme-hctm/internal/pkg/exec"
	"github.com/NVIDIA/nvme-hctm/internal/pkg/hctm"
	"github.com/NVIDIA/nvme-hctm/internal/pkg/nvmecli"
	osinterface "github.com/NVIDIA/nvme-hctm/internal/pkg/os"
	"github.com/NVIDIA/nvme-hctm/internal/pkg/prerequisites"
	"github.com/NVIDIA/nvme-hctm/internal/pkg/profiles"
	"github.com/NVIDIA/nvme-hctm/internal/pkg/render"
)

const (
	CLINVMeBinary   = "nvme-binary"
	CLITimeout      = "timeout"
	CLIOutput       = "output"
	CLIProfilesFile = "profiles-file"
	CLIDebug        = "debug"
	CLIDryRun       = "dry-run"
	CLISave         = "save"
	CLITMT1         = "tmt1"
	CLITMT2         = "tmt2"
	CLIProfile      = "profile"
)

var (
	execHandle execinterface.Exec = execinterface.RealExec{}
	osHandle   osinterface.OS     = osinterface.RealOS{}
	stdout     io.Writer          = os.Stdout
)

func NewApp(buildVersion ...string) *cli.App {
	c := cli.NewApp()
	c.Name = "nvme-hctm"
	c.Usage = "Reads and adjusts NVMe thermal throttling thresholds (HCTM TMT1/TMT2) via nvme-cli"
	if len(buildVersion) == 0 {
		buildVersion = append(buildVersion, "")
	}
	c.Version = buildVersion[0]

	c.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    CLINVMeBinary,
			Value:   nvmecli.DefaultBinary,
			Usage:   "Name or path of the nvme-cli binary.",
			EnvVars: []string{"NVME_HCTM_BINARY"},
		},
		&cli.DurationFlag{
			Name:    CLITimeout,
			Value:   nvmecli.DefaultTimeout,
			Usage:   "Timeout for a single nvme-cli invocation.",
			EnvVars: []string{"NVME_HCTM_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    CLIOutput,
			Aliases: []string{"o"},
			Value:   string(appconfig.OutputTable),
			Usage:   fmt.Sprintf("Output format. Possible values: '%s', '%s'", appconfig.OutputTable, appconfig.OutputJSON),
			EnvVars: []string{"NVME_HCTM_OUTPUT"},
		},
		&cli.StringFlag{
			Name:    CLIProfilesFile,
			Usage:   "Path to the YAML profiles file. Defaults to $XDG_CONFIG_HOME/nvme-hctm/profiles.yaml.",
			EnvVars: []string{"NVME_HCTM_PROFILES"},
		},
		&cli.BoolFlag{
			Name:    CLIDebug,
			Value:   false,
			Usage:   "Enable debug output",
			EnvVars: []string{"NVME_HCTM_DEBUG"},
		},
	}

	c.Commands = []*cli.Command{
		{
			Name:   "list",
			Usage:  "List NVMe controllers visible on this host",
			Action: listAction,
		},
		{
			Name:      "status",
			Usage:     "Show HCTM capability and the current, default and saved thresholds",
			ArgsUsage: "<device>",
			Action:    statusAction,
		},
		{
			Name:      "set",
			Usage:     "Write new TMT1/TMT2 thresholds and verify the write",
			ArgsUsage: "<device>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  CLITMT1,
					Usage: "Light throttling threshold: 75, 75C or 348K. 0 disables it. Omitted keeps the current value.",
				},
				&cli.StringFlag{
					Name:  CLITMT2,
					Usage: "Heavy throttling threshold, same forms as --tmt1.",
				},
				&cli.StringFlag{
					Name:  CLIProfile,
					Usage: "Take both thresholds from the named profile instead of --tmt1/--tmt2.",
				},
				&cli.BoolFlag{
					Name:    CLISave,
					Aliases: []string{"s"},
					Usage:   "Persist the thresholds across power cycles. The controller must support saving.",
				},
				&cli.BoolFlag{
					Name:    CLIDryRun,
					Aliases: []string{"n"},
					Usage:   "Validate and report the planned write without touching the device.",
				},
			},
			Action: setAction,
		},
		{
			Name:      "reset",
			Usage:     "Restore the controller default thresholds",
			ArgsUsage: "<device>",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    CLISave,
					Aliases: []string{"s"},
					Usage:   "Persist the restored defaults across power cycles.",
				},
				&cli.BoolFlag{
					Name:    CLIDryRun,
					Aliases: []string{"n"},
					Usage:   "Report the planned write without touching the device.",
				},
			},
			Action: resetAction,
		},
		{
			Name:   "profiles",
			Usage:  "Show the throttle profiles defined in the profiles file",
			Action: profilesAction,
		},
	}

	return c
}

func contextToConfig(c *cli.Context) (*appconfig.Config, error) {
	format := appconfig.OutputFormat(c.String(CLIOutput))
	if format != appconfig.OutputTable && format != appconfig.OutputJSON {
		return nil, fmt.Errorf("invalid output format %q; possible values: '%s', '%s'",
			format, appconfig.OutputTable, appconfig.OutputJSON)
	}

	return &appconfig.Config{
		NVMeBinary:   c.String(CLINVMeBinary),
		Timeout:      c.Duration(CLITimeout),
		Format:       format,
		ProfilesFile: c.String(CLIProfilesFile),
		Debug:        c.Bool(CLIDebug),
		DryRun:       c.Bool(CLIDryRun),
		Save:         c.Bool(CLISave),
	}, nil
}

// setup resolves the config, logging level and nvme-cli preconditions
// shared by every command that talks to a device.
func setup(c *cli.Context) (*appconfig.Config, *nvmecli.Client, error) {
	config, err := contextToConfig(c)
	if err != nil {
		return nil, nil, err
	}

	enableDebugLogging(config)

	if err := prerequisites.Validate(config.NVMeBinary); err != nil {
		return nil, nil, err
	}

	return config, nvmecli.New(execHandle, config.NVMeBinary, config.Timeout), nil
}

func enableDebugLogging(config *appconfig.Config) {
	if config.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// deviceArg returns the controller node the command operates on. A bare
// controller name is expanded, so `status nvme0` and `status /dev/nvme0`
// are equivalent.
func deviceArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one device argument, e.g. /dev/nvme0")
	}

	device := c.Args().First()
	if !strings.HasPrefix(device, "/") {
		device = "/dev/" + device
	}
	return device, nil
}

func statusAction(c *cli.Context) error {
	config, client, err := setup(c)
	if err != nil {
		return err
	}

	device, err := deviceArg(c)
	if err != nil {
		return err
	}

	capabilities.WarnIfCannotManageDevice()

	ctrl, err := client.IdentifyController(c.Context, device)
	if err != nil {
		return err
	}
	thermal := ctrl.ThermalCapability()

	status := render.Status{
		Device:        device,
		Model:         ctrl.ModelNumber,
		Serial:        ctrl.SerialNumber,
		Firmware:      ctrl.Firmware,
		HCTMSupported: thermal.Supported,
		MinThreshold:  render.NewTemp(thermal.Min),
		MaxThreshold:  render.NewTemp(thermal.Max),
		WarningTemp:   render.NewTemp(hctm.Kelvin(ctrl.WCTEMP)),
		CriticalTemp:  render.NewTemp(hctm.Kelvin(ctrl.CCTEMP)),
	}

	if thermal.Supported {
		current, err := client.GetFeature(c.Context, device, nvmecli.SelectCurrent)
		if err != nil {
			return err
		}
		currentThresholds := render.NewThresholds(hctm.Unpack(current))
		status.Current = &currentThresholds

		defaultValue, err := client.GetFeature(c.Context, device, nvmecli.SelectDefault)
		if err != nil {
			return err
		}
		defaultThresholds := render.NewThresholds(hctm.Unpack(defaultValue))
		status.Default = &defaultThresholds

		// The saved selector is only valid on controllers that can save
		// the feature; skip it elsewhere instead of surfacing an error.
		saveable, err := client.FeatureSaveable(c.Context, device)
		if err != nil {
			logrus.WithError(err).Debug("Could not query feature capabilities")
		} else if saveable {
			saved, err := client.GetFeature(c.Context, device, nvmecli.SelectSaved)
			if err != nil {
				return err
			}
			savedThresholds := render.NewThresholds(hctm.Unpack(saved))
			status.Saved = &savedThresholds
		}
	}

	return render.WriteStatus(stdout, status, config.Format)
}

// resolveTarget computes the thresholds a `set` invocation asks for.
// Explicit flags patch the current value field by field; a profile
// replaces the pair wholesale.
func resolveTarget(
	tmt1, tmt2, profileName string, profs map[string]profiles.Profile, current hctm.Thresholds,
) (hctm.Thresholds, error) {
	if profileName != "" {
		if tmt1 != "" || tmt2 != "" {
			return hctm.Thresholds{}, fmt.Errorf("--%s cannot be combined with --%s/--%s", CLIProfile, CLITMT1, CLITMT2)
		}
		p, err := profiles.Get(profs, profileName)
		if err != nil {
			return hctm.Thresholds{}, err
		}
		return p.Thresholds(), nil
	}

	if tmt1 == "" && tmt2 == "" {
		return hctm.Thresholds{}, fmt.Errorf("nothing to set: provide --%s, --%s or --%s", CLITMT1, CLITMT2, CLIProfile)
	}

	target := current
	if tmt1 != "" {
		k, err := hctm.ParseTemperature(tmt1)
		if err != nil {
			return hctm.Thresholds{}, err
		}
		target.TMT1 = k
	}
	if tmt2 != "" {
		k, err := hctm.ParseTemperature(tmt2)
		if err != nil {
			return hctm.Thresholds{}, err
		}
		target.TMT2 = k
	}

	return target, nil
}

func setAction(c *cli.Context) error {
	config, client, err := setup(c)
	if err != nil {
		return err
	}

	device, err := deviceArg(c)
	if err != nil {
		return err
	}

	var profs map[string]profiles.Profile
	if name := c.String(CLIProfile); name != "" {
		profs, err = profiles.NewLoader(osHandle).Load(config.ProfilesFile)
		if err != nil {
			return err
		}
	}

	capabilities.WarnIfCannotManageDevice()

	ctrl, err := client.IdentifyController(c.Context, device)
	if err != nil {
		return err
	}
	thermal := ctrl.ThermalCapability()
	if !thermal.Supported {
		return fmt.Errorf("controller does not support host controlled thermal management")
	}

	current, err := client.GetFeature(c.Context, device, nvmecli.SelectCurrent)
	if err != nil {
		return err
	}

	target, err := resolveTarget(c.String(CLITMT1), c.String(CLITMT2), c.String(CLIProfile), profs, hctm.Unpack(current))
	if err != nil {
		return err
	}

	if err := hctm.Validate(target, thermal); err != nil {
		return err
	}

	return writeThresholds(c, config, client, device, hctm.Unpack(current), target)
}

func resetAction(c *cli.Context) error {
	config, client, err := setup(c)
	if err != nil {
		return err
	}

	device, err := deviceArg(c)
	if err != nil {
		return err
	}

	capabilities.WarnIfCannotManageDevice()

	ctrl, err := client.IdentifyController(c.Context, device)
	if err != nil {
		return err
	}
	if !ctrl.ThermalCapability().Supported {
		return fmt.Errorf("controller does not support host controlled thermal management")
	}

	defaultValue, err := client.GetFeature(c.Context, device, nvmecli.SelectDefault)
	if err != nil {
		return err
	}
	current, err := client.GetFeature(c.Context, device, nvmecli.SelectCurrent)
	if err != nil {
		return err
	}

	return writeThresholds(c, config, client, device, hctm.Unpack(current), hctm.Unpack(defaultValue))
}

// writeThresholds is the shared write-and-verify tail of set and reset.
func writeThresholds(
	c *cli.Context, config *appconfig.Config, client *nvmecli.Client, device string,
	current, target hctm.Thresholds,
) error {
	log := logrus.WithFields(logrus.Fields{
		"device":  device,
		"current": current.String(),
		"target":  target.String(),
	})

	if config.Save {
		saveable, err := client.FeatureSaveable(c.Context, device)
		if err != nil {
			return err
		}
		if !saveable {
			return fmt.Errorf("controller cannot save the thermal management feature; retry without --%s", CLISave)
		}
	}

	if target == current {
		if !config.Save {
			log.Info("Thresholds already match; nothing to write")
			return nil
		}
		// A matching current value is not enough with --save: the saved
		// slot may still differ, and the point of --save is persistence.
		saved, err := client.GetFeature(c.Context, device, nvmecli.SelectSaved)
		if err != nil {
			return err
		}
		if hctm.Unpack(saved) == target {
			log.Info("Thresholds already match the saved value; nothing to write")
			return nil
		}
	}

	if config.DryRun {
		log.Infof("Dry run: would write feature value 0x%08x", target.Pack())
		return nil
	}

	if err := client.SetFeature(c.Context, device, target.Pack(), config.Save); err != nil {
		return err
	}

	readback, err := client.GetFeature(c.Context, device, nvmecli.SelectCurrent)
	if err != nil {
		return err
	}
	if readback != target.Pack() {
		return fmt.Errorf("verification failed: wrote 0x%08x but controller reports 0x%08x",
			target.Pack(), readback)
	}

	log.Info("Thermal thresholds updated")
	return nil
}

func listAction(c *cli.Context) error {
	config, err := contextToConfig(c)
	if err != nil {
		return err
	}
	enableDebugLogging(config)

	controllers, err := devicescan.New(osHandle).Controllers()
	if err != nil {
		return err
	}

	entries := make([]render.ListEntry, 0, len(controllers))
	for _, ctrl := range controllers {
		entries = append(entries, render.ListEntry{
			Name:     ctrl.Name,
			Path:     ctrl.Path,
			Model:    ctrl.Model,
			Serial:   ctrl.Serial,
			Firmware: ctrl.Firmware,
		})
	}

	// Namespace sizes come from `nvme list`; enumeration still works
	// without the binary or the permission to run it.
	if err := enrichFromNVMeList(c, config, entries); err != nil {
		logrus.WithError(err).Debug("Could not enrich controller list from nvme-cli")
	}

	return render.WriteList(stdout, entries, config.Format)
}

func enrichFromNVMeList(c *cli.Context, config *appconfig.Config, entries []render.ListEntry) error {
	if err := prerequisites.Validate(config.NVMeBinary); err != nil {
		return err
	}

	client := nvmecli.New(execHandle, config.NVMeBinary, config.Timeout)
	devices, err := client.List(c.Context)
	if err != nil {
		return err
	}

	sizeBySerial := make(map[string]int64, len(devices))
	for _, d := range devices {
		sizeBySerial[strings.TrimSpace(d.SerialNumber)] += d.PhysicalSize
	}

	for i := range entries {
		entries[i].SizeBytes = sizeBySerial[entries[i].Serial]
	}

	return nil
}

func profilesAction(c *cli.Context) error {
	config, err := contextToConfig(c)
	if err != nil {
		return err
	}
	enableDebugLogging(config)

	profs, err := profiles.NewLoader(osHandle).Load(config.ProfilesFile)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(profs))
	for name := range profs {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]render.ProfileEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, render.ProfileEntry{
			Name: name,
			TMT1: render.NewTemp(profs[name].TMT1),
			TMT2: render.NewTemp(profs[name].TMT2),
		})
	}

	return render.WriteProfiles(stdout, entries, config.Format)
}
