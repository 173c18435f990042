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

// Package nvmecli drives the external nvme-cli binary. All NVMe command
// semantics (Identify, Get Features, Set Features) are delegated to it;
// this package only builds argument lists and decodes its output.
package nvmecli

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"fmt"
	osexec "os/exec"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/NVIDIA/nvme-hctm/internal/pkg/exec"
	"github.com/NVIDIA/nvme-hctm/internal/pkg/hctm"
)

const (
	// DefaultBinary is the nvme-cli binary resolved via PATH.
	DefaultBinary = "nvme"

	// DefaultTimeout bounds a single nvme-cli invocation. Admin commands
	// against a healthy controller complete in milliseconds; a stuck USB
	// bridge can hang them indefinitely.
	DefaultTimeout = 10 * time.Second

	busyRetryAttempts = 3
	busyRetryDelay    = 250 * time.Millisecond
)

type Client struct {
	exec    exec.Exec
	binary  string
	timeout time.Duration
}

func New(e exec.Exec, binary string, timeout time.Duration) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{exec: e, binary: binary, timeout: timeout}
}

// Version returns the nvme-cli version string, e.g. "2.8".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "version")
	if err != nil {
		return "", err
	}
	return parseVersion(out)
}

// IdentifyController issues Identify Controller (CNS 01h) against the
// given device and decodes the thermal-management relevant subset.
func (c *Client) IdentifyController(ctx context.Context, device string) (*Controller, error) {
	out, err := c.run(ctx, "id-ctrl", device, "--output-format=json")
	if err != nil {
		return nil, err
	}

	var ctrl Controller
	if err := json.Unmarshal(out, &ctrl); err != nil {
		return nil, errors.Wrapf(err, "decoding id-ctrl output for %s", device)
	}
	ctrl.normalize()

	return &ctrl, nil
}

// GetFeature reads the HCTM feature word (FID 10h) with the given selector.
func (c *Client) GetFeature(ctx context.Context, device string, sel FeatureSelect) (uint32, error) {
	out, err := c.run(ctx, "get-feature", device,
		fmt.Sprintf("--feature-id=%#02x", hctm.FeatureID),
		fmt.Sprintf("--sel=%d", sel))
	if err != nil {
		return 0, err
	}

	value, err := parseFeatureValue(out)
	if err != nil {
		return 0, errors.Wrapf(err, "reading %s HCTM feature value from %s", sel, device)
	}

	return value, nil
}

// FeatureSaveable reports whether the controller can persist the HCTM
// feature across power cycles, per the supported-capabilities selector.
func (c *Client) FeatureSaveable(ctx context.Context, device string) (bool, error) {
	caps, err := c.GetFeature(ctx, device, SelectSupported)
	if err != nil {
		return false, err
	}
	return caps&featureCapSaveable != 0, nil
}

// SetFeature writes the HCTM feature word (FID 10h). With save the value
// is persisted across power cycles, which the controller must support.
func (c *Client) SetFeature(ctx context.Context, device string, value uint32, save bool) error {
	args := []string{
		"set-feature", device,
		fmt.Sprintf("--feature-id=%#02x", hctm.FeatureID),
		fmt.Sprintf("--value=0x%08x", value),
	}
	if save {
		args = append(args, "--save")
	}

	_, err := c.run(ctx, args...)
	return err
}

// List enumerates the namespaces nvme-cli can see.
func (c *Client) List(ctx context.Context) ([]Device, error) {
	out, err := c.run(ctx, "list", "--output-format=json")
	if err != nil {
		return nil, err
	}

	var list deviceList
	if err := json.Unmarshal(out, &list); err != nil {
		return nil, errors.Wrap(err, "decoding nvme list output")
	}

	return list.Devices, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	logrus.WithField("command", c.binary+" "+strings.Join(args, " ")).Debug("Running nvme-cli")

	out, err := retry.DoWithData(
		func() ([]byte, error) {
			cmdCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()
			return c.exec.CommandContext(cmdCtx, c.binary, args...).Output()
		},
		retry.Context(ctx),
		retry.Attempts(busyRetryAttempts),
		retry.Delay(busyRetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isTransient),
	)
	if err != nil {
		return nil, wrapRunError(err, args)
	}

	return out, nil
}

// isTransient matches the errno strings nvme-cli forwards when another
// process holds the controller open or an ioctl is interrupted.
func isTransient(err error) bool {
	stderr := stderrOf(err)
	return strings.Contains(stderr, "Device or resource busy") ||
		strings.Contains(stderr, "Resource temporarily unavailable") ||
		strings.Contains(stderr, "Interrupted system call")
}

func stderrOf(err error) string {
	var exitErr *osexec.ExitError
	if goerrors.As(err, &exitErr) {
		return string(exitErr.Stderr)
	}
	return ""
}

func wrapRunError(err error, args []string) error {
	if stderr := strings.TrimSpace(stderrOf(err)); stderr != "" {
		return errors.Wrapf(err, "nvme %s failed: %s", args[0], stderr)
	}
	return errors.Wrapf(err, "nvme %s failed", args[0])
}
