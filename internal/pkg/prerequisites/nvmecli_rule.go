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

package prerequisites

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/NVIDIA/nvme-hctm/internal/pkg/nvmecli"
)

type nvmeCLIExistsRule struct{}

// Validate checks that the nvme-cli binary resolves to an executable.
func (r nvmeCLIExistsRule) Validate(binary string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return errNVMeCLINotFound
	}
	return nil
}

type nvmeCLIVersionRule struct{}

// Validate checks that the installed nvme-cli is recent enough to emit
// the JSON output formats the tool parses.
func (r nvmeCLIVersionRule) Validate(binary string) error {
	client := nvmecli.New(exec, binary, 0)

	ctx, cancel := context.WithTimeout(context.Background(), nvmecli.DefaultTimeout)
	defer cancel()

	version, err := client.Version(ctx)
	if err != nil {
		return errors.Wrap(err, "probing nvme-cli version")
	}

	major, minor, err := splitVersion(version)
	if err != nil {
		return err
	}

	if major < minVersionMajor || (major == minVersionMajor && minor < minVersionMinor) {
		return fmt.Errorf("nvme-cli %s is too old; %d.%d or newer is required for JSON output",
			version, minVersionMajor, minVersionMinor)
	}

	return nil
}

func splitVersion(version string) (major, minor int, err error) {
	parts := strings.Split(version, ".")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("unparseable nvme-cli version %q", version)
	}

	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unparseable nvme-cli version %q", version)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unparseable nvme-cli version %q", version)
	}

	return major, minor, nil
}
