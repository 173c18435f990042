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
	"fmt"

	execinterface "github.com/NVIDIA/nvme-hctm/internal/pkg/exec"
)

var (
	exec execinterface.Exec = execinterface.RealExec{}

	// nvme-cli 1.9 is the first release where `id-ctrl -o json` reports
	// the thermal management fields this tool depends on.
	minVersionMajor = 1
	minVersionMinor = 9

	errNVMeCLINotFound = fmt.Errorf("the nvme binary was not found. Install nvme-cli.")
)

// Rule is a single precondition for running the tool against a device.
type Rule interface {
	Validate(binary string) error
}

var rules = []Rule{
	nvmeCLIExistsRule{},
	nvmeCLIVersionRule{},
}

// Validate runs all preconditions against the configured nvme-cli binary.
func Validate(binary string) error {
	for _, rule := range rules {
		if err := rule.Validate(binary); err != nil {
			return err
		}
	}
	return nil
}
