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
	"fmt"
	"regexp"
	"strconv"
)

var (
	// rxFeatureValue matches the value report of get-feature, e.g.:
	//	get-feature:0x10 (Host Controlled Thermal Management), Current value:0x01570161
	//	get-feature:0x10 (Host Controlled Thermal Management), Default value:00000000
	// The label before "value" varies with the selector and across
	// nvme-cli versions, the value token does not.
	rxFeatureValue = regexp.MustCompile(`(?i)value\s*:\s*(0x[0-9a-f]+|[0-9a-f]+)`)

	// rxVersion matches the first line of `nvme version`, e.g.:
	//	nvme version 2.8 (git 2.8)
	rxVersion = regexp.MustCompile(`nvme version\s+(\d+(?:\.\d+)*)`)
)

func parseFeatureValue(out []byte) (uint32, error) {
	match := rxFeatureValue.FindSubmatch(out)
	if match == nil {
		return 0, fmt.Errorf("no feature value in nvme-cli output %q", string(out))
	}

	token := string(match[1])
	base := 16
	if len(token) > 2 && (token[:2] == "0x" || token[:2] == "0X") {
		token = token[2:]
	}

	value, err := strconv.ParseUint(token, base, 32)
	if err != nil {
		return 0, fmt.Errorf("feature value %q does not fit a 32-bit word", string(match[1]))
	}

	return uint32(value), nil
}

func parseVersion(out []byte) (string, error) {
	match := rxVersion.FindSubmatch(out)
	if match == nil {
		return "", fmt.Errorf("unrecognized nvme version output %q", string(out))
	}
	return string(match[1]), nil
}
