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

package devicescan

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockos "github.com/NVIDIA/nvme-hctm/internal/mocks/pkg/os"
)

func dirEntry(ctrl *gomock.Controller, name string) os.DirEntry {
	entry := mockos.NewMockDirEntry(ctrl)
	entry.EXPECT().Name().Return(name).AnyTimes()
	return entry
}

func TestControllers(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockOS := mockos.NewMockOS(ctrl)
	mockOS.EXPECT().ReadDir("/sys/class/nvme").Return([]os.DirEntry{
		dirEntry(ctrl, "nvme10"),
		dirEntry(ctrl, "nvme0"),
		dirEntry(ctrl, "nvme-subsystem"),
		dirEntry(ctrl, "nvme0n1"),
	}, nil)

	mockOS.EXPECT().ReadFile("/sys/class/nvme/nvme0/model").Return([]byte("Samsung SSD 980 PRO 1TB\n"), nil)
	mockOS.EXPECT().ReadFile("/sys/class/nvme/nvme0/serial").Return([]byte("S5GXNX0T123456A     \n"), nil)
	mockOS.EXPECT().ReadFile("/sys/class/nvme/nvme0/firmware_rev").Return([]byte("5B2QGXA7\n"), nil)
	mockOS.EXPECT().ReadFile("/sys/class/nvme/nvme10/model").Return([]byte("WD_BLACK SN850X 2000GB\n"), nil)
	mockOS.EXPECT().ReadFile("/sys/class/nvme/nvme10/serial").Return([]byte("23015A800126\n"), nil)
	mockOS.EXPECT().ReadFile("/sys/class/nvme/nvme10/firmware_rev").Return(nil, os.ErrNotExist)

	scanner := New(mockOS)
	got, err := scanner.Controllers()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, Controller{
		Name:     "nvme0",
		Path:     "/dev/nvme0",
		Model:    "Samsung SSD 980 PRO 1TB",
		Serial:   "S5GXNX0T123456A",
		Firmware: "5B2QGXA7",
	}, got[0])

	assert.Equal(t, "nvme10", got[1].Name)
	assert.Empty(t, got[1].Firmware)
}

func TestControllersNoNVMeClass(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockOS := mockos.NewMockOS(ctrl)
	mockOS.EXPECT().ReadDir("/sys/class/nvme").Return(nil, os.ErrNotExist)
	mockOS.EXPECT().IsNotExist(os.ErrNotExist).Return(true)

	scanner := New(mockOS)
	got, err := scanner.Controllers()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestControllersReadDirFails(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockOS := mockos.NewMockOS(ctrl)
	mockOS.EXPECT().ReadDir("/sys/class/nvme").Return(nil, os.ErrPermission)
	mockOS.EXPECT().IsNotExist(os.ErrPermission).Return(false)

	scanner := New(mockOS)
	_, err := scanner.Controllers()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning /sys/class/nvme")
}
