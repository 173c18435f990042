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
	"context"
	"os"
	osexec "os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockexec "github.com/NVIDIA/nvme-hctm/internal/mocks/pkg/exec"
	"github.com/NVIDIA/nvme-hctm/internal/pkg/hctm"
)

const testDevice = "/dev/nvme0"

func exitError(stderr string) error {
	return &osexec.ExitError{ProcessState: &os.ProcessState{}, Stderr: []byte(stderr)}
}

func TestIdentifyController(t *testing.T) {
	ctrl := gomock.NewController(t)

	idCtrlJSON := `{
		"mn": "Samsung SSD 980 PRO 1TB                 ",
		"sn": "S5GXNX0T123456A     ",
		"fr": "5B2QGXA7",
		"ctratt": 1,
		"mntmt": 323,
		"mxtmt": 363,
		"wctemp": 355,
		"cctemp": 358
	}`

	mockCmd := mockexec.NewMockCmd(ctrl)
	mockCmd.EXPECT().Output().Return([]byte(idCtrlJSON), nil)

	mockExec := mockexec.NewMockExec(ctrl)
	mockExec.EXPECT().
		CommandContext(gomock.Any(), "nvme", "id-ctrl", testDevice, "--output-format=json").
		Return(mockCmd)

	client := New(mockExec, "", 0)
	got, err := client.IdentifyController(context.Background(), testDevice)
	require.NoError(t, err)

	assert.Equal(t, "Samsung SSD 980 PRO 1TB", got.ModelNumber)
	assert.Equal(t, "S5GXNX0T123456A", got.SerialNumber)
	assert.Equal(t, "5B2QGXA7", got.Firmware)
	assert.Equal(t, hctm.Capability{Supported: true, Min: 323, Max: 363}, got.ThermalCapability())
}

func TestIdentifyControllerNotSupported(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockCmd := mockexec.NewMockCmd(ctrl)
	mockCmd.EXPECT().Output().Return([]byte(`{"ctratt": 0, "mntmt": 0, "mxtmt": 0}`), nil)

	mockExec := mockexec.NewMockExec(ctrl)
	mockExec.EXPECT().CommandContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(mockCmd)

	client := New(mockExec, "", 0)
	got, err := client.IdentifyController(context.Background(), testDevice)
	require.NoError(t, err)
	assert.False(t, got.ThermalCapability().Supported)
}

func TestGetFeature(t *testing.T) {
	ctrl := gomock.NewController(t)

	out := "get-feature:0x10 (Host Controlled Thermal Management), Default value:0x01570161\n"

	mockCmd := mockexec.NewMockCmd(ctrl)
	mockCmd.EXPECT().Output().Return([]byte(out), nil)

	mockExec := mockexec.NewMockExec(ctrl)
	mockExec.EXPECT().
		CommandContext(gomock.Any(), "nvme", "get-feature", testDevice, "--feature-id=0x10", "--sel=1").
		Return(mockCmd)

	client := New(mockExec, "", 0)
	value, err := client.GetFeature(context.Background(), testDevice, SelectDefault)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01570161), value)
}

func TestGetFeatureCommandFails(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockCmd := mockexec.NewMockCmd(ctrl)
	mockCmd.EXPECT().Output().Return(nil, exitError("NVMe status: INVALID_FIELD(0x2)\n"))

	mockExec := mockexec.NewMockExec(ctrl)
	mockExec.EXPECT().
		CommandContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mockCmd)

	client := New(mockExec, "", 0)
	_, err := client.GetFeature(context.Background(), testDevice, SelectCurrent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nvme get-feature failed")
	assert.Contains(t, err.Error(), "INVALID_FIELD")
}

func TestSetFeature(t *testing.T) {
	tests := []struct {
		name string
		save bool
		args []string
	}{
		{
			name: "without save",
			args: []string{"set-feature", testDevice, "--feature-id=0x10", "--value=0x01570161"},
		},
		{
			name: "with save",
			save: true,
			args: []string{"set-feature", testDevice, "--feature-id=0x10", "--value=0x01570161", "--save"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			mockCmd := mockexec.NewMockCmd(ctrl)
			mockCmd.EXPECT().Output().
				Return([]byte("set-feature:0x10 (Host Controlled Thermal Management), value:0x01570161\n"), nil)

			expected := []any{gomock.Any(), "nvme"}
			for _, arg := range tt.args {
				expected = append(expected, arg)
			}

			mockExec := mockexec.NewMockExec(ctrl)
			mockExec.EXPECT().CommandContext(expected[0], expected[1], expected[2:]...).Return(mockCmd)

			client := New(mockExec, "", 0)
			err := client.SetFeature(context.Background(), testDevice, 0x01570161, tt.save)
			assert.NoError(t, err)
		})
	}
}

func TestRunRetriesOnDeviceBusy(t *testing.T) {
	ctrl := gomock.NewController(t)

	busyCmd := mockexec.NewMockCmd(ctrl)
	busyCmd.EXPECT().Output().Return(nil, exitError("identify controller: Device or resource busy\n"))

	okCmd := mockexec.NewMockCmd(ctrl)
	okCmd.EXPECT().Output().
		Return([]byte("get-feature:0x10 (Host Controlled Thermal Management), Current value:0x0"), nil)

	mockExec := mockexec.NewMockExec(ctrl)
	gomock.InOrder(
		mockExec.EXPECT().
			CommandContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(busyCmd),
		mockExec.EXPECT().
			CommandContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(okCmd),
	)

	client := New(mockExec, "", 0)
	value, err := client.GetFeature(context.Background(), testDevice, SelectCurrent)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), value)
}

func TestRunDoesNotRetryPermanentErrors(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockCmd := mockexec.NewMockCmd(ctrl)
	mockCmd.EXPECT().Output().Return(nil, exitError("Operation not permitted\n")).Times(1)

	mockExec := mockexec.NewMockExec(ctrl)
	mockExec.EXPECT().
		CommandContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mockCmd).
		Times(1)

	client := New(mockExec, "", 0)
	_, err := client.GetFeature(context.Background(), testDevice, SelectCurrent)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operation not permitted")
}

func TestFeatureSaveable(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want bool
	}{
		{
			name: "saveable and changeable",
			out:  "get-feature:0x10 (Host Controlled Thermal Management), supported capabilities value:0x5\n",
			want: true,
		},
		{
			name: "not saveable",
			out:  "get-feature:0x10 (Host Controlled Thermal Management), supported capabilities value:0x4\n",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			mockCmd := mockexec.NewMockCmd(ctrl)
			mockCmd.EXPECT().Output().Return([]byte(tt.out), nil)

			mockExec := mockexec.NewMockExec(ctrl)
			mockExec.EXPECT().
				CommandContext(gomock.Any(), "nvme", "get-feature", testDevice, "--feature-id=0x10", "--sel=3").
				Return(mockCmd)

			client := New(mockExec, "", 0)
			got, err := client.FeatureSaveable(context.Background(), testDevice)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersion(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockCmd := mockexec.NewMockCmd(ctrl)
	mockCmd.EXPECT().Output().Return([]byte("nvme version 2.8 (git 2.8)\n"), nil)

	mockExec := mockexec.NewMockExec(ctrl)
	mockExec.EXPECT().CommandContext(gomock.Any(), "nvme", "version").Return(mockCmd)

	client := New(mockExec, "", 0)
	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.8", version)
}

func TestList(t *testing.T) {
	ctrl := gomock.NewController(t)

	listJSON := `{
	  "Devices": [
	    {
	      "DevicePath": "/dev/nvme0n1",
	      "ModelNumber": "Samsung SSD 980 PRO 1TB",
	      "SerialNumber": "S5GXNX0T123456A",
	      "Firmware": "5B2QGXA7",
	      "PhysicalSize": 1000204886016
	    }
	  ]
	}`

	mockCmd := mockexec.NewMockCmd(ctrl)
	mockCmd.EXPECT().Output().Return([]byte(listJSON), nil)

	mockExec := mockexec.NewMockExec(ctrl)
	mockExec.EXPECT().CommandContext(gomock.Any(), "nvme", "list", "--output-format=json").Return(mockCmd)

	client := New(mockExec, "", 0)
	devices, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "/dev/nvme0n1", devices[0].DevicePath)
	assert.Equal(t, int64(1000204886016), devices[0].PhysicalSize)
}
