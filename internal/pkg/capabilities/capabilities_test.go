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

package capabilities

import (
	goos "os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockos "github.com/NVIDIA/nvme-hctm/internal/mocks/pkg/os"
	osinterface "github.com/NVIDIA/nvme-hctm/internal/pkg/os"
)

const statusWithSysAdmin = `Name:	nvme-hctm
CapInh:	0000000000000000
CapPrm:	000001ffffffffff
CapEff:	000001ffffffffff
CapBnd:	000001ffffffffff
`

const statusWithoutSysAdmin = `Name:	nvme-hctm
CapInh:	0000000000000000
CapPrm:	0000000000000000
CapEff:	0000000000000000
CapBnd:	000001ffffffffff
`

func withMockOS(t *testing.T, mock osinterface.OS) {
	t.Helper()
	realOS := os
	os = mock
	t.Cleanup(func() {
		os = realOS
	})
}

func TestHasCapability(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		cap     int
		want    bool
		wantErr string
	}{
		{name: "sys_admin present", status: statusWithSysAdmin, cap: CAP_SYS_ADMIN, want: true},
		{name: "sys_admin absent", status: statusWithoutSysAdmin, cap: CAP_SYS_ADMIN, want: false},
		{name: "negative capability", status: statusWithSysAdmin, cap: -1, wantErr: "invalid capability"},
		{name: "capability too large", status: statusWithSysAdmin, cap: 64, wantErr: "invalid capability"},
		{name: "no CapEff line", status: "Name:\tnvme-hctm\n", cap: CAP_SYS_ADMIN, wantErr: "could not find CapEff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			mockOS := mockos.NewMockOS(ctrl)
			mockOS.EXPECT().ReadFile(procSelfStatus).Return([]byte(tt.status), nil).AnyTimes()
			withMockOS(t, mockOS)

			got, err := HasCapability(tt.cap)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasCapabilityReadFails(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockOS := mockos.NewMockOS(ctrl)
	mockOS.EXPECT().ReadFile(procSelfStatus).Return(nil, goos.ErrPermission)
	withMockOS(t, mockOS)

	_, err := HasCapability(CAP_SYS_ADMIN)
	assert.Error(t, err)
}

func TestCheckSysAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockOS := mockos.NewMockOS(ctrl)
	mockOS.EXPECT().ReadFile(procSelfStatus).Return([]byte(statusWithoutSysAdmin), nil)
	withMockOS(t, mockOS)

	assert.False(t, CheckSysAdmin())
}
