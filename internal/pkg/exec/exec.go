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

package exec

import (
	"context"
	"os/exec"
)

//go:generate go run -v go.uber.org/mock/mockgen  -destination=../../mocks/pkg/exec/mock_exec.go -package=exec . Exec
type Exec interface {
	CommandContext(ctx context.Context, name string, arg ...string) Cmd
	LookPath(file string) (string, error)
}

//go:generate go run -v go.uber.org/mock/mockgen  -destination=../../mocks/pkg/exec/mock_cmd.go -package=exec . Cmd
type Cmd interface {
	Output() ([]byte, error)
}

var (
	_ Exec = (*RealExec)(nil)
	_ Cmd  = (*RealCmd)(nil)
)

type RealExec struct{}

func (r RealExec) CommandContext(ctx context.Context, name string, arg ...string) Cmd {
	return &RealCmd{cmd: exec.CommandContext(ctx, name, arg...)}
}

func (r RealExec) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

type RealCmd struct {
	cmd *exec.Cmd
}

func (r *RealCmd) Output() ([]byte, error) {
	return r.cmd.Output()
}
