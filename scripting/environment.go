// Copyright 2025 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2025 Institute of the Czech National Corpus,
//                Faculty of Arts, Charles University
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scripting allows a per-run Lua script to customize rows
// before they are stored. The script must define a global function
// `transform(row)` returning either the (possibly modified) row or
// nil to drop the row from the output.
package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"log2duck/weblog/combined"
)

// Env is a loaded customization script. It is bound to a single
// goroutine as the underlying Lua state is not safe for concurrent
// use.
type Env struct {
	L *lua.LState
}

// CreateEnvironment loads and executes a customization script and
// verifies it defines the required `transform` function.
func CreateEnvironment(scriptPath string) (*Env, error) {
	L := lua.NewState()
	registerRow(L)
	if err := L.DoFile(scriptPath); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to process customization script %s: %w", scriptPath, err)
	}
	if L.GetGlobal("transform") == lua.LNil {
		L.Close()
		return nil, fmt.Errorf(
			"customization script %s does not define the `transform` function", scriptPath)
	}
	return &Env{L: L}, nil
}

// Transform runs the script's transform function on a row. A nil row
// with a nil error means the script decided to drop the row.
func (env *Env) Transform(row *combined.Row) (*combined.Row, error) {
	err := env.L.CallByParam(
		lua.P{
			Fn:      env.L.GetGlobal("transform"),
			NRet:    1,
			Protect: true,
		},
		importRow(env.L, row),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to transform row using a Lua script: %w", err)
	}
	ret := env.L.Get(-1)
	env.L.Pop(1)
	if ret == lua.LNil {
		return nil, nil
	}
	tRet, ok := ret.(*lua.LUserData)
	if !ok {
		return nil, fmt.Errorf(
			"failed to transform row using a Lua script: expected a row or nil, got %s", ret.Type())
	}
	unwrapped, ok := tRet.Value.(*combined.Row)
	if !ok {
		return nil, fmt.Errorf(
			"failed to transform row using a Lua script: invalid type of wrapped value")
	}
	return unwrapped, nil
}

func (env *Env) Close() {
	env.L.Close()
}
