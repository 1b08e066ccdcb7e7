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

package scripting

import (
	"reflect"
	"time"

	lua "github.com/yuin/gopher-lua"

	"log2duck/weblog"
	"log2duck/weblog/combined"
)

const (
	rowRecName = "row_rec_mt"
)

func importField(L *lua.LState, field reflect.Value) lua.LValue {
	switch field.Kind() {
	case reflect.String:
		return lua.LString(field.String())
	case reflect.Int, reflect.Int32, reflect.Int64:
		return lua.LNumber(float64(field.Int()))
	case reflect.Uint16, reflect.Uint32:
		return lua.LNumber(float64(field.Uint()))
	case reflect.Pointer:
		if field.IsNil() {
			return lua.LNil
		}
		return importField(L, field.Elem())
	case reflect.Slice:
		if q, ok := field.Interface().(weblog.Query); ok {
			tbl := L.NewTable()
			for _, param := range q {
				values := L.NewTable()
				for i, v := range param.Values {
					values.RawSetInt(i+1, lua.LString(v))
				}
				L.RawSet(tbl, lua.LString(param.Key), values)
			}
			return tbl
		}
	default:
		if tVal, ok := field.Interface().(time.Time); ok {
			return lua.LString(tVal.Format(time.RFC3339))
		}
	}
	return lua.LNil
}

func getRowProp(L *lua.LState, row *combined.Row, name string) lua.LValue {
	val := reflect.ValueOf(row).Elem()
	if field := val.FieldByName(name); field.IsValid() {
		return importField(L, field)
	}
	return lua.LNil
}

// setRowProp writes a value into a row attribute. Only attributes of
// a plain string type are writable; the typed columns (method, status,
// parsed queries etc.) are read-only for scripts.
func setRowProp(row *combined.Row, name string, value lua.LValue) error {
	field := reflect.ValueOf(row).Elem().FieldByName(name)
	if !field.IsValid() || field.Type() != reflect.TypeOf("") {
		return InvalidAttrError{Attr: name}
	}
	tVal, ok := value.(lua.LString)
	if !ok {
		return InvalidAttrError{Attr: name}
	}
	field.SetString(string(tVal))
	return nil
}

func checkRow(L *lua.LState, pos int) *combined.Row {
	ud := L.CheckUserData(pos)
	if v, ok := ud.Value.(*combined.Row); ok {
		return v
	}
	L.ArgError(pos, "expecting a log row")
	return nil
}

func get(L *lua.LState) int {
	row := checkRow(L, 1)
	key := L.CheckString(2)
	L.Push(getRowProp(L, row, key))
	return 1
}

func set(L *lua.LState) int {
	row := checkRow(L, 1)
	key := L.CheckString(2)
	if err := setRowProp(row, key, L.Get(3)); err != nil {
		L.RaiseError("%s", err)
	}
	return 0
}

func importRow(L *lua.LState, row *combined.Row) lua.LValue {
	d := L.NewUserData()
	d.Value = row
	L.SetMetatable(d, L.GetGlobal(rowRecName))
	return d
}

func registerRow(L *lua.LState) {
	mt := L.NewTypeMetatable(rowRecName)
	L.SetGlobal(rowRecName, mt)
	L.SetField(mt, "__index", L.NewFunction(get))
	L.SetField(mt, "__newindex", L.NewFunction(set))
}
