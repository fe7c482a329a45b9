// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conf

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/camelcase"
	"github.com/pkg/errors"
)

const (
	// Tag for specifying the help description of the field. [Required]
	helpTag = "help"
	// Tag for specifying default value for field. [Optional]
	defaultTag = "default"
	// Tag for overriding the name of the field. [Optional]
	nameTag = "name"
	// Special field name indicating prefix for all flags in struct.
	prefixFieldName = "flagPrefix"
)

// Process registers flags for every field of given struct pointer which has a help tag
// and fills fields with the flag values (defaults when CLI or Env is not parsed yet).
// Supported field types are string, int, bool and time.Duration.
func Process(data interface{}) error {
	dataPtr := reflect.ValueOf(data)
	if dataPtr.Kind() != reflect.Ptr || dataPtr.Elem().Kind() != reflect.Struct {
		return errors.Errorf("argument needs to be a pointer to struct, got %s", dataPtr.Kind())
	}

	dataValue := dataPtr.Elem()
	typeOfData := dataValue.Type()

	prefix := ""
	if prefixField := dataValue.FieldByName(prefixFieldName); prefixField.Kind() == reflect.String {
		prefix = prefixField.String()
	}

	for i := 0; i < dataValue.NumField(); i++ {
		field := dataValue.Field(i)
		if !field.CanSet() {
			continue
		}

		err := processField(prefix, field, typeOfData.Field(i))
		if err != nil {
			return errors.Wrapf(err, "cannot process field %s", typeOfData.Field(i).Name)
		}
	}
	return nil
}

// nameFromFieldName parses the name e.g SomeSome to some_some.
func nameFromFieldName(name string) string {
	words := camelcase.Split(name)
	wordsToUse := []string{}
	for _, word := range words {
		if word == "_" {
			continue
		}
		wordsToUse = append(wordsToUse, strings.ToLower(word))
	}

	return strings.Join(wordsToUse, "_")
}

func isDurationType(t reflect.Type) bool {
	return t.PkgPath() == "time" && t.Name() == "Duration"
}

func processField(prefix string, field reflect.Value, fieldStruct reflect.StructField) error {
	help := fieldStruct.Tag.Get(helpTag)
	if help == "" {
		if fieldStruct.Tag.Get(nameTag) != "" || fieldStruct.Tag.Get(defaultTag) != "" {
			return errors.New("required help tag is missing")
		}
		// Field without tags is excluded from processing.
		return nil
	}

	name := fieldStruct.Tag.Get(nameTag)
	if name == "" {
		name = fieldStruct.Name
	}
	name = nameFromFieldName(prefix + name)

	defaultValue, hasDefault := fieldStruct.Tag.Lookup(defaultTag)

	switch {
	case field.Kind() == reflect.String:
		field.SetString(NewStringFlag(name, help, defaultValue).Value())

	case isDurationType(field.Type()):
		var duration time.Duration
		if hasDefault {
			var err error
			duration, err = time.ParseDuration(defaultValue)
			if err != nil {
				return errors.Wrap(err, "wrong default value for Duration type flag")
			}
		}
		field.SetInt(int64(NewDurationFlag(name, help, duration).Value()))

	case field.Kind() == reflect.Int:
		var number int
		if hasDefault {
			var err error
			number, err = strconv.Atoi(defaultValue)
			if err != nil {
				return errors.Wrap(err, "wrong default value for Int type flag")
			}
		}
		field.SetInt(int64(NewIntFlag(name, help, number).Value()))

	case field.Kind() == reflect.Bool:
		var boolean bool
		if hasDefault {
			var err error
			boolean, err = strconv.ParseBool(defaultValue)
			if err != nil {
				return errors.Wrap(err, "wrong default value for Bool type flag")
			}
		}
		field.SetBool(NewBoolFlag(name, help, boolean).Value())

	default:
		return errors.Errorf("%s type not supported for a flag", field.Type())
	}

	return nil
}
