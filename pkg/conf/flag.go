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
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

// flagType is implemented by every flag registered in this package.
type flagType interface {
	envName() string
	clear()
	defaultOf() interface{}
}

// definedFlags maps flag names to their definitions, so a flag declared twice
// with the same settings resolves to one kingpin clause.
var definedFlags = map[string]flagType{}

// cliAndEnvFlag represents option's definition from CLI and Environment variable.
type cliAndEnvFlag struct {
	*kingpin.FlagClause
}

func newCliAndEnvFlag(flagName string, description string, defaultValue string) *cliAndEnvFlag {
	if definedFlags[flagName] != nil {
		panic(fmt.Sprintf("flag %q was already defined", flagName))
	}

	c := &cliAndEnvFlag{FlagClause: app.Flag(flagName, description)}
	c.Envar(c.envName())
	if defaultValue != "" {
		c.Default(defaultValue)
	}

	return c
}

// envName returns name converted to environment variable name.
// For instance: "cassandra_addr" will be "AGGREGATOR_CASSANDRA_ADDR".
func (f *cliAndEnvFlag) envName() string {
	return fmt.Sprintf("%s_%s", EnvironmentPrefix, strings.ToUpper(f.Model().Name))
}

// clear unsets the corresponding environment variable.
func (f *cliAndEnvFlag) clear() {
	os.Unsetenv(f.envName())
}

// redefined returns already registered flag of the same name or nil.
// It panics when the flag was registered with a different type or default.
func redefined[F flagType](flagName string, defaultValue interface{}) F {
	var none F
	existing, ok := definedFlags[flagName]
	if !ok {
		return none
	}

	flag, sameType := existing.(F)
	if !sameType {
		panic(fmt.Sprintf("flag %q was redefined with different type", flagName))
	}
	if flag.defaultOf() != defaultValue {
		panic(fmt.Sprintf("flag %q was redefined with different default value", flagName))
	}
	return flag
}

func register(flagName string, flag flagType) {
	definedFlags[flagName] = flag
	isEnvParsed = false
}

// typedFlag keeps the default of a flag next to the value kingpin parses into.
type typedFlag[T comparable] struct {
	*cliAndEnvFlag
	defaultValue T
	value        *T
}

// Value returns value of defined flag after parse.
// Before flags are parsed it returns the default value.
func (f typedFlag[T]) Value() T {
	if !isEnvParsed {
		return f.defaultValue
	}
	return *f.value
}

func (f typedFlag[T]) defaultOf() interface{} {
	return f.defaultValue
}

// StringFlag represents flag with string value.
type StringFlag struct {
	typedFlag[string]
}

// NewStringFlag is a constructor of StringFlag struct.
func NewStringFlag(flagName string, description string, defaultValue string) *StringFlag {
	if flag := redefined[*StringFlag](flagName, defaultValue); flag != nil {
		return flag
	}

	clause := newCliAndEnvFlag(flagName, description, defaultValue)
	flag := &StringFlag{typedFlag[string]{cliAndEnvFlag: clause, defaultValue: defaultValue, value: clause.String()}}
	register(flagName, flag)
	return flag
}

// IntFlag represents flag with int value.
type IntFlag struct {
	typedFlag[int]
}

// NewIntFlag is a constructor of IntFlag struct.
func NewIntFlag(flagName string, description string, defaultValue int) *IntFlag {
	if flag := redefined[*IntFlag](flagName, defaultValue); flag != nil {
		return flag
	}

	clause := newCliAndEnvFlag(flagName, description, strconv.Itoa(defaultValue))
	flag := &IntFlag{typedFlag[int]{cliAndEnvFlag: clause, defaultValue: defaultValue, value: clause.Int()}}
	register(flagName, flag)
	return flag
}

// BoolFlag represents flag with bool value.
type BoolFlag struct {
	typedFlag[bool]
}

// NewBoolFlag is a constructor of BoolFlag struct.
func NewBoolFlag(flagName string, description string, defaultValue bool) *BoolFlag {
	if flag := redefined[*BoolFlag](flagName, defaultValue); flag != nil {
		return flag
	}

	clause := newCliAndEnvFlag(flagName, description, strconv.FormatBool(defaultValue))
	flag := &BoolFlag{typedFlag[bool]{cliAndEnvFlag: clause, defaultValue: defaultValue, value: clause.Bool()}}
	register(flagName, flag)
	return flag
}

// DurationFlag represents flag with duration value.
type DurationFlag struct {
	typedFlag[time.Duration]
}

// NewDurationFlag is a constructor of DurationFlag struct.
func NewDurationFlag(flagName string, description string, defaultValue time.Duration) *DurationFlag {
	if flag := redefined[*DurationFlag](flagName, defaultValue); flag != nil {
		return flag
	}

	clause := newCliAndEnvFlag(flagName, description, defaultValue.String())
	flag := &DurationFlag{typedFlag[time.Duration]{cliAndEnvFlag: clause, defaultValue: defaultValue, value: clause.Duration()}}
	register(flagName, flag)
	return flag
}

// ListFlag is a string flag holding a list literal, e.g. "['test', 'train']".
type ListFlag struct {
	*StringFlag
}

// NewListFlag is a constructor of ListFlag struct. Default elements are rendered as a literal.
func NewListFlag(flagName string, description string, elemsInDefaultList ...string) *ListFlag {
	return &ListFlag{StringFlag: NewStringFlag(flagName, description, FormatListLiteral(elemsInDefaultList))}
}

// Value returns the parsed list or a UsageError naming the flag.
func (l ListFlag) Value() ([]string, error) {
	raw := l.StringFlag.Value()
	list, err := ParseListLiteral(raw)
	if err != nil {
		return nil, NewUsageError(l.Model().Name, raw, err.Error())
	}
	return list, nil
}
