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
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

// EnvironmentPrefix is prepended to every flag name to form its environment variable.
const EnvironmentPrefix = "AGGREGATOR"

var (
	app = kingpin.New("aggregator", "No help available")

	logLevelFlag = NewStringFlag(
		"log",
		"Log level for the aggregator: debug, info, warn, error, fatal, panic",
		logrus.ErrorLevel.String(),
	)
	isEnvParsed = false
)

// SetHelp sets the help message for the CLI.
func SetHelp(help string) {
	app.Help = help
}

// SetAppName sets application name for CLI output.
func SetAppName(name string) {
	app.Name = name
}

// AppName returns specified app name.
func AppName() string {
	return app.Name
}

// LogLevel returns the level selected with the log flag.
// Unknown level names fall back to the flag default.
func LogLevel() logrus.Level {
	for _, name := range []string{logLevelFlag.Value(), logLevelFlag.defaultValue} {
		if level, err := logrus.ParseLevel(name); err == nil {
			return level
		}
	}
	panic(errors.Errorf("default log level %q is not a logrus level", logLevelFlag.defaultValue))
}

// ParseFlags parses the command line of the process together with environment variables.
func ParseFlags() error {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses given command line arguments together with environment variables.
// Malformed arguments are reported as UsageError.
func ParseArgs(args []string) error {
	if err := parse(args); err != nil {
		return errors.Wrap(NewUsageError("flags", strings.Join(args, " "), err.Error()), "could not parse command line flags")
	}
	return nil
}

// ParseEnv fills flags from environment variables only.
func ParseEnv() error {
	return errors.Wrap(parse([]string{}), "could not parse environment flags")
}

func parse(args []string) error {
	if _, err := app.Parse(args); err != nil {
		return err
	}
	isEnvParsed = true
	return nil
}

// Usage prints the generated usage text to stderr.
func Usage() {
	app.Usage([]string{})
}

type flagDefinition struct {
	Name, Value, Default, Help string
}

// getFlagsDefinition returns current, default, keys and description for every flag.
// Notes: order is important because it logically groups flags.
func getFlagsDefinition() (flags []flagDefinition) {
	for _, flag := range app.Model().Flags {
		// Skip kingpin builtin flags that aren't compatible with environment based configuration.
		if flag.Name == "help" || strings.Contains(flag.Name, "-") {
			continue
		}

		flags = append(flags, flagDefinition{
			Name:    flag.Name,
			Help:    flag.Help,
			Default: strings.Join(flag.Default, ","),
			Value:   flag.Value.String(),
		})
	}

	return flags
}

// DumpConfig dumps environment based configuration with current values of flags.
func DumpConfig() string {
	return DumpConfigMap(nil)
}

// DumpConfigMap renders every flag as a shell assignment of its environment variable.
// Values from flagMap take precedence over the current ones. The output can be sourced
// to repeat an aggregation with the same settings.
func DumpConfigMap(flagMap map[string]string) string {
	buffer := &bytes.Buffer{}
	buffer.WriteString("# Source this file to export the values below.\n")
	buffer.WriteString("set -o allexport\n")

	for _, definition := range getFlagsDefinition() {
		value, overridden := flagMap[definition.Name]
		if !overridden {
			value = definition.Value
		}

		fmt.Fprintf(buffer, "\n# %s\n", definition.Help)
		if definition.Default != "" {
			fmt.Fprintf(buffer, "# Default: %s\n", definition.Default)
		}
		fmt.Fprintf(buffer, "%s_%s=%v\n", EnvironmentPrefix, strings.ToUpper(definition.Name), value)
	}

	buffer.WriteString("set +o allexport")
	return buffer.String()
}

// GetFlags returns flags as map with current values.
func GetFlags() map[string]string {
	flagsMap := map[string]string{}
	for _, flag := range getFlagsDefinition() {
		flagsMap[flag.Name] = flag.Value
	}
	return flagsMap
}
