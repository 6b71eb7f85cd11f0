// Package flagx filters os.Args so several independent flag sets can parse
// the same command line without tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belongs to the listed flags.
//
// valueFlags take an argument, either as "-a value" or "-a=value".
// boolFlags never consume the following argument; "-dev" and "-dev=false"
// are both kept as a single token.
//
// The result is never nil, so it can be passed straight to FlagSet.Parse.
func FilterArgs(args []string, valueFlags []string, boolFlags []string) []string {
	values := make(map[string]struct{}, len(valueFlags))
	for _, f := range valueFlags {
		values[f] = struct{}{}
	}
	bools := make(map[string]struct{}, len(boolFlags))
	for _, f := range boolFlags {
		bools[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		_, isValue := values[name]
		_, isBool := bools[name]

		switch {
		case hasValue && (isValue || isBool):
			filtered = append(filtered, arg)
		case isBool:
			filtered = append(filtered, arg)
		case isValue:
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFile returns the JSON config path given by -c or -config. When
// neither flag is present it falls back to the envKey environment variable;
// an empty result means no file should be loaded.
func ConfigFile(envKey string) string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"}, nil)

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	if config == "" && envKey != "" {
		config = os.Getenv(envKey)
	}

	return config
}
