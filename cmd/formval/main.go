// Command formval validates a JSON document against a YAML form
// definition.
//
//	formval --definition form.yaml --input data.json
//
// On success the validated values are printed as JSON and the exit status
// is 0. Failed fields are printed as "id: message" lines with status 1.
// Configuration problems exit with status 2.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/SimonDaKappa/go-formval"
)

const (
	exitValid       = 0
	exitInvalid     = 1
	exitConfigError = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("formval", pflag.ContinueOnError)
	flags.SetOutput(stderr)

	definitionPath := flags.StringP("definition", "d", "", "path to the YAML form definition (required)")
	inputPath := flags.StringP("input", "i", "-", "path to the JSON document to validate, '-' reads stdin")
	verbose := flags.BoolP("verbose", "v", false, "log validation details to stderr")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintf(stderr, "formval: %v\n", err)
		return exitConfigError
	}
	if *definitionPath == "" {
		fmt.Fprintln(stderr, "formval: --definition is required")
		flags.PrintDefaults()
		return exitConfigError
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(stderr, "formval: %v\n", err)
		return exitConfigError
	}
	defer logger.Sync()

	def, err := formval.LoadDefinitionFile(*definitionPath)
	if err != nil {
		fmt.Fprintf(stderr, "formval: %v\n", err)
		return exitConfigError
	}

	input, err := readInput(*inputPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "formval: %v\n", err)
		return exitConfigError
	}

	src, err := formval.NewJSONSource(input)
	if err != nil {
		fmt.Fprintf(stderr, "formval: %v\n", err)
		return exitConfigError
	}

	collector := formval.NewCollector()
	handler, err := def.Handler(src, collector, formval.HandlerOpts{Logger: logger})
	if err != nil {
		fmt.Fprintf(stderr, "formval: %v\n", err)
		return exitConfigError
	}

	data, ok, err := handler.GetData()
	if err != nil {
		fmt.Fprintf(stderr, "formval: %v\n", err)
		return exitConfigError
	}

	if !ok {
		failures := collector.Failures()
		ids := make([]string, 0, len(failures))
		for id := range failures {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		for _, id := range ids {
			fmt.Fprintf(stdout, "%s: %s\n", id, failures[id])
		}
		return exitInvalid
	}

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(stderr, "formval: %v\n", err)
		return exitConfigError
	}
	return exitValid
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
