package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-liquify"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	templatePath string
	format       string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	// Read template
	templateSource, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	// Parse only; never renders
	engine := liquify.MustNew()
	_, parseErr := engine.Parse(string(templateSource), cfg.templatePath)

	if cfg.format == OutputFormatJSON {
		return outputValidationJSON(parseErr, stdout)
	}
	return outputValidationText(parseErr, stdout)
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &validateConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func outputValidationText(parseErr error, stdout io.Writer) int {
	if parseErr == nil {
		fmt.Fprintln(stdout, ValidationTextSuccess)
		return ExitCodeSuccess
	}

	if pe, ok := liquify.AsParseError(parseErr); ok {
		fmt.Fprintf(stdout, ValidationTextErrorFormat+FmtNewline,
			pe.Message, pe.Position.Line, pe.Position.Column)
	} else {
		fmt.Fprintln(stdout, parseErr.Error())
	}
	return ExitCodeValidationError
}

func outputValidationJSON(parseErr error, stdout io.Writer) int {
	output := validationOutput{Valid: parseErr == nil}

	if parseErr != nil {
		if pe, ok := liquify.AsParseError(parseErr); ok {
			output.Message = pe.Message
			output.Line = pe.Position.Line
			output.Column = pe.Position.Column
		} else {
			output.Message = parseErr.Error()
		}
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}
