package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/itsatony/go-liquify"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	dataJSON     string
	dataFilePath string
	partialsDir  string
	outputPath   string
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
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

	// Parse data
	data, err := loadData(cfg.dataJSON, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	// Create engine and render
	opts := []liquify.Option{}
	if cfg.partialsDir != "" {
		opts = append(opts, liquify.WithResolver(liquify.NewFilesystemResolver(cfg.partialsDir)))
	}
	engine := liquify.MustNew(opts...)

	result, err := engine.RenderString(context.Background(), string(templateSource), data)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgRenderFailed, err)
		return ExitCodeError
	}

	// Write output
	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.partialsDir, FlagPartials, "", "")
	fs.StringVar(&cfg.partialsDir, FlagPartialsShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Validation
	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}

	return cfg, nil
}

// loadData reads render data from an inline JSON string or a data file.
// File format is chosen by extension: .json, .yaml or .yml.
func loadData(jsonStr, filePath string) (map[string]any, error) {
	if filePath != "" {
		raw, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(filepath.Ext(filePath)) {
		case DataFormatJSON:
			return liquify.FromJSON(raw)
		case DataFormatYAML, DataFormatYML:
			return liquify.FromYAML(raw)
		default:
			return nil, errors.New(ErrMsgUnknownDataFormat)
		}
	}

	if jsonStr != "" {
		return liquify.FromJSON([]byte(jsonStr))
	}

	// No data provided, return empty map
	return make(map[string]any), nil
}
