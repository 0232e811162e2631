package cmd

import (
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"oculurum/internal/transcode"
)

const defaultOutput = "oculurised.png"

var errInvalidOutputPath = errors.New("output path couldn't be validated (invalid characters)")

// compressionLevelArg falls back to the default level on invalid input.
func compressionLevelArg(s string) transcode.CompressionLevel {
	level, err := transcode.ParseCompression(s)
	if err != nil {
		slog.Warn("invalid argument to `--compression`, using default", "error", err)
		return transcode.CompressionDefault
	}
	return level
}

// colorModeArg falls back to grayscale on invalid input.
func colorModeArg(s string) transcode.ColorMode {
	mode, err := transcode.ParseColorMode(s)
	if err != nil {
		slog.Warn("invalid argument to `--type`, using default", "error", err)
		return transcode.Grayscale
	}
	return mode
}

// outputName derives the output file from the final component of input.
func outputName(input string) (string, error) {
	if !utf8.ValidString(input) {
		return "", errInvalidOutputPath
	}

	trimmed := strings.TrimRight(input, `/\`)
	name := trimmed[strings.LastIndexAny(trimmed, `/\`)+1:]
	if name == "" || name == "." || name == ".." {
		return defaultOutput, nil
	}
	return name + ".png", nil
}
