package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"oculurum/internal/tui"
)

var (
	compressionArg string
	typeArg        string
	outputArg      string
	showProgress   bool
)

var rootCmd = &cobra.Command{
	Use:   "oculurum [options] <file or directory>",
	Short: "oculurum - render the raw bytes of files as a square PNG",
	Long: `oculurum turns the bytes of a file, or of every file under a directory, into the
pixels of a square PNG image for visual inspection of binary data.

Compression values:
    0 => Default
    1 => Fast
    2 => Best
  Deprecated:
    3 => Huffman
    4 => Rle

Colour type values:
    0 => Bitwise
    1 => Grayscale (default)
    2 => RGB
    4 => Grayscale Alpha
    5 => RGB Alpha
  Unimplemented:
    3 => Indexed`,
	Args:          inputArgs,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		setupLogging(showProgress)

		opts := convertOptions{
			Input:       args[0],
			Output:      outputArg,
			Mode:        colorModeArg(typeArg),
			Compression: compressionLevelArg(compressionArg),
			Progress:    showProgress,
		}

		plan, summary, output, err := convert(opts)
		if err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr, tui.RenderSummary(tui.RunRows(plan, summary, output)))
		fmt.Fprintln(os.Stderr, tui.SuccessStyle.Render("Success!"))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error occurred:"), err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	rootCmd.Flags().StringVarP(&compressionArg, "compression", "c", "0", "PNG compression level (0-4)")
	rootCmd.Flags().StringVarP(&typeArg, "type", "t", "1", "PNG colour type (0, 1, 2, 4, 5)")
	rootCmd.Flags().StringVarP(&outputArg, "output", "o", "", "output file (default: <input name>.png)")
	rootCmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress view")
}

func inputArgs(_ *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return withCode(exitNoInput, errors.New("no input file or directory given"))
	case len(args) > 1:
		return withCode(exitMultipleInputs, errors.New("multiple input files"))
	}
	return nil
}

func setupLogging(progress bool) {
	level := slog.LevelInfo
	if progress {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
