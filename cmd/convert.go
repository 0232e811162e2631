package cmd

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"oculurum/internal/transcode"
	"oculurum/internal/tui"
)

type convertOptions struct {
	Input       string
	Output      string
	Mode        transcode.ColorMode
	Compression transcode.CompressionLevel
	Progress    bool
}

// convert plans the input, then streams it into a PNG at the derived output path.
func convert(opts convertOptions) (transcode.Plan, transcode.Summary, string, error) {
	plan, err := transcode.NewPlan(opts.Input, opts.Mode, opts.Compression)
	if err != nil {
		return plan, transcode.Summary{}, "", withCode(exitPlanning, err)
	}

	output := opts.Output
	if output == "" {
		if output, err = outputName(opts.Input); err != nil {
			return plan, transcode.Summary{}, "", withCode(exitOutputPath, err)
		}
	}

	slog.Info("planned",
		"files", len(plan.Files),
		"bytes", plan.TotalBytes,
		"dimension", plan.Dimension,
		"type", plan.Mode,
		"compression", plan.Compression,
		"output", output)

	var (
		updates chan transcode.ProgressUpdate
		uiDone  chan struct{}
	)
	if opts.Progress {
		updates = make(chan transcode.ProgressUpdate, 64)
		program := tea.NewProgram(tui.NewModel(updates), tea.WithOutput(os.Stderr))

		uiDone = make(chan struct{})
		go func() {
			_, _ = program.Run()
			// keep the run unblocked if the view was closed early
			for range updates {
			}
			close(uiDone)
		}()
	}

	summary, err := transcode.Run(plan, pngOpener(output), transcode.Options{}, updates)

	if updates != nil {
		close(updates)
		<-uiDone
	}
	return plan, summary, output, err
}
