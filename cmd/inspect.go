package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"oculurum/internal/pngsink"
	"oculurum/internal/tui"
	"oculurum/pkg/imgutil"
)

type inspectReport struct {
	Path   string
	Kind   imgutil.Kind
	Config imgutil.Config
	PNG    *pngsink.Analysis
	Exif   []pngsink.ExifTag
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <image>",
	Short: "Report the dimensions and metadata of an image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		report, err := inspectImage(args[0])
		if err != nil {
			return err
		}
		printReport(os.Stdout, report)
		return nil
	},
}

func inspectImage(path string) (inspectReport, error) {
	report := inspectReport{Path: path}

	file, err := os.Open(path)
	if err != nil {
		return report, err
	}
	defer file.Close()

	if report.Kind, err = imgutil.SniffReader(file); err != nil {
		return report, fmt.Errorf("could not identify %q: %w", path, err)
	}
	if report.Kind == imgutil.KindUnknown {
		return report, fmt.Errorf("unsupported image type: %q", path)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return report, err
	}
	if report.Config, err = imgutil.DecodeConfigReader(file); err != nil {
		return report, err
	}

	if report.Kind != imgutil.KindPNG {
		return report, nil
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return report, err
	}
	analysis, err := pngsink.Scan(file)
	if err != nil {
		return report, fmt.Errorf("could not scan PNG chunks: %w", err)
	}
	report.PNG = &analysis

	if len(analysis.Exif) > 0 {
		if report.Exif, err = pngsink.ReadExif(analysis.Exif); err != nil {
			return report, fmt.Errorf("could not read EXIF: %w", err)
		}
	}
	return report, nil
}

func printReport(w io.Writer, report inspectReport) {
	fmt.Fprintf(w, "%s\n", inspectFileStyle.Render(report.Path))
	printField(w, "Format", report.Kind.String())
	printField(w, "Dimensions", fmt.Sprintf("%dx%d", report.Config.Width, report.Config.Height))
	printField(w, "Colour model", report.Config.Model)

	if report.PNG == nil {
		return
	}

	hdr := report.PNG.Header
	printField(w, "Colour type", hdr.ColorType.String())
	printField(w, "Bit depth", fmt.Sprintf("%d", hdr.BitDepth))
	if channels := hdr.ColorType.Channels(); channels > 0 {
		capacity := uint64(hdr.Width) * uint64(hdr.Height) * uint64(channels) * uint64(hdr.BitDepth) / 8
		printField(w, "Pixel bytes", fmt.Sprintf("%d", capacity))
	}
	printField(w, "Compressed bytes", fmt.Sprintf("%d", report.PNG.IDATBytes))
	if report.PNG.BadCRCs > 0 {
		printField(w, "Bad CRCs", fmt.Sprintf("%d", report.PNG.BadCRCs))
	}

	fmt.Fprintf(w, "  %s\n", inspectCategoryStyle.Render("Chunks:"))
	for _, name := range report.PNG.Order {
		fmt.Fprintf(w, "    %s %s\n",
			inspectBulletStyle.Render("-"),
			inspectValueStyle.Render(fmt.Sprintf("%s x%d", name, report.PNG.Chunks[name])))
	}

	if len(report.PNG.TextKeys) > 0 {
		keys := append([]string(nil), report.PNG.TextKeys...)
		sort.Strings(keys)
		fmt.Fprintf(w, "  %s\n", inspectCategoryStyle.Render("Text:"))
		for _, key := range keys {
			fmt.Fprintf(w, "    %s %s\n", inspectBulletStyle.Render("-"), inspectValueStyle.Render(key))
		}
	}

	if len(report.Exif) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s\n", inspectCategoryStyle.Render("EXIF:"))
	for _, tag := range report.Exif {
		fmt.Fprintf(w, "    %s %s\n",
			inspectBulletStyle.Render("-"),
			inspectValueStyle.Render(fmt.Sprintf("%s = %s", tag.Name, tag.Value)))
	}
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", inspectCategoryStyle.Render(label+":"), inspectValueStyle.Render(value))
}

var (
	inspectFileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	inspectCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	inspectValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	inspectBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}
