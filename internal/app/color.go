package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	fferrors "filefusion/internal/errors"
	"filefusion/internal/palette"
)

type colorOptions struct {
	adjust  int
	presets bool
}

func (app *App) colorCommand() *cobra.Command {
	var opts colorOptions
	cmd := &cobra.Command{
		Use:   "color [VALUE]",
		Short: "Convert between hex and RGB colors",
		Long: `Convert a color between its hex and RGB forms.

VALUE is a hex color (#3498db or #abc), an "r,g,b" triple or the name of
a preset. The hover shade is printed alongside.`,
		Example: `  filefusion color "#3498db"
  filefusion color 52,152,219
  filefusion color Emerald --adjust 30
  filefusion color --presets`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.presets {
				writePresets(out)
				return nil
			}
			if len(args) == 0 {
				return fferrors.NewUserError(
					fferrors.Newf(fferrors.ErrInvalidFormat, "no color given"),
					"Pass a hex color, an r,g,b triple or --presets")
			}
			return writeColor(out, args[0], opts.adjust)
		},
	}
	cmd.Flags().IntVar(&opts.adjust, "adjust", 0, "brightness shift applied to every channel")
	cmd.Flags().BoolVar(&opts.presets, "presets", false, "list the color presets")
	return cmd
}

func writeColor(w io.Writer, value string, adjust int) error {
	hex, err := parseColor(value)
	if err != nil {
		return err
	}
	if adjust != 0 {
		hex = palette.AdjustBrightness(hex, adjust)
	}
	rgb, err := palette.HexToRGB(hex)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Hex:   %s\n", hex)
	fmt.Fprintf(w, "RGB:   %d,%d,%d\n", rgb.R, rgb.G, rgb.B)
	fmt.Fprintf(w, "Hover: %s\n", palette.AdjustBrightness(hex, palette.HoverDelta))
	return nil
}

// parseColor returns the canonical hex form of a hex color, an "r,g,b"
// triple or a preset name.
func parseColor(value string) (string, error) {
	value = strings.TrimSpace(value)
	if preset, ok := palette.PresetByName(value); ok {
		return preset.Hex, nil
	}
	if strings.Contains(value, ",") {
		return parseTriple(value)
	}
	if !strings.HasPrefix(value, "#") {
		value = "#" + value
	}
	if !palette.IsValidHex(value) {
		return "", fferrors.Newf(fferrors.ErrInvalidFormat, "invalid color %q", value)
	}
	return palette.Normalize(value)
}

func parseTriple(value string) (string, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return "", fferrors.Newf(fferrors.ErrInvalidFormat, "expected r,g,b but got %q", value)
	}
	var channels [3]int
	for index, part := range parts {
		channel, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || channel < 0 || channel > 255 {
			return "", fferrors.Newf(fferrors.ErrInvalidFormat, "channel %q is not in 0-255", part)
		}
		channels[index] = channel
	}
	return palette.RGBToHex(channels[0], channels[1], channels[2]), nil
}

func writePresets(w io.Writer) {
	for _, preset := range palette.Presets {
		fmt.Fprintf(w, "%-12s %s\n", preset.Name, preset.Hex)
	}
}
