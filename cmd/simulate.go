package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mj1618/desktop-borders/internal/output"
	"github.com/mj1618/desktop-borders/internal/platform/script"
	"github.com/mj1618/desktop-borders/internal/sim"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a window event timeline offline",
	Long: `Replay a scripted timeline of window events on a simulated clock and print
each window's final border state. With --png the borders visible at the end
are drawn into an image.

Timeline format:
  windows:
    - {id: 1, class: Notepad, title: notes.txt, bounds: "100,100,640,480"}
  steps:
    - {at: 0s, op: create, id: 1}
    - {at: 250ms, op: focus, id: 1}

Ops: create, destroy, focus, blur, minimize, restore, move (bounds), title (title).`,
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().String("script", "", "Timeline file (required)")
	simulateCmd.Flags().Duration("tail", 500*time.Millisecond, "Keep running this long after the last step")
	simulateCmd.Flags().String("png", "", "Write the final borders to this PNG file")
	simulateCmd.Flags().Int("width", 1920, "PNG width in pixels")
	simulateCmd.Flags().Int("height", 1080, "PNG height in pixels")
	simulateCmd.Flags().Bool("labels", true, "Draw window ids in the PNG")
	simulateCmd.Flags().Bool("pretty", false, "Pretty-print JSON output")
	simulateCmd.MarkFlagRequired("script")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	scriptPath, _ := cmd.Flags().GetString("script")
	tail, _ := cmd.Flags().GetDuration("tail")
	pngPath, _ := cmd.Flags().GetString("png")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")
	labels, _ := cmd.Flags().GetBool("labels")

	cfg, diags, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logDiagnostics(diags)

	s, err := script.Load(scriptPath)
	if err != nil {
		return err
	}
	accent, err := accentLookup(cmd, nil)
	if err != nil {
		return err
	}

	res, err := sim.Run(cfg, s, sim.Options{
		Tail:   tail,
		Accent: accent,
		Logger: logger,
		Labels: labels,
	})
	if err != nil {
		return err
	}

	if pngPath != "" {
		f, err := os.Create(pngPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", pngPath, err)
		}
		if err := res.Canvas.WritePNG(f, width, height); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		res.Image = pngPath
	}
	return output.Print(res.SimulateResult)
}
