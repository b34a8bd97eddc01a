package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/brushkit/abr"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var log = logrus.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "abrdump",
	Short: "Inspect and extract Adobe Brush (.abr) files",
	Long: `abrdump reads Photoshop-compatible ABR brush files.

It supports the flat version 1/2 format and the descriptor-based
version 6/7/10 format, and can list brushes or export each one as a
transparent PNG.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug output")
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(versionCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <input.abr>",
	Short: "List the brushes in an ABR file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	return abr.Open(args[0], func(a *abr.ABR) error {
		brushes := a.Brushes()
		defer brushes.Dispose()

		fmt.Printf("%s: version %d, %d brushes\n", args[0], a.Version(), brushes.Len())

		list, err := brushes.Brushes()
		if err != nil {
			return err
		}
		for i, b := range list {
			name := b.Name()
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("  %3d  %-40s %dx%d\n", i, name, b.Width(), b.Height())
		}
		return nil
	})
}

var extractCmd = &cobra.Command{
	Use:   "extract <input.abr>",
	Short: "Export every brush as a PNG",
	Long: `Export each decoded brush as a black-on-transparent PNG file.

Files are named <index>-<brush name>.png in the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringP("output", "o", ".", "Output directory")
}

func runExtract(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("output")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	return abr.Open(args[0], func(a *abr.ABR) error {
		brushes := a.Brushes()
		defer brushes.Dispose()

		list, err := brushes.Brushes()
		if err != nil {
			return err
		}
		for i, b := range list {
			img, err := brushes.Image(i)
			if err != nil {
				return err
			}
			path := filepath.Join(outDir, fmt.Sprintf("%03d-%s.png", i, safeName(b.Name())))
			if err := writePNG(path, img); err != nil {
				return err
			}
			log.Debugf("wrote %s (%dx%d)", path, b.Width(), b.Height())
		}

		log.Infof("extracted %d brushes to %s", len(list), outDir)
		return nil
	})
}

func writePNG(path string, img *image.RGBA) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}

// safeName turns a brush name into a usable filename component.
func safeName(name string) string {
	if name == "" {
		return "brush"
	}
	mapper := func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}
	return strings.Map(mapper, name)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("abrdump %s (commit %s, built %s)\n", version, commit, date)
	},
}
