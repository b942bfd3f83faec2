package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ecotrack-backend/internal/ecoscore"
	"ecotrack-backend/internal/imagemeta"
)

type scoreOptions struct {
	image    string
	width    int
	height   int
	sizeKB   float64
	colors   int
	material string
	size     string
	output   string
}

func newScoreCmd() *cobra.Command {
	opts := &scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a product from an image or its metadata.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := runScore(opts)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), res, opts.output)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.image, "image", "", "path to a JPEG, PNG or GIF image")
	f.IntVar(&opts.width, "width", 0, "image width in pixels")
	f.IntVar(&opts.height, "height", 0, "image height in pixels")
	f.Float64Var(&opts.sizeKB, "size-kb", 0, "file size in kilobytes")
	f.IntVar(&opts.colors, "colors", 0, "number of predominant colors")
	f.StringVar(&opts.material, "material", "", "score a known material instead of classifying")
	f.StringVar(&opts.size, "size", "", "size class used with --material (small, medium, large)")
	f.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	cmd.MarkFlagsMutuallyExclusive("image", "material")
	return cmd
}

func runScore(opts *scoreOptions) (ecoscore.Result, error) {
	if opts.material != "" {
		m, ok := ecoscore.Lookup(opts.material)
		if !ok {
			return ecoscore.Result{}, fmt.Errorf("unknown material %q", opts.material)
		}
		s := ecoscore.SizeMedium
		if opts.size != "" {
			parsed, err := ecoscore.ParseSize(opts.size)
			if err != nil {
				return ecoscore.Result{}, err
			}
			s = parsed
		}
		return ecoscore.Score(m, s), nil
	}

	if opts.width < 0 || opts.height < 0 || opts.sizeKB < 0 || opts.colors < 0 {
		return ecoscore.Result{}, errors.New("metadata values must not be negative")
	}

	var analyzer ecoscore.Analyzer
	if opts.image == "" {
		md := ecoscore.Metadata{
			Width:      opts.width,
			Height:     opts.height,
			FileSizeKB: opts.sizeKB,
			ColorCount: opts.colors,
		}
		return analyzer.Analyze(&md), nil
	}

	file, err := os.Open(opts.image)
	if err != nil {
		return ecoscore.Result{}, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()
	var size int64
	if info, statErr := file.Stat(); statErr == nil {
		size = info.Size()
	}
	md, err := imagemeta.Extract(file, size)
	if err != nil {
		return ecoscore.Result{}, fmt.Errorf("read image %s: %w", opts.image, err)
	}
	return analyzer.Analyze(&md), nil
}

func writeResult(w io.Writer, res ecoscore.Result, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "text", "":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	fmt.Fprintf(w, "Material:     %s\n", res.Material)
	fmt.Fprintf(w, "Size:         %s", res.Size)
	if res.Dimensions.Width > 0 {
		fmt.Fprintf(w, " (%dx%d)", res.Dimensions.Width, res.Dimensions.Height)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Impact score: %.1f / 10\n", res.ImpactScore)
	fmt.Fprintf(w, "Emissions:    %d kg CO2e\n", res.EmissionsKg)
	if len(res.Recommendations) > 0 {
		fmt.Fprintln(w, "Recommendations:")
		for _, r := range res.Recommendations {
			fmt.Fprintf(w, "  [%s] %s (+%d): %s\n", r.Category, r.Title, r.ImpactPoints, r.Description)
		}
	}
	return nil
}
