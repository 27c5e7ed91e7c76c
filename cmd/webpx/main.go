// Command webpx encodes, decodes and inspects WebP images from the
// command line using the system libwebp library.
//
// Usage:
//
//	webpx enc [options] <input>         PNG/JPEG → WebP (use "-" for stdin)
//	webpx dec [options] <input.webp>    WebP → PNG/JPEG (use "-" for stdin, -o - for stdout)
//	webpx info <input.webp>             Display WebP bitstream features
//	webpx metric [options] <a> <b>      Compare two images
//	webpx version                       Print libwebp version
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nfnt/resize"
	"github.com/pixelbind/webp"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "enc":
		err = runEnc(os.Args[2:])
	case "dec":
		err = runDec(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "metric":
		err = runMetric(os.Args[2:])
	case "version":
		err = runVersion()
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "webpx: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "webpx: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  webpx enc [options] <input>         Encode PNG/JPEG to WebP
  webpx dec [options] <input.webp>    Decode WebP to PNG or JPEG
  webpx info <input.webp>             Display WebP bitstream features
  webpx metric [options] <a> <b>      Compare two images (PSNR/SSIM/LSIM)
  webpx version                       Print libwebp version

Use "-" as input to read from stdin, "-o -" to write to stdout.

Run "webpx <command> -h" for command-specific options.
`)
}

// openInput returns an io.ReadCloser for the given path.
// If path is "-", stdin is returned (caller should not close).
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// --- enc ---

func runEnc(args []string) error {
	fs := flag.NewFlagSet("enc", flag.ContinueOnError)
	quality := fs.Float64("q", 75, "quality 0-100")
	lossless := fs.Bool("lossless", false, "lossless VP8L encoding")
	near := fs.Int("near", -1, "near-lossless level 0-100 (-1=off)")
	method := fs.Int("m", 4, "compression effort 0-6")
	preset := fs.String("preset", "default", "preset: default/picture/photo/drawing/icon/text")
	exact := fs.Bool("exact", false, "preserve RGB in transparent areas")
	stats := fs.Bool("stats", false, "print encoder statistics to stderr")
	resizeTo := fs.String("resize", "", "resize to WxH before encoding (0 keeps aspect)")
	output := fs.String("o", "", `output path (default: <input>.webp, "-" for stdout)`)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("enc: missing input file\nUsage: webpx enc [options] <input>")
	}
	inputPath := fs.Arg(0)

	p, err := parsePreset(*preset)
	if err != nil {
		return err
	}

	opts := webp.DefaultOptions()
	opts.Quality = float32(*quality)
	opts.Lossless = *lossless
	opts.NearLossless = *near
	opts.Method = *method
	opts.Preset = p
	opts.Exact = *exact
	var encStats webp.Stats
	if *stats {
		opts.Stats = &encStats
	}

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("enc: decoding input: %w", err)
	}

	if *resizeTo != "" {
		w, h, err := parseResize(*resizeTo)
		if err != nil {
			return err
		}
		img = resize.Resize(w, h, img, resize.Lanczos3)
	}

	outputPath := *output
	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "output.webp"
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ".webp"
		}
	}

	if outputPath == "-" {
		if err := webp.Encode(os.Stdout, img, opts); err != nil {
			return fmt.Errorf("enc: %w", err)
		}
	} else {
		out, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		if err := webp.Encode(out, img, opts); err != nil {
			out.Close()
			os.Remove(outputPath)
			return fmt.Errorf("enc: %w", err)
		}
		if err := out.Close(); err != nil {
			os.Remove(outputPath)
			return err
		}
		fmt.Fprintf(os.Stderr, "Encoded %s → %s (%d bytes)\n", inputPath, outputPath, sizeOf(outputPath))
	}

	if *stats {
		printStats(&encStats, *lossless || *near >= 0)
	}
	return nil
}

func sizeOf(path string) int64 {
	fi, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return fi.Size()
}

func printStats(s *webp.Stats, lossless bool) {
	fmt.Fprintf(os.Stderr, "Coded size:  %d bytes\n", s.CodedSize)
	if lossless {
		fmt.Fprintf(os.Stderr, "Header:      %d bytes\n", s.LosslessHeaderSize)
		fmt.Fprintf(os.Stderr, "Image data:  %d bytes\n", s.LosslessDataSize)
		if s.PaletteSize > 0 {
			fmt.Fprintf(os.Stderr, "Palette:     %d colors\n", s.PaletteSize)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "PSNR Y/U/V/all/alpha: %.2f %.2f %.2f %.2f %.2f\n",
		s.PSNR[0], s.PSNR[1], s.PSNR[2], s.PSNR[3], s.PSNR[4])
	fmt.Fprintf(os.Stderr, "Blocks i4/i16/skip:   %d %d %d\n",
		s.BlockCounts[0], s.BlockCounts[1], s.BlockCounts[2])
	if s.AlphaDataSize > 0 {
		fmt.Fprintf(os.Stderr, "Alpha data:  %d bytes\n", s.AlphaDataSize)
	}
}

// parseResize parses a WxH specification. A zero in either position
// keeps the aspect ratio for that dimension.
func parseResize(s string) (uint, uint, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("enc: invalid resize %q (want WxH)", s)
	}
	w, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("enc: invalid resize width %q", parts[0])
	}
	h, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("enc: invalid resize height %q", parts[1])
	}
	if w == 0 && h == 0 {
		return 0, 0, fmt.Errorf("enc: resize %q needs at least one non-zero dimension", s)
	}
	return uint(w), uint(h), nil
}

func parsePreset(s string) (webp.Preset, error) {
	switch strings.ToLower(s) {
	case "default":
		return webp.PresetDefault, nil
	case "picture":
		return webp.PresetPicture, nil
	case "photo":
		return webp.PresetPhoto, nil
	case "drawing":
		return webp.PresetDrawing, nil
	case "icon":
		return webp.PresetIcon, nil
	case "text":
		return webp.PresetText, nil
	default:
		return 0, fmt.Errorf("enc: unknown preset %q", s)
	}
}

// --- dec ---

func runDec(args []string) error {
	fs := flag.NewFlagSet("dec", flag.ContinueOnError)
	output := fs.String("o", "", `output path (default: <input>.png, "-" for stdout)`)
	fmtFlag := fs.String("fmt", "", "output format: png, jpeg (auto-detect from extension if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("dec: missing input file\nUsage: webpx dec [options] <input.webp>")
	}
	inputPath := fs.Arg(0)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("dec: reading input: %w", err)
	}

	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	outFmt := detectOutputFormat(*fmtFlag, *output)

	outputPath := *output
	if outputPath == "-" {
		return encodeImage(os.Stdout, img, outFmt)
	}
	if outputPath == "" {
		ext := ".png"
		if outFmt == "jpeg" {
			ext = ".jpg"
		}
		if inputPath == "-" {
			outputPath = "output" + ext
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ext
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := encodeImage(out, img, outFmt); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("dec: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return err
	}

	fmt.Fprintf(os.Stderr, "Decoded %s → %s\n", inputPath, outputPath)
	return nil
}

// detectOutputFormat returns "png" or "jpeg" based on flag/extension.
func detectOutputFormat(fmtFlag, outputPath string) string {
	if fmtFlag != "" {
		return strings.ToLower(fmtFlag)
	}
	if outputPath != "" && outputPath != "-" {
		switch strings.ToLower(filepath.Ext(outputPath)) {
		case ".jpg", ".jpeg":
			return "jpeg"
		}
	}
	return "png"
}

// encodeImage writes img in the specified format to w.
func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg", "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	default:
		return png.Encode(w, img)
	}
}

// --- info ---

func runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: webpx info <input.webp>")
	}
	inputPath := args[0]

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	feat, err := webp.GetFeatures(in)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	name := inputPath
	if inputPath == "-" {
		name = "<stdin>"
	}

	fmt.Printf("File:       %s\n", name)
	fmt.Printf("Format:     %s\n", feat.Format)
	fmt.Printf("Dimensions: %d x %d\n", feat.Width, feat.Height)
	fmt.Printf("Alpha:      %v\n", feat.HasAlpha)
	fmt.Printf("Animation:  %v\n", feat.HasAnimation)

	if inputPath != "-" {
		fi, err := os.Stat(inputPath)
		if err == nil {
			fmt.Printf("File size:  %d bytes\n", fi.Size())
		}
	}
	return nil
}

// --- metric ---

func runMetric(args []string) error {
	fs := flag.NewFlagSet("metric", flag.ContinueOnError)
	kind := fs.String("type", "psnr", "metric: psnr, ssim or lsim")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("metric: need two input files\nUsage: webpx metric [options] <a> <b>")
	}

	var metric webp.Metric
	switch strings.ToLower(*kind) {
	case "psnr":
		metric = webp.MetricPSNR
	case "ssim":
		metric = webp.MetricSSIM
	case "lsim":
		metric = webp.MetricLSIM
	default:
		return fmt.Errorf("metric: unknown type %q (use psnr/ssim/lsim)", *kind)
	}

	a, err := loadImage(fs.Arg(0))
	if err != nil {
		return err
	}
	b, err := loadImage(fs.Arg(1))
	if err != nil {
		return err
	}

	vals, err := webp.Distortion(a, b, metric)
	if err != nil {
		return fmt.Errorf("metric: %w", err)
	}
	fmt.Printf("%s: %.4f %.4f %.4f %.4f %.4f\n",
		metricHeader(*kind), vals[0], vals[1], vals[2], vals[3], vals[4])
	return nil
}

// metricHeader labels the five distortion values: the B, G, R and alpha
// byte planes of the packed ARGB word, then the aggregate.
func metricHeader(kind string) string {
	return strings.ToUpper(kind) + " B/G/R/A/all"
}

// loadImage decodes any registered image format, including WebP.
func loadImage(path string) (image.Image, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	img, _, err := image.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("metric: decoding %s: %w", path, err)
	}
	return img, nil
}

// --- version ---

func runVersion() error {
	v, err := webp.Version()
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}
	fmt.Printf("libwebp %s\n", v)
	return nil
}
