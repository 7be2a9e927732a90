// Package cliapp wires the Cobra command tree spec.md §6 describes: one
// root command carrying the full flag surface (-d/-r, --secret, -k, -n,
// -w, -h, -s, --dir), in the style of jeremyhahn-go-keychain's
// internal/cli/root.go — a single persistent flag set validated in
// PreRunE rather than a forest of subcommands, since the specification's
// surface is a flat set of mode switches, not a verb hierarchy.
package cliapp

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/elsesec/shadowsplit/internal/bmp"
	"github.com/elsesec/shadowsplit/internal/config"
	"github.com/elsesec/shadowsplit/internal/convert"
	"github.com/elsesec/shadowsplit/internal/filters"
	"github.com/elsesec/shadowsplit/internal/obslog"
	"github.com/elsesec/shadowsplit/internal/pipeline"
	"github.com/elsesec/shadowsplit/internal/rgbbmp"
	"github.com/elsesec/shadowsplit/internal/shaderr"
)

// flags holds the parsed CLI surface before dispatch.
type flags struct {
	distribute bool
	recover    bool
	prepare    bool
	secret     string
	k          int
	n          int
	width      uint
	height     uint
	seed       uint16
	dir        string
	debug      bool
	configPath string

	// prepare-mode only: turn an arbitrary 24-bit photo into an 8-bit
	// indexed bitmap usable as a secret or carrier.
	input  string
	out    string
	filter string
	factor float64
	method string
}

// NewRootCommand builds the root command, running distribute/recover
// against fs (afero.NewOsFs() in production, afero.NewMemMapFs() in
// integration tests).
func NewRootCommand(fs afero.Fs) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:           "shadowsplit",
		Short:         "(k,n) threshold secret-image sharing over steganographic BMP carriers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			overlay, err := config.Load(f.configPath)
			if err != nil {
				return shaderr.Wrap(shaderr.IoFailure, err, "loading config overlay")
			}
			applyOverlay(f, overlay, cmd.Flags())
			return validate(f)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(fs, f)
		},
	}

	flagSet := cmd.Flags()
	flagSet.BoolVarP(&f.distribute, "distribute", "d", false, "distribute mode")
	flagSet.BoolVarP(&f.recover, "recover", "r", false, "recover mode")
	flagSet.BoolVarP(&f.prepare, "prepare", "p", false, "prepare mode: quantize a 24-bit photo into an 8-bit indexed secret/carrier")
	flagSet.StringVar(&f.secret, "secret", "", "secret image (distribute input) or reconstructed-image output (recover)")
	flagSet.IntVarP(&f.k, "k", "k", 0, "threshold k, 2 <= k <= n <= 65535")
	flagSet.IntVarP(&f.n, "n", "n", 0, "total shadows (distribute only); defaults to the carrier directory's file count")
	flagSet.UintVarP(&f.width, "width", "w", 0, "secret width; required for -r, optional sanity check for -d")
	flagSet.UintVarP(&f.height, "height", "h", 0, "secret height; required for -r, optional sanity check for -d")
	flagSet.Uint16VarP(&f.seed, "seed", "s", 691, "16-bit whitening seed")
	flagSet.StringVar(&f.dir, "dir", "./", "carrier directory (distribute) or stego directory (recover)")
	flagSet.BoolVar(&f.debug, "debug", false, "enable debug logging")
	flagSet.StringVar(&f.configPath, "config", "", "overlay config file (default .shadowsplit.yaml in the working directory)")
	flagSet.StringVar(&f.input, "input", "", "24-bit source photo (prepare mode only)")
	flagSet.StringVar(&f.out, "out", "", "output path for the quantized bitmap (prepare mode only)")
	flagSet.StringVar(&f.filter, "filter", "", "prepare-mode filter: invert, grayscale, grayscale-luma, brightness, contrast (empty applies none)")
	flagSet.Float64Var(&f.factor, "factor", 1.0, "factor for the brightness/contrast filters")
	flagSet.StringVar(&f.method, "method", "add", "brightness method: add or multiply")
	// -h belongs to --height, so --help is registered here without a
	// shorthand; Cobra then skips adding its default -h/--help flag.
	flagSet.Bool("help", false, "help for shadowsplit")

	return cmd
}

// applyOverlay fills in any flag the user did not explicitly set from the
// config overlay, using set.Changed to distinguish "left at its default"
// from "the user typed this value". Runs before validate so an overlay-
// supplied -k/-n can satisfy the required-flag checks.
func applyOverlay(f *flags, overlay config.Defaults, set *pflag.FlagSet) {
	if overlay.Seed != nil && !set.Changed("seed") {
		f.seed = *overlay.Seed
	}
	if overlay.Dir != "" && !set.Changed("dir") {
		f.dir = overlay.Dir
	}
	if overlay.K != nil && !set.Changed("k") {
		f.k = *overlay.K
	}
	if overlay.N != nil && !set.Changed("n") {
		f.n = *overlay.N
	}
}

func validate(f *flags) error {
	modes := 0
	for _, on := range []bool{f.distribute, f.recover, f.prepare} {
		if on {
			modes++
		}
	}
	if modes != 1 {
		return shaderr.New(shaderr.InvalidArguments, "exactly one of -d, -r, or -p is required")
	}

	if f.prepare {
		if f.input == "" || f.out == "" {
			return shaderr.New(shaderr.InvalidArguments, "--input and --out are required for -p")
		}
		switch f.filter {
		case "", "invert", "grayscale", "grayscale-luma", "brightness", "contrast":
		default:
			return shaderr.New(shaderr.InvalidArguments, "unknown --filter %q", f.filter)
		}
		return nil
	}

	if f.secret == "" {
		return shaderr.New(shaderr.InvalidArguments, "--secret is required")
	}
	if f.k < 2 || f.k > 65535 {
		return shaderr.New(shaderr.InvalidArguments, "-k must be in [2, 65535], got %d", f.k)
	}
	if f.recover && (f.width == 0 || f.height == 0) {
		return shaderr.New(shaderr.InvalidArguments, "-w and -h are required for -r")
	}
	if f.distribute && f.n != 0 && f.n < f.k {
		return shaderr.New(shaderr.InvalidArguments, "-n (%d) must be >= -k (%d)", f.n, f.k)
	}
	return nil
}

func run(fs afero.Fs, f *flags) error {
	logger := obslog.New(f.debug)
	logger.Info("starting run", "mode", modeName(f), "k", f.k, "n", f.n, "dir", f.dir)

	switch {
	case f.distribute:
		return runDistribute(fs, f, logger)
	case f.recover:
		return runRecover(fs, f, logger)
	default:
		return runPrepare(fs, f, logger)
	}
}

func runDistribute(fs afero.Fs, f *flags, logger *obslog.Logger) error {
	if f.width != 0 || f.height != 0 {
		secret, err := bmp.Load(fs, f.secret)
		if err != nil {
			return shaderr.Propagate(err, shaderr.IoFailure, "loading secret %q", f.secret)
		}
		if (f.width != 0 && secret.Width != uint32(f.width)) ||
			(f.height != 0 && absHeight(secret.Height) != uint32(f.height)) {
			return shaderr.New(shaderr.InvalidArguments,
				"secret is %dx%d, does not match declared -w/-h %dx%d",
				secret.Width, absHeight(secret.Height), f.width, f.height)
		}
	}

	result, err := pipeline.Distribute(fs, pipeline.DistributeOptions{
		SecretPath: f.secret,
		CarrierDir: f.dir,
		OutDir:     ".",
		K:          f.k,
		N:          f.n,
		Seed:       f.seed,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("wrote %d shadow(s), correlation id %s\n", len(result.OutputPaths), logger.CorrelationID())
	if result.RepairedGroups > 0 {
		fmt.Printf("note: coefficient repair fired on %d pixel group(s); recovery will diverge from the original secret there\n", result.RepairedGroups)
	}
	return nil
}

func runRecover(fs afero.Fs, f *flags, logger *obslog.Logger) error {
	result, err := pipeline.Recover(fs, pipeline.RecoverOptions{
		ShadowDir: f.dir,
		OutPath:   f.secret,
		K:         f.k,
		Width:     uint32(f.width),
		Height:    uint32(f.height),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("recovered secret written to %s (seed %d), correlation id %s\n", result.OutputPath, result.Seed, logger.CorrelationID())
	return nil
}

func runPrepare(fs afero.Fs, f *flags, logger *obslog.Logger) error {
	img, err := rgbbmp.Load(fs, f.input)
	if err != nil {
		return shaderr.Propagate(err, shaderr.IoFailure, "loading photo %q", f.input)
	}
	logger.Debug("loaded photo", "path", f.input, "rows", len(img.Pixels))

	if err := applyFilter(img, f.filter, f.factor, f.method); err != nil {
		return shaderr.Wrap(shaderr.InvalidArguments, err, "applying filter %q", f.filter)
	}

	out, err := convert.ToGreyscaleBitmap(img)
	if err != nil {
		return shaderr.Wrap(shaderr.UnsupportedBmp, err, "quantizing %q", f.input)
	}

	if err := out.Save(fs, f.out); err != nil {
		return shaderr.Wrap(shaderr.IoFailure, err, "writing %q", f.out)
	}

	fmt.Printf("wrote %s (%dx%d), correlation id %s\n", f.out, out.Width, out.Height, logger.CorrelationID())
	return nil
}

// applyFilter dispatches to internal/filters by name. An empty name leaves
// img untouched, the prepare-mode default.
func applyFilter(img *rgbbmp.Image, name string, factor float64, method string) error {
	switch name {
	case "":
		return nil
	case "invert":
		filters.Invert(img)
	case "grayscale":
		filters.Grayscale(img)
	case "grayscale-luma":
		filters.GrayscaleLuma(img)
	case "brightness":
		return filters.Brightness(img, factor, method)
	case "contrast":
		filters.Contrast(img, factor)
	default:
		return fmt.Errorf("unknown filter %q", name)
	}
	return nil
}

func modeName(f *flags) string {
	switch {
	case f.distribute:
		return "distribute"
	case f.recover:
		return "recover"
	default:
		return "prepare"
	}
}

func absHeight(h int32) uint32 {
	if h < 0 {
		return uint32(-h)
	}
	return uint32(h)
}
