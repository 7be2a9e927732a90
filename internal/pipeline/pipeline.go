// Package pipeline composes the distribute and recover flows: it is the
// only package that knows the full order of operations (load, whiten,
// share/reconstruct, stego, save), wiring together internal/bmp,
// internal/prng, internal/share, internal/reconstruct, internal/stego and
// internal/fsscan. It takes an afero.Fs so both flows can be driven
// against afero.NewMemMapFs() in tests and afero.NewOsFs() from
// cmd/shadowsplit.
package pipeline

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/elsesec/shadowsplit/internal/bmp"
	"github.com/elsesec/shadowsplit/internal/fsscan"
	"github.com/elsesec/shadowsplit/internal/obslog"
	"github.com/elsesec/shadowsplit/internal/prng"
	"github.com/elsesec/shadowsplit/internal/reconstruct"
	"github.com/elsesec/shadowsplit/internal/shaderr"
	"github.com/elsesec/shadowsplit/internal/share"
	"github.com/elsesec/shadowsplit/internal/stego"
)

// DistributeOptions configures one distribute run.
type DistributeOptions struct {
	SecretPath string
	CarrierDir string
	OutDir     string
	K          int
	N          int // 0 defers to the number of regular files in CarrierDir
	Seed       uint16
	Logger     *obslog.Logger
}

// DistributeResult reports what a distribute run produced.
type DistributeResult struct {
	OutputPaths    []string
	RepairedGroups int
}

// Distribute loads the secret at opts.SecretPath, whitens it, splits it
// into opts.N shadows under a (opts.K, opts.N) threshold scheme, and hides
// each shadow inside a carrier selected from opts.CarrierDir, writing the
// results under opts.OutDir.
func Distribute(fs afero.Fs, opts DistributeOptions) (*DistributeResult, error) {
	logf := loggerOrNop(opts.Logger)

	secret, err := bmp.Load(fs, opts.SecretPath)
	if err != nil {
		return nil, shaderr.Propagate(err, shaderr.IoFailure, "loading secret %q", opts.SecretPath)
	}
	logf.Debug("loaded secret", "path", opts.SecretPath, "pixels", len(secret.Pixels))

	if len(secret.Pixels)%opts.K != 0 {
		return nil, shaderr.New(shaderr.UnsupportedBmp,
			"secret has %d pixels, not divisible by k=%d", len(secret.Pixels), opts.K)
	}

	whitened := append([]byte(nil), secret.Pixels...)
	prng.XOR(whitened, opts.Seed)

	n := opts.N
	if n == 0 {
		count, err := fsscan.CountRegularFiles(fs, opts.CarrierDir)
		if err != nil {
			return nil, err
		}
		n = count
	}
	if n < opts.K {
		return nil, shaderr.New(shaderr.InvalidArguments, "n=%d must be >= k=%d", n, opts.K)
	}

	result, err := share.Share(whitened, opts.K, n)
	if err != nil {
		return nil, shaderr.Wrap(shaderr.ArithmeticFailure, err, "sharing secret")
	}
	if result.RepairedGroups > 0 {
		logf.Warn("coefficient repair fired", "groups", result.RepairedGroups)
	}

	shadowWidth, shadowHeight, err := bmp.ShadowDimensions(uint32(len(result.Pixels[0])))
	if err != nil {
		return nil, shaderr.Wrap(shaderr.ArithmeticFailure, err, "sizing shadow images")
	}

	carriers, err := fsscan.SelectCarriers(fs, opts.CarrierDir, opts.K, n, len(secret.Pixels))
	if err != nil {
		return nil, err
	}

	outputs := make([]string, 0, n)
	for i, carrierPath := range carriers {
		shadow := bmp.NewShadow(shadowWidth, shadowHeight, opts.Seed, uint16(i+1))
		shadow.Pixels = result.Pixels[i]

		carrier, err := bmp.Load(fs, carrierPath)
		if err != nil {
			return nil, shaderr.Propagate(err, shaderr.IoFailure, "loading carrier %q", carrierPath)
		}

		hidden, err := stego.Hide(carrier, shadow)
		if err != nil {
			return nil, shaderr.Wrap(shaderr.UnsupportedBmp, err, "hiding shadow %d in %q", i+1, carrierPath)
		}

		outPath := fsscan.JoinPath(opts.OutDir, outputName(i+1))
		if err := hidden.Save(fs, outPath); err != nil {
			return nil, shaderr.Wrap(shaderr.IoFailure, err, "writing %q", outPath)
		}
		outputs = append(outputs, outPath)
		logf.Info("wrote shadow", "index", i+1, "path", outPath)
	}

	return &DistributeResult{OutputPaths: outputs, RepairedGroups: result.RepairedGroups}, nil
}

// RecoverOptions configures one recover run.
type RecoverOptions struct {
	ShadowDir string
	OutPath   string
	K         int
	Width     uint32
	Height    uint32
	Logger    *obslog.Logger
}

// RecoverResult reports what a recover run produced.
type RecoverResult struct {
	OutputPath string
	Seed       uint16
}

// Recover selects opts.K shadow carriers from opts.ShadowDir, reveals each
// hidden shadow, reconstructs the whitened secret by Gaussian elimination,
// de-whitens it, and writes the result to opts.OutPath.
func Recover(fs afero.Fs, opts RecoverOptions) (*RecoverResult, error) {
	logf := loggerOrNop(opts.Logger)

	paths, err := fsscan.SelectShadowCarriers(fs, opts.ShadowDir, opts.K, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	secretPixelLen := int(bmp.PixelArraySize(opts.Width, opts.Height))
	shadowPixelLen := secretPixelLen / opts.K

	shadows := make([]reconstruct.Shadow, 0, opts.K)
	var seed uint16
	seenSeed := false
	seenIndex := make(map[uint16]bool, opts.K)

	for _, path := range paths {
		carrier, err := bmp.Load(fs, path)
		if err != nil {
			return nil, shaderr.Propagate(err, shaderr.IoFailure, "loading shadow carrier %q", path)
		}

		revealed, err := stego.Reveal(carrier, shadowPixelLen)
		if err != nil {
			return nil, shaderr.Wrap(shaderr.UnsupportedBmp, err, "revealing shadow from %q", path)
		}

		if !seenSeed {
			seed, seenSeed = revealed.Seed, true
		} else if revealed.Seed != seed {
			return nil, shaderr.New(shaderr.MalformedShadow,
				"shadow carrier %q has seed %d, expected %d", path, revealed.Seed, seed)
		}

		shadows = append(shadows, reconstruct.Shadow{
			Index:  int(revealed.ShadowIndex),
			Pixels: revealed.Pixels,
		})
		logf.Debug("revealed shadow", "path", path, "index", revealed.ShadowIndex)
	}

	whitened, err := reconstruct.Reconstruct(shadows, opts.K)
	if err != nil {
		return nil, shaderr.Wrap(shaderr.ArithmeticFailure, err, "reconstructing secret")
	}

	prng.XOR(whitened, seed)

	secret := bmp.NewBitmap(opts.Width, int32(opts.Height), 0, 0, len(whitened))
	secret.Pixels = whitened

	if err := secret.Save(fs, opts.OutPath); err != nil {
		return nil, shaderr.Wrap(shaderr.IoFailure, err, "writing %q", opts.OutPath)
	}
	logf.Info("wrote recovered secret", "path", opts.OutPath)

	return &RecoverResult{OutputPath: opts.OutPath, Seed: seed}, nil
}

// outputName follows spec.md §6's persisted-state convention: stego output
// files are named shadow<N>.bmp, N being the shadow's share index.
func outputName(shadowIndex int) string {
	return fmt.Sprintf("shadow%d.bmp", shadowIndex)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type logSink interface {
	Info(string, ...any)
	Debug(string, ...any)
	Warn(string, ...any)
	Error(string, ...any)
}

func loggerOrNop(l *obslog.Logger) logSink {
	if l == nil {
		return nopLogger{}
	}
	return l
}
