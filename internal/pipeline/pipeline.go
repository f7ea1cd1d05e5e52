// Package pipeline orchestrates the ROM image operations.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/retroenv/retrocheat/internal/app"
	"github.com/retroenv/retrocheat/internal/cic"
	"github.com/retroenv/retrocheat/internal/config"
	"github.com/retroenv/retrocheat/internal/container"
	"github.com/retroenv/retrocheat/internal/detector"
	"github.com/retroenv/retrocheat/internal/loader"
	"github.com/retroenv/retrocheat/internal/options"
	"github.com/retroenv/retrocheat/internal/scrambler"
	"github.com/retroenv/retrocheat/internal/transport"
	"github.com/retroenv/retrocheat/internal/verification"
	"github.com/retroenv/retrogolib/log"
)

// Result is the outcome of an operation.
type Result struct {
	Format detector.Format
	ROM    *container.ROM // nil for operations that do not parse the image
	Output []byte         // nil for operations that produce no image
}

// Pipeline orchestrates loading, detection and the requested operation.
type Pipeline struct {
	logger   *log.Logger
	detector *detector.Detector
	loader   *loader.Loader
}

// New creates a new pipeline.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:   logger,
		detector: detector.New(logger),
		loader:   loader.New(),
	}
}

// Execute loads the input file and runs the operation on it.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program) (*Result, error) {
	input, err := p.loader.Load(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	return p.ExecuteWithBuffer(ctx, input, opts)
}

// ExecuteWithBuffer runs the operation on an image that is already in memory.
// The input buffer is not modified.
func (p *Pipeline) ExecuteWithBuffer(ctx context.Context, input []byte, opts options.Program) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := p.detector.Detect(input, opts.Format)
	app.PrintInfo(p.logger, opts, format)
	result := &Result{Format: format}

	var err error
	switch opts.Operation {
	case options.Decode:
		err = p.decode(input, opts, result)
	case options.Encode:
		err = p.encode(input, opts, result)
	case options.Encrypt:
		result.Output, err = encrypt(input, format)
	case options.Decrypt:
		result.Output, err = decrypt(input, format)
	case options.Scramble:
		result.Output, err = scramble(input, format)
	case options.Unscramble:
		result.Output, err = unscramble(input, format)
	case options.Verify:
		err = verification.VerifyRoundTrip(p.logger, input, config.ContainerOptions(opts))
		if err == nil {
			p.logger.Info("Verification successful")
		}
	default:
		err = fmt.Errorf("unsupported operation '%s'", opts.Operation)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Operation, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Verify && result.Output != nil {
		if err := verification.VerifyRoundTrip(p.logger, result.Output, config.ContainerOptions(opts)); err != nil {
			return nil, fmt.Errorf("verification failed: %w", err)
		}
		p.logger.Info("Verification successful")
	}
	return result, nil
}

func (p *Pipeline) parse(input []byte, opts options.Program) (*container.ROM, error) {
	rom, err := container.Parse(p.logger, input, config.ContainerOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("parsing image: %w", err)
	}
	app.PrintROM(p.logger, rom)
	return rom, nil
}

// decode writes the plaintext linear image.
func (p *Pipeline) decode(input []byte, opts options.Program, result *Result) error {
	rom, err := p.parse(input, opts)
	if err != nil {
		return err
	}
	result.ROM = rom

	result.Output, err = rom.Serialize()
	if err != nil {
		return fmt.Errorf("serializing image: %w", err)
	}
	return nil
}

// encode applies the requested edits and writes the image in its source format.
func (p *Pipeline) encode(input []byte, opts options.Program, result *Result) error {
	rom, err := p.parse(input, opts)
	if err != nil {
		return err
	}
	result.ROM = rom

	edits, err := config.Edits(opts.PreferenceFlags)
	if err != nil {
		return err
	}

	if opts.AddKeyCode != "" {
		id, err := cic.ParseIdentity(opts.KeyCodeCIC)
		if err != nil {
			return err
		}
		if err := rom.AddKeyCode(opts.AddKeyCode, id); err != nil {
			return fmt.Errorf("adding key code: %w", err)
		}
		p.logger.Info("Added key code",
			log.String("name", opts.AddKeyCode),
			log.Stringer("cic", id))
	}

	if err := rom.Apply(edits); err != nil {
		return fmt.Errorf("applying edits: %w", err)
	}

	result.Output, err = rom.Image()
	if err != nil {
		return fmt.Errorf("serializing image: %w", err)
	}
	return nil
}

func encrypt(input []byte, format detector.Format) ([]byte, error) {
	if format == detector.GameSharkEncrypted || transport.IsEncrypted(input) {
		return nil, errors.New("image is already encrypted")
	}
	if !transport.IsPlaintext(input) {
		return nil, fmt.Errorf("image is not a plaintext %s image", detector.GameShark)
	}
	out := bytes.Clone(input)
	if err := transport.Encrypt(out); err != nil {
		return nil, err
	}
	return out, nil
}

func decrypt(input []byte, format detector.Format) ([]byte, error) {
	if format != detector.GameSharkEncrypted {
		return nil, fmt.Errorf("image format %s is not encrypted", format)
	}
	out := bytes.Clone(input)
	if err := transport.Decrypt(out); err != nil {
		return nil, err
	}
	return out, nil
}

func scramble(input []byte, format detector.Format) ([]byte, error) {
	if format != detector.Xplorer64 {
		return nil, fmt.Errorf("image format %s can not be scrambled", format)
	}
	return scrambler.Scramble(input)
}

func unscramble(input []byte, format detector.Format) ([]byte, error) {
	if format != detector.Xplorer64Scrambled {
		return nil, fmt.Errorf("image format %s is not scrambled", format)
	}
	return scrambler.Unscramble(input)
}
