// Package fileprocessor handles file selection, output naming and writing of results.
package fileprocessor

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrocheat/internal/container"
	"github.com/retroenv/retrocheat/internal/fsblob"
	"github.com/retroenv/retrocheat/internal/loader"
	"github.com/retroenv/retrocheat/internal/options"
	"github.com/retroenv/retrocheat/internal/pipeline"
	"github.com/retroenv/retrocheat/internal/writer"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var outputSuffixes = map[string]string{
	options.Decode:     "decoded",
	options.Encode:     "encoded",
	options.Encrypt:    "encrypted",
	options.Decrypt:    "decrypted",
	options.Scramble:   "scrambled",
	options.Unscramble: "unscrambled",
}

// ProcessFile runs the operation on the input file and writes the output
// image and the extracted embedded files.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program) error {
	result, err := pipeline.New(logger).Execute(ctx, opts)
	if err != nil {
		return err
	}

	l := loader.New()
	if result.Output != nil && opts.Output != "" {
		if err := l.Save(opts.Output, result.Output); err != nil {
			return fmt.Errorf("saving output: %w", err)
		}
		logger.Info("Wrote image", log.String("file", opts.Output))
	}

	if opts.List != "" && result.ROM != nil {
		if err := WriteCheatList(l, result.ROM, opts.List); err != nil {
			return fmt.Errorf("writing cheat list: %w", err)
		}
		logger.Info("Wrote cheat list", log.String("file", opts.List))
	}

	if opts.Extract != "" && result.ROM != nil {
		if result.ROM.Files == nil {
			logger.Warn("Image contains no embedded files", log.String("file", opts.Input))
			return nil
		}
		if err := ExtractFiles(logger, l, result.ROM.Files, opts.Extract); err != nil {
			return fmt.Errorf("extracting files: %w", err)
		}
	}
	return nil
}

// WriteCheatList writes the text listing of all games of the ROM to the file.
func WriteCheatList(l *loader.Loader, rom *container.ROM, path string) error {
	var buf bytes.Buffer
	w := writer.New(rom, &buf, writer.Options{MethodComments: true})
	if err := w.Write(); err != nil {
		return err
	}
	return l.Save(path, buf.Bytes())
}

// ExtractFiles writes the decompressed embedded files to the directory.
// Nested files are written to a sub directory named after their parent file.
func ExtractFiles(logger *log.Logger, l *loader.Loader, blob *fsblob.Blob, dir string) error {
	return extract(logger, l, blob.Files, dir)
}

func extract(logger *log.Logger, l *loader.Loader, files []*fsblob.File, dir string) error {
	for _, file := range files {
		name := filepath.Base(file.Name)
		if name == "." || name == string(filepath.Separator) || name == "" {
			logger.Warn("Skipping embedded file with invalid name", log.Hex("offset", file.Offset))
			continue
		}

		path := filepath.Join(dir, name)
		if err := l.Save(path, file.Data); err != nil {
			return err
		}
		logger.Debug("Extracted file",
			log.String("file", path),
			log.Int("size", len(file.Data)))

		if len(file.Files) > 0 {
			nestedDir := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name)))
			if err := extract(logger, l, file.Files, nestedDir); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetFilesToProcess returns list of files to process based on options
func GetFilesToProcess(opts *options.Program) ([]string, error) {
	if opts.Batch != "" {
		matches, err := filepath.Glob(opts.Batch)
		if err != nil {
			return nil, fmt.Errorf("globbing batch pattern: %w", err)
		}
		return matches, nil
	}
	return []string{opts.Input}, nil
}

// GenerateOutputFilename returns the output file name for the operation,
// or an empty name for operations that write no image.
func GenerateOutputFilename(inputFile, operation string) string {
	suffix, ok := outputSuffixes[operation]
	if !ok {
		return ""
	}
	ext := filepath.Ext(inputFile)
	return inputFile[:len(inputFile)-len(ext)] + "." + suffix + ext
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info("retrocheat", log.String("version", buildinfo.Version(version, commit, date)))
}
