// Package verification verifies that serializing a parsed image recreates it.
package verification

import (
	"fmt"

	"github.com/retroenv/retrocheat/internal/container"
	"github.com/retroenv/retrogolib/log"
)

// maxReportedDiffs limits the logged mismatching offsets.
const maxReportedDiffs = 10

// VerifyRoundTrip parses the image, serializes it again with the source
// encryption or scrambling applied and compares the result to the input.
func VerifyRoundTrip(logger *log.Logger, input []byte, opts container.Options) error {
	rom, err := container.Parse(logger, input, opts)
	if err != nil {
		return fmt.Errorf("parsing image: %w", err)
	}

	output, err := rom.Image()
	if err != nil {
		return fmt.Errorf("serializing image: %w", err)
	}

	if err := checkBufferEqual(logger, input, output); err != nil {
		return fmt.Errorf("image mismatch: %w", err)
	}
	return nil
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs <= maxReportedDiffs {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
