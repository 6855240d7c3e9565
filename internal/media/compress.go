package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nexuslab/capture/internal/logger"
)

// compressedMIME is the container every compressed video payload ends up in.
const compressedMIME = "video/mp4"

// ErrCompressorUnavailable indicates no ffmpeg binary could be found.
var ErrCompressorUnavailable = errors.New("video compressor unavailable")

// FFmpegCompressor runs a single H.264 compression pass over a video payload
// by shelling out to ffmpeg. When the binary is missing the compressor stays
// constructed but every call reports ErrCompressorUnavailable; callers keep
// the original payload.
type FFmpegCompressor struct {
	binary string
	log    logger.Logger
}

// NewFFmpegCompressor creates a compressor using the given ffmpeg executable
// name or path.
func NewFFmpegCompressor(binary string, log logger.Logger) *FFmpegCompressor {
	resolved, err := exec.LookPath(binary)
	if err != nil {
		log.Warn("ffmpeg not found, video compression disabled",
			logger.String("binary", binary),
		)
		return &FFmpegCompressor{log: log}
	}
	return &FFmpegCompressor{binary: resolved, log: log}
}

// Compress runs one compression pass and returns the MP4 payload.
// crf 28 trades quality for size; preset faster trades efficiency for speed.
func (c *FFmpegCompressor) Compress(ctx context.Context, data []byte) ([]byte, error) {
	if c.binary == "" {
		return nil, ErrCompressorUnavailable
	}

	dir, err := os.MkdirTemp("", "nexus-compress-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	inPath := filepath.Join(dir, "input.mp4")
	outPath := filepath.Join(dir, "output.mp4")

	if err := os.WriteFile(inPath, data, 0o600); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.binary,
		"-i", inPath,
		"-c:v", "libx264",
		"-crf", "28",
		"-preset", "faster",
		outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, stderr.String())
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}

	c.log.Debug("Compressed video payload",
		logger.Int("original_bytes", len(data)),
		logger.Int("compressed_bytes", len(out)),
	)

	return out, nil
}
