// Package viewer turns DOT files into images with graphviz and hands the
// result to the platform viewer.
package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// ErrGraphvizNotFound is returned when the dot binary is not on PATH.
var ErrGraphvizNotFound = errors.New("graphviz dot executable not found")

// DefaultRenderTimeout bounds a single graphviz invocation.
const DefaultRenderTimeout = time.Minute

// DotBinary is the graphviz executable used by Render.
var DotBinary = "dot"

// ImagePath returns the path Render writes for dotPath and format.
func ImagePath(dotPath, format string) string {
	return dotPath + "." + format
}

// Render runs graphviz on dotPath and returns the path of the produced image.
func Render(ctx context.Context, dotPath, format string) (string, error) {
	format = strings.TrimPrefix(strings.TrimSpace(format), ".")
	if format == "" {
		return "", fmt.Errorf("image format is required")
	}

	bin, err := exec.LookPath(DotBinary)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGraphvizNotFound, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRenderTimeout)
		defer cancel()
	}

	out := ImagePath(dotPath, format)
	cmd := exec.CommandContext(ctx, bin, "-T"+format, "-o", out, dotPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("graphviz failed: %s", msg)
	}
	return out, nil
}

// OpenCommand returns the command line that opens path. A non-empty viewer
// (e.g. "zathura" or "open -a Skim") replaces the platform default.
func OpenCommand(viewer, path string) []string {
	if fields := strings.Fields(viewer); len(fields) > 0 {
		return append(fields, path)
	}
	switch runtime.GOOS {
	case "darwin":
		return []string{"open", path}
	case "windows":
		return []string{"cmd", "/c", "start", "", path}
	default:
		return []string{"xdg-open", path}
	}
}

// Open starts the viewer on path and does not wait for it to exit.
func Open(viewer, path string) error {
	args := OpenCommand(viewer, path)
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
