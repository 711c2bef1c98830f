package api

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image/png"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// execBackend runs a Ghostscript-family executable (gs, gpcl6, gxps) once
// per page and reads a PNG from its standard output.
type execBackend struct {
	command    string
	path       string
	nativeView bool
}

func newExecBackend(command, path string, nativeView bool) *execBackend {
	return &execBackend{command: command, path: path, nativeView: nativeView}
}

// renderArgs builds the command line for one page. Resolutions are rounded
// to whole numbers unless the renderer applies the view itself, in which
// case it gets the hardware resolution and the device options.
func (b *execBackend) renderArgs(page int, opts RenderOptions) (args []string, resX, resY float64) {
	if b.nativeView {
		resX, resY = opts.ResX, opts.ResY
	} else {
		resX, resY = opts.EffectiveDPI()
		resX, resY = math.Max(1, math.Round(resX)), math.Max(1, math.Round(resY))
	}

	args = []string{
		"-dNOPAUSE", "-dBATCH", "-dSAFER", "-q",
		"-sDEVICE=png16m",
		"-r" + strconv.FormatFloat(resX, 'f', -1, 64) + "x" + strconv.FormatFloat(resY, 'f', -1, 64),
		"-dFirstPage=" + strconv.Itoa(page),
		"-dLastPage=" + strconv.Itoa(page),
	}
	if opts.TextAlpha {
		args = append(args, "-dTextAlphaBits=4", "-dGraphicsAlphaBits=4")
	}
	if b.nativeView {
		args = append(args, strings.Fields(opts.DeviceOptions)...)
		if opts.RTL {
			args = append(args, "-dRTL")
		}
	}
	args = append(args, "-sOutputFile=-", b.path)
	return args, resX, resY
}

func (b *execBackend) RenderPage(ctx context.Context, page int, opts RenderOptions) (*Rendered, error) {
	args, resX, resY := b.renderArgs(page, opts)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	// Past the last page the renderer writes nothing; depending on the
	// version it may or may not exit with an error.
	if stdout.Len() == 0 {
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", b.command, err, strings.TrimSpace(stderr.String()))
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s output: %w", b.command, err)
	}
	return &Rendered{Image: img, ResX: resX, ResY: resY, ViewApplied: b.nativeView}, nil
}

// PageCount runs the whole job through the bounding box device, which
// reports one bounding box per page on standard error.
func (b *execBackend) PageCount(ctx context.Context) (int, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, b.command,
		"-dNOPAUSE", "-dBATCH", "-dSAFER", "-q",
		"-sDEVICE=bbox", b.path)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("%s: %w", b.command, err)
	}
	return countBoundingBoxes(&stderr), nil
}

func countBoundingBoxes(buf *bytes.Buffer) int {
	n := 0
	s := bufio.NewScanner(buf)
	for s.Scan() {
		if strings.HasPrefix(s.Text(), "%%BoundingBox:") {
			n++
		}
	}
	return n
}

func (b *execBackend) Close() error {
	return nil
}
