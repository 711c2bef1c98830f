// Command gview-render renders document pages through the viewer's render
// pipeline without opening a window.
package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"gview/internal/config"
	"gview/internal/logging"
	"gview/pkg/api"
	"gview/pkg/pickle"
	"gview/pkg/viewport"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error reading config: %v\n", err)
	}
	ctx := logging.WithLogger(context.Background(), logging.Default(cfg.LogLevel))

	switch command := os.Args[1]; command {
	case "info":
		if len(os.Args) < 3 {
			fmt.Println("Usage: gview-render info <file>")
			os.Exit(1)
		}
		cmdInfo(ctx, cfg, os.Args[2])

	case "render":
		if len(os.Args) < 3 {
			fmt.Println("Usage: gview-render render <file> [-o output.png] [-p page] [-dpi value] [-zoom factor] [-x points] [-y points]")
			os.Exit(1)
		}
		cmdRender(ctx, cfg, os.Args[2:])

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage:
  gview-render <command> [arguments]

Commands:
  info <file>                  Show the page count
  render <file> [options]      Render a page to PNG
    -o <output.png>            Output file (default: output.png)
    -p <page>                  Page number, 1-based (default: 1)
    -dpi <value>               Starting resolution (default: from config)
    -zoom <factor>             Zoom factor applied after opening (default: 1)
    -x <value>, -y <value>     View origin at the starting resolution

Examples:
  gview-render info GhostPrinter.pcl
  gview-render render document.pdf -o page2.png -p 2 -dpi 150 -zoom 2`)
}

func cmdInfo(ctx context.Context, cfg config.Config, path string) {
	doc, err := api.Open(path, cfg.Commands())
	if err != nil {
		fmt.Printf("Error opening document: %v\n", err)
		os.Exit(1)
	}
	defer doc.Close()

	n, err := doc.PageCount(ctx)
	if err != nil {
		fmt.Printf("Error counting pages: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Pages: %d\n", n)
}

// requestOnly captures the parameters of the last request.
type requestOnly struct {
	page   int
	params viewport.Params
}

func (r *requestOnly) RequestPage(page int, p viewport.Params) uint64 {
	r.page, r.params = page, p
	return 0
}

func (r *requestOnly) Page() int {
	return r.page
}

func cmdRender(ctx context.Context, cfg config.Config, args []string) {
	path := args[0]
	output := "output.png"
	page := 1
	dpi := cfg.StartingRes
	zoom := 1.0
	var x, y float64

	for i := 1; i < len(args); i++ {
		if i+1 >= len(args) {
			break
		}
		v := args[i+1]
		switch args[i] {
		case "-o":
			output = v
		case "-p":
			page, _ = strconv.Atoi(v)
		case "-dpi":
			dpi, _ = strconv.ParseFloat(v, 64)
		case "-zoom":
			zoom, _ = strconv.ParseFloat(v, 64)
		case "-x":
			x, _ = strconv.ParseFloat(v, 64)
		case "-y":
			y, _ = strconv.ParseFloat(v, 64)
		default:
			continue
		}
		i++
	}

	req := &requestOnly{page: page}
	ctl := viewport.NewController(dpi, cfg.ZoomWindowRatio, req, req)
	ctl.Reset(dpi)
	if err := ctl.State().Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if zoom != 1 {
		ctl.ZoomFactor(zoom)
	}
	if x != 0 || y != 0 {
		ctl.TranslateTo(x, y)
	}
	p := ctl.Params()

	cmds := cfg.Commands()
	d := pickle.NewDispatcher(func(path string) (*api.Document, error) {
		return api.Open(path, cmds)
	}, pickle.WithLogger(*logging.FromContext(ctx)))
	w := d.Pages()
	w.SetJob(path)
	w.SetResolution(p.ResX, p.ResY)
	w.SetDeviceOptions(p.DeviceOptions())
	w.SetTextAlpha(cfg.TextAlpha)
	w.SetRTL(cfg.RTL)
	w.SetPageNumber(page)

	fmt.Printf("Rendering page %d of %s at %s dpi...\n", page, path, viewport.FormatReal(ctl.State().DesiredRes))
	res, err := d.ProduceFirst(ctx)
	if err != nil {
		fmt.Printf("Error rendering page: %v\n", err)
		os.Exit(1)
	}
	if !res.Found() {
		fmt.Printf("Page %d not found\n", page)
		os.Exit(1)
	}

	if err := writePNG(output, res.Image); err != nil {
		fmt.Printf("Error writing output: %v\n", err)
		os.Exit(1)
	}
	b := res.Image.Bounds()
	fmt.Printf("Saved %s (%dx%d pixels)\n", output, b.Dx(), b.Dy())
}

// writePNG encodes img to path, creating missing parent directories.
func writePNG(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return f.Close()
}
