package render

import (
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"golang.org/x/image/draw"
)

// drawNativeImage emits an image at full resolution using the iTerm2
// inline image protocol (OSC 1337), supported by iTerm2 and WezTerm.
func drawNativeImage(w io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := base64.StdEncoding.EncodeToString([]byte(filepath.Base(path)))
	payload := base64.StdEncoding.EncodeToString(data)
	_, err = fmt.Fprintf(w, "\x1b]1337;File=name=%s;inline=1;width=auto:%s\a\n", name, payload)
	return err
}

// Tallest raster output: 40 terminal rows at two pixel rows per glyph.
const maxRasterHeight = 80

// rasterImage renders an image as colored half-blocks, downscaled to
// fit maxWidth columns while preserving aspect ratio. Height is capped
// too, so a tall narrow image cannot flood the screen. Each text row
// carries two pixel rows: the upper half block's foreground is the top
// pixel, its background the bottom one.
func rasterImage(path string, maxWidth int, profile termenv.Profile) (string, error) {
	if profile != termenv.TrueColor && profile != termenv.ANSI256 {
		return "", fmt.Errorf("terminal color profile too limited for raster images")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return "", err
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return "", fmt.Errorf("empty image")
	}
	if width > maxWidth {
		height = height * maxWidth / width
		width = maxWidth
	}
	if height > maxRasterHeight {
		width = width * maxRasterHeight / height
		height = maxRasterHeight
		if width < 1 {
			width = 1
		}
	}
	if height%2 != 0 {
		height++
	}
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)

	var b strings.Builder
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := hexAt(scaled, x, y)
			bottom := hexAt(scaled, x, y+1)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom))
			b.WriteString(cell.Render("▀"))
		}
		if y+2 < height {
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func hexAt(img *image.RGBA, x, y int) string {
	c, _ := colorful.MakeColor(img.RGBAAt(x, y))
	return c.Hex()
}
