package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/zhuxiaohai/philips-medical/pkg/document"
	"github.com/zhuxiaohai/philips-medical/pkg/verifier"
)

var _ verifier.Renderer = &Renderer{}

// Renderer rasterizes a PDF page and draws a numbered red box over every
// error's bounding region. Images land under the image directory and are
// served back by URL.
type Renderer struct {
	imageDir string
	baseURL  string
}

func New(imageDir, baseURL string) *Renderer {
	return &Renderer{
		imageDir: imageDir,
		baseURL:  baseURL,
	}
}

// renderDPI matches the page-relative inch coordinates of bounding regions:
// at 72 DPI one inch is 72 pixels.
const renderDPI = 72

func (r *Renderer) Render(ctx context.Context, source *document.Source, pageNumber int, errors []verifier.DocumentError) (string, error) {
	doc, err := fitz.New(source.Path)

	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	defer doc.Close()

	img, err := doc.ImageDPI(pageNumber-1, renderDPI)

	if err != nil {
		return "", fmt.Errorf("failed to render page %d: %w", pageNumber, err)
	}

	canvas := image.NewRGBA(img.Bounds())
	draw.Draw(canvas, canvas.Bounds(), img, img.Bounds().Min, draw.Src)

	for idx, e := range errors {
		for _, region := range e.BoundingRegions {
			if region.PageNumber != pageNumber || len(region.Polygon) < 3 {
				continue
			}

			x0 := int(region.Polygon[0].X * renderDPI)
			y0 := int(region.Polygon[0].Y * renderDPI)
			x1 := int(region.Polygon[2].X * renderDPI)
			y1 := int(region.Polygon[2].Y * renderDPI)

			drawRect(canvas, x0, y0, x1, y1)
			drawLabel(canvas, x1+5, y0+basicfont.Face7x13.Height, strconv.Itoa(idx))
		}
	}

	dir := filepath.Join(r.imageDir, document.BaseName(source.Name))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := "page" + strconv.Itoa(pageNumber) + ".png"

	file, err := os.Create(filepath.Join(dir, name))

	if err != nil {
		return "", err
	}

	defer file.Close()

	if err := png.Encode(file, canvas); err != nil {
		return "", err
	}

	return r.baseURL + "/img/" + document.BaseName(source.Name) + "/" + name, nil
}

var boxColor = color.RGBA{R: 255, A: 255}

const boxWidth = 2

func drawRect(img *image.RGBA, x0, y0, x1, y1 int) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}

	if y1 < y0 {
		y0, y1 = y1, y0
	}

	for w := 0; w < boxWidth; w++ {
		for x := x0; x <= x1; x++ {
			img.Set(x, y0+w, boxColor)
			img.Set(x, y1-w, boxColor)
		}

		for y := y0; y <= y1; y++ {
			img.Set(x0+w, y, boxColor)
			img.Set(x1-w, y, boxColor)
		}
	}
}

func drawLabel(img *image.RGBA, x, y int, label string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(boxColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}

	drawer.DrawString(label)
}
