package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/KaramelBytes/edalens/internal/stats"
	"github.com/KaramelBytes/edalens/internal/table"
	"github.com/KaramelBytes/edalens/internal/utils"
)

// Heatmap layout in pixels.
const (
	cellH       = 30
	minCellW    = 56
	maxCellW    = 112
	maxLabel    = 14
	titleH      = 36
	bottomH     = 30
	margin      = 10
	barGap      = 18
	barW        = 16
	barLabelW   = 48
	minHeatmapW = 320
)

var (
	white    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black    = color.RGBA{A: 255}
	nanColor = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	nanText  = color.RGBA{R: 140, G: 140, B: 140, A: 255}
)

// coolwarm anchor colors at 0, .25, .5, .75 and 1.
var coolwarm = [5]color.RGBA{
	{R: 59, G: 76, B: 192, A: 255},
	{R: 141, G: 176, B: 254, A: 255},
	{R: 221, G: 221, B: 221, A: 255},
	{R: 244, G: 154, B: 123, A: 255},
	{R: 180, G: 4, B: 38, A: 255},
}

// Diverging maps a correlation in [-1, 1] onto the coolwarm palette.
func Diverging(v float64) color.RGBA {
	t := (math.Max(-1, math.Min(1, v)) + 1) / 2
	pos := t * float64(len(coolwarm)-1)
	i := int(pos)
	if i >= len(coolwarm)-1 {
		return coolwarm[len(coolwarm)-1]
	}
	f := pos - float64(i)
	a, b := coolwarm[i], coolwarm[i+1]
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + f*(float64(y)-float64(x)))) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// heatmap renders the Pearson correlation matrix of cols with each cell
// annotated to two decimals.
func (r *Renderer) heatmap(path, title string, cols []*table.Column) error {
	values := make([][]float64, len(cols))
	labels := make([]string, len(cols))
	longest := 0
	for i, c := range cols {
		values[i] = c.Numbers
		labels[i] = truncate(c.Name, maxLabel)
		longest = max(longest, textWidth(labels[i]))
	}
	corr := stats.CorrelationMatrix(values)
	return writePNG(path, drawHeatmap(title, labels, longest, corr))
}

func drawHeatmap(title string, labels []string, longest int, corr [][]float64) *image.RGBA {
	n := len(labels)
	cellW := min(max(longest+10, minCellW), maxCellW)
	labelW := longest + 12
	gridX, gridY := margin+labelW, titleH
	barX := gridX + n*cellW + barGap
	width := max(barX+barW+barLabelW, minHeatmapW)
	height := titleH + n*cellH + bottomH

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	drawCentered(img, title, width/2, titleH/2, black)

	for i := 0; i < n; i++ {
		cy := gridY + i*cellH
		drawText(img, labels[i], gridX-6-textWidth(labels[i]), cy+cellH/2+4, black)
		for j := 0; j < n; j++ {
			cx := gridX + j*cellW
			cell := image.Rect(cx, cy, cx+cellW, cy+cellH)
			v := corr[i][j]
			if math.IsNaN(v) {
				draw.Draw(img, cell, image.NewUniform(nanColor), image.Point{}, draw.Src)
				drawCentered(img, "nan", cx+cellW/2, cy+cellH/2, nanText)
			} else {
				bg := Diverging(v)
				draw.Draw(img, cell, image.NewUniform(bg), image.Point{}, draw.Src)
				drawCentered(img, fmt.Sprintf("%.2f", v), cx+cellW/2, cy+cellH/2, textOn(bg))
			}
			// thin separators between cells
			draw.Draw(img, image.Rect(cx+cellW-1, cy, cx+cellW, cy+cellH), image.NewUniform(white), image.Point{}, draw.Src)
			draw.Draw(img, image.Rect(cx, cy+cellH-1, cx+cellW, cy+cellH), image.NewUniform(white), image.Point{}, draw.Src)
		}
	}
	for j := 0; j < n; j++ {
		lbl := truncate(labels[j], (cellW-4)/7)
		drawCentered(img, lbl, gridX+j*cellW+cellW/2, gridY+n*cellH+bottomH/2, black)
	}

	barH := n * cellH
	for py := 0; py < barH; py++ {
		v := 1.0
		if barH > 1 {
			v = 1 - 2*float64(py)/float64(barH-1)
		}
		draw.Draw(img, image.Rect(barX, gridY+py, barX+barW, gridY+py+1), image.NewUniform(Diverging(v)), image.Point{}, draw.Src)
	}
	drawText(img, "1.00", barX+barW+4, gridY+9, black)
	drawText(img, "0.00", barX+barW+4, gridY+barH/2+4, black)
	drawText(img, "-1.00", barX+barW+4, gridY+barH-1, black)
	return img
}

// textOn picks black or white text for legibility on bg.
func textOn(bg color.RGBA) color.RGBA {
	lum := 0.299*float64(bg.R) + 0.587*float64(bg.G) + 0.114*float64(bg.B)
	if lum < 140 {
		return white
	}
	return black
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func drawText(dst draw.Image, s string, x, y int, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

// drawCentered draws s centered on (cx, cy).
func drawCentered(dst draw.Image, s string, cx, cy int, col color.Color) {
	drawText(dst, s, cx-textWidth(s)/2, cy+4, col)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n <= 2 {
		return string(r[:n])
	}
	return string(r[:n-2]) + ".."
}

// placeholder is a titled blank image for a column that has nothing to plot.
func placeholder(w, h int, title, msg string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	drawCentered(img, title, w/2, titleH/2, black)
	drawCentered(img, msg, w/2, h/2, nanText)
	return img
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
