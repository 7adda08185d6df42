package png

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/slok/bbschedule/internal/chart"
)

// ContentType is the media type of the encoded scenes.
const ContentType = "image/png"

const arrowSize = 7.0

// Encode rasterizes the scene and writes it as a PNG image. Text uses a fixed
// size bitmap font whatever the requested text size.
func Encode(w io.Writer, s chart.Scene) error {
	img, err := Rasterize(s)
	if err != nil {
		return err
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("could not encode png: %w", err)
	}
	return nil
}

// Rasterize draws the scene into an image.
func Rasterize(s chart.Scene) (*image.RGBA, error) {
	width, height := int(math.Ceil(s.Width)), int(math.Ceil(s.Height))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid scene size %dx%d", width, height)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := color.Color(color.White)
	if s.Background != "" {
		bg = drawing.ColorFromHex(s.Background)
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	gc, err := drawing.NewRasterGraphicContext(img)
	if err != nil {
		return nil, fmt.Errorf("could not create graphic context: %w", err)
	}

	for _, e := range s.Elements {
		switch v := e.(type) {
		case chart.Rect:
			if v.Width <= 0 || v.Height <= 0 {
				continue
			}
			setPaint(gc, v.Paint)
			gc.MoveTo(v.X, v.Y)
			gc.LineTo(v.X+v.Width, v.Y)
			gc.LineTo(v.X+v.Width, v.Y+v.Height)
			gc.LineTo(v.X, v.Y+v.Height)
			gc.Close()
			finish(gc, v.Paint)
		case chart.Line:
			setPaint(gc, v.Paint)
			gc.MoveTo(v.X1, v.Y1)
			gc.LineTo(v.X2, v.Y2)
			gc.Stroke()
		case chart.Polyline:
			if len(v.Points) < 2 {
				continue
			}
			setPaint(gc, v.Paint)
			gc.MoveTo(v.Points[0].X, v.Points[0].Y)
			for _, p := range v.Points[1:] {
				gc.LineTo(p.X, p.Y)
			}
			gc.Stroke()
			if v.Arrow {
				arrow(gc, v.Points, v.Paint)
			}
		case chart.Circle:
			setPaint(gc, v.Paint)
			gc.MoveTo(v.CX+v.R, v.CY)
			gc.ArcTo(v.CX, v.CY, v.R, v.R, 0, 2*math.Pi)
			gc.Close()
			finish(gc, v.Paint)
		case chart.Text:
			text(img, v)
		default:
			return nil, fmt.Errorf("unsupported scene element %T", e)
		}
	}

	return img, nil
}

func withAlpha(hex string, p chart.Paint) drawing.Color {
	c := drawing.ColorFromHex(hex)
	return c.WithAlpha(uint8(math.Round(float64(c.A) * p.Alpha())))
}

// setPaint starts a new path with the paint.
func setPaint(gc *drawing.RasterGraphicContext, p chart.Paint) {
	gc.BeginPath()
	if p.Fill != "" {
		gc.SetFillColor(withAlpha(p.Fill, p))
	}
	if p.Stroke != "" {
		gc.SetStrokeColor(withAlpha(p.Stroke, p))
	}
	gc.SetLineWidth(max(p.StrokeWidth, 1))
	gc.SetLineDash(p.Dash, 0)
}

func finish(gc *drawing.RasterGraphicContext, p chart.Paint) {
	switch {
	case p.Fill != "" && p.Stroke != "":
		gc.FillStroke()
	case p.Fill != "":
		gc.Fill()
	case p.Stroke != "":
		gc.Stroke()
	}
}

// arrow draws a filled arrow head at the end of the last non empty segment.
func arrow(gc *drawing.RasterGraphicContext, pts []chart.Point, p chart.Paint) {
	end := pts[len(pts)-1]
	for i := len(pts) - 2; i >= 0; i-- {
		dx, dy := end.X-pts[i].X, end.Y-pts[i].Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		ux, uy := dx/l, dy/l
		bx, by := end.X-ux*arrowSize, end.Y-uy*arrowSize

		gc.SetFillColor(withAlpha(p.Stroke, p))
		gc.SetLineDash(nil, 0)
		gc.BeginPath()
		gc.MoveTo(end.X, end.Y)
		gc.LineTo(bx-uy*arrowSize/2, by+ux*arrowSize/2)
		gc.LineTo(bx+uy*arrowSize/2, by-ux*arrowSize/2)
		gc.Close()
		gc.Fill()
		return
	}
}

func text(img *image.RGBA, t chart.Text) {
	if t.Text == "" {
		return
	}

	col := color.Color(color.Black)
	if t.Paint.Fill != "" {
		col = withAlpha(t.Paint.Fill, t.Paint)
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(t.Text).Ceil()

	x := int(math.Round(t.X))
	switch t.Anchor {
	case chart.AnchorMiddle:
		x -= width / 2
	case chart.AnchorEnd:
		x -= width
	}
	y := int(math.Round(t.Y))

	d.Dot = fixed.P(x, y)
	d.DrawString(t.Text)
	if t.Bold {
		d.Dot = fixed.P(x+1, y)
		d.DrawString(t.Text)
	}
}
