package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/slok/bbschedule/internal/chart"
)

// ContentType is the media type of the encoded scenes.
const ContentType = "image/svg+xml"

// Encode writes the scene as an SVG document.
func Encode(w io.Writer, s chart.Scene) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" class="chart chart-%s">`+"\n",
		num(s.Width), num(s.Height), num(s.Width), num(s.Height), s.Kind)
	sb.WriteString("<defs>\n")
	sb.WriteString(`<marker id="arrow" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="context-stroke"/></marker>` + "\n")
	fmt.Fprintf(&sb, "<style>text { font-family: %s; }</style>\n", escape(s.FontFamily))
	sb.WriteString("</defs>\n")

	if s.Background != "" {
		fmt.Fprintf(&sb, `<rect class="background" x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n", num(s.Width), num(s.Height), escape(s.Background))
	}

	for _, e := range s.Elements {
		switch v := e.(type) {
		case chart.Rect:
			fmt.Fprintf(&sb, `<rect%s x="%s" y="%s" width="%s" height="%s"`, attrs(v.Class, v.TaskID), num(v.X), num(v.Y), num(v.Width), num(v.Height))
			if v.Radius > 0 {
				fmt.Fprintf(&sb, ` rx="%s"`, num(v.Radius))
			}
			sb.WriteString(paint(v.Paint, true))
			sb.WriteString("/>\n")
		case chart.Line:
			fmt.Fprintf(&sb, `<line%s x1="%s" y1="%s" x2="%s" y2="%s"`, attrs(v.Class, ""), num(v.X1), num(v.Y1), num(v.X2), num(v.Y2))
			sb.WriteString(paint(v.Paint, false))
			sb.WriteString("/>\n")
		case chart.Polyline:
			pts := make([]string, 0, len(v.Points))
			for _, p := range v.Points {
				pts = append(pts, num(p.X)+","+num(p.Y))
			}
			fmt.Fprintf(&sb, `<polyline%s points="%s"`, attrs(v.Class, v.TaskID), strings.Join(pts, " "))
			sb.WriteString(paint(v.Paint, false))
			if v.Arrow {
				sb.WriteString(` marker-end="url(#arrow)"`)
			}
			sb.WriteString("/>\n")
		case chart.Circle:
			fmt.Fprintf(&sb, `<circle%s cx="%s" cy="%s" r="%s"`, attrs(v.Class, v.TaskID), num(v.CX), num(v.CY), num(v.R))
			sb.WriteString(paint(v.Paint, true))
			sb.WriteString("/>\n")
		case chart.Text:
			fmt.Fprintf(&sb, `<text%s x="%s" y="%s" text-anchor="%s" font-size="%s"`, attrs(v.Class, v.TaskID), num(v.X), num(v.Y), v.Anchor, num(v.Size))
			if v.Bold {
				sb.WriteString(` font-weight="bold"`)
			}
			sb.WriteString(paint(v.Paint, true))
			fmt.Fprintf(&sb, ">%s</text>\n", escape(v.Text))
		default:
			return fmt.Errorf("unsupported scene element %T", e)
		}
	}

	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("could not write svg: %w", err)
	}
	return nil
}

func attrs(class, taskID string) string {
	var sb strings.Builder
	if class != "" {
		fmt.Fprintf(&sb, ` class="%s"`, escape(class))
	}
	if taskID != "" {
		fmt.Fprintf(&sb, ` data-task-id="%s"`, escape(taskID))
	}
	return sb.String()
}

func paint(p chart.Paint, fillable bool) string {
	var sb strings.Builder
	switch {
	case p.Fill != "":
		fmt.Fprintf(&sb, ` fill="%s"`, escape(p.Fill))
	case fillable:
		sb.WriteString(` fill="none"`)
	}
	if p.Stroke != "" {
		fmt.Fprintf(&sb, ` stroke="%s"`, escape(p.Stroke))
		if p.StrokeWidth > 0 {
			fmt.Fprintf(&sb, ` stroke-width="%s"`, num(p.StrokeWidth))
		}
	}
	if !fillable && p.Fill == "" {
		sb.WriteString(` fill="none"`)
	}
	if a := p.Alpha(); a < 1 {
		fmt.Fprintf(&sb, ` opacity="%s"`, num(a))
	}
	if len(p.Dash) > 0 {
		ds := make([]string, 0, len(p.Dash))
		for _, d := range p.Dash {
			ds = append(ds, num(d))
		}
		fmt.Fprintf(&sb, ` stroke-dasharray="%s"`, strings.Join(ds, ","))
	}
	return sb.String()
}

// num formats coordinates with at most 2 decimals.
func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
