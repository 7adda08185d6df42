package chart

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is a chart type.
type Kind string

const (
	KindGantt    Kind = "gantt"
	KindLinear   Kind = "linear"
	KindPullPlan Kind = "pullplan"
)

// Kinds are all the supported chart kinds.
var Kinds = []Kind{KindGantt, KindLinear, KindPullPlan}

// ParseKind parses a chart kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindGantt, KindLinear, KindPullPlan:
		return k, nil
	case "pull-plan", "board":
		return KindPullPlan, nil
	}
	return "", fmt.Errorf("unknown chart kind %q", s)
}

// Point is a 2D point in surface coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Paint is the fill and stroke of an element. Zero opacity means opaque.
type Paint struct {
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"stroke_width,omitempty"`
	Opacity     float64   `json:"opacity,omitempty"`
	Dash        []float64 `json:"dash,omitempty"`
}

// Alpha returns the effective opacity.
func (p Paint) Alpha() float64 {
	if p.Opacity <= 0 || p.Opacity > 1 {
		return 1
	}
	return p.Opacity
}

// Element is a drawable scene element: Rect, Line, Polyline, Circle or Text.
type Element interface {
	elementType() string
}

// Rect is a rectangle.
type Rect struct {
	TaskID string  `json:"task_id,omitempty"`
	Class  string  `json:"class,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"radius,omitempty"`
	Paint  Paint   `json:"paint"`
}

// Line is a straight segment.
type Line struct {
	Class string  `json:"class,omitempty"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Paint Paint   `json:"paint"`
}

// Polyline is an open path through points, optionally ending with an arrow head.
type Polyline struct {
	TaskID string  `json:"task_id,omitempty"`
	Class  string  `json:"class,omitempty"`
	Points []Point `json:"points"`
	Arrow  bool    `json:"arrow,omitempty"`
	Paint  Paint   `json:"paint"`
}

// Circle is a circle marker.
type Circle struct {
	TaskID string  `json:"task_id,omitempty"`
	Class  string  `json:"class,omitempty"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	R      float64 `json:"r"`
	Paint  Paint   `json:"paint"`
}

// Anchor is the horizontal text alignment.
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// Text is a text label, Y is the baseline.
type Text struct {
	TaskID string  `json:"task_id,omitempty"`
	Class  string  `json:"class,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
	Anchor Anchor  `json:"anchor"`
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold,omitempty"`
	Paint  Paint   `json:"paint"`
}

func (Rect) elementType() string     { return "rect" }
func (Line) elementType() string     { return "line" }
func (Polyline) elementType() string { return "polyline" }
func (Circle) elementType() string   { return "circle" }
func (Text) elementType() string     { return "text" }

// Gesture is the direct manipulation a handle accepts.
type Gesture string

const (
	// GestureShift moves a task in time keeping its duration.
	GestureShift Gesture = "shift"
	// GestureMoveWeek moves a task to another pull-planning week.
	GestureMoveWeek Gesture = "move-week"
)

// Handle is an interactive area bound to a task.
type Handle struct {
	TaskID  string  `json:"task_id"`
	Gesture Gesture `json:"gesture"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// DropZone is an area that accepts dropped pull-planning cards.
type DropZone struct {
	Week   int     `json:"week"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LegendEntry maps a task name group to its colour.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Scene is a renderer agnostic drawable chart.
type Scene struct {
	Kind       Kind
	Width      float64
	Height     float64
	Background string
	FontFamily string
	// Empty is set when the scene is a placeholder, Message explains why.
	Empty     bool
	Message   string
	Elements  []Element
	Legend    []LegendEntry
	Handles   []Handle
	DropZones []DropZone
}

func inside(x, y, rx, ry, rw, rh float64) bool {
	return x >= rx && x <= rx+rw && y >= ry && y <= ry+rh
}

// HitTest returns the top most handle at a position.
func (s Scene) HitTest(x, y float64) (Handle, bool) {
	for i := len(s.Handles) - 1; i >= 0; i-- {
		h := s.Handles[i]
		if inside(x, y, h.X, h.Y, h.Width, h.Height) {
			return h, true
		}
	}
	return Handle{}, false
}

// HandleFor returns the handle of a task.
func (s Scene) HandleFor(taskID string) (Handle, bool) {
	for _, h := range s.Handles {
		if h.TaskID == taskID {
			return h, true
		}
	}
	return Handle{}, false
}

// DropWeek returns the week of the drop zone at a position.
func (s Scene) DropWeek(x, y float64) (int, bool) {
	for _, z := range s.DropZones {
		if inside(x, y, z.X, z.Y, z.Width, z.Height) {
			return z.Week, true
		}
	}
	return 0, false
}

type jsonElement struct {
	Type string  `json:"type"`
	Data Element `json:"data"`
}

type jsonScene struct {
	Kind       Kind          `json:"kind"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Background string        `json:"background,omitempty"`
	FontFamily string        `json:"font_family,omitempty"`
	Empty      bool          `json:"empty"`
	Message    string        `json:"message,omitempty"`
	Elements   []jsonElement `json:"elements"`
	Legend     []LegendEntry `json:"legend,omitempty"`
	Handles    []Handle      `json:"handles,omitempty"`
	DropZones  []DropZone    `json:"drop_zones,omitempty"`
}

// MarshalJSON marshals the scene tagging every element with its type.
func (s Scene) MarshalJSON() ([]byte, error) {
	js := jsonScene{
		Kind:       s.Kind,
		Width:      s.Width,
		Height:     s.Height,
		Background: s.Background,
		FontFamily: s.FontFamily,
		Empty:      s.Empty,
		Message:    s.Message,
		Elements:   make([]jsonElement, 0, len(s.Elements)),
		Legend:     s.Legend,
		Handles:    s.Handles,
		DropZones:  s.DropZones,
	}
	for _, e := range s.Elements {
		js.Elements = append(js.Elements, jsonElement{Type: e.elementType(), Data: e})
	}

	return json.Marshal(js)
}
