package png_test

import (
	"bytes"
	stdpng "image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/bbschedule/internal/chart"
	"github.com/slok/bbschedule/internal/model"
	"github.com/slok/bbschedule/internal/render/png"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEncode(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	r, err := chart.NewRenderer(chart.RendererConfig{})
	require.NoError(err)
	tasks := []model.Task{
		{ID: "a", Name: "Excavation", Start: date(2024, 1, 1), End: date(2024, 1, 11), Status: model.TaskStatusInProgress},
		{ID: "b", Name: "Foundation", Start: date(2024, 1, 11), End: date(2024, 1, 21), Dependencies: []string{"a"}},
	}
	scene := r.Gantt(tasks, r.Scales(tasks, date(2024, 1, 5)), date(2024, 1, 5))

	var b bytes.Buffer
	require.NoError(png.Encode(&b, scene))

	img, err := stdpng.Decode(&b)
	require.NoError(err)
	assert.Equal(1200, img.Bounds().Dx())
	assert.Equal(600, img.Bounds().Dy())

	// Background corner.
	cr, cg, cb, _ := img.At(1, 1).RGBA()
	assert.Equal([3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{cr, cg, cb})

	// Inside the first bar.
	h, ok := scene.HandleFor("a")
	require.True(ok)
	br, bg, bb, _ := img.At(int(h.X+h.Width/2), int(h.Y+4)).RGBA()
	assert.NotEqual([3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{br, bg, bb})
}

func TestEncodeEmptyScene(t *testing.T) {
	r, err := chart.NewRenderer(chart.RendererConfig{})
	require.NoError(t, err)

	s, err := r.Render(chart.KindPullPlan, nil, time.Now())
	require.NoError(t, err)

	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, s))
	assert.NotZero(t, b.Len())
}

func TestEncodeInvalidScene(t *testing.T) {
	var b bytes.Buffer
	err := png.Encode(&b, chart.Scene{})
	assert.Error(t, err)
}
