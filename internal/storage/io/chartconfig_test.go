package io_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/slok/bbschedule/internal/chart"
	storageio "github.com/slok/bbschedule/internal/storage/io"
)

func TestChartConfigYAMLRepositoryGetStyle(t *testing.T) {
	tests := map[string]struct {
		config   string
		expStyle func() chart.Style
		expErr   bool
	}{
		"An empty config should return the default style.": {
			config:   "---\n",
			expStyle: chart.DefaultStyle,
		},

		"Set keys should override the defaults.": {
			config: `
surface:
  width: 1600
  margins:
    left: 220
gantt:
  band_padding: 0.1
board:
  weeks: 8
font:
  size: 14
colors:
  palette: ["#000000", "#ffffff"]
  today: "#00ff00"
`,
			expStyle: func() chart.Style {
				s := chart.DefaultStyle()
				s.Width = 1600
				s.Margin.Left = 220
				s.BandPadding = 0.1
				s.BoardWeeks = 8
				s.FontSize = 14
				s.Palette = []string{"#000000", "#ffffff"}
				s.TodayColor = "#00ff00"
				return s
			},
		},

		"Invalid colours should fail.": {
			config: "colors:\n  background: white\n",
			expErr: true,
		},

		"Margins bigger than the surface should fail.": {
			config: "surface:\n  width: 100\n",
			expErr: true,
		},

		"Zero board weeks should fail.": {
			config: "board:\n  weeks: 0\n",
			expErr: true,
		},

		"Invalid YAML should fail.": {
			config: "surface: [",
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			fs := fstest.MapFS{"chart.yaml": &fstest.MapFile{Data: []byte(test.config)}}
			repo := storageio.NewChartConfigYAMLRepository(fs)
			style, err := repo.GetStyle(context.Background(), "chart.yaml")

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Equal(test.expStyle(), style)
			}
		})
	}
}
