// Package chart renders the dashboard's bar and line charts as PNG images.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/Tincho2002/dotacion-assa-2025/internal/pivot"
	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font/gofont/goregular"
)

// Kind selects the chart geometry.
type Kind int

const (
	Bar Kind = iota
	Line
)

// Point is one labelled value.
type Point struct {
	Label string
	Value float64
}

// Series is the data of one chart.
type Series struct {
	Title  string
	Kind   Kind
	Points []Point
}

var (
	ErrNoData        = errors.New("chart: no data points")
	ErrMissingColumn = errors.New("chart: column not found")
)

// Palette.
var (
	primary  = drawing.Color{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	positive = drawing.Color{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}
	negative = drawing.Color{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

const (
	width  = 960
	height = 480
	// labelRunes caps x-axis labels.
	labelRunes = 18
)

var goFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// FromFrame builds a series from two columns of f, skipping the Total row and
// rows whose value cell is not a count.
func FromFrame(f *pivot.Frame, labelCol, valueCol string, kind Kind) (Series, error) {
	li, vi := f.ColumnIndex(labelCol), f.ColumnIndex(valueCol)
	if li < 0 {
		return Series{}, fmt.Errorf("%w: %q", ErrMissingColumn, labelCol)
	}
	if vi < 0 {
		return Series{}, fmt.Errorf("%w: %q", ErrMissingColumn, valueCol)
	}
	s := Series{Kind: kind}
	for _, row := range f.Rows {
		label := row[li].String()
		if label == pivot.TotalLabel {
			continue
		}
		n, ok := row[vi].AsInt()
		if !ok {
			continue
		}
		s.Points = append(s.Points, Point{Label: label, Value: float64(n)})
	}
	return s, nil
}

// RenderPNG draws s and encodes it as PNG.
func RenderPNG(s Series) ([]byte, error) {
	if len(s.Points) == 0 {
		return nil, ErrNoData
	}
	f, err := goFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}

	var buf bytes.Buffer
	switch s.Kind {
	case Line:
		err = lineChart(s, f).Render(gochart.PNG, &buf)
	default:
		err = barChart(s, f).Render(gochart.PNG, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", s.Title, err)
	}
	return buf.Bytes(), nil
}

func barChart(s Series, f *truetype.Font) gochart.BarChart {
	lo, hi := valueRange(s.Points)
	slot := (width - 120) / len(s.Points)
	bars := make([]gochart.Value, len(s.Points))
	for i, p := range s.Points {
		c := positive
		if p.Value < 0 {
			c = negative
		}
		bars[i] = gochart.Value{
			Label: truncate(p.Label, labelRunes),
			Value: p.Value,
			Style: gochart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		}
	}
	return gochart.BarChart{
		Title:        s.Title,
		Font:         f,
		Width:        width,
		Height:       height,
		BarWidth:     max(1, slot*3/5),
		BarSpacing:   max(1, slot*2/5),
		Background:   gochart.Style{Padding: gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: countFormatter,
		},
		Bars: bars,
	}
}

func lineChart(s Series, f *truetype.Font) gochart.Chart {
	lo, hi := valueRange(s.Points)
	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	ticks := make([]gochart.Tick, len(s.Points))
	for i, p := range s.Points {
		xs[i], ys[i] = float64(i), p.Value
		ticks[i] = gochart.Tick{Value: float64(i), Label: truncate(p.Label, labelRunes)}
	}
	return gochart.Chart{
		Title:      s.Title,
		Font:       f,
		Width:      width,
		Height:     height,
		Background: gochart.Style{Padding: gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(len(s.Points)) - 0.5},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: countFormatter,
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    s.Title,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: primary,
					StrokeWidth: 2,
					DotColor:    primary,
					DotWidth:    4,
				},
			},
		},
	}
}

func countFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return fmt.Sprint(v)
}

// valueRange returns a value span that includes zero and is never empty.
func valueRange(points []Point) (lo, hi float64) {
	for _, p := range points {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
