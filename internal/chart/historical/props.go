package historical

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/kpumuk/lazycharts/internal/chart/axis"
	"github.com/kpumuk/lazycharts/internal/chart/scale"
	"github.com/kpumuk/lazycharts/internal/chart/series"
)

// ErrInvalidInput is returned when props cannot be rendered. The scene is
// left untouched when it is returned.
var ErrInvalidInput = errors.New("invalid chart input")

// Props is one snapshot of everything the chart draws. Zero values and nil
// pointers fall back to the chart's Config.
type Props struct {
	// Start and End override the visible time domain, which otherwise spans
	// the first to the last sample.
	Start *time.Time
	End   *time.Time

	Width  float64
	Height float64

	// Data must be sorted by timestamp; unsorted input is sorted on a copy.
	Data []series.Sample

	// Capacity draws a shaded region below the capacity line and extends
	// the count axis to include it. Non-positive values are ignored.
	Capacity *float64
	// InitialCount is the count in effect before the first sample.
	InitialCount *float64

	TimeZone        string
	XAxisResolution string

	XAxisLabelFormat         axis.TimeFormatter
	YAxisLabelFormat         axis.ValueFormatter
	BottomOverlayLabelFormat func(t time.Time) string
	TopOverlayLabelFormat    func(count float64) string

	RenderPersonIcon *bool
}

// Margins surround the plot area.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Config holds the defaults applied to Props.
type Config struct {
	Width            float64
	Height           float64
	InitialCount     float64
	TimeZone         string
	Resolution       axis.Resolution
	RenderPersonIcon bool

	TopBoxWidth    float64
	BottomBoxWidth float64
	Margins        Margins

	// Now is the clock used for empty data and to stop the overlay at the
	// present.
	Now func() time.Time
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Width:            800,
		Height:           400,
		InitialCount:     0,
		TimeZone:         "UTC",
		Resolution:       axis.Hour,
		RenderPersonIcon: true,
		TopBoxWidth:      72,
		BottomBoxWidth:   232,
		Margins: Margins{
			Top:    16 + topBoxHeight + topBoxGap,
			Right:  5,
			Bottom: bottomBoxGap + topBoxGap + 42,
			Left:   60,
		},
		Now: time.Now,
	}
}

type propsJSON struct {
	Start            *timestamp      `json:"start"`
	End              *timestamp      `json:"end"`
	Width            float64         `json:"width"`
	Height           float64         `json:"height"`
	Data             json.RawMessage `json:"data"`
	Capacity         *float64        `json:"capacity"`
	InitialCount     *float64        `json:"initialCount"`
	TimeZone         string          `json:"timeZone"`
	XAxisResolution  string          `json:"xAxisResolution"`
	RenderPersonIcon *bool           `json:"renderPersonIcon"`
}

type sampleJSON struct {
	Timestamp timestamp `json:"timestamp"`
	Count     float64   `json:"count"`
	Flag      bool      `json:"flag"`
}

// timestamp accepts RFC 3339 strings or epoch milliseconds.
type timestamp time.Time

func (t *timestamp) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("parse timestamp: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("parse timestamp: %w", err)
		}
		*t = timestamp(parsed)
		return nil
	}
	ms, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("parse timestamp %s: %w", b, err)
	}
	*t = timestamp(scale.FromMillis(ms))
	return nil
}

func (t *timestamp) ptr() *time.Time {
	if t == nil {
		return nil
	}
	v := time.Time(*t)
	return &v
}

// DecodeProps reads props from JSON. Sample timestamps may be RFC 3339
// strings or epoch milliseconds; samples are returned sorted. A data member
// that is present but not an array yields ErrInvalidInput.
func DecodeProps(r io.Reader) (Props, error) {
	var raw propsJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Props{}, fmt.Errorf("%w: decode props: %w", ErrInvalidInput, err)
	}

	p := Props{
		Start:            raw.Start.ptr(),
		End:              raw.End.ptr(),
		Width:            raw.Width,
		Height:           raw.Height,
		Capacity:         raw.Capacity,
		InitialCount:     raw.InitialCount,
		TimeZone:         raw.TimeZone,
		XAxisResolution:  raw.XAxisResolution,
		RenderPersonIcon: raw.RenderPersonIcon,
	}

	data := bytes.TrimSpace(raw.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return p, nil
	}
	if data[0] != '[' {
		return Props{}, fmt.Errorf("%w: data must be an array", ErrInvalidInput)
	}
	var samples []sampleJSON
	if err := json.Unmarshal(data, &samples); err != nil {
		return Props{}, fmt.Errorf("%w: decode data: %w", ErrInvalidInput, err)
	}
	p.Data = make([]series.Sample, len(samples))
	for i, s := range samples {
		p.Data[i] = series.Sample{Timestamp: time.Time(s.Timestamp), Count: s.Count, Flag: s.Flag}
	}
	series.Sort(p.Data)
	return p, nil
}
