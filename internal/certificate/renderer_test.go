package certificate

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "symposia/pkg/domain"
)

func TestUnitToPoints(t *testing.T) {
	assert.InDelta(t, 72.0, UnitPoint.ToPoints(72), 0.001)
	assert.InDelta(t, 72.0, UnitMillimeter.ToPoints(25.4), 0.001)
	assert.InDelta(t, 72.0, UnitCentimeter.ToPoints(2.54), 0.001)
	assert.InDelta(t, 10.0, Unit("furlong").ToPoints(10), 0.001, "unknown units pass through as points")
}

func TestFontFace(t *testing.T) {
	cases := []struct {
		name   string
		family string
		style  string
	}{
		{"helvetica", "Helvetica", ""},
		{"Arial", "Helvetica", ""},
		{"times", "Times", ""},
		{"times-bold", "Times", "B"},
		{"helvetica-italic", "Helvetica", "I"},
		{"courier", "Courier", ""},
		{"", "Helvetica", ""},
		{"Comic Sans", "Helvetica", ""},
	}
	for _, tc := range cases {
		family, style := fontFace(tc.name)
		assert.Equal(t, tc.family, family, "font %q", tc.name)
		assert.Equal(t, tc.style, style, "font %q", tc.name)
	}
}

func TestParseColor(t *testing.T) {
	r, g, b := parseColor("#1a2b3c")
	assert.Equal(t, []int{0x1a, 0x2b, 0x3c}, []int{r, g, b})

	for _, bad := range []string{"", "red", "#fff", "#zzzzzz"} {
		r, g, b := parseColor(bad)
		assert.Zero(t, r+g+b, "bad color %q falls back to black", bad)
	}
}

// TestRenderUnknownFont pins the soft-failure contract: a template authored
// with an unavailable font still renders on the default face.
func TestRenderUnknownFont(t *testing.T) {
	template := &Template{
		ID:      id.TemplateID(uuid.New()),
		EventID: id.EventID(uuid.New()),
		Unit:    UnitPoint,
		Fields: []Field{
			{Source: Static{Text: "hello"}, X: 100, Y: 100, Font: "Papyrus", Size: 24, Rotation: 45},
			{Source: Static{Text: "bounded"}, X: 200, Y: 200, Size: 12, MaxWidth: 80, Align: AlignCenter},
		},
	}

	pdf, err := NewRenderer(t.TempDir()).Render(template, []string{"hello", "bounded"}, RenderOptions{DrawBackground: true})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
