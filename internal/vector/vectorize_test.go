package vector

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/edgevec/internal/imaging"
)

func TestVectorize_UniformImageEmitsNothing(t *testing.T) {
	m := magnitudeFromRows(t, [][]uint8{
		{255, 255, 255},
		{255, 255, 255},
		{255, 255, 255},
	})

	doc, err := Vectorize(m, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Width)
	assert.Equal(t, 3, doc.Height)
	assert.Zero(t, doc.Len())
}

func TestVectorize_ScanOrderAndThreshold(t *testing.T) {
	m := magnitudeFromRows(t, [][]uint8{
		{0, 99, 100, 101},
		{255, 50, 99, 200},
	})

	doc, err := Vectorize(m, DefaultOptions())
	require.NoError(t, err)

	want := []PathPrimitive{
		{X: 0, Y: 0, Fill: "black"},
		{X: 1, Y: 0, Fill: "black"},
		{X: 1, Y: 1, Fill: "black"},
		{X: 2, Y: 1, Fill: "black"},
	}
	assert.Equal(t, want, doc.Paths)
	assert.Equal(t, CountBelow(m, DefaultThreshold), doc.Len())
}

func TestVectorize_PrimitiveCountMatchesThreshold(t *testing.T) {
	m := magnitudeFromRows(t, [][]uint8{
		{0, 10, 20, 30, 40, 50, 60, 70},
		{80, 90, 100, 110, 120, 130, 140, 150},
		{160, 170, 180, 190, 200, 210, 220, 255},
	})

	tests := []struct {
		threshold int
		want      int
	}{
		{0, 0},
		{1, 1},
		{100, 10},
		{101, 11},
		{255, 23},
	}

	for _, tt := range tests {
		doc, err := Vectorize(m, Options{Threshold: tt.threshold, Fill: "black"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, doc.Len(), "threshold %d", tt.threshold)
		assert.Equal(t, CountBelow(m, tt.threshold), doc.Len(), "threshold %d", tt.threshold)
		for _, p := range doc.Paths {
			assert.True(t, p.Bounds().In(image.Rect(0, 0, doc.Width, doc.Height)), "primitive %v outside canvas", p)
		}
	}
}

func TestVectorize_VerticalStepScenario(t *testing.T) {
	// Left two columns black, right three white
	src := imaging.NewRasterImage(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			c := color.NRGBA{255, 255, 255, 255}
			if x < 2 {
				c = color.NRGBA{0, 0, 0, 255}
			}
			src.Set(x, y, c)
		}
	}
	gray, err := imaging.ToGrayscale(src)
	require.NoError(t, err)
	edges, err := imaging.DetectEdges(gray)
	require.NoError(t, err)

	doc, err := Vectorize(edges, DefaultOptions())
	require.NoError(t, err)

	var got []image.Point
	for _, p := range doc.Paths {
		got = append(got, image.Pt(p.X, p.Y))
	}
	want := []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}, {1, 2}}
	assert.Equal(t, want, got)
}

func TestVectorize_CustomFill(t *testing.T) {
	m := magnitudeFromRows(t, [][]uint8{{0}})

	doc, err := Vectorize(m, Options{Threshold: 100, Fill: "#FF0000"})
	require.NoError(t, err)
	require.Equal(t, 1, doc.Len())
	assert.Equal(t, "#ff0000", doc.Paths[0].Fill)
}

func TestVectorize_InvalidInput(t *testing.T) {
	m := magnitudeFromRows(t, [][]uint8{{0}})

	_, err := Vectorize(nil, DefaultOptions())
	assert.Error(t, err)

	_, err = Vectorize(m, Options{Threshold: -1})
	assert.Error(t, err)

	_, err = Vectorize(m, Options{Threshold: 256})
	assert.Error(t, err)

	_, err = Vectorize(m, Options{Threshold: 100, Fill: "#zzzzzz"})
	assert.Error(t, err)
}

func TestVectorize_MismatchedBuffer(t *testing.T) {
	for _, n := range []int{0, 5, 7} {
		m := &imaging.MagnitudeImage{Width: 2, Height: 3, Pix: make([]uint8, n)}

		doc, err := Vectorize(m, DefaultOptions())
		assert.Error(t, err, "buffer of %d samples", n)
		assert.Nil(t, doc)
	}
}

func TestParseFill(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "black", false},
		{"black", "black", false},
		{"  Navy ", "navy", false},
		{"#000000", "#000000", false},
		{"#ABCDEF", "#abcdef", false},
		{"#fff", "#ffffff", false},
		{"#12", "", true},
		{"url(#x)", "", true},
		{"red;stroke:blue", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFill(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// magnitudeFromRows builds a magnitude image holding exactly the given rows.
func magnitudeFromRows(t *testing.T, rows [][]uint8) *imaging.MagnitudeImage {
	t.Helper()
	m := &imaging.MagnitudeImage{Width: len(rows[0]), Height: len(rows)}
	for _, r := range rows {
		require.Len(t, r, m.Width)
		m.Pix = append(m.Pix, r...)
	}
	return m
}
