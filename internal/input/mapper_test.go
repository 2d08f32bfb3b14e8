package input

import (
	"math"
	"testing"

	"github.com/iamasit07/dropfour/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGeometry() Geometry {
	return Geometry{
		Columns:      6,
		Rows:         6,
		SlotWidth:    50,
		SlotHeight:   60,
		BoardOriginX: 10,
		BoardOriginY: 200,
	}
}

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	m, err := NewMapper(testGeometry())
	require.NoError(t, err)
	return m
}

func TestResolveColumn(t *testing.T) {
	m := newTestMapper(t)

	tests := []struct {
		name string
		x    float64
		want int
	}{
		{"left edge", 10, 0},
		{"inside first slot", 59.9, 0},
		{"second slot boundary", 60, 1},
		{"middle", 185, 3},
		{"last slot", 300, 5},
		{"right edge", 310, 5},
		{"past right edge", 5000, 5},
		{"left of board", -400, 0},
		{"positive infinity", math.Inf(1), 5},
		{"negative infinity", math.Inf(-1), 0},
		{"nan", math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.ResolveColumn(tt.x))
		})
	}
}

func TestResolveColumnBeyondLastCenter(t *testing.T) {
	m := newTestMapper(t)
	last := m.ColumnCenter(5)

	for _, dx := range []float64{0.1, 10, 24.9, 25, 1000} {
		col := m.ResolveColumn(last + dx)
		assert.Equal(t, 5, col, "x=%v", last+dx)
	}
}

func TestColumnCenterRoundTrip(t *testing.T) {
	m := newTestMapper(t)

	for col := 0; col < 6; col++ {
		assert.Equal(t, col, m.ResolveColumn(m.ColumnCenter(col)))
	}
	assert.Equal(t, 35.0, m.ColumnCenter(0))
	assert.Equal(t, m.ColumnCenter(5), m.ColumnCenter(42))
	assert.Equal(t, m.ColumnCenter(0), m.ColumnCenter(-3))
}

func TestClampX(t *testing.T) {
	m := newTestMapper(t)

	assert.Equal(t, 35.0, m.ClampX(0))
	assert.Equal(t, 285.0, m.ClampX(900))
	assert.Equal(t, 120.0, m.ClampX(120))
	assert.Equal(t, 35.0, m.ClampX(math.NaN()))
}

func TestFallDistance(t *testing.T) {
	m := newTestMapper(t)
	e, err := domain.NewEngine(domain.DefaultDimensions())
	require.NoError(t, err)

	d, err := m.FallDistance(2, e)
	require.NoError(t, err)
	assert.Equal(t, 5*60.0, d)

	for i := 0; i < 5; i++ {
		_, err := e.CommitDrop(2)
		require.NoError(t, err)
	}
	d, err = m.FallDistance(2, e)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	_, err = e.CommitDrop(2)
	require.NoError(t, err)
	_, err = m.FallDistance(2, e)
	assert.ErrorIs(t, err, domain.ErrColumnFull)
}

func TestRowCenterY(t *testing.T) {
	m := newTestMapper(t)

	assert.Equal(t, 200+5.5*60, m.RowCenterY(0))
	assert.Equal(t, 230.0, m.RowCenterY(5))
	// a chip that falls FallDistanceToRow lands on the row's centre
	top := m.RowCenterY(5)
	assert.Equal(t, m.RowCenterY(2), top+m.FallDistanceToRow(2))
}

func TestNewMapperRejectsBadGeometry(t *testing.T) {
	g := testGeometry()
	g.SlotWidth = 0
	_, err := NewMapper(g)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	g = testGeometry()
	g.Rows = 0
	_, err = NewMapper(g)
	assert.ErrorIs(t, err, domain.ErrInvalidDimensions)

	g = testGeometry()
	g.SlotHeight = math.NaN()
	_, err = NewMapper(g)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
