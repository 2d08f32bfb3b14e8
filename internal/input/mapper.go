package input

import (
	"fmt"
	"math"

	"github.com/iamasit07/dropfour/internal/domain"
)

// Geometry is the board layout as the client measured it, in points.
// Screen y grows downward; BoardOriginY is the top edge of the board.
type Geometry struct {
	Columns      int     `json:"columns"`
	Rows         int     `json:"rows"`
	SlotWidth    float64 `json:"slotWidth"`
	SlotHeight   float64 `json:"slotHeight"`
	BoardOriginX float64 `json:"boardOriginX"`
	BoardOriginY float64 `json:"boardOriginY"`
}

func (g Geometry) Validate() error {
	if g.Columns < 1 || g.Rows < 1 {
		return fmt.Errorf("%w: %dx%d", domain.ErrInvalidDimensions, g.Columns, g.Rows)
	}
	if !(g.SlotWidth > 0) || !(g.SlotHeight > 0) {
		return fmt.Errorf("%w: slot %.1fx%.1f", ErrInvalidGeometry, g.SlotWidth, g.SlotHeight)
	}
	return nil
}

func (g Geometry) Width() float64 {
	return float64(g.Columns) * g.SlotWidth
}

func (g Geometry) Height() float64 {
	return float64(g.Rows) * g.SlotHeight
}

// LandingSource is anything that knows where the next chip in a column lands.
type LandingSource interface {
	LandingRow(col int) (int, error)
}

// Mapper turns pixel positions into columns and rows into pixel offsets.
// It holds no state beyond the geometry.
type Mapper struct {
	geo Geometry
}

func NewMapper(g Geometry) (*Mapper, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Mapper{geo: g}, nil
}

func (m *Mapper) Geometry() Geometry {
	return m.geo
}

// ResolveColumn clamps x to the board before mapping, so a drag that leaves
// the board resolves to the nearest edge column.
func (m *Mapper) ResolveColumn(x float64) int {
	left := m.geo.BoardOriginX
	if math.IsNaN(x) || x <= left {
		return 0
	}
	if x >= left+m.geo.Width() {
		return m.geo.Columns - 1
	}
	col := int(math.Floor((x - left) / m.geo.SlotWidth))
	return m.clampColumn(col)
}

func (m *Mapper) ColumnCenter(col int) float64 {
	col = m.clampColumn(col)
	return m.geo.BoardOriginX + (float64(col)+0.5)*m.geo.SlotWidth
}

// ClampX keeps a dragged chip between the first and last column centres.
func (m *Mapper) ClampX(x float64) float64 {
	lo := m.ColumnCenter(0)
	hi := m.ColumnCenter(m.geo.Columns - 1)
	if math.IsNaN(x) || x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// RowCenterY is the screen y of a row's centre. Row 0 sits at the bottom.
func (m *Mapper) RowCenterY(row int) float64 {
	fromTop := m.geo.Rows - 1 - row
	return m.geo.BoardOriginY + (float64(fromTop)+0.5)*m.geo.SlotHeight
}

// FallDistance is how far a chip released above the top row travels:
// the empty rows above the landing row times the row height.
func (m *Mapper) FallDistance(col int, board LandingSource) (float64, error) {
	row, err := board.LandingRow(col)
	if err != nil {
		return 0, err
	}
	return m.FallDistanceToRow(row), nil
}

func (m *Mapper) FallDistanceToRow(row int) float64 {
	empty := m.geo.Rows - 1 - row
	if empty < 0 {
		empty = 0
	}
	return float64(empty) * m.geo.SlotHeight
}

func (m *Mapper) clampColumn(col int) int {
	if col < 0 {
		return 0
	}
	if col >= m.geo.Columns {
		return m.geo.Columns - 1
	}
	return col
}
