package domain

import "fmt"

// Board is the chip grid. cells[row][col], row 0 is the bottom row.
// heights[col] is the number of chips in a column, which is also the
// landing row of the next chip dropped there.
type Board struct {
	dims    Dimensions
	cells   [][]PlayerID
	heights []int
}

func NewBoard(dims Dimensions) (*Board, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	cells := make([][]PlayerID, dims.Rows)
	for i := range cells {
		cells[i] = make([]PlayerID, dims.Columns)
	}
	return &Board{
		dims:    dims,
		cells:   cells,
		heights: make([]int, dims.Columns),
	}, nil
}

// NewBoardFromCells builds a board from rows listed bottom first.
// It rejects grids with floating chips.
func NewBoardFromCells(rows [][]PlayerID) (*Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	b, err := NewBoard(Dimensions{Columns: len(rows[0]), Rows: len(rows)})
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != b.dims.Columns {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrInvalidDimensions, r, len(row))
		}
		for c, cell := range row {
			if cell != Empty && cell != Player1 && cell != Player2 {
				return nil, fmt.Errorf("%w: cell %s holds %d", ErrInvalidBoard, Coord{r, c}, int(cell))
			}
			if cell == Empty {
				continue
			}
			if b.heights[c] != r {
				return nil, fmt.Errorf("%w: chip at %s floats", ErrInvalidBoard, Coord{r, c})
			}
			b.cells[r][c] = cell
			b.heights[c]++
		}
	}
	return b, nil
}

func (b *Board) Dimensions() Dimensions {
	return b.dims
}

func (b *Board) Columns() int {
	return b.dims.Columns
}

func (b *Board) Rows() int {
	return b.dims.Rows
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.dims.Rows && col >= 0 && col < b.dims.Columns
}

func (b *Board) IsValidColumn(col int) bool {
	return col >= 0 && col < b.dims.Columns
}

// CellAt panics on coordinates outside the grid, like a slice index would.
func (b *Board) CellAt(row, col int) PlayerID {
	if !b.InBounds(row, col) {
		panic(fmt.Sprintf("domain: cell %s outside %dx%d board", Coord{row, col}, b.dims.Columns, b.dims.Rows))
	}
	return b.cells[row][col]
}

// Height is the number of chips stacked in a column.
func (b *Board) Height(col int) int {
	return b.heights[col]
}

// LandingRow is where a chip dropped into col would settle.
func (b *Board) LandingRow(col int) (int, error) {
	if !b.IsValidColumn(col) {
		return -1, ErrInvalidColumn
	}
	if b.heights[col] >= b.dims.Rows {
		return -1, ErrColumnFull
	}
	return b.heights[col], nil
}

func (b *Board) IsColumnFull(col int) bool {
	return b.heights[col] >= b.dims.Rows
}

func (b *Board) IsFull() bool {
	for c := 0; c < b.dims.Columns; c++ {
		if !b.IsColumnFull(c) {
			return false
		}
	}
	return true
}

// DropDisk lets a chip fall into col and returns the row it settled on.
// On error the board is left untouched.
func (b *Board) DropDisk(col int, player PlayerID) (int, error) {
	row, err := b.LandingRow(col)
	if err != nil {
		return -1, err
	}
	b.cells[row][col] = player
	b.heights[col]++
	return row, nil
}

// this creates a deep copy of the board
func (b *Board) Clone() *Board {
	cells := make([][]PlayerID, len(b.cells))
	for i := range b.cells {
		cells[i] = make([]PlayerID, len(b.cells[i]))
		copy(cells[i], b.cells[i])
	}
	heights := make([]int, len(b.heights))
	copy(heights, b.heights)
	return &Board{dims: b.dims, cells: cells, heights: heights}
}

func (b *Board) ValidMoves() []int {
	moves := make([]int, 0, b.dims.Columns)
	for c := 0; c < b.dims.Columns; c++ {
		if !b.IsColumnFull(c) {
			moves = append(moves, c)
		}
	}
	return moves
}

// SimulateMove drops a chip on a copy and leaves the receiver alone.
func (b *Board) SimulateMove(col int, player PlayerID) (*Board, int, error) {
	next := b.Clone()
	row, err := next.DropDisk(col, player)
	if err != nil {
		return nil, -1, err
	}
	return next, row, nil
}

// CountDiskInDirection counts same-player chips starting next to (row, col)
// and walking by (deltaRow, deltaCol). The starting cell is not counted.
func (b *Board) CountDiskInDirection(row, col, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, col+deltaCol
	for b.InBounds(r, c) && b.cells[r][c] == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}

// Snapshot returns the grid as plain ints, bottom row first, for JSON and storage.
func (b *Board) Snapshot() [][]int {
	out := make([][]int, len(b.cells))
	for r := range b.cells {
		out[r] = make([]int, len(b.cells[r]))
		for c, cell := range b.cells[r] {
			out[r][c] = int(cell)
		}
	}
	return out
}

// BoardFromSnapshot is the inverse of Snapshot.
func BoardFromSnapshot(cells [][]int) (*Board, error) {
	rows := make([][]PlayerID, len(cells))
	for r := range cells {
		rows[r] = make([]PlayerID, len(cells[r]))
		for c, v := range cells[r] {
			rows[r][c] = PlayerID(v)
		}
	}
	return NewBoardFromCells(rows)
}

// CheckGravity reports the first chip that sits above an empty cell.
func (b *Board) CheckGravity() error {
	for c := 0; c < b.dims.Columns; c++ {
		seenEmpty := false
		for r := 0; r < b.dims.Rows; r++ {
			if b.cells[r][c] == Empty {
				seenEmpty = true
				continue
			}
			if seenEmpty {
				return fmt.Errorf("%w: chip at %s floats", ErrInvalidBoard, Coord{r, c})
			}
		}
	}
	return nil
}

func (b *Board) Equal(other *Board) bool {
	if other == nil || b.dims != other.dims {
		return false
	}
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}
