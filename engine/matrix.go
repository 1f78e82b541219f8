package engine

import (
	"fmt"
	"strings"
)

// Matrix is a tagged structured-matrix variant. Every variant materializes
// to a full dense matrix via ToDense and must agree entry-for-entry with
// the dense representation; the variants differ only in storage.
type Matrix interface {
	// Shape returns (rows, cols).
	Shape() (int, int)
	// At returns the entry at (i, j). It panics on out-of-range indices,
	// matching the convention of slice indexing.
	At(i, j int) float64
	// ToDense materializes the full matrix.
	ToDense() *Dense
	// DiagonalValues returns a copy of the main diagonal.
	DiagonalValues() []float64
	// Render returns a fixed-format text rendering used by snapshot tests.
	Render() string
}

var (
	_ Matrix = (*Dense)(nil)
	_ Matrix = (*Diagonal)(nil)
)

// Dense is a row-major dense matrix.
type Dense struct {
	rows, cols int
	data       []float64
}

// NewDenseMatrix allocates a zeroed rows x cols dense matrix.
func NewDenseMatrix(rows, cols int) *Dense {
	return &Dense{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

func (d *Dense) Shape() (int, int) { return d.rows, d.cols }

func (d *Dense) At(i, j int) float64 {
	d.check(i, j)
	return d.data[i*d.cols+j]
}

func (d *Dense) set(i, j int, v float64) {
	d.data[i*d.cols+j] = v
}

func (d *Dense) check(i, j int) {
	if i < 0 || i >= d.rows || j < 0 || j >= d.cols {
		panic(fmt.Sprintf("engine: index (%d,%d) out of range for %dx%d matrix",
			i, j, d.rows, d.cols))
	}
}

// ToDense returns the receiver; a dense matrix is already materialized.
func (d *Dense) ToDense() *Dense { return d }

func (d *Dense) DiagonalValues() []float64 {
	n := d.rows
	if d.cols < n {
		n = d.cols
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = d.data[i*d.cols+i]
	}
	return out
}

// Values returns a copy of the row-major backing data.
func (d *Dense) Values() []float64 {
	out := make([]float64, len(d.data))
	copy(out, d.data)
	return out
}

func (d *Dense) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dense %dx%d\n", d.rows, d.cols)
	for i := 0; i < d.rows; i++ {
		for j := 0; j < d.cols; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%.6f", d.data[i*d.cols+j])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Diagonal stores only the main diagonal of a square matrix; off-diagonal
// entries are implicitly zero.
type Diagonal struct {
	diag []float64
}

// NewDiagonalMatrix builds a diagonal matrix from a copy of diag.
func NewDiagonalMatrix(diag []float64) *Diagonal {
	d := make([]float64, len(diag))
	copy(d, diag)
	return &Diagonal{diag: d}
}

func (d *Diagonal) Shape() (int, int) { return len(d.diag), len(d.diag) }

func (d *Diagonal) At(i, j int) float64 {
	n := len(d.diag)
	if i < 0 || i >= n || j < 0 || j >= n {
		panic(fmt.Sprintf("engine: index (%d,%d) out of range for %dx%d matrix", i, j, n, n))
	}
	if i != j {
		return 0
	}
	return d.diag[i]
}

func (d *Diagonal) ToDense() *Dense {
	n := len(d.diag)
	out := NewDenseMatrix(n, n)
	for i, v := range d.diag {
		out.set(i, i, v)
	}
	return out
}

func (d *Diagonal) DiagonalValues() []float64 {
	out := make([]float64, len(d.diag))
	copy(out, d.diag)
	return out
}

func (d *Diagonal) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "diagonal n=%d\n", len(d.diag))
	for i, v := range d.diag {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.6f", v)
	}
	b.WriteByte('\n')
	return b.String()
}
