package world

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/RamadhanAdam/pathfinding-robot-sim/internal/model"
)

// DirtField layers mutable per-cell dirt amounts on an immutable Grid.
// Amounts never go negative; collecting an already-clean cell yields zero.
type DirtField struct {
	grid    *Grid
	amounts map[model.Cell]int
	initial int
	cleaned int
}

func NewDirtField(grid *Grid) *DirtField {
	return &DirtField{
		grid:    grid,
		amounts: make(map[model.Cell]int),
	}
}

// Set places dirt deterministically, for tests and fixed layouts. The
// charger cell stays clean.
func (d *DirtField) Set(c model.Cell, amount int) error {
	if err := d.grid.CheckCell(c); err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("dirt amount must be >= 0, got %d", amount)
	}
	if c == d.grid.Charger() {
		return nil
	}
	prev := d.amounts[c]
	if prev == 0 && amount > 0 {
		d.initial++
	}
	if prev > 0 && amount == 0 {
		d.initial--
	}
	d.amounts[c] = amount
	if amount == 0 {
		delete(d.amounts, c)
	}
	return nil
}

// Scatter places one unit of dirt on count distinct random cells, skipping
// the charger. A fresh field with the same rng state scatters identically.
func (d *DirtField) Scatter(rng *rand.Rand, count int) {
	candidates := d.candidates()
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if count > len(candidates) {
		count = len(candidates)
	}
	for _, c := range candidates[:count] {
		if d.amounts[c] == 0 {
			d.initial++
		}
		d.amounts[c] = 1
	}
}

// ScatterDensity places dirt on each non-charger cell independently with
// the given probability, matching the original per-cell placement model.
func (d *DirtField) ScatterDensity(rng *rand.Rand, density float64) {
	if density < 0 {
		density = 0
	}
	if density > 1 {
		density = 1
	}
	for _, c := range d.candidates() {
		if rng.Float64() < density {
			if d.amounts[c] == 0 {
				d.initial++
			}
			d.amounts[c] = 1
		}
	}
}

func (d *DirtField) candidates() []model.Cell {
	cells := d.grid.Cells()
	out := make([]model.Cell, 0, len(cells)-1)
	for _, c := range cells {
		if c != d.grid.Charger() {
			out = append(out, c)
		}
	}
	return out
}

// Collect returns and zeroes the dirt at c. A second collect at the same
// cell returns zero, so nothing is double counted.
func (d *DirtField) Collect(c model.Cell) int {
	amount := d.amounts[c]
	if amount == 0 {
		return 0
	}
	delete(d.amounts, c)
	d.cleaned++
	return amount
}

func (d *DirtField) DirtAt(c model.Cell) int {
	return d.amounts[c]
}

// DirtyCells returns the remaining dirty cells in row-major order.
func (d *DirtField) DirtyCells() []model.Cell {
	out := make([]model.Cell, 0, len(d.amounts))
	for c := range d.amounts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (d *DirtField) TotalRemaining() int {
	total := 0
	for _, amount := range d.amounts {
		total += amount
	}
	return total
}

// InitialDirty is the number of cells that ever held dirt this episode.
func (d *DirtField) InitialDirty() int {
	return d.initial
}

func (d *DirtField) IsFullyClean() bool {
	return len(d.amounts) == 0
}

// CoveragePct is the percentage of initially-dirty cells cleaned so far.
// A field that never held dirt counts as fully covered.
func (d *DirtField) CoveragePct() float64 {
	if d.initial == 0 {
		return 100
	}
	return float64(d.cleaned) / float64(d.initial) * 100
}
