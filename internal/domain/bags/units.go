package bags

import (
	"fmt"
	"strconv"
)

// Unit enumerates the physical bag categories tracked by the inventory report.
type Unit int

const (
	SmallLavender Unit = iota
	LargeLavender
	SmallCarbon
	LargeCarbon
	LargeTalc

	unitCount
)

// Units lists every bag category in canonical order.
var Units = [unitCount]Unit{SmallLavender, LargeLavender, SmallCarbon, LargeCarbon, LargeTalc}

var unitKeys = [unitCount]string{"8_lav", "20_lav", "8_carbon", "20_carbon", "20_talco"}

var unitLabels = [unitCount]string{
	"8kg lavanda",
	"20kg lavanda",
	"8kg carbón",
	"20kg carbón",
	"20kg talco",
}

// Key returns the suffix used by the report wire format, e.g. "8_lav".
func (u Unit) Key() string {
	if u < 0 || u >= unitCount {
		return fmt.Sprintf("unit(%d)", int(u))
	}
	return unitKeys[u]
}

// Label is the human-friendly bag name used in chat summaries.
func (u Unit) Label() string {
	if u < 0 || u >= unitCount {
		return u.Key()
	}
	return unitLabels[u]
}

func (u Unit) String() string { return u.Key() }

// Small reports whether the unit belongs to the 8kg bag class.
func (u Unit) Small() bool {
	return u == SmallLavender || u == SmallCarbon
}

// Counts holds one integer per bag category, indexed by Unit.
type Counts [unitCount]int

// Add returns the element-wise sum of c and o.
func (c Counts) Add(o Counts) Counts {
	for i := range c {
		c[i] += o[i]
	}
	return c
}

// Sub returns the element-wise difference c - o.
func (c Counts) Sub(o Counts) Counts {
	for i := range c {
		c[i] -= o[i]
	}
	return c
}

// Scale multiplies every count by factor.
func (c Counts) Scale(factor int) Counts {
	for i := range c {
		c[i] *= factor
	}
	return c
}

// AbsSum is the total packaging movement regardless of direction.
func (c Counts) AbsSum() int {
	total := 0
	for _, v := range c {
		if v < 0 {
			v = -v
		}
		total += v
	}
	return total
}

// SmallTotal sums the 8kg class (lavender and carbon).
func (c Counts) SmallTotal() int { return c.classTotal(true) }

// LargeTotal sums the 20kg class (lavender, carbon and talc).
func (c Counts) LargeTotal() int { return c.classTotal(false) }

func (c Counts) classTotal(small bool) int {
	total := 0
	for _, u := range Units {
		if u.Small() == small {
			total += c[u]
		}
	}
	return total
}

// MarshalJSON renders the counts as an object keyed by unit, in canonical order.
func (c Counts) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 96)
	buf = append(buf, '{')
	for i, u := range Units {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendQuote(buf, u.Key())
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(c[u]), 10)
	}
	buf = append(buf, '}')
	return buf, nil
}
