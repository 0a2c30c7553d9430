package geometry

// BoundingBlock returns the tightest block covering elems and reports
// whether the elements tile it exactly. A contiguous selection can be
// written as a single min:max range; anything else has to stay an
// explicit union.
func BoundingBlock(elems []Triple) (LatticeSpec, bool) {
	if len(elems) == 0 {
		return LatticeSpec{}, false
	}
	uniq := make(map[Triple]struct{}, len(elems))
	first := elems[0]
	spec := LatticeSpec{
		I: Extent{Min: first[0], Max: first[0]},
		J: Extent{Min: first[1], Max: first[1]},
		K: Extent{Min: first[2], Max: first[2]},
	}
	for _, e := range elems {
		uniq[e] = struct{}{}
		spec.I = spec.I.stretch(e[0])
		spec.J = spec.J.stretch(e[1])
		spec.K = spec.K.stretch(e[2])
	}
	return spec, spec.Count() == len(uniq)
}

func (e Extent) stretch(v int) Extent {
	if v < e.Min {
		e.Min = v
	}
	if v > e.Max {
		e.Max = v
	}
	return e
}

// HexDirection identifies one of the six neighbours of a hexagonal
// lattice element.
type HexDirection int

const (
	HexE HexDirection = iota
	HexW
	HexNE
	HexNW
	HexSE
	HexSW
)

// String returns the compass name used in selector help text.
func (d HexDirection) String() string {
	switch d {
	case HexE:
		return "E"
	case HexW:
		return "W"
	case HexNE:
		return "NE"
	case HexNW:
		return "NW"
	case HexSE:
		return "SE"
	case HexSW:
		return "SW"
	default:
		return "?"
	}
}

// HexNeighbor returns the element adjacent to t in the given direction.
// Coordinates follow the offset-row layout the selector draws: odd j
// rows shift half a cell toward +i, and north is +j. An unknown
// direction returns t unchanged.
func HexNeighbor(t Triple, d HexDirection) Triple {
	i, j, k := t[0], t[1], t[2]
	odd := j&1 != 0
	switch d {
	case HexE:
		return Triple{i + 1, j, k}
	case HexW:
		return Triple{i - 1, j, k}
	case HexNE:
		if odd {
			return Triple{i + 1, j + 1, k}
		}
		return Triple{i, j + 1, k}
	case HexNW:
		if odd {
			return Triple{i, j + 1, k}
		}
		return Triple{i - 1, j + 1, k}
	case HexSE:
		if odd {
			return Triple{i + 1, j - 1, k}
		}
		return Triple{i, j - 1, k}
	case HexSW:
		if odd {
			return Triple{i, j - 1, k}
		}
		return Triple{i - 1, j - 1, k}
	default:
		return t
	}
}
