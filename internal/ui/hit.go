package ui

// Region is a clickable rectangle.
type Region struct {
	X, Y, W, H int
	Action     func()
}

func (r Region) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// HitMap collects the clickable regions of one frame. A region added later
// sits on top of earlier ones, so a link drawn inside a card wins over the
// card and the card's own action does not run.
type HitMap struct {
	regions []Region
}

// Reset drops every region; call it before each draw.
func (h *HitMap) Reset() {
	h.regions = h.regions[:0]
}

func (h *HitMap) Add(x, y, w, hgt int, action func()) {
	if w <= 0 || hgt <= 0 || action == nil {
		return
	}
	h.regions = append(h.regions, Region{X: x, Y: y, W: w, H: hgt, Action: action})
}

// Click runs the topmost action under (x, y) and reports whether there
// was one.
func (h *HitMap) Click(x, y int) bool {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].contains(x, y) {
			h.regions[i].Action()
			return true
		}
	}
	return false
}
