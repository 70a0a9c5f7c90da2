package board

import "fmt"

// NextZOrder returns a z-order value in front of every existing placemat.
// For an empty board it returns 0.
func (b *Board) NextZOrder() int {
	if len(b.mats) == 0 {
		return 0
	}
	maxZ := 0
	first := true
	for _, p := range b.mats {
		if first || p.ZOrder > maxZ {
			maxZ = p.ZOrder
			first = false
		}
	}
	return maxZ + 1
}

// NormalizeZOrder renumbers all placemats to dense values 0..n-1 while
// preserving their relative stacking order. Placemats that currently share
// a z-order value are ordered by insertion sequence. After normalization
// z-order is guaranteed to be a total order, so [Board.Validate] will not
// report collisions.
func (b *Board) NormalizeZOrder() {
	for i, p := range b.Placemats() {
		p.ZOrder = i
	}
}

// BringToFront moves the placemat in front of all others and renumbers the
// stack. Returns ErrUnknownElement if no such element exists, or
// ErrNotAPlacemat if the ID names a node.
func (b *Board) BringToFront(id ElementID) error {
	p, err := b.placemat(id)
	if err != nil {
		return err
	}
	p.ZOrder = b.NextZOrder()
	b.NormalizeZOrder()
	return nil
}

// SendToBack moves the placemat behind all others and renumbers the stack.
// Returns ErrUnknownElement if no such element exists, or ErrNotAPlacemat
// if the ID names a node.
func (b *Board) SendToBack(id ElementID) error {
	p, err := b.placemat(id)
	if err != nil {
		return err
	}
	minZ := p.ZOrder
	for _, other := range b.mats {
		if other.ZOrder < minZ {
			minZ = other.ZOrder
		}
	}
	p.ZOrder = minZ - 1
	b.NormalizeZOrder()
	return nil
}

// SetZOrder places the placemat at stacking position z, shifting placemats
// at or in front of that position one step forward, then renumbers the
// stack. Returns ErrUnknownElement if no such element exists, or
// ErrNotAPlacemat if the ID names a node.
func (b *Board) SetZOrder(id ElementID, z int) error {
	p, err := b.placemat(id)
	if err != nil {
		return err
	}
	for _, other := range b.mats {
		if other != p && other.ZOrder >= z {
			other.ZOrder++
		}
	}
	p.ZOrder = z
	b.NormalizeZOrder()
	return nil
}

// placemat resolves an ID to a placemat, distinguishing missing elements
// from elements of the wrong kind.
func (b *Board) placemat(id ElementID) (*Placemat, error) {
	if p, ok := b.mats[id]; ok {
		return p, nil
	}
	if _, ok := b.nodes[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrNotAPlacemat, id)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownElement, id)
}
