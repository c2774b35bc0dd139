package types

// An axis-aligned bounding box stored as {min, max}.
type BBox [2]Vec3

// Return an inverted box that any Union or Extend call will overwrite.
func EmptyBBox() BBox {
	return BBox{PosInf, NegInf}
}

// Return the smallest box enclosing the supplied points.
func BBoxFromPoints(points ...Vec3) BBox {
	b := EmptyBBox()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Grow the box so it includes point p.
func (b BBox) Extend(p Vec3) BBox {
	return BBox{MinVec3(b[0], p), MaxVec3(b[1], p)}
}

// Merge two boxes.
func (b BBox) Union(other BBox) BBox {
	return BBox{MinVec3(b[0], other[0]), MaxVec3(b[1], other[1])}
}

// Get the box side lengths.
func (b BBox) Extent() Vec3 {
	return b[1].Sub(b[0])
}

// Get the box center.
func (b BBox) Center() Vec3 {
	return b[0].Add(b[1]).Mul(0.5)
}

// Returns true if other lies entirely inside b.
func (b BBox) Contains(other BBox) bool {
	for axis := 0; axis < 3; axis++ {
		if other[0][axis] < b[0][axis] || other[1][axis] > b[1][axis] {
			return false
		}
	}
	return true
}

// Returns true if Union or Extend has never been called on an EmptyBBox.
func (b BBox) IsEmpty() bool {
	return b[0][0] > b[1][0] || b[0][1] > b[1][1] || b[0][2] > b[1][2]
}
