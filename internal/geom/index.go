package geom

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// Index is an R-tree over the bounds of numbered geometries
type Index struct {
	rtree *rtreego.Rtree
	pad   float64
	size  int
}

// indexedBound wraps a bound for R-tree storage.
type indexedBound struct {
	id   int
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial interface.
func (b *indexedBound) Bounds() rtreego.Rect {
	return b.rect
}

// NewIndex creates an empty index. Every stored bound is grown by pad on
// each side, so a search also finds entries within pad of the query.
func NewIndex(pad float64) *Index {
	return &Index{
		// 2D, min=25 children, max=50 children
		rtree: rtreego.NewTree(2, 25, 50),
		pad:   pad,
	}
}

// Insert adds a bound under id
func (idx *Index) Insert(id int, b orb.Bound) {
	idx.rtree.Insert(&indexedBound{id: id, rect: rect(b.Pad(idx.pad))})
	idx.size++
}

// Len returns the number of stored entries
func (idx *Index) Len() int {
	return idx.size
}

// Search returns the ids whose padded bound intersects b, in ascending order
func (idx *Index) Search(b orb.Bound) []int {
	spatials := idx.rtree.SearchIntersect(rect(b))
	ids := make([]int, 0, len(spatials))
	for _, s := range spatials {
		ids = append(ids, s.(*indexedBound).id)
	}
	sort.Ints(ids)
	return ids
}

func rect(b orb.Bound) rtreego.Rect {
	point := rtreego.Point{b.Min[0], b.Min[1]}

	// R-tree requires non-zero dimensions
	const epsilon = 1e-6
	lengths := []float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]}
	for i := range lengths {
		if lengths[i] < epsilon {
			lengths[i] = epsilon
		}
	}

	r, _ := rtreego.NewRect(point, lengths)
	return r
}
