package geometry

import "github.com/conor722/go-ray-tracer/pkg/core"

// OctreeConfig controls when octree subdivision stops
type OctreeConfig struct {
	MaxTriangles int // a node holding this many triangles or fewer becomes a leaf
	MaxDepth     int // nodes at this depth become leaves regardless of count
}

// DefaultOctreeConfig returns the subdivision limits used when the caller
// does not supply its own
func DefaultOctreeConfig() OctreeConfig {
	return OctreeConfig{
		MaxTriangles: 8,
		MaxDepth:     10,
	}
}

// octreeNode is one cell of the spatial partition. Internal nodes hold up to
// 8 children covering equal octants of their bounds; leaves hold the indices
// of every triangle whose bounding box overlaps the cell.
type octreeNode struct {
	bounds    core.AABB
	triangles []int // leaf payload; nil on internal nodes
	children  [8]*octreeNode
	leaf      bool
}

// Octree partitions a store's triangles by spatial cell so a ray query can
// skip every subtree whose bounds it misses. It is built once from a
// finalized store and is read-only afterwards, so any number of rendering
// workers may query it concurrently.
type Octree struct {
	store  *Store
	config OctreeConfig
	root   *octreeNode
}

// OctreeStats summarizes the shape of a built octree
type OctreeStats struct {
	Nodes        int
	Leaves       int
	MaxDepth     int
	TriangleRefs int // triangle references across all leaves, counting duplicates
}

// NewOctree validates the store and builds an octree over its triangles.
// A store that fails validation aborts the build; no rendering must happen
// against it.
func NewOctree(store *Store, config OctreeConfig) (*Octree, error) {
	if err := store.Validate(); err != nil {
		return nil, err
	}

	defaults := DefaultOctreeConfig()
	if config.MaxTriangles <= 0 {
		config.MaxTriangles = defaults.MaxTriangles
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = defaults.MaxDepth
	}

	o := &Octree{store: store, config: config}

	triangles := make([]int, len(store.Triangles))
	triBounds := make([]core.AABB, len(store.Triangles))
	for i := range store.Triangles {
		triangles[i] = i
		triBounds[i] = store.TriangleBounds(i)
	}

	o.root = o.build(store.Bounds(), triangles, triBounds, 0)
	return o, nil
}

// build recursively subdivides a cell into 8 equal octants. A triangle is
// assigned to every octant its bounding box overlaps, so triangles that
// straddle a boundary appear in more than one child.
func (o *Octree) build(bounds core.AABB, triangles []int, triBounds []core.AABB, depth int) *octreeNode {
	node := &octreeNode{bounds: bounds}

	if len(triangles) <= o.config.MaxTriangles || depth >= o.config.MaxDepth {
		node.leaf = true
		node.triangles = triangles
		return node
	}

	var subsets [8][]int
	for i := 0; i < 8; i++ {
		octant := bounds.Octant(i)
		for _, t := range triangles {
			if triBounds[t].Overlaps(octant) {
				subsets[i] = append(subsets[i], t)
			}
		}
	}

	// When every occupied octant inherits the full triangle set, the
	// remaining triangles all straddle the center and no amount of further
	// splitting can separate them.
	occupied, full := 0, 0
	for i := range subsets {
		if len(subsets[i]) > 0 {
			occupied++
		}
		if len(subsets[i]) == len(triangles) {
			full++
		}
	}
	if occupied > 1 && full == occupied {
		node.leaf = true
		node.triangles = triangles
		return node
	}

	for i := 0; i < 8; i++ {
		if len(subsets[i]) == 0 {
			continue
		}
		node.children[i] = o.build(bounds.Octant(i), subsets[i], triBounds, depth+1)
	}
	return node
}

// Intersect returns the nearest triangle hit along the ray with t < tMax.
// The result is always identical to IntersectBruteForce on the same store;
// the octree only prunes subtrees whose bounds the ray cannot enter. A ray
// that misses the root bounds returns immediately.
func (o *Octree) Intersect(ray core.Ray, tMax float64) (Hit, bool) {
	return o.root.intersect(o.store, ray, tMax)
}

func (n *octreeNode) intersect(store *Store, ray core.Ray, tMax float64) (Hit, bool) {
	if !n.bounds.Hit(ray, 0, tMax) {
		return Hit{}, false
	}

	var closest Hit
	found := false

	if n.leaf {
		for _, t := range n.triangles {
			if hit, ok := store.IntersectTriangle(t, ray, tMax); ok {
				closest = hit
				tMax = hit.T
				found = true
			}
		}
		return closest, found
	}

	for _, child := range n.children {
		if child == nil {
			continue
		}
		if hit, ok := child.intersect(store, ray, tMax); ok {
			closest = hit
			tMax = hit.T
			found = true
		}
	}
	return closest, found
}

// Bounds returns the bounding box of the indexed scene
func (o *Octree) Bounds() core.AABB {
	return o.root.bounds
}

// Stats walks the tree and reports its node and reference counts
func (o *Octree) Stats() OctreeStats {
	var stats OctreeStats
	o.root.collectStats(&stats, 0)
	return stats
}

func (n *octreeNode) collectStats(stats *OctreeStats, depth int) {
	stats.Nodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if n.leaf {
		stats.Leaves++
		stats.TriangleRefs += len(n.triangles)
		return
	}

	for _, child := range n.children {
		if child != nil {
			child.collectStats(stats, depth+1)
		}
	}
}
