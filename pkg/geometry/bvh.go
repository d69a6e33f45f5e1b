package geometry

import (
	"github.com/df07/raytrace-testing/pkg/core"
	"github.com/df07/raytrace-testing/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy
type BVHNode struct {
	BoundingBox core.AABB
	Left        *BVHNode
	Right       *BVHNode
	Shapes      []Shape // Shapes stored in leaf nodes (nil for internal nodes)
}

// BVH represents a Bounding Volume Hierarchy for fast ray-object intersection
type BVH struct {
	Root   *BVHNode
	Center core.Vec3 // Finite scene center, used by infinite lights
	Radius float64   // World radius, used by infinite lights
}

// Leaf threshold: this many or fewer shapes are stored in a leaf node
const leafThreshold = 8

// NewBVH constructs a BVH from a slice of shapes
func NewBVH(shapes []Shape) *BVH {
	if len(shapes) == 0 {
		return &BVH{Radius: 0}
	}

	// Copy so concurrent builders never share a backing array
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	root := buildBVH(shapesCopy)
	center := root.BoundingBox.Center()

	return &BVH{
		Root:   root,
		Center: center,
		Radius: root.BoundingBox.Max.Subtract(center).Length(),
	}
}

// buildBVH recursively splits shapes at the midpoint of the longest axis
func buildBVH(shapes []Shape) *BVHNode {
	boundingBox := shapes[0].BoundingBox()
	for _, shape := range shapes[1:] {
		boundingBox = boundingBox.Union(shape.BoundingBox())
	}

	leaf := &BVHNode{BoundingBox: boundingBox, Shapes: shapes}
	if len(shapes) <= leafThreshold {
		return leaf
	}

	axis := boundingBox.LongestAxis()
	minVal, maxVal := boundingBox.Min.Axis(axis), boundingBox.Max.Axis(axis)
	if maxVal <= minVal {
		return leaf
	}
	splitPos := (minVal + maxVal) * 0.5

	var left, right []Shape
	for _, shape := range shapes {
		if shape.BoundingBox().Center().Axis(axis) < splitPos {
			left = append(left, shape)
		} else {
			right = append(right, shape)
		}
	}

	if len(left) == 0 || len(right) == 0 {
		return leaf
	}

	return &BVHNode{
		BoundingBox: boundingBox,
		Left:        buildBVH(left),
		Right:       buildBVH(right),
	}
}

// Hit returns the closest intersection between tMin and tMax
func (bvh *BVH) Hit(ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	if bvh.Root == nil {
		return nil, false
	}
	return bvh.hitNode(bvh.Root, ray, tMin, tMax)
}

func (bvh *BVH) hitNode(node *BVHNode, ray core.Ray, tMin, tMax float64) (*material.SurfaceInteraction, bool) {
	if !node.BoundingBox.Hit(ray, tMin, tMax) {
		return nil, false
	}

	var closest *material.SurfaceInteraction
	closestSoFar := tMax

	if node.Shapes != nil {
		for _, shape := range node.Shapes {
			if hit, ok := shape.Hit(ray, tMin, closestSoFar); ok {
				closest = hit
				closestSoFar = hit.T
			}
		}
		return closest, closest != nil
	}

	for _, child := range []*BVHNode{node.Left, node.Right} {
		if child == nil {
			continue
		}
		if hit, ok := bvh.hitNode(child, ray, tMin, closestSoFar); ok {
			closest = hit
			closestSoFar = hit.T
		}
	}
	return closest, closest != nil
}

// BoundingBox returns the overall bounding box of the BVH
func (bvh *BVH) BoundingBox() core.AABB {
	if bvh.Root == nil {
		return core.AABB{}
	}
	return bvh.Root.BoundingBox
}

// bvhStats contains statistics about the BVH structure
type bvhStats struct {
	totalNodes  int
	leafNodes   int
	maxDepth    int
	totalShapes int
}

// stats walks the tree and collects structure statistics
func (bvh *BVH) stats() bvhStats {
	var s bvhStats
	if bvh.Root != nil {
		collectStats(bvh.Root, 0, &s)
	}
	return s
}

func collectStats(node *BVHNode, depth int, s *bvhStats) {
	s.totalNodes++
	s.maxDepth = max(s.maxDepth, depth)

	if node.Shapes != nil {
		s.leafNodes++
		s.totalShapes += len(node.Shapes)
		return
	}
	if node.Left != nil {
		collectStats(node.Left, depth+1, s)
	}
	if node.Right != nil {
		collectStats(node.Right, depth+1, s)
	}
}
