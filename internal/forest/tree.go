package forest

import (
	"math"
	"slices"
)

// leaf marks a node without children
const leaf = -1

// minGain is the smallest squared-error reduction worth a split
const minGain = 1e-12

type node struct {
	feature   int
	threshold float64
	left      int32
	right     int32
	value     float64 // mean label of the rows that reached this node
}

// Tree is a CART regression tree split on squared error.
type Tree struct {
	nodes []node
}

// treeParams bounds tree growth
type treeParams struct {
	maxDepth        int // 0 for unlimited
	minSamplesSplit int
}

// builder grows one tree; importances accumulates weighted impurity decrease per feature
type builder struct {
	x           [][]float64
	y           []float64
	params      treeParams
	nodes       []node
	importances []float64
	order       []int // scratch for per-feature sorting
}

// fitTree grows a tree over the rows listed in idx. Duplicate indices are
// allowed and count as repeated samples.
func fitTree(x [][]float64, y []float64, idx []int, params treeParams) (*Tree, []float64) {
	nFeatures := len(x[0])
	b := &builder{
		x:           x,
		y:           y,
		params:      params,
		importances: make([]float64, nFeatures),
		order:       make([]int, len(idx)),
	}
	b.grow(slices.Clone(idx), 0)
	return &Tree{nodes: b.nodes}, b.importances
}

// grow appends the subtree for idx and returns its node index
func (b *builder) grow(idx []int, depth int) int32 {
	n := len(idx)
	sum, sumSq := 0.0, 0.0
	for _, i := range idx {
		sum += b.y[i]
		sumSq += b.y[i] * b.y[i]
	}
	mean := sum / float64(n)
	sse := sumSq - sum*mean

	id := int32(len(b.nodes)) //nolint:gosec // node count fits easily
	b.nodes = append(b.nodes, node{feature: leaf, left: leaf, right: leaf, value: mean})

	if n < b.params.minSamplesSplit || sse <= minGain {
		return id
	}
	if b.params.maxDepth > 0 && depth >= b.params.maxDepth {
		return id
	}

	feature, threshold, childSSE, ok := b.bestSplit(idx, sum, sumSq)
	if !ok || sse-childSSE <= minGain {
		return id
	}

	left := make([]int, 0, n)
	right := make([]int, 0, n)
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	if len(left) == 0 || len(right) == 0 {
		return id
	}

	b.importances[feature] += sse - childSSE

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)

	b.nodes[id].feature = feature
	b.nodes[id].threshold = threshold
	b.nodes[id].left = l
	b.nodes[id].right = r
	return id
}

// bestSplit scans every feature for the threshold with the lowest summed
// child squared error. Thresholds sit halfway between adjacent distinct values.
func (b *builder) bestSplit(idx []int, sum, sumSq float64) (feature int, threshold, bestSSE float64, ok bool) {
	n := len(idx)
	order := b.order[:n]
	bestSSE = math.Inf(1)

	for f := range b.importances {
		copy(order, idx)
		slices.SortFunc(order, func(a, c int) int {
			switch va, vc := b.x[a][f], b.x[c][f]; {
			case va < vc:
				return -1
			case va > vc:
				return 1
			default:
				return 0
			}
		})

		if b.x[order[0]][f] == b.x[order[n-1]][f] {
			continue
		}

		leftSum, leftSq := 0.0, 0.0
		for k := 0; k < n-1; k++ {
			yi := b.y[order[k]]
			leftSum += yi
			leftSq += yi * yi

			v, next := b.x[order[k]][f], b.x[order[k+1]][f]
			if v == next {
				continue
			}

			nl := float64(k + 1)
			nr := float64(n - k - 1)
			rightSum := sum - leftSum
			rightSq := sumSq - leftSq
			childSSE := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)

			if childSSE < bestSSE {
				bestSSE = childSSE
				feature = f
				threshold = v + (next-v)/2
				if threshold >= next {
					threshold = v
				}
				ok = true
			}
		}
	}

	return feature, threshold, bestSSE, ok
}

// Predict returns the leaf mean for x.
func (t *Tree) Predict(x []float64) float64 {
	i := int32(0)
	for {
		nd := &t.nodes[i]
		if nd.left == leaf {
			return nd.value
		}
		if x[nd.feature] <= nd.threshold {
			i = nd.left
		} else {
			i = nd.right
		}
	}
}

// NodeCount returns the number of nodes in the tree.
func (t *Tree) NodeCount() int {
	return len(t.nodes)
}

// Depth returns the length of the longest root to leaf path.
func (t *Tree) Depth() int {
	var walk func(i int32) int
	walk = func(i int32) int {
		nd := &t.nodes[i]
		if nd.left == leaf {
			return 0
		}
		return 1 + max(walk(nd.left), walk(nd.right))
	}
	return walk(0)
}
