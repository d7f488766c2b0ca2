package artifact

import (
	"fmt"
	"math"
)

// Node is one entry of a tree dump. Internal nodes route x < Threshold to
// Left and everything else to Right; NaN follows DefaultLeft.
type Node struct {
	Feature     int     `json:"feature"`
	Threshold   float64 `json:"threshold"`
	Left        int     `json:"left"`
	Right       int     `json:"right"`
	DefaultLeft bool    `json:"default_left"`
	Leaf        bool    `json:"leaf"`
	Value       float64 `json:"value"`
}

// Tree is a flat node list rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// TreeEnsemble is a boosted ensemble: the prediction is BaseScore plus the
// leaf value reached in every tree.
type TreeEnsemble struct {
	BaseScore  float64 `json:"base_score"`
	NumFeature int     `json:"num_feature"`
	Trees      []Tree  `json:"trees"`
}

func (e *TreeEnsemble) Kind() string {
	return KindTreeEnsemble
}

func (e *TreeEnsemble) NumFeatures() int {
	return e.NumFeature
}

// validate checks node references. Children must come after their parent,
// which also rules out cycles.
func (e *TreeEnsemble) validate(n int) error {
	if e.NumFeature == 0 {
		e.NumFeature = n
	}
	if len(e.Trees) == 0 {
		return fmt.Errorf("tree ensemble has no trees")
	}

	for t, tree := range e.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", t)
		}
		for i, node := range tree.Nodes {
			if node.Leaf {
				continue
			}
			if node.Feature < 0 || node.Feature >= n {
				return fmt.Errorf("tree %d node %d splits on feature %d, schema has %d", t, i, node.Feature, n)
			}
			for _, child := range []int{node.Left, node.Right} {
				if child <= i || child >= len(tree.Nodes) {
					return fmt.Errorf("tree %d node %d has invalid child %d", t, i, child)
				}
			}
		}
	}
	return nil
}

func (e *TreeEnsemble) Predict(row []float64) (float64, error) {
	if err := checkShape(row, e.NumFeature); err != nil {
		return 0, err
	}

	sum := e.BaseScore
	for _, tree := range e.Trees {
		sum += tree.leaf(row)
	}
	return sum, nil
}

func (t Tree) leaf(row []float64) float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.Leaf {
			return node.Value
		}
		x := row[node.Feature]
		switch {
		case math.IsNaN(x):
			if node.DefaultLeft {
				i = node.Left
			} else {
				i = node.Right
			}
		case x < node.Threshold:
			i = node.Left
		default:
			i = node.Right
		}
	}
}
