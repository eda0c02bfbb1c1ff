package model

import (
	"errors"
	"fmt"
)

// Tree is one regression tree stored as a flat node list, root at index 0
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// TreeNode is either a split on Feature or a leaf carrying Leaf
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      float64 `json:"leaf"`
	IsLeaf    bool    `json:"is_leaf"`
}

type ensemble struct {
	base  float64
	trees []Tree
}

func (e ensemble) score(x []float64) (float64, error) {
	sum := e.base
	for i, t := range e.trees {
		v, err := t.eval(x)
		if err != nil {
			return 0, fmt.Errorf("model: tree %d: %w", i, err)
		}
		sum += v
	}
	return sum, nil
}

// eval walks from the root; samples with x < threshold go left.
func (t Tree) eval(x []float64) (float64, error) {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := t.Nodes[idx]
		if node.IsLeaf {
			return node.Leaf, nil
		}
		if node.Feature < 0 || node.Feature >= len(x) {
			return 0, errors.New("feature index out of range")
		}
		if x[node.Feature] < node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, errors.New("invalid tree state")
		}
	}
	return 0, errors.New("tree contains a cycle")
}

func (t Tree) validate(features int) error {
	if len(t.Nodes) == 0 {
		return errors.New("empty tree")
	}
	for i, n := range t.Nodes {
		if n.IsLeaf {
			continue
		}
		if n.Feature < 0 || n.Feature >= features {
			return fmt.Errorf("node %d: feature index %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(t.Nodes) || n.Right <= i || n.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}
