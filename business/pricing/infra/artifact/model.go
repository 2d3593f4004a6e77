// Package artifact loads and evaluates externally trained scoring artifacts.
//
// An artifact is a JSON document produced by the training pipeline:
//
//	{
//	  "kind": "forest",
//	  "version": "2026-01-15",
//	  "feature_order": ["avg_price", "min_price", "max_price", "inventory", "demand"],
//	  "forest": {"trees": [{"nodes": [...]}]}
//	}
//
// Linear artifacts carry "linear": {"intercept": x, "coefficients": [...]}.
package artifact

import (
	"fmt"
	"math"
	"slices"

	"github.com/fd1az/smart-pricing/business/pricing/domain"
)

// Kind is the model family of an artifact.
type Kind string

const (
	KindLinear Kind = "linear"
	KindForest Kind = "forest"
)

// maxTreeDepth bounds a single tree walk so a cyclic node table cannot hang scoring.
const maxTreeDepth = 1024

// Artifact is an immutable, validated scoring artifact.
type Artifact struct {
	Kind         Kind         `json:"kind"`
	Version      string       `json:"version"`
	FeatureOrder []string     `json:"feature_order"`
	Linear       *LinearModel `json:"linear,omitempty"`
	Forest       *ForestModel `json:"forest,omitempty"`
}

// LinearModel is y = intercept + sum(coefficients[i] * x[i]).
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// ForestModel averages the predictions of its trees.
type ForestModel struct {
	Trees []Tree `json:"trees"`
}

// Tree is a flattened regression tree; node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split (x[Feature] <= Threshold goes Left) or a leaf.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
}

// Validate checks the artifact's structure against the feature contract.
func (a *Artifact) Validate() error {
	if !slices.Equal(a.FeatureOrder, domain.FeatureNames) {
		return fmt.Errorf("feature_order %v does not match %v", a.FeatureOrder, domain.FeatureNames)
	}

	n := len(domain.FeatureNames)
	switch a.Kind {
	case KindLinear:
		if a.Linear == nil {
			return fmt.Errorf("linear artifact without linear model")
		}
		if len(a.Linear.Coefficients) != n {
			return fmt.Errorf("linear model has %d coefficients, want %d", len(a.Linear.Coefficients), n)
		}
	case KindForest:
		if a.Forest == nil || len(a.Forest.Trees) == 0 {
			return fmt.Errorf("forest artifact without trees")
		}
		for i, tree := range a.Forest.Trees {
			if err := tree.validate(n); err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
		}
	default:
		return fmt.Errorf("unknown artifact kind %q", a.Kind)
	}
	return nil
}

func (t Tree) validate(features int) error {
	if len(t.Nodes) == 0 {
		return fmt.Errorf("no nodes")
	}
	for i, node := range t.Nodes {
		if node.Leaf {
			continue
		}
		if node.Feature < 0 || node.Feature >= features {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.Feature)
		}
		if node.Left <= i || node.Left >= len(t.Nodes) || node.Right <= i || node.Right >= len(t.Nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

// Predict evaluates the artifact on x, which must follow FeatureOrder.
func (a *Artifact) Predict(x []float64) (float64, error) {
	if len(x) != len(a.FeatureOrder) {
		return 0, fmt.Errorf("got %d features, want %d", len(x), len(a.FeatureOrder))
	}

	var y float64
	switch a.Kind {
	case KindLinear:
		y = a.Linear.predict(x)
	case KindForest:
		var err error
		if y, err = a.Forest.predict(x); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("unknown artifact kind %q", a.Kind)
	}

	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("non-finite prediction %v", y)
	}
	return y, nil
}

func (m *LinearModel) predict(x []float64) float64 {
	y := m.Intercept
	for i, c := range m.Coefficients {
		y += c * x[i]
	}
	return y
}

func (m *ForestModel) predict(x []float64) (float64, error) {
	var sum float64
	for i, tree := range m.Trees {
		v, err := tree.predict(x)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return sum / float64(len(m.Trees)), nil
}

func (t Tree) predict(x []float64) (float64, error) {
	idx := 0
	for range maxTreeDepth {
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		node := t.Nodes[idx]
		if node.Leaf {
			return node.Value, nil
		}
		if node.Feature < 0 || node.Feature >= len(x) {
			return 0, fmt.Errorf("feature index %d out of range", node.Feature)
		}
		if x[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
	return 0, fmt.Errorf("tree deeper than %d", maxTreeDepth)
}
