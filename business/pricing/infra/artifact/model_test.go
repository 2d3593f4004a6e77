package artifact

import (
	"math"
	"strings"
	"testing"

	"github.com/fd1az/smart-pricing/business/pricing/domain"
)

func linearArtifact(intercept float64, coefs ...float64) *Artifact {
	return &Artifact{
		Kind:         KindLinear,
		Version:      "test",
		FeatureOrder: append([]string(nil), domain.FeatureNames...),
		Linear:       &LinearModel{Intercept: intercept, Coefficients: coefs},
	}
}

// stumpForest splits on avg_price at 100: left leaf 90, right leaf 120.
func stumpForest() *Artifact {
	return &Artifact{
		Kind:         KindForest,
		Version:      "test",
		FeatureOrder: append([]string(nil), domain.FeatureNames...),
		Forest: &ForestModel{Trees: []Tree{
			{Nodes: []Node{
				{Feature: 0, Threshold: 100, Left: 1, Right: 2},
				{Leaf: true, Value: 90},
				{Leaf: true, Value: 120},
			}},
			{Nodes: []Node{{Leaf: true, Value: 100}}},
		}},
	}
}

func TestArtifact_Predict(t *testing.T) {
	tests := []struct {
		name string
		art  *Artifact
		x    []float64
		want float64
	}{
		{
			name: "linear",
			art:  linearArtifact(1, 1, 0, 0, 0.5, 10),
			x:    []float64{100, 90, 110, 4, 0.5},
			want: 1 + 100 + 2 + 5,
		},
		{
			name: "forest_left",
			art:  stumpForest(),
			x:    []float64{100, 0, 0, 0, 0},
			want: 95, // (90 + 100) / 2
		},
		{
			name: "forest_right",
			art:  stumpForest(),
			x:    []float64{100.01, 0, 0, 0, 0},
			want: 110, // (120 + 100) / 2
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.art.Validate(); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			got, err := tt.art.Predict(tt.x)
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Predict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArtifact_PredictErrors(t *testing.T) {
	tests := []struct {
		name string
		art  *Artifact
		x    []float64
	}{
		{
			name: "wrong_feature_count",
			art:  linearArtifact(0, 1, 1, 1, 1, 1),
			x:    []float64{1, 2},
		},
		{
			name: "non_finite_output",
			art:  linearArtifact(math.Inf(1), 0, 0, 0, 0, 0),
			x:    []float64{1, 1, 1, 1, 1},
		},
		{
			name: "dangling_child",
			art: &Artifact{
				Kind:         KindForest,
				FeatureOrder: domain.FeatureNames,
				Forest: &ForestModel{Trees: []Tree{{Nodes: []Node{
					{Feature: 0, Threshold: 1, Left: 7, Right: 8},
				}}}},
			},
			x: []float64{0, 0, 0, 0, 0},
		},
		{
			name: "cycle",
			art: &Artifact{
				Kind:         KindForest,
				FeatureOrder: domain.FeatureNames,
				Forest: &ForestModel{Trees: []Tree{{Nodes: []Node{
					{Feature: 0, Threshold: 1, Left: 0, Right: 0},
				}}}},
			},
			x: []float64{0, 0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.art.Predict(tt.x); err == nil {
				t.Error("Predict() error = nil, want error")
			}
		})
	}
}

func TestArtifact_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Artifact)
		wantErr string
	}{
		{name: "valid", mutate: func(a *Artifact) {}},
		{
			name:    "feature_order_swapped",
			mutate:  func(a *Artifact) { a.FeatureOrder[0], a.FeatureOrder[1] = a.FeatureOrder[1], a.FeatureOrder[0] },
			wantErr: "feature_order",
		},
		{
			name:    "missing_feature",
			mutate:  func(a *Artifact) { a.FeatureOrder = a.FeatureOrder[:4] },
			wantErr: "feature_order",
		},
		{
			name:    "unknown_kind",
			mutate:  func(a *Artifact) { a.Kind = "svm" },
			wantErr: "unknown artifact kind",
		},
		{
			name:    "short_coefficients",
			mutate:  func(a *Artifact) { a.Linear.Coefficients = a.Linear.Coefficients[:3] },
			wantErr: "coefficients",
		},
		{
			name:    "linear_kind_without_model",
			mutate:  func(a *Artifact) { a.Linear = nil },
			wantErr: "without linear model",
		},
		{
			name:    "forest_kind_without_trees",
			mutate:  func(a *Artifact) { a.Kind = KindForest },
			wantErr: "without trees",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := linearArtifact(0, 1, 2, 3, 4, 5)
			tt.mutate(a)
			err := a.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestTree_ValidateRejectsBackEdges(t *testing.T) {
	a := stumpForest()
	a.Forest.Trees[0].Nodes[0].Left = 0
	if err := a.Validate(); err == nil {
		t.Error("Validate() accepted a self-referencing node")
	}
}
