package model

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jengzang/flight-demand-go/internal/models"
)

// featureOrder is the column order the forest was trained on.
var featureOrder = []string{"route", "flight_day", "avg_flight_duration", "haul_type"}

const leafChild = -1

type featureSpec struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"` // categorical or numeric
	Categories []string `json:"categories,omitempty"`
}

type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

type tree struct {
	Nodes []treeNode `json:"nodes"`
}

type forestFile struct {
	Features []featureSpec `json:"features"`
	Trees    []tree        `json:"trees"`
}

// Forest is a regression forest exported to JSON. Categorical features are
// one-hot encoded in schema order; a sample goes left when
// x[feature] <= threshold and the prediction is the mean of the leaves reached.
type Forest struct {
	features []featureSpec
	offsets  []int
	index    []map[string]int
	width    int
	trees    []tree
}

// LoadForest reads a forest from a JSON file.
func LoadForest(path string) (*Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()

	return ReadForest(f)
}

// ReadForest decodes and validates a forest.
func ReadForest(r io.Reader) (*Forest, error) {
	var file forestFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModel, err)
	}

	if len(file.Features) != len(featureOrder) {
		return nil, fmt.Errorf("%w: expected %d features, got %d", ErrInvalidModel, len(featureOrder), len(file.Features))
	}

	forest := &Forest{features: file.Features, trees: file.Trees}
	for i, spec := range file.Features {
		if spec.Name != featureOrder[i] {
			return nil, fmt.Errorf("%w: feature %d is %q, expected %q", ErrInvalidModel, i, spec.Name, featureOrder[i])
		}
		forest.offsets = append(forest.offsets, forest.width)

		switch spec.Kind {
		case "numeric":
			forest.index = append(forest.index, nil)
			forest.width++
		case "categorical":
			if len(spec.Categories) == 0 {
				return nil, fmt.Errorf("%w: categorical feature %q has no categories", ErrInvalidModel, spec.Name)
			}
			idx := make(map[string]int, len(spec.Categories))
			for j, c := range spec.Categories {
				idx[c] = j
			}
			forest.index = append(forest.index, idx)
			forest.width += len(spec.Categories)
		default:
			return nil, fmt.Errorf("%w: feature %q has unknown kind %q", ErrInvalidModel, spec.Name, spec.Kind)
		}
	}
	if forest.features[2].Kind != "numeric" {
		return nil, fmt.Errorf("%w: avg_flight_duration must be numeric", ErrInvalidModel)
	}

	if len(file.Trees) == 0 {
		return nil, fmt.Errorf("%w: no trees", ErrInvalidModel)
	}
	for t, tr := range file.Trees {
		if err := forest.validateTree(tr); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", ErrInvalidModel, t, err)
		}
	}

	return forest, nil
}

// Children always sit after their parent, which rules out cycles.
func (f *Forest) validateTree(tr tree) error {
	if len(tr.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, n := range tr.Nodes {
		if n.Left == leafChild && n.Right == leafChild {
			continue
		}
		if n.Feature < 0 || n.Feature >= f.width {
			return fmt.Errorf("node %d: feature %d out of range", i, n.Feature)
		}
		if n.Left <= i || n.Left >= len(tr.Nodes) || n.Right <= i || n.Right >= len(tr.Nodes) {
			return fmt.Errorf("node %d: bad children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

// Width is the length of the encoded feature vector.
func (f *Forest) Width() int { return f.width }

// Encode turns a feature record into the dense vector the trees split on.
func (f *Forest) Encode(features models.FeatureRecord) ([]float64, error) {
	values := []string{features.Route, string(features.FlightDay), "", string(features.HaulType)}

	x := make([]float64, f.width)
	for i, spec := range f.features {
		if spec.Kind == "numeric" {
			x[f.offsets[i]] = features.AvgFlightDuration
			continue
		}
		j, ok := f.index[i][values[i]]
		if !ok {
			return nil, fmt.Errorf("%w: %s=%q", ErrUnknownCategory, spec.Name, values[i])
		}
		x[f.offsets[i]+j] = 1
	}
	return x, nil
}

// Predict implements Predictor.
func (f *Forest) Predict(ctx context.Context, features models.FeatureRecord) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	x, err := f.Encode(features)
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, tr := range f.trees {
		sum += tr.evaluate(x)
	}
	return sum / float64(len(f.trees)), nil
}

func (tr tree) evaluate(x []float64) float64 {
	i := 0
	for {
		n := tr.Nodes[i]
		if n.Left == leafChild && n.Right == leafChild {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
