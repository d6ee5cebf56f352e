// Package recipe loads cleaning recipes for the batch CLI.
//
// A recipe is an ordered list of single-key steps:
//
//	steps:
//	  - remove_duplicates: {}
//	  - fill_missing: {strategy: median}
//	  - trim_space: {column: name}
//
// The same shape is accepted as JSON, YAML or TOML, picked by file
// extension.
package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/datasweeper/pkg/table"
	"github.com/wdm0006/datasweeper/pkg/transform/dedupe"
	"github.com/wdm0006/datasweeper/pkg/transform/impute"
	"github.com/wdm0006/datasweeper/pkg/transform/standardize"
)

var ErrInvalid = errors.New("invalid recipe")

type Recipe struct {
	Steps []Step `json:"steps" yaml:"steps" toml:"steps"`
}

// Step maps exactly one step name to its arguments.
type Step map[string]Args

type Args struct {
	Column   string   `json:"column,omitempty" yaml:"column,omitempty" toml:"column,omitempty"`
	Strategy string   `json:"strategy,omitempty" yaml:"strategy,omitempty" toml:"strategy,omitempty"`
	Value    *float64 `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
}

// Load reads and decodes the recipe at path.
func Load(fs afero.Fs, path string) (Recipe, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return Recipe{}, fmt.Errorf("read recipe: %w", err)
	}
	return Decode(path, b)
}

// Decode parses b in the format implied by name's extension.
func Decode(name string, b []byte) (Recipe, error) {
	var (
		r   Recipe
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&r)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		err = dec.Decode(&r)
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		err = dec.Decode(&r)
	default:
		return Recipe{}, fmt.Errorf("%w: unsupported recipe format %q", ErrInvalid, ext)
	}
	if err != nil {
		return Recipe{}, fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
	}
	if _, err := r.Transforms(); err != nil {
		return Recipe{}, err
	}
	return r, nil
}

// Transforms builds one fresh transform per step, in order.
func (r Recipe) Transforms() ([]table.Transform, error) {
	out := make([]table.Transform, 0, len(r.Steps))
	for i, st := range r.Steps {
		if len(st) != 1 {
			keys := make([]string, 0, len(st))
			for k := range st {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return nil, fmt.Errorf("%w: step %d must have exactly one key, got %v", ErrInvalid, i+1, keys)
		}
		for name, args := range st {
			t, err := build(name, args)
			if err != nil {
				return nil, fmt.Errorf("%w: step %d: %v", ErrInvalid, i+1, err)
			}
			out = append(out, t)
		}
	}
	return out, nil
}

func build(name string, a Args) (table.Transform, error) {
	switch name {
	case "remove_duplicates":
		return &dedupe.RemoveDuplicates{}, nil
	case "fill_missing":
		st, err := impute.ParseStrategy(a.Strategy)
		if err != nil {
			return nil, err
		}
		if st == impute.StrategyConstant && a.Value == nil {
			return nil, errors.New("fill_missing: constant strategy needs a value")
		}
		return &impute.FillMissing{Strategy: st, Value: value(a)}, nil
	case "trim_space":
		return &standardize.TrimSpace{Column: a.Column}, nil
	case "impute_mean":
		if a.Column == "" {
			return nil, errors.New("impute_mean: column is required")
		}
		return &impute.Mean{Column: a.Column}, nil
	case "impute_median":
		if a.Column == "" {
			return nil, errors.New("impute_median: column is required")
		}
		return &impute.Median{Column: a.Column}, nil
	case "impute_constant":
		if a.Column == "" || a.Value == nil {
			return nil, errors.New("impute_constant: column and value are required")
		}
		return &impute.Constant{Column: a.Column, Value: *a.Value}, nil
	default:
		return nil, fmt.Errorf("unknown step %q", name)
	}
}

func value(a Args) float64 {
	if a.Value == nil {
		return 0
	}
	return *a.Value
}
