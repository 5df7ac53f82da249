package transform

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PipelineDescriptor is the YAML shape a host uses to declare which passes
// to run, and in what order, without recompiling a Go call site for every
// pipeline variant.
type PipelineDescriptor struct {
	Passes []PipelineStep `yaml:"passes"`
}

// PipelineStep names one pass and its options. Options only apply to the
// passes that take them (grh-verify, const-fold); unknown keys for a given
// pass name are ignored rather than rejected, since a descriptor written
// for a newer build may carry options this build doesn't know about yet.
type PipelineStep struct {
	Name    string                 `yaml:"name"`
	Options map[string]interface{} `yaml:"options"`
}

// LoadPipelineYAML reads and parses a pipeline descriptor from path.
func LoadPipelineYAML(path string) (*PipelineDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("transform: reading pipeline file: %w", err)
	}

	var descriptor PipelineDescriptor
	if err := yaml.Unmarshal(data, &descriptor); err != nil {
		return nil, fmt.Errorf("transform: parsing pipeline YAML: %w", err)
	}

	return &descriptor, nil
}

// Build resolves a descriptor into a ready-to-run PassManager, in the
// order the steps were declared.
func (d *PipelineDescriptor) Build() (*PassManager, error) {
	manager := NewPassManager()

	for _, step := range d.Passes {
		pass, err := buildPass(step)
		if err != nil {
			return nil, err
		}
		manager.AddPass(pass)
	}

	return manager, nil
}

func buildPass(step PipelineStep) (Pass, error) {
	switch step.Name {
	case "grh-verify":
		opts := DefaultVerifyOptions()
		if v, ok := step.Options["autoFixPointers"].(bool); ok {
			opts.AutoFixPointers = v
		}
		if v, ok := step.Options["stopOnError"].(bool); ok {
			opts.StopOnError = v
		}
		return NewGRHVerifyPass(opts), nil
	case "output-assign-inline":
		return NewOutputAssignInlinePass(), nil
	case "redundant-elim":
		return NewRedundantElimPass(), nil
	case "const-fold":
		opts := DefaultConstantFoldOptions()
		if v, ok := step.Options["maxIterations"].(int); ok {
			opts.MaxIterations = v
		}
		if v, ok := step.Options["allowXPropagation"].(bool); ok {
			opts.AllowXPropagation = v
		}
		return NewConstantFoldPass(opts), nil
	default:
		return nil, fmt.Errorf("transform: unknown pass name in pipeline descriptor: %s", step.Name)
	}
}
