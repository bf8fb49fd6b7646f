// Package scenario loads contagion scenarios from YAML: a network of
// entities and obligations plus the initial failure set to shock it with.
// Scenarios are validated fully before the engine is ever invoked, so a
// bad file can never surface mid-simulation.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cascadelab/contagion/pkg/contagion"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxEntities = 10000
	MaxIDLength = 64

	idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

func init() {
	validate = validator.New()
}

// EntitySpec is one entity entry in a scenario file.
type EntitySpec struct {
	ID      string  `yaml:"id" json:"id" validate:"required,max=64"`
	Name    string  `yaml:"name" json:"name" validate:"omitempty,max=128"`
	Capital float64 `yaml:"capital" json:"capital" validate:"gte=0"`
	Buffer  float64 `yaml:"buffer" json:"buffer" validate:"gte=0"`
}

// ObligationSpec is one obligation entry in a scenario file.
type ObligationSpec struct {
	From   string  `yaml:"from" json:"from" validate:"required"`
	To     string  `yaml:"to" json:"to" validate:"required"`
	Amount float64 `yaml:"amount" json:"amount" validate:"gte=0"`
}

// Scenario is a fully parsed and validated scenario file.
type Scenario struct {
	Name          string           `yaml:"name" json:"name" validate:"required,max=128"`
	Description   string           `yaml:"description" json:"description,omitempty"`
	Entities      []EntitySpec     `yaml:"entities" json:"entities" validate:"required,min=1,dive"`
	Obligations   []ObligationSpec `yaml:"obligations" json:"obligations" validate:"omitempty,dive"`
	InitialFailed []string         `yaml:"initial_failed" json:"initial_failed"`
	MaxSteps      int              `yaml:"max_steps" json:"max_steps" validate:"gte=0"`
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: invalid YAML: %w", err)
	}

	if err := validate.Struct(&s); err != nil {
		return nil, formatValidationError(err)
	}

	if len(s.Entities) > MaxEntities {
		return nil, fmt.Errorf("Entities: maximum %d entities allowed, got %d", MaxEntities, len(s.Entities))
	}

	ids := make(map[string]bool, len(s.Entities))
	for _, e := range s.Entities {
		if err := validateID(e.ID); err != nil {
			return nil, fmt.Errorf("Entities: %w", err)
		}
		ids[e.ID] = true
	}

	// Initial-failure ids must resolve before the engine is invoked.
	for _, id := range s.InitialFailed {
		if !ids[id] {
			return nil, fmt.Errorf("InitialFailed: id '%s' does not match any entity", id)
		}
	}

	return &s, nil
}

// Load reads and parses a scenario file from disk.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	return Parse(data)
}

// Network builds the validated contagion network described by the
// scenario. Structural violations (dangling obligations, self-loops,
// negative amounts) surface here as contagion.StructuralError.
func (s *Scenario) Network() (*contagion.Network, error) {
	entities := make([]contagion.Entity, 0, len(s.Entities))
	for _, e := range s.Entities {
		name := e.Name
		if name == "" {
			name = e.ID
		}
		entities = append(entities, contagion.Entity{
			ID:      e.ID,
			Name:    name,
			Capital: e.Capital,
			Buffer:  e.Buffer,
		})
	}

	obligations := make([]contagion.Obligation, 0, len(s.Obligations))
	for _, ob := range s.Obligations {
		obligations = append(obligations, contagion.Obligation{
			From:   ob.From,
			To:     ob.To,
			Amount: ob.Amount,
		})
	}

	return contagion.NewNetwork(entities, obligations)
}

// CascadeOptions returns the engine options the scenario asks for. A
// missing max_steps defers to the engine's per-network default.
func (s *Scenario) CascadeOptions() contagion.CascadeOptions {
	return contagion.CascadeOptions{MaxSteps: s.MaxSteps}
}

// validateID rejects ids that would be unusable in reports and exports.
func validateID(id string) error {
	if id == "" {
		return errors.New("entity id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("entity id '%s' exceeds maximum length of %d characters", id, MaxIDLength)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("entity id '%s' contains invalid characters (only alphanumeric, underscore and dash allowed)", id)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
