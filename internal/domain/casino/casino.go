package casino

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ticket-hub/ticket-hub/internal/domain/evidence"
)

// ID identifies a casino in the registry.
type ID string

// Capture names the ticket field that receives a step's accepted text.
type Capture string

const (
	CaptureNone       Capture = ""
	CaptureVIPID      Capture = "vip_id"
	CaptureLtcAddress Capture = "ltc_address"
)

var (
	ErrCasinoNotFound  = errors.New("casino not found")
	ErrEmptyChecklist  = errors.New("checklist is empty")
	ErrDuplicateCasino = errors.New("duplicate casino id")
	ErrInvalidStepType = errors.New("invalid step type")
)

// ChecklistStep is one step of a checklist.
type ChecklistStep struct {
	Title       string          `yaml:"title" json:"title,omitempty"`
	Description string          `yaml:"description" json:"description"`
	Image       string          `yaml:"image,omitempty" json:"image,omitempty"`
	Type        []evidence.Kind `yaml:"type" json:"type"`
	TextLabel   string          `yaml:"text_label,omitempty" json:"textLabel,omitempty"`
	Captures    Capture         `yaml:"captures,omitempty" json:"captures,omitempty"`
}

// Rule returns the satisfaction rule for the step.
func (s ChecklistStep) Rule() evidence.Rule {
	return evidence.ChecklistRule(s.Type)
}

// IsInformational reports whether the step advances without input.
func (s ChecklistStep) IsInformational() bool {
	return len(s.Type) == 0
}

// Casino is a registry entry.
type Casino struct {
	ID                 ID              `yaml:"id" json:"id"`
	Label              string          `yaml:"label" json:"label"`
	Emoji              string          `yaml:"emoji,omitempty" json:"emoji,omitempty"`
	VerificationRoleID string          `yaml:"verification_role,omitempty" json:"verificationRoleId,omitempty"`
	Checklist          []ChecklistStep `yaml:"checklist" json:"checklist"`
}

// Matches reports whether name refers to this casino by id or label, ignoring case.
func (c *Casino) Matches(name string) bool {
	name = strings.TrimSpace(name)
	return strings.EqualFold(string(c.ID), name) || strings.EqualFold(c.Label, name)
}

// Registry is the read-only casino configuration.
type Registry struct {
	casinos map[ID]*Casino
	order   []ID
}

type registryFile struct {
	Casinos []Casino `yaml:"casinos"`
}

// NewRegistry validates and indexes the given casinos, keeping their order.
func NewRegistry(casinos []Casino) (*Registry, error) {
	r := &Registry{casinos: make(map[ID]*Casino, len(casinos))}
	for i := range casinos {
		c := casinos[i]
		if c.ID == "" {
			return nil, fmt.Errorf("casino at index %d has no id", i)
		}
		if _, ok := r.casinos[c.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCasino, c.ID)
		}
		if c.Label == "" {
			c.Label = string(c.ID)
		}
		if len(c.Checklist) == 0 {
			return nil, fmt.Errorf("casino %s: %w", c.ID, ErrEmptyChecklist)
		}
		for j, step := range c.Checklist {
			for _, k := range step.Type {
				if !k.Valid() {
					return nil, fmt.Errorf("casino %s step %d: %w %q", c.ID, j+1, ErrInvalidStepType, k)
				}
			}
		}
		r.casinos[c.ID] = &c
		r.order = append(r.order, c.ID)
	}
	return r, nil
}

// ParseRegistry decodes a YAML registry document.
func ParseRegistry(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse casino registry: %w", err)
	}
	return NewRegistry(f.Casinos)
}

// LoadRegistry reads a YAML registry file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read casino registry: %w", err)
	}
	return ParseRegistry(data)
}

// Get returns the casino with the given id.
func (r *Registry) Get(id ID) (*Casino, bool) {
	c, ok := r.casinos[id]
	return c, ok
}

// All returns every casino in configuration order.
func (r *Registry) All() []*Casino {
	out := make([]*Casino, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.casinos[id])
	}
	return out
}

// Len returns the number of configured casinos.
func (r *Registry) Len() int {
	return len(r.order)
}

// Resolve finds a casino by id or label, ignoring case.
func (r *Registry) Resolve(name string) (*Casino, bool) {
	for _, id := range r.order {
		if c := r.casinos[id]; c.Matches(name) {
			return c, true
		}
	}
	return nil, false
}

// ResolveList resolves each name and returns the distinct matches in input order.
// Unresolved names are dropped.
func (r *Registry) ResolveList(names []string) []*Casino {
	seen := make(map[ID]struct{})
	var out []*Casino
	for _, n := range names {
		c, ok := r.Resolve(n)
		if !ok {
			continue
		}
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
