package schema

import (
	"fmt"
	"slices"
	"strings"

	atlas "ariga.io/atlas/sql/schema"

	"github.com/syssam/velox-spanner/schema"
)

// MaxInterleaveDepth is the number of ancestors a Spanner table may have
// in an interleave hierarchy.
const MaxInterleaveDepth = 7

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateOption configures schema validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	strictInterleave bool
}

// WithStrictInterleave reports inconclusive interleave checks as errors
// instead of warnings.
func WithStrictInterleave() ValidateOption {
	return func(c *validateConfig) {
		c.strictInterleave = true
	}
}

// ValidateSnapshot validates the bound tables of a snapshot.
//
// Example:
//
//	s, err := schema.Bind(u)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result := schema.ValidateSnapshot(s); result.HasErrors() {
//	    log.Fatal(result)
//	}
func ValidateSnapshot(s *Snapshot, opts ...ValidateOption) *ValidationResult {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	result := &ValidationResult{}
	v := NewValidator(s.u, WithLogger(s.logger))
	parents := make(map[string]string)
	for _, t := range s.Tables() {
		e, _ := s.EntityForTable(t)
		validateTable(t, result)
		verdict, err := v.Check(e)
		switch verdict {
		case Inconclusive:
			s.logger.Warn("interleave check inconclusive, assuming valid", "entity", e.Name, "error", err)
			verr := &ValidationError{Table: t.Name, Message: fmt.Sprintf("interleave check inconclusive: %v", err)}
			if cfg.strictInterleave {
				result.Errors = append(result.Errors, verr)
			} else {
				result.Warnings = append(result.Warnings, verr)
			}
			continue
		case Invalid:
			result.Errors = append(result.Errors, &ValidationError{Table: t.Name, Message: invalidInterleaveMessage(s.u, e)})
		}
		il, err := InterleaveOf(s.u, e)
		if err != nil || il == nil {
			continue
		}
		parents[e.Name] = il.Parent.Name
		if _, err := s.TableForEntity(il.Parent); err != nil {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("parent entity %s has no table", il.Parent.Name),
			})
		}
	}
	validateHierarchy(s, parents, result)
	return result
}

// validateTable checks the table on its own.
func validateTable(t *atlas.Table, result *ValidationResult) {
	if t.PrimaryKey == nil {
		result.Warnings = append(result.Warnings, &ValidationError{
			Table:   t.Name,
			Message: "table has no primary key",
		})
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.ToLower(c.Name)
		if seen[name] {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		seen[name] = true
	}
}

func invalidInterleaveMessage(u *schema.Universe, e *schema.Entity) string {
	il, _ := InterleaveOf(u, e)
	childKeys, _ := ResolveIdentifierFields(u, e)
	parentKeys, _ := ResolveIdentifierFields(u, il.Parent)
	return fmt.Sprintf("primary key (%s) is not a strict superset of the primary key (%s) of parent %s",
		joinKeys(childKeys), joinKeys(parentKeys), il.Parent.Name)
}

func joinKeys(s schema.KeySet) string {
	keys := s.Sorted()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Name+" "+k.Type)
	}
	return strings.Join(names, ", ")
}

// validateHierarchy reports interleave cycles and hierarchies deeper than
// MaxInterleaveDepth. Each cycle is reported once.
func validateHierarchy(s *Snapshot, parents map[string]string, result *ValidationResult) {
	reported := make(map[string]bool)
	for _, e := range s.Entities() {
		path := []string{e.Name}
		seen := map[string]int{e.Name: 0}
		for cur := e.Name; ; {
			p, ok := parents[cur]
			if !ok {
				break
			}
			if i, ok := seen[p]; ok {
				cycle := append(slices.Clone(path[i:]), p)
				key := cycleKey(path[i:])
				if !reported[key] {
					reported[key] = true
					result.Errors = append(result.Errors, &ValidationError{
						Table:   tableName(s, p),
						Message: "interleave cycle: " + strings.Join(cycle, " -> "),
					})
				}
				break
			}
			seen[p] = len(path)
			path = append(path, p)
			cur = p
		}
		if depth := len(path) - 1; depth > MaxInterleaveDepth && !inCycle(path, parents) {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   tableName(s, e.Name),
				Message: fmt.Sprintf("interleave depth %d exceeds %d", depth, MaxInterleaveDepth),
			})
		}
	}
}

func inCycle(path []string, parents map[string]string) bool {
	last := path[len(path)-1]
	_, ok := parents[last]
	return ok
}

// cycleKey identifies a cycle independently of its starting entity.
func cycleKey(members []string) string {
	sorted := slices.Clone(members)
	slices.Sort(sorted)
	return strings.Join(sorted, "|")
}

func tableName(s *Snapshot, entity string) string {
	if t, ok := s.byEntity[entity]; ok {
		return t.Name
	}
	return entity
}
