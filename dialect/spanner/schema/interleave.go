package schema

import (
	"log/slog"

	"github.com/syssam/velox-spanner/dialect/spannerschema"
	"github.com/syssam/velox-spanner/schema"
)

// Interleave is the resolved interleave declaration of an entity.
type Interleave struct {
	Parent        *schema.Entity
	CascadeDelete bool
}

// InterleaveOf returns the interleave declaration of e, or nil if e is
// not interleaved. It fails with a TypeResolutionError when the parent
// entity is not registered in u.
func InterleaveOf(u *schema.Universe, e *schema.Entity) (*Interleave, error) {
	an, ok := spannerschema.Of(e.Annotations)
	if !ok {
		return nil, nil
	}
	name, ok := an.GetParentEntity()
	if !ok {
		return nil, nil
	}
	parent, err := u.Entity(name)
	if err != nil {
		return nil, err
	}
	return &Interleave{Parent: parent, CascadeDelete: an.CascadeDelete}, nil
}

// Verdict is the outcome of an interleave check.
type Verdict uint8

// Interleave check outcomes.
const (
	Valid Verdict = iota
	Invalid
	Inconclusive
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Inconclusive:
		return "inconclusive"
	}
	return "Verdict(?)"
}

// Option configures a Validator or a Binder.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger warnings are written to. It defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validator checks that interleaved entities extend the primary key of
// their parent.
type Validator struct {
	u      *schema.Universe
	logger *slog.Logger
}

// NewValidator returns a validator resolving entities and types in u.
func NewValidator(u *schema.Universe, opts ...Option) *Validator {
	return &Validator{u: u, logger: newOptions(opts).logger}
}

// Check reports whether the primary key of child is a strict superset of
// the primary key of its interleave parent. Entities that are not
// interleaved are Valid. When the parent or either key set cannot be
// resolved, the verdict is Inconclusive and the cause is returned.
func (v *Validator) Check(child *schema.Entity) (Verdict, error) {
	il, err := InterleaveOf(v.u, child)
	if err != nil {
		return Inconclusive, err
	}
	if il == nil {
		return Valid, nil
	}
	childKeys, err := ResolveIdentifierFields(v.u, child)
	if err != nil {
		return Inconclusive, err
	}
	parentKeys, err := ResolveIdentifierFields(v.u, il.Parent)
	if err != nil {
		return Inconclusive, err
	}
	if childKeys.Len() > parentKeys.Len() && childKeys.ContainsAll(parentKeys) {
		return Valid, nil
	}
	return Invalid, nil
}

// ValidateInterleave reports whether the interleave declaration of child
// is valid. Inconclusive checks are logged and count as valid.
func (v *Validator) ValidateInterleave(child *schema.Entity) bool {
	verdict, err := v.Check(child)
	switch verdict {
	case Inconclusive:
		v.logger.Warn("interleave check inconclusive, assuming valid", "entity", child.Name, "error", err)
		return true
	case Invalid:
		v.logger.Debug("interleave key is not a strict superset of the parent key", "entity", child.Name)
		return false
	}
	return true
}
