package paritarias

import (
	"strings"

	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/ipc"
	"github.com/syncra/paritarias/pkg/reconcile"
	"github.com/syncra/paritarias/pkg/wages"
)

// Scheme names a wage agreement kept in sync.
type Scheme string

const (
	// SchemeSanidad is the health-sector agreement (FATSA). Lenient fetch policy.
	SchemeSanidad Scheme = "sanidad"
	// SchemeFederal is the generic per-jurisdiction index table. Strict fetch policy.
	SchemeFederal Scheme = "federal"
)

// Schemes returns every supported scheme.
func Schemes() []Scheme {
	return []Scheme{SchemeSanidad, SchemeFederal}
}

// ParseScheme validates a scheme name. An empty name selects sanidad.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchemeSanidad:
		return SchemeSanidad, nil
	case SchemeFederal:
		return SchemeFederal, nil
	}
	return "", errors.NewValidationError("scheme", s, "must be sanidad or federal")
}

// Policy returns the scheme's fetch policy.
func (s Scheme) Policy() ipc.Policy {
	if s == SchemeFederal {
		return federal.policy
	}
	return sanidad.policy
}

// Schema returns the dedicated table layout of the scheme.
func (s Scheme) Schema() store.Schema {
	if s == SchemeFederal {
		return federal.profile.Schema()
	}
	return sanidad.profile.Schema()
}

// profile is what a record type must provide to be stored and reconciled.
type profile[R any] interface {
	store.Codec[R]
	reconcile.Profile[R]
}

// binding ties a record type to its scheme-level settings.
type binding[R any] struct {
	scheme   Scheme
	profile  profile[R]
	policy   ipc.Policy
	template string
	// fallback lets an unreadable dedicated table switch the run to
	// entities storage. Without it the run fails at the load stage.
	fallback bool
}

var (
	sanidad = binding[wages.SanidadRecord]{
		scheme:   SchemeSanidad,
		profile:  wages.Sanidad{},
		policy:   ipc.PolicyLenient,
		template: constants.SanidadDescriptionTemplate,
		fallback: true,
	}

	federal = binding[wages.FederalRecord]{
		scheme:   SchemeFederal,
		profile:  wages.Federal{},
		policy:   ipc.PolicyStrict,
		template: constants.FederalDescriptionTemplate,
	}
)
