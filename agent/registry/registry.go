// Package registry holds the static category → specialist mapping. It is
// built once at process start and read-only afterwards, so lookups need no
// locking.
package registry

import (
	"fmt"

	contractx "krishisetu/agent/contract"
)

type Registry struct {
	specialists []contractx.Specialist
	byCategory  map[contractx.Category][]contractx.Specialist
}

// New validates that every routable category has at least one specialist.
// A gap is a configuration error surfaced at startup, never at request time.
func New(specialists ...contractx.Specialist) (*Registry, error) {
	if len(specialists) == 0 {
		return nil, fmt.Errorf("%w: no specialists registered", contractx.ErrConfiguration)
	}

	byCategory := make(map[contractx.Category][]contractx.Specialist)
	for _, sp := range specialists {
		cat := sp.Category()
		if cat == contractx.CategoryGeneral {
			return nil, fmt.Errorf("%w: specialist %q registered under the general category", contractx.ErrConfiguration, sp.Name())
		}
		byCategory[cat] = append(byCategory[cat], sp)
	}
	for _, cat := range contractx.RoutableCategories {
		if len(byCategory[cat]) == 0 {
			return nil, fmt.Errorf("%w: no specialist registered for category=%s", contractx.ErrConfiguration, cat)
		}
	}

	return &Registry{
		specialists: append([]contractx.Specialist(nil), specialists...),
		byCategory:  byCategory,
	}, nil
}

func MustNew(specialists ...contractx.Specialist) *Registry {
	r, err := New(specialists...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the specialists serving a category. General resolves to
// every registered specialist in registration order.
func (r *Registry) Resolve(cat contractx.Category) []contractx.Specialist {
	if cat == contractx.CategoryGeneral {
		return r.All()
	}
	return append([]contractx.Specialist(nil), r.byCategory[cat]...)
}

// All returns every registered specialist in registration order.
func (r *Registry) All() []contractx.Specialist {
	return append([]contractx.Specialist(nil), r.specialists...)
}
