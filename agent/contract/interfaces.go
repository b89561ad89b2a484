package contract

import "context"

// Specialist is a domain handler that turns a classified query into a
// partial result with a confidence score. Implementations must return
// promptly once ctx is done; an overdue invocation is abandoned by the
// dispatcher and its eventual result discarded.
type Specialist interface {
	Category() Category
	Name() string
	Capabilities() []string
	Invoke(ctx context.Context, q Query, entities map[string]string) (SpecialistResult, error)
}
