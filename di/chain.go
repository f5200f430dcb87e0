package di

import (
	"reflect"

	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/errors"
)

// creationChain tracks the types under construction for one top-level
// resolution, outermost first.
type creationChain struct {
	order  []*catalog.ComponentType
	active map[reflect.Type]struct{}
}

func newCreationChain() *creationChain {
	return &creationChain{active: make(map[reflect.Type]struct{})}
}

// enter adds ct to the chain. The returned release removes it again and must
// be deferred by the caller.
func (c *creationChain) enter(ct *catalog.ComponentType) (release func(), err error) {
	if _, busy := c.active[ct.Type]; busy {
		return func() {}, errors.CircularDependency(ct.QualifiedName, c.names())
	}
	c.active[ct.Type] = struct{}{}
	c.order = append(c.order, ct)
	return func() {
		delete(c.active, ct.Type)
		for i := len(c.order) - 1; i >= 0; i-- {
			if c.order[i] == ct {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}, nil
}

func (c *creationChain) names() []string {
	out := make([]string, len(c.order))
	for i, ct := range c.order {
		out[i] = ct.QualifiedName
	}
	return out
}

func (c *creationChain) len() int { return len(c.order) }
