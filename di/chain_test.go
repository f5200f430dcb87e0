package di

import (
	"reflect"
	"testing"

	"github.com/kbukum/iockit/catalog"
	"github.com/kbukum/iockit/errors"
)

func TestCreationChain(t *testing.T) {
	c := catalog.New()
	a, _ := c.Describe(reflect.TypeOf(alpha{}))
	b, _ := c.Describe(reflect.TypeOf(unrelated{}))

	chain := newCreationChain()
	releaseA, err := chain.enter(a)
	if err != nil {
		t.Fatal(err)
	}
	releaseB, err := chain.enter(b)
	if err != nil {
		t.Fatal(err)
	}
	if chain.len() != 2 {
		t.Fatalf("expected 2 entries, got %d", chain.len())
	}

	releaseAgain, err := chain.enter(a)
	if !errors.HasCode(err, errors.ErrCodeCircularDependency) {
		t.Fatalf("expected CIRCULAR_DEPENDENCY, got %v", err)
	}
	releaseAgain()
	if chain.len() != 2 {
		t.Error("a refused entry must not change the chain")
	}

	releaseB()
	releaseA()
	if chain.len() != 0 {
		t.Errorf("expected empty chain, got %v", chain.names())
	}
}
