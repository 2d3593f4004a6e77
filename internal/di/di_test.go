package di

import (
	"sync"
	"sync/atomic"
	"testing"
)

type greeter struct{ name string }

func TestRegisterToken_BuildsOnce(t *testing.T) {
	c := NewContainer()
	token := NewToken[*greeter]("test.greeter")

	var builds atomic.Int32
	RegisterToken(c, token, func(sr ServiceRegistry) *greeter {
		builds.Add(1)
		return &greeter{name: "pricing"}
	})

	var wg sync.WaitGroup
	results := make([]*greeter, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = GetToken(c, token)
		}()
	}
	wg.Wait()

	for i, g := range results {
		if g != results[0] {
			t.Fatalf("results[%d] is a different instance", i)
		}
	}
	if results[0].name != "pricing" {
		t.Errorf("name = %q", results[0].name)
	}
}

func TestRegisterToken_ResolvesDependencies(t *testing.T) {
	c := NewContainer()
	c.Register("config", "eu-west")
	token := NewToken[string]("test.region")
	RegisterToken(c, token, func(sr ServiceRegistry) string {
		return "region:" + sr.Get("config").(string)
	})

	if got := GetToken(c, token); got != "region:eu-west" {
		t.Errorf("GetToken = %q", got)
	}
}

func TestGetToken_PanicsWhenMissing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing service")
		}
	}()
	GetToken(NewContainer(), NewToken[int]("missing"))
}

func TestGetToken_PanicsOnWrongType(t *testing.T) {
	c := NewContainer()
	c.Register("value", "not an int")
	defer func() {
		if recover() == nil {
			t.Error("expected panic for wrong type")
		}
	}()
	GetToken(c, NewToken[int]("value"))
}
