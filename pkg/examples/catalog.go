// Package examples is a catalog of small runnable scenarios. Each one wires
// the same application core to a different set of adapters and prints what
// happens.
package examples

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrUnknownExample is returned by Run for names that are not registered.
var ErrUnknownExample = errors.New("unknown example")

// Example is one runnable scenario.
type Example struct {
	Name        string
	Description string
	run         func(ctx context.Context, w io.Writer) error
}

var registry = map[string]Example{}

func register(name, description string, run func(ctx context.Context, w io.Writer) error) {
	registry[name] = Example{Name: name, Description: description, run: run}
}

func init() {
	register("ex00", "an order service announcing through a console notifier", runEx00)
	register("ex01", "the same shape in another domain: scheduling clown acts", runEx01)
	register("ex02", "the use case exercised against a test double", runEx02)
	register("ex03", "a notifier shared by reference with the service", runEx03)
	register("ex03bis", "a notifier handed to each call instead of the service", runEx03bis)
	register("ex04", "two adapters plugged into the same port", runEx04)
	register("ex05", "a blank template with an unimplemented adapter", runEx05)
	register("ex06", "a repository and a notifier, then retrieval", runEx06)
	register("ex07", "in-memory versus external service configurations", runEx07)
}

// List returns the registered examples sorted by name.
func List() []Example {
	out := make([]Example, 0, len(registry))
	for _, e := range registry {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the registered example names, sorted.
func Names() []string {
	list := List()
	names := make([]string, len(list))
	for i, e := range list {
		names[i] = e.Name
	}
	return names
}

// Run executes the named example, writing its output to w.
func Run(ctx context.Context, name string, w io.Writer) error {
	e, ok := registry[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownExample, name)
	}
	return e.run(ctx, w)
}
