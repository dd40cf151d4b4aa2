package examples_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hexa/pkg/examples"
)

func run(t *testing.T, name string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, examples.Run(context.Background(), name, &buf))
	return buf.String()
}

func TestNames(t *testing.T) {
	assert.Equal(t,
		[]string{"ex00", "ex01", "ex02", "ex03", "ex03bis", "ex04", "ex05", "ex06", "ex07"},
		examples.Names())
	for _, e := range examples.List() {
		assert.NotEmpty(t, e.Description, e.Name)
	}
}

func TestRun_Unknown(t *testing.T) {
	err := examples.Run(context.Background(), "ex99", &bytes.Buffer{})
	assert.ErrorIs(t, err, examples.ErrUnknownExample)
}

func TestRun_ConsoleScenarios(t *testing.T) {
	want := "[Console] Order #1 confirmed! Total: 4999\nSuccess! Order #1 processed.\n"
	for _, name := range []string{"ex00", "ex03", "ex03bis"} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, run(t, name))
		})
	}
}

func TestRun_Circus(t *testing.T) {
	assert.Equal(t,
		"[Megaphone] 🎪 Act #1 is ON! Silliness level: 9001\n🤡 Success! Clown act #1 scheduled.\n",
		run(t, "ex01"))
}

func TestRun_TestDouble(t *testing.T) {
	assert.Contains(t, run(t, "ex02"), "ok")
}

func TestRun_TwoAdapters(t *testing.T) {
	out := run(t, "ex04")
	assert.Contains(t, out, "Success! Order #1 processed.")
	assert.Contains(t, out, "[Memory] Order #1 stored, total = 42")
}

func TestRun_Template(t *testing.T) {
	assert.Contains(t, run(t, "ex05"), "placeholder")
}

func TestRun_RepositoryAndRetrieval(t *testing.T) {
	want := "[InMemory] Saving order #1\n" +
		"[Console] Order #1 confirmed! Total: 4999\n" +
		"Success! Order #1 processed.\n\n" +
		"Retrieving order #1...\n" +
		"[InMemory] Finding order #1\n" +
		"Found: Order #1, total: 4999\n"
	assert.Equal(t, want, run(t, "ex06"))
}

func TestRun_Configurations(t *testing.T) {
	out := run(t, "ex07")

	assert.Contains(t, out, "--- In-memory configuration ---")
	assert.Contains(t, out, "  [MockPayment] Charging $179.98")
	assert.Contains(t, out, "  [InMemory] Saving order #1")
	assert.Contains(t, out, "  [Console] Order #1 confirmed, total $179.98")

	assert.Contains(t, out, "--- External services configuration ---")
	assert.Contains(t, out, "  [Stripe] Charging $179.98")
	assert.Contains(t, out, "  [SQLite] INSERT order #1")
	assert.Contains(t, out, "  [SendGrid] Sending confirmation for order #1")
	assert.Contains(t, out, "  [SQLite] SELECT order #1")
	assert.Contains(t, out, "  Retrieved: 2 items, total $179.98")
	assert.NotContains(t, out, "Error")
}
