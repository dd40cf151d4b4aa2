package stuff_test

import (
	"context"
	"testing"

	"github.com/aretw0/hexa/pkg/stuff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHandler struct{}

func (testHandler) Handle(ctx context.Context, s stuff.Stuff) error { return nil }

func TestProcess(t *testing.T) {
	svc := stuff.NewService(testHandler{})

	s, err := svc.Process(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), s.Value)
}

func TestProcess_Placeholder(t *testing.T) {
	svc := stuff.NewService(stuff.MyAdapter{})
	_, err := svc.Process(context.Background(), 42)
	assert.ErrorIs(t, err, stuff.ErrNotImplemented)
}
