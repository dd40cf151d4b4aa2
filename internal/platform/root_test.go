package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	// base/
	//   shop/ (hexa.yaml)
	//     orders/
	//       archive/
	//   empty/
	baseDir := t.TempDir()
	shopDir := filepath.Join(baseDir, "shop")
	ordersDir := filepath.Join(shopDir, "orders")
	nestedDir := filepath.Join(ordersDir, "archive")
	emptyDir := filepath.Join(baseDir, "empty")

	require.NoError(t, os.MkdirAll(nestedDir, 0755))
	require.NoError(t, os.MkdirAll(emptyDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(shopDir, ConfigFileName), []byte("adapter: memory\n"), 0644))

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{name: "Start at Root", startPath: shopDir, wantRoot: shopDir},
		{name: "Start in Subdir", startPath: ordersDir, wantRoot: shopDir},
		{name: "Start Nested Deeply", startPath: nestedDir, wantRoot: shopDir},
		{name: "No Root Found", startPath: emptyDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.wantRoot), filepath.Clean(got))
		})
	}
}

func TestFindRoot_SystemDirMarker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".hexa"), 0755))
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	got, err := FindRoot(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestResolveStorePath(t *testing.T) {
	assert.Equal(t, ".", ResolveStorePath("", false))
	assert.Equal(t, "data", ResolveStorePath("data", false))

	inTemp := filepath.Join(os.TempDir(), "already-safe")
	assert.Equal(t, inTemp, ResolveStorePath(inTemp, true))

	assert.Equal(t, filepath.Join(os.TempDir(), "hexa-dev", "data"), ResolveStorePath("/srv/shop/data", true))
	assert.Equal(t, filepath.Join(os.TempDir(), "hexa-dev", "default"), ResolveStorePath(".", true))
}
