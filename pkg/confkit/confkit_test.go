package confkit_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricefeed-api/pkg/confkit"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("CONFKIT_SET", "value")
	t.Setenv("CONFKIT_EMPTY", "")

	tests := []struct {
		in   string
		want string
	}{
		{"${CONFKIT_SET}", "value"},
		{"$CONFKIT_SET/x", "value/x"},
		{"${CONFKIT_UNSET}", ""},
		{"${CONFKIT_UNSET:-https://www.deribit.com}", "https://www.deribit.com"},
		{"${CONFKIT_EMPTY:-fallback}", "fallback"},
		{"${CONFKIT_SET:-fallback}", "value"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, confkit.ExpandEnv(tt.in))
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv("CONFKIT_DIR", "overrides")

	assert.Equal(t, "/absolute/feed.yaml", confkit.ResolvePath("/base", "/absolute/feed.yaml"))
	assert.Equal(t, filepath.Join("/base", "feed.yaml"), confkit.ResolvePath("/base", "feed.yaml"))
	assert.Equal(t, filepath.Join("/base", "overrides", "feed.yaml"), confkit.ResolvePath("/base", "${CONFKIT_DIR}/feed.yaml"))
}

func TestSection_Hydrate(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		section := &confkit.Section[string]{}
		err := section.Hydrate("/base", func(string) (*string, error) {
			t.Error("loader should not be called for empty file")
			return nil, nil
		})
		require.NoError(t, err)
		assert.Nil(t, section.Value)
	})

	t.Run("resolves and stores", func(t *testing.T) {
		section := &confkit.Section[string]{File: "feed.yaml"}
		want := "loaded"
		err := section.Hydrate("/base", func(path string) (*string, error) {
			assert.Equal(t, filepath.Join("/base", "feed.yaml"), path)
			return &want, nil
		})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/base", "feed.yaml"), section.File)
		require.NotNil(t, section.Value)
		assert.Equal(t, want, *section.Value)
	})

	t.Run("loader error", func(t *testing.T) {
		section := &confkit.Section[string]{File: "feed.yaml"}
		err := section.Hydrate("/base", func(string) (*string, error) {
			return nil, errors.New("boom")
		})
		assert.EqualError(t, err, "boom")
		assert.Equal(t, "feed.yaml", section.File)
		assert.Nil(t, section.Value)
	})
}

func TestProjectRootHasGoMod(t *testing.T) {
	root, err := confkit.ProjectRoot()
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "go.mod"))
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "etc", "feed.yaml"), confkit.MustProjectPath("etc/feed.yaml"))
}
