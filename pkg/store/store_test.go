package store

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/qiuchen001/kubeflow-ground/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("component", func(t *testing.T) {
		c, err := s.SaveComponent(ctx, api.Component{Name: "train", Image: "train:1"})
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)

		got, err := s.GetComponent(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c, got)

		c.Image = "train:2"
		_, err = s.SaveComponent(ctx, c)
		require.NoError(t, err)
		list, err := s.ListComponents(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "train:2", list[0].Image)

		require.NoError(t, s.DeleteComponent(ctx, c.ID))
		_, err = s.GetComponent(ctx, c.ID)
		assert.True(t, IsNotFound(err))
		assert.True(t, IsNotFound(s.DeleteComponent(ctx, c.ID)))
	})

	t.Run("pipeline", func(t *testing.T) {
		p, err := s.SavePipeline(ctx, api.Pipeline{ID: "p1", Name: "demo", Nodes: []api.PipelineNode{{ID: "n", ComponentID: "c"}}})
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)

		p.LastRunID = "r1"
		_, err = s.SavePipeline(ctx, p)
		require.NoError(t, err)

		got, err := s.GetPipeline(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "r1", got.LastRunID)
		assert.Equal(t, p.Nodes, got.Nodes)

		_, err = s.SavePipeline(ctx, api.Pipeline{Name: "other"})
		require.NoError(t, err)
		list, err := s.ListPipelines(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		require.NoError(t, s.DeletePipeline(ctx, "p1"))
		_, err = s.GetPipeline(ctx, "p1")
		assert.True(t, IsNotFound(err))
	})
}

func TestInMemoryStore(t *testing.T) {
	testStore(t, NewInMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "store")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	testStore(t, s)

	t.Run("layout", func(t *testing.T) {
		_, err := s.SavePipeline(context.Background(), api.Pipeline{ID: "layout", Name: "l"})
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "pipelines", "layout.json"))
		assert.NoError(t, err)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := s.GetPipeline(context.Background(), "../secret")
		assert.True(t, IsNotFound(err))
	})

	t.Run("corrupted file is skipped", func(t *testing.T) {
		require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "components", "bad.json"), []byte("{"), 0644))
		_, err := s.ListComponents(context.Background())
		assert.NoError(t, err)
	})
}

func TestNew(t *testing.T) {
	s, err := New(Config{})
	require.NoError(t, err)
	_, ok := s.(*inMemory)
	assert.True(t, ok)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()
	c, err := s.SaveComponent(ctx, api.Component{ID: "c1", Name: "prep", Image: "prep:1"})
	require.NoError(t, err)

	cat, err := Catalog(ctx, s)
	require.NoError(t, err)
	got, ok := cat.Component("c1")
	assert.True(t, ok)
	assert.Equal(t, c, got)

	lazy := NewLazyCatalog(ctx, s)
	_, ok = lazy.Component("c1")
	assert.True(t, ok)
	_, ok = lazy.Component("missing")
	assert.False(t, ok)
	assert.NoError(t, lazy.Err())
}

func TestLazyCatalog_ReadFailure(t *testing.T) {
	dir, err := ioutil.TempDir("", "catalog")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "components", "bad.json"), []byte("{"), 0644))

	lazy := NewLazyCatalog(context.Background(), s)
	_, ok := lazy.Component("missing")
	assert.False(t, ok)
	assert.NoError(t, lazy.Err())

	_, ok = lazy.Component("bad")
	assert.False(t, ok)
	require.Error(t, lazy.Err())
	assert.False(t, IsNotFound(lazy.Err()))
	assert.Contains(t, lazy.Err().Error(), "cannot load component bad")
}
