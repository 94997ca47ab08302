package entrypoint

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handler() string { return "handled" }

func TestParse(t *testing.T) {
	t.Run("name module and attribute", func(t *testing.T) {
		ep, err := Parse("hello = example.greeters:hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", ep.Name())
		assert.Equal(t, "example.greeters", ep.Module())
		assert.Equal(t, []string{"hello"}, ep.Attrs())
	})

	t.Run("attribute chain", func(t *testing.T) {
		ep, err := Parse("hello = example.greeters:nested.hello")
		require.NoError(t, err)
		assert.Equal(t, []string{"nested", "hello"}, ep.Attrs())
	})

	t.Run("no attribute", func(t *testing.T) {
		ep, err := Parse("hello = example.greeters")
		require.NoError(t, err)
		assert.Empty(t, ep.Attrs())
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		ep, err := Parse("  hello =  example.greeters:hello  ")
		require.NoError(t, err)
		assert.Equal(t, "hello", ep.Name())
		assert.Equal(t, "example.greeters", ep.Module())
	})

	t.Run("slashed module path", func(t *testing.T) {
		ep, err := Parse("run = github.com/h4l/prybar:run")
		require.NoError(t, err)
		assert.Equal(t, "github.com/h4l/prybar", ep.Module())
	})

	t.Run("invalid declarations", func(t *testing.T) {
		for _, decl := range []string{
			"",
			"just-a-name",
			"name =",
			"name = module:",
			"name = module:a..b",
			"= module:attr",
		} {
			_, err := Parse(decl)
			assert.Error(t, err, "declaration %q should not parse", decl)
		}
	})
}

func TestFromFunc(t *testing.T) {
	t.Run("infers name module and attribute", func(t *testing.T) {
		ep, err := FromFunc(handler, "")
		require.NoError(t, err)
		assert.Equal(t, "handler", ep.Name())
		assert.Equal(t, "github.com/h4l/prybar/entrypoint", ep.Module())
		assert.Equal(t, []string{"handler"}, ep.Attrs())
	})

	t.Run("name override keeps inferred attribute", func(t *testing.T) {
		ep, err := FromFunc(handler, "custom")
		require.NoError(t, err)
		assert.Equal(t, "custom", ep.Name())
		assert.Equal(t, []string{"handler"}, ep.Attrs())
	})

	t.Run("rejects non-functions", func(t *testing.T) {
		_, err := FromFunc(42, "")
		assert.ErrorContains(t, err, "not callable")

		_, err = FromFunc(nil, "")
		assert.ErrorContains(t, err, "not callable")
	})
}

func TestBound(t *testing.T) {
	ep := New("hello", "example.greeters", "hello")
	require.Nil(t, ep.Dist())

	dist := fakeDist{key: "example", location: "file:///example"}
	bound := ep.Bound(dist)

	assert.Equal(t, dist, bound.Dist())
	assert.Nil(t, ep.Dist(), "binding must not mutate the original spec")
	assert.Equal(t, ep.Name(), bound.Name())
}

type fakeDist struct {
	key      string
	location string
}

func (d fakeDist) Key() string      { return d.key }
func (d fakeDist) Location() string { return d.location }

func TestString(t *testing.T) {
	assert.Equal(t, "hello = example.greeters:nested.hello",
		New("hello", "example.greeters", "nested", "hello").String())
	assert.Equal(t, "hello = example.greeters",
		New("hello", "example.greeters").String())
}

func TestLoad(t *testing.T) {
	t.Run("function specs return the function", func(t *testing.T) {
		ep, err := FromFunc(handler, "")
		require.NoError(t, err)

		loaded, err := ep.Load(nil)
		require.NoError(t, err)
		assert.Equal(t, reflect.ValueOf(handler).Pointer(), reflect.ValueOf(loaded).Pointer())
	})

	t.Run("map attribute lookup", func(t *testing.T) {
		idx := NewModuleIndex()
		require.NoError(t, idx.Register("example.greeters", map[string]any{
			"hello": "hi there",
		}))

		loaded, err := New("hello", "example.greeters", "hello").Load(idx)
		require.NoError(t, err)
		assert.Equal(t, "hi there", loaded)
	})

	t.Run("nested attribute chain", func(t *testing.T) {
		idx := NewModuleIndex()
		require.NoError(t, idx.Register("example.greeters", map[string]any{
			"nested": map[string]any{"inner": 42},
		}))

		loaded, err := New("inner", "example.greeters", "nested", "inner").Load(idx)
		require.NoError(t, err)
		assert.Equal(t, 42, loaded)
	})

	t.Run("struct field traversal", func(t *testing.T) {
		type mod struct {
			Greeting string
		}
		idx := NewModuleIndex()
		require.NoError(t, idx.Register("example.structs", &mod{Greeting: "yo"}))

		loaded, err := New("greeting", "example.structs", "Greeting").Load(idx)
		require.NoError(t, err)
		assert.Equal(t, "yo", loaded)
	})

	t.Run("unregistered module", func(t *testing.T) {
		_, err := New("x", "example.missing", "x").Load(NewModuleIndex())
		assert.ErrorContains(t, err, `module "example.missing" is not registered`)
	})

	t.Run("missing attribute", func(t *testing.T) {
		idx := NewModuleIndex()
		require.NoError(t, idx.Register("example.greeters", map[string]any{}))

		_, err := New("nope", "example.greeters", "nope").Load(idx)
		assert.ErrorContains(t, err, `no attribute "nope"`)
	})
}

func TestModuleIndex(t *testing.T) {
	idx := NewModuleIndex()
	require.NoError(t, idx.Register("example.mod", map[string]any{}))

	t.Run("duplicate registration fails", func(t *testing.T) {
		assert.ErrorContains(t, idx.Register("example.mod", map[string]any{}),
			"already registered")
	})

	t.Run("deregister frees the path", func(t *testing.T) {
		idx.Deregister("example.mod")
		_, err := idx.ResolveModule("example.mod")
		assert.Error(t, err)
		assert.NoError(t, idx.Register("example.mod", map[string]any{}))
	})
}
