package inject

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeProviders(t *testing.T) {
	engine := TypeOf[*testEngine]()
	car := TypeOf[*testCar]()

	t.Run("type shorthand becomes class provider", func(t *testing.T) {
		got, err := normalizeProviders([]any{engine}, nil)
		require.NoError(t, err)
		assert.Equal(t, []Provider{{Provide: engine, UseClass: engine}}, got)
	})

	t.Run("provider values pass through", func(t *testing.T) {
		p := Value("answer", 42, AsMulti())
		got, err := normalizeProviders([]any{p, &p}, nil)
		require.NoError(t, err)
		assert.Equal(t, []Provider{p, p}, got)
	})

	t.Run("nested equals flattened", func(t *testing.T) {
		valueA := Value("a", 1)
		valueB := Value("b", 2)
		valueC := Value("c", 3)

		nested := []any{
			engine,
			[]any{valueA, []any{&valueB, []reflect.Type{car}}},
			[]Provider{valueC},
		}
		flat := []any{engine, valueA, &valueB, car, valueC}

		gotNested, err := normalizeProviders(nested, nil)
		require.NoError(t, err)
		gotFlat, err := normalizeProviders(flat, nil)
		require.NoError(t, err)

		assert.Equal(t, gotFlat, gotNested)
		require.Len(t, gotNested, 5)
		assert.Equal(t, "a", gotNested[1].Provide)
		assert.Equal(t, car, gotNested[3].Provide)
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := normalizeProviders([]any{[]any{}, []Provider{}}, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestNormalizeProviders_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		decl   any
		prefix string
	}{
		{"nil", nil, "invalid provider - only Provider values"},
		{"int", 42, "invalid provider - only Provider values"},
		{"string", "engine", "invalid provider - only Provider values"},
		{"map", map[string]any{"provide": "x"}, "invalid provider - only Provider values"},
		{"nil provider pointer", (*Provider)(nil), "invalid provider - provider cannot be nil"},
		{"missing provide", Provider{UseValue: 1}, "invalid provider - provide token must be set"},
		{"two strategies", Provider{Provide: "x", UseValue: 1, UseExisting: "y"}, "invalid provider - only one of UseValue"},
		{"nested invalid", []any{TypeOf[*testEngine](), []any{3.14}}, "invalid provider - only Provider values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeProviders([]any{tt.decl}, nil)

			var invalid *InvalidProviderError
			require.ErrorAs(t, err, &invalid)
			assert.ErrorIs(t, err, ErrInvalidProvider)
			assert.True(t, strings.HasPrefix(err.Error(), tt.prefix), err.Error())
		})
	}
}

func TestNormalizeProviders_Modules(t *testing.T) {
	engine := TypeOf[*testEngine]()
	car := TypeOf[*testCar]()

	storage := NewModule("storage", engine, Value("dsn", "memory"))
	app := NewModule("app", &storage, car)

	fromModule, err := normalizeProviders([]any{app}, nil)
	require.NoError(t, err)
	fromSlices, err := normalizeProviders([]any{[]any{[]any{engine, Value("dsn", "memory")}, car}}, nil)
	require.NoError(t, err)
	assert.Equal(t, fromSlices, fromModule)

	broken := NewModule("app", NewModule("storage", engine, 42))
	_, err = normalizeProviders([]any{broken}, nil)

	var moduleErr ModuleError
	require.ErrorAs(t, err, &moduleErr)
	assert.Equal(t, "app", moduleErr.Module)
	assert.ErrorIs(t, err, ErrInvalidProvider)
	assert.Contains(t, err.Error(), `module "app": module "storage": invalid provider`)

	_, err = normalizeProviders([]any{(*Module)(nil)}, nil)
	assert.ErrorIs(t, err, ErrInvalidProvider)
}

func TestProviderHelpers(t *testing.T) {
	engine := TypeOf[*testEngine]()
	factory := func() *testEngine { return &testEngine{} }

	assert.Equal(t, Provider{Provide: "k", UseValue: "v"}, Value("k", "v"))
	assert.Equal(t, Provider{Provide: engine, UseClass: engine, Multi: true}, Class(engine, engine, AsMulti()))
	assert.Equal(t, Provider{Provide: "alias", UseExisting: engine}, Existing("alias", engine))

	p := Factory(engine, factory, WithDeps("a", "b"))
	assert.Equal(t, engine, p.Provide)
	assert.Equal(t, []any{"a", "b"}, p.Deps)
	assert.NotNil(t, p.UseFactory)
}
