package transferfunction

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/raytrace-testing/pkg/core"
)

type fooBuilder struct{ calls int }

func (f *fooBuilder) CreateTransferFunction(valueRange core.Vec2) (*TransferFunction, error) {
	f.calls++
	return NewPiecewiseLinear(valueRange, []core.Vec3{core.NewVec3(1, 1, 0)}, []float64{1})
}

type barBuilder struct{}

func (barBuilder) CreateTransferFunction(valueRange core.Vec2) (*TransferFunction, error) {
	return NewPiecewiseLinear(valueRange, []core.Vec3{core.NewVec3(0, 1, 1)}, []float64{0.25})
}

func TestSymbolName(t *testing.T) {
	assert.Equal(t, "ospray_create_testing_transfer_function__myFunc", SymbolName("myFunc"))
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("myFunc", func() Builder { return &fooBuilder{} }))

	factory, err := r.Lookup("ospray_create_testing_transfer_function__myFunc")
	require.NoError(t, err)

	builder := factory()
	require.NotNil(t, builder)
	assert.IsType(t, &fooBuilder{}, builder)
}

func TestRegistry_FactoriesAreIndependent(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("foo", func() Builder { return &fooBuilder{} })
	r.MustRegister("bar", func() Builder { return barBuilder{} })

	foo, err := r.New("foo")
	require.NoError(t, err)
	bar, err := r.New("bar")
	require.NoError(t, err)

	assert.IsType(t, &fooBuilder{}, foo)
	assert.IsType(t, barBuilder{}, bar)

	_, err = foo.CreateTransferFunction(core.NewVec2(0, 1))
	require.NoError(t, err)

	// A fresh instance from the same factory shares nothing with the first
	again, err := r.New("foo")
	require.NoError(t, err)
	assert.Equal(t, 1, foo.(*fooBuilder).calls)
	assert.Equal(t, 0, again.(*fooBuilder).calls)

	tf, err := bar.CreateTransferFunction(core.NewVec2(0, 1))
	require.NoError(t, err)
	_, opacity := tf.Evaluate(0.5)
	assert.Equal(t, 0.25, opacity)
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("dup", func() Builder { return barBuilder{} })

	tests := []struct {
		name    string
		tag     string
		factory Factory
		wantErr error
	}{
		{"duplicate tag", "dup", func() Builder { return barBuilder{} }, ErrDuplicateTag},
		{"empty tag", "", func() Builder { return barBuilder{} }, ErrInvalidTag},
		{"tag with separator", "a-b", func() Builder { return barBuilder{} }, ErrInvalidTag},
		{"nil factory", "nilfactory", nil, ErrNilFactory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.tag, tt.factory)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := r.Lookup(SymbolName("missing"))
	assert.ErrorIs(t, err, ErrSymbolNotFound)

	_, err = r.New("missing")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("once", func() Builder { return barBuilder{} })
	assert.Panics(t, func() {
		r.MustRegister("once", func() Builder { return barBuilder{} })
	})
}

func TestRegistry_Freeze(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("before", func() Builder { return barBuilder{} })
	r.Freeze()

	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.Register("after", func() Builder { return barBuilder{} }), ErrRegistryFrozen)

	_, err := r.New("before")
	assert.NoError(t, err, "lookups keep working after freeze")
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = r.Register(fmt.Sprintf("tf_%d", i), func() Builder { return barBuilder{} })
		}(i)
		go func() {
			defer wg.Done()
			_ = r.Tags()
			_, _ = r.New("tf_0")
		}()
	}
	wg.Wait()

	assert.Len(t, r.Tags(), 16)
}

func TestDefaultRegistry_BuiltinTags(t *testing.T) {
	want := []string{"grayscale", "jet", "rgb", "test"}
	if diff := cmp.Diff(want, Tags()); diff != "" {
		t.Errorf("Unexpected built-in tags (-want +got):\n%s", diff)
	}

	tests := []struct {
		tag  string
		want Builder
	}{
		{"jet", &Jet{}},
		{"grayscale", &Grayscale{}},
		{"rgb", &RGB{}},
		{"test", &Test{}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			builder, err := New(tt.tag)
			require.NoError(t, err)
			assert.IsType(t, tt.want, builder)

			factory, err := Lookup(SymbolName(tt.tag))
			require.NoError(t, err)
			assert.IsType(t, tt.want, factory())
		})
	}
}
