package msgbundle

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockBundleProvider struct {
	mock.Mock
}

func (m *mockBundleProvider) Bundles() map[string]*Bundle {
	args := m.Called()
	bundles, _ := args.Get(0).(map[string]*Bundle)
	return bundles
}

func newMockBundleProvider(bundles map[string]*Bundle) *mockBundleProvider {
	provider := &mockBundleProvider{}
	provider.On("Bundles").Return(bundles)
	return provider
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	reg := NewRegistry()
	err := reg.Load(newMockBundleProvider(map[string]*Bundle{"": nil}))

	require.Error(t, err)
	assert.EqualError(t, err, "empty bundle names are not allowed")
	assert.ErrorIs(t, err, ErrRegistryLoad)
	assert.Empty(t, reg.Names())
}

func TestRegistryRejectsNilBundle(t *testing.T) {
	reg := NewRegistry()
	err := reg.Load(newMockBundleProvider(map[string]*Bundle{"foo": nil}))

	require.Error(t, err)
	assert.EqualError(t, err, "nil bundles are not allowed")

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "foo", le.Name)
}

func TestRegistryRejectsSameNameTwice(t *testing.T) {
	reg := NewRegistry()
	provider := newMockBundleProvider(map[string]*Bundle{"foo": NewBuilder().Freeze()})

	require.NoError(t, reg.Load(provider))
	err := reg.Load(provider)

	require.Error(t, err)
	assert.EqualError(t, err, `there is already a bundle with name "foo"`)
	provider.AssertNumberOfCalls(t, "Bundles", 2)
}

func TestRegistryBundlesAreRetrievable(t *testing.T) {
	reg := NewRegistry()
	bundle := NewBuilder().Freeze()

	require.NoError(t, reg.Load(newMockBundleProvider(map[string]*Bundle{"foo": bundle})))

	got, ok := reg.Bundle("foo")
	require.True(t, ok)
	assert.Same(t, bundle, got)

	_, ok = reg.Bundle("bar")
	assert.False(t, ok)
}

func TestRegistryDisjointProvidersSucceed(t *testing.T) {
	reg := NewRegistry()
	err := reg.Load(
		newMockBundleProvider(map[string]*Bundle{"a": NewBuilder().Freeze(), "b": NewBuilder().Freeze()}),
		BundleProviderFunc(func() map[string]*Bundle {
			return map[string]*Bundle{"c": NewBuilder().Freeze()}
		}),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, reg.Names())
}

func TestRegistryLoadIsAllOrNothing(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Load(newMockBundleProvider(map[string]*Bundle{"existing": NewBuilder().Freeze()})))

	tests := []struct {
		name      string
		providers []BundleProvider
		want      string
	}{
		{
			name: "duplicate across providers",
			providers: []BundleProvider{
				newMockBundleProvider(map[string]*Bundle{"foo": NewBuilder().Freeze()}),
				newMockBundleProvider(map[string]*Bundle{"foo": NewBuilder().Freeze()}),
			},
			want: `there is already a bundle with name "foo"`,
		},
		{
			name: "duplicate of committed",
			providers: []BundleProvider{
				newMockBundleProvider(map[string]*Bundle{"fresh": NewBuilder().Freeze(), "existing": NewBuilder().Freeze()}),
			},
			want: `there is already a bundle with name "existing"`,
		},
		{
			name: "later nil bundle",
			providers: []BundleProvider{
				newMockBundleProvider(map[string]*Bundle{"fresh": NewBuilder().Freeze()}),
				newMockBundleProvider(map[string]*Bundle{"zzz": nil}),
			},
			want: "nil bundles are not allowed",
		},
		{
			name:      "nil provider",
			providers: []BundleProvider{newMockBundleProvider(map[string]*Bundle{"fresh": NewBuilder().Freeze()}), nil},
			want:      "bundle provider cannot be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Load(tt.providers...)
			require.Error(t, err)
			assert.EqualError(t, err, tt.want)
			assert.Equal(t, []string{"existing"}, reg.Names(), "nothing may be committed")
		})
	}
}

func TestRegistryDiagnosticsAreDeterministic(t *testing.T) {
	// names are validated in sorted order, so "a" is reported before "b"
	for range 10 {
		reg := NewRegistry()
		require.NoError(t, reg.Load(newMockBundleProvider(map[string]*Bundle{
			"a": NewBuilder().Freeze(),
			"b": NewBuilder().Freeze(),
		})))
		err := reg.Load(newMockBundleProvider(map[string]*Bundle{
			"b": NewBuilder().Freeze(),
			"a": NewBuilder().Freeze(),
		}))
		assert.EqualError(t, err, `there is already a bundle with name "a"`)
	}
}

func TestNilRegistry(t *testing.T) {
	var reg *Registry
	_, ok := reg.Bundle("x")
	assert.False(t, ok)
	assert.Nil(t, reg.Names())
}

// withDefaultRegistry runs the test against a fresh process-wide registry
// seeded with the providers registered so far, and restores it afterwards.
func withDefaultRegistry(t *testing.T) {
	t.Helper()

	discoveryMu.Lock()
	saved := slices.Clone(discovered)
	discoveryMu.Unlock()

	reset := func(providers []BundleProvider) {
		discoveryMu.Lock()
		defer discoveryMu.Unlock()
		discovered = slices.Clone(providers)
		sealed = false
		defaultOnce = sync.Once{}
		defaultRegistry = nil
		defaultErr = nil
	}

	reset(saved)
	t.Cleanup(func() { reset(saved) })
}

func TestDefaultRegistryContainsOwnBundle(t *testing.T) {
	withDefaultRegistry(t)

	reg, err := Default()
	require.NoError(t, err)
	assert.Contains(t, reg.Names(), BundleName)

	bundle, ok := ForName(BundleName)
	require.True(t, ok)
	assert.Equal(t, "message key cannot be empty", bundle.Message("query.emptyKey"))
}

func TestRegisterThenDefault(t *testing.T) {
	withDefaultRegistry(t)

	app := NewBuilder().AppendSource(NewMapSource(map[string]string{"hi": "Hi"})).Freeze()
	require.NoError(t, Register(BundleProviderFunc(func() map[string]*Bundle {
		return map[string]*Bundle{"app": app}
	})))

	bundle, ok := ForName("app")
	require.True(t, ok)
	assert.Same(t, app, bundle)

	err := Register(newMockBundleProvider(nil))
	assert.ErrorIs(t, err, ErrRegistrySealed)

	assertContractPanic(t, "bundle provider cannot be nil", func() {
		_ = Register(nil)
	})
}

func TestDefaultRegistryFailureLeavesItEmpty(t *testing.T) {
	withDefaultRegistry(t)

	require.NoError(t, Register(BundleProviderFunc(func() map[string]*Bundle {
		return map[string]*Bundle{BundleName: NewBuilder().Freeze()}
	})))

	reg, err := Default()
	require.Error(t, err)
	assert.EqualError(t, err, `there is already a bundle with name "msgbundle"`)
	assert.Empty(t, reg.Names())

	_, ok := ForName(BundleName)
	assert.False(t, ok)

	// errors still render: the library's messages do not depend on the registry
	assertContractPanic(t, "message key cannot be empty", func() {
		NewBuilder().Freeze().Message("")
	})
}

func TestZeroRegistryIsUsable(t *testing.T) {
	var reg Registry
	assert.Empty(t, reg.Names())

	_, ok := reg.Bundle("foo")
	assert.False(t, ok)

	bundle := NewBuilder().Freeze()
	require.NoError(t, reg.Load(newMockBundleProvider(map[string]*Bundle{"foo": bundle})))

	got, ok := reg.Bundle("foo")
	require.True(t, ok)
	assert.Same(t, bundle, got)
	assert.Equal(t, []string{"foo"}, reg.Names())
}
