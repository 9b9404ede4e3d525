package configure

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/conduit-lang/aotcfg/internal/jsonwriter"
)

func mustNamed(t testing.TB, name string) *NamedDescriptor {
	t.Helper()
	d, err := NewNamed(name)
	require.NoError(t, err)
	return d
}

func mustProxy(t testing.TB, interfaces ...string) *ProxyDescriptor {
	t.Helper()
	d, err := NewProxy(interfaces...)
	require.NoError(t, err)
	return d
}

func render(t *testing.T, d Descriptor) string {
	t.Helper()
	var buf bytes.Buffer
	w := jsonwriter.New(&buf)
	require.NoError(t, d.WriteJSON(w))
	require.NoError(t, w.Flush())
	return buf.String()
}

func TestNewNamed(t *testing.T) {
	d := mustNamed(t, "com.example.Foo")

	assert.Equal(t, KindNamed, d.Kind())
	assert.Equal(t, "com.example.Foo", d.Name())
	assert.Equal(t, []string{"com.example.Foo"}, d.AllQualifiedNames())
	assert.True(t, d.IsType())
	assert.Equal(t, "com.example.Foo", d.String())
}

func TestNewNamed_Invalid(t *testing.T) {
	d, err := NewNamed("com..Foo")
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrInvalidConfigurationName)
}

func TestNewProxy(t *testing.T) {
	d := mustProxy(t, "com.x.B", "com.x.A", "com.x.B")

	assert.Equal(t, KindProxy, d.Kind())
	assert.Equal(t, []string{"com.x.B", "com.x.A", "com.x.B"}, d.Interfaces())
	assert.Equal(t, []string{"com.x.A", "com.x.B"}, d.AllQualifiedNames())
	assert.True(t, d.IsType())
	assert.Equal(t, "$Proxy[com.x.B, com.x.A, com.x.B]", d.String())
}

func TestNewProxy_Empty(t *testing.T) {
	d, err := NewProxy()
	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrEmptyProxyInterfaceSet)
	assert.False(t, errors.Is(err, ErrInvalidConfigurationName))

	_, err = NewProxy([]string{}...)
	assert.ErrorIs(t, err, ErrEmptyProxyInterfaceSet)
}

func TestNewProxy_ReportsFirstInvalidEntry(t *testing.T) {
	d, err := NewProxy("com.x.A", "bad..One", "1bad")
	assert.Nil(t, d)
	require.ErrorIs(t, err, ErrInvalidConfigurationName)

	var nameErr *NameError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, "bad..One", nameErr.Name)
	assert.Equal(t, 1, nameErr.Index)
}

func TestNewProxy_InputIsCopied(t *testing.T) {
	input := []string{"com.x.A", "com.x.B"}
	d := mustProxy(t, input...)

	input[0] = "com.x.Z"
	assert.Equal(t, []string{"com.x.A", "com.x.B"}, d.Interfaces())

	out := d.Interfaces()
	out[1] = "com.x.Z"
	assert.Equal(t, []string{"com.x.A", "com.x.B"}, d.Interfaces())
}

func TestNew(t *testing.T) {
	d, err := New(KindNamed, "a.B")
	require.NoError(t, err)
	assert.Equal(t, KindNamed, d.Kind())

	d, err = New(KindProxy, "a.C", "a.D")
	require.NoError(t, err)
	assert.Equal(t, KindProxy, d.Kind())

	d, err = New(KindNamed, "a.B", "a.C")
	assert.Error(t, err)
	assert.Nil(t, d)

	d, err = New(KindNamed, "a..B")
	assert.ErrorIs(t, err, ErrInvalidConfigurationName)
	assert.Nil(t, d, "a failed construction must not yield a typed nil")

	d, err = New(KindProxy)
	assert.ErrorIs(t, err, ErrEmptyProxyInterfaceSet)
	assert.Nil(t, d)

	_, err = New(Kind(42), "a.B")
	assert.Error(t, err)
}

func TestWriteJSON_Named(t *testing.T) {
	got := render(t, mustNamed(t, "com.example.Foo"))
	assert.Equal(t, "{\n  \"type\":\"com.example.Foo\"\n}", got)
}

func TestWriteJSON_Proxy(t *testing.T) {
	got := render(t, mustProxy(t, "com.example.IBar", "com.example.IBaz"))
	want := "{\n" +
		"  \"proxy\":[\n" +
		"    \"com.example.IBar\",\n" +
		"    \"com.example.IBaz\"\n" +
		"  ]\n" +
		"}"
	assert.Equal(t, want, got)
}

func TestCompare_Named(t *testing.T) {
	a := mustNamed(t, "a.A")
	b := mustNamed(t, "a.B")

	assert.Negative(t, Compare(a, b))
	assert.Positive(t, Compare(b, a))
	assert.Zero(t, Compare(a, mustNamed(t, "a.A")))
	assert.Equal(t, Compare(a, b), a.Compare(b))
}

func TestCompare_Proxy(t *testing.T) {
	tests := []struct {
		name  string
		left  []string
		right []string
		sign  int
	}{
		{"identical", []string{"a.A", "a.B"}, []string{"a.A", "a.B"}, 0},
		{"first element decides", []string{"a.A", "a.Z"}, []string{"a.B", "a.A"}, -1},
		{"later element decides", []string{"a.A", "a.C"}, []string{"a.A", "a.B"}, 1},
		{"strict prefix is smaller", []string{"a.A"}, []string{"a.A", "a.B"}, -1},
		{"longer is larger", []string{"a.A", "a.B", "a.C"}, []string{"a.A", "a.B"}, 1},
		{"order matters", []string{"a.B", "a.A"}, []string{"a.A", "a.B"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(mustProxy(t, tt.left...), mustProxy(t, tt.right...))
			assert.Equal(t, tt.sign, sign(got))
		})
	}
}

func TestCompare_AcrossKinds(t *testing.T) {
	named := mustNamed(t, "z.Z")
	proxy := mustProxy(t, "a.A")

	assert.Negative(t, Compare(named, proxy), "named sorts before proxy regardless of names")
	assert.Positive(t, Compare(proxy, named))
	assert.False(t, Equal(named, mustProxy(t, "z.Z")))
}

// Two proxies over the same interface set in different orders are distinct.
// This mirrors what is emitted today; normalizing would change the
// identity of existing entries.
func TestProxyIdentityIsOrderSensitive(t *testing.T) {
	ab := mustProxy(t, "com.x.A", "com.x.B")
	ba := mustProxy(t, "com.x.B", "com.x.A")

	assert.False(t, Equal(ab, ba))
	assert.NotEqual(t, IdentityKey(ab), IdentityKey(ba))
	assert.Equal(t, ab.AllQualifiedNames(), ba.AllQualifiedNames())
}

func TestKind(t *testing.T) {
	assert.Equal(t, []Kind{KindNamed, KindProxy}, Kinds())
	assert.Less(t, KindNamed, KindProxy)

	assert.Equal(t, "named", KindNamed.String())
	assert.Equal(t, "proxy", KindProxy.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())

	assert.Equal(t, "type", KindNamed.Member())
	assert.Equal(t, "proxy", KindProxy.Member())
	assert.Empty(t, Kind(-1).Member())

	k, ok := KindForMember("proxy")
	assert.True(t, ok)
	assert.Equal(t, KindProxy, k)
	_, ok = KindForMember("name")
	assert.False(t, ok)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// descriptorGen draws valid descriptors from a small name pool so that
// equal and prefix-related values come up often.
func descriptorGen() *rapid.Generator[Descriptor] {
	pool := rapid.SampledFrom([]string{"a.A", "a.B", "b.A", "b.A$1", "c"})
	return rapid.Custom(func(t *rapid.T) Descriptor {
		if rapid.Bool().Draw(t, "named") {
			d, err := NewNamed(pool.Draw(t, "name"))
			if err != nil {
				t.Fatalf("NewNamed: %v", err)
			}
			return d
		}
		names := rapid.SliceOfN(pool, 1, 3).Draw(t, "interfaces")
		d, err := NewProxy(names...)
		if err != nil {
			t.Fatalf("NewProxy: %v", err)
		}
		return d
	})
}

func TestCompare_TotalOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := descriptorGen().Draw(t, "a")
		b := descriptorGen().Draw(t, "b")
		c := descriptorGen().Draw(t, "c")

		if Compare(a, a) != 0 {
			t.Fatalf("Compare(%v, %v) != 0", a, a)
		}
		if sign(Compare(a, b)) != -sign(Compare(b, a)) {
			t.Fatalf("Compare not antisymmetric for %v, %v", a, b)
		}
		if (Compare(a, b) == 0) != (IdentityKey(a) == IdentityKey(b)) {
			t.Fatalf("Compare and identity disagree for %v, %v", a, b)
		}
		if Compare(a, b) < 0 && Compare(b, c) < 0 && Compare(a, c) >= 0 {
			t.Fatalf("Compare not transitive for %v < %v < %v", a, b, c)
		}
		if Compare(a, b) == 0 && sign(Compare(a, c)) != sign(Compare(b, c)) {
			t.Fatalf("equal descriptors %v, %v order differently against %v", a, b, c)
		}
	})
}
