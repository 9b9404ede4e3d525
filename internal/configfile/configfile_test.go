package configfile

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/aotcfg/internal/configure"
)

const sampleDocument = `[
  {"proxy": ["com.example.IBar", "com.example.IBaz"]},
  {"type": "com.example.Foo"}
]`

func sampleRegistry(t *testing.T) *configure.Registry {
	t.Helper()
	reg := configure.NewRegistry()
	named, err := configure.NewNamed("com.example.Foo")
	require.NoError(t, err)
	proxy, err := configure.NewProxy("com.example.IBar", "com.example.IBaz")
	require.NoError(t, err)
	reg.AddAll(proxy, named)
	return reg
}

const sampleCanonical = `[
  {
    "type":"com.example.Foo"
  },
  {
    "proxy":[
      "com.example.IBar",
      "com.example.IBaz"
    ]
  }
]
`

func TestDecode(t *testing.T) {
	entries, err := Decode(strings.NewReader(sampleDocument))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, Entry{Index: 0, Kind: configure.KindProxy, Names: []string{"com.example.IBar", "com.example.IBaz"}}, entries[0])
	assert.Equal(t, Entry{Index: 1, Kind: configure.KindNamed, Names: []string{"com.example.Foo"}}, entries[1])

	assert.Equal(t, "$Proxy[com.example.IBar, com.example.IBaz]", entries[0].Label())
	assert.Equal(t, "com.example.Foo", entries[1].Label())
}

func TestDecode_DoesNotValidateNames(t *testing.T) {
	entries, err := Decode(strings.NewReader(`[{"type": "bad..name"}, {"proxy": []}]`))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	_, err = entries[0].Descriptor()
	assert.ErrorIs(t, err, configure.ErrInvalidConfigurationName)

	_, err = entries[1].Descriptor()
	assert.ErrorIs(t, err, configure.ErrEmptyProxyInterfaceSet)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{"not json", `{`, "malformed"},
		{"object at top level", `{"type": "a.B"}`, "malformed"},
		{"trailing data", `[] []`, "trailing data"},
		{"trailing garbage", `[{"type": "a.B"}] x`, "trailing data"},
		{"empty object", `[{}]`, "entry 0: expected exactly one member, got 0"},
		{"two members", `[{"type": "a.B", "proxy": ["a.C"]}]`, "expected exactly one member, got 2"},
		{"unknown member", `[{"type": "a.B"}, {"name": "a.C"}]`, `entry 1: unknown member "name"`},
		{"type not string", `[{"type": ["a.B"]}]`, `member "type" must be a string`},
		{"proxy not array", `[{"proxy": "a.B"}]`, `member "proxy" must be an array of strings`},
		{"proxy null", `[{"proxy": null}]`, `member "proxy" must not be null`},
		{"proxy element null", `[{"proxy": ["a.B", null]}]`, `member "proxy" element 1 must not be null`},
		{"type null", `[{"type": null}]`, `member "type" must not be null`},
		{"null document", `null`, "top level"},
		{"empty document", ``, "top level"},
		{"duplicate member", `[{"type": "a.B", "type": "a.C"}]`, `entry 0: duplicate member "type"`},
		{"escaped duplicate member", `[{"type": "a.B", "typ\u0065": "a.C"}]`, `duplicate member "type"`},
		{"entry not object", `[["a.B"]]`, "entry 0"},
		{"unterminated array", `[{"type": "a.B"}`, "malformed"},
		{"proxy numbers", `[{"proxy": [1, 2]}]`, `member "proxy" must be an array of strings`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestSerialize(t *testing.T) {
	data, err := Serialize(sampleRegistry(t), DefaultWriteOptions())
	require.NoError(t, err)
	assert.Equal(t, sampleCanonical, string(data))

	_, err = Serialize(nil, DefaultWriteOptions())
	assert.Error(t, err)
}

func TestWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "proxy-config.json")

	require.NoError(t, Write(path, sampleRegistry(t), DefaultWriteOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCanonical, string(data))

	entries, err := Read(path)
	require.NoError(t, err)
	reloaded := configure.NewRegistry()
	for _, entry := range entries {
		d, err := entry.Descriptor()
		require.NoError(t, err)
		reloaded.Add(d)
	}

	again, err := Serialize(reloaded, DefaultWriteOptions())
	require.NoError(t, err)
	assert.Equal(t, sampleCanonical, string(again), "canonical output must be a fixed point")

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".proxy-config.json.*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary files must be cleaned up")
}

func TestWrite_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy-config.json.gz")
	require.NoError(t, Write(path, sampleRegistry(t), DefaultWriteOptions()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	require.NoError(t, err)
	var plain bytes.Buffer
	_, err = plain.ReadFrom(zr)
	require.NoError(t, err)
	assert.Equal(t, sampleCanonical, plain.String())

	entries, err := Read(path)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWrite_CompressOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxy-config.bin")
	opts := DefaultWriteOptions()
	opts.Compress = true
	require.NoError(t, Write(path, sampleRegistry(t), opts))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	plain, err := Decompress(raw)
	require.NoError(t, err)
	assert.Equal(t, sampleCanonical, string(plain))
}

func TestWrite_EmptyPath(t *testing.T) {
	err := Write("", sampleRegistry(t), DefaultWriteOptions())
	assert.Error(t, err)
}

func TestCompress_Errors(t *testing.T) {
	_, err := Compress(nil)
	assert.Error(t, err)

	_, err = Decompress(nil)
	assert.Error(t, err)

	_, err = Decompress([]byte("not gzip"))
	assert.Error(t, err)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecode_EmptyArray(t *testing.T) {
	entries, err := Decode(strings.NewReader(" [ ] \n"))
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestEntry_Descriptor(t *testing.T) {
	entries, err := Decode(strings.NewReader(`[{"type": "a.Good"}, {"type": "a..Bad"}, {"proxy": ["a.I", "9.J"]}, {"proxy": ["a.I"]}]`))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	d, err := entries[0].Descriptor()
	require.NoError(t, err)
	assert.Equal(t, "a.Good", d.String())

	_, err = entries[1].Descriptor()
	assert.ErrorIs(t, err, configure.ErrInvalidConfigurationName)
	assert.Equal(t, "a..Bad", entries[1].Label())

	_, err = entries[2].Descriptor()
	var nameErr *configure.NameError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, 1, nameErr.Index)

	d, err = entries[3].Descriptor()
	require.NoError(t, err)
	assert.Equal(t, "$Proxy[a.I]", d.String())
}
