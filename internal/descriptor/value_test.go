package descriptor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddtest/internal/domain"
)

func TestDecode_Fixture(t *testing.T) {
	root, err := Decode("testdata/App.xctestrun")
	require.NoError(t, err)

	assert.Equal(t, []string{"AppTests", "AppUITests", "BuildSettings", "__xctestrun_metadata__"}, root.Keys())

	appTests, ok := root.Get("AppTests")
	require.True(t, ok)
	env, ok := appTests.Get(EnvironmentVariablesKey)
	require.True(t, ok)
	mode, ok := env.Get("OS_ACTIVITY_DT_MODE")
	require.True(t, ok)
	s, ok := mode.AsString()
	assert.True(t, ok)
	assert.Equal(t, "YES", s)

	uiTests, _ := root.Get("AppUITests")
	isUI, _ := uiTests.Get("IsUITestBundle")
	b, ok := isUI.AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	meta, _ := root.Get("__xctestrun_metadata__")
	version, _ := meta.Get("FormatVersion")
	n, ok := version.AsNumber()
	assert.True(t, ok)
	assert.Equal(t, float64(1), n)
}

func TestDecode_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Decode("testdata/does-not-exist.xctestrun")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMalformedDescriptor))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Decode("testdata/broken.xctestrun")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMalformedDescriptor))
	})

	t.Run("root is not a map", func(t *testing.T) {
		data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0"><array><string>a</string></array></plist>`)
		_, err := DecodeBytes(data)
		assert.Error(t, err)
	})
}

func TestValue_AccessorsNeverPanic(t *testing.T) {
	var nilValue *Value
	tree := Map(map[string]*Value{
		"s":   String("x"),
		"seq": Sequence(Number(1), Bool(false)),
	})

	assert.Equal(t, KindInvalid, nilValue.Kind())
	_, ok := nilValue.Get("anything")
	assert.False(t, ok)
	_, ok = nilValue.Index(0)
	assert.False(t, ok)
	assert.Equal(t, 0, nilValue.Len())

	s, _ := tree.Get("s")
	_, ok = s.Get("child")
	assert.False(t, ok, "string has no children")
	_, ok = s.AsSequence()
	assert.False(t, ok)
	_, ok = s.AsNumber()
	assert.False(t, ok)

	seq, _ := tree.Get("seq")
	assert.Equal(t, 2, seq.Len())
	_, ok = seq.Index(2)
	assert.False(t, ok)
	_, ok = seq.Index(-1)
	assert.False(t, ok)
	first, ok := seq.Index(0)
	require.True(t, ok)
	assert.Equal(t, KindNumber, first.Kind())
	assert.Nil(t, seq.Keys())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "map", KindMap.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
