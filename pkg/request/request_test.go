package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/webauth-in-go/pkg/diag"
)

func TestTransaction_GetSetRemove(t *testing.T) {
	tx := New(diag.Discard)

	_, ok := tx.Get("webauth_token_app")
	assert.False(t, ok)

	tx.Set("webauth_token_app", "first")
	tx.Set("webauth_token_app", "second")
	v, ok := tx.Get("webauth_token_app")
	require.True(t, ok)
	assert.Equal(t, "second", v, "set overwrites silently")

	v, ok = tx.Remove("webauth_token_app")
	require.True(t, ok)
	assert.Equal(t, "second", v)

	v, ok = tx.Remove("webauth_token_app")
	assert.False(t, ok, "removing an absent key reports absence")
	assert.Nil(t, v)
	assert.Zero(t, tx.Len())
}

func TestTransaction_SubOperationsShareRoot(t *testing.T) {
	x := New(diag.Discard)
	a := x.Sub()
	b := x.Sub().Sub()

	a.Set("k", 42)

	v, ok := b.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	v, ok = x.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = b.Remove("k")
	require.True(t, ok)
	_, ok = a.Get("k")
	assert.False(t, ok)
}

func TestTransaction_Isolation(t *testing.T) {
	x := New(diag.Discard)
	y := New(diag.Discard)

	x.Sub().Set("webauth_token_webkdc-factor", "x-token")

	_, ok := y.Get("webauth_token_webkdc-factor")
	assert.False(t, ok)
	_, ok = y.Sub().Get("webauth_token_webkdc-factor")
	assert.False(t, ok)
	assert.NotEqual(t, x.ID(), y.ID())
}

func TestTransaction_Main(t *testing.T) {
	rec := &diag.Recorder{}
	root := New(rec)
	sub := root.Sub().Sub()

	assert.True(t, root.IsMain())
	assert.False(t, sub.IsMain())
	assert.Same(t, root, root.Main())
	assert.Same(t, root, sub.Main())
	assert.Equal(t, root.ID(), sub.ID())
	assert.Same(t, rec, sub.Sink())
}

func TestTransaction_ValuesHeldByReference(t *testing.T) {
	tx := New(nil)
	m := map[string]string{"s": "alice"}
	tx.Set("m", m)

	m["s"] = "bob"
	v, _ := tx.Sub().Get("m")
	assert.Equal(t, "bob", v.(map[string]string)["s"])
	assert.NotNil(t, tx.Sink())
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	tx := New(diag.Discard)
	got, ok := FromContext(NewContext(context.Background(), tx))
	require.True(t, ok)
	assert.Same(t, tx, got)
}
