package metadata

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openBolt(t *testing.T) *BoltRepository {
	t.Helper()
	r, err := OpenBolt(filepath.Join(t.TempDir(), "session.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestBolt_SetGetDelete(t *testing.T) {
	r := openBolt(t)
	ctx := context.Background()

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, r.Set(ctx, "k", []byte("one")))
	require.NoError(t, r.Set(ctx, "k", []byte("two")))

	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("two"), v)

	require.NoError(t, r.Delete(ctx, "k"))
	require.NoError(t, r.Delete(ctx, "k"))

	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestBolt_ValueSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.bolt")
	ctx := context.Background()

	r, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, r.Set(ctx, "credential_record", []byte{0xA1}))
	require.NoError(t, r.Close())

	r, err = OpenBolt(path)
	require.NoError(t, err)
	defer r.Close()

	v, err := r.Get(ctx, "credential_record")
	require.NoError(t, err)
	require.Equal(t, []byte{0xA1}, v)
}

func TestBolt_ClosedDatabaseErrors(t *testing.T) {
	r, err := OpenBolt(filepath.Join(t.TempDir(), "session.bolt"))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	_, err = r.Get(context.Background(), "k")
	require.ErrorContains(t, err, "failed to get metadata[k]")
	require.ErrorContains(t, r.Set(context.Background(), "k", []byte("v")), "failed to set metadata[k]")
}
