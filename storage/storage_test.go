package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystems(t *testing.T) {
	tests := []struct {
		name    string
		storage System
	}{
		{
			name:    "memory",
			storage: NewMemoryStorage(),
		},
		{
			name:    "disk",
			storage: NewDiskStorage(t.TempDir()),
		},
	}
	if endpoint := os.Getenv("LOCALSTACK_ENDPOINT"); endpoint != "" {
		tests = append(tests, struct {
			name    string
			storage System
		}{
			name:    "s3",
			storage: newLocalStackStorage(t, endpoint),
		})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			_, err := tt.storage.Read(ctx, "days/missing.day")
			require.ErrorIs(t, err, ErrDoesNotExist)

			require.NoError(t, tt.storage.Write(ctx, "days/bakery.day", []byte("08:00-12:00")))
			require.NoError(t, tt.storage.Write(ctx, "days/bar.day", []byte("20:00-02:00")))
			require.NoError(t, tt.storage.Write(ctx, "other/x", []byte("x")))

			data, err := tt.storage.Read(ctx, "days/bakery.day")
			require.NoError(t, err)
			require.Equal(t, []byte("08:00-12:00"), data)

			keys, err := tt.storage.GetKeysWithPrefix(ctx, "days/")
			require.NoError(t, err)
			require.Equal(t, []string{"days/bakery.day", "days/bar.day"}, keys)

			require.NoError(t, tt.storage.Write(ctx, "days/bakery.day", []byte("09:00-12:00")))
			data, err = tt.storage.Read(ctx, "days/bakery.day")
			require.NoError(t, err)
			require.Equal(t, []byte("09:00-12:00"), data)

			require.NoError(t, tt.storage.Delete(ctx, "days/bakery.day"))
			require.NoError(t, tt.storage.Delete(ctx, "days/bakery.day"))

			_, err = tt.storage.Read(ctx, "days/bakery.day")
			require.ErrorIs(t, err, ErrDoesNotExist)

			keys, err = tt.storage.GetKeysWithPrefix(ctx, "days/")
			require.NoError(t, err)
			require.Equal(t, []string{"days/bar.day"}, keys)
		})
	}
}

func TestMemoryStorageCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStorage()

	in := []byte("abc")
	require.NoError(t, s.Write(ctx, "k", in))
	in[0] = 'z'

	out, err := s.Read(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), out)
}

func TestDiskStorageMissingDir(t *testing.T) {
	s := NewDiskStorage(t.TempDir() + "/not-there")

	keys, err := s.GetKeysWithPrefix(context.Background(), "days/")
	require.NoError(t, err)
	require.Empty(t, keys)
}
