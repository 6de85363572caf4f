package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestLoadAnonymous(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	in := &Session{
		Token: "tok-abc123",
		User:  Profile{Email: "ada@example.com", Username: "ada"},
	}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "tok-abc123", out.Token)
	assert.Equal(t, "ada@example.com", out.User.Email)
	assert.Equal(t, "ada", out.User.Username)
}

func TestSaveRejectsEmptyToken(t *testing.T) {
	store := newTestStore(t)

	assert.Error(t, store.Save(nil))
	assert.Error(t, store.Save(&Session{}))
}

func TestLoadMalformedTearsDown(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(store.path), 0755))
	require.NoError(t, os.WriteFile(store.path, []byte("{not json"), 0600))

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	// The broken record must be gone.
	_, statErr := os.Stat(store.path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLoadTokenlessRecordIsAnonymous(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, os.WriteFile(store.path, []byte(`{"user":{"email":"x@y.z"}}`), 0600))

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestClearIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(&Session{Token: "tok"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		sess Session
		want string
	}{
		{"email wins", Session{User: Profile{Email: "a@b.c", Username: "ab"}}, "a@b.c"},
		{"username fallback", Session{User: Profile{Username: "ab"}}, "ab"},
		{"generic fallback", Session{}, "User"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.DisplayName())
		})
	}
}
