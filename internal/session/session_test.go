package session

import (
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/localstore"
)

func TestParseRole(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Role{"user": RoleUser, "admin": RoleAdmin, " Admin ": RoleAdmin} {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}
	for _, in := range []string{"", "root", "superadmin"} {
		_, err := ParseRole(in)
		require.True(t, errors.Is(err, ErrInvalidRole), in)
	}
}

func TestSessionTransitions(t *testing.T) {
	t.Parallel()
	s := Default()
	require.False(t, s.LoggedIn)
	require.Equal(t, RoleUser, s.Role)

	s.Login()
	require.True(t, s.LoggedIn)
	require.Equal(t, RoleUser, s.Role, "login must not touch role")

	s.SetRole(RoleAdmin)
	require.True(t, s.IsAdmin())

	s.Logout()
	require.False(t, s.LoggedIn)
	require.Equal(t, RoleUser, s.Role)
	require.False(t, s.IsAdmin())
}

func TestRestore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		creds Credentials
		want  Session
	}{
		{"empty", Credentials{}, Default()},
		{"identity only", Credentials{ID: "u1"}, Default()},
		{"missing role", Credentials{ID: "u1", Token: "t"}, Default()},
		{"missing token", Credentials{ID: "u1", Role: "admin"}, Default()},
		{"unknown role", Credentials{ID: "u1", Token: "t", Role: "root"}, Default()},
		{"user", Credentials{ID: "u1", Token: "t", Role: "user"}, Session{LoggedIn: true, Role: RoleUser}},
		{"admin", Credentials{ID: "u1", Token: "t", Role: "admin"}, Session{LoggedIn: true, Role: RoleAdmin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Restore(tt.creds))
		})
	}
}

func TestManager_LoadWithoutRecordIsLoggedOut(t *testing.T) {
	t.Parallel()
	m := Load(localstore.NewMemory())
	require.Equal(t, Session{LoggedIn: false, Role: RoleUser}, m.Session())
	require.Empty(t, m.Token())
}

func TestManager_LoadIgnoresCorruptRecord(t *testing.T) {
	t.Parallel()
	store := localstore.NewMemory()
	require.NoError(t, store.Set(StorageKey, "{not json"))
	m := Load(store)
	require.False(t, m.Session().LoggedIn)
}

func TestManager_SignInPersistsAndRestores(t *testing.T) {
	t.Parallel()
	store := localstore.NewMemory()
	m := Load(store)

	require.NoError(t, m.SignedIn("u42", "tok", "admin"))
	require.Equal(t, Session{LoggedIn: true, Role: RoleAdmin}, m.Session())
	require.Equal(t, "tok", m.Token())
	require.Equal(t, "u42", m.UserID())

	again := Load(store)
	require.Equal(t, Session{LoggedIn: true, Role: RoleAdmin}, again.Session())
	require.Equal(t, "tok", again.Token())

	require.NoError(t, again.SignOut())
	require.Equal(t, Default(), again.Session())
	_, ok := store.Get(StorageKey)
	require.False(t, ok)
	require.False(t, Load(store).Session().LoggedIn)
}

func TestManager_SignInRejectsBadRole(t *testing.T) {
	t.Parallel()
	store := localstore.NewMemory()
	m := Load(store)
	err := m.SignedIn("u1", "tok", "librarian")
	require.ErrorIs(t, err, ErrInvalidRole)
	require.False(t, m.Session().LoggedIn)
	_, ok := store.Get(StorageKey)
	require.False(t, ok)
}

func TestInspectToken(t *testing.T) {
	t.Parallel()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name": "reader",
		"exp":  exp.Unix(),
	}).SignedString([]byte("other-key"))
	require.NoError(t, err)

	info, err := InspectToken(signed)
	require.NoError(t, err)
	require.Equal(t, "reader", info.Subject)
	require.True(t, info.ExpiresAt.Equal(exp))
	require.False(t, info.Expired(time.Now()))
	require.True(t, info.Expired(exp.Add(time.Second)))

	_, err = InspectToken("opaque-token")
	require.Error(t, err)
}
