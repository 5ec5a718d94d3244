package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gradebook/internal/common"
	"github.com/dmitrijs2005/gradebook/internal/config"
	"github.com/dmitrijs2005/gradebook/internal/cryptox"
	"github.com/dmitrijs2005/gradebook/internal/logging"
	"github.com/dmitrijs2005/gradebook/internal/models"
	"github.com/dmitrijs2005/gradebook/internal/repositories/repomanager"
	"github.com/dmitrijs2005/gradebook/internal/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- fakes ---

type fakeStore struct {
	repo users.Repository
}

func (f *fakeStore) Users() users.Repository { return f.repo }

func (f *fakeStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error {
	return fn(ctx, f.repo)
}

func (f *fakeStore) Close() error { return nil }

// brokenRepo fails every call with err.
type brokenRepo struct{ err error }

func (b brokenRepo) Create(context.Context, *models.User) (*models.User, error) { return nil, b.err }
func (b brokenRepo) GetUserByLogin(context.Context, string) (*models.User, error) {
	return nil, b.err
}
func (b brokenRepo) List(context.Context) ([]*models.User, error) { return nil, b.err }
func (b brokenRepo) UpdatePasswordHash(context.Context, string, string) error { return b.err }
func (b brokenRepo) Delete(context.Context, string) error { return b.err }
func (b brokenRepo) Count(context.Context) (int, error) { return 0, b.err }

// countingHasher records Verify calls on top of the legacy driver.
type countingHasher struct {
	cryptox.SHA256Hasher
	mu       sync.Mutex
	verifies int
}

func (c *countingHasher) Verify(password []byte, encoded string) (bool, error) {
	c.mu.Lock()
	c.verifies++
	c.mu.Unlock()
	return c.SHA256Hasher.Verify(password, encoded)
}

// --- helpers ---

func testManager(t *testing.T, def cryptox.DriverName) *cryptox.Manager {
	t.Helper()
	m, err := cryptox.NewManager(def,
		cryptox.SHA256Hasher{},
		cryptox.NewArgon2idHasher(cryptox.Argon2Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}),
		cryptox.NewBcryptHasher(bcrypt.MinCost),
	)
	require.NoError(t, err)
	return m
}

func newService(t *testing.T, store repomanager.Store, hasher cryptox.Hasher, rehash bool) *UserService {
	t.Helper()
	s, err := NewUserService(store, hasher, &config.Config{RehashOnLogin: rehash}, logging.Discard())
	require.NoError(t, err)
	return s
}

func seededStore(t *testing.T) *fakeStore {
	t.Helper()
	store := &fakeStore{repo: users.NewMemoryRepository()}
	s := newService(t, store, cryptox.SHA256Hasher{}, false)
	seeded, err := s.EnsureDefaults(context.Background())
	require.NoError(t, err)
	require.True(t, seeded)
	return store
}

// --- tests ---

func TestEnsureDefaults_SeedsLegacyHashes(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	admin, err := store.repo.GetUserByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92", admin.PasswordHash)

	teacher, err := store.repo.GetUserByLogin(ctx, "teacher")
	require.NoError(t, err)
	assert.False(t, teacher.IsAdmin)
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", teacher.PasswordHash)

	s := newService(t, store, cryptox.SHA256Hasher{}, false)
	seeded, err := s.EnsureDefaults(ctx)
	require.NoError(t, err)
	assert.False(t, seeded, "non-empty store must be left alone")
}

func TestAuthenticate(t *testing.T) {
	store := seededStore(t)
	s := newService(t, store, testManager(t, cryptox.DriverSHA256), false)
	ctx := context.Background()

	u, err := s.Authenticate(ctx, "admin", []byte("123456"))
	require.NoError(t, err)
	assert.Equal(t, "admin", u.UserName)
	assert.True(t, u.IsAdmin)

	_, err = s.Authenticate(ctx, "admin", []byte("1234567"))
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Authenticate(ctx, "nobody", []byte("123456"))
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Authenticate(ctx, "admin", nil)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticate_UnknownUserStillVerifies(t *testing.T) {
	h := &countingHasher{}
	s := newService(t, seededStore(t), h, false)

	_, err := s.Authenticate(context.Background(), "ghost", []byte("whatever"))
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Equal(t, 1, h.verifies)
}

func TestAuthenticate_UnusableStoredHash(t *testing.T) {
	repo := users.NewMemoryRepository(&models.User{UserName: "admin", PasswordHash: "plaintext", IsAdmin: true})
	s := newService(t, &fakeStore{repo: repo}, testManager(t, cryptox.DriverSHA256), false)

	_, err := s.Authenticate(context.Background(), "admin", []byte("plaintext"))
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticate_RepositoryFailure(t *testing.T) {
	s := newService(t, &fakeStore{repo: brokenRepo{err: errors.New("disk gone")}}, cryptox.SHA256Hasher{}, false)

	_, err := s.Authenticate(context.Background(), "admin", []byte("123456"))
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestAuthenticate_RehashOnLogin(t *testing.T) {
	store := seededStore(t)
	m := testManager(t, cryptox.DriverArgon2id)
	ctx := context.Background()

	t.Run("disabled keeps legacy hash", func(t *testing.T) {
		s := newService(t, store, m, false)
		_, err := s.Authenticate(ctx, "teacher", []byte("password"))
		require.NoError(t, err)

		u, _ := store.repo.GetUserByLogin(ctx, "teacher")
		d, _ := cryptox.DetectDriver(u.PasswordHash)
		assert.Equal(t, cryptox.DriverSHA256, d)
	})

	t.Run("enabled upgrades to default driver", func(t *testing.T) {
		s := newService(t, store, m, true)
		got, err := s.Authenticate(ctx, "teacher", []byte("password"))
		require.NoError(t, err)

		u, _ := store.repo.GetUserByLogin(ctx, "teacher")
		assert.True(t, strings.HasPrefix(u.PasswordHash, "$argon2id$"))
		assert.Equal(t, u.PasswordHash, got.PasswordHash)

		_, err = s.Authenticate(ctx, "teacher", []byte("password"))
		require.NoError(t, err, "upgraded hash must still verify")
		_, err = s.Authenticate(ctx, "teacher", []byte("Password"))
		require.ErrorIs(t, err, common.ErrorUnauthorized)
	})
}

func TestRegister(t *testing.T) {
	store := seededStore(t)
	s := newService(t, store, testManager(t, cryptox.DriverBcrypt), false)
	ctx := context.Background()

	u, err := s.Register(ctx, "alice42", []byte("s3cret"), false)
	require.NoError(t, err)
	assert.Equal(t, "alice42", u.UserName)
	assert.True(t, strings.HasPrefix(u.PasswordHash, "$2a$"))

	_, err = s.Authenticate(ctx, "alice42", []byte("s3cret"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"duplicate", "alice42", "s3cret", common.ErrorLoginAlreadyExists},
		{"name too short", "ab", "s3cret", common.ErrorInvalidLoginFormat},
		{"name too long", strings.Repeat("a", 21), "s3cret", common.ErrorInvalidLoginFormat},
		{"name with separator", "bob:1", "s3cret", common.ErrorInvalidLoginFormat},
		{"name with space", "bob smith", "s3cret", common.ErrorInvalidLoginFormat},
		{"password too short", "bobby", "12345", common.ErrorInvalidPasswordFormat},
		{"password too long", "bobby", strings.Repeat("x", 51), common.ErrorInvalidPasswordFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.username, []byte(tt.password), false)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegister_UserLimit(t *testing.T) {
	store := &fakeStore{repo: users.NewMemoryRepository()}
	s := newService(t, store, cryptox.SHA256Hasher{}, false)
	ctx := context.Background()

	for i := 0; i < MaxUsers; i++ {
		_, err := s.Register(ctx, fmt.Sprintf("user%02d", i), []byte("password"), false)
		require.NoError(t, err)
	}

	_, err := s.Register(ctx, "onemore", []byte("password"), false)
	require.ErrorIs(t, err, common.ErrorTooManyUsers)
}

func TestDelete(t *testing.T) {
	store := seededStore(t)
	s := newService(t, store, cryptox.SHA256Hasher{}, false)
	ctx := context.Background()

	require.ErrorIs(t, s.Delete(ctx, "admin", "admin"), common.ErrorSelfDelete)
	require.ErrorIs(t, s.Delete(ctx, "admin", "ghost"), common.ErrorNotFound)

	require.NoError(t, s.Delete(ctx, "admin", "teacher"))
	_, err := store.repo.GetUserByLogin(ctx, "teacher")
	require.ErrorIs(t, err, common.ErrorNotFound)

	// only admin is left; a different actor still may not remove it
	require.ErrorIs(t, s.Delete(ctx, "someone", "admin"), common.ErrorLastAccount)
}

func TestDelete_LastAccountOnFileStore(t *testing.T) {
	store := repomanager.NewFileStore(filepath.Join(t.TempDir(), "users.txt"))
	s := newService(t, store, cryptox.SHA256Hasher{}, false)
	ctx := context.Background()

	_, err := s.EnsureDefaults(ctx)
	require.NoError(t, err)

	// two concurrent removals of different accounts: exactly one may win
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, victim := range []string{"admin", "teacher"} {
		wg.Add(1)
		go func(i int, victim string) {
			defer wg.Done()
			errs[i] = s.Delete(ctx, "operator", victim)
		}(i, victim)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, common.ErrorLastAccount)
			failures++
		}
	}
	assert.Equal(t, 1, failures)

	n, err := store.Users().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestChangePassword(t *testing.T) {
	store := seededStore(t)
	s := newService(t, store, cryptox.SHA256Hasher{}, false)
	ctx := context.Background()

	require.NoError(t, s.ChangePassword(ctx, "teacher", []byte("newpass1")))
	_, err := s.Authenticate(ctx, "teacher", []byte("password"))
	require.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = s.Authenticate(ctx, "teacher", []byte("newpass1"))
	require.NoError(t, err)

	require.ErrorIs(t, s.ChangePassword(ctx, "teacher", []byte("short")), common.ErrorInvalidPasswordFormat)
	require.ErrorIs(t, s.ChangePassword(ctx, "ghost", []byte("longenough")), common.ErrorNotFound)
}

func TestList_SortedByName(t *testing.T) {
	store := seededStore(t)
	s := newService(t, store, cryptox.SHA256Hasher{}, false)
	ctx := context.Background()

	_, err := s.Register(ctx, "Zed", []byte("password"), false)
	require.NoError(t, err)
	_, err = s.Register(ctx, "bob", []byte("password"), true)
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(list))
	for _, u := range list {
		names = append(names, u.UserName)
	}
	assert.Equal(t, []string{"Zed", "admin", "bob", "teacher"}, names)
}

func TestList_RepositoryError(t *testing.T) {
	boom := errors.New("boom")
	s := newService(t, &fakeStore{repo: brokenRepo{err: boom}}, cryptox.SHA256Hasher{}, false)

	_, err := s.List(context.Background())
	require.ErrorIs(t, err, boom)

	_, err = s.EnsureDefaults(context.Background())
	require.ErrorIs(t, err, boom)
}
