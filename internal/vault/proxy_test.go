package vault

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dkotelnikov/sos-vault/internal/crypto"
	"github.com/dkotelnikov/sos-vault/internal/logger"
	"github.com/dkotelnikov/sos-vault/internal/mock"
	"github.com/dkotelnikov/sos-vault/internal/store"
	"github.com/dkotelnikov/sos-vault/models"
)

// fakeDB is a shared in-memory backend for the per-entity fake stores.
// It emulates the schema-level policies the real migrations install:
// deleting a user cascades to their units, deleting a category detaches
// its units.
type fakeDB struct {
	users      []models.User
	categories []models.Category
	units      []models.Unit
	seq        int
}

func (d *fakeDB) nextID() string {
	d.seq++
	return fmt.Sprintf("fake-%d", d.seq)
}

type fakeStore struct {
	kind models.EntityKind
	db   *fakeDB
}

func (s *fakeStore) Kind() models.EntityKind { return s.kind }

func matchNullable(have *string, want any) bool {
	if want == nil {
		return have == nil
	}
	switch w := want.(type) {
	case string:
		return have != nil && *have == w
	case *string:
		if w == nil {
			return have == nil
		}
		return have != nil && *have == *w
	}
	return false
}

func (s *fakeStore) matchUser(u models.User, filters models.Filters) bool {
	for key, want := range filters {
		switch key {
		case models.FieldID:
			if want != u.ID {
				return false
			}
		case models.FieldUsername:
			if want != u.Username {
				return false
			}
		case models.FieldPasswordVerifier:
			if want != u.PasswordVerifier {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (s *fakeStore) matchCategory(c models.Category, filters models.Filters) bool {
	for key, want := range filters {
		switch key {
		case models.FieldID:
			if want != c.ID {
				return false
			}
		case models.FieldName:
			if want != c.Name {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (s *fakeStore) matchUnit(u models.Unit, filters models.Filters) bool {
	for key, want := range filters {
		switch key {
		case models.FieldID:
			if want != u.ID {
				return false
			}
		case models.FieldOwnerID:
			if want != u.OwnerID {
				return false
			}
		case models.FieldLogin:
			if want != u.Login {
				return false
			}
		case models.FieldSecret:
			if want != u.Secret {
				return false
			}
		case models.FieldCategoryID:
			if !matchNullable(u.CategoryID, want) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (s *fakeStore) GetMany(_ context.Context, filters models.Filters) ([]models.Record, error) {
	var out []models.Record
	switch s.kind {
	case models.KindUser:
		for _, u := range s.db.users {
			if s.matchUser(u, filters) {
				out = append(out, u)
			}
		}
	case models.KindCategory:
		for _, c := range s.db.categories {
			if s.matchCategory(c, filters) {
				out = append(out, c)
			}
		}
	case models.KindUnit:
		for _, u := range s.db.units {
			if s.matchUnit(u, filters) {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, filters models.Filters) (models.Record, error) {
	records, err := s.GetMany(ctx, filters)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, store.ErrRecordNotFound
	}
	return records[0], nil
}

func optString(v any) *string {
	switch t := v.(type) {
	case string:
		return &t
	case *string:
		return t
	}
	return nil
}

func (s *fakeStore) Create(_ context.Context, data models.Fields) error {
	switch s.kind {
	case models.KindUser:
		username, _ := data[models.FieldUsername].(string)
		for _, u := range s.db.users {
			if u.Username == username {
				return store.ErrAlreadyExists
			}
		}
		verifier, _ := data[models.FieldPasswordVerifier].(string)
		s.db.users = append(s.db.users, models.User{
			ID:               s.db.nextID(),
			Username:         username,
			PasswordVerifier: verifier,
		})

	case models.KindCategory:
		name, _ := data[models.FieldName].(string)
		for _, c := range s.db.categories {
			if c.Name == name {
				return store.ErrAlreadyExists
			}
		}
		s.db.categories = append(s.db.categories, models.Category{ID: s.db.nextID(), Name: name})

	case models.KindUnit:
		ownerID, _ := data[models.FieldOwnerID].(string)
		login, _ := data[models.FieldLogin].(string)
		for _, u := range s.db.units {
			if u.OwnerID == ownerID && u.Login == login {
				return store.ErrAlreadyExists
			}
		}
		secret, _ := data[models.FieldSecret].(string)
		s.db.units = append(s.db.units, models.Unit{
			ID:         s.db.nextID(),
			OwnerID:    ownerID,
			Login:      login,
			Secret:     secret,
			CategoryID: optString(data[models.FieldCategoryID]),
			URL:        optString(data[models.FieldURL]),
			Alias:      optString(data[models.FieldAlias]),
		})
	}
	return nil
}

func (s *fakeStore) Update(_ context.Context, filters models.Filters, data models.Fields) error {
	switch s.kind {
	case models.KindUser:
		for i, u := range s.db.users {
			if !s.matchUser(u, filters) {
				continue
			}
			if v, ok := data[models.FieldUsername].(string); ok {
				s.db.users[i].Username = v
			}
			if v, ok := data[models.FieldPasswordVerifier].(string); ok {
				s.db.users[i].PasswordVerifier = v
			}
		}
	case models.KindUnit:
		for i, u := range s.db.units {
			if !s.matchUnit(u, filters) {
				continue
			}
			if v, ok := data[models.FieldSecret].(string); ok {
				s.db.units[i].Secret = v
			}
		}
	}
	return nil
}

func (s *fakeStore) Delete(_ context.Context, filters models.Filters) error {
	switch s.kind {
	case models.KindUser:
		var kept []models.User
		for _, u := range s.db.users {
			if s.matchUser(u, filters) {
				// owner cascade
				var units []models.Unit
				for _, unit := range s.db.units {
					if unit.OwnerID != u.ID {
						units = append(units, unit)
					}
				}
				s.db.units = units
				continue
			}
			kept = append(kept, u)
		}
		s.db.users = kept

	case models.KindCategory:
		var kept []models.Category
		for _, c := range s.db.categories {
			if s.matchCategory(c, filters) {
				// detach, never delete, the member units
				for i, unit := range s.db.units {
					if unit.CategoryID != nil && *unit.CategoryID == c.ID {
						s.db.units[i].CategoryID = nil
					}
				}
				continue
			}
			kept = append(kept, c)
		}
		s.db.categories = kept

	case models.KindUnit:
		var kept []models.Unit
		for _, u := range s.db.units {
			if !s.matchUnit(u, filters) {
				kept = append(kept, u)
			}
		}
		s.db.units = kept
	}
	return nil
}

type testVault struct {
	db         *fakeDB
	users      store.RecordStore
	categories store.RecordStore
	units      store.RecordStore
	proxy      *Proxy
}

func newTestVault(t *testing.T) *testVault {
	t.Helper()

	db := &fakeDB{}
	users := &fakeStore{kind: models.KindUser, db: db}
	proxy, err := NewProxy(users, users, crypto.NewKeyChain(), crypto.NewCipher(), logger.Nop())
	require.NoError(t, err)

	return &testVault{
		db:         db,
		users:      users,
		categories: &fakeStore{kind: models.KindCategory, db: db},
		units:      &fakeStore{kind: models.KindUnit, db: db},
		proxy:      proxy,
	}
}

func (tv *testVault) registerUser(t *testing.T, username, password string) {
	t.Helper()
	tv.proxy.Rebind(tv.users)
	require.NoError(t, tv.proxy.CreateRecord(context.Background(), models.Fields{
		models.FieldUsername: username,
		models.FieldPassword: password,
	}))
}

func (tv *testVault) addUnit(t *testing.T, username, password, login, secret string) {
	t.Helper()
	tv.proxy.Rebind(tv.units)
	require.NoError(t, tv.proxy.CreateRecord(context.Background(), models.Fields{
		models.FieldUsername: username,
		models.FieldPassword: password,
		models.FieldLogin:    login,
		models.FieldSecret:   secret,
	}))
}

func TestNewProxy_RequiresUserManager(t *testing.T) {
	db := &fakeDB{}
	units := &fakeStore{kind: models.KindUnit, db: db}

	_, err := NewProxy(units, units, crypto.NewKeyChain(), crypto.NewCipher(), logger.Nop())
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = NewProxy(units, nil, crypto.NewKeyChain(), crypto.NewCipher(), logger.Nop())
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestNewProxy_NilBoundDefaultsToUsers(t *testing.T) {
	db := &fakeDB{}
	users := &fakeStore{kind: models.KindUser, db: db}

	p, err := NewProxy(nil, users, crypto.NewKeyChain(), crypto.NewCipher(), logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, models.KindUser, p.Manager().Kind())
}

func TestProxy_UserRegistrationAndCheckPassword(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")

	require.Len(t, tv.db.users, 1)
	stored := tv.db.users[0]
	assert.NotEmpty(t, stored.PasswordVerifier)
	assert.NotEqual(t, "secret1", stored.PasswordVerifier)

	ok, err := tv.proxy.CheckPassword(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tv.proxy.CheckPassword(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = tv.proxy.CheckPassword(ctx, "nobody", "secret1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProxy_CheckPassword_RequiresUserBinding(t *testing.T) {
	tv := newTestVault(t)
	tv.proxy.Rebind(tv.units)

	_, err := tv.proxy.CheckPassword(context.Background(), "alice", "secret1")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestProxy_CreateUser_MissingCredentials(t *testing.T) {
	tv := newTestVault(t)

	err := tv.proxy.CreateRecord(context.Background(), models.Fields{models.FieldUsername: "alice"})
	assert.ErrorIs(t, err, ErrCredentialsRequired)

	err = tv.proxy.CreateRecord(context.Background(), models.Fields{models.FieldPassword: "secret1"})
	assert.ErrorIs(t, err, ErrCredentialsRequired)
}

func TestProxy_CreateUnit_EncryptsSecretAtRest(t *testing.T) {
	tv := newTestVault(t)
	tv.registerUser(t, "alice", "secret1")
	tv.addUnit(t, "alice", "secret1", "github", "tok_123")

	require.Len(t, tv.db.units, 1)
	stored := tv.db.units[0]

	assert.NotEqual(t, "tok_123", stored.Secret, "secret must not be stored in cleartext")
	assert.NotEmpty(t, stored.OwnerID)
	assert.Equal(t, tv.db.users[0].ID, stored.OwnerID)
}

func TestProxy_CreateUnit_WrongCredentials(t *testing.T) {
	tv := newTestVault(t)
	tv.registerUser(t, "alice", "secret1")
	tv.proxy.Rebind(tv.units)

	err := tv.proxy.CreateRecord(context.Background(), models.Fields{
		models.FieldUsername: "alice",
		models.FieldPassword: "wrong",
		models.FieldLogin:    "github",
		models.FieldSecret:   "tok_123",
	})
	assert.ErrorIs(t, err, ErrWrongCredentials)
	assert.Empty(t, tv.db.units, "nothing may be written under an unverified key")
}

func TestProxy_CreateUnit_DuplicateLogin(t *testing.T) {
	tv := newTestVault(t)
	tv.registerUser(t, "alice", "secret1")
	tv.addUnit(t, "alice", "secret1", "github", "tok_123")

	err := tv.proxy.CreateRecord(context.Background(), models.Fields{
		models.FieldUsername: "alice",
		models.FieldPassword: "secret1",
		models.FieldLogin:    "github",
		models.FieldSecret:   "tok_456",
	})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestProxy_RevealSecret_RoundTrip(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")
	tv.addUnit(t, "alice", "secret1", "github", "tok_123")

	secret, err := tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice",
		models.FieldPassword: "secret1",
		models.FieldLogin:    "github",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_123", secret)
}

func TestProxy_RevealSecret_WrongPassword(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")
	tv.addUnit(t, "alice", "secret1", "github", "tok_123")

	_, err := tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice",
		models.FieldPassword: "wrong",
		models.FieldLogin:    "github",
	})
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

func TestProxy_RevealSecret_UnknownLogin(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")
	tv.addUnit(t, "alice", "secret1", "github", "tok_123")

	_, err := tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice",
		models.FieldPassword: "secret1",
		models.FieldLogin:    "gitlab",
	})
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestProxy_RevealSecret_ScopedToOwner(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")
	tv.registerUser(t, "bob", "hunter2")
	tv.addUnit(t, "alice", "secret1", "github", "tok_alice")

	// bob has no github unit; alice's must be invisible to him
	_, err := tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "bob",
		models.FieldPassword: "hunter2",
		models.FieldLogin:    "github",
	})
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestProxy_RevealSecret_DeletedOwnerCascades(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")
	tv.addUnit(t, "alice", "secret1", "github", "tok_123")

	tv.proxy.Rebind(tv.users)
	require.NoError(t, tv.proxy.DeleteRecord(ctx, models.Filters{models.FieldUsername: "alice"}))
	assert.Empty(t, tv.db.units, "owner deletion must cascade to units")

	tv.proxy.Rebind(tv.units)
	_, err := tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice",
		models.FieldPassword: "secret1",
		models.FieldLogin:    "github",
	})
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestProxy_RevealSecret_RequiresUnitBinding(t *testing.T) {
	tv := newTestVault(t)

	_, err := tv.proxy.RevealSecret(context.Background(), models.Filters{
		models.FieldUsername: "alice",
		models.FieldPassword: "secret1",
		models.FieldLogin:    "github",
	})
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestProxy_RevealSecret_MissingCredentials(t *testing.T) {
	tv := newTestVault(t)
	tv.proxy.Rebind(tv.units)

	_, err := tv.proxy.RevealSecret(context.Background(), models.Filters{
		models.FieldLogin: "github",
	})
	assert.ErrorIs(t, err, ErrCredentialsRequired)
}

func TestProxy_UpdateSecret_ReEncrypts(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")
	tv.addUnit(t, "alice", "secret1", "github", "tok_123")
	before := tv.db.units[0].Secret

	require.NoError(t, tv.proxy.UpdateSecret(ctx,
		models.Filters{models.FieldLogin: "github"},
		"alice", "secret1", "tok_456"))

	assert.NotEqual(t, before, tv.db.units[0].Secret)
	assert.NotEqual(t, "tok_456", tv.db.units[0].Secret)

	secret, err := tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice",
		models.FieldPassword: "secret1",
		models.FieldLogin:    "github",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_456", secret)
}

func TestProxy_UpdateSecret_WrongCredentials(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")
	tv.addUnit(t, "alice", "secret1", "github", "tok_123")
	before := tv.db.units[0].Secret

	err := tv.proxy.UpdateSecret(ctx,
		models.Filters{models.FieldLogin: "github"},
		"alice", "wrong", "tok_456")
	assert.ErrorIs(t, err, ErrWrongCredentials)
	assert.Equal(t, before, tv.db.units[0].Secret, "a failed update must not touch the blob")
}

func TestProxy_RotateCredentials_ReWrapsAllUnits(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")
	tv.addUnit(t, "alice", "secret1", "github", "tok_123")
	tv.addUnit(t, "alice", "secret1", "gitlab", "tok_456")

	require.NoError(t, tv.proxy.RotateCredentials(ctx, "alice", "secret1", "alice2", "secret2"))

	assert.Equal(t, "alice2", tv.db.users[0].Username)

	secret, err := tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice2",
		models.FieldPassword: "secret2",
		models.FieldLogin:    "github",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_123", secret)

	secret, err = tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice2",
		models.FieldPassword: "secret2",
		models.FieldLogin:    "gitlab",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_456", secret)

	// old identity is gone
	_, err = tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice",
		models.FieldPassword: "secret1",
		models.FieldLogin:    "github",
	})
	assert.ErrorIs(t, err, store.ErrRecordNotFound)
}

func TestProxy_RotateCredentials_PasswordOnly(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")
	tv.addUnit(t, "alice", "secret1", "github", "tok_123")

	require.NoError(t, tv.proxy.RotateCredentials(ctx, "alice", "secret1", "", "secret2"))

	assert.Equal(t, "alice", tv.db.users[0].Username)

	_, err := tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice",
		models.FieldPassword: "secret1",
		models.FieldLogin:    "github",
	})
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)

	secret, err := tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice",
		models.FieldPassword: "secret2",
		models.FieldLogin:    "github",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_123", secret)
}

func TestProxy_RotateCredentials_WrongOldPassword(t *testing.T) {
	tv := newTestVault(t)

	tv.registerUser(t, "alice", "secret1")
	tv.proxy.Rebind(tv.units)

	err := tv.proxy.RotateCredentials(context.Background(), "alice", "wrong", "alice2", "secret2")
	assert.ErrorIs(t, err, ErrWrongCredentials)
	assert.Equal(t, "alice", tv.db.users[0].Username)
}

func TestProxy_CategoryDeletionDetachesUnits(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")

	tv.proxy.Rebind(tv.categories)
	require.NoError(t, tv.proxy.CreateRecord(ctx, models.Fields{models.FieldName: "work"}))
	categoryID := tv.db.categories[0].ID

	tv.proxy.Rebind(tv.units)
	require.NoError(t, tv.proxy.CreateRecord(ctx, models.Fields{
		models.FieldUsername:   "alice",
		models.FieldPassword:   "secret1",
		models.FieldLogin:      "github",
		models.FieldSecret:     "tok_123",
		models.FieldCategoryID: categoryID,
	}))

	tv.proxy.Rebind(tv.categories)
	require.NoError(t, tv.proxy.DeleteRecord(ctx, models.Filters{models.FieldName: "work"}))

	require.Len(t, tv.db.units, 1, "category deletion must not delete member units")
	assert.Nil(t, tv.db.units[0].CategoryID)

	// the detached secret is still readable
	tv.proxy.Rebind(tv.units)
	secret, err := tv.proxy.RevealSecret(ctx, models.Filters{
		models.FieldUsername: "alice",
		models.FieldPassword: "secret1",
		models.FieldLogin:    "github",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok_123", secret)
}

func TestProxy_CheckExists(t *testing.T) {
	tv := newTestVault(t)
	ctx := context.Background()

	tv.registerUser(t, "alice", "secret1")

	exists, err := tv.proxy.CheckExists(ctx, models.Filters{models.FieldUsername: "alice"})
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = tv.proxy.CheckExists(ctx, models.Filters{models.FieldUsername: "bob"})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProxy_UpdateRecordDelegates(t *testing.T) {
	ctrl := gomock.NewController(t)

	users := mock.NewMockRecordStore(ctrl)
	users.EXPECT().Kind().Return(models.KindUser).AnyTimes()

	p, err := NewProxy(users, users, crypto.NewKeyChain(), crypto.NewCipher(), logger.Nop())
	require.NoError(t, err)

	filters := models.Filters{models.FieldUsername: "alice"}
	data := models.Fields{models.FieldUsername: "alice2"}
	users.EXPECT().Update(gomock.Any(), filters, data).Return(nil)

	assert.NoError(t, p.UpdateRecord(context.Background(), filters, data))
}

func TestProxy_DeleteRecordDelegates(t *testing.T) {
	ctrl := gomock.NewController(t)

	users := mock.NewMockRecordStore(ctrl)
	users.EXPECT().Kind().Return(models.KindUser).AnyTimes()

	p, err := NewProxy(users, users, crypto.NewKeyChain(), crypto.NewCipher(), logger.Nop())
	require.NoError(t, err)

	filters := models.Filters{models.FieldUsername: "alice"}
	users.EXPECT().Delete(gomock.Any(), filters).Return(nil)

	assert.NoError(t, p.DeleteRecord(context.Background(), filters))
}

func TestProxy_CheckExistsPropagatesStoreFaults(t *testing.T) {
	ctrl := gomock.NewController(t)

	users := mock.NewMockRecordStore(ctrl)
	users.EXPECT().Kind().Return(models.KindUser).AnyTimes()

	p, err := NewProxy(users, users, crypto.NewKeyChain(), crypto.NewCipher(), logger.Nop())
	require.NoError(t, err)

	users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, store.ErrStoreFailure)

	_, err = p.CheckExists(context.Background(), models.Filters{models.FieldUsername: "alice"})
	assert.ErrorIs(t, err, store.ErrStoreFailure)
}
