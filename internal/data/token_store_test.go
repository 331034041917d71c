//go:build integration

package data

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TokenStoreTestSuite runs the token store against a fresh database file per test.
type TokenStoreTestSuite struct {
	suite.Suite
	store *TokenStore
	ctx   context.Context
}

func (suite *TokenStoreTestSuite) SetupTest() {
	db, err := NewDB(filepath.Join(suite.T().TempDir(), "state.db"))
	require.NoError(suite.T(), err, "failed to create test database")
	suite.T().Cleanup(func() { db.Close() })
	suite.store = NewTokenStore(db)
	suite.ctx = context.Background()
}

func (suite *TokenStoreTestSuite) TestLoadEmpty() {
	creds, err := suite.store.Load(suite.ctx)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), creds.Valid())
	assert.Equal(suite.T(), Credentials{}, creds)
}

func (suite *TokenStoreTestSuite) TestSaveAndLoad() {
	require.NoError(suite.T(), suite.store.Save(suite.ctx, "abc123", "alice"))

	creds, err := suite.store.Load(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), Credentials{Token: "abc123", Username: "alice"}, creds)
}

func (suite *TokenStoreTestSuite) TestSaveOverwrites() {
	require.NoError(suite.T(), suite.store.Save(suite.ctx, "abc123", "alice"))
	require.NoError(suite.T(), suite.store.Save(suite.ctx, "def456", "bob"))

	creds, err := suite.store.Load(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "def456", creds.Token)
	assert.Equal(suite.T(), "bob", creds.Username)
}

func (suite *TokenStoreTestSuite) TestSaveRejectsHalfPair() {
	assert.ErrorIs(suite.T(), suite.store.Save(suite.ctx, "", "alice"), ErrIncompleteCredentials)
	assert.ErrorIs(suite.T(), suite.store.Save(suite.ctx, "abc123", ""), ErrIncompleteCredentials)

	var count int
	require.NoError(suite.T(), suite.store.db.Get(&count, "SELECT COUNT(*) FROM credentials"))
	assert.Zero(suite.T(), count, "nothing should have been written")
}

func (suite *TokenStoreTestSuite) TestLoadIgnoresCorruptPair() {
	suite.store.db.MustExec("INSERT INTO credentials (key, value) VALUES (?, ?)", TokenKey, "orphan")

	creds, err := suite.store.Load(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), Credentials{}, creds)

	suite.store.db.MustExec("INSERT INTO credentials (key, value) VALUES (?, ?)", UsernameKey, "")
	creds, err = suite.store.Load(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), Credentials{}, creds)
}

func (suite *TokenStoreTestSuite) TestClearRemovesAuxiliaryFlag() {
	require.NoError(suite.T(), suite.store.Save(suite.ctx, "abc123", "alice"))
	suite.store.db.MustExec("INSERT INTO credentials (key, value) VALUES (?, ?)", AuthenticatedFlag, "true")

	require.NoError(suite.T(), suite.store.Clear(suite.ctx))

	var count int
	require.NoError(suite.T(), suite.store.db.Get(&count, "SELECT COUNT(*) FROM credentials"))
	assert.Zero(suite.T(), count)
}

func (suite *TokenStoreTestSuite) TestNeverReturnsHalfPair() {
	rng := rand.New(rand.NewSource(7))
	users := []string{"alice", "bob", ""}
	tokens := []string{"t1", "t2", ""}

	for i := 0; i < 200; i++ {
		if rng.Intn(3) == 0 {
			require.NoError(suite.T(), suite.store.Clear(suite.ctx))
		} else {
			// Invalid pairs are rejected; the store must stay consistent either way.
			_ = suite.store.Save(suite.ctx, tokens[rng.Intn(len(tokens))], users[rng.Intn(len(users))])
		}

		creds, err := suite.store.Load(suite.ctx)
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), creds.Token == "", creds.Username == "", "iteration %d returned %+v", i, creds)
	}
}

func TestTokenStoreTestSuite(t *testing.T) {
	suite.Run(t, new(TokenStoreTestSuite))
}
