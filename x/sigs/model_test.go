package sigs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/loomtest"
	"github.com/iov-one/loom/store"
)

func TestUserModel(t *testing.T) {
	kv := store.MemStore()

	bucket := NewBucket()
	addr := loomtest.NewAddress()

	// load fail
	obj, err := bucket.Get(kv, addr.Bytes())
	require.NoError(t, err)
	assert.Nil(t, obj)

	// create
	obj, err = bucket.GetOrCreate(kv, addr)
	require.NoError(t, err)
	require.NotNil(t, obj)
	assert.NoError(t, obj.Validate())
	user := AsUser(obj)
	assert.Equal(t, addr, user.Pubkey)
	assert.Equal(t, int64(0), user.Sequence)

	// set sequence
	assert.Error(t, user.CheckAndIncrementSequence(5))
	assert.NoError(t, user.CheckAndIncrementSequence(0))
	assert.Error(t, user.CheckAndIncrementSequence(0))
	assert.NoError(t, user.CheckAndIncrementSequence(1))
	assert.Equal(t, int64(2), user.Sequence)

	// save and load
	require.NoError(t, bucket.Save(kv, obj))
	obj2, err := bucket.Get(kv, addr.Bytes())
	require.NoError(t, err)
	require.NotNil(t, obj2)
	user2 := AsUser(obj2)
	assert.Equal(t, int64(2), user2.Sequence)
	assert.Equal(t, addr, user2.Pubkey)
}

func TestUserValidation(t *testing.T) {
	// fails with unset pubkey
	obj := NewUser(loom.Address{})
	assert.Error(t, obj.Validate())

	addr := loomtest.NewAddress()
	obj = NewUser(addr)
	assert.NoError(t, obj.Validate())

	// make sure negative sequence throw error
	AsUser(obj).Sequence = -30
	assert.Error(t, obj.Validate())
	AsUser(obj).Sequence = 17
	assert.NoError(t, obj.Validate())

	// sequence overflow is caught
	AsUser(obj).Sequence = (1 << 53) - 1
	assert.Error(t, AsUser(obj).CheckAndIncrementSequence((1<<53)-1))
}
