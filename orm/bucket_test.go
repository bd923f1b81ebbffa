package orm

import (
	"testing"

	"github.com/iov-one/loom"
	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest/assert"
	"github.com/iov-one/loom/store"
)

func TestBucketName(t *testing.T) {
	obj := NewSimpleObj(nil, &Counter{})

	assert.Panics(t, func() {
		// An invalid bucket name must crash.
		NewBucket("l33t", obj)
	})
}

func TestBucketNameCollision(t *testing.T) {
	const bucketName = "mybucket"
	var objkey = []byte("collision-key")

	o1 := NewSimpleObj(objkey, NewCounter(1))
	b1 := NewBucket(bucketName, o1)

	multiref, err := multiRefFromStrings("foobar", "other")
	assert.Nil(t, err)
	o2 := NewSimpleObj(objkey, multiref)
	b2 := NewBucket(bucketName, o2)

	db := store.MemStore()
	assert.Nil(t, b1.Save(db, o1))

	// Buckets do not know about each other. Saving an object under the
	// same key overwrites and because there is no check of stored data,
	// this operation does not fail.
	if err := b2.Save(db, o2); err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}

	// Loading an object using the wrong bucket must fail because the
	// serialized form does not match.
	if _, err := b1.Get(db, objkey); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func TestBucketCannotSaveInvalid(t *testing.T) {
	o := NewSimpleObj([]byte("mykey"), NewCounter(-999))
	b := NewBucket("mybucket", o)

	db := store.MemStore()
	if err := b.Save(db, o); !errors.ErrState.Is(err) {
		t.Fatalf("invalid object must not save: %s", err)
	}
}

func TestBucketGetSaveDelete(t *testing.T) {
	o := NewSimpleObj([]byte("mykey"), NewCounter(848))
	b := NewBucket("mybucket", o)
	db := store.MemStore()

	if err := b.Save(db, o); err != nil {
		t.Fatalf("cannot save: %s", err)
	}

	res, err := b.Get(db, []byte("mykey"))
	if err != nil {
		t.Fatalf("cannot get object: %s", err)
	}
	c, ok := res.Value().(*Counter)
	if !ok {
		t.Fatalf("unexpected type: %T", res.Value())
	}
	if c.Count != 848 {
		t.Fatalf("unexpected counter state: %d", c.Count)
	}

	// res holds a reference so updating it and saving overwrites state
	c.Count = 59
	assert.Nil(t, b.Save(db, res))
	res, err = b.Get(db, []byte("mykey"))
	assert.Nil(t, err)
	assert.Equal(t, int64(59), res.Value().(*Counter).Count)

	assert.Nil(t, b.Delete(db, []byte("mykey")))
	res, err = b.Get(db, []byte("mykey"))
	assert.Nil(t, err)
	if res != nil {
		t.Fatalf("deleted object still present: %v", res)
	}
}

func TestBucketSecondaryIndex(t *testing.T) {
	const idxName = "value"
	bucket := NewBucket("special", NewSimpleObj(nil, new(Counter))).
		WithIndex(idxName, byCount, false)
	db := store.MemStore()

	a := NewSimpleObj([]byte("a"), NewCounter(5))
	b := NewSimpleObj([]byte("b"), NewCounter(5))
	c := NewSimpleObj([]byte("c"), NewCounter(7))
	for _, o := range []Object{a, b, c} {
		assert.Nil(t, bucket.Save(db, o))
	}

	objs, err := bucket.GetIndexed(db, idxName, encodeCount(5))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(objs))
	assert.Equal(t, []byte("a"), objs[0].Key())
	assert.Equal(t, []byte("b"), objs[1].Key())

	// an update moves the object between index entries
	assert.Nil(t, bucket.Save(db, NewSimpleObj([]byte("a"), NewCounter(7))))
	objs, err = bucket.GetIndexed(db, idxName, encodeCount(7))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(objs))

	// delete clears the index
	assert.Nil(t, bucket.Delete(db, []byte("b")))
	objs, err = bucket.GetIndexed(db, idxName, encodeCount(5))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(objs))

	// deleting a missing object is a no-op
	assert.Nil(t, bucket.Delete(db, []byte("missing")))

	if _, err := bucket.GetIndexed(db, "nope", nil); !ErrInvalidIndex.Is(err) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBucketUniqueIndex(t *testing.T) {
	bucket := NewBucket("uniq", NewSimpleObj(nil, new(Counter))).
		WithIndex("value", byCount, true)
	db := store.MemStore()

	assert.Nil(t, bucket.Save(db, NewSimpleObj([]byte("a"), NewCounter(1))))
	err := bucket.Save(db, NewSimpleObj([]byte("b"), NewCounter(1)))
	if !errors.ErrDuplicate.Is(err) {
		t.Fatalf("unexpected error: %v", err)
	}
	// failed save leaves nothing behind
	res, err := bucket.Get(db, []byte("b"))
	assert.Nil(t, err)
	if res != nil {
		t.Fatal("object saved despite index conflict")
	}
}

func TestBucketQuery(t *testing.T) {
	bucket := NewBucket("query", NewSimpleObj(nil, new(Counter)))
	db := store.MemStore()

	for key, n := range map[string]int64{"aa": 1, "ab": 2, "b": 3} {
		assert.Nil(t, bucket.Save(db, NewSimpleObj([]byte(key), NewCounter(n))))
	}

	qr := loom.NewQueryRouter()
	bucket.Register("", qr)
	h := qr.Handler("/query")
	if h == nil {
		t.Fatal("bucket not registered under its name")
	}

	cases := map[string]struct {
		mod      string
		data     []byte
		wantKeys []string
		wantErr  *errors.Error
	}{
		"single key": {
			mod:      loom.KeyQueryMod,
			data:     []byte("ab"),
			wantKeys: []string{"ab"},
		},
		"missing key": {
			mod:  loom.KeyQueryMod,
			data: []byte("zz"),
		},
		"prefix": {
			mod:      loom.PrefixQueryMod,
			data:     []byte("a"),
			wantKeys: []string{"aa", "ab"},
		},
		"all": {
			mod:      loom.PrefixQueryMod,
			wantKeys: []string{"aa", "ab", "b"},
		},
		"unknown mod": {
			mod:     "range",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			models, err := h.Query(db, tc.mod, tc.data)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			assert.Equal(t, len(tc.wantKeys), len(models))
			for i, k := range tc.wantKeys {
				assert.Equal(t, bucket.DBKey([]byte(k)), models[i].Key)
			}
		})
	}
}
