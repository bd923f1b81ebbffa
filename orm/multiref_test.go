package orm

import (
	"sort"
	"strings"
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest/assert"
)

func TestMultiRefUpdates(t *testing.T) {
	cases := map[string]struct {
		add, remove []string
		addFails    int
		removeFails int
		want        []string
	}{
		"sorted adds": {
			add:  []string{"alice", "bob", "carol"},
			want: []string{"alice", "bob", "carol"},
		},
		"unsorted adds": {
			add:  []string{"carol", "alice", "bob"},
			want: []string{"alice", "bob", "carol"},
		},
		"duplicates rejected": {
			add:      []string{"bob", "bob", "alice", "dave", "dave", "bob"},
			addFails: 3,
			want:     []string{"alice", "bob", "dave"},
		},
		"remove middle": {
			add:    []string{"alice", "bob", "carol"},
			remove: []string{"bob"},
			want:   []string{"alice", "carol"},
		},
		"remove missing": {
			add:         []string{"alice", "bob"},
			remove:      []string{"zed"},
			removeFails: 1,
			want:        []string{"alice", "bob"},
		},
		"remove twice": {
			add:         []string{"alice", "bob", "carol"},
			remove:      []string{"alice", "carol", "carol"},
			removeFails: 1,
			want:        []string{"bob"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			m := new(MultiRef)
			failed := 0
			for _, r := range tc.add {
				if err := m.Add([]byte(r)); err != nil {
					assert.IsErr(t, errors.ErrDuplicate, err)
					failed++
				}
			}
			assert.Equal(t, tc.addFails, failed)

			failed = 0
			for _, r := range tc.remove {
				if err := m.Remove([]byte(r)); err != nil {
					assert.IsErr(t, errors.ErrNotFound, err)
					failed++
				}
			}
			assert.Equal(t, tc.removeFails, failed)

			got := make([]string, m.Size())
			for i, r := range m.Refs {
				got[i] = string(r)
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, true, sort.StringsAreSorted(got))
		})
	}
}

// multiRefFromStrings is NewMultiRef over strings.
func multiRefFromStrings(strs ...string) (*MultiRef, error) {
	refs := make([][]byte, len(strs))
	for i, s := range strs {
		refs[i] = []byte(s)
	}
	return NewMultiRef(refs...)
}

func TestMultiRefEncoding(t *testing.T) {
	m, err := multiRefFromStrings(strings.Fields("one two three")...)
	assert.Nil(t, err)
	assert.Nil(t, m.Validate())

	raw, err := m.Marshal()
	assert.Nil(t, err)
	var got MultiRef
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, m.Refs, got.Refs)

	_, err = multiRefFromStrings("one", "one")
	assert.IsErr(t, errors.ErrDuplicate, err)
	assert.IsErr(t, errors.ErrEmpty, new(MultiRef).Validate())
}
