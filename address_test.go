package loom

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest/assert"
)

func TestParseAddress(t *testing.T) {
	cases := map[string]struct {
		text    string
		want    Address
		wantErr *errors.Error
	}{
		"system program": {
			text: "11111111111111111111111111111111",
			want: Address{},
		},
		"token program": {
			text: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
			want: MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"),
		},
		"not base58": {
			text:    "0OIl",
			wantErr: errors.ErrInput,
		},
		"too short": {
			text:    "abc",
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAddress(tc.text)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
				assert.Equal(t, tc.text, got.String())
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := MustParseAddress("ECh7FQHy1hDxkiYjPVi8tYhmZ2oHE1zJqsyxbP4vS3nd")

	raw, err := json.Marshal(addr)
	assert.Nil(t, err)
	assert.Equal(t, `"ECh7FQHy1hDxkiYjPVi8tYhmZ2oHE1zJqsyxbP4vS3nd"`, string(raw))

	var got Address
	assert.Nil(t, json.Unmarshal(raw, &got))
	assert.Equal(t, addr, got)

	assert.IsErr(t, errors.ErrInput, json.Unmarshal([]byte(`12`), &got))
	assert.IsErr(t, errors.ErrInput, json.Unmarshal([]byte(`"xyz"`), &got))
}

func TestAddressHelpers(t *testing.T) {
	var zero Address
	assert.Equal(t, true, zero.IsZero())

	a := MustParseAddress("EnjN3cm7xYqYHNUZbQfhJYj5S5RBrSU9tc5aHwQ6LqvT")
	assert.Equal(t, false, a.IsZero())
	assert.Equal(t, true, a.Equals(a))
	assert.Equal(t, false, a.Equals(zero))

	b, err := AddressFromBytes(a.Bytes())
	assert.Nil(t, err)
	assert.Equal(t, a, b)

	_, err = AddressFromBytes([]byte{1, 2, 3})
	assert.IsErr(t, errors.ErrInput, err)
}
