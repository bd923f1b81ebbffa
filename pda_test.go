package loom

import (
	"bytes"
	"testing"

	"github.com/iov-one/loom/errors"
	"github.com/iov-one/loom/loomtest/assert"
)

func TestFindProgramAddress(t *testing.T) {
	programID := MustParseAddress("ECh7FQHy1hDxkiYjPVi8tYhmZ2oHE1zJqsyxbP4vS3nd")
	other := MustParseAddress("GWZPQsbLKGnB8rQptKGDFsZ3PtbsYPFxhXm8NyhoftbY")

	addr, bump, err := FindProgramAddress(programID, []byte("escrow"))
	assert.Nil(t, err)

	if addr.IsOnCurve() {
		t.Fatal("derived address must be off the curve")
	}

	again, againBump, err := FindProgramAddress(programID, []byte("escrow"))
	assert.Nil(t, err)
	assert.Equal(t, addr, again)
	assert.Equal(t, bump, againBump)

	recreated, err := CreateProgramAddress(programID, SignerSeeds(bump, []byte("escrow")))
	assert.Nil(t, err)
	assert.Equal(t, addr, recreated)

	foreign, _, err := FindProgramAddress(other, []byte("escrow"))
	assert.Nil(t, err)
	if foreign == addr {
		t.Fatal("different programs must derive different addresses")
	}

	label, _, err := FindProgramAddress(programID, []byte("vault"))
	assert.Nil(t, err)
	if label == addr {
		t.Fatal("different seeds must derive different addresses")
	}
}

func TestFindProgramAddressDoesNotModifySeeds(t *testing.T) {
	programID := MustParseAddress("GWZPQsbLKGnB8rQptKGDFsZ3PtbsYPFxhXm8NyhoftbY")
	seeds := make([][]byte, 2, 8)
	seeds[0] = []byte("vault")
	seeds[1] = bytes.Repeat([]byte{7}, 32)
	backing := seeds[:3]
	backing[2] = []byte("untouched")

	_, _, err := FindProgramAddress(programID, seeds...)
	assert.Nil(t, err)
	assert.Equal(t, []byte("untouched"), backing[2])
}

func TestProgramAddressInvalidSeeds(t *testing.T) {
	programID := MustParseAddress("ECh7FQHy1hDxkiYjPVi8tYhmZ2oHE1zJqsyxbP4vS3nd")

	_, _, err := FindProgramAddress(programID, bytes.Repeat([]byte{1}, 33))
	assert.IsErr(t, errors.ErrInvalidSeeds, err)

	_, err = CreateProgramAddress(programID, Seeds{bytes.Repeat([]byte{1}, 40)})
	assert.IsErr(t, errors.ErrInvalidSeeds, err)
}
