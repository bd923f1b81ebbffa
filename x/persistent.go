package x

// Marshaller is anything with a binary form. Marshal may validate first.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a Marshaller that can load itself back, which usually
// takes a pointer receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Validater is implemented by models and instructions that check their
// own fields.
type Validater interface {
	Validate() error
}

// MustMarshal is for values known to be valid, like test fixtures.
func MustMarshal(obj Marshaller) []byte {
	raw, err := obj.Marshal()
	if err != nil {
		panic(err)
	}
	return raw
}

// MustUnmarshal loads raw into obj and panics on failure.
func MustUnmarshal(obj Persistent, raw []byte) {
	if err := obj.Unmarshal(raw); err != nil {
		panic(err)
	}
}
