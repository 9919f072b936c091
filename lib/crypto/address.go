package crypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
)

const (
	AddressSize = 20
)

// AddressI abstracts the 20 byte identity used for callers, assets, and custody locations
type AddressI interface {
	Bytes() []byte
	String() string
	Equals(AddressI) bool
}

type Address []byte

var _ AddressI = &Address{}

func NewAddress(b []byte) *Address {
	a := Address(bytes.Clone(b))
	return &a
}

func NewAddressFromString(s string) (*Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewAddress(b), nil
}

func (a *Address) Bytes() []byte          { return (*a)[:] }
func (a *Address) String() string         { return hex.EncodeToString(a.Bytes()) }
func (a *Address) Equals(e AddressI) bool { return bytes.Equal(a.Bytes(), e.Bytes()) }

func (a *Address) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

func (a *Address) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}
	bz, err := hex.DecodeString(s)
	if err != nil {
		return
	}
	*a = bz
	return
}
