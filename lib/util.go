package lib

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
)

/* This file contains the record codec and the key-building helpers shared across modules */

// Marshal() serializes a record into its canonical byte representation
func Marshal(message any) ([]byte, ErrorI) {
	bz, err := json.Marshal(message)
	if err != nil {
		return nil, ErrJSONMarshal(err)
	}
	return bz, nil
}

// Unmarshal() deserializes a byte slice into the specified record
// NOTE: nil bytes are a no-op, mirroring a 'not found' read from the store
func Unmarshal(data []byte, ptr any) ErrorI {
	if data == nil || ptr == nil {
		return nil
	}
	if err := json.Unmarshal(data, ptr); err != nil {
		return ErrJSONUnmarshal(err)
	}
	return nil
}

// MarshalJSONIndent() serializes a message into an indented JSON byte slice
func MarshalJSONIndent(message any) ([]byte, ErrorI) {
	bz, err := json.MarshalIndent(message, "", "  ")
	if err != nil {
		return nil, ErrJSONMarshal(err)
	}
	return bz, nil
}

// BytesToString() converts a byte slice to a hexadecimal string
func BytesToString(b []byte) string {
	return hex.EncodeToString(b)
}

// StringToBytes() converts a hexadecimal string back into a byte slice
func StringToBytes(s string) ([]byte, ErrorI) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, ErrStringToBytes(err)
	}
	return b, nil
}

/*
- Prefixes allow 'grouping' in a schemaless key-value database environment

- Length prefixed append is used to be able to easily separate the segments of a key

- BigEndianEncoding is used for uint64 to accommodate the 'lexicographical' sorting nature of the key-value database
*/

// JoinLenPrefix() appends segments together, prepending each with its 1 byte length
func JoinLenPrefix(toAppend ...[]byte) (res []byte) {
	for _, segment := range toAppend {
		if segment == nil {
			continue
		}
		res = append(res, byte(len(segment)))
		res = append(res, segment...)
	}
	return
}

// DecodeLengthPrefixed() splits a key back into its segments
func DecodeLengthPrefixed(key []byte) (segments [][]byte) {
	for i := 0; i < len(key); {
		length := int(key[i])
		i++
		if i+length > len(key) {
			return
		}
		segments = append(segments, key[i:i+length])
		i += length
	}
	return
}

// FormatUint64() encodes a uint64 as lexicographically sortable big-endian bytes
func FormatUint64(u uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, u)
	return b
}

// HexBytes is a byte slice that JSON marshals as a hex string
type HexBytes []byte

func (x HexBytes) String() string { return BytesToString(x) }

func (x HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.String())
}

func (x *HexBytes) UnmarshalJSON(b []byte) (err error) {
	var s string
	if err = json.Unmarshal(b, &s); err != nil {
		return
	}
	bz, e := StringToBytes(s)
	if e != nil {
		return e
	}
	*x = bz
	return
}
