// Package wire frames the values confcache keeps in byte providers, so that
// foreign or truncated bytes under a snapshot key are detected as corrupt
// instead of being handed to a codec.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version       byte = 1
	kindSnapshot  byte = 1
	kindIndex     byte = 2
	maxNameLength      = 0xFFFF
)

var (
	ErrCorrupt = errors.New("confcache: corrupt snapshot frame")
	magic4     = [...]byte{'C', 'F', 'G', 'S'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Snapshot: magic(4) | ver(1) | kind(1=snapshot) | vlen(u32 be) | payload(vlen)
func EncodeSnapshot(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindSnapshot)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func DecodeSnapshot(b []byte) ([]byte, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindSnapshot {
		return nil, ErrCorrupt
	}
	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen != len(b)-off {
		return nil, ErrCorrupt
	}
	return b[off:], nil
}

// Index:
//
//	magic(4) | ver(1) | kind(2=index) | n(u32 be) | (nameLen(u16 be) | name(nameLen)) * n
func EncodeIndex(names []string) ([]byte, error) {
	total := 4 + 1 + 1 + 4
	for _, n := range names {
		if l := len(n); l == 0 || l > maxNameLength {
			return nil, errors.New("confcache: invalid namespace name length in index")
		}
		total += 2 + len(n)
	}

	var buf bytes.Buffer
	buf.Grow(total)
	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindIndex)

	var u4 [4]byte
	var u2 [2]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(names)))
	buf.Write(u4[:])
	for _, n := range names {
		binary.BigEndian.PutUint16(u2[:], uint16(len(n)))
		buf.Write(u2[:])
		buf.WriteString(n)
	}
	return buf.Bytes(), nil
}

func DecodeIndex(b []byte) ([]string, error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindIndex {
		return nil, ErrCorrupt
	}
	off := 6
	n := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// every entry needs at least 3 bytes
	if n < 0 || n > (len(b)-off)/3 {
		return nil, ErrCorrupt
	}

	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if off+2 > len(b) {
			return nil, ErrCorrupt
		}
		l := int(binary.BigEndian.Uint16(b[off : off+2]))
		off += 2
		if l == 0 || l > len(b)-off {
			return nil, ErrCorrupt
		}
		names = append(names, string(b[off:off+l]))
		off += l
	}
	if off != len(b) {
		return nil, ErrCorrupt
	}
	return names, nil
}
