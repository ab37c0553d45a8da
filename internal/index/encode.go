package index

import (
	"encoding/binary"
)

func putU64(dst []byte, v uint64) {
	binary.BigEndian.PutUint64(dst, v)
}

func getU64(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
