package png

import "hash/crc32"

// crcTable is the reflected IEEE 802.3 table (poly 0xEDB88320). It is built
// once and only read afterwards, so it is safe for concurrent use.
var crcTable = crc32.MakeTable(crc32.IEEE)

// Checksum returns the CRC-32 used by PNG chunk records over b.
func Checksum(b []byte) uint32 {
	return crc32.Checksum(b, crcTable)
}

// chunkCRC computes the record CRC over type || data without joining them.
func chunkCRC(t ChunkType, data []byte) uint32 {
	crc := crc32.Update(0, crcTable, t.b[:])
	return crc32.Update(crc, crcTable, data)
}
