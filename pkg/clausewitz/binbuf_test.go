package clausewitz

import (
	"encoding/binary"
	"math"
)

// binBuf builds binary token streams for tests.
type binBuf struct {
	data []byte
}

func (b *binBuf) id(id uint16) *binBuf {
	b.data = binary.LittleEndian.AppendUint16(b.data, id)
	return b
}

func (b *binBuf) equal() *binBuf { return b.id(BinIDEqual) }
func (b *binBuf) open() *binBuf  { return b.id(BinIDOpenBracket) }
func (b *binBuf) close() *binBuf { return b.id(BinIDCloseBracket) }

func (b *binBuf) i32(v int32) *binBuf {
	b.id(BinIDI32)
	b.data = binary.LittleEndian.AppendUint32(b.data, uint32(v))
	return b
}

func (b *binBuf) u32(v uint32) *binBuf {
	b.id(BinIDU32)
	b.data = binary.LittleEndian.AppendUint32(b.data, v)
	return b
}

func (b *binBuf) i64(v int64) *binBuf {
	b.id(BinIDI64)
	b.data = binary.LittleEndian.AppendUint64(b.data, uint64(v))
	return b
}

func (b *binBuf) u64(v uint64) *binBuf {
	b.id(BinIDU64)
	b.data = binary.LittleEndian.AppendUint64(b.data, v)
	return b
}

func (b *binBuf) boolean(v bool) *binBuf {
	b.id(BinIDBool)
	if v {
		b.data = append(b.data, 1)
	} else {
		b.data = append(b.data, 0)
	}
	return b
}

// f32 appends the scaled-integer 32-bit float encoding.
func (b *binBuf) f32(v float64) *binBuf {
	b.id(BinIDF32)
	b.data = binary.LittleEndian.AppendUint32(b.data, uint32(int32(math.Round(v*1000))))
	return b
}

// f64 appends the full signed fixed-point encoding of the family.
func (b *binBuf) f64(v float64) *binBuf {
	b.id(BinIDF64I64)
	b.data = binary.LittleEndian.AppendUint64(b.data, uint64(int64(math.Round(v*100_000))))
	return b
}

// f64Fixed appends one unsigned fixed-point encoding with the given
// byte count; raw is the pre-scaled payload value.
func (b *binBuf) f64Fixed(width int, raw uint64) *binBuf {
	b.id(BinIDF64Fixed1 + uint16(width) - 1)
	for i := 0; i < width; i++ {
		b.data = append(b.data, byte(raw>>(8*i)))
	}
	return b
}

func (b *binBuf) str(v string) *binBuf {
	b.id(BinIDStringUnquoted)
	b.data = binary.LittleEndian.AppendUint16(b.data, uint16(len(v)))
	b.data = append(b.data, v...)
	return b
}

func (b *binBuf) quoted(v string) *binBuf {
	b.id(BinIDStringQuoted)
	b.data = binary.LittleEndian.AppendUint16(b.data, uint16(len(v)))
	b.data = append(b.data, v...)
	return b
}

func (b *binBuf) lookupU16(index uint16) *binBuf {
	b.id(BinIDLookupUnquotedU16)
	b.data = binary.LittleEndian.AppendUint16(b.data, index)
	return b
}

func (b *binBuf) lookupU8(index uint8) *binBuf {
	b.id(BinIDLookupUnquotedU8)
	b.data = append(b.data, index)
	return b
}

// kv appends key = and leaves the value to the caller.
func (b *binBuf) kv(key string) *binBuf {
	return b.str(key).equal()
}

func (b *binBuf) decoder() BinDecoder {
	return NewBinDecoder(b.data, nil, nil)
}

func (b *binBuf) decoderWith(table *StringTable, dict *Dictionary) BinDecoder {
	return NewBinDecoder(b.data, table, dict)
}
