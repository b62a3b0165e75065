package eu5

import (
	"encoding/binary"
	"math"

	"github.com/cartograf/pdxsave/pkg/clausewitz"
	"github.com/cartograf/pdxsave/pkg/gamedate"
)

// binBuf builds binary token streams for tests.
type binBuf struct {
	data []byte
}

func (b *binBuf) id(id uint16) *binBuf {
	b.data = binary.LittleEndian.AppendUint16(b.data, id)
	return b
}

func (b *binBuf) equal() *binBuf { return b.id(clausewitz.BinIDEqual) }
func (b *binBuf) open() *binBuf  { return b.id(clausewitz.BinIDOpenBracket) }
func (b *binBuf) close() *binBuf { return b.id(clausewitz.BinIDCloseBracket) }

func (b *binBuf) i32(v int32) *binBuf {
	b.id(clausewitz.BinIDI32)
	b.data = binary.LittleEndian.AppendUint32(b.data, uint32(v))
	return b
}

func (b *binBuf) u32(v uint32) *binBuf {
	b.id(clausewitz.BinIDU32)
	b.data = binary.LittleEndian.AppendUint32(b.data, v)
	return b
}

func (b *binBuf) boolean(v bool) *binBuf {
	b.id(clausewitz.BinIDBool)
	if v {
		b.data = append(b.data, 1)
	} else {
		b.data = append(b.data, 0)
	}
	return b
}

func (b *binBuf) f64(v float64) *binBuf {
	b.id(clausewitz.BinIDF64I64)
	b.data = binary.LittleEndian.AppendUint64(b.data, uint64(int64(math.Round(v*100_000))))
	return b
}

func (b *binBuf) str(v string) *binBuf {
	b.id(clausewitz.BinIDStringUnquoted)
	b.data = binary.LittleEndian.AppendUint16(b.data, uint16(len(v)))
	b.data = append(b.data, v...)
	return b
}

func (b *binBuf) quoted(v string) *binBuf {
	b.id(clausewitz.BinIDStringQuoted)
	b.data = binary.LittleEndian.AppendUint16(b.data, uint16(len(v)))
	b.data = append(b.data, v...)
	return b
}

// kv appends key = and leaves the value to the caller.
func (b *binBuf) kv(key string) *binBuf {
	return b.str(key).equal()
}

func (b *binBuf) date(d gamedate.EU5Date) *binBuf {
	return b.i32(d.Packed())
}

func (b *binBuf) decoder() clausewitz.BinDecoder {
	return clausewitz.NewBinDecoder(b.data, nil, nil)
}

func testDate(year uint16) gamedate.EU5Date {
	return gamedate.EU5Date{Year: year, Month: gamedate.November, Day: 11, Hour: 4}
}
