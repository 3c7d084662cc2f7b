package tsql

import (
	"github.com/google/uuid"
	"github.com/mitranim/refut"
	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"
)

/*
Declares a blob column storing an arbitrary Go value serialized with MessagePack.
Useful for small nested structures that don't deserve their own table. The
column is nullable when `A` is nilable (pointer, slice, map); nil values are
stored as NULL rather than as a serialized nil. Example:

	type Prefs struct {
		Theme string
		Tags  []string
	}

	var PersonPrefs = tsql.MsgpackCol[*Prefs](`prefs`)
*/
func MsgpackCol[A any](name string) *Col[A] {
	return CustomCol(name, isNullableType[A](), encodeMsgpack[A], decodeMsgpack[A])
}

func encodeMsgpack[A any](val A) (any, error) {
	if refut.IsNil(val) {
		return nil, nil
	}
	return msgpack.Marshal(val)
}

func decodeMsgpack[A any](cell any) (out A, err error) {
	switch cell := cell.(type) {
	case []byte:
		err = msgpack.Unmarshal(cell, &out)
	case string:
		err = msgpack.Unmarshal([]byte(cell), &out)
	default:
		err = errorf(`unsupported cell type %T for msgpack column; expected []byte`, cell)
	}
	return
}

/*
Declares a UUID column stored in its canonical textual form, which every driver
accepts. Decodes from text as well as from 16-byte binary, as returned by
MySQL's `BINARY(16)` and some Postgres drivers.
*/
func UUIDCol(name string) *Col[uuid.UUID] {
	return CustomCol(name, false, encodeUUID, decodeUUID)
}

func encodeUUID(val uuid.UUID) (any, error) { return val.String(), nil }

func decodeUUID(cell any) (uuid.UUID, error) {
	switch cell := cell.(type) {
	case string:
		return uuid.Parse(cell)
	case []byte:
		if len(cell) == 16 {
			return uuid.FromBytes(cell)
		}
		return uuid.ParseBytes(cell)
	default:
		return uuid.Nil, errorf(`unsupported cell type %T for uuid column`, cell)
	}
}

/*
Declares a fixed-point decimal column. Values are passed to the driver as
strings, avoiding float rounding; decoding accepts strings, bytes, integers and
floats, since drivers disagree on how `NUMERIC` arrives.
*/
func DecimalCol(name string) *Col[decimal.Decimal] {
	return CustomCol(name, false, encodeDecimal, decodeDecimal)
}

func encodeDecimal(val decimal.Decimal) (any, error) { return val.String(), nil }

func decodeDecimal(cell any) (out decimal.Decimal, err error) {
	err = out.Scan(cell)
	return
}
