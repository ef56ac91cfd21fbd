package ast

import (
	"strconv"
	"strings"
)

type TypeKind uint8

const (
	// TypeErrorRecovery stands in for a type that failed to lower.
	TypeErrorRecovery TypeKind = iota
	TypeTuple
	TypeBoolean
	TypeUnsignedInteger
	TypeByte
	TypeB256
	TypeStr
	TypeSelf
	TypeCustom
	TypeArray
)

var typeKindNames = [...]string{
	TypeErrorRecovery:   "error_recovery",
	TypeTuple:           "tuple",
	TypeBoolean:         "bool",
	TypeUnsignedInteger: "uint",
	TypeByte:            "byte",
	TypeB256:            "b256",
	TypeStr:             "str",
	TypeSelf:            "Self",
	TypeCustom:          "custom",
	TypeArray:           "array",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "TypeKind(" + strconv.Itoa(int(k)) + ")"
}

// IntegerBits is the width of an unsigned integer type.
type IntegerBits uint8

const (
	Bits8  IntegerBits = 8
	Bits16 IntegerBits = 16
	Bits32 IntegerBits = 32
	Bits64 IntegerBits = 64
)

// TypeInfo is a lowered type expression.
//
// Elems holds tuple elements, custom type arguments, or the single array
// element type. Bits is set for TypeUnsignedInteger, Name for TypeCustom and
// Len for TypeArray.
type TypeInfo struct {
	Kind  TypeKind
	Bits  IntegerBits
	Name  string
	Len   uint32
	Elems []TypeInfo
}

func Unit() TypeInfo { return TypeInfo{Kind: TypeTuple} }

func Tuple(elems ...TypeInfo) TypeInfo { return TypeInfo{Kind: TypeTuple, Elems: elems} }

func Boolean() TypeInfo { return TypeInfo{Kind: TypeBoolean} }

func UnsignedInteger(bits IntegerBits) TypeInfo {
	return TypeInfo{Kind: TypeUnsignedInteger, Bits: bits}
}

func Byte() TypeInfo { return TypeInfo{Kind: TypeByte} }

func B256() TypeInfo { return TypeInfo{Kind: TypeB256} }

func Str() TypeInfo { return TypeInfo{Kind: TypeStr} }

func SelfType() TypeInfo { return TypeInfo{Kind: TypeSelf} }

func Custom(name string, args ...TypeInfo) TypeInfo {
	return TypeInfo{Kind: TypeCustom, Name: name, Elems: args}
}

func Array(elem TypeInfo, n uint32) TypeInfo {
	return TypeInfo{Kind: TypeArray, Len: n, Elems: []TypeInfo{elem}}
}

func ErrorRecovery() TypeInfo { return TypeInfo{Kind: TypeErrorRecovery} }

// IsUnit reports whether t is the empty tuple.
func (t TypeInfo) IsUnit() bool {
	return t.Kind == TypeTuple && len(t.Elems) == 0
}

// Equal compares two types structurally.
func (t TypeInfo) Equal(o TypeInfo) bool {
	if t.Kind != o.Kind || t.Bits != o.Bits || t.Name != o.Name || t.Len != o.Len || len(t.Elems) != len(o.Elems) {
		return false
	}
	for i := range t.Elems {
		if !t.Elems[i].Equal(o.Elems[i]) {
			return false
		}
	}
	return true
}

// String renders t in surface syntax; the recovery sentinel prints as "{error}".
func (t TypeInfo) String() string {
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t TypeInfo) write(sb *strings.Builder) {
	switch t.Kind {
	case TypeErrorRecovery:
		sb.WriteString("{error}")
	case TypeTuple:
		sb.WriteByte('(')
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.write(sb)
		}
		if len(t.Elems) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case TypeUnsignedInteger:
		sb.WriteByte('u')
		sb.WriteString(strconv.Itoa(int(t.Bits)))
	case TypeCustom:
		sb.WriteString(t.Name)
		if len(t.Elems) > 0 {
			sb.WriteByte('<')
			for i, e := range t.Elems {
				if i > 0 {
					sb.WriteString(", ")
				}
				e.write(sb)
			}
			sb.WriteByte('>')
		}
	case TypeArray:
		sb.WriteByte('[')
		if len(t.Elems) == 1 {
			t.Elems[0].write(sb)
		}
		sb.WriteString("; ")
		sb.WriteString(strconv.FormatUint(uint64(t.Len), 10))
		sb.WriteByte(']')
	default:
		sb.WriteString(t.Kind.String())
	}
}
