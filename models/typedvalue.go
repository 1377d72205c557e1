// Package models defines the data shapes shared across every layer of the
// monitoring engine: typed SNMP values, device configuration, the three
// sample kinds, and alarms. Nothing in this package depends on any other
// internal package.
package models

// ValueKind tags the variant held by a TypedValue.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindCounter32
	KindCounter64
	KindGauge
	KindTimeTicks
	KindOctetString
	KindOID
	KindIPAddress
)

func (k ValueKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindCounter32:
		return "counter32"
	case KindCounter64:
		return "counter64"
	case KindGauge:
		return "gauge"
	case KindTimeTicks:
		return "timeticks"
	case KindOctetString:
		return "octet_string"
	case KindOID:
		return "oid"
	case KindIPAddress:
		return "ipaddress"
	default:
		return "null"
	}
}

// TypedValue is the tagged union returned by every SNMP session operation.
// Exactly one of the typed accessors is meaningful, selected by Kind.
type TypedValue struct {
	Kind ValueKind

	Int    int64
	Uint   uint64
	Str    string // octet_string, oid, ipaddress
}

func Null() TypedValue                  { return TypedValue{Kind: KindNull} }
func Integer(v int64) TypedValue        { return TypedValue{Kind: KindInteger, Int: v} }
func Counter32(v uint64) TypedValue     { return TypedValue{Kind: KindCounter32, Uint: v} }
func Counter64(v uint64) TypedValue     { return TypedValue{Kind: KindCounter64, Uint: v} }
func Gauge(v uint64) TypedValue         { return TypedValue{Kind: KindGauge, Uint: v} }
func TimeTicks(v uint64) TypedValue     { return TypedValue{Kind: KindTimeTicks, Uint: v} }
func OctetString(v string) TypedValue   { return TypedValue{Kind: KindOctetString, Str: v} }
func OID(v string) TypedValue           { return TypedValue{Kind: KindOID, Str: v} }
func IPAddress(v string) TypedValue     { return TypedValue{Kind: KindIPAddress, Str: v} }

// AsInt64 best-effort converts the held value to int64 regardless of Kind.
// ok is false for Null, OctetString, OID, and IPAddress.
func (v TypedValue) AsInt64() (int64, bool) {
	switch v.Kind {
	case KindInteger:
		return v.Int, true
	case KindCounter32, KindCounter64, KindGauge, KindTimeTicks:
		return int64(v.Uint), true
	default:
		return 0, false
	}
}

// AsUint64 best-effort converts the held value to uint64.
func (v TypedValue) AsUint64() (uint64, bool) {
	switch v.Kind {
	case KindCounter32, KindCounter64, KindGauge, KindTimeTicks:
		return v.Uint, true
	case KindInteger:
		if v.Int >= 0 {
			return uint64(v.Int), true
		}
	}
	return 0, false
}
