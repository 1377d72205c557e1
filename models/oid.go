package models

// MappingKind classifies what an OIDMapping's value represents once
// normalized, independent of its SNMP wire type.
type MappingKind string

const (
	MappingGauge   MappingKind = "gauge"
	MappingCounter MappingKind = "counter"
	MappingEnum    MappingKind = "enum"
	MappingString  MappingKind = "string"
)

// OIDMapping is an immutable catalog entry: a single numeric OID resolved to
// a logical, vendor-scoped metric name. Uniqueness within the registry:
// (Vendor, OID) and (Vendor, LogicalName) are each unique. OID alone is not a
// key: the same OID may appear under more than one vendor.
type OIDMapping struct {
	OID         string
	LogicalName string
	Vendor      string
	Kind        MappingKind
	Unit        string // optional, e.g. "percent", "celsius", "bps"
}
