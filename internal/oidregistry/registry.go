// Package oidregistry maps numeric SNMP OIDs to vendor-scoped logical metric
// names. It is loaded once at process start from a declarative, in-memory
// catalog (built-in vendor tables) and is read-only thereafter — concurrent
// reads require no coordination, matching the shared-resource policy for the
// registry.
package oidregistry

import "fmt"

// UnknownMappingError is returned when a lookup misses. Callers decide
// whether that is fatal; the registry never panics.
type UnknownMappingError struct {
	OID         string
	Vendor      string
	LogicalName string
}

func (e *UnknownMappingError) Error() string {
	if e.OID != "" {
		return fmt.Sprintf("oidregistry: no mapping for oid %q", e.OID)
	}
	return fmt.Sprintf("oidregistry: no mapping for vendor %q logical_name %q", e.Vendor, e.LogicalName)
}

// Registry is immutable after construction via New/Builtin.
type Registry struct {
	byOID       map[string]OIDMapping // first registrant wins; ambiguous only when vendors share an identical-meaning OID (e.g. sys_descr)
	byVendorOID map[string]OIDMapping // key: vendor + "\x00" + oid, exact
	byVendorLN  map[string]OIDMapping // key: vendor + "\x00" + logical_name
	byVendor    map[string][]OIDMapping
}

// OIDMapping mirrors models.OIDMapping; re-declared locally to keep this
// package importable without pulling in the full models package for callers
// that only need registry-internal shapes. Kept field-for-field identical.
type OIDMapping struct {
	OID         string
	LogicalName string
	Vendor      string
	Kind        string // "gauge" | "counter" | "enum" | "string"
	Unit        string
}

func vendorKey(vendor, logicalName string) string {
	return vendor + "\x00" + logicalName
}

// New builds a Registry from the given mapping set, which is typically the
// concatenation of all built-in vendor tables (see vendors_*.go) plus any
// operator-registered extension tables. Duplicate (vendor, oid) or duplicate
// (vendor, logical_name) pairs are rejected so the registry's normalization
// guarantee — at most one definition per vendor for a given OID or logical
// name — holds. The same OID may legitimately appear under more than one
// vendor (e.g. the standard MIB-II sys_descr OID), since each device is
// polled under exactly one vendor's table.
func New(mappings []OIDMapping) (*Registry, error) {
	r := &Registry{
		byOID:       make(map[string]OIDMapping, len(mappings)),
		byVendorOID: make(map[string]OIDMapping, len(mappings)),
		byVendorLN:  make(map[string]OIDMapping, len(mappings)),
		byVendor:    make(map[string][]OIDMapping),
	}
	for _, m := range mappings {
		voKey := vendorKey(m.Vendor, m.OID)
		if _, exists := r.byVendorOID[voKey]; exists {
			return nil, fmt.Errorf("oidregistry: duplicate oid %q for vendor %q", m.OID, m.Vendor)
		}
		vk := vendorKey(m.Vendor, m.LogicalName)
		if _, exists := r.byVendorLN[vk]; exists {
			return nil, fmt.Errorf("oidregistry: duplicate (vendor,logical_name) %q/%q", m.Vendor, m.LogicalName)
		}
		if _, exists := r.byOID[m.OID]; !exists {
			r.byOID[m.OID] = m
		}
		r.byVendorOID[voKey] = m
		r.byVendorLN[vk] = m
		r.byVendor[m.Vendor] = append(r.byVendor[m.Vendor], m)
	}
	return r, nil
}

// LookupByOID resolves a numeric OID to its mapping, independent of vendor.
// When more than one vendor shares the OID, the first-registered mapping
// wins; callers that already know the device's vendor should prefer
// LookupVendorOID to avoid relying on registration order.
func (r *Registry) LookupByOID(oid string) (OIDMapping, error) {
	m, ok := r.byOID[oid]
	if !ok {
		return OIDMapping{}, &UnknownMappingError{OID: oid}
	}
	return m, nil
}

// LookupVendorOID resolves a numeric OID scoped to a specific vendor's
// table, the form the orchestrator uses once it knows a device's vendor tag.
func (r *Registry) LookupVendorOID(vendor, oid string) (OIDMapping, error) {
	m, ok := r.byVendorOID[vendorKey(vendor, oid)]
	if !ok {
		return OIDMapping{}, &UnknownMappingError{OID: oid, Vendor: vendor}
	}
	return m, nil
}

// Lookup resolves a (vendor, logical_name) pair to its mapping.
func (r *Registry) Lookup(vendor, logicalName string) (OIDMapping, error) {
	m, ok := r.byVendorLN[vendorKey(vendor, logicalName)]
	if !ok {
		return OIDMapping{}, &UnknownMappingError{Vendor: vendor, LogicalName: logicalName}
	}
	return m, nil
}

// MappingsFor returns every mapping registered for the given vendor, in no
// particular order. Returns nil (not an error) for an unknown vendor — the
// caller (registration path) is responsible for treating an empty vendor
// table as a fatal registration error per the original spec's "registry
// miss for entire vendor tag at registration time" rule.
func (r *Registry) MappingsFor(vendor string) []OIDMapping {
	return r.byVendor[vendor]
}

// HasVendor reports whether any mapping exists for vendor.
func (r *Registry) HasVendor(vendor string) bool {
	return len(r.byVendor[vendor]) > 0
}

// Builtin constructs the registry preloaded with every built-in vendor
// table (generic, cisco, fortinet, mikrotik). Adding a vendor is a
// data-only change: append a table in a new vendors_<name>.go file and
// include it here.
func Builtin() (*Registry, error) {
	var all []OIDMapping
	all = append(all, genericMappings...)
	all = append(all, ciscoMappings...)
	all = append(all, fortinetMappings...)
	all = append(all, mikrotikMappings...)
	return New(all)
}
