package oidregistry

import "testing"

func TestBuiltinLookupByOID(t *testing.T) {
	reg, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	m, err := reg.LookupByOID("1.3.6.1.2.1.2.2.1.8")
	if err != nil {
		t.Fatalf("LookupByOID() error = %v", err)
	}
	if m.LogicalName != "if_oper_status" || m.Vendor != "generic" {
		t.Errorf("LookupByOID() = %+v, want if_oper_status/generic", m)
	}
}

func TestBuiltinLookupByVendorAndName(t *testing.T) {
	reg, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	m, err := reg.Lookup("cisco", "cpu_percent")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if m.OID != "1.3.6.1.4.1.9.9.109.1.1.1.1.7" {
		t.Errorf("Lookup() oid = %q, want cisco cpu OID", m.OID)
	}
}

func TestLookupMissReturnsUnknownMappingError(t *testing.T) {
	reg, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	if _, err := reg.LookupByOID("9.9.9.9"); err == nil {
		t.Fatal("LookupByOID() on unknown oid: want error, got nil")
	} else if _, ok := err.(*UnknownMappingError); !ok {
		t.Errorf("LookupByOID() error type = %T, want *UnknownMappingError", err)
	}

	if _, err := reg.Lookup("cisco", "does_not_exist"); err == nil {
		t.Fatal("Lookup() on unknown logical name: want error, got nil")
	}
}

func TestMappingsForUnknownVendorIsEmpty(t *testing.T) {
	reg, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	if got := reg.MappingsFor("nonexistent"); len(got) != 0 {
		t.Errorf("MappingsFor(unknown) = %v, want empty", got)
	}
	if reg.HasVendor("nonexistent") {
		t.Error("HasVendor(unknown) = true, want false")
	}
	if !reg.HasVendor("generic") {
		t.Error("HasVendor(generic) = false, want true")
	}
}

func TestNewRejectsDuplicateOID(t *testing.T) {
	_, err := New([]OIDMapping{
		{OID: "1.2.3", LogicalName: "a", Vendor: "v", Kind: "gauge"},
		{OID: "1.2.3", LogicalName: "b", Vendor: "v", Kind: "gauge"},
	})
	if err == nil {
		t.Fatal("New() with duplicate OID: want error, got nil")
	}
}

func TestBuiltinSysDescrSharedAcrossVendors(t *testing.T) {
	reg, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	for _, vendor := range []string{"generic", "cisco", "fortinet", "mikrotik"} {
		m, err := reg.LookupVendorOID(vendor, "1.3.6.1.2.1.1.1.0")
		if err != nil {
			t.Fatalf("LookupVendorOID(%q) error = %v", vendor, err)
		}
		if m.LogicalName != "sys_descr" || m.Vendor != vendor {
			t.Errorf("LookupVendorOID(%q) = %+v, want sys_descr/%s", vendor, m, vendor)
		}
	}
}

func TestNewRejectsDuplicateVendorLogicalName(t *testing.T) {
	_, err := New([]OIDMapping{
		{OID: "1.2.3", LogicalName: "a", Vendor: "v", Kind: "gauge"},
		{OID: "1.2.4", LogicalName: "a", Vendor: "v", Kind: "gauge"},
	})
	if err == nil {
		t.Fatal("New() with duplicate (vendor,logical_name): want error, got nil")
	}
}
