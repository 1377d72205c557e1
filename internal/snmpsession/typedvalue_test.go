package snmpsession

import (
	"testing"

	"github.com/gosnmp/gosnmp"

	"github.com/meshops/netwarden/models"
)

func TestConvertPDUCounterAndGauge(t *testing.T) {
	cases := []struct {
		name     string
		pdu      gosnmp.SnmpPDU
		wantKind models.ValueKind
		wantU64  uint64
	}{
		{"counter32", gosnmp.SnmpPDU{Type: gosnmp.Counter32, Value: uint(42)}, models.KindCounter32, 42},
		{"counter64", gosnmp.SnmpPDU{Type: gosnmp.Counter64, Value: uint64(1 << 40)}, models.KindCounter64, 1 << 40},
		{"gauge32", gosnmp.SnmpPDU{Type: gosnmp.Gauge32, Value: uint(100)}, models.KindGauge, 100},
		{"timeticks", gosnmp.SnmpPDU{Type: gosnmp.TimeTicks, Value: uint32(500)}, models.KindTimeTicks, 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := convertPDU(tc.pdu)
			if err != nil {
				t.Fatalf("convertPDU() error = %v", err)
			}
			if v.Kind != tc.wantKind {
				t.Errorf("Kind = %v, want %v", v.Kind, tc.wantKind)
			}
			if v.Uint != tc.wantU64 {
				t.Errorf("Uint = %v, want %v", v.Uint, tc.wantU64)
			}
		})
	}
}

func TestConvertPDUOctetStringAndOID(t *testing.T) {
	v, err := convertPDU(gosnmp.SnmpPDU{Type: gosnmp.OctetString, Value: []byte("Gi0/0/1")})
	if err != nil {
		t.Fatalf("convertPDU() error = %v", err)
	}
	if v.Kind != models.KindOctetString || v.Str != "Gi0/0/1" {
		t.Errorf("got %+v, want octet_string Gi0/0/1", v)
	}

	v, err = convertPDU(gosnmp.SnmpPDU{Type: gosnmp.ObjectIdentifier, Value: ".1.3.6.1.2.1.1"})
	if err != nil {
		t.Fatalf("convertPDU() error = %v", err)
	}
	if v.Kind != models.KindOID {
		t.Errorf("Kind = %v, want oid", v.Kind)
	}
}

func TestConvertPDUNoSuchInstanceIsNoSuchName(t *testing.T) {
	_, err := convertPDU(gosnmp.SnmpPDU{Type: gosnmp.NoSuchInstance, Name: ".1.2.3"})
	if err == nil {
		t.Fatal("convertPDU(NoSuchInstance): want error, got nil")
	}
	if err.Kind != ErrNoSuchName {
		t.Errorf("Kind = %v, want no_such_name", err.Kind)
	}
	if err.IsTransient() {
		t.Error("NoSuchName should not be transient")
	}
}

func TestErrorIsTransient(t *testing.T) {
	if !(&Error{Kind: ErrTimeout}).IsTransient() {
		t.Error("Timeout should be transient")
	}
	if !(&Error{Kind: ErrTransport}).IsTransient() {
		t.Error("Transport should be transient")
	}
	if (&Error{Kind: ErrAuthFailure}).IsTransient() {
		t.Error("AuthFailure should not be transient")
	}
}

func TestClassifyTransportError(t *testing.T) {
	if got := classifyTransportError("oid", errString("request timeout (after 3 retries)")); got.Kind != ErrTimeout {
		t.Errorf("Kind = %v, want timeout", got.Kind)
	}
	if got := classifyTransportError("oid", errString("connection refused")); got.Kind != ErrTransport {
		t.Errorf("Kind = %v, want transport", got.Kind)
	}
}
