package snmpsession

import (
	"net"

	"github.com/gosnmp/gosnmp"

	"github.com/meshops/netwarden/models"
)

// convertPDU maps a gosnmp.SnmpPDU to the session layer's TypedValue union.
// Decoders preserve the raw value; rate computation and unit conversion are
// not a session concern (original §4.2) — that happens in the orchestrator's
// normalization step using the OID registry.
func convertPDU(pdu gosnmp.SnmpPDU) (models.TypedValue, *Error) {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView:
		return models.TypedValue{}, newError(ErrNoSuchName, pdu.Name, errNoSuchName)

	case gosnmp.Null:
		return models.Null(), nil

	case gosnmp.Integer:
		v, ok := pdu.Value.(int)
		if !ok {
			return models.TypedValue{}, newError(ErrDecode, pdu.Name, errDecodeType)
		}
		return models.Integer(int64(v)), nil

	case gosnmp.Counter32:
		v, err := toUint64(pdu.Value)
		if err != nil {
			return models.TypedValue{}, newError(ErrDecode, pdu.Name, err)
		}
		return models.Counter32(v), nil

	case gosnmp.Counter64:
		v, err := toUint64(pdu.Value)
		if err != nil {
			return models.TypedValue{}, newError(ErrDecode, pdu.Name, err)
		}
		return models.Counter64(v), nil

	case gosnmp.Gauge32:
		v, err := toUint64(pdu.Value)
		if err != nil {
			return models.TypedValue{}, newError(ErrDecode, pdu.Name, err)
		}
		return models.Gauge(v), nil

	case gosnmp.TimeTicks:
		v, err := toUint64(pdu.Value)
		if err != nil {
			return models.TypedValue{}, newError(ErrDecode, pdu.Name, err)
		}
		return models.TimeTicks(v), nil

	case gosnmp.OctetString:
		b, ok := pdu.Value.([]byte)
		if !ok {
			if s, ok2 := pdu.Value.(string); ok2 {
				return models.OctetString(s), nil
			}
			return models.TypedValue{}, newError(ErrDecode, pdu.Name, errDecodeType)
		}
		return models.OctetString(string(b)), nil

	case gosnmp.ObjectIdentifier:
		s, ok := pdu.Value.(string)
		if !ok {
			return models.TypedValue{}, newError(ErrDecode, pdu.Name, errDecodeType)
		}
		return models.OID(s), nil

	case gosnmp.IPAddress:
		s, ok := pdu.Value.(string)
		if !ok {
			if ip, ok2 := pdu.Value.(net.IP); ok2 {
				return models.IPAddress(ip.String()), nil
			}
			return models.TypedValue{}, newError(ErrDecode, pdu.Name, errDecodeType)
		}
		return models.IPAddress(s), nil

	default:
		return models.TypedValue{}, newError(ErrDecode, pdu.Name, errUnsupportedType)
	}
}

var (
	errNoSuchName      = errString("no such object/instance")
	errDecodeType      = errString("unexpected value type for PDU type")
	errUnsupportedType = errString("unsupported PDU type")
)

type errString string

func (e errString) Error() string { return string(e) }

func toUint64(v interface{}) (uint64, error) {
	switch x := v.(type) {
	case uint64:
		return x, nil
	case uint:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case int:
		if x >= 0 {
			return uint64(x), nil
		}
	case int64:
		if x >= 0 {
			return uint64(x), nil
		}
	}
	return 0, errDecodeType
}
