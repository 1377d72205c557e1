// Package snmpsession implements one SNMP handle per device: get, get-next,
// walk, and bulk-walk, with timeout/retry enforcement and classified error
// results. It interoperates with standard v1/v2c (community) and v3 (USM:
// MD5/SHA auth, DES/AES priv) via github.com/gosnmp/gosnmp.
package snmpsession

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"

	"github.com/meshops/netwarden/models"
)

// Varbind pairs a resolved OID with its typed value, as returned by
// GetNext/Walk/BulkWalk.
type Varbind struct {
	OID   string
	Value models.TypedValue
}

// Session is the contract the orchestrator drives. One Session exists per
// device_id, parameterized by that device's transport credentials.
type Session interface {
	Get(oid string) (models.TypedValue, *Error)
	GetNext(oid string) (Varbind, *Error)
	Walk(subtreeOID string) ([]Varbind, *Error)
	BulkWalk(subtreeOID string, maxRepetitions uint32) ([]Varbind, *Error)
	Close() error
}

// Options configures a GoSNMPSession.
type Options struct {
	Address     string
	Port        uint16
	Credentials models.TransportCredentials
	Timeout     time.Duration // per-request timeout, default 5s
	Retries     int           // default 3
}

func (o *Options) defaults() {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.Retries <= 0 {
		o.Retries = 3
	}
	if o.Port == 0 {
		o.Port = 161
	}
}

// GoSNMPSession is the production Session backed by gosnmp.GoSNMP.
// Timeouts apply per request; retries re-issue the same logical request up
// to Retries times with fresh request IDs, so the total deadline for a
// single operation is Timeout * (1 + Retries) — gosnmp enforces this
// natively via its own Timeout/Retries fields.
type GoSNMPSession struct {
	conn *gosnmp.GoSNMP
}

// Dial builds and connects a gosnmp session for opts. The caller must call
// Close when done.
func Dial(opts Options) (*GoSNMPSession, error) {
	opts.defaults()

	g := &gosnmp.GoSNMP{
		Target:  opts.Address,
		Port:    opts.Port,
		Timeout: opts.Timeout,
		Retries: opts.Retries,
		MaxOids: 60,
	}

	cred := opts.Credentials
	switch cred.Version {
	case "1":
		g.Version = gosnmp.Version1
		g.Community = cred.Community
	case "2c", "":
		g.Version = gosnmp.Version2c
		g.Community = cred.Community
	case "3":
		g.Version = gosnmp.Version3
		g.SecurityModel = gosnmp.UserSecurityModel
		g.MsgFlags = msgFlags(cred.V3)
		g.SecurityParameters = &gosnmp.UsmSecurityParameters{
			UserName:                 cred.V3.Username,
			AuthenticationProtocol:   mapAuthProto(cred.V3.AuthenticationProtocol),
			AuthenticationPassphrase: cred.V3.AuthenticationPassphrase,
			PrivacyProtocol:          mapPrivProto(cred.V3.PrivacyProtocol),
			PrivacyPassphrase:        cred.V3.PrivacyPassphrase,
		}
	default:
		return nil, fmt.Errorf("snmpsession: unsupported SNMP version %q", cred.Version)
	}

	if err := g.Connect(); err != nil {
		return nil, fmt.Errorf("snmpsession: connect %s:%d: %w", opts.Address, opts.Port, err)
	}
	return &GoSNMPSession{conn: g}, nil
}

// Get fetches a single scalar OID.
func (s *GoSNMPSession) Get(oid string) (models.TypedValue, *Error) {
	pkt, err := s.conn.Get([]string{oid})
	if err != nil {
		return models.TypedValue{}, classifyTransportError(oid, err)
	}
	if len(pkt.Variables) == 0 {
		return models.TypedValue{}, newError(ErrNoSuchName, oid, fmt.Errorf("empty response"))
	}
	return convertPDU(pkt.Variables[0])
}

// GetNext fetches the lexicographically next OID after oid.
func (s *GoSNMPSession) GetNext(oid string) (Varbind, *Error) {
	pkt, err := s.conn.GetNext([]string{oid})
	if err != nil {
		return Varbind{}, classifyTransportError(oid, err)
	}
	if len(pkt.Variables) == 0 {
		return Varbind{}, newError(ErrNoSuchName, oid, fmt.Errorf("empty response"))
	}
	pdu := pkt.Variables[0]
	val, cerr := convertPDU(pdu)
	if cerr != nil {
		return Varbind{}, cerr
	}
	return Varbind{OID: pdu.Name, Value: val}, nil
}

// Walk enumerates subtreeOID using repeated GetNext (SNMPv1-compatible).
// The returned sequence is finite and not restartable mid-iteration — it is
// fully materialized before return.
func (s *GoSNMPSession) Walk(subtreeOID string) ([]Varbind, *Error) {
	pdus, err := s.conn.WalkAll(subtreeOID)
	if err != nil {
		return nil, classifyTransportError(subtreeOID, err)
	}
	return convertPDUList(pdus)
}

// BulkWalk enumerates subtreeOID using GetBulkRequest for fewer round trips.
// Same contract as Walk.
func (s *GoSNMPSession) BulkWalk(subtreeOID string, maxRepetitions uint32) ([]Varbind, *Error) {
	if maxRepetitions == 0 {
		maxRepetitions = 10
	}
	s.conn.MaxRepetitions = maxRepetitions
	pdus, err := s.conn.BulkWalkAll(subtreeOID)
	if err != nil {
		return nil, classifyTransportError(subtreeOID, err)
	}
	return convertPDUList(pdus)
}

// Close releases the underlying UDP socket.
func (s *GoSNMPSession) Close() error {
	if s.conn.Conn != nil {
		return s.conn.Conn.Close()
	}
	return nil
}

func convertPDUList(pdus []gosnmp.SnmpPDU) ([]Varbind, *Error) {
	out := make([]Varbind, 0, len(pdus))
	for _, pdu := range pdus {
		val, err := convertPDU(pdu)
		if err != nil {
			if err.Kind == ErrNoSuchName {
				// Normal for bulk walks to hit end-of-MIB markers; skip silently.
				continue
			}
			return out, err
		}
		out = append(out, Varbind{OID: pdu.Name, Value: val})
	}
	return out, nil
}

// classifyTransportError maps a gosnmp-level error to a session ErrorKind.
// gosnmp does not expose a typed error hierarchy, so classification is by
// message content rather than inventing a richer error type gosnmp itself
// does not provide.
func classifyTransportError(oid string, err error) *Error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return newError(ErrTimeout, oid, err)
	case strings.Contains(msg, "auth"), strings.Contains(msg, "privacy"), strings.Contains(msg, "security"):
		return newError(ErrAuthFailure, oid, err)
	default:
		return newError(ErrTransport, oid, err)
	}
}
