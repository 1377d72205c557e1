package oidregistry

// genericMappings is the IF-MIB table shared by every vendor that implements
// the standard interfaces MIB. Vendor-specific tables (cisco, fortinet,
// mikrotik) cover health/inventory OIDs that have no standard equivalent.
var genericMappings = []OIDMapping{
	{OID: "1.3.6.1.2.1.2.2.1.2", LogicalName: "if_descr", Vendor: "generic", Kind: "string"},
	{OID: "1.3.6.1.2.1.2.2.1.7", LogicalName: "if_admin_status", Vendor: "generic", Kind: "enum"},
	{OID: "1.3.6.1.2.1.2.2.1.8", LogicalName: "if_oper_status", Vendor: "generic", Kind: "enum"},
	{OID: "1.3.6.1.2.1.2.2.1.5", LogicalName: "if_speed", Vendor: "generic", Kind: "gauge", Unit: "bps"},
	{OID: "1.3.6.1.2.1.2.2.1.10", LogicalName: "if_in_octets", Vendor: "generic", Kind: "counter", Unit: "bytes"},
	{OID: "1.3.6.1.2.1.2.2.1.16", LogicalName: "if_out_octets", Vendor: "generic", Kind: "counter", Unit: "bytes"},
	{OID: "1.3.6.1.2.1.1.1.0", LogicalName: "sys_descr", Vendor: "generic", Kind: "string"},
	{OID: "1.3.6.1.2.1.1.3.0", LogicalName: "uptime_seconds", Vendor: "generic", Kind: "counter", Unit: "seconds"},
}
