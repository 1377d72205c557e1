package oidregistry

// mikrotikMappings covers routerOS health OIDs from MIKROTIK-MIB.
var mikrotikMappings = []OIDMapping{
	{OID: "1.3.6.1.4.1.14988.1.1.3.14.0", LogicalName: "cpu_percent", Vendor: "mikrotik", Kind: "gauge", Unit: "percent"},
	{OID: "1.3.6.1.4.1.14988.1.1.3.10.0", LogicalName: "memory_used_bytes", Vendor: "mikrotik", Kind: "gauge", Unit: "bytes"},
	{OID: "1.3.6.1.4.1.14988.1.1.3.11.0", LogicalName: "memory_total_bytes", Vendor: "mikrotik", Kind: "gauge", Unit: "bytes"},
	{OID: "1.3.6.1.4.1.14988.1.1.3.12.0", LogicalName: "temperature_celsius", Vendor: "mikrotik", Kind: "gauge", Unit: "celsius"},
	{OID: "1.3.6.1.2.1.1.1.0", LogicalName: "sys_descr", Vendor: "mikrotik", Kind: "string"},
	{OID: "1.3.6.1.4.1.14988.1.1.7.4.0", LogicalName: "firmware_version", Vendor: "mikrotik", Kind: "string"},
	{OID: "1.3.6.1.4.1.14988.1.1.7.3.0", LogicalName: "chassis_serial", Vendor: "mikrotik", Kind: "string"},
}
