package oidregistry

// ciscoMappings covers CPU, memory pool, and environment temperature OIDs
// from CISCO-PROCESS-MIB, CISCO-MEMORY-POOL-MIB, and CISCO-ENVMON-MIB.
var ciscoMappings = []OIDMapping{
	{OID: "1.3.6.1.4.1.9.9.109.1.1.1.1.7", LogicalName: "cpu_percent", Vendor: "cisco", Kind: "gauge", Unit: "percent"},
	{OID: "1.3.6.1.4.1.9.9.48.1.1.1.5", LogicalName: "memory_used_bytes", Vendor: "cisco", Kind: "gauge", Unit: "bytes"},
	{OID: "1.3.6.1.4.1.9.9.48.1.1.1.6", LogicalName: "memory_free_bytes", Vendor: "cisco", Kind: "gauge", Unit: "bytes"},
	{OID: "1.3.6.1.4.1.9.9.13.1.3.1.3", LogicalName: "temperature_celsius", Vendor: "cisco", Kind: "gauge", Unit: "celsius"},
	{OID: "1.3.6.1.2.1.1.1.0", LogicalName: "sys_descr", Vendor: "cisco", Kind: "string"},
	{OID: "1.3.6.1.4.1.9.3.6.3.0", LogicalName: "chassis_serial", Vendor: "cisco", Kind: "string"},
}
