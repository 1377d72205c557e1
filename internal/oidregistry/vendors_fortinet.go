package oidregistry

// fortinetMappings covers session/cpu/memory gauges from FORTINET-FORTIGATE-MIB.
var fortinetMappings = []OIDMapping{
	{OID: "1.3.6.1.4.1.12356.101.4.1.3.0", LogicalName: "cpu_percent", Vendor: "fortinet", Kind: "gauge", Unit: "percent"},
	{OID: "1.3.6.1.4.1.12356.101.4.1.4.0", LogicalName: "memory_percent", Vendor: "fortinet", Kind: "gauge", Unit: "percent"},
	{OID: "1.3.6.1.4.1.12356.101.4.1.8.0", LogicalName: "session_count", Vendor: "fortinet", Kind: "gauge"},
	{OID: "1.3.6.1.2.1.1.1.0", LogicalName: "sys_descr", Vendor: "fortinet", Kind: "string"},
	{OID: "1.3.6.1.4.1.12356.101.4.1.1.0", LogicalName: "firmware_version", Vendor: "fortinet", Kind: "string"},
	{OID: "1.3.6.1.4.1.12356.101.4.1.2.0", LogicalName: "chassis_serial", Vendor: "fortinet", Kind: "string"},
}
