// Package config loads runtime configuration for the shoppi client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. SHOPPI_* environment variables.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string       address:port of the backend gRPC endpoint
//	-s string       path of the local session store ("" keeps it in memory)
//	-t duration     per-request timeout
//	-digest string  password digest scheme for new profiles (argon2id|sha256)
//	-l string       log level
//	-i duration     server reachability check interval (0 disables it)
//
// # JSON schema
//
// Intervals use timex.Duration, so they can be strings like "10s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "operation_timeout": "30s",
//	  "store_path": "shoppi.db",
//	  "store_key": "<64 hex chars>",
//	  "digest_scheme": "argon2id",
//	  "verify_local_digest": true,
//	  "revalidate_after": "24h",
//	  "check_interval": "30s",
//	  "log_level": "info"
//	}
package config
