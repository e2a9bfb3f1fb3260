// Package config defines configuration for the psort CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (PSORT_ prefix)
//   - YAML configuration file
//
// Later sources override earlier ones: file, then environment, then flags.
//
// # Example
//
//	max_workers: 8
//	input: s3://numbers/in.bin.zst
//	output: out.txt
//	format: binary
//	memory_limit: 2GiB
//	io_limit: 64MiB
//	log:
//	  level: debug
//	  format: json
package config
