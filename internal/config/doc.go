// Package config loads cellstore.toml and applies CELLSTORE_* environment
// overrides for the CLI, inspector, and metrics surface.
//
// A missing file is not an error; defaults apply. Environment variables win
// over file values, so deployments can flip the inspector or metrics on
// without editing the file:
//
//	CELLSTORE_INSPECT_ENABLED=true CELLSTORE_INSPECT_ADDR=:7811 cellstore demo
package config
