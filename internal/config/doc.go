// SPDX-License-Identifier: MPL-2.0

// Package config loads the project descriptor.
//
// The descriptor is a CUE file (packsmith.cue by default) validated against the
// embedded #Config schema, merged over defaults with Viper and overridable from
// PACKSMITH_* environment variables. Relative paths are resolved against
// project.base_dir, which defaults to the descriptor's directory.
package config
