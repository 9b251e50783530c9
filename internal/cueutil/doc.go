// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// Decoding compiles the schema, unifies the user document with one of its
// definitions, validates the result and decodes it into a Go value:
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[Config](schema, data, "#Config",
//	    cueutil.WithFilename("packsmith.cue"))
package cueutil
