// Package rpc defines the wire messages, procedure names, and codec for
// CrewLedger's Connect RPC surface. Messages are plain Go structs serialized
// with encoding/json; there is no generated protobuf code.
package rpc

import "encoding/json"

// Codec marshals RPC messages with encoding/json. Registering it under the
// name "json" replaces Connect's protobuf-backed JSON codec, so handlers and
// clients exchange plain structs over ordinary application/json bodies.
type Codec struct{}

// Name reports the codec name Connect matches against the content type.
func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (Codec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }
