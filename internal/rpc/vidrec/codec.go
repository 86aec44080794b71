// Package vidrec defines the wire surface of the service: request and
// response messages, the Recommender and Users service descriptors, and typed
// clients. Messages travel as JSON under the "json" content-subtype.
package vidrec

import (
	json "github.com/goccy/go-json"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// Codec is the content-subtype name every call in this package uses.
const Codec = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return Codec }

// callOpts prepends the JSON content-subtype to caller options.
func callOpts(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(Codec)}, opts...)
}
