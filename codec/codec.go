// Package codec holds the serializers used for configuration snapshots.
//
// JSON is the default and matches the on-disk layout other clients read
// ({"key":"value",...}). The binary codecs trade that interoperability for
// smaller snapshots and are meant for provider-backed snapshot stores.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Values is the shape of one namespace's configuration.
type Values = map[string]string
