// Package codec protects the opaque payloads the orchestration substrate
// persists between steps. Payloads are self-describing: the metadata carried
// alongside the data states how the bytes were encoded and, once encrypted,
// which key and cipher produced them, so decoding needs no external context.
package codec

// Well-known metadata keys and values.
const (
	// MetadataEncoding tags the payload's encoding.
	MetadataEncoding = "encoding"
	// MetadataCipher names the cipher used for an encrypted payload.
	MetadataCipher = "encryption-cipher"
	// MetadataKeyID identifies the key an encrypted payload was written under.
	MetadataKeyID = "encryption-key-id"
	// MetadataOriginalEncoding preserves the pre-encryption encoding tag so
	// decode can restore it.
	MetadataOriginalEncoding = "original-encoding"

	// EncodingEncrypted marks an encrypted payload.
	EncodingEncrypted = "binary/encrypted"
	// EncodingJSON is the encoding the flow layer uses for plaintext payloads.
	EncodingJSON = "json/plain"

	// CipherName is the cipher identifier written into encrypted payloads.
	CipherName = "AES/GCM/NoPadding"
)

// Payload is an opaque datum plus its metadata. Both sides survive the
// encrypt/decrypt round trip byte for byte.
type Payload struct {
	Metadata map[string][]byte `json:"metadata,omitempty"`
	Data     []byte            `json:"data,omitempty"`
}

// NewJSON builds a plaintext payload carrying JSON-encoded data.
func NewJSON(data []byte) Payload {
	return Payload{
		Metadata: map[string][]byte{MetadataEncoding: []byte(EncodingJSON)},
		Data:     data,
	}
}

// Encoding returns the payload's encoding tag, or "".
func (p Payload) Encoding() string {
	return string(p.Metadata[MetadataEncoding])
}

// Encrypted reports whether the payload carries ciphertext.
func (p Payload) Encrypted() bool {
	return p.Encoding() == EncodingEncrypted
}

// Clone deep-copies the payload.
func (p Payload) Clone() Payload {
	clone := Payload{}
	if p.Data != nil {
		clone.Data = append([]byte(nil), p.Data...)
	}
	if p.Metadata != nil {
		clone.Metadata = make(map[string][]byte, len(p.Metadata))
		for k, v := range p.Metadata {
			clone.Metadata[k] = append([]byte(nil), v...)
		}
	}
	return clone
}
