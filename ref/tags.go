package ref

// ---------------------------------------------------------------------------
// Frozen tag bytes for the structural hash serialization.
//
// IMPORTANT: These tags are FROZEN. Digests are persisted in metadata
// indexes; changing a tag's meaning invalidates every stored digest.
// ---------------------------------------------------------------------------

// HashVersion prefixes every serialization. Bumping it invalidates all
// existing digests.
const HashVersion byte = 1

// Shape tags. Each shape is tagged before its fields so that references
// of different shapes never share a serialization.
const (
	TagTypeSingle        byte = 0x00
	TagTypeGeneric       byte = 0x01
	TagTypeWithGeneric   byte = 0x02
	TagMethodSingle      byte = 0x03
	TagMethodWithGeneric byte = 0x04
)

// allTags lists every defined tag for uniqueness verification in tests.
var allTags = []byte{
	TagTypeSingle, TagTypeGeneric, TagTypeWithGeneric,
	TagMethodSingle, TagMethodWithGeneric,
}
