// Package prop implements the PROP property-bag binary format: a
// self-describing, recursive, tagged-union serialization of typed property
// trees used by game asset files.
//
// # Stream layout
//
// A document is a Tree:
//
//	[Magic "PROP"(4)][Version(4)]
//	[DependencyCount(4)]{[Length(2)][UTF-8 bytes]}     (version >= 2)
//	[EntryCount(4)]{[ClassId(4)]}{entry bodies}
//
// Class ids for every entry are laid out contiguously before any entry body;
// bodies are matched to their class by position. Each entry body is:
//
//	[DeclaredSize(4)][PathId(4)][ValueCount(2)]{named values}
//
// A named value is [NameHash(4)][Tag(1)][payload]; container elements, map
// keys/values and optional payloads are written bare (payload only). The
// tag byte carries one of 26 kinds: the original 18 use their raw values
// 0-17, the eight added by the second format revision are packed into the
// 0x80 namespace.
//
// Aggregate payloads (Container, Map, Structure) embed a content byte
// length computed bottom-up before any byte is written, so a linear reader
// never needs to seek backward. Value.EncodedSize returns exactly the byte
// count encode emits; the two must never disagree or the file is corrupt.
//
// # Quirks preserved
//
// Container/Container2 and Structure/Embedded are byte-identical payloads
// under distinct tags; the decoded tag is kept on the node and re-emitted
// verbatim so round trips are byte-exact. Map keys of String kind hash and
// compare case-insensitively. Color channels are quantized to bytes by
// truncation. All of these match the format, not local taste.
//
// # Errors
//
// Decoding fails with ErrFormat (magic/version), binio.ErrTruncated,
// ErrInvalidTag, binio.ErrInvalidUTF8 or ErrUnsupportedMapKey. A single
// misaligned tag corrupts every subsequent read, so any failure aborts the
// whole tree decode with no partial result. Encoding fails only on
// underlying I/O errors or an invalid map key kind.
package prop
