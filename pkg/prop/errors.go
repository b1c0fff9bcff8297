package prop

import "errors"

// ErrFormat is returned when a stream does not start with the PROP magic or
// declares a version this codec does not understand.
var ErrFormat = errors.New("prop: not a property tree stream")

// ErrInvalidTag is returned when a wire tag byte does not unpack to a known
// value kind. Decoding cannot resynchronize after this, so the whole tree
// decode is aborted.
var ErrInvalidTag = errors.New("prop: invalid type tag")

// ErrUnsupportedMapKey is returned when a non-hashable kind is used as a map
// key, either in decoded bytes or in a tree handed to Encode. Distinct
// non-hashable keys would silently collide, so they are rejected outright.
var ErrUnsupportedMapKey = errors.New("prop: unsupported map key kind")
