package prop_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/valdris/riftkit/pkg/prop"
)

// ExampleEncodeBytes demonstrates assembling and encoding a small tree
func ExampleEncodeBytes() {
	tree := &prop.Tree{
		Dependencies: []string{"base/items.bin"},
		Entries: []prop.Entry{{
			Class:  0x01,
			Path:   0x02,
			Values: []prop.Value{prop.MustValue(1, prop.KindInt32, int32(10))},
		}},
	}

	data, err := prop.EncodeBytes(tree)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Encoded %d bytes\n", len(data))

	decoded, err := prop.DecodeBytes(data)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Entries: %d\n", len(decoded.Entries))
	fmt.Printf("Depends on: %s\n", decoded.Dependencies[0])

	// Output:
	// Encoded 55 bytes
	// Entries: 1
	// Depends on: base/items.bin
}

// ExampleDecodeBytes demonstrates error handling for malformed input
func ExampleDecodeBytes() {
	_, err := prop.DecodeBytes([]byte("JUNKDATA"))
	fmt.Println(errors.Is(err, prop.ErrFormat))

	// Output:
	// true
}

// ExampleKind_Pack demonstrates the two tag namespaces
func ExampleKind_Pack() {
	fmt.Printf("0x%02x\n", prop.KindInt32.Pack())
	fmt.Printf("0x%02x\n", prop.KindMap.Pack())

	// Output:
	// 0x06
	// 0x86
}

// ExampleValue_EncodedSize demonstrates size accounting with and without
// the name/tag header
func ExampleValue_EncodedSize() {
	v := prop.MustValue(7, prop.KindString, "abc")
	fmt.Println(v.EncodedSize(true))
	fmt.Println(v.EncodedSize(false))

	// Output:
	// 10
	// 5
}
