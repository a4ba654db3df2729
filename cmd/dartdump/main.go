// Package main provides a command-line utility to inspect dart buffer
// files: it validates the buffer, prints its structural layout (kind,
// byte size, vtable entry count), and renders its contents as JSON.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/target/libdart-sub002/internal/rc"
	"github.com/target/libdart-sub002/jsonbridge"

	dart "github.com/target/libdart-sub002"
)

func main() {
	root := flag.String("root", "object", "expected root kind of the buffer: object or array")
	hexDump := flag.Bool("hex", false, "also dump the raw header and vtable bytes")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: dartdump [flags] <file.dart>")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	file := args[0]
	data, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}

	rootKind, err := parseRootKind(*root)
	if err != nil {
		log.Fatalf("%v", err)
	}

	buf, err := dart.NewBufferFromBytes[rc.Local](data, rootKind)
	if err != nil {
		log.Fatalf("Invalid buffer: %v", err)
	}

	size, _ := buf.Size()
	fmt.Printf("%s: kind=%s size=%d bytes=%d\n", file, buf.Kind(), size, len(data))

	if *hexDump {
		dumpHeader(data)
	}

	out, err := jsonbridge.RenderBuffer(buf)
	if err != nil {
		log.Fatalf("Failed to render JSON: %v", err)
	}
	fmt.Println(string(out))
}

func parseRootKind(s string) (dart.Kind, error) {
	switch s {
	case "object":
		return dart.Object, nil
	case "array":
		return dart.Array, nil
	default:
		return 0, fmt.Errorf("unrecognized -root value %q (want object or array)", s)
	}
}

// dumpHeader hex-dumps the first 24 bytes of the buffer: the 8-byte
// header plus the first two vtable entries, or less if the buffer is
// shorter.
func dumpHeader(data []byte) {
	n := len(data)
	if n > 24 {
		n = 24
	}
	for row := 0; row < n; row += 16 {
		end := row + 16
		if end > n {
			end = n
		}
		chunk := data[row:end]
		fmt.Printf("%08x: ", row)
		for j := 0; j < 16; j++ {
			if j < len(chunk) {
				fmt.Printf("%02x ", chunk[j])
			} else {
				fmt.Print("   ")
			}
			if j == 7 {
				fmt.Print(" ")
			}
		}
		fmt.Print(" |")
		for _, b := range chunk {
			if b >= 32 && b <= 126 {
				fmt.Printf("%c", b)
			} else {
				fmt.Print(".")
			}
		}
		fmt.Println("|")
	}
}
