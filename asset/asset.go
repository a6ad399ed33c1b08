/*
Package asset writes an encoded stream as source code so it can be compiled
into firmware or a Go binary.

The C form declares the two symbols the playback firmware links against:

	const uint8_t viddata[];
	const uint32_t viddata_size;
*/
package asset

import (
	"bufio"
	"errors"
	"fmt"
	"go/token"
	"io"
)

const (
	// CFilename is the expected filename used when writing C source
	CFilename = "viddata.c"
	// GoFilename is the expected filename used when writing Go source
	GoFilename = "viddata.go"

	bytesPerLine = 12
)

// Asset is a named blob of stream data.
type Asset struct {
	Name string
	Data []byte
}

// New returns an Asset using the symbol names the firmware expects.
func New(data []byte) *Asset {
	return &Asset{
		Name: "viddata",
		Data: data,
	}
}

func (a *Asset) writeBytes(w *bufio.Writer, indent string) error {
	for i, b := range a.Data {
		if i%bytesPerLine == 0 {
			if _, err := w.WriteString(indent); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "0x%02x,", b); err != nil {
			return err
		}
		if i%bytesPerLine == bytesPerLine-1 || i == len(a.Data)-1 {
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		} else if err := w.WriteByte(' '); err != nil {
			return err
		}
	}
	return nil
}

// WriteC writes the asset as a C translation unit.
func (a *Asset) WriteC(w io.Writer) error {
	if !token.IsIdentifier(a.Name) {
		return fmt.Errorf("asset: invalid name %q", a.Name)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#include <stdint.h>\n\n")
	fmt.Fprintf(bw, "#ifdef __cplusplus\nextern \"C\" {\n#endif\n")
	fmt.Fprintf(bw, "const uint8_t %s[] = {\n", a.Name)
	if err := a.writeBytes(bw, "    "); err != nil {
		return err
	}
	fmt.Fprintf(bw, "};\n")
	fmt.Fprintf(bw, "const uint32_t %s_size = %d;\n", a.Name, len(a.Data))
	fmt.Fprintf(bw, "#ifdef __cplusplus\n}\n#endif\n")

	return bw.Flush()
}

// WriteGo writes the asset as a Go source file in package pkg.
func (a *Asset) WriteGo(w io.Writer, pkg string) error {
	if !token.IsIdentifier(a.Name) {
		return fmt.Errorf("asset: invalid name %q", a.Name)
	}
	if !token.IsIdentifier(pkg) {
		return errors.New("asset: invalid package name")
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "// Code generated by monovid embed. DO NOT EDIT.\n\n")
	fmt.Fprintf(bw, "package %s\n\n", pkg)
	fmt.Fprintf(bw, "var %s = []byte{\n", a.Name)
	if err := a.writeBytes(bw, "\t"); err != nil {
		return err
	}
	fmt.Fprintf(bw, "}\n")

	return bw.Flush()
}
