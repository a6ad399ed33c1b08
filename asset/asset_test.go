package asset

import (
	"bytes"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteC(t *testing.T) {
	data := make([]byte, 14)
	for i := range data {
		data[i] = byte(i * 17)
	}

	b := new(bytes.Buffer)
	require.Nil(t, New(data).WriteC(b))

	assert.Equal(t, `#include <stdint.h>

#ifdef __cplusplus
extern "C" {
#endif
const uint8_t viddata[] = {
    0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb,
    0xcc, 0xdd,
};
const uint32_t viddata_size = 14;
#ifdef __cplusplus
}
#endif
`, b.String())
}

func TestWriteGo(t *testing.T) {
	b := new(bytes.Buffer)
	require.Nil(t, (&Asset{Name: "clip", Data: []byte{1, 2, 3}}).WriteGo(b, "videos"))

	f, err := parser.ParseFile(token.NewFileSet(), "viddata.go", b.Bytes(), 0)
	require.Nil(t, err)
	assert.Equal(t, "videos", f.Name.Name)
	assert.Contains(t, b.String(), "var clip = []byte{\n\t0x01, 0x02, 0x03,\n}\n")
}

func TestInvalidNames(t *testing.T) {
	b := new(bytes.Buffer)
	assert.NotNil(t, (&Asset{Name: "my clip"}).WriteC(b))
	assert.NotNil(t, (&Asset{Name: "clip"}).WriteGo(b, "1pkg"))
}
