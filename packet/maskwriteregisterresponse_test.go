package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskWriteRegisterResponseRTU_Bytes(t *testing.T) {
	example := MaskWriteRegisterResponseRTU{
		MaskWriteRegisterResponse: MaskWriteRegisterResponse{UnitID: 0x11, Address: 0x04, AndMask: 0x00F2, OrMask: 0x0025},
	}
	assert.Equal(t, []byte{0x11, 0x16, 0x00, 0x04, 0x00, 0xF2, 0x00, 0x25, 0x66, 0xE2}, example.Bytes())
}

func TestParseMaskWriteRegisterResponseRTU(t *testing.T) {
	result, err := ParseMaskWriteRegisterResponseRTU([]byte{0x11, 0x16, 0x00, 0x04, 0x00, 0xF2, 0x00, 0x25, 0x66, 0xE2})
	assert.NoError(t, err)
	assert.Equal(t, &MaskWriteRegisterResponseRTU{
		MaskWriteRegisterResponse: MaskWriteRegisterResponse{UnitID: 0x11, Address: 0x04, AndMask: 0x00F2, OrMask: 0x0025},
	}, result)

	_, err = ParseMaskWriteRegisterResponseRTU([]byte{0x11, 0x16, 0x00})
	assert.EqualError(t, err, "response for function code 0x16 is too short: 3 bytes")
}
