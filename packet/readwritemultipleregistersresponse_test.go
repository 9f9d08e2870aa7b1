package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadWriteMultipleRegistersResponseRTU_Bytes(t *testing.T) {
	example := ReadWriteMultipleRegistersResponseRTU{
		ReadWriteMultipleRegistersResponse: ReadWriteMultipleRegistersResponse{UnitID: 0x11, RegisterByteLen: 2, Data: []byte{0xCD, 0x6B}},
	}
	assert.Equal(t, []byte{0x11, 0x17, 0x02, 0xCD, 0x6B, 0x69, 0x08}, example.Bytes())
}

func TestParseReadWriteMultipleRegistersResponseRTU(t *testing.T) {
	result, err := ParseReadWriteMultipleRegistersResponseRTU([]byte{0x11, 0x17, 0x02, 0xCD, 0x6B, 0x69, 0x08})
	assert.NoError(t, err)
	assert.Equal(t, &ReadWriteMultipleRegistersResponseRTU{
		ReadWriteMultipleRegistersResponse: ReadWriteMultipleRegistersResponse{UnitID: 0x11, RegisterByteLen: 2, Data: []byte{0xCD, 0x6B}},
	}, result)
}

func TestReadWriteMultipleRegistersResponse_AsRegisters(t *testing.T) {
	resp := ReadWriteMultipleRegistersResponse{Data: []byte{0x00, 0x01}}
	regs, err := resp.AsRegisters(20)
	assert.NoError(t, err)

	v, err := regs.Uint16(20)
	assert.NoError(t, err)
	assert.Equal(t, uint16(1), v)
}
