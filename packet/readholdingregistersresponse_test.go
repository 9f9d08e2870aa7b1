package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadHoldingRegistersResponseRTU_Bytes(t *testing.T) {
	example := ReadHoldingRegistersResponseRTU{
		ReadHoldingRegistersResponse: ReadHoldingRegistersResponse{UnitID: 1, RegisterByteLen: 2, Data: []byte{0xCD, 0x6B}},
	}
	assert.Equal(t, []byte{0x01, 0x03, 0x02, 0xCD, 0x6B, 0xAD, 0x3B}, example.Bytes())
}

func TestParseReadHoldingRegistersResponseRTU(t *testing.T) {
	result, err := ParseReadHoldingRegistersResponseRTU([]byte{0x01, 0x03, 0x02, 0xCD, 0x6B, 0xAD, 0x3B})
	assert.NoError(t, err)
	assert.Equal(t, &ReadHoldingRegistersResponseRTU{
		ReadHoldingRegistersResponse: ReadHoldingRegistersResponse{UnitID: 1, RegisterByteLen: 2, Data: []byte{0xCD, 0x6B}},
	}, result)

	exceptionFrame := []byte{0x01, 0x83, 0x02, 0x00, 0x00}
	crc := CRC16(exceptionFrame[:3])
	exceptionFrame[3] = uint8(crc)
	exceptionFrame[4] = uint8(crc >> 8)

	_, err = ParseReadHoldingRegistersResponseRTU(exceptionFrame)
	var modbusErr *ModbusError
	assert.ErrorAs(t, err, &modbusErr)
	assert.Equal(t, KindException, modbusErr.Kind)
}

func TestReadHoldingRegistersResponse_AsRegisters(t *testing.T) {
	resp := ReadHoldingRegistersResponse{Data: []byte{0x00, 0x01}}
	regs, err := resp.AsRegisters(100)
	assert.NoError(t, err)

	v, err := regs.Uint16(100)
	assert.NoError(t, err)
	assert.Equal(t, uint16(1), v)
}
