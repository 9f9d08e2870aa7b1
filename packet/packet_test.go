package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16(t *testing.T) {
	// 01 04 02 FF FF -> CRC 0x80B8, transmitted low byte first as B8 80.
	assert.Equal(t, uint16(0x80B8), CRC16([]byte{0x01, 0x04, 0x02, 0xFF, 0xFF}))
}

func TestAppendCRC(t *testing.T) {
	frame := make([]byte, 7)
	copy(frame, []byte{0x01, 0x04, 0x02, 0xFF, 0xFF})

	result := appendCRC(frame)

	assert.Equal(t, []byte{0x01, 0x04, 0x02, 0xFF, 0xFF, 0xB8, 0x80}, result)
}

func TestValidateUnitID(t *testing.T) {
	assert.NoError(t, validateUnitID(1))
	assert.NoError(t, validateUnitID(247))
	assert.EqualError(t, validateUnitID(0), "unit id must be in range 1-247, got: 0")
}

func TestValidateQuantity(t *testing.T) {
	assert.NoError(t, validateQuantity(1, 1, 125))
	assert.NoError(t, validateQuantity(125, 1, 125))
	assert.EqualError(t, validateQuantity(0, 1, 125), "quantity is out of range (1-125): 0")
	assert.EqualError(t, validateQuantity(126, 1, 125), "quantity is out of range (1-125): 126")
}
