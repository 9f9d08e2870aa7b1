package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWriteMultipleCoilsRequestRTU(t *testing.T) {
	packet, err := NewWriteMultipleCoilsRequestRTU(0x11, 0x0410, []bool{true, false, true})
	assert.NoError(t, err)
	assert.Equal(t, &WriteMultipleCoilsRequestRTU{
		WriteMultipleCoilsRequest: WriteMultipleCoilsRequest{
			UnitID: 0x11, StartAddress: 0x0410, CoilCount: 3, Data: []byte{0x05},
		},
	}, packet)

	_, err = NewWriteMultipleCoilsRequestRTU(0x11, 0, nil)
	assert.EqualError(t, err, "quantity is out of range (1-1968): 0")

	_, err = NewWriteMultipleCoilsRequestRTU(247, 0x0410, []bool{true, false, true})
	assert.NoError(t, err)

	_, err = NewWriteMultipleCoilsRequestRTU(248, 0x0410, []bool{true, false, true})
	assert.EqualError(t, err, "unit id must be in range 1-247, got: 248")
}

func TestWriteMultipleCoilsRequestRTU_Bytes(t *testing.T) {
	example := WriteMultipleCoilsRequestRTU{
		WriteMultipleCoilsRequest: WriteMultipleCoilsRequest{
			UnitID: 0x11, StartAddress: 0x0410, CoilCount: 3, Data: []byte{0x05},
		},
	}
	assert.Equal(t, []byte{0x11, 0x0F, 0x04, 0x10, 0x00, 0x03, 0x01, 0x05, 0x8e, 0x1f}, example.Bytes())
}

func TestWriteMultipleCoilsRequestRTU_ExpectedResponseLength(t *testing.T) {
	assert.Equal(t, 8, WriteMultipleCoilsRequestRTU{}.ExpectedResponseLength())
}

func TestWriteMultipleCoilsRequest_FunctionCode(t *testing.T) {
	assert.Equal(t, uint8(0x0F), WriteMultipleCoilsRequest{}.FunctionCode())
}
