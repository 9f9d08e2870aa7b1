package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadFileRecordResponseRTU_Bytes(t *testing.T) {
	example := ReadFileRecordResponseRTU{
		ReadFileRecordResponse: ReadFileRecordResponse{
			UnitID:  0x11,
			Records: []FileRecordSubResponse{{ReferenceType: 6, Data: []byte{0x00, 0x0a, 0x00, 0x05}}},
		},
	}
	bytes := example.Bytes()
	assert.Equal(t, []byte{0x11, 0x14, 0x06, 0x05, 0x06, 0x00, 0x0a, 0x00, 0x05}, bytes[:9])
	assert.Len(t, bytes, 9+2)
}

func TestParseReadFileRecordResponseRTU(t *testing.T) {
	frame := []byte{0x11, 0x14, 0x06, 0x05, 0x06, 0x00, 0x0a, 0x00, 0x05, 0x00, 0x00}
	crc := CRC16(frame[:9])
	frame[9] = uint8(crc)
	frame[10] = uint8(crc >> 8)

	result, err := ParseReadFileRecordResponseRTU(frame)
	assert.NoError(t, err)
	assert.Equal(t, &ReadFileRecordResponseRTU{
		ReadFileRecordResponse: ReadFileRecordResponse{
			UnitID:  0x11,
			Records: []FileRecordSubResponse{{ReferenceType: 6, Data: []byte{0x00, 0x0a, 0x00, 0x05}}},
		},
	}, result)
}
