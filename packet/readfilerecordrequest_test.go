package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReadFileRecordRequestRTU(t *testing.T) {
	records := []FileRecordSubRequest{{ReferenceType: 6, FileNumber: 4, RecordNumber: 1, RecordLength: 2}}

	packet, err := NewReadFileRecordRequestRTU(0x11, records)
	assert.NoError(t, err)
	assert.Equal(t, &ReadFileRecordRequestRTU{
		ReadFileRecordRequest: ReadFileRecordRequest{UnitID: 0x11, Records: records},
	}, packet)

	_, err = NewReadFileRecordRequestRTU(0x11, nil)
	assert.EqualError(t, err, "at least one file record sub-request is required")

	_, err = NewReadFileRecordRequestRTU(0x11, []FileRecordSubRequest{{ReferenceType: 6, RecordLength: 0}})
	assert.EqualError(t, err, "sub-request 0: quantity is out of range (1-120): 0")

	_, err = NewReadFileRecordRequestRTU(247, records)
	assert.NoError(t, err)

	_, err = NewReadFileRecordRequestRTU(248, records)
	assert.EqualError(t, err, "unit id must be in range 1-247, got: 248")
}

func TestReadFileRecordRequestRTU_Bytes(t *testing.T) {
	example := ReadFileRecordRequestRTU{
		ReadFileRecordRequest: ReadFileRecordRequest{
			UnitID:  0x11,
			Records: []FileRecordSubRequest{{ReferenceType: 6, FileNumber: 4, RecordNumber: 1, RecordLength: 2}},
		},
	}
	bytes := example.Bytes()
	assert.Equal(t, []byte{0x11, 0x14, 0x07, 0x06, 0x00, 0x04, 0x00, 0x01, 0x00, 0x02}, bytes[:10])
	assert.Len(t, bytes, 10+2)
}

func TestReadFileRecordRequest_FunctionCode(t *testing.T) {
	assert.Equal(t, uint8(0x14), ReadFileRecordRequest{}.FunctionCode())
}
