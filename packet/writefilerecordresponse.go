package packet

import "encoding/binary"

// WriteFileRecordResponseRTU is RTU Response for Write File Record (FC=21/0x15)
//
// A well-behaved slave echoes the request verbatim.
type WriteFileRecordResponseRTU struct {
	WriteFileRecordResponse
}

// WriteFileRecordResponse is Response for Write File Record (FC=21/0x15)
type WriteFileRecordResponse struct {
	UnitID  uint8
	Records []FileRecordSubWrite
}

func (r WriteFileRecordResponse) byteCount() int {
	n := 0
	for _, rec := range r.Records {
		n += 7 + len(rec.Data)
	}
	return n
}

// Bytes returns WriteFileRecordResponseRTU packet as bytes form
func (r WriteFileRecordResponseRTU) Bytes() []byte {
	result := make([]byte, 3+r.byteCount()+2)
	bytes := r.WriteFileRecordResponse.bytes(result)
	return appendCRC(bytes)
}

// ParseWriteFileRecordResponseRTU parses given bytes into WriteFileRecordResponseRTU
func ParseWriteFileRecordResponseRTU(data []byte) (*WriteFileRecordResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionWriteFileRecord, 5); err != nil {
		return nil, err
	}
	byteCount := int(data[2])
	if len(data) != 3+byteCount+2 {
		return nil, NewMalformedError("response byte count %d does not match packet length %d", byteCount, len(data))
	}
	body := data[3 : 3+byteCount]
	var records []FileRecordSubWrite
	for len(body) >= 7 {
		recordLength := binary.BigEndian.Uint16(body[5:7])
		dataLen := int(recordLength) * 2
		if len(body) < 7+dataLen {
			return nil, NewMalformedError("file record sub-response record length %d overruns response body", recordLength)
		}
		records = append(records, FileRecordSubWrite{
			ReferenceType: body[0],
			FileNumber:    binary.BigEndian.Uint16(body[1:3]),
			RecordNumber:  binary.BigEndian.Uint16(body[3:5]),
			Data:          body[7 : 7+dataLen],
		})
		body = body[7+dataLen:]
	}
	return &WriteFileRecordResponseRTU{
		WriteFileRecordResponse: WriteFileRecordResponse{
			UnitID:  data[0],
			Records: records,
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r WriteFileRecordResponse) FunctionCode() uint8 {
	return FunctionWriteFileRecord
}

// Bytes returns WriteFileRecordResponse packet as bytes form
func (r WriteFileRecordResponse) Bytes() []byte {
	return r.bytes(make([]byte, 3+r.byteCount()))
}

func (r WriteFileRecordResponse) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionWriteFileRecord
	bytes[2] = uint8(r.byteCount())
	offset := 3
	for _, rec := range r.Records {
		bytes[offset] = rec.ReferenceType
		binary.BigEndian.PutUint16(bytes[offset+1:offset+3], rec.FileNumber)
		binary.BigEndian.PutUint16(bytes[offset+3:offset+5], rec.RecordNumber)
		binary.BigEndian.PutUint16(bytes[offset+5:offset+7], rec.recordLength())
		copy(bytes[offset+7:offset+7+len(rec.Data)], rec.Data)
		offset += 7 + len(rec.Data)
	}
	return bytes
}
