package packet

// FileRecordSubResponse is the slave's answer to one FileRecordSubRequest: the reference type it used
// (always 6 on the wire) and the raw big-endian register data it read.
type FileRecordSubResponse struct {
	ReferenceType uint8
	Data          []byte
}

// ReadFileRecordResponseRTU is RTU Response for Read File Record (FC=20/0x14)
//
// Example packet (one sub-response): 0x11 0x14 0x06 0x05 0x06 0x00 0x0a 0x00 0x05 0xC4 0x0B
// 0x11 - unit id (0)
// 0x14 - function code (1)
// 0x06 - byte count of sub-responses to follow (2)
// 0x05 - this sub-response's length (following bytes, including reference type) (3)
// 0x06 - reference type (4)
// 0x00 0x0a 0x00 0x05 - record data (5,6,7,8)
// CRC16 trails the frame
type ReadFileRecordResponseRTU struct {
	ReadFileRecordResponse
}

// ReadFileRecordResponse is Response for Read File Record (FC=20/0x14)
type ReadFileRecordResponse struct {
	UnitID  uint8
	Records []FileRecordSubResponse
}

// Bytes returns ReadFileRecordResponseRTU packet as bytes form
func (r ReadFileRecordResponseRTU) Bytes() []byte {
	result := make([]byte, 3+r.byteCount()+2)
	bytes := r.ReadFileRecordResponse.bytes(result)
	return appendCRC(bytes)
}

// ParseReadFileRecordResponseRTU parses given bytes into ReadFileRecordResponseRTU
func ParseReadFileRecordResponseRTU(data []byte) (*ReadFileRecordResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionReadFileRecord, 5); err != nil {
		return nil, err
	}
	byteCount := int(data[2])
	if len(data) != 3+byteCount+2 {
		return nil, NewMalformedError("response byte count %d does not match packet length %d", byteCount, len(data))
	}
	body := data[3 : 3+byteCount]
	var records []FileRecordSubResponse
	for len(body) > 0 {
		subLen := int(body[0])
		if subLen < 1 || len(body) < 1+subLen {
			return nil, NewMalformedError("file record sub-response length %d overruns response body", subLen)
		}
		records = append(records, FileRecordSubResponse{
			ReferenceType: body[1],
			Data:          body[2 : 1+subLen],
		})
		body = body[1+subLen:]
	}
	return &ReadFileRecordResponseRTU{
		ReadFileRecordResponse: ReadFileRecordResponse{
			UnitID:  data[0],
			Records: records,
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r ReadFileRecordResponse) FunctionCode() uint8 {
	return FunctionReadFileRecord
}

func (r ReadFileRecordResponse) byteCount() int {
	n := 0
	for _, rec := range r.Records {
		n += 2 + len(rec.Data)
	}
	return n
}

// Bytes returns ReadFileRecordResponse packet as bytes form
func (r ReadFileRecordResponse) Bytes() []byte {
	return r.bytes(make([]byte, 3+r.byteCount()))
}

func (r ReadFileRecordResponse) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionReadFileRecord
	bytes[2] = uint8(r.byteCount())
	offset := 3
	for _, rec := range r.Records {
		subLen := 1 + len(rec.Data)
		bytes[offset] = uint8(subLen)
		bytes[offset+1] = rec.ReferenceType
		copy(bytes[offset+2:offset+2+len(rec.Data)], rec.Data)
		offset += 2 + len(rec.Data)
	}
	return bytes
}
