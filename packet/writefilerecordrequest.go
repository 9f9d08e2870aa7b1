package packet

import "encoding/binary"

// FileRecordSubWrite addresses one record inside one extended-memory file and carries the words to
// write into it. ReferenceType is always 6 on the wire per the MODBUS Application Protocol.
type FileRecordSubWrite struct {
	ReferenceType uint8
	FileNumber    uint16
	RecordNumber  uint16
	// Data must hold an even number of bytes (each register is 2 bytes, big-endian).
	Data []byte
}

func (w FileRecordSubWrite) recordLength() uint16 {
	return uint16(len(w.Data) / 2)
}

// WriteFileRecordRequestRTU is RTU Request for Write File Record (FC=21/0x15)
//
// Example packet (one sub-request writing one register): 0x11 0x15 0x09 0x06 0x00 0x04 0x00 0x07 0x00 0x01 0x00 0x0a 0xC7 0x7A
// 0x11 - unit id (0)
// 0x15 - function code (1)
// 0x09 - byte count of sub-requests to follow (2)
// 0x06 0x00 0x04 0x00 0x07 0x00 0x01 - ref type, file #, record #, record length (3..9)
// 0x00 0x0a - record data (1 register) (10,11)
// CRC16 trails the frame
type WriteFileRecordRequestRTU struct {
	WriteFileRecordRequest
}

// WriteFileRecordRequest is Request for Write File Record (FC=21/0x15)
type WriteFileRecordRequest struct {
	UnitID  uint8
	Records []FileRecordSubWrite
}

// NewWriteFileRecordRequestRTU creates new instance of Write File Record RTU request
func NewWriteFileRecordRequestRTU(unitID uint8, records []FileRecordSubWrite) (*WriteFileRecordRequestRTU, error) {
	if err := validateUnitID(unitID); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, NewInvalidArgumentError("at least one file record sub-request is required")
	}
	for i, rec := range records {
		if len(rec.Data)%2 != 0 {
			return nil, NewInvalidArgumentError("sub-request %d: data length must be an even number of bytes, got %d", i, len(rec.Data))
		}
		if err := validateQuantity(rec.recordLength(), 1, MaxFileRecordLength); err != nil {
			return nil, NewInvalidArgumentError("sub-request %d: %v", i, err)
		}
	}
	r := &WriteFileRecordRequestRTU{
		WriteFileRecordRequest: WriteFileRecordRequest{
			UnitID:  unitID,
			Records: records,
		},
	}
	if r.byteCount() > 253 {
		return nil, NewInvalidArgumentError("file record sub-requests too large to fit in one PDU: %d bytes", r.byteCount())
	}
	return r, nil
}

func (r WriteFileRecordRequest) byteCount() int {
	n := 0
	for _, rec := range r.Records {
		n += 7 + len(rec.Data)
	}
	return n
}

// Bytes returns WriteFileRecordRequestRTU packet as bytes form
func (r WriteFileRecordRequestRTU) Bytes() []byte {
	result := make([]byte, 3+r.byteCount()+2)
	bytes := r.WriteFileRecordRequest.bytes(result)
	return appendCRC(bytes)
}

// ExpectedResponseLength returns length of bytes that valid response to this request would be: a
// well-behaved slave echoes the request verbatim.
func (r WriteFileRecordRequestRTU) ExpectedResponseLength() int {
	return 3 + r.byteCount() + 2
}

// FunctionCode returns function code of this request
func (r WriteFileRecordRequest) FunctionCode() uint8 {
	return FunctionWriteFileRecord
}

// Bytes returns WriteFileRecordRequest packet as bytes form
func (r WriteFileRecordRequest) Bytes() []byte {
	return r.bytes(make([]byte, 3+r.byteCount()))
}

func (r WriteFileRecordRequest) bytes(bytes []byte) []byte {
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
