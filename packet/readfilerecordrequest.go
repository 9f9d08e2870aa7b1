package packet

import "encoding/binary"

// fileRecordSubRequestLen is the wire size of a single Read/Write File Record sub-request reference:
// reference type (1) + file number (2) + record number (2) + record length (2).
const fileRecordSubRequestLen = 7

// FileRecordSubRequest addresses one record inside one extended-memory file. ReferenceType is always
// 6 on the wire per the MODBUS Application Protocol; it is kept here so a caller reading a captured
// frame back can sanity check it.
type FileRecordSubRequest struct {
	ReferenceType uint8
	FileNumber    uint16
	RecordNumber  uint16
	RecordLength  uint16
}

// ReadFileRecordRequestRTU is RTU Request for Read File Record (FC=20/0x14)
//
// Example packet (one sub-request): 0x11 0x14 0x07 0x06 0x00 0x04 0x00 0x01 0x00 0x02 0xD9 0x70
// 0x11 - unit id (0)
// 0x14 - function code (1)
// 0x07 - byte count of sub-requests to follow (2)
// 0x06 0x00 0x04 0x00 0x01 0x00 0x02 - one sub-request: ref type, file #, record #, record length (3..9)
// CRC16 trails the frame
type ReadFileRecordRequestRTU struct {
	ReadFileRecordRequest
}

// ReadFileRecordRequest is Request for Read File Record (FC=20/0x14)
type ReadFileRecordRequest struct {
	UnitID  uint8
	Records []FileRecordSubRequest
}

// NewReadFileRecordRequestRTU creates new instance of Read File Record RTU request
func NewReadFileRecordRequestRTU(unitID uint8, records []FileRecordSubRequest) (*ReadFileRecordRequestRTU, error) {
	if err := validateUnitID(unitID); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, NewInvalidArgumentError("at least one file record sub-request is required")
	}
	if len(records)*fileRecordSubRequestLen > 253 {
		return nil, NewInvalidArgumentError("too many file record sub-requests to fit in one PDU: %d", len(records))
	}
	for i, rec := range records {
		if err := validateQuantity(rec.RecordLength, 1, MaxFileRecordLength); err != nil {
			return nil, NewInvalidArgumentError("sub-request %d: %v", i, err)
		}
	}
	return &ReadFileRecordRequestRTU{
		ReadFileRecordRequest: ReadFileRecordRequest{
			UnitID:  unitID,
			Records: records,
		},
	}, nil
}

// Bytes returns ReadFileRecordRequestRTU packet as bytes form
func (r ReadFileRecordRequestRTU) Bytes() []byte {
	byteCount := len(r.Records) * fileRecordSubRequestLen
	result := make([]byte, 3+byteCount+2)
	bytes := r.ReadFileRecordRequest.bytes(result)
	return appendCRC(bytes)
}

// ExpectedResponseLength returns the minimum length of bytes a valid response to this request would
// have; file sub-responses carry their own length byte so the exact length also depends on slave data.
func (r ReadFileRecordRequestRTU) ExpectedResponseLength() int {
	return 3 + 2 + len(r.Records)*2
}

// FunctionCode returns function code of this request
func (r ReadFileRecordRequest) FunctionCode() uint8 {
	return FunctionReadFileRecord
}

// Bytes returns ReadFileRecordRequest packet as bytes form
func (r ReadFileRecordRequest) Bytes() []byte {
	return r.bytes(make([]byte, 3+len(r.Records)*fileRecordSubRequestLen))
}

func (r ReadFileRecordRequest) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionReadFileRecord
	bytes[2] = uint8(len(r.Records) * fileRecordSubRequestLen)
	offset := 3
	for _, rec := range r.Records {
		bytes[offset] = rec.ReferenceType
		binary.BigEndian.PutUint16(bytes[offset+1:offset+3], rec.FileNumber)
		binary.BigEndian.PutUint16(bytes[offset+3:offset+5], rec.RecordNumber)
		binary.BigEndian.PutUint16(bytes[offset+5:offset+7], rec.RecordLength)
		offset += fileRecordSubRequestLen
	}
	return bytes
}
