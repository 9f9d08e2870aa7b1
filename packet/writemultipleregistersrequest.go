package packet

import "encoding/binary"

// WriteMultipleRegistersRequestRTU is RTU Request for Write Multiple Registers (FC=16/0x10)
//
// Example packet: 0x11 0x10 0x04 0x10 0x00 0x03 0x06 0x00 0xC8 0x00 0x82 0x87 0x01 0x2f 0x7d
// 0x11 - unit id (0)
// 0x10 - function code (1)
// 0x04 0x10 - start address (2,3)
// 0x00 0x03 - count of registers to write (4,5)
// 0x06 - registers byte count (6)
// 0x00 0xC8 0x00 0x82 0x87 0x01 - registers data (7,8, ...)
// 0x2f 0x7d - CRC16 (n-2,n-1)
type WriteMultipleRegistersRequestRTU struct {
	WriteMultipleRegistersRequest
}

// WriteMultipleRegistersRequest is Request for Write Multiple Registers (FC=16/0x10)
type WriteMultipleRegistersRequest struct {
	UnitID        uint8
	StartAddress  uint16
	RegisterCount uint16
	// Data must be in BigEndian byte order for server to interpret it correctly. We send it as is.
	Data []byte
}

// NewWriteMultipleRegistersRequestRTU creates new instance of Write Multiple Registers RTU request.
// NB: bytes for `data` must be in BigEndian byte order for the slave to interpret them correctly.
func NewWriteMultipleRegistersRequestRTU(unitID uint8, startAddress uint16, data []byte) (*WriteMultipleRegistersRequestRTU, error) {
	if err := validateUnitID(unitID); err != nil {
		return nil, err
	}
	if len(data)%2 != 0 {
		return nil, NewInvalidArgumentError("data length must be an even number of bytes, got %d", len(data))
	}
	registerCount := uint16(len(data) / 2)
	if err := validateQuantity(registerCount, 1, MaxRegistersInWriteRequest); err != nil {
		return nil, err
	}

	return &WriteMultipleRegistersRequestRTU{
		WriteMultipleRegistersRequest: WriteMultipleRegistersRequest{
			UnitID:        unitID,
			StartAddress:  startAddress,
			RegisterCount: registerCount,
			Data:          data,
		},
	}, nil
}

// Bytes returns WriteMultipleRegistersRequestRTU packet as bytes form
func (r WriteMultipleRegistersRequestRTU) Bytes() []byte {
	pduLen := r.len() + 2
	result := make([]byte, pduLen)
	bytes := r.WriteMultipleRegistersRequest.bytes(result)
	return appendCRC(bytes)
}

// ExpectedResponseLength returns length of bytes that valid response to this request would be
func (r WriteMultipleRegistersRequestRTU) ExpectedResponseLength() int {
	// response = 1 unitID + 1 functionCode + 2 start addr + 2 count of registers + 2 CRC
	return 6 + 2
}

// FunctionCode returns function code of this request
func (r WriteMultipleRegistersRequest) FunctionCode() uint8 {
	return FunctionWriteMultipleRegisters
}

func (r WriteMultipleRegistersRequest) len() uint16 {
	return 7 + uint16(len(r.Data))
}

// Bytes returns WriteMultipleRegistersRequest packet as bytes form
func (r WriteMultipleRegistersRequest) Bytes() []byte {
	return r.bytes(make([]byte, r.len()))
}

func (r WriteMultipleRegistersRequest) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionWriteMultipleRegisters
	binary.BigEndian.PutUint16(bytes[2:4], r.StartAddress)
	binary.BigEndian.PutUint16(bytes[4:6], r.RegisterCount)
	bytes[6] = uint8(len(r.Data))
	copy(bytes[7:], r.Data)
	return bytes
}
