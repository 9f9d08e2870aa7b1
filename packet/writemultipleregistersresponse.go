package packet

import "encoding/binary"

// WriteMultipleRegistersResponseRTU is RTU Response for Write Multiple Registers (FC=16/0x10)
//
// Example packet: 0x11 0x10 0x04 0x10 0x00 0x03 0x82 0x6d
// 0x11 - unit id (0)
// 0x10 - function code (1)
// 0x04 0x10 - start address (2,3)
// 0x00 0x03 - count of registers written (4,5)
// 0x82 0x6d - CRC16 (6,7)
type WriteMultipleRegistersResponseRTU struct {
	WriteMultipleRegistersResponse
}

// WriteMultipleRegistersResponse is Response for Write Multiple Registers (FC=16/0x10)
type WriteMultipleRegistersResponse struct {
	UnitID        uint8
	StartAddress  uint16
	RegisterCount uint16
}

// Bytes returns WriteMultipleRegistersResponseRTU packet as bytes form
func (r WriteMultipleRegistersResponseRTU) Bytes() []byte {
	result := make([]byte, 6+2)
	bytes := r.WriteMultipleRegistersResponse.bytes(result)
	return appendCRC(bytes)
}

// ParseWriteMultipleRegistersResponseRTU parses given bytes into WriteMultipleRegistersResponseRTU
func ParseWriteMultipleRegistersResponseRTU(data []byte) (*WriteMultipleRegistersResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionWriteMultipleRegisters, 8); err != nil {
		return nil, err
	}
	if len(data) != 8 {
		return nil, NewMalformedError("write multiple registers response must be 8 bytes, got %d", len(data))
	}
	return &WriteMultipleRegistersResponseRTU{
		WriteMultipleRegistersResponse: WriteMultipleRegistersResponse{
			UnitID: data[0],
			// data[1] function code
			StartAddress:  binary.BigEndian.Uint16(data[2:4]),
			RegisterCount: binary.BigEndian.Uint16(data[4:6]),
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r WriteMultipleRegistersResponse) FunctionCode() uint8 {
	return FunctionWriteMultipleRegisters
}

// Bytes returns WriteMultipleRegistersResponse packet as bytes form
func (r WriteMultipleRegistersResponse) Bytes() []byte {
	return r.bytes(make([]byte, 6))
}

func (r WriteMultipleRegistersResponse) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionWriteMultipleRegisters
	binary.BigEndian.PutUint16(bytes[2:4], r.StartAddress)
	binary.BigEndian.PutUint16(bytes[4:6], r.RegisterCount)
	return bytes
}
