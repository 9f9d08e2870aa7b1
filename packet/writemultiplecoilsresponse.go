package packet

import "encoding/binary"

// WriteMultipleCoilsResponseRTU is RTU Response for Write Multiple Coils (FC=15/0x0F)
//
// Example packet: 0x11 0x0F 0x04 0x10 0x00 0x03 0x17 0xaf
// 0x11 - unit id (0)
// 0x0F - function code (1)
// 0x04 0x10 - start address (2,3)
// 0x00 0x03 - count of coils written (4,5)
// 0x17 0xaf - CRC16 (6,7)
type WriteMultipleCoilsResponseRTU struct {
	WriteMultipleCoilsResponse
}

// WriteMultipleCoilsResponse is Response for Write Multiple Coils (FC=15/0x0F)
type WriteMultipleCoilsResponse struct {
	UnitID       uint8
	StartAddress uint16
	CoilCount    uint16
}

// Bytes returns WriteMultipleCoilsResponseRTU packet as bytes form
func (r WriteMultipleCoilsResponseRTU) Bytes() []byte {
	result := make([]byte, 6+2)
	bytes := r.WriteMultipleCoilsResponse.bytes(result)
	return appendCRC(bytes)
}

// ParseWriteMultipleCoilsResponseRTU parses given bytes into WriteMultipleCoilsResponseRTU
func ParseWriteMultipleCoilsResponseRTU(data []byte) (*WriteMultipleCoilsResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionWriteMultipleCoils, 8); err != nil {
		return nil, err
	}
	if len(data) != 8 {
		return nil, NewMalformedError("write multiple coils response must be 8 bytes, got %d", len(data))
	}
	return &WriteMultipleCoilsResponseRTU{
		WriteMultipleCoilsResponse: WriteMultipleCoilsResponse{
			UnitID: data[0],
			// data[1] function code
			StartAddress: binary.BigEndian.Uint16(data[2:4]),
			CoilCount:    binary.BigEndian.Uint16(data[4:6]),
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r WriteMultipleCoilsResponse) FunctionCode() uint8 {
	return FunctionWriteMultipleCoils
}

// Bytes returns WriteMultipleCoilsResponse packet as bytes form
func (r WriteMultipleCoilsResponse) Bytes() []byte {
	return r.bytes(make([]byte, 6))
}

func (r WriteMultipleCoilsResponse) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionWriteMultipleCoils
	binary.BigEndian.PutUint16(bytes[2:4], r.StartAddress)
	binary.BigEndian.PutUint16(bytes[4:6], r.CoilCount)
	return bytes
}
