package packet

import "encoding/binary"

// WriteSingleRegisterResponseRTU is RTU Response for Write Single Register (FC=06)
//
// A well-behaved slave echoes the request verbatim.
//
// Example packet: 0x11 0x06 0x00 0x6B 0x01 0x01 0x3a 0xd6
// 0x11 - unit id (0)
// 0x06 - function code (1)
// 0x00 0x6B - start address (2,3)
// 0x01 0x01 - register data (4,5)
// 0x3a 0xd6 - CRC16 (6,7)
type WriteSingleRegisterResponseRTU struct {
	WriteSingleRegisterResponse
}

// WriteSingleRegisterResponse is Response for Write Single Register (FC=06)
type WriteSingleRegisterResponse struct {
	UnitID  uint8
	Address uint16
	Data    [2]byte
}

// Bytes returns WriteSingleRegisterResponseRTU packet as bytes form
func (r WriteSingleRegisterResponseRTU) Bytes() []byte {
	result := make([]byte, 6+2)
	bytes := r.WriteSingleRegisterResponse.bytes(result)
	return appendCRC(bytes)
}

// ParseWriteSingleRegisterResponseRTU parses given bytes into WriteSingleRegisterResponseRTU
func ParseWriteSingleRegisterResponseRTU(data []byte) (*WriteSingleRegisterResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionWriteSingleRegister, 8); err != nil {
		return nil, err
	}
	if len(data) != 8 {
		return nil, NewMalformedError("write single register response must be 8 bytes, got %d", len(data))
	}
	return &WriteSingleRegisterResponseRTU{
		WriteSingleRegisterResponse: WriteSingleRegisterResponse{
			UnitID: data[0],
			// data[1] function code
			Address: binary.BigEndian.Uint16(data[2:4]),
			Data:    [2]byte{data[4], data[5]},
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r WriteSingleRegisterResponse) FunctionCode() uint8 {
	return FunctionWriteSingleRegister
}

// Bytes returns WriteSingleRegisterResponse packet as bytes form
func (r WriteSingleRegisterResponse) Bytes() []byte {
	return r.bytes(make([]byte, 6))
}

func (r WriteSingleRegisterResponse) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionWriteSingleRegister
	binary.BigEndian.PutUint16(bytes[2:4], r.Address)
	copy(bytes[4:6], r.Data[:])
	return bytes
}

// AsRegisters returns response data as Registers for more convenient typed access
func (r WriteSingleRegisterResponse) AsRegisters(address uint16) (*Registers, error) {
	return NewRegisters(r.Data[:], address)
}
