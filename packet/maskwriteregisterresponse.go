package packet

import "encoding/binary"

// MaskWriteRegisterResponseRTU is RTU Response for Mask Write Register (FC=22/0x16)
//
// A well-behaved slave echoes the request verbatim.
//
// Example packet: 0x11 0x16 0x00 0x04 0x00 0xF2 0x00 0x25 0x66 0xE2
// 0x11 - unit id (0)
// 0x16 - function code (1)
// 0x00 0x04 - reference address (2,3)
// 0x00 0xF2 - AND mask (4,5)
// 0x00 0x25 - OR mask (6,7)
// 0x66 0xE2 - CRC16 (8,9)
type MaskWriteRegisterResponseRTU struct {
	MaskWriteRegisterResponse
}

// MaskWriteRegisterResponse is Response for Mask Write Register (FC=22/0x16)
type MaskWriteRegisterResponse struct {
	UnitID  uint8
	Address uint16
	AndMask uint16
	OrMask  uint16
}

// Bytes returns MaskWriteRegisterResponseRTU packet as bytes form
func (r MaskWriteRegisterResponseRTU) Bytes() []byte {
	result := make([]byte, 8+2)
	bytes := r.MaskWriteRegisterResponse.bytes(result)
	return appendCRC(bytes)
}

// ParseMaskWriteRegisterResponseRTU parses given bytes into MaskWriteRegisterResponseRTU
func ParseMaskWriteRegisterResponseRTU(data []byte) (*MaskWriteRegisterResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionMaskWriteRegister, 10); err != nil {
		return nil, err
	}
	if len(data) != 10 {
		return nil, NewMalformedError("mask write register response must be 10 bytes, got %d", len(data))
	}
	return &MaskWriteRegisterResponseRTU{
		MaskWriteRegisterResponse: MaskWriteRegisterResponse{
			UnitID: data[0],
			// data[1] function code
			Address: binary.BigEndian.Uint16(data[2:4]),
			AndMask: binary.BigEndian.Uint16(data[4:6]),
			OrMask:  binary.BigEndian.Uint16(data[6:8]),
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r MaskWriteRegisterResponse) FunctionCode() uint8 {
	return FunctionMaskWriteRegister
}

// Bytes returns MaskWriteRegisterResponse packet as bytes form
func (r MaskWriteRegisterResponse) Bytes() []byte {
	return r.bytes(make([]byte, 8))
}

func (r MaskWriteRegisterResponse) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionMaskWriteRegister
	binary.BigEndian.PutUint16(bytes[2:4], r.Address)
	binary.BigEndian.PutUint16(bytes[4:6], r.AndMask)
	binary.BigEndian.PutUint16(bytes[6:8], r.OrMask)
	return bytes
}
