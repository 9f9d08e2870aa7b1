package packet

import "encoding/binary"

// MaskWriteRegisterRequestRTU is RTU Request for Mask Write Register (FC=22/0x16)
//
// The slave computes: result = (current_register & AndMask) | (OrMask & ^AndMask)
//
// Example packet: 0x11 0x16 0x00 0x04 0x00 0xF2 0x00 0x25 0x66 0xE2
// 0x11 - unit id (0)
// 0x16 - function code (1)
// 0x00 0x04 - reference address (2,3)
// 0x00 0xF2 - AND mask (4,5)
// 0x00 0x25 - OR mask (6,7)
// 0x66 0xE2 - CRC16 (8,9)
type MaskWriteRegisterRequestRTU struct {
	MaskWriteRegisterRequest
}

// MaskWriteRegisterRequest is Request for Mask Write Register (FC=22/0x16)
type MaskWriteRegisterRequest struct {
	UnitID  uint8
	Address uint16
	AndMask uint16
	OrMask  uint16
}

// NewMaskWriteRegisterRequestRTU creates new instance of Mask Write Register RTU request
func NewMaskWriteRegisterRequestRTU(unitID uint8, address uint16, andMask uint16, orMask uint16) (*MaskWriteRegisterRequestRTU, error) {
	if err := validateUnitID(unitID); err != nil {
		return nil, err
	}
	return &MaskWriteRegisterRequestRTU{
		MaskWriteRegisterRequest: MaskWriteRegisterRequest{
			UnitID:  unitID,
			Address: address,
			AndMask: andMask,
			OrMask:  orMask,
		},
	}, nil
}

// Bytes returns MaskWriteRegisterRequestRTU packet as bytes form
func (r MaskWriteRegisterRequestRTU) Bytes() []byte {
	result := make([]byte, 8+2)
	bytes := r.MaskWriteRegisterRequest.bytes(result)
	return appendCRC(bytes)
}

// ExpectedResponseLength returns length of bytes that valid response to this request would be
func (r MaskWriteRegisterRequestRTU) ExpectedResponseLength() int {
	// response echoes the request: 1 unitID + 1 functionCode + 2 address + 2 and mask + 2 or mask + 2 CRC
	return 10
}

// FunctionCode returns function code of this request
func (r MaskWriteRegisterRequest) FunctionCode() uint8 {
	return FunctionMaskWriteRegister
}

// Bytes returns MaskWriteRegisterRequest packet as bytes form
func (r MaskWriteRegisterRequest) Bytes() []byte {
	return r.bytes(make([]byte, 8))
}

func (r MaskWriteRegisterRequest) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionMaskWriteRegister
	binary.BigEndian.PutUint16(bytes[2:4], r.Address)
	binary.BigEndian.PutUint16(bytes[4:6], r.AndMask)
	binary.BigEndian.PutUint16(bytes[6:8], r.OrMask)
	return bytes
}
