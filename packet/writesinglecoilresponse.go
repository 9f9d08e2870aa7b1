package packet

import "encoding/binary"

// WriteSingleCoilResponseRTU is RTU Response for Write Single Coil (FC=05)
//
// A well-behaved slave echoes the request verbatim. Data part of packet is always 4 bytes - 2 byte for
// address and 2 byte for coil status (FF00 = on, 0000 = off).
//
// Example packet: 0x03 0x05 0x00 0x02 0xFF 0x00 0x2c 0x18
// 0x03 - unit id (0)
// 0x05 - function code (1)
// 0x00 0x02 - start address (2,3)
// 0xFF 0x00 - coil data (true) (4,5)
// 0x2c 0x18 - CRC16 (6,7)
type WriteSingleCoilResponseRTU struct {
	WriteSingleCoilResponse
}

// WriteSingleCoilResponse is Response for Write Single Coil (FC=05)
type WriteSingleCoilResponse struct {
	UnitID       uint8
	StartAddress uint16
	CoilState    bool
}

// Bytes returns WriteSingleCoilResponseRTU packet as bytes form
func (r WriteSingleCoilResponseRTU) Bytes() []byte {
	result := make([]byte, 8)
	bytes := r.WriteSingleCoilResponse.bytes(result)
	return appendCRC(bytes)
}

// ParseWriteSingleCoilResponseRTU parses given bytes into WriteSingleCoilResponseRTU. Per the Modbus
// spec the slave must echo 0xFF00 or 0x0000 exactly; any other coil-state value is malformed rather than
// silently treated as off.
func ParseWriteSingleCoilResponseRTU(data []byte) (*WriteSingleCoilResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionWriteSingleCoil, 8); err != nil {
		return nil, err
	}
	if len(data) != 8 {
		return nil, NewMalformedError("write single coil response must be 8 bytes, got %d", len(data))
	}
	coilStateRaw := binary.BigEndian.Uint16(data[4:6])
	if coilStateRaw != writeCoilOn && coilStateRaw != writeCoilOff {
		return nil, NewMalformedError("coil state echoed in response has invalid value 0x%04x", coilStateRaw)
	}
	return &WriteSingleCoilResponseRTU{
		WriteSingleCoilResponse: WriteSingleCoilResponse{
			UnitID: data[0],
			// data[1] function code
			StartAddress: binary.BigEndian.Uint16(data[2:4]),
			CoilState:    coilStateRaw == writeCoilOn,
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r WriteSingleCoilResponse) FunctionCode() uint8 {
	return FunctionWriteSingleCoil
}

// Bytes returns WriteSingleCoilResponse packet as bytes form
func (r WriteSingleCoilResponse) Bytes() []byte {
	return r.bytes(make([]byte, 6))
}

func (r WriteSingleCoilResponse) bytes(bytes []byte) []byte {
	bytes[0] = r.UnitID
	bytes[1] = FunctionWriteSingleCoil
	binary.BigEndian.PutUint16(bytes[2:4], r.StartAddress)

	coilState := writeCoilOff
	if r.CoilState {
		coilState = writeCoilOn
	}
	binary.BigEndian.PutUint16(bytes[4:6], coilState)
	return bytes
}
