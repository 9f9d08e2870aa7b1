package packet

// ReadInputRegistersResponseRTU is RTU Response for Read Input Registers (FC=04)
//
// Example packet: 0x01 0x04 0x02 0xCD 0x6B 0xAC 0x4F
// 0x01 - unit id (0)
// 0x04 - function code (1)
// 0x02 - returned registers byte count (2)
// 0xCD 0x6B - input registers data (1 register) (3,4, ... 2 bytes for each register)
// 0xAC 0x4F - CRC16 (n-2,n-1)
type ReadInputRegistersResponseRTU struct {
	ReadInputRegistersResponse
}

// ReadInputRegistersResponse is Response for Read Input Registers (FC=04)
type ReadInputRegistersResponse struct {
	UnitID          uint8
	RegisterByteLen uint8
	Data            []byte
}

// Bytes returns ReadInputRegistersResponseRTU packet as bytes form
func (r ReadInputRegistersResponseRTU) Bytes() []byte {
	byteLen := r.RegisterByteLen
	result := make([]byte, 3+int(byteLen)+2)
	r.ReadInputRegistersResponse.bytes(result)
	return appendCRC(result)
}

// ParseReadInputRegistersResponseRTU parses given bytes into ReadInputRegistersResponseRTU
func ParseReadInputRegistersResponseRTU(data []byte) (*ReadInputRegistersResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionReadInputRegisters, 7); err != nil {
		return nil, err
	}
	byteLen := data[2]
	if len(data) != 3+int(byteLen)+2 {
		return nil, NewMalformedError("response byte count %d does not match packet length %d", byteLen, len(data))
	}
	return &ReadInputRegistersResponseRTU{
		ReadInputRegistersResponse: ReadInputRegistersResponse{
			UnitID: data[0],
			// function code = data[1]
			RegisterByteLen: byteLen,
			Data:            data[3 : 3+byteLen],
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r ReadInputRegistersResponse) FunctionCode() uint8 {
	return FunctionReadInputRegisters
}

// Bytes returns ReadInputRegistersResponse packet as bytes form
func (r ReadInputRegistersResponse) Bytes() []byte {
	return r.bytes(make([]byte, 3+int(r.RegisterByteLen)))
}

func (r ReadInputRegistersResponse) bytes(data []byte) []byte {
	data[0] = r.UnitID
	data[1] = FunctionReadInputRegisters
	data[2] = r.RegisterByteLen
	copy(data[3:], r.Data)

	return data
}

// AsRegisters returns response data as Registers for more convenient typed access
func (r ReadInputRegistersResponse) AsRegisters(requestStartAddress uint16) (*Registers, error) {
	return NewRegisters(r.Data, requestStartAddress)
}
