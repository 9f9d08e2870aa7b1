package packet

// ReadHoldingRegistersResponseRTU is RTU Response for Read Holding Registers (FC=03)
//
// Example packet: 0x01 0x03 0x02 0xCD 0x6B 0xAD 0x3B
// 0x01 - unit id (0)
// 0x03 - function code (1)
// 0x02 - returned registers byte count (2)
// 0xCD 0x6B - holding registers data (1 register) (3,4, ... 2 bytes for each register)
// 0xAD 0x3B - CRC16 (n-2,n-1)
type ReadHoldingRegistersResponseRTU struct {
	ReadHoldingRegistersResponse
}

// ReadHoldingRegistersResponse is Response for Read Holding Registers (FC=03)
type ReadHoldingRegistersResponse struct {
	UnitID          uint8
	RegisterByteLen uint8
	Data            []byte
}

// Bytes returns ReadHoldingRegistersResponseRTU packet as bytes form
func (r ReadHoldingRegistersResponseRTU) Bytes() []byte {
	byteLen := r.RegisterByteLen
	result := make([]byte, 3+int(byteLen)+2)
	r.ReadHoldingRegistersResponse.bytes(result)
	return appendCRC(result)
}

// ParseReadHoldingRegistersResponseRTU parses given bytes into ReadHoldingRegistersResponseRTU
func ParseReadHoldingRegistersResponseRTU(data []byte) (*ReadHoldingRegistersResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionReadHoldingRegisters, 7); err != nil {
		return nil, err
	}
	byteLen := data[2]
	if len(data) != 3+int(byteLen)+2 {
		return nil, NewMalformedError("response byte count %d does not match packet length %d", byteLen, len(data))
	}
	return &ReadHoldingRegistersResponseRTU{
		ReadHoldingRegistersResponse: ReadHoldingRegistersResponse{
			UnitID: data[0],
			// function code = data[1]
			RegisterByteLen: byteLen,
			Data:            data[3 : 3+byteLen],
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r ReadHoldingRegistersResponse) FunctionCode() uint8 {
	return FunctionReadHoldingRegisters
}

// Bytes returns ReadHoldingRegistersResponse packet as bytes form
func (r ReadHoldingRegistersResponse) Bytes() []byte {
	return r.bytes(make([]byte, 3+int(r.RegisterByteLen)))
}

func (r ReadHoldingRegistersResponse) bytes(data []byte) []byte {
	data[0] = r.UnitID
	data[1] = FunctionReadHoldingRegisters
	data[2] = r.RegisterByteLen
	copy(data[3:], r.Data)

	return data
}

// AsRegisters returns response data as Registers for more convenient typed access
func (r ReadHoldingRegistersResponse) AsRegisters(requestStartAddress uint16) (*Registers, error) {
	return NewRegisters(r.Data, requestStartAddress)
}
