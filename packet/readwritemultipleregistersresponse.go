package packet

// ReadWriteMultipleRegistersResponseRTU is RTU Response for Read / Write Multiple Registers (FC=23/0x17)
//
// Example packet: 0x11 0x17 0x02 0xCD 0x6B 0x69 0x08
// 0x11 - unit id (0)
// 0x17 - function code (1)
// 0x02 - registers bytes count (2)
// 0xCD 0x6B - read registers data (1 register) (3, 4, ...)
// 0x69 0x08 - CRC16 (n-2,n-1)
type ReadWriteMultipleRegistersResponseRTU struct {
	ReadWriteMultipleRegistersResponse
}

// ReadWriteMultipleRegistersResponse is Response for Read / Write Multiple Registers (FC=23/0x17)
type ReadWriteMultipleRegistersResponse struct {
	UnitID          uint8
	RegisterByteLen uint8
	Data            []byte
}

// Bytes returns ReadWriteMultipleRegistersResponseRTU packet as bytes form
func (r ReadWriteMultipleRegistersResponseRTU) Bytes() []byte {
	byteLen := r.RegisterByteLen
	result := make([]byte, 3+int(byteLen)+2)
	r.ReadWriteMultipleRegistersResponse.bytes(result)
	return appendCRC(result)
}

// ParseReadWriteMultipleRegistersResponseRTU parses given bytes into ReadWriteMultipleRegistersResponseRTU
func ParseReadWriteMultipleRegistersResponseRTU(data []byte) (*ReadWriteMultipleRegistersResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionReadWriteMultipleRegisters, 7); err != nil {
		return nil, err
	}
	byteLen := data[2]
	if len(data) != 3+int(byteLen)+2 {
		return nil, NewMalformedError("response byte count %d does not match packet length %d", byteLen, len(data))
	}
	return &ReadWriteMultipleRegistersResponseRTU{
		ReadWriteMultipleRegistersResponse: ReadWriteMultipleRegistersResponse{
			UnitID: data[0],
			// function code = data[1]
			RegisterByteLen: byteLen,
			Data:            data[3 : 3+byteLen],
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r ReadWriteMultipleRegistersResponse) FunctionCode() uint8 {
	return FunctionReadWriteMultipleRegisters
}

// Bytes returns ReadWriteMultipleRegistersResponse packet as bytes form
func (r ReadWriteMultipleRegistersResponse) Bytes() []byte {
	return r.bytes(make([]byte, 3+int(r.RegisterByteLen)))
}

func (r ReadWriteMultipleRegistersResponse) bytes(data []byte) []byte {
	data[0] = r.UnitID
	data[1] = FunctionReadWriteMultipleRegisters
	data[2] = r.RegisterByteLen
	copy(data[3:], r.Data)

	return data
}

// AsRegisters returns response data as Registers for more convenient typed access
func (r ReadWriteMultipleRegistersResponse) AsRegisters(requestStartAddress uint16) (*Registers, error) {
	return NewRegisters(r.Data, requestStartAddress)
}
