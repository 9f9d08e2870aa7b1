package packet

// ReadDiscreteInputsResponseRTU is RTU Response for Read Discrete Inputs (FC=02)
//
// Example packet: 0x03 0x02 0x02 0xCD 0x6B 0xD5 0x07
// 0x03 - unit id (0)
// 0x02 - function code (1)
// 0x02 - inputs byte count (2)
// 0xCD 0x6B - inputs data (2 bytes = 2 // 8 inputs) (3,4, ...)
// 0xD5 0x07 - CRC16 (n-2,n-1)
type ReadDiscreteInputsResponseRTU struct {
	ReadDiscreteInputsResponse
}

// ReadDiscreteInputsResponse is Response for Read Discrete Inputs (FC=02)
type ReadDiscreteInputsResponse struct {
	UnitID           uint8
	InputsByteLength uint8
	Data             []byte
}

// Bytes returns ReadDiscreteInputsResponseRTU packet as bytes form
func (r ReadDiscreteInputsResponseRTU) Bytes() []byte {
	inputsByteLen := len(r.Data)
	result := make([]byte, 3+inputsByteLen+2)
	r.ReadDiscreteInputsResponse.bytes(result)
	return appendCRC(result)
}

// ParseReadDiscreteInputsResponseRTU parses given bytes into ReadDiscreteInputsResponseRTU
func ParseReadDiscreteInputsResponseRTU(data []byte) (*ReadDiscreteInputsResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionReadDiscreteInputs, 6); err != nil {
		return nil, err
	}
	byteLen := data[2]
	if len(data) != 3+int(byteLen)+2 {
		return nil, NewMalformedError("response byte count %d does not match packet length %d", byteLen, len(data))
	}
	return &ReadDiscreteInputsResponseRTU{
		ReadDiscreteInputsResponse: ReadDiscreteInputsResponse{
			UnitID: data[0],
			// function code = data[1]
			InputsByteLength: byteLen,
			Data:             data[3 : 3+byteLen],
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r ReadDiscreteInputsResponse) FunctionCode() uint8 {
	return FunctionReadDiscreteInputs
}

// Bytes returns ReadDiscreteInputsResponse packet as bytes form
func (r ReadDiscreteInputsResponse) Bytes() []byte {
	return r.bytes(make([]byte, 3+len(r.Data)))
}

func (r ReadDiscreteInputsResponse) bytes(data []byte) []byte {
	data[0] = r.UnitID
	data[1] = FunctionReadDiscreteInputs
	coilsByteLen := uint8(len(r.Data))
	data[2] = coilsByteLen
	copy(data[3:3+coilsByteLen], r.Data)

	return data
}

// IsInputSet checks if N-th discrete input is set in response data. Inputs are counted from
// `startAddress` (see ReadDiscreteInputsRequest) and right to left.
func (r ReadDiscreteInputsResponse) IsInputSet(startAddress uint16, inputAddress uint16) (bool, error) {
	return isBitSet(r.Data, startAddress, inputAddress)
}

// Inputs unpacks the raw response payload into quantity individual input states, in request order.
func (r ReadDiscreteInputsResponse) Inputs(quantity uint16) []bool {
	return unpackBitsLSBFirst(r.Data, quantity)
}
