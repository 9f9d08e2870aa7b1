package packet

// ReadCoilsResponseRTU is RTU Response for Read Coils (FC=01)
//
// Example packet: 0x03 0x01 0x02 0xCD 0x6B 0xD5 0x43
// 0x03 - unit id (0)
// 0x01 - function code (1)
// 0x02 - coils byte count (2)
// 0xCD 0x6B - coils data (2 bytes = 2 // 8 coils) (3,4, ...)
// 0xD5 0x43 - CRC16 (n-2,n-1)
type ReadCoilsResponseRTU struct {
	ReadCoilsResponse
}

// ReadCoilsResponse is Response for Read Coils (FC=01)
type ReadCoilsResponse struct {
	UnitID          uint8
	CoilsByteLength uint8
	Data            []byte
}

// Bytes returns ReadCoilsResponseRTU packet as bytes form
func (r ReadCoilsResponseRTU) Bytes() []byte {
	coilsByteLen := len(r.Data)
	result := make([]byte, 3+coilsByteLen+2)
	r.ReadCoilsResponse.bytes(result)
	return appendCRC(result)
}

// ParseReadCoilsResponseRTU parses given bytes into ReadCoilsResponseRTU
func ParseReadCoilsResponseRTU(data []byte) (*ReadCoilsResponseRTU, error) {
	if err := checkResponsePreamble(data, FunctionReadCoils, 6); err != nil {
		return nil, err
	}
	byteLen := data[2]
	if len(data) != 3+int(byteLen)+2 {
		return nil, NewMalformedError("response byte count %d does not match packet length %d", byteLen, len(data))
	}
	return &ReadCoilsResponseRTU{
		ReadCoilsResponse: ReadCoilsResponse{
			UnitID: data[0],
			// function code = data[1]
			CoilsByteLength: byteLen,
			Data:            data[3 : 3+byteLen],
		},
	}, nil
}

// FunctionCode returns function code of this response
func (r ReadCoilsResponse) FunctionCode() uint8 {
	return FunctionReadCoils
}

// Bytes returns ReadCoilsResponse packet as bytes form
func (r ReadCoilsResponse) Bytes() []byte {
	return r.bytes(make([]byte, 3+len(r.Data)))
}

func (r ReadCoilsResponse) bytes(data []byte) []byte {
	data[0] = r.UnitID
	data[1] = FunctionReadCoils
	coilsByteLen := uint8(len(r.Data))
	data[2] = coilsByteLen
	copy(data[3:3+coilsByteLen], r.Data)

	return data
}

// IsCoilSet checks if N-th coil is set in response data. Coils are counted from `startAddress` (see
// ReadCoilsRequest) and right to left.
func (r ReadCoilsResponse) IsCoilSet(startAddress uint16, coilAddress uint16) (bool, error) {
	return isBitSet(r.Data, startAddress, coilAddress)
}

// Coils unpacks the raw response payload into quantity individual coil states, in request order.
// quantity is the quantity the originating request asked for (the response's own byte count is padded
// up to a whole byte and cannot distinguish real bits from trailing padding on its own).
func (r ReadCoilsResponse) Coils(quantity uint16) []bool {
	return unpackBitsLSBFirst(r.Data, quantity)
}
