package modbus

import (
	"context"
	"sync"
	"time"

	"github.com/hadrnet/modbusrtu/packet"
)

// defaultUnitID is the unit id a freshly constructed Client addresses until SetUnitID is called.
const defaultUnitID = uint8(1)

// Client is a thin façade binding a mutable unit id to a Transport. It exposes one method per supported
// function code; each builds the request frame, hands it to the transport, parses the reply, and shapes
// it into a result holding both the decoded payload and the raw response frame. Client never retries - a
// caller that wants retries wraps Client itself.
type Client struct {
	mu        sync.RWMutex
	unitID    uint8
	transport *Transport
}

// NewClient binds a Client to an already-constructed Transport, addressing unit id 1 until SetUnitID is
// called.
func NewClient(transport *Transport) *Client {
	return &Client{unitID: defaultUnitID, transport: transport}
}

// SetUnitID changes the unit id subsequent operations address.
func (c *Client) SetUnitID(unitID uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unitID = unitID
}

// UnitID returns the unit id subsequent operations address.
func (c *Client) UnitID() uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unitID
}

// SetTimeout changes the deadline covering one transact call on the underlying transport.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.transport.SetTimeout(timeout)
}

// Timeout returns the deadline covering one transact call on the underlying transport.
func (c *Client) Timeout() time.Duration {
	return c.transport.Timeout()
}

// Close closes the underlying transport's connection.
func (c *Client) Close() error {
	return c.transport.Close()
}

func (c *Client) currentUnitID() uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unitID
}

// ReadCoilsResult is the decoded reply to ReadCoils plus the raw RTU frame it was parsed from.
type ReadCoilsResult struct {
	packet.ReadCoilsResponse
	// Coils holds exactly the requested quantity of values; the wire format pads to a byte boundary, so
	// trailing bits beyond quantity are stripped.
	Coils []bool
	Raw   []byte
}

// ReadCoils reads quantity coils starting at startAddress (FC01).
func (c *Client) ReadCoils(ctx context.Context, startAddress uint16, quantity uint16) (*ReadCoilsResult, error) {
	req, err := packet.NewReadCoilsRequestRTU(c.currentUnitID(), startAddress, quantity)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseReadCoilsResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &ReadCoilsResult{ReadCoilsResponse: resp.ReadCoilsResponse, Coils: resp.Coils(quantity), Raw: raw}, nil
}

// ReadDiscreteInputsResult is the decoded reply to ReadDiscreteInputs plus the raw RTU frame it was
// parsed from.
type ReadDiscreteInputsResult struct {
	packet.ReadDiscreteInputsResponse
	// Inputs holds exactly the requested quantity of values; the wire format pads to a byte boundary, so
	// trailing bits beyond quantity are stripped.
	Inputs []bool
	Raw    []byte
}

// ReadDiscreteInputs reads quantity discrete inputs starting at startAddress (FC02).
func (c *Client) ReadDiscreteInputs(ctx context.Context, startAddress uint16, quantity uint16) (*ReadDiscreteInputsResult, error) {
	req, err := packet.NewReadDiscreteInputsRequestRTU(c.currentUnitID(), startAddress, quantity)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseReadDiscreteInputsResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &ReadDiscreteInputsResult{ReadDiscreteInputsResponse: resp.ReadDiscreteInputsResponse, Inputs: resp.Inputs(quantity), Raw: raw}, nil
}

// ReadHoldingRegistersResult is the decoded reply to ReadHoldingRegisters plus the raw RTU frame it was
// parsed from. Call AsRegisters(startAddress) on the embedded response to decode individual values.
type ReadHoldingRegistersResult struct {
	packet.ReadHoldingRegistersResponse
	Raw []byte
}

// ReadHoldingRegisters reads quantity holding registers starting at startAddress (FC03).
func (c *Client) ReadHoldingRegisters(ctx context.Context, startAddress uint16, quantity uint16) (*ReadHoldingRegistersResult, error) {
	req, err := packet.NewReadHoldingRegistersRequestRTU(c.currentUnitID(), startAddress, quantity)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseReadHoldingRegistersResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &ReadHoldingRegistersResult{ReadHoldingRegistersResponse: resp.ReadHoldingRegistersResponse, Raw: raw}, nil
}

// ReadInputRegistersResult is the decoded reply to ReadInputRegisters plus the raw RTU frame it was
// parsed from. Call AsRegisters(startAddress) on the embedded response to decode individual values.
type ReadInputRegistersResult struct {
	packet.ReadInputRegistersResponse
	Raw []byte
}

// ReadInputRegisters reads quantity input registers starting at startAddress (FC04).
func (c *Client) ReadInputRegisters(ctx context.Context, startAddress uint16, quantity uint16) (*ReadInputRegistersResult, error) {
	req, err := packet.NewReadInputRegistersRequestRTU(c.currentUnitID(), startAddress, quantity)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseReadInputRegistersResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &ReadInputRegistersResult{ReadInputRegistersResponse: resp.ReadInputRegistersResponse, Raw: raw}, nil
}

// WriteSingleCoilResult is the decoded reply to WriteSingleCoil plus the raw RTU frame it was parsed from.
type WriteSingleCoilResult struct {
	packet.WriteSingleCoilResponse
	Raw []byte
}

// WriteSingleCoil sets the coil at address on or off (FC05).
func (c *Client) WriteSingleCoil(ctx context.Context, address uint16, state bool) (*WriteSingleCoilResult, error) {
	req, err := packet.NewWriteSingleCoilRequestRTU(c.currentUnitID(), address, state)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseWriteSingleCoilResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &WriteSingleCoilResult{WriteSingleCoilResponse: resp.WriteSingleCoilResponse, Raw: raw}, nil
}

// WriteSingleRegisterResult is the decoded reply to WriteSingleRegister plus the raw RTU frame it was
// parsed from.
type WriteSingleRegisterResult struct {
	packet.WriteSingleRegisterResponse
	Raw []byte
}

// WriteSingleRegister writes data (exactly 2 bytes, big-endian) to the register at address (FC06).
func (c *Client) WriteSingleRegister(ctx context.Context, address uint16, data []byte) (*WriteSingleRegisterResult, error) {
	req, err := packet.NewWriteSingleRegisterRequestRTU(c.currentUnitID(), address, data)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseWriteSingleRegisterResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &WriteSingleRegisterResult{WriteSingleRegisterResponse: resp.WriteSingleRegisterResponse, Raw: raw}, nil
}

// WriteMultipleCoilsResult is the decoded reply to WriteMultipleCoils plus the raw RTU frame it was
// parsed from.
type WriteMultipleCoilsResult struct {
	packet.WriteMultipleCoilsResponse
	Raw []byte
}

// WriteMultipleCoils sets the coils starting at startAddress, one bool per coil in request order (FC15/0x0F).
func (c *Client) WriteMultipleCoils(ctx context.Context, startAddress uint16, coils []bool) (*WriteMultipleCoilsResult, error) {
	req, err := packet.NewWriteMultipleCoilsRequestRTU(c.currentUnitID(), startAddress, coils)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseWriteMultipleCoilsResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &WriteMultipleCoilsResult{WriteMultipleCoilsResponse: resp.WriteMultipleCoilsResponse, Raw: raw}, nil
}

// WriteMultipleRegistersResult is the decoded reply to WriteMultipleRegisters plus the raw RTU frame it
// was parsed from.
type WriteMultipleRegistersResult struct {
	packet.WriteMultipleRegistersResponse
	Raw []byte
}

// WriteMultipleRegisters writes data (an even number of bytes, big-endian, 2 per register) starting at
// startAddress (FC16/0x10).
func (c *Client) WriteMultipleRegisters(ctx context.Context, startAddress uint16, data []byte) (*WriteMultipleRegistersResult, error) {
	req, err := packet.NewWriteMultipleRegistersRequestRTU(c.currentUnitID(), startAddress, data)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseWriteMultipleRegistersResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &WriteMultipleRegistersResult{WriteMultipleRegistersResponse: resp.WriteMultipleRegistersResponse, Raw: raw}, nil
}

// MaskWriteRegisterResult is the decoded reply to MaskWriteRegister plus the raw RTU frame it was parsed
// from.
type MaskWriteRegisterResult struct {
	packet.MaskWriteRegisterResponse
	Raw []byte
}

// MaskWriteRegister applies result = (current & andMask) | (orMask & ^andMask) to the register at address
// (FC22/0x16).
func (c *Client) MaskWriteRegister(ctx context.Context, address uint16, andMask uint16, orMask uint16) (*MaskWriteRegisterResult, error) {
	req, err := packet.NewMaskWriteRegisterRequestRTU(c.currentUnitID(), address, andMask, orMask)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseMaskWriteRegisterResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &MaskWriteRegisterResult{MaskWriteRegisterResponse: resp.MaskWriteRegisterResponse, Raw: raw}, nil
}

// ReadWriteMultipleRegistersResult is the decoded reply to ReadWriteMultipleRegisters plus the raw RTU
// frame it was parsed from. Call AsRegisters(readStartAddress) on the embedded response to decode the
// registers that were read.
type ReadWriteMultipleRegistersResult struct {
	packet.ReadWriteMultipleRegistersResponse
	Raw []byte
}

// ReadWriteMultipleRegisters atomically writes writeData (big-endian, 2 bytes per register) starting at
// writeStartAddress, then reads readQuantity registers starting at readStartAddress (FC23/0x17).
func (c *Client) ReadWriteMultipleRegisters(ctx context.Context, readStartAddress uint16, readQuantity uint16, writeStartAddress uint16, writeData []byte) (*ReadWriteMultipleRegistersResult, error) {
	req, err := packet.NewReadWriteMultipleRegistersRequestRTU(c.currentUnitID(), readStartAddress, readQuantity, writeStartAddress, writeData)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseReadWriteMultipleRegistersResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &ReadWriteMultipleRegistersResult{ReadWriteMultipleRegistersResponse: resp.ReadWriteMultipleRegistersResponse, Raw: raw}, nil
}

// ReadFileRecordResult is the decoded reply to ReadFileRecord plus the raw RTU frame it was parsed from.
type ReadFileRecordResult struct {
	packet.ReadFileRecordResponse
	Raw []byte
}

// ReadFileRecord reads one or more sub-records from the slave's extended memory file area (FC20/0x14).
func (c *Client) ReadFileRecord(ctx context.Context, records []packet.FileRecordSubRequest) (*ReadFileRecordResult, error) {
	req, err := packet.NewReadFileRecordRequestRTU(c.currentUnitID(), records)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseReadFileRecordResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &ReadFileRecordResult{ReadFileRecordResponse: resp.ReadFileRecordResponse, Raw: raw}, nil
}

// WriteFileRecordResult is the decoded reply to WriteFileRecord plus the raw RTU frame it was parsed from.
type WriteFileRecordResult struct {
	packet.WriteFileRecordResponse
	Raw []byte
}

// WriteFileRecord writes one or more sub-records into the slave's extended memory file area (FC21/0x15).
func (c *Client) WriteFileRecord(ctx context.Context, records []packet.FileRecordSubWrite) (*WriteFileRecordResult, error) {
	req, err := packet.NewWriteFileRecordRequestRTU(c.currentUnitID(), records)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseWriteFileRecordResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &WriteFileRecordResult{WriteFileRecordResponse: resp.WriteFileRecordResponse, Raw: raw}, nil
}

// ReadFIFOQueueResult is the decoded reply to ReadFIFOQueue plus the raw RTU frame it was parsed from.
type ReadFIFOQueueResult struct {
	packet.ReadFIFOQueueResponse
	Raw []byte
}

// ReadFIFOQueue reads the contents of the FIFO queue whose pointer register is at fifoPointerAddress
// (FC24/0x18).
func (c *Client) ReadFIFOQueue(ctx context.Context, fifoPointerAddress uint16) (*ReadFIFOQueueResult, error) {
	req, err := packet.NewReadFIFOQueueRequestRTU(c.currentUnitID(), fifoPointerAddress)
	if err != nil {
		return nil, err
	}
	raw, err := c.transport.transact(ctx, req.Bytes())
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseReadFIFOQueueResponseRTU(raw)
	if err != nil {
		return nil, err
	}
	return &ReadFIFOQueueResult{ReadFIFOQueueResponse: resp.ReadFIFOQueueResponse, Raw: raw}, nil
}
