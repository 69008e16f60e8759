package gpio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Coil values for function code 5 (write single coil)
const (
	coilOn  = 0xFF00
	coilOff = 0x0000
)

const modbusTimeout = 5 * time.Second

// modbusPin switches a single coil on a Modbus TCP relay board. Writes are
// serialized because the underlying handler owns one connection.
type modbusPin struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
	coil    uint16
}

func openModbus(config Config) (Pin, error) {
	if config.ModbusAddress == "" {
		return nil, errors.New("modbus driver requires an address")
	}

	handler := modbus.NewTCPClientHandler(config.ModbusAddress)
	handler.Timeout = modbusTimeout
	handler.SlaveId = config.ModbusUnit

	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("connecting to relay board %s: %w", config.ModbusAddress, err)
	}

	p := &modbusPin{
		handler: handler,
		client:  modbus.NewClient(handler),
		coil:    config.ModbusCoil,
	}

	if err := p.Set(false); err != nil {
		handler.Close()
		return nil, err
	}

	return p, nil
}

func (p *modbusPin) Set(engaged bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	value := uint16(coilOff)
	if engaged {
		value = coilOn
	}

	if _, err := p.client.WriteSingleCoil(p.coil, value); err != nil {
		return fmt.Errorf("writing coil %d: %w", p.coil, err)
	}
	return nil
}

func (p *modbusPin) Close() error {
	_ = p.Set(false)

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handler.Close()
}
