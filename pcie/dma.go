package pcie

import (
	"fmt"
	"sync"
)

type Direction int

const (
	HostToDevice Direction = iota
	DeviceToHost
)

func (d Direction) String() string {
	switch d {
	case HostToDevice:
		return "h2d"
	case DeviceToHost:
		return "d2h"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

type ChannelStatus int

const (
	Idle ChannelStatus = iota
	Busy
)

func (s ChannelStatus) String() string {
	if s == Busy {
		return "busy"
	}
	return "idle"
}

// Transfer is a queued DMA descriptor.
type Transfer struct {
	Source      uint64
	Destination uint64
	Size        int // bytes
	Direction   Direction
}

// DMAEngine is a ledger of independent FIFO channels. Transfers complete
// instantly when processed; no timing is simulated.
type DMAEngine struct {
	mu     sync.Mutex
	queues [][]Transfer
	bytes  int64
	count  int64
}

func NewDMAEngine(channels int) (*DMAEngine, error) {
	if channels < 1 {
		return nil, fmt.Errorf("%w: dma channel count must be positive, got %d", ErrInvalidParameter, channels)
	}
	return &DMAEngine{queues: make([][]Transfer, channels)}, nil
}

func (e *DMAEngine) Channels() int {
	return len(e.queues)
}

// InitiateTransfer appends t to the queue of channel ch.
func (e *DMAEngine) InitiateTransfer(ch int, t Transfer) error {
	if ch < 0 || ch >= len(e.queues) {
		return fmt.Errorf("%w: dma channel %d of %d", ErrInvalidParameter, ch, len(e.queues))
	}
	if t.Size < 0 {
		return fmt.Errorf("%w: transfer size %d", ErrInvalidParameter, t.Size)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queues[ch] = append(e.queues[ch], t)
	return nil
}

// ProcessTransfers completes the head of every non-empty queue and returns
// the number of transfers completed.
func (e *DMAEngine) ProcessTransfers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for ch, q := range e.queues {
		if len(q) == 0 {
			continue
		}
		e.bytes += int64(q[0].Size)
		e.count++
		e.queues[ch] = q[1:]
		n++
	}
	return n
}

// ChannelStatus reports Busy while the channel has pending transfers.
func (e *DMAEngine) ChannelStatus(ch int) (ChannelStatus, error) {
	if ch < 0 || ch >= len(e.queues) {
		return Idle, fmt.Errorf("%w: dma channel %d of %d", ErrInvalidParameter, ch, len(e.queues))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queues[ch]) > 0 {
		return Busy, nil
	}
	return Idle, nil
}

// Totals returns the bytes and transfer count completed so far.
func (e *DMAEngine) Totals() (bytes, transfers int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bytes, e.count
}

// Throughput in Gbps over the given measurement window.
func (e *DMAEngine) Throughput(seconds float64) (float64, error) {
	if !(seconds > 0) {
		return 0, fmt.Errorf("%w: measurement window must be positive, got %g", ErrInvalidParameter, seconds)
	}
	b, _ := e.Totals()
	return float64(b) / seconds * 8 / 1e9, nil
}
