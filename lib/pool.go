package lib

import (
	"fmt"
	"log"

	rp "github.com/Clouded-Sabre/ringpool/lib"
)

var (
	emptySlice []byte
	Pool       *rp.RingPool
)

// InitPool creates the shared payload chunk pool. It is called once by the
// first NewSender; all senders in the process share one pool.
func InitPool(poolSize, bufferLength int, debug bool) {
	if Pool != nil {
		return
	}
	if poolSize <= 0 {
		poolSize = 2000
	}
	emptySlice = make([]byte, bufferLength)
	rp.Debug = debug
	Pool = rp.NewRingPool("SendPath: ", poolSize, NewPayload, bufferLength)
	Pool.Debug = debug
}

// Payload represents one segment's payload byte slice
type Payload struct {
	payloadBytes []byte
	length       int
}

// NewPayload creates a payload chunk for the ring pool.
func NewPayload(params ...interface{}) rp.DataInterface {
	if len(params) != 1 {
		log.Println("NewPayload: Invalid number of calling parameters. Should be only one: bufferLength")
		return nil
	}

	bufferLength, ok := params[0].(int)
	if !ok {
		log.Println("NewPayload: Invalid data type of bufferLength. Should be of type int")
		return nil
	}

	if len(emptySlice) == 0 { // initialize it
		emptySlice = make([]byte, bufferLength)
	}

	return &Payload{
		payloadBytes: make([]byte, bufferLength),
	}
}

// set the content of the payload
func (p *Payload) SetContent(s string) {
	p.payloadBytes = []byte(s)
	p.length = len(s)
}

// Reset resets the content of the payload
func (p *Payload) Reset() {
	copy(p.payloadBytes, emptySlice)
	p.length = 0
}

// PrintContent prints the content of the payload
func (p *Payload) PrintContent() {
	fmt.Println("Content:", string(p.payloadBytes[:p.length]))
}

func (p *Payload) Copy(src []byte) error {
	if len(src) > len(p.payloadBytes) {
		err := fmt.Errorf("Payload Copy: Source byte slice(%d) is longer than bufferLength(%d)", len(src), len(p.payloadBytes))
		return err
	}
	if len(src) == 0 {
		err := fmt.Errorf("Payload Copy: Source byte slice is empty")
		return err
	}
	copy(p.payloadBytes, src)
	p.length = len(src)
	return nil
}

// Fill writes n copies of b into the payload. Used by the transmit
// scheduler to generate per-segment test data.
func (p *Payload) Fill(b byte, n int) error {
	if n > len(p.payloadBytes) {
		return fmt.Errorf("Payload Fill: requested length(%d) is longer than bufferLength(%d)", n, len(p.payloadBytes))
	}
	for i := 0; i < n; i++ {
		p.payloadBytes[i] = b
	}
	p.length = n
	return nil
}

func (p *Payload) GetSlice() []byte {
	return p.payloadBytes[:p.length]
}
