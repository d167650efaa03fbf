package lib

// Flag constants
const (
	// TCP flag constants
	URGFlag uint8 = 1 << 5
	ACKFlag uint8 = 1 << 4
	PSHFlag uint8 = 1 << 3
	RSTFlag uint8 = 1 << 2
	SYNFlag uint8 = 1 << 1
	FINFlag uint8 = 1 << 0
)

const (
	TcpHeaderLength = 20 // options not included
)

// Engine defaults, overridable through config
const (
	DefaultMSS          = 1460
	MinMSS              = 536
	MaxWindow           = 65535
	DefaultMaxSegments  = 32
	DefaultMaxRetries   = 5
	DefaultRtoMin       = 1000   // 1 second
	DefaultRtoMax       = 120000 // 2 minutes
	DefaultInitCwnd     = 10     // segments
	DefaultInitSsthresh = 65535
)
