package network

import (
	"encoding/json"
	"sync/atomic"
)

type MetricPool struct {
	enabled bool

	PeerMessageTypeHello          uint32 `json:"hello"`
	PeerMessageTypePlacementReady uint32 `json:"placement-ready"`
	PeerMessageTypeFire           uint32 `json:"fire"`
	PeerMessageTypeFireResult     uint32 `json:"fire-result"`
	PeerMessageTypeRematchRequest uint32 `json:"rematch-request"`
	PeerMessageTypeRematchStart   uint32 `json:"rematch-start"`
	PeerMessageTypeDisconnect     uint32 `json:"disconnect"`
}

func (mp *MetricPool) handle(msg uint8) {
	if !mp.enabled {
		return
	}

	switch msg {
	case PeerMessageTypeHello:
		atomic.AddUint32(&mp.PeerMessageTypeHello, 1)
	case PeerMessageTypePlacementReady:
		atomic.AddUint32(&mp.PeerMessageTypePlacementReady, 1)
	case PeerMessageTypeFire:
		atomic.AddUint32(&mp.PeerMessageTypeFire, 1)
	case PeerMessageTypeFireResult:
		atomic.AddUint32(&mp.PeerMessageTypeFireResult, 1)
	case PeerMessageTypeRematchRequest:
		atomic.AddUint32(&mp.PeerMessageTypeRematchRequest, 1)
	case PeerMessageTypeRematchStart:
		atomic.AddUint32(&mp.PeerMessageTypeRematchStart, 1)
	case PeerMessageTypeDisconnect:
		atomic.AddUint32(&mp.PeerMessageTypeDisconnect, 1)
	}
}

func (mp *MetricPool) String() string {
	b, err := json.Marshal(mp)
	if err != nil {
		panic(err)
	}
	return string(b)
}
