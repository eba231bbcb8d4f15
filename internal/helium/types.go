package helium

// Wallet is a Helium account as returned by the explorer accounts endpoint.
// Balance and DCBalance are denominated in the smallest unit (bones).
type Wallet struct {
	Address   string `json:"address"`
	Balance   int64  `json:"balance"`
	Block     int64  `json:"block"`
	DCBalance int64  `json:"dc_balance"`
}

// HotspotStatus is the nested status object of a hotspot.
type HotspotStatus struct {
	Online bool  `json:"online"`
	Height int64 `json:"height"`
}

// Hotspot is a Helium hotspot as returned by the explorer hotspots endpoint.
type Hotspot struct {
	Address          string        `json:"address"`
	Name             string        `json:"name"`
	Status           HotspotStatus `json:"status"`
	Owner            string        `json:"owner"`
	Block            int64         `json:"block"`
	RewardScale      float64       `json:"reward_scale"`
	LastPoCChallenge string        `json:"last_poc_challenge"`
}

// PriceQuote is the oracle's current HNT price.
// Price is USD * 10^8 (same denomination as bones).
type PriceQuote struct {
	Price     int64  `json:"price"`
	Block     int64  `json:"block"`
	Timestamp string `json:"timestamp"`
}

// NetworkStats is the explorer's network-wide stats document.
// Unlike the other endpoints it is returned without a data envelope.
type NetworkStats struct {
	Hotspots  int64 `json:"hotspots"`
	Blocks    int64 `json:"blocks"`
	Countries int64 `json:"countries"`
	Cities    int64 `json:"cities"`
}
