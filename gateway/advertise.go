// Package gateway holds the process-wide pieces that sit above individual
// Sessions: the periodic ADVERTISE_SN beacon and the registry that maps a
// transport-level client identity to its Session.
package gateway

import (
	"context"
	"log"
	"time"

	"github.com/golang-io/mqttsn-gateway/snpacket"
)

// BroadcastFunc sends an already-encoded datagram to the MQTT-SN broadcast
// address. The caller (the UDP driver) owns the actual socket.
type BroadcastFunc func(b []byte) error

// Advertiser emits ADVERTISE_SN on its own independent tick, via its own
// callback — it is not one of a Session's SessionOps and does not share
// any Session's timer.
type Advertiser struct {
	gwID      uint8
	period    time.Duration
	broadcast BroadcastFunc
}

// NewAdvertiser builds an Advertiser. A period of 0 disables beaconing;
// Run then blocks on ctx alone.
func NewAdvertiser(gwID uint8, period time.Duration, broadcast BroadcastFunc) *Advertiser {
	return &Advertiser{gwID: gwID, period: period, broadcast: broadcast}
}

// Run blocks, broadcasting one ADVERTISE_SN every period until ctx is done.
func (a *Advertiser) Run(ctx context.Context) error {
	if a.period <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(a.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := a.advertiseOnce(); err != nil {
				log.Printf("gateway: advertise: %v", err)
			}
		}
	}
}

func (a *Advertiser) advertiseOnce() error {
	msg := &snpacket.ADVERTISE{GwId: a.gwID, Duration: uint16(a.period / time.Second)}
	b, err := snpacket.Encode(msg)
	if err != nil {
		return err
	}
	if err := a.broadcast(b); err != nil {
		return err
	}
	metrics.AdvertisementsSent.Inc()
	return nil
}
