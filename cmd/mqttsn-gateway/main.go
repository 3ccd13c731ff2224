// Command mqttsn-gateway is the reference driver: a UDP socket facing
// MQTT-SN clients, one MQTT v3.1.1 TCP connection to the broker per client
// session, an ADVERTISE_SN beacon, and the admin observability surface —
// all supervised under one errgroup.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/golang-io/mqttsn-gateway/admin"
	"github.com/golang-io/mqttsn-gateway/config"
	"github.com/golang-io/mqttsn-gateway/gateway"
	"github.com/golang-io/mqttsn-gateway/session"
	"golang.org/x/sync/errgroup"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	configPath := flag.String("config", "", "path to the gateway directive file (optional)")
	udpAddr := flag.String("udp", ":1885", "UDP address MQTT-SN clients connect to")
	adminURL := flag.String("admin-url", "http://127.0.0.1:8080", "admin HTTP surface address")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}

	group, ctx := errgroup.WithContext(context.Background())

	registry := gateway.NewRegistry()
	adminSrv := admin.NewServer(*adminURL, registry)

	group.Go(func() error {
		return adminSrv.ListenAndServe(ctx)
	})

	udpConn, err := net.ListenPacket("udp", *udpAddr)
	if err != nil {
		log.Fatalf("udp listen: %v", err)
	}
	defer udpConn.Close()

	if cfg.AdvertisePeriodS > 0 {
		broadcastAddr := broadcastAddrFor(*udpAddr)
		advertiser := gateway.NewAdvertiser(cfg.GwID, time.Duration(cfg.AdvertisePeriodS)*time.Second, func(b []byte) error {
			dst, err := net.ResolveUDPAddr("udp", broadcastAddr)
			if err != nil {
				return err
			}
			_, err = udpConn.WriteTo(b, dst)
			return err
		})
		group.Go(func() error {
			return advertiser.Run(ctx)
		})
	}

	d := &udpDispatcher{
		conn:     udpConn,
		registry: registry,
		admin:    adminSrv,
		cfg:      cfg,
		drivers:  make(map[string]*clientDriver),
	}
	group.Go(func() error {
		return d.serve(ctx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal(err)
	}
}

// broadcastAddrFor turns a ":port" or "host:port" listen address into the
// limited broadcast address on the same port, good enough for the local
// test networks this reference driver targets.
func broadcastAddrFor(listenAddr string) string {
	_, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return listenAddr
	}
	return net.JoinHostPort("255.255.255.255", port)
}

// udpDispatcher reads MQTT-SN datagrams and routes each to the Session
// registered for its source address, creating one on first sight. It keeps
// its own key->driver map alongside the registry's key->session map so it
// can take the driver's mutex before entering the Session — every other
// entry point (broker reads, the tick timer) does the same, since nothing
// inside Session itself serializes concurrent callers.
type udpDispatcher struct {
	conn     net.PacketConn
	registry *gateway.Registry
	admin    *admin.Server
	cfg      *config.Config

	mu      sync.Mutex
	drivers map[string]*clientDriver
}

func (d *udpDispatcher) serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		d.conn.Close()
	}()

	buf := make([]byte, 1500)
	for {
		n, addr, err := d.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		key := addr.String()
		drv, sess := d.driverFor(key, addr)
		drv.mu.Lock()
		consumed := sess.DataFromClient(buf[:n])
		drv.mu.Unlock()
		if consumed != n {
			log.Printf("gateway: %s: partial MQTT-SN frame dropped (%d/%d bytes)", key, consumed, n)
		}
	}
}

func (d *udpDispatcher) driverFor(key string, addr net.Addr) (*clientDriver, *session.Session) {
	d.mu.Lock()
	if drv, ok := d.drivers[key]; ok {
		d.mu.Unlock()
		return drv, drv.sess
	}
	d.mu.Unlock()

	var drv *clientDriver
	sess := d.registry.GetOrCreate(key, func() session.Driver {
		drv = newClientDriver(key, addr, d.conn, d.registry, d.admin, d.cfg)
		drv.onTerminate = func() { d.forget(key) }
		return drv
	})
	d.mu.Lock()
	d.drivers[key] = drv
	d.mu.Unlock()
	return drv, sess
}

func (d *udpDispatcher) forget(key string) {
	d.mu.Lock()
	delete(d.drivers, key)
	d.mu.Unlock()
}

// clientDriver implements session.Driver for one MQTT-SN client: it owns
// the shared UDP socket (writing back to the client's address) and a
// private TCP connection to the broker. All entry points into the Session
// are serialized through mu, since UDP reads, broker reads, and the tick
// timer each run on their own goroutine.
type clientDriver struct {
	key         string
	addr        net.Addr
	udp         net.PacketConn
	registry    *gateway.Registry
	admin       *admin.Server
	cfg         *config.Config
	onTerminate func()

	mu          sync.Mutex
	sess        *session.Session
	timer       *time.Timer
	tickArmedAt time.Time

	brokerMu   sync.Mutex
	brokerConn net.Conn
}

func newClientDriver(key string, addr net.Addr, udp net.PacketConn, registry *gateway.Registry, adm *admin.Server, cfg *config.Config) *clientDriver {
	d := &clientDriver{key: key, addr: addr, udp: udp, registry: registry, admin: adm, cfg: cfg}
	return d
}

// BindSession is called once by gateway.Registry.GetOrCreate, right after
// session.New, so the driver can carry out per-session setup (config-driven
// settings, the initial broker dial) that needs the Session back-reference
// session.Driver itself doesn't get.
func (d *clientDriver) BindSession(sess *session.Session) {
	d.sess = sess
	sess.SetRetryPeriodMs(d.cfg.RetryPeriodMs)
	sess.SetRetryCount(d.cfg.RetryCount)
	sess.SetGwID(d.cfg.GwID)
	sess.SetDefaultClientID(d.cfg.DefaultClientID)
	sess.SetSleepPubAccLimit(d.cfg.SleepingClientMsgLimit)
	sess.SetPubOnlyKeepAliveS(d.cfg.PubOnlyKeepAliveS)
	sess.SetTopicIdAllocRange(d.cfg.TopicIDAllocRange.Min, d.cfg.TopicIDAllocRange.Max)
	for _, t := range d.cfg.PredefinedTopics {
		if t.ClientID == "" || t.ClientID == d.key {
			sess.AddPredefinedTopic(t.Topic, t.TopicID)
		}
	}
	d.connectBroker()
}

func (d *clientDriver) connectBroker() {
	if d.cfg.BrokerTCP.Address == "" {
		return
	}
	addr := fmt.Sprintf("%s:%d", d.cfg.BrokerTCP.Address, d.cfg.BrokerTCP.Port)
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.Printf("gateway: %s: broker dial: %v", d.key, err)
		d.mu.Lock()
		d.sess.BrokerConnected(false)
		d.mu.Unlock()
		return
	}
	d.brokerMu.Lock()
	if d.brokerConn != nil {
		_ = d.brokerConn.Close()
	}
	d.brokerConn = conn
	d.brokerMu.Unlock()

	d.mu.Lock()
	d.sess.BrokerConnected(true)
	d.mu.Unlock()
	go d.readBroker(conn)
}

func (d *clientDriver) readBroker(conn net.Conn) {
	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			d.mu.Lock()
			d.sess.DataFromBroker(buf[:n])
			d.mu.Unlock()
		}
		if err != nil {
			d.brokerMu.Lock()
			sameConn := d.brokerConn == conn
			d.brokerMu.Unlock()
			if sameConn {
				d.mu.Lock()
				d.sess.BrokerConnected(false)
				d.mu.Unlock()
			}
			return
		}
	}
}

// ProgramTick and CancelTick are called with d.mu already held (every
// Session entry point runs under it), so they touch d.timer directly.
func (d *clientDriver) ProgramTick(ms uint32) {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.tickArmedAt = time.Now()
	d.timer = time.AfterFunc(time.Duration(ms)*time.Millisecond, func() {
		d.mu.Lock()
		d.sess.Tick()
		d.mu.Unlock()
	})
}

func (d *clientDriver) CancelTick() uint32 {
	if d.timer == nil {
		return 0
	}
	d.timer.Stop()
	elapsed := uint32(time.Since(d.tickArmedAt) / time.Millisecond)
	d.timer = nil
	return elapsed
}

func (d *clientDriver) SendToClient(b []byte) error {
	_, err := d.udp.WriteTo(b, d.addr)
	return err
}

func (d *clientDriver) SendToBroker(b []byte) error {
	d.brokerMu.Lock()
	conn := d.brokerConn
	d.brokerMu.Unlock()
	if conn == nil {
		return fmt.Errorf("gateway: %s: no broker connection", d.key)
	}
	_, err := conn.Write(b)
	return err
}

func (d *clientDriver) RequestTerminate() {
	d.brokerMu.Lock()
	if d.brokerConn != nil {
		_ = d.brokerConn.Close()
	}
	d.brokerMu.Unlock()
	d.admin.Publish(admin.Event{ClientID: d.key, Status: "terminated", AtUnixMs: nowMs()})
	d.registry.Remove(d.key)
	if d.onTerminate != nil {
		d.onTerminate()
	}
}

func (d *clientDriver) RequestBrokerReconnect() {
	go d.connectBroker()
}

func (d *clientDriver) ReportClientConnected(clientID string) {
	d.admin.Publish(admin.Event{ClientID: clientID, Status: "connected", AtUnixMs: nowMs()})
}

func (d *clientDriver) RequestAuthInfo(clientID string) (string, []byte, bool) {
	for _, a := range d.cfg.Auth {
		if a.ClientID == clientID {
			return a.Username, []byte(a.Password), true
		}
	}
	return "", nil, false
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}
