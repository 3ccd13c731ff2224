package session

// Driver is the callback surface a Session uses to talk back to whatever
// owns it: the UDP/serial transport feeding MQTT-SN bytes in, and the TCP
// connection carrying MQTT v3.1.1 to the broker.
type Driver interface {
	// ProgramTick requests a callback to Session.Tick after ms
	// milliseconds, replacing any previously-programmed tick.
	ProgramTick(ms uint32)
	// CancelTick cancels the pending tick and reports how many
	// milliseconds had elapsed since it was programmed.
	CancelTick() uint32

	SendToClient(b []byte) error
	SendToBroker(b []byte) error

	// RequestTerminate tells the driver this Session is done; the driver
	// must free it after the call that triggered this returns.
	RequestTerminate()
	// RequestBrokerReconnect tells the driver to close and reopen the
	// broker TCP connection.
	RequestBrokerReconnect()

	// ReportClientConnected is an optional hook, fired once per session
	// on the first successful CONNECT.
	ReportClientConnected(clientID string)
	// RequestAuthInfo is an optional hook for looking up credentials to
	// forward with the broker-side CONNECT.
	RequestAuthInfo(clientID string) (username string, password []byte, ok bool)
}

// NopDriver is a Driver that discards every callback; embed it to satisfy
// the interface without implementing hooks a particular integration
// doesn't need.
type NopDriver struct{}

func (NopDriver) ProgramTick(uint32)                                         {}
func (NopDriver) CancelTick() uint32                                         { return 0 }
func (NopDriver) SendToClient([]byte) error                                  { return nil }
func (NopDriver) SendToBroker([]byte) error                                  { return nil }
func (NopDriver) RequestTerminate()                                          {}
func (NopDriver) RequestBrokerReconnect()                                    {}
func (NopDriver) ReportClientConnected(string)                               {}
func (NopDriver) RequestAuthInfo(string) (string, []byte, bool)              { return "", nil, false }
