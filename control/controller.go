package control

import "fmt"

// Controller is a thin outward API over a single Connection: GetInfo,
// GetInfoMultiple, WatchEvent, Close.
type Controller struct {
	conn *Connection
}

// NewController wraps an already-open Connection in the façade API.
func NewController(conn *Connection) *Controller {
	return &Controller{conn: conn}
}

// GetInfo fetches a single GETINFO key. The key is validated
// against the capability table before anything is sent.
func (ctl *Controller) GetInfo(key string) (Value, error) {
	values, err := ctl.GetInfoMultiple([]string{key})
	if err != nil {
		return Value{}, err
	}
	return values[key], nil
}

// GetInfoMultiple fetches several GETINFO keys in one request. If any
// key is unrecognized, unsupported, or deprecated, the whole request
// fails locally as a unit and no bytes are sent.
func (ctl *Controller) GetInfoMultiple(keys []string) (map[string]Value, error) {
	if len(keys) == 0 {
		return map[string]Value{}, nil
	}
	if err := validateGetInfoKeys(keys); err != nil {
		return nil, err
	}

	reply := ctl.conn.submitSync(formatGetInfo(keys))
	values, err := parseGetInfoReply(keys, reply)
	if err != nil {
		return nil, fmt.Errorf("get_info_multiple: %w", err)
	}
	return values, nil
}

// WatchEvent subscribes to a documented event type (CIRC, STREAM, ...).
// filter may be nil to accept every event of that type. It returns a
// deregistration handle.
func (ctl *Controller) WatchEvent(eventType string, filter func(EventRecord) bool, handler func(EventRecord)) func() {
	return ctl.conn.watchEvent(eventType, filter, handler)
}

// Close tears down the underlying connection. Idempotent.
func (ctl *Controller) Close() error {
	return ctl.conn.Close()
}

// Connection exposes the underlying Connection. Its exported surface is
// Endpoint and Close; GETINFO requests and event subscriptions go through
// the Controller.
func (ctl *Controller) Connection() *Connection { return ctl.conn }
