package bus

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// Client calls the control interface of a running tray.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewClientWithConn(conn), nil
}

// NewClientWithConn creates a client on an existing connection.
func NewClientWithConn(conn *dbus.Conn) *Client {
	return &Client{
		conn: conn,
		obj:  conn.Object(BusName, dbus.ObjectPath(Path)),
	}
}

// AddNotification raises a notification in the tray.
func (c *Client) AddNotification(ctx context.Context, name string, forced, repeated bool, body string) error {
	return c.call(ctx, "AddNotification", nil, name, forced, repeated, body)
}

// ClearNotificationsCache clears the tray's dedup cache.
func (c *Client) ClearNotificationsCache(ctx context.Context) error {
	return c.call(ctx, "ClearNotificationsCache", nil)
}

// ClearAllNotifications removes every active notification.
func (c *Client) ClearAllNotifications(ctx context.Context) error {
	return c.call(ctx, "ClearAllNotifications", nil)
}

// Snapshot returns the active notification names, most recent first.
func (c *Client) Snapshot(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.call(ctx, "Snapshot", &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Position returns the tray offset.
func (c *Client) Position(ctx context.Context) (string, error) {
	var pos string
	if err := c.call(ctx, "Position", &pos); err != nil {
		return "", err
	}
	return pos, nil
}

func (c *Client) call(ctx context.Context, method string, out any, args ...any) error {
	call := c.obj.CallWithContext(ctx, Interface+"."+method, 0, args...)
	if call.Err != nil {
		return fmt.Errorf("%s: %w", method, call.Err)
	}
	if out != nil {
		if err := call.Store(out); err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
	}
	return nil
}
