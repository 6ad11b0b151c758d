// Package bus exposes a notification controller on the D-Bus session bus
// under the io.github.jmylchreest.Toastq interface, and provides a client
// for driving a running tray from other processes.
package bus
