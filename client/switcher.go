package client

import (
	"context"
	"strings"
)

// ModeSwitcher changes the backend mode. Success is silent; any failure
// raises one blocking alert.
type ModeSwitcher struct {
	api     ModeChanger
	loading Indicator
	alert   Alerter
}

// NewModeSwitcher wires a switcher to its endpoint and slots.
func NewModeSwitcher(api ModeChanger, loading Indicator, alert Alerter) *ModeSwitcher {
	return &ModeSwitcher{api: api, loading: loading, alert: alert}
}

// Switch requests mode and returns the failure, if any, after alerting it.
func (m *ModeSwitcher) Switch(ctx context.Context, mode string) error {
	release := Hold(m.loading)
	defer release()

	if err := m.api.SwitchMode(ctx, mode); err != nil {
		m.alert.Alert(AlertMessage(err))
		return err
	}
	return nil
}

// AlertMessage is the text shown for a failed mode switch.
func AlertMessage(err error) string {
	return "Error switching mode: " + strings.TrimSpace(err.Error())
}
