package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/afero"

	"github.com/kivo360/omoictl/internal/api"
	"github.com/kivo360/omoictl/internal/auth"
	"github.com/kivo360/omoictl/internal/config"
	"github.com/kivo360/omoictl/internal/journal"
	"github.com/kivo360/omoictl/internal/resources"
	"github.com/kivo360/omoictl/internal/telemetry"
)

// newSession returns the session store for the configured backend.
func newSession() (auth.Session, error) {
	dir, err := config.GetGlobalConfigDir()
	if err != nil {
		return nil, err
	}
	return auth.NewFileSession(afero.NewOsFs(), dir, GetConfig().Backend.URL), nil
}

// newProvider builds the backend client from config and the stored session.
func newProvider() (api.Provider, error) {
	cfg := GetConfig()
	session, err := newSession()
	if err != nil {
		return nil, err
	}
	token, _ := session.Token()
	timeout := time.Duration(cfg.Backend.RequestTimeoutSeconds) * time.Second
	return api.NewClient(cfg.Backend.URL, token, timeout), nil
}

// openJournal opens the local change journal. Failures are reported but not
// fatal: commands still work, they just don't record history.
func openJournal() *journal.Journal {
	j, err := journal.Open(config.GetJournalPath())
	if err != nil {
		if verbose {
			fmt.Fprintf(os.Stderr, "Warning: change journal unavailable: %v\n", err)
		}
		return nil
	}
	return j
}

// allocationBounds builds the slider bounds from config.
func allocationBounds() resources.Bounds {
	cfg := GetConfig().Resources
	b := resources.DefaultBounds()
	apply := func(dst *int, v int) {
		if v > 0 {
			*dst = v
		}
	}
	apply(&b.CPU.Min, cfg.CPU.Min)
	apply(&b.CPU.Max, cfg.CPU.Max)
	apply(&b.CPU.Step, cfg.CPU.Step)
	apply(&b.Memory.Min, cfg.Memory.Min)
	apply(&b.Memory.Max, cfg.Memory.Max)
	apply(&b.Memory.Step, cfg.Memory.Step)
	apply(&b.Disk.Min, cfg.Disk.Min)
	apply(&b.Disk.Max, cfg.Disk.Max)
	apply(&b.Disk.Step, cfg.Disk.Step)
	return b
}

// confirm prompts the user with a yes/no question. Returns false on decline
// or interrupt.
func confirm(label string) bool {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	return err == nil
}

// newTelemetry builds the telemetry client from the stored consent config.
// Returns a no-op client when telemetry is off or unconfigured.
func newTelemetry() telemetry.Client {
	if !GetConfig().Telemetry.Enabled {
		return telemetry.NewNoopClient()
	}
	tcfg, err := telemetry.Load()
	if err != nil || !tcfg.IsEnabled() {
		return telemetry.NewNoopClient()
	}
	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:  os.Getenv("OMOICTL_POSTHOG_KEY"),
		Version: version,
		Config:  tcfg,
	})
	if err != nil {
		return telemetry.NewNoopClient()
	}
	return client
}

// track records a telemetry event and flushes before command exit.
func track(event string, props map[string]any) {
	client := newTelemetry()
	client.Track(event, props)
	_ = client.Close()
}
