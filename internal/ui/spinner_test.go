package ui

import "testing"

func TestSpinnerStartStop(t *testing.T) {
	sp := NewFetchSpinner("sandboxes")
	sp.Start()
	sp.Start() // double start must be safe
	sp.SetMessage("fetching summary...")
	sp.Stop()
	sp.Stop() // double stop must be safe
}

func TestSpinnerRestart(t *testing.T) {
	sp := NewSpinner("working...")
	sp.Start()
	sp.Stop()
	sp.Start()
	sp.Stop()
}
