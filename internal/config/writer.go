package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveGlobalBackendConfig persists the backend URL (and optionally a default
// project) to the global config file, preserving unrelated keys.
func SaveGlobalBackendConfig(url, projectID string) error {
	if url == "" {
		return fmt.Errorf("backend URL cannot be empty")
	}

	configDir, err := GetGlobalConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	configFile := filepath.Join(configDir, "config.yaml")

	doc := map[string]any{}
	if raw, err := os.ReadFile(configFile); err == nil {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parse existing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read existing config: %w", err)
	}

	backend, _ := doc["backend"].(map[string]any)
	if backend == nil {
		backend = map[string]any{}
	}
	backend["url"] = url
	doc["backend"] = backend

	if projectID != "" {
		project, _ := doc["project"].(map[string]any)
		if project == nil {
			project = map[string]any{}
		}
		project["id"] = projectID
		doc["project"] = project
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(configFile, raw, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
