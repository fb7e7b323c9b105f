package config

// This file implements the persisted settings file. The legacy GUI saved its
// folder fields and the delete-originals checkbox to
// %LOCALAPPDATA%\MergeReplays\config.json; the CLI keeps the same JSON keys
// under the per-user config directory so runs can omit the positional args.

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// settingsFile mirrors the legacy config.json schema.
type settingsFile struct {
	SourceFolder    string `json:"source_folder"`
	DestFolder      string `json:"dest_folder"`
	DeleteOriginals bool   `json:"delete_originals"`
}

// DefaultSettingsPath returns the per-user settings file location
// (e.g. ~/.config/mergereplays/config.json). Empty string if the user
// config directory cannot be determined.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mergereplays", "config.json")
}

// settingsPath resolves the effective settings file path for cfg.
func settingsPath(cfg *Config) string {
	if cfg.SettingsPath != "" {
		return cfg.SettingsPath
	}
	return DefaultSettingsPath()
}

// LoadSettings pre-fills cfg with values from the settings file, if one
// exists. Saved folders are only applied when they still exist as
// directories, matching the legacy load behavior. A missing, unreadable, or
// corrupt file is not an error; cfg is left unchanged.
func LoadSettings(cfg *Config) {
	path := settingsPath(cfg)
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var s settingsFile
	if err := json.Unmarshal(data, &s); err != nil {
		return
	}
	if isDir(s.SourceFolder) {
		cfg.SourceDir = s.SourceFolder
	}
	if isDir(s.DestFolder) {
		cfg.DestDir = s.DestFolder
	}
	cfg.DeleteOriginals = s.DeleteOriginals
}

// SaveSettings writes the current folders and delete-originals choice to the
// settings file, creating the directory if needed. Failures are returned so
// the caller can log a warning; they never abort a run.
func SaveSettings(cfg *Config) error {
	path := settingsPath(cfg)
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	s := settingsFile{
		SourceFolder:    cfg.SourceDir,
		DestFolder:      cfg.DestDir,
		DeleteOriginals: cfg.DeleteOriginals,
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
