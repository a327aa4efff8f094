/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config holds the user-editable application configuration persisted
// to a YAML file in the user scope. Environment variables act as read-only
// overrides at runtime. Per-document display settings live in sidecar files
// and are not part of this config.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ViewerConfig struct {
	Mode        string  `yaml:"mode"` // free | fit | fill | panel
	Integer     bool    `yaml:"integer"`
	MaxCrop     float64 `yaml:"maxcrop_percent"` // 0 .. 99.9
	ScrollSpeed float64 `yaml:"scroll_speed"`
	Sidecar     bool    `yaml:"sidecar"`
	Recent      bool    `yaml:"recent_files"`
}

type ExportConfig struct {
	Upscale     int `yaml:"upscale"`      // integer pixel upscale factor, 1 = off
	WebPQuality int `yaml:"webp_quality"` // informational; encoder is lossless
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Viewer        ViewerConfig  `yaml:"viewer"`
	Export        ExportConfig  `yaml:"export"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Viewer:        ViewerConfig{Mode: "fit", Integer: false, MaxCrop: 0, ScrollSpeed: 4, Sidecar: true, Recent: true},
		Export:        ExportConfig{Upscale: 1, WebPQuality: 90},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvMode      = "PXV_MODE"
	EnvInteger   = "PXV_INTEGER"
	EnvLogLevel  = "PXV_LOG_LEVEL"
	EnvLogFormat = "PXV_LOG_FORMAT"
	EnvLogSource = "PXV_LOG_SOURCE"
	EnvLogFile   = "PXV_LOG_FILE"
)

// Path returns the per-user config file path.
func Path() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "PixelView")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "PixelView")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "pixelview")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// DataDir returns the directory for application data such as the
// recent-files database.
func DataDir() (string, error) {
	p, err := Path()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg fileConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// fileConfig mirrors AppConfig for reading the user file. Booleans are
// pointers so a key the file omits keeps its default instead of collapsing
// to false.
type fileConfig struct {
	ConfigVersion int `yaml:"config_version"`
	Viewer        struct {
		Mode        string   `yaml:"mode"`
		Integer     *bool    `yaml:"integer"`
		MaxCrop     *float64 `yaml:"maxcrop_percent"`
		ScrollSpeed float64  `yaml:"scroll_speed"`
		Sidecar     *bool    `yaml:"sidecar"`
		Recent      *bool    `yaml:"recent_files"`
	} `yaml:"viewer"`
	Export struct {
		Upscale     int `yaml:"upscale"`
		WebPQuality int `yaml:"webp_quality"`
	} `yaml:"export"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Source *bool  `yaml:"source"`
		File   string `yaml:"file"`
	} `yaml:"logging"`
}

func mergeInto(dst *AppConfig, src *fileConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.Viewer.Mode) != "" {
		dst.Viewer.Mode = strings.ToLower(strings.TrimSpace(src.Viewer.Mode))
	}
	if src.Viewer.Integer != nil {
		dst.Viewer.Integer = *src.Viewer.Integer
	}
	if src.Viewer.MaxCrop != nil && *src.Viewer.MaxCrop >= 0 && *src.Viewer.MaxCrop <= 99.9 {
		dst.Viewer.MaxCrop = *src.Viewer.MaxCrop
	}
	if src.Viewer.ScrollSpeed > 0 {
		dst.Viewer.ScrollSpeed = src.Viewer.ScrollSpeed
	}
	if src.Viewer.Sidecar != nil {
		dst.Viewer.Sidecar = *src.Viewer.Sidecar
	}
	if src.Viewer.Recent != nil {
		dst.Viewer.Recent = *src.Viewer.Recent
	}
	if src.Export.Upscale > 0 {
		dst.Export.Upscale = src.Export.Upscale
	}
	if src.Export.WebPQuality > 0 {
		dst.Export.WebPQuality = src.Export.WebPQuality
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	if src.Logging.Source != nil {
		dst.Logging.Source = *src.Logging.Source
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvMode)); v != "" {
		cfg.Viewer.Mode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvInteger)); v != "" {
		cfg.Viewer.Integer = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = isTruthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n != 0
	}
	return false
}
