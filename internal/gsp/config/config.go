// Package config 提供服务配置
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Address 是 API 监听地址
	// 可以通过环境变量 GSP_ADDRESS 配置
	Address string `yaml:"address"`

	// DataDir 是 GSP 数据目录，数据库文件放在这里
	// 可以通过环境变量 GSP_DATA_DIR 配置
	// 默认：~/.local/share/gsp
	DataDir string `yaml:"data_dir"`

	// PanelURL 是编排面板的基础地址
	// 可以通过环境变量 GSP_PANEL_URL 配置
	PanelURL string `yaml:"panel_url"`

	// PanelAPIKey 是面板应用级 API 密钥
	// 可以通过环境变量 GSP_PANEL_API_KEY 配置
	PanelAPIKey string `yaml:"panel_api_key"`

	// SweepInterval 是生命周期清扫间隔
	SweepInterval time.Duration `yaml:"sweep_interval"`

	// GraceWindow 是暂停后允许续费复活的宽限期时长
	GraceWindow time.Duration `yaml:"grace_window"`
}

// New 加载配置：先读配置文件（GSP_CONFIG 指定路径），再用环境变量覆盖
func New() (*Config, error) {
	cfg := &Config{
		Address:       "0.0.0.0:7878",
		DataDir:       defaultDataDir(),
		SweepInterval: time.Minute,
		GraceWindow:   12 * time.Hour,
	}

	if path := os.Getenv("GSP_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.PanelURL == "" {
		return nil, fmt.Errorf("panel url is required (set GSP_PANEL_URL or panel_url)")
	}
	if cfg.PanelAPIKey == "" {
		return nil, fmt.Errorf("panel api key is required (set GSP_PANEL_API_KEY or panel_api_key)")
	}

	return cfg, nil
}

// applyEnv 环境变量优先级高于配置文件
func applyEnv(cfg *Config) {
	if addr := os.Getenv("GSP_ADDRESS"); addr != "" {
		cfg.Address = addr
	}
	if dir := os.Getenv("GSP_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if url := os.Getenv("GSP_PANEL_URL"); url != "" {
		cfg.PanelURL = url
	}
	if key := os.Getenv("GSP_PANEL_API_KEY"); key != "" {
		cfg.PanelAPIKey = key
	}
	if interval := os.Getenv("GSP_SWEEP_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.SweepInterval = d
		}
	}
	if window := os.Getenv("GSP_GRACE_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil {
			cfg.GraceWindow = d
		}
	}
}

// DatabasePath 数据库文件路径
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "gsp.db")
}

// defaultDataDir 获取默认数据目录
func defaultDataDir() string {
	// 1. 使用用户主目录下的 .local/share/gsp
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "gsp")
	}

	// 2. 如果无法获取主目录，使用当前目录下的 data
	return filepath.Join(".", "data")
}
