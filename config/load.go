package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat 配置文件扩展名无法识别
var ErrUnknownFormat = errors.New("config: unknown file format")

// Load 加载配置
//
// path 为空时从默认值开始；否则按扩展名解析 JSON（.json）或 YAML（.yaml/.yml）。
// 之后套用 BUSMSG_* 环境变量并验证。
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := decode(path, data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromJSON 从 JSON 解析配置，未出现的字段保留默认值
func FromJSON(data []byte) (*Config, error) {
	cfg := NewConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromYAML 从 YAML 解析配置，未出现的字段保留默认值
func FromYAML(data []byte) (*Config, error) {
	cfg := NewConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv 用 BUSMSG_* 环境变量覆盖配置
func ApplyEnv(cfg *Config) error {
	if cfg == nil {
		return ErrNilConfig
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func decode(path string, data []byte, cfg *Config) error {
	var (
		parsed *Config
		err    error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		parsed, err = FromJSON(data)
	case ".yaml", ".yml":
		parsed, err = FromYAML(data)
	default:
		return ErrUnknownFormat
	}
	if err != nil {
		return err
	}
	*cfg = *parsed
	return nil
}
