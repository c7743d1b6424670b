package config

import "errors"

// MessagesConfig 动作注册与自动传播配置
type MessagesConfig struct {
	// Actions 启动时注册的动作
	Actions []string `json:"actions" yaml:"actions" env:"BUSMSG_ACTIONS"`

	// AutoPropagate 自动传播初始值；不设置时首次读取固定为 false。
	// 三态无法用环境变量表达，只能通过文件或命令行设置
	AutoPropagate *bool `json:"auto_propagate,omitempty" yaml:"auto_propagate,omitempty"`
}

// DefaultMessagesConfig 返回默认配置：无动作，自动传播未设置
func DefaultMessagesConfig() MessagesConfig {
	return MessagesConfig{}
}

// Validate 验证动作名非空
func (c MessagesConfig) Validate() error {
	for _, a := range c.Actions {
		if a == "" {
			return errors.New("config: messages actions must not contain empty names")
		}
	}
	return nil
}

// WithActions 返回追加了动作的配置
func (c MessagesConfig) WithActions(actions ...string) MessagesConfig {
	c.Actions = append(append([]string(nil), c.Actions...), actions...)
	return c
}

// WithAutoPropagate 返回设置了自动传播的配置
func (c MessagesConfig) WithAutoPropagate(v bool) MessagesConfig {
	c.AutoPropagate = &v
	return c
}
