package config

// Config datawire 统一配置
//
// 各组件的配置集中在这里，内部模块通过 ConfigFromUnified 取出自己的部分：
//   - Reactor: 反应器事件循环
//   - Container: 路由容器与链路
//   - Transport: 连接、握手与多路复用
//   - Metrics: Prometheus 指标
//   - Log: 日志级别与格式
type Config struct {
	// Reactor 反应器配置
	Reactor ReactorConfig `json:"reactor" yaml:"reactor"`

	// Container 容器配置
	Container ContainerConfig `json:"container" yaml:"container"`

	// Transport 传输层配置
	Transport TransportConfig `json:"transport" yaml:"transport"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Reactor:   DefaultReactorConfig(),
		Container: DefaultContainerConfig(),
		Transport: DefaultTransportConfig(),
		Metrics:   DefaultMetricsConfig(),
		Log:       DefaultLogConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置，返回第一个错误。
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if err := c.Reactor.Validate(); err != nil {
		return err
	}
	if err := c.Container.Validate(); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// Clone 返回深拷贝
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Container.Links = append([]string(nil), c.Container.Links...)
	cp.Transport.ListenAddrs = append([]string(nil), c.Transport.ListenAddrs...)
	return &cp
}
