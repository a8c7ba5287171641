// Package configloader 加载并规范化 bootstrap 配置。
// 配置文件为 YAML，敏感字段通过环境变量覆盖（DATABASE_URL、BUNNY_API_KEY 等）。
package configloader

// Bootstrap 是配置文件的顶层结构。
type Bootstrap struct {
	Server        ServerConfig        `json:"server"`
	Data          DataConfig          `json:"data"`
	Bunny         BunnyConfig         `json:"bunny"`
	Messaging     MessagingConfig     `json:"messaging"`
	Observability ObservabilityConfig `json:"observability"`
}

// ServerConfig 描述 HTTP 服务与入站鉴权。
type ServerConfig struct {
	HTTP HTTPConfig `json:"http"`
	JWT  JWTConfig  `json:"jwt"`
}

// HTTPConfig 描述 HTTP 监听参数。Timeout 为 Go duration 字符串（如 "30s"）。
type HTTPConfig struct {
	Network string `json:"network"`
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

// JWTConfig 描述入站请求的 JWT 校验行为。
type JWTConfig struct {
	ExpectedAudience string `json:"expected_audience"`
	SkipValidate     bool   `json:"skip_validate"`
	Required         bool   `json:"required"`
	HeaderKey        string `json:"header_key"`
}

// DataConfig 聚合数据层配置。
type DataConfig struct {
	Postgres PostgresConfig `json:"postgres"`
}

// PostgresConfig 描述连接池参数。时间字段均为 duration 字符串。
type PostgresConfig struct {
	DSN                      string            `json:"dsn"`
	Schema                   string            `json:"schema"`
	MaxOpenConns             int32             `json:"max_open_conns"`
	MinOpenConns             int32             `json:"min_open_conns"`
	MaxConnLifetime          string            `json:"max_conn_lifetime"`
	MaxConnIdleTime          string            `json:"max_conn_idle_time"`
	HealthCheckPeriod        string            `json:"health_check_period"`
	EnablePreparedStatements bool              `json:"enable_prepared_statements"`
	Transaction              TransactionConfig `json:"transaction"`
}

// TransactionConfig 描述事务管理器行为。
type TransactionConfig struct {
	DefaultIsolation string `json:"default_isolation"`
	DefaultTimeout   string `json:"default_timeout"`
	LockTimeout      string `json:"lock_timeout"`
	MaxRetries       int    `json:"max_retries"`
	MetricsEnabled   *bool  `json:"metrics_enabled"`
}

// BunnyConfig 描述视频 CDN 凭证与端点。
type BunnyConfig struct {
	APIKey      string `json:"api_key"`
	LibraryID   string `json:"library_id"`
	BaseURL     string `json:"base_url"`
	CDNHostname string `json:"cdn_hostname"`
	Timeout     string `json:"timeout"`
}

// MessagingConfig 聚合事件发布与回调消费配置。
type MessagingConfig struct {
	Events    PubSubConfig          `json:"events"`    // 领域事件出站 Topic
	Encodings PubSubConfig          `json:"encodings"` // 转码回调入站 Subscription
	Outbox    OutboxPublisherConfig `json:"outbox"`
	Inbox     InboxConfig           `json:"inbox"`
}

// PubSubConfig 描述单个 Pub/Sub 连接。
type PubSubConfig struct {
	ProjectID          string              `json:"project_id"`
	TopicID            string              `json:"topic_id"`
	SubscriptionID     string              `json:"subscription_id"`
	EmulatorEndpoint   string              `json:"emulator_endpoint"`
	OrderingKeyEnabled *bool               `json:"ordering_key_enabled"`
	LoggingEnabled     *bool               `json:"logging_enabled"`
	MetricsEnabled     *bool               `json:"metrics_enabled"`
	PublishTimeout     string              `json:"publish_timeout"`
	Receive            PubSubReceiveConfig `json:"receive"`
}

// PubSubReceiveConfig 描述订阅端的流控参数。
type PubSubReceiveConfig struct {
	NumGoroutines          int    `json:"num_goroutines"`
	MaxOutstandingMessages int    `json:"max_outstanding_messages"`
	MaxOutstandingBytes    int    `json:"max_outstanding_bytes"`
	MaxExtension           string `json:"max_extension"`
	MaxExtensionPeriod     string `json:"max_extension_period"`
}

// OutboxPublisherConfig 描述 Outbox 发布循环参数。
type OutboxPublisherConfig struct {
	BatchSize      int    `json:"batch_size"`
	TickInterval   string `json:"tick_interval"`
	InitialBackoff string `json:"initial_backoff"`
	MaxBackoff     string `json:"max_backoff"`
	MaxAttempts    int    `json:"max_attempts"`
	PublishTimeout string `json:"publish_timeout"`
	Workers        int    `json:"workers"`
	LockTTL        string `json:"lock_ttl"`
	LoggingEnabled *bool  `json:"logging_enabled"`
	MetricsEnabled *bool  `json:"metrics_enabled"`
}

// InboxConfig 描述 Inbox 消费参数。
type InboxConfig struct {
	SourceService  string `json:"source_service"`
	MaxConcurrency int    `json:"max_concurrency"`
	LoggingEnabled *bool  `json:"logging_enabled"`
	MetricsEnabled *bool  `json:"metrics_enabled"`
}

// ObservabilityConfig 描述追踪与指标配置。
type ObservabilityConfig struct {
	GlobalAttributes map[string]string `json:"global_attributes"`
	Tracing          TracingConfig     `json:"tracing"`
	Metrics          MetricsConfig     `json:"metrics"`
}

// TracingConfig 描述 OTel Tracing 导出参数。
type TracingConfig struct {
	Enabled            bool              `json:"enabled"`
	Exporter           string            `json:"exporter"`
	Endpoint           string            `json:"endpoint"`
	Headers            map[string]string `json:"headers"`
	Insecure           bool              `json:"insecure"`
	SamplingRatio      float64           `json:"sampling_ratio"`
	BatchTimeout       string            `json:"batch_timeout"`
	ExportTimeout      string            `json:"export_timeout"`
	MaxQueueSize       int               `json:"max_queue_size"`
	MaxExportBatchSize int               `json:"max_export_batch_size"`
	Required           bool              `json:"required"`
	Attributes         map[string]string `json:"attributes"`
}

// MetricsConfig 描述 OTel Metrics 导出参数。
type MetricsConfig struct {
	Enabled             bool              `json:"enabled"`
	Exporter            string            `json:"exporter"`
	Endpoint            string            `json:"endpoint"`
	Headers             map[string]string `json:"headers"`
	Insecure            bool              `json:"insecure"`
	Interval            string            `json:"interval"`
	DisableRuntimeStats bool              `json:"disable_runtime_stats"`
	Required            bool              `json:"required"`
	ResourceAttributes  map[string]string `json:"resource_attributes"`
}
