package configloader

import (
	"github.com/miravio/services-catalog/internal/clients/bunny"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	obswire "github.com/bionicotaku/lingo-utils/observability"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	txconfig "github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/google/wire"
)

// EncodingSubscriber 是转码回调订阅的强类型包装，
// 避免与其它 gcpubsub.Subscriber 在 Wire 注入图中混淆。
type EncodingSubscriber gcpubsub.Subscriber

// ProviderSet exposes configuration-derived dependencies for Wire graphs.
var ProviderSet = wire.NewSet(
	ProvideServiceMetadata,
	ProvideBootstrap,
	ProvideServerConfig,
	ProvidePostgresConfig,
	ProvideBunnyConfig,
	ProvideObservabilityConfig,
	ProvideObservabilityInfo,
	ProvideTxConfig,
	ProvideOutboxConfig,
)

// ProvideServiceMetadata returns the resolved ServiceMetadata from the bundle.
func ProvideServiceMetadata(b *Bundle) ServiceMetadata {
	if b == nil {
		return ServiceMetadata{}
	}
	return b.Service
}

// ProvideBootstrap exposes the strongly typed bootstrap configuration.
func ProvideBootstrap(b *Bundle) *Bootstrap {
	if b == nil {
		return nil
	}
	return b.Bootstrap
}

// ProvideServerConfig returns the server section of the bootstrap configuration.
func ProvideServerConfig(bc *Bootstrap) ServerConfig {
	if bc == nil {
		return ServerConfig{}
	}
	return bc.Server
}

// ProvidePostgresConfig returns the postgres section of the bootstrap configuration.
func ProvidePostgresConfig(bc *Bootstrap) PostgresConfig {
	if bc == nil {
		return PostgresConfig{}
	}
	return bc.Data.Postgres
}

// ProvideBunnyConfig maps the bunny section to the stream client configuration.
func ProvideBunnyConfig(bc *Bootstrap) bunny.Config {
	if bc == nil {
		return bunny.Config{}
	}
	return bunny.Config{
		APIKey:      bc.Bunny.APIKey,
		LibraryID:   bc.Bunny.LibraryID,
		BaseURL:     bc.Bunny.BaseURL,
		CDNHostname: bc.Bunny.CDNHostname,
		Timeout:     parseDuration(bc.Bunny.Timeout),
	}
}

// ProvideObservabilityConfig exposes the normalized observability configuration.
func ProvideObservabilityConfig(b *Bundle) obswire.ObservabilityConfig {
	if b == nil {
		return obswire.ObservabilityConfig{}
	}
	return b.ObsConfig
}

// ProvideObservabilityInfo converts service metadata for the observability component.
func ProvideObservabilityInfo(m ServiceMetadata) obswire.ServiceInfo {
	return m.ObservabilityInfo()
}

// ProvideTxConfig exposes the transaction manager configuration.
func ProvideTxConfig(b *Bundle) txconfig.Config {
	if b == nil {
		return txconfig.Config{}
	}
	return b.TxConfig
}

// ProvideOutboxConfig assembles the shared outbox/inbox configuration.
func ProvideOutboxConfig(bc *Bootstrap) outboxcfg.Config {
	if bc == nil {
		return outboxcfg.Config{}
	}
	msg := bc.Messaging
	cfg := outboxcfg.Config{
		Schema: bc.Data.Postgres.Schema,
		Inbox: outboxcfg.InboxConfig{
			SourceService:  msg.Inbox.SourceService,
			MaxConcurrency: msg.Inbox.MaxConcurrency,
		},
		Publisher: outboxcfg.PublisherConfig{
			BatchSize:      msg.Outbox.BatchSize,
			TickInterval:   parseDuration(msg.Outbox.TickInterval),
			InitialBackoff: parseDuration(msg.Outbox.InitialBackoff),
			MaxBackoff:     parseDuration(msg.Outbox.MaxBackoff),
			MaxAttempts:    msg.Outbox.MaxAttempts,
			PublishTimeout: parseDuration(msg.Outbox.PublishTimeout),
			Workers:        msg.Outbox.Workers,
			LockTTL:        parseDuration(msg.Outbox.LockTTL),
		},
	}
	if msg.Inbox.LoggingEnabled != nil {
		v := *msg.Inbox.LoggingEnabled
		cfg.Inbox.LoggingEnabled = &v
	}
	if msg.Inbox.MetricsEnabled != nil {
		v := *msg.Inbox.MetricsEnabled
		cfg.Inbox.MetricsEnabled = &v
	}
	if msg.Outbox.LoggingEnabled != nil {
		v := *msg.Outbox.LoggingEnabled
		cfg.Publisher.LoggingEnabled = &v
	}
	if msg.Outbox.MetricsEnabled != nil {
		v := *msg.Outbox.MetricsEnabled
		cfg.Publisher.MetricsEnabled = &v
	}
	return cfg
}

// ProvideEventsPubSubConfig returns the outbound domain event topic configuration.
// 不放入 ProviderSet：每个 cmd 按需选择事件侧或回调侧的 Pub/Sub 配置。
func ProvideEventsPubSubConfig(bc *Bootstrap) gcpubsub.Config {
	if bc == nil {
		return gcpubsub.Config{}
	}
	return toPubSubConfig(bc.Messaging.Events)
}

// ProvideEncodingsPubSubConfig returns the encode callback subscription configuration.
func ProvideEncodingsPubSubConfig(bc *Bootstrap) gcpubsub.Config {
	if bc == nil {
		return gcpubsub.Config{}
	}
	return toPubSubConfig(bc.Messaging.Encodings)
}

// ProvideEncodingSubscriber wraps the subscriber for injection into the encodings runner.
func ProvideEncodingSubscriber(sub gcpubsub.Subscriber) EncodingSubscriber {
	return EncodingSubscriber(sub)
}

func toPubSubConfig(p PubSubConfig) gcpubsub.Config {
	cfg := gcpubsub.Config{
		ProjectID:        p.ProjectID,
		TopicID:          p.TopicID,
		SubscriptionID:   p.SubscriptionID,
		EmulatorEndpoint: p.EmulatorEndpoint,
		Receive: gcpubsub.ReceiveConfig{
			NumGoroutines:          p.Receive.NumGoroutines,
			MaxOutstandingMessages: p.Receive.MaxOutstandingMessages,
			MaxOutstandingBytes:    p.Receive.MaxOutstandingBytes,
			MaxExtension:           parseDuration(p.Receive.MaxExtension),
			MaxExtensionPeriod:     parseDuration(p.Receive.MaxExtensionPeriod),
		},
	}
	if p.OrderingKeyEnabled != nil {
		v := *p.OrderingKeyEnabled
		cfg.OrderingKeyEnabled = &v
	}
	if p.LoggingEnabled != nil {
		v := *p.LoggingEnabled
		cfg.EnableLogging = &v
	}
	if p.MetricsEnabled != nil {
		v := *p.MetricsEnabled
		cfg.EnableMetrics = &v
	}
	return cfg
}
