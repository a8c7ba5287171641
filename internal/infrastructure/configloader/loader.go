package configloader

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	obswire "github.com/bionicotaku/lingo-utils/observability"
	txconfig "github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/config"
	"github.com/go-kratos/kratos/v2/config/file"
	"github.com/joho/godotenv"
)

const (
	envServiceName    = "SERVICE_NAME"
	envServiceVersion = "SERVICE_VERSION"
	envAppEnv         = "APP_ENV"
	envDatabaseURL    = "DATABASE_URL"
	envPort           = "PORT"
	envBunnyAPIKey    = "BUNNY_API_KEY"
	envBunnyLibraryID = "BUNNY_LIBRARY_ID"
)

var envFileNames = []string{".env.local", ".env"}

// Params 包含构造配置 Bundle 所需的运行时输入参数。
type Params struct {
	ConfPath string // 配置文件路径（可为空，使用默认值）
}

// ServiceMetadata 保存服务标识信息，供日志和可观测性组件使用。
type ServiceMetadata struct {
	Name        string
	Version     string
	Environment string
	InstanceID  string
}

// Bundle 聚合强类型的配置片段，供下游 Wire 注入使用。
type Bundle struct {
	Bootstrap *Bootstrap
	ObsConfig obswire.ObservabilityConfig
	Service   ServiceMetadata
	TxConfig  txconfig.Config
}

// BuildError 捕获配置构建过程中的上下文错误信息。
type BuildError struct {
	Stage string
	Path  string
	Err   error
}

// Error 实现 error 接口，提供包含上下文的错误信息。
func (e BuildError) Error() string {
	if e.Stage == "" {
		return e.Err.Error()
	}
	if e.Path != "" {
		return fmt.Sprintf("config %s at %q: %v", e.Stage, e.Path, e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Stage, e.Err)
}

// Unwrap 暴露底层错误，支持 errors.Is/As 链式查询。
func (e BuildError) Unwrap() error {
	return e.Err
}

// ObservabilityInfo 将服务元信息转换为 observability.ServiceInfo。
func (m ServiceMetadata) ObservabilityInfo() obswire.ServiceInfo {
	return obswire.ServiceInfo{
		Name:        m.Name,
		Version:     m.Version,
		Environment: m.Environment,
	}
}

// Build 从 bootstrap 配置文件构建 Bundle，包含配置对象和服务元信息。
//
// 流程：
// 1. 解析配置路径（应用回退规则）
// 2. 加载配置、应用环境变量覆盖并校验
// 3. 推导服务元信息（来自环境变量/默认值）
// 4. 转换可观测性与事务配置
func Build(params Params) (*Bundle, error) {
	confPath := ResolveConfPath(params.ConfPath)
	loadEnvFiles(confPath)

	bootstrap, err := loadBootstrap(confPath)
	if err != nil {
		return nil, err
	}

	meta := buildServiceMetadata()
	obsCfg := toObservabilityConfig(bootstrap.Observability)
	txCfg := toTxManagerConfig(bootstrap.Data.Postgres.Transaction)

	return &Bundle{
		Bootstrap: bootstrap,
		ObsConfig: obsCfg,
		Service:   meta,
		TxConfig:  txCfg,
	}, nil
}

// ResolveConfPath 应用回退规则确定要加载的配置目录/文件路径。
// 优先级：显式传入路径 > CONF_PATH 环境变量 > 默认路径。
func ResolveConfPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(envConfPath); env != "" {
		return env
	}
	return defaultConfPath
}

// loadBootstrap 从指定路径加载并解析 Bootstrap 配置。
// 环境变量覆盖在校验之前应用，保证覆盖后的值同样受约束检查。
func loadBootstrap(confPath string) (*Bootstrap, error) {
	c := config.New(config.WithSource(file.NewSource(confPath)))
	if err := c.Load(); err != nil {
		return nil, BuildError{Stage: "load", Path: confPath, Err: err}
	}
	defer c.Close()

	var bc Bootstrap
	if err := c.Scan(&bc); err != nil {
		return nil, BuildError{Stage: "scan", Path: confPath, Err: err}
	}
	applyEnvOverrides(&bc)

	if err := validate(&bc); err != nil {
		return nil, BuildError{Stage: "validate", Path: confPath, Err: err}
	}
	return &bc, nil
}

// applyEnvOverrides 应用环境变量覆盖配置文件中的特定字段。
// 环境变量为空时保留配置文件原值，不会创建缺失的配置节点。
//
// 支持的环境变量：
//   - DATABASE_URL: 覆盖 data.postgres.dsn
//   - PORT: 覆盖 server.http.addr 的端口部分（Cloud Run 动态端口）
//   - BUNNY_API_KEY / BUNNY_LIBRARY_ID: 覆盖 CDN 凭证
func applyEnvOverrides(bc *Bootstrap) {
	if bc == nil {
		return
	}
	if dsn := os.Getenv(envDatabaseURL); dsn != "" {
		bc.Data.Postgres.DSN = dsn
	}
	if port := os.Getenv(envPort); port != "" {
		bc.Server.HTTP.Addr = replacePort(bc.Server.HTTP.Addr, port)
	}
	if key := os.Getenv(envBunnyAPIKey); key != "" {
		bc.Bunny.APIKey = key
	}
	if lib := os.Getenv(envBunnyLibraryID); lib != "" {
		bc.Bunny.LibraryID = lib
	}
}

// validate 检查启动所需的最小配置约束。
func validate(bc *Bootstrap) error {
	if strings.TrimSpace(bc.Data.Postgres.DSN) == "" {
		return fmt.Errorf("data.postgres.dsn is required (set DATABASE_URL)")
	}
	if strings.TrimSpace(bc.Bunny.APIKey) == "" {
		return fmt.Errorf("bunny.api_key is required (set BUNNY_API_KEY)")
	}
	if strings.TrimSpace(bc.Bunny.LibraryID) == "" {
		return fmt.Errorf("bunny.library_id is required (set BUNNY_LIBRARY_ID)")
	}
	if bc.Server.HTTP.Addr == "" {
		bc.Server.HTTP.Addr = defaultHTTPAddr
	}
	return nil
}

// buildServiceMetadata 构建服务元信息，用于日志、追踪和指标标签。
// 数据来源优先级：环境变量（SERVICE_NAME、SERVICE_VERSION、APP_ENV）> 默认值。
func buildServiceMetadata() ServiceMetadata {
	name := resolveServiceName(os.Getenv(envServiceName))
	version := resolveServiceVersion(os.Getenv(envServiceVersion))
	env := resolveEnvironment(os.Getenv(envAppEnv))
	host, _ := os.Hostname()
	host = resolveInstanceID(host)

	return ServiceMetadata{
		Name:        name,
		Version:     version,
		Environment: env,
		InstanceID:  host,
	}
}

// loadEnvFiles best-effort 加载配置相关的 .env 文件，失败时忽略以保持幂等。
func loadEnvFiles(confPath string) {
	files := envFileCandidates(confPath)
	if len(files) == 0 {
		return
	}
	_ = godotenv.Load(files...)
}

// envFileCandidates 搜索并返回所有可用的 .env 文件路径。
// 搜索目录依次为 confPath 所在目录和当前工作目录；
// .env.local 优先于 .env，同一路径只保留第一次出现。
func envFileCandidates(confPath string) []string {
	dirs := orderedDirs(confPath)
	seen := make(map[string]struct{})
	var files []string
	for _, dir := range dirs {
		for _, name := range envFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err != nil {
				continue
			}
			if _, ok := seen[candidate]; ok {
				continue
			}
			files = append(files, candidate)
			seen[candidate] = struct{}{}
		}
	}
	return files
}

// orderedDirs 按优先级返回用于搜索 .env 文件的目录列表。
func orderedDirs(confPath string) []string {
	var dirs []string
	appendUnique := func(path string) {
		if path == "" {
			return
		}
		clean := filepath.Clean(path)
		for _, existing := range dirs {
			if existing == clean {
				return
			}
		}
		dirs = append(dirs, clean)
	}

	if confPath != "" {
		if info, err := os.Stat(confPath); err == nil {
			if info.IsDir() {
				appendUnique(confPath)
			} else {
				appendUnique(filepath.Dir(confPath))
			}
		}
	}

	if cwd, err := os.Getwd(); err == nil {
		appendUnique(cwd)
	}

	return dirs
}

// toObservabilityConfig 将配置文件中的 Observability 段转换为 observability 包的规范化结构。
func toObservabilityConfig(src ObservabilityConfig) obswire.ObservabilityConfig {
	cfg := obswire.ObservabilityConfig{
		GlobalAttributes: cloneStringMap(src.GlobalAttributes),
	}
	tr := src.Tracing
	cfg.Tracing = &obswire.TracingConfig{
		Enabled:            tr.Enabled,
		Exporter:           tr.Exporter,
		Endpoint:           tr.Endpoint,
		Headers:            cloneStringMap(tr.Headers),
		Insecure:           tr.Insecure,
		SamplingRatio:      tr.SamplingRatio,
		BatchTimeout:       parseDuration(tr.BatchTimeout),
		ExportTimeout:      parseDuration(tr.ExportTimeout),
		MaxQueueSize:       tr.MaxQueueSize,
		MaxExportBatchSize: tr.MaxExportBatchSize,
		Required:           tr.Required,
		Attributes:         cloneStringMap(tr.Attributes),
	}
	mt := src.Metrics
	cfg.Metrics = &obswire.MetricsConfig{
		Enabled:             mt.Enabled,
		Exporter:            mt.Exporter,
		Endpoint:            mt.Endpoint,
		Headers:             cloneStringMap(mt.Headers),
		Insecure:            mt.Insecure,
		Interval:            parseDuration(mt.Interval),
		DisableRuntimeStats: mt.DisableRuntimeStats,
		Required:            mt.Required,
		ResourceAttributes:  cloneStringMap(mt.ResourceAttributes),
	}
	return cfg
}

func toTxManagerConfig(tx TransactionConfig) txconfig.Config {
	cfg := txconfig.Config{
		DefaultIsolation: tx.DefaultIsolation,
		MaxRetries:       tx.MaxRetries,
		DefaultTimeout:   parseDuration(tx.DefaultTimeout),
		LockTimeout:      parseDuration(tx.LockTimeout),
	}
	if tx.MetricsEnabled != nil {
		v := *tx.MetricsEnabled
		cfg.MetricsEnabled = &v
	}
	return cfg
}

// cloneStringMap 创建字符串映射的深拷贝，避免共享底层数据。
func cloneStringMap(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// parseDuration 解析 duration 字符串，空值或非法值返回 0。
func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// replacePort 替换地址中的端口部分，保留 host。
// 支持 "0.0.0.0:9090"、":9090"、"[::1]:9090" 等格式。
func replacePort(addr, newPort string) string {
	if addr == "" {
		return "0.0.0.0:" + newPort
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return "0.0.0.0:" + newPort
	}
	return net.JoinHostPort(host, newPort)
}
