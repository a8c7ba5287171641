package bunny

import "github.com/google/wire"

// ProviderSet 暴露 Bunny Stream 客户端构造器供 Wire 依赖注入使用。
var ProviderSet = wire.NewSet(NewClient)
