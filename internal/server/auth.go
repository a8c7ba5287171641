package server

import (
	"context"
	"strings"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/infrastructure/configloader"
	"github.com/miravio/services-catalog/internal/metadata"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
	"github.com/golang-jwt/jwt/v5"
)

const defaultAuthHeader = "Authorization"

// authServer 返回网关信任模型下的 JWT 中间件：签名已由入口网关校验，
// 这里只解析 claims、按需核对 audience，并把 subject 透传给下游。
func authServer(cfg configloader.JWTConfig, logger log.Logger) middleware.Middleware {
	helper := log.NewHelper(logger)
	headerKey := cfg.HeaderKey
	if headerKey == "" {
		headerKey = defaultAuthHeader
	}
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return handler(ctx, req)
			}
			token := bearerToken(tr.RequestHeader().Get(headerKey))
			if token == "" {
				if cfg.Required {
					return nil, errors.Unauthorized(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "missing bearer token")
				}
				return handler(ctx, req)
			}

			claims := jwt.MapClaims{}
			if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
				helper.WithContext(ctx).Warnf("parse jwt failed: %v", err)
				if cfg.Required {
					return nil, errors.Unauthorized(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "malformed bearer token")
				}
				return handler(ctx, req)
			}

			if !cfg.SkipValidate && cfg.ExpectedAudience != "" {
				if !audienceMatches(claims, cfg.ExpectedAudience) {
					return nil, errors.Unauthorized(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "audience mismatch")
				}
			}

			if sub, err := claims.GetSubject(); err == nil && sub != "" {
				ctx = metadata.Inject(ctx, metadata.HandlerMetadata{UserID: sub})
			}
			return handler(ctx, req)
		}
	}
}

func bearerToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func audienceMatches(claims jwt.MapClaims, expected string) bool {
	audiences, err := claims.GetAudience()
	if err != nil {
		return false
	}
	for _, aud := range audiences {
		if aud == expected {
			return true
		}
	}
	return false
}
