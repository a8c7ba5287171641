// Package dto 定义 HTTP 请求载荷及其到服务层输入的转换。
// 所有可选的 UUID/时间字段在这里完成解析与校验，服务层只接收强类型输入。
package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// 默认分页限制
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// PageQuery 表示列表接口通用的分页参数。
type PageQuery struct {
	Limit  int
	Offset int
}

// ParsePageQuery 从 URL 查询串解析分页参数，越界值回退到默认限制。
func ParsePageQuery(values url.Values) PageQuery {
	q := PageQuery{Limit: defaultPageLimit}
	if raw := values.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			q.Limit = n
		}
	}
	if q.Limit > maxPageLimit {
		q.Limit = maxPageLimit
	}
	if raw := values.Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			q.Offset = n
		}
	}
	return q
}

// ParseUUID 解析路径/查询参数中的 UUID，附带字段名的错误信息。
func ParseUUID(field, raw string) (uuid.UUID, error) {
	value, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s must be a valid uuid", field)
	}
	return value, nil
}

// optionalUUID 解析可选的 UUID 字符串指针。
func optionalUUID(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value, err := ParseUUID(field, *raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// optionalTime 解析可选的 RFC3339 时间字符串指针。
func optionalTime(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	value, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC3339 formatted", field)
	}
	return &value, nil
}
