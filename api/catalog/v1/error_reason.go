// Package catalogv1 定义对外 API 的错误原因枚举，供 kratos errors 使用。
package catalogv1

// ErrorReason 标识业务错误类别，序列化为 kratos error 的 reason 字段。
type ErrorReason int32

// 错误原因常量定义。
const (
	ErrorReason_ERROR_REASON_UNSPECIFIED ErrorReason = iota
	ErrorReason_ERROR_REASON_INVALID_ARGUMENT
	ErrorReason_ERROR_REASON_ASSET_NOT_FOUND
	ErrorReason_ERROR_REASON_ASSET_CONFLICT
	ErrorReason_ERROR_REASON_INGEST_IN_FLIGHT
	ErrorReason_ERROR_REASON_MISSING_VIDEO_ID
	ErrorReason_ERROR_REASON_UPLOAD_TRANSPORT
	ErrorReason_ERROR_REASON_ENCODING_FAILED
	ErrorReason_ERROR_REASON_PROCESSING_TIMEOUT
	ErrorReason_ERROR_REASON_THUMBNAIL_INVALID
	ErrorReason_ERROR_REASON_TITLE_NOT_FOUND
	ErrorReason_ERROR_REASON_TITLE_NOT_READY
	ErrorReason_ERROR_REASON_UPSTREAM_TIMEOUT
	ErrorReason_ERROR_REASON_INTERNAL
)

var errorReasonNames = map[ErrorReason]string{
	ErrorReason_ERROR_REASON_UNSPECIFIED:        "ERROR_REASON_UNSPECIFIED",
	ErrorReason_ERROR_REASON_INVALID_ARGUMENT:   "ERROR_REASON_INVALID_ARGUMENT",
	ErrorReason_ERROR_REASON_ASSET_NOT_FOUND:    "ERROR_REASON_ASSET_NOT_FOUND",
	ErrorReason_ERROR_REASON_ASSET_CONFLICT:     "ERROR_REASON_ASSET_CONFLICT",
	ErrorReason_ERROR_REASON_INGEST_IN_FLIGHT:   "ERROR_REASON_INGEST_IN_FLIGHT",
	ErrorReason_ERROR_REASON_MISSING_VIDEO_ID:   "ERROR_REASON_MISSING_VIDEO_ID",
	ErrorReason_ERROR_REASON_UPLOAD_TRANSPORT:   "ERROR_REASON_UPLOAD_TRANSPORT",
	ErrorReason_ERROR_REASON_ENCODING_FAILED:    "ERROR_REASON_ENCODING_FAILED",
	ErrorReason_ERROR_REASON_PROCESSING_TIMEOUT: "ERROR_REASON_PROCESSING_TIMEOUT",
	ErrorReason_ERROR_REASON_THUMBNAIL_INVALID:  "ERROR_REASON_THUMBNAIL_INVALID",
	ErrorReason_ERROR_REASON_TITLE_NOT_FOUND:    "ERROR_REASON_TITLE_NOT_FOUND",
	ErrorReason_ERROR_REASON_TITLE_NOT_READY:    "ERROR_REASON_TITLE_NOT_READY",
	ErrorReason_ERROR_REASON_UPSTREAM_TIMEOUT:   "ERROR_REASON_UPSTREAM_TIMEOUT",
	ErrorReason_ERROR_REASON_INTERNAL:           "ERROR_REASON_INTERNAL",
}

// String 返回枚举的稳定字符串表示。
func (r ErrorReason) String() string {
	if name, ok := errorReasonNames[r]; ok {
		return name
	}
	return errorReasonNames[ErrorReason_ERROR_REASON_UNSPECIFIED]
}
