package po

import (
	"time"

	"github.com/google/uuid"
)

// IngestPhase 表示上传流水线所处的阶段。
type IngestPhase string

// 流水线阶段常量定义（严格按执行顺序推进）
const (
	IngestPhaseGeneratingURL      IngestPhase = "generating-url"      // 向 CDN 注册远端视频
	IngestPhaseUploading          IngestPhase = "uploading"           // 字节上传中
	IngestPhaseProcessing         IngestPhase = "processing"          // CDN 转码轮询中
	IngestPhaseUploadingThumbnail IngestPhase = "uploading-thumbnail" // 缩略图上传中
	IngestPhaseSaving             IngestPhase = "saving"              // 元数据落库中
	IngestPhaseComplete           IngestPhase = "complete"            // 流水线结束
	IngestPhaseError              IngestPhase = "error"               // 流水线终止于错误
)

// IngestJob 表示 catalog.ingest_jobs 表的数据库实体。
// 记录单次上传流水线的持久化进度，供前端轮询展示。
type IngestJob struct {
	JobID     uuid.UUID   `db:"job_id"`     // 主键（UUID v4）
	AssetID   uuid.UUID   `db:"asset_id"`   // 关联资产（外键 video_assets）
	Phase     IngestPhase `db:"phase"`      // 当前阶段
	Percent   int32       `db:"percent"`    // 进度百分比（0-100，单次尝试内单调不减）
	Message   *string     `db:"message"`    // 展示用状态文案
	CreatedAt time.Time   `db:"created_at"` // 流水线启动时间
	UpdatedAt time.Time   `db:"updated_at"` // 最近进度更新时间
}
