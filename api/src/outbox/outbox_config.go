package outbox

const (
	defaultSchedule  = "@every 1m"
	defaultBatchSize = 100
)

type OutboxConfigJson struct {
	Schedule  string `json:"schedule"`
	BatchSize int    `json:"batch_size"`
}

type OutboxConfig struct {
	Schedule  string
	BatchSize int
}

func (ocj OutboxConfigJson) ConvertToDomain() OutboxConfig {
	cfg := OutboxConfig{Schedule: ocj.Schedule, BatchSize: ocj.BatchSize}
	if cfg.Schedule == "" {
		cfg.Schedule = defaultSchedule
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return cfg
}
