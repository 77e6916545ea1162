package metrics

import (
	"context"
	"time"

	"github.com/ecis/inspection-gin/internal/logging"
	"gorm.io/gorm"
)

// StateCounter 按状态统计检验单数量
type StateCounter interface {
	CountByState() (map[string]int64, error)
}

// Collector 指标收集器
type Collector struct {
	db       *gorm.DB
	states   StateCounter
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCollector 创建指标收集器,states 可为 nil
func NewCollector(db *gorm.DB, states StateCounter, interval time.Duration) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		db:       db,
		states:   states,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start 启动指标收集器
func (c *Collector) Start() {
	go c.collect()
}

// Stop 停止指标收集器
func (c *Collector) Stop() {
	c.cancel()
	<-c.done
}

// collect 定期收集指标
func (c *Collector) collect() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	c.CollectOnce()
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.CollectOnce()
		}
	}
}

// CollectOnce 采集一次数据库连接和状态分布
func (c *Collector) CollectOnce() {
	_ = UpdateDatabaseConnections(c.db)

	if c.states == nil {
		return
	}
	counts, err := c.states.CountByState()
	if err != nil {
		logging.GetLogger().WithError(err).Warn("Failed to collect inspection state metrics")
		return
	}
	for state, count := range counts {
		UpdateInspectionsByState(state, float64(count))
	}
}
