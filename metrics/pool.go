// Package metrics 为 rediskit 提供连接池指标采集能力。
//
// PoolStatsCollector 把 go-redis 连接池统计暴露为 Prometheus 指标，
// 通过 client.WithMeter 注入注册器后由工厂自动注册。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// StatsSource 提供连接池统计的最小接口
type StatsSource interface {
	PoolStats() *redis.PoolStats
}

// PoolStatsCollector 连接池统计采集器
//
// 实现 prometheus.Collector，在每次抓取时读取实时的 PoolStats。
// 同一注册器下用 addr 标签区分多个句柄。
type PoolStatsCollector struct {
	source StatsSource

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	timeouts   *prometheus.Desc
	totalConns *prometheus.Desc
	idleConns  *prometheus.Desc
	staleConns *prometheus.Desc
}

// NewPoolStatsCollector 创建采集器，addr 作为指标的常量标签
func NewPoolStatsCollector(addr string, source StatsSource) *PoolStatsCollector {
	labels := prometheus.Labels{"addr": addr}
	return &PoolStatsCollector{
		source: source,
		hits: prometheus.NewDesc(
			"rediskit_pool_hits_total",
			"空闲连接命中次数",
			nil, labels,
		),
		misses: prometheus.NewDesc(
			"rediskit_pool_misses_total",
			"空闲连接未命中次数",
			nil, labels,
		),
		timeouts: prometheus.NewDesc(
			"rediskit_pool_timeouts_total",
			"等待连接超时次数",
			nil, labels,
		),
		totalConns: prometheus.NewDesc(
			"rediskit_pool_conns",
			"连接池中的连接总数",
			nil, labels,
		),
		idleConns: prometheus.NewDesc(
			"rediskit_pool_idle_conns",
			"连接池中的空闲连接数",
			nil, labels,
		),
		staleConns: prometheus.NewDesc(
			"rediskit_pool_stale_conns",
			"已被移除的过期连接数",
			nil, labels,
		),
	}
}

// Describe 实现 prometheus.Collector
func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.timeouts
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.staleConns
}

// Collect 实现 prometheus.Collector
func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.PoolStats()
	if stats == nil {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses))
	ch <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, float64(stats.Timeouts))
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(stats.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(stats.IdleConns))
	ch <- prometheus.MustNewConstMetric(c.staleConns, prometheus.GaugeValue, float64(stats.StaleConns))
}
