// Package metrics exposes a custom prometheus.Collector covering chunks,
// transfers, saves, and link state — the ambient observability surface
// layered on top of the transfer/save/supervisor packages.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is a lock-free prometheus.Collector: each counter is an atomic
// updated by the component it instruments and read back on Collect.
type Collector struct {
	chunksEmitted  atomic.Uint64
	chunksReceived atomic.Uint64

	transfersCompleted atomic.Uint64
	transfersAborted   atomic.Uint64
	transfersErrored   atomic.Uint64

	savesCommitted atomic.Uint64

	linkUpTransitions   atomic.Uint64
	linkDownTransitions atomic.Uint64

	descChunksEmitted      *prometheus.Desc
	descChunksReceived     *prometheus.Desc
	descTransfersCompleted *prometheus.Desc
	descTransfersAborted   *prometheus.Desc
	descTransfersErrored   *prometheus.Desc
	descSavesCommitted     *prometheus.Desc
	descLinkTransitions    *prometheus.Desc
}

// New constructs a Collector whose metrics all carry a constant "component"
// label (e.g. "shears" or "hub"); the metric names themselves are fixed.
func New(component string) *Collector {
	constLabels := prometheus.Labels{"component": component}
	return &Collector{
		descChunksEmitted:      prometheus.NewDesc("wm_chunks_emitted_total", "Total data chunks emitted by the log server.", nil, constLabels),
		descChunksReceived:     prometheus.NewDesc("wm_chunks_received_total", "Total data chunks committed by the log client.", nil, constLabels),
		descTransfersCompleted: prometheus.NewDesc("wm_transfers_completed_total", "Total transfers that reached DONE.", nil, constLabels),
		descTransfersAborted:   prometheus.NewDesc("wm_transfers_aborted_total", "Total transfers that reached ABORTED.", nil, constLabels),
		descTransfersErrored:   prometheus.NewDesc("wm_transfers_errored_total", "Total transfers reported to the host as transfer-error (any terminal status other than DONE, including ABORTED).", nil, constLabels),
		descSavesCommitted:     prometheus.NewDesc("wm_saves_committed_total", "Total CSV rows committed by the save coordinator.", nil, constLabels),
		descLinkTransitions:    prometheus.NewDesc("wm_link_transitions_total", "Total radio link up/down transitions.", []string{"state"}, constLabels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.descChunksEmitted
	ch <- c.descChunksReceived
	ch <- c.descTransfersCompleted
	ch <- c.descTransfersAborted
	ch <- c.descTransfersErrored
	ch <- c.descSavesCommitted
	ch <- c.descLinkTransitions
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.descChunksEmitted, prometheus.CounterValue, float64(c.chunksEmitted.Load()))
	ch <- prometheus.MustNewConstMetric(c.descChunksReceived, prometheus.CounterValue, float64(c.chunksReceived.Load()))
	ch <- prometheus.MustNewConstMetric(c.descTransfersCompleted, prometheus.CounterValue, float64(c.transfersCompleted.Load()))
	ch <- prometheus.MustNewConstMetric(c.descTransfersAborted, prometheus.CounterValue, float64(c.transfersAborted.Load()))
	ch <- prometheus.MustNewConstMetric(c.descTransfersErrored, prometheus.CounterValue, float64(c.transfersErrored.Load()))
	ch <- prometheus.MustNewConstMetric(c.descSavesCommitted, prometheus.CounterValue, float64(c.savesCommitted.Load()))
	ch <- prometheus.MustNewConstMetric(c.descLinkTransitions, prometheus.CounterValue, float64(c.linkUpTransitions.Load()), "up")
	ch <- prometheus.MustNewConstMetric(c.descLinkTransitions, prometheus.CounterValue, float64(c.linkDownTransitions.Load()), "down")
}

func (c *Collector) ChunkEmitted()      { c.chunksEmitted.Add(1) }
func (c *Collector) ChunkReceived()     { c.chunksReceived.Add(1) }
func (c *Collector) TransferCompleted() { c.transfersCompleted.Add(1) }
func (c *Collector) TransferAborted()   { c.transfersAborted.Add(1) }
func (c *Collector) TransferErrored()   { c.transfersErrored.Add(1) }
func (c *Collector) SaveCommitted()     { c.savesCommitted.Add(1) }
func (c *Collector) LinkUp()            { c.linkUpTransitions.Add(1) }
func (c *Collector) LinkDown()          { c.linkDownTransitions.Add(1) }
