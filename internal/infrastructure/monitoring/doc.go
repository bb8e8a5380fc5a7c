/*
Package monitoring collects Prometheus metrics for scrape runs.

# Overview

A scrape is a short-lived command, so nothing is served over HTTP. Metrics live
in a private registry and are written once per run to a file that the node
exporter textfile collector picks up.

# Metrics

  - wikisnp_fetches_total{source}: network, cache, revalidated or stale
  - wikisnp_fetch_duration_seconds, wikisnp_fetch_bytes
  - wikisnp_components, wikisnp_diffs: sizes of the last parsed index
  - wikisnp_stage_duration_seconds{stage,status}: fetch, parse and write timings
  - wikisnp_runs_total{status}, wikisnp_last_success_timestamp_seconds

# Usage

	metrics := monitoring.NewMetrics()

	timer := monitoring.NewTimer(metrics, "parse")
	idx, err := parser.Parse(html)
	timer.Stop(err)

	metrics.RecordRun(err, time.Now())
	_ = metrics.WriteTextfile("/var/lib/node_exporter/wikisnp.prom")
*/
package monitoring
