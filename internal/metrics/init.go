package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, trigger := range []string{"upload", "item_hook", "app_hook"} {
		GenerationsTotal.WithLabelValues(trigger, "success")
		GenerationsTotal.WithLabelValues(trigger, "error")
	}

	for _, op := range []string{"put", "get", "copy", "delete"} {
		StorageOperationsTotal.WithLabelValues(op, "success")
		StorageOperationsTotal.WithLabelValues(op, "error")
		StorageOperationDuration.WithLabelValues(op)
	}

	for _, event := range []string{"item-created", "item-copied", "item-deleted"} {
		HookRunsTotal.WithLabelValues(event, "handled")
		HookRunsTotal.WithLabelValues(event, "skipped")
		HookRunsTotal.WithLabelValues(event, "error")
	}
}
