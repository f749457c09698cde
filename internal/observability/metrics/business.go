package metrics

// Intake lookup results.
const (
	IntakeExact    = "exact"
	IntakeFallback = "fallback"
	IntakeAbsent   = "absent"
	IntakeInvalid  = "invalid"
	IntakeError    = "error"
)

// Reasons a page is archived.
const (
	RetireReplaced = "replaced"
	RetireExpired  = "expired"
)

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordIntakeFetch records the result of one intake lookup.
func RecordIntakeFetch(result string) {
	IntakeFetchTotal.WithLabelValues(result).Inc()
}

// RecordMenuGenerated records a generated menu.
func RecordMenuGenerated(provider string, intakeUsed bool) {
	settings := "defaults"
	if intakeUsed {
		settings = "intake"
	}
	MenusGeneratedTotal.WithLabelValues(provider, settings).Inc()
}

// RecordMenuPublished records a page creation and, on success, its body size.
func RecordMenuPublished(success bool, blocks int) {
	PagesPublishedTotal.WithLabelValues(status(success)).Inc()
	if success {
		PageBlocks.Observe(float64(blocks))
	}
}

// RecordPageRetired records one archive attempt.
func RecordPageRetired(reason string, success bool) {
	PagesRetiredTotal.WithLabelValues(reason, status(success)).Inc()
}

// RecordNotification records one publish notification.
func RecordNotification(success bool) {
	NotificationsTotal.WithLabelValues(status(success)).Inc()
}
