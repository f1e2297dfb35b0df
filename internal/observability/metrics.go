package observability

import "github.com/prometheus/client_golang/prometheus"

// Domain counters. HTTP-level metrics live in the middleware package; these
// track what the services and background jobs do with the requests.
var (
	// MessagesSent counts persisted messages by message type.
	MessagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_messages_sent_total",
			Help: "Messages persisted, by message type.",
		},
		[]string{"type"},
	)

	// SendSideEffectFailures counts send follow-up steps that failed after the
	// message itself was stored. step is "touch" or "unread".
	SendSideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_send_side_effect_failures_total",
			Help: "Post-insert send steps that failed, by step.",
		},
		[]string{"step"},
	)

	// ConversationConflicts counts direct-conversation creations that lost the
	// unique pair-key race and were collapsed onto the winner.
	ConversationConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "social_conversation_conflicts_total",
			Help: "Direct conversation creations collapsed onto an existing row.",
		},
	)

	// Notifications counts notification outcomes by type and result
	// (created, suppressed, self).
	Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_notifications_total",
			Help: "Notification create attempts, by type and result.",
		},
		[]string{"type", "result"},
	)

	// RealtimeEvents counts hub deliveries by event and result
	// (delivered, dropped).
	RealtimeEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_realtime_events_total",
			Help: "Realtime event deliveries to subscribers, by event and result.",
		},
		[]string{"event", "result"},
	)

	// RealtimeSubscribers gauges currently connected stream subscribers.
	RealtimeSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "social_realtime_subscribers",
			Help: "Currently connected realtime subscribers.",
		},
	)

	// JobRuns counts background job executions by job and result.
	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_job_runs_total",
			Help: "Background job runs, by job and result.",
		},
		[]string{"job", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		MessagesSent,
		SendSideEffectFailures,
		ConversationConflicts,
		Notifications,
		RealtimeEvents,
		RealtimeSubscribers,
		JobRuns,
	)
}
