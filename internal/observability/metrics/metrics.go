package metrics

import "github.com/prometheus/client_golang/prometheus"

// NotificationMetrics exposes counters for notification delivery flows.
type NotificationMetrics struct {
	sendTotal     *prometheus.CounterVec
	reminderTotal *prometheus.CounterVec
}

func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	m := &NotificationMetrics{
		sendTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "diagnostics",
			Subsystem: "notify",
			Name:      "send_total",
			Help:      "Total channel send outcomes",
		}, []string{"channel", "status"}),
		reminderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "diagnostics",
			Subsystem: "notify",
			Name:      "reminder_batch_total",
			Help:      "Total reminder batch item results",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sendTotal, m.reminderTotal)
	return m
}

func (m *NotificationMetrics) ObserveSend(channel string, success bool) {
	if m == nil {
		return
	}
	status := "failure"
	if success {
		status = "success"
	}
	m.sendTotal.WithLabelValues(channel, status).Inc()
}

func (m *NotificationMetrics) ObserveReminder(result string) {
	if m == nil {
		return
	}
	m.reminderTotal.WithLabelValues(result).Inc()
}
