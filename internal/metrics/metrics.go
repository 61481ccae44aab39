package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tipstock_signups_total",
		Help: "Number of signup attempts grouped by status.",
	}, []string{"status"})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tipstock_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	tipWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tipstock_tip_writes_total",
		Help: "Tip create/update/delete operations grouped by action and status.",
	}, []string{"action", "status"})

	likes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tipstock_likes_total",
		Help: "Like and unlike operations grouped by action and status.",
	}, []string{"action", "status"})

	comments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tipstock_comments_total",
		Help: "Comment operations grouped by status.",
	}, []string{"status"})

	follows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tipstock_follows_total",
		Help: "Follow and unfollow operations grouped by action and status.",
	}, []string{"action", "status"})

	mailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tipstock_mails_sent_total",
		Help: "Outbound mails grouped by kind and status.",
	}, []string{"kind", "status"})
)

// IncSignup increments the signup counter.
func IncSignup(status string) {
	signups.WithLabelValues(status).Inc()
}

// IncLogin increments the login counter.
func IncLogin(status string) {
	logins.WithLabelValues(status).Inc()
}

// IncTipWrite increments the tip write counter.
func IncTipWrite(action, status string) {
	tipWrites.WithLabelValues(action, status).Inc()
}

// IncLike increments the like counter.
func IncLike(action, status string) {
	likes.WithLabelValues(action, status).Inc()
}

// IncComment increments the comment counter.
func IncComment(status string) {
	comments.WithLabelValues(status).Inc()
}

// IncFollow increments the follow counter.
func IncFollow(action, status string) {
	follows.WithLabelValues(action, status).Inc()
}

// IncMail increments the outbound mail counter.
func IncMail(kind, status string) {
	mailsSent.WithLabelValues(kind, status).Inc()
}
