// Package metrics exposes Prometheus counters for the auth service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login requests by outcome
	// (success, not_found, invalid_credentials, error).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	// Registrations counts created users by path (direct, otp).
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Successful registrations by path.",
	}, []string{"path"})

	// OTPIssued counts issued OTP challenges.
	OTPIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_otp_issued_total",
		Help: "OTP challenges issued.",
	})

	// OTPVerifications counts OTP verification requests by result
	// (accepted, rejected, error).
	OTPVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_otp_verifications_total",
		Help: "OTP verification attempts by result.",
	}, []string{"result"})
)
