package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
	engagementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engagements_total",
		Help: "Successful engagement actions by kind.",
	}, []string{"action"})
	roleRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "role_requests_total",
		Help: "Author role requests by outcome.",
	}, []string{"outcome"})
	storiesPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stories_published_total",
		Help: "Stories moved to the published status from the author dashboard.",
	})
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "registrations_total",
		Help: "Accounts created through the registration form or federated login.",
	})
)
