/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the hub's collectors. They are usable whether or not
// they have been registered.
type Metrics struct {
	Guests           prometheus.Gauge
	Rooms            prometheus.Gauge
	Games            prometheus.Gauge
	Pairings         prometheus.Counter
	MessagesRelayed  prometheus.Counter
	ChallengesServed prometheus.Counter
	CorrectGuesses   prometheus.Counter
	DeliveryFailures *prometheus.CounterVec
}

// NewMetrics builds the hub's collectors and registers them with reg,
// when reg is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Guests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pairbox_guests",
			Help: "A gauge of clients connected to the hub.",
		}),
		Rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pairbox_rooms",
			Help: "A gauge of live pairing rooms.",
		}),
		Games: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pairbox_games",
			Help: "A gauge of rooms with a game proposed or running.",
		}),
		Pairings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pairbox_pairings_total",
			Help: "A counter of rooms that reached two members.",
		}),
		MessagesRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pairbox_messages_relayed_total",
			Help: "A counter of chat messages relayed to rooms.",
		}),
		ChallengesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pairbox_challenges_served_total",
			Help: "A counter of game questions sent to rooms.",
		}),
		CorrectGuesses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pairbox_correct_guesses_total",
			Help: "A counter of correct answers to game questions.",
		}),
		DeliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pairbox_delivery_failures_total",
			Help: "A counter of outbound events dropped per recipient.",
		}, []string{"event"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Guests,
			m.Rooms,
			m.Games,
			m.Pairings,
			m.MessagesRelayed,
			m.ChallengesServed,
			m.CorrectGuesses,
			m.DeliveryFailures,
		)
	}

	return m
}
