package usecase

import "time"

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 4, 2, 15, 4, 5, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }
