package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle"
	"github.com/huddlehq/huddle/archive"
	"github.com/huddlehq/huddle/scheduler"
	"github.com/huddlehq/huddle/services"
	"github.com/huddlehq/huddle/store"
)

// env wires a fresh workspace with every service, an in-memory
// archive and a live scheduler.
type env struct {
	ws     *store.Workspace
	rec    *archive.Memory
	timers *scheduler.Scheduler

	auth   huddle.Authenticater
	member huddle.Membership
	msg    huddle.Messenger
	sched  huddle.Scheduler
	notify huddle.Notifier
	get    huddle.Getter
	admin  huddle.Admin
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		ws:     store.New(),
		rec:    archive.NewMemory(),
		timers: scheduler.New(),
	}
	go e.timers.Run()
	t.Cleanup(e.timers.Stop)

	var err error
	e.auth, err = services.NewAuthenticater(e.ws, []byte("test-key"), time.Hour)
	require.NoError(t, err)
	e.member, err = services.NewMembership(e.ws, e.rec)
	require.NoError(t, err)
	e.msg, err = services.NewMessenger(e.ws, e.rec)
	require.NoError(t, err)
	e.sched, err = services.NewScheduler(e.ws, e.timers, e.rec)
	require.NoError(t, err)
	e.notify, err = services.NewNotifier(e.ws)
	require.NoError(t, err)
	e.get, err = services.NewGetter(e.ws)
	require.NoError(t, err)
	e.admin, err = services.NewAdmin(e.ws)
	require.NoError(t, err)

	return e
}

// user registers a member and returns them. The first call in a
// test creates the global owner.
func (e *env) user(t *testing.T, email, displayName string) *huddle.User {
	t.Helper()
	_, u, err := e.auth.Register(email, "password", displayName)
	require.NoError(t, err)
	return u
}

// channel creates a public channel owned by the given user.
func (e *env) channel(t *testing.T, ownerID int64, name string) *huddle.Channel {
	t.Helper()
	c, err := e.member.CreateChannel(ownerID, name, true)
	require.NoError(t, err)
	return c
}
