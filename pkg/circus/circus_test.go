package circus_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/hexa/pkg/circus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clumsyAnnouncer struct{}

func (clumsyAnnouncer) Announce(ctx context.Context, act circus.ClownAct) error {
	return circus.ErrClownTrippedOnBanana
}

func TestScheduleAct(t *testing.T) {
	var buf bytes.Buffer
	svc := circus.NewService(circus.MegaphoneAnnouncer{W: &buf})

	act, err := svc.ScheduleAct(context.Background(), 9001)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), act.ActNumber)
	assert.Equal(t, uint32(9001), act.SillinessLevel)
	assert.Equal(t, "[Megaphone] 🎪 Act #1 is ON! Silliness level: 9001\n", buf.String())

	act, err = svc.ScheduleAct(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), act.ActNumber)
}

func TestScheduleAct_AnnouncerFails(t *testing.T) {
	svc := circus.NewService(clumsyAnnouncer{})
	_, err := svc.ScheduleAct(context.Background(), 1)
	assert.ErrorIs(t, err, circus.ErrClownTrippedOnBanana)
}
