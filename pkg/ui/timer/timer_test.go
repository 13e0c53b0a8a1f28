package timer_test

import (
	"testing"
	"time"

	"github.com/sourceperl/mbservctl/pkg/ui/timer"
	"github.com/stretchr/testify/assert"
)

func TestGetTimingBeforeStart(t *testing.T) {
	t.Parallel()

	tmr := timer.New()

	total, stage := tmr.GetTiming()

	assert.Equal(t, time.Duration(0), total, "expected zero total before Start")
	assert.Equal(t, time.Duration(0), stage, "expected zero stage before Start")
}

func TestNewStageBeforeStartBehavesLikeStart(t *testing.T) {
	t.Parallel()

	tmr := timer.New()
	tmr.NewStage()

	total, stage := tmr.GetTiming()

	assert.GreaterOrEqual(t, total, time.Duration(0))
	assert.GreaterOrEqual(t, stage, time.Duration(0))
}

func TestStageResetsOnNewStage(t *testing.T) {
	t.Parallel()

	tmr := timer.New()
	tmr.Start()

	time.Sleep(5 * time.Millisecond)
	tmr.NewStage()

	total, stage := tmr.GetTiming()

	assert.GreaterOrEqual(t, total, stage, "total should never be less than the current stage")
}
