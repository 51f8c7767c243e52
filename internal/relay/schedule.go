package relay

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

var scheduleParser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Schedule runs job on spec until ctx is done. A tick that fires while the
// previous job is still running is skipped.
func Schedule(ctx context.Context, spec string, job func(ctx context.Context)) error {
	c := cron.New(
		cron.WithParser(scheduleParser),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if _, err := c.AddFunc(spec, func() { job(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	log.Info().Msgf("Scheduler started (%s)", spec)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()

	log.Info().Msg("Scheduler stopped")
	return nil
}
