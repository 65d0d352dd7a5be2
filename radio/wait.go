package radio

import (
	"context"
	"time"
)

// DefaultPollInterval is how often WaitSeekTune reads REG_STATUS. A tune
// takes the chip a few tens of milliseconds, a full band seek a few seconds.
const DefaultPollInterval = 20 * time.Millisecond

// WaitSeekTune polls REG_STATUS every interval until the chip reports the
// seek or tune complete and returns that status. A seek that found no
// station completes with SeekFailed set, which is not an error here.
func (d *Driver) WaitSeekTune(ctx context.Context, interval time.Duration) (StatusRegister, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := d.Status()
		if err != nil {
			return StatusRegister{}, err
		}
		if status.SeekTuneDone {
			return status, nil
		}

		select {
		case <-ctx.Done():
			return status, ctx.Err()
		case <-ticker.C:
		}
	}
}
