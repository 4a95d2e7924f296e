package booking

import (
	"context"

	"go.uber.org/zap"
)

// step is one write of a transition. undo reverses it and is only used when the
// store cannot run transactions.
type step struct {
	name string
	do   func(ctx context.Context) error
	undo func(ctx context.Context) error
}

// runSteps applies steps in order as one unit. Inside a transaction a failing step
// aborts everything; without one the completed steps are undone in reverse.
func (s *DefaultBookingService) runSteps(ctx context.Context, bookingID string, steps ...step) error {
	return s.tx().WithTransaction(ctx, func(ctx context.Context) error {
		for i, st := range steps {
			if err := st.do(ctx); err != nil {
				if !s.tx().Transactional() {
					s.compensate(ctx, bookingID, steps[:i])
				}
				return err
			}
		}
		return nil
	})
}

func (s *DefaultBookingService) compensate(ctx context.Context, bookingID string, done []step) {
	ctx = context.WithoutCancel(ctx)
	for i := len(done) - 1; i >= 0; i-- {
		if done[i].undo == nil {
			continue
		}
		if err := done[i].undo(ctx); err != nil {
			s.Logger.Error("compensation failed",
				zap.String("bookingID", bookingID),
				zap.String("step", done[i].name),
				zap.Error(err))
		}
	}
}
