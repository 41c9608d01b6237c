package middleware

import (
	"sync"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// lockStripes bounds the number of mutexes Serialize holds. Chats whose
// ids share a stripe wait for each other.
const lockStripes = 64

type chatLocks [lockStripes]sync.Mutex

func (l *chatLocks) lockFor(chatID int64) *sync.Mutex {
	return &l[uint64(chatID)%lockStripes]
}

// Serialize runs updates of one chat one at a time. Different chats
// proceed in parallel unless they share a lock stripe.
func Serialize() tele.MiddlewareFunc {
	locks := new(chatLocks)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return next(c)
			}

			lock := locks.lockFor(sender.ID)
			lock.Lock()
			defer lock.Unlock()

			return next(c)
		}
	}
}

// Logger logs every update with its handling time
func Logger(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{zap.Duration("took", time.Since(start))}
			if sender := c.Sender(); sender != nil {
				fields = append(fields,
					zap.Int64("user_id", sender.ID),
					zap.String("username", sender.Username),
				)
			}
			if cb := c.Callback(); cb != nil {
				fields = append(fields, zap.String("callback", cb.Data))
			} else {
				fields = append(fields, zap.String("text", c.Text()))
			}

			if err != nil {
				logger.Error("Update failed", append(fields, zap.Error(err))...)
				return err
			}

			logger.Debug("Update handled", fields...)
			return nil
		}
	}
}
