package service

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unmark/internal/core/domain"
	"unmark/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Tracker interface {
	AddRequest(chatID int64)
	Used(chatID int64) int
	CheckLimit(ctx context.Context, message *domain.Message) bool
}

// UsageTracker counts removal requests per chat and enforces a daily limit. A limit of 0 disables it.
type UsageTracker struct {
	chats      map[int64]int
	dailyLimit int
	mutex      *sync.Mutex
	sender     port.TextSender
}

func NewUsageTracker(ctx context.Context, sender port.TextSender) *UsageTracker {
	ut := &UsageTracker{
		chats:      make(map[int64]int),
		mutex:      &sync.Mutex{},
		sender:     sender,
		dailyLimit: viper.GetInt("telegram.daily_limit"),
	}

	go ut.ResetDailyLimit(ctx)

	return ut
}

func (t *UsageTracker) AddRequest(chatID int64) {
	t.mutex.Lock()
	t.chats[chatID]++
	t.mutex.Unlock()
}

func (t *UsageTracker) Used(chatID int64) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.chats[chatID]
}

const overLimit = "You have used all %d requests for today. Limit will reset in %s."

func (t *UsageTracker) CheckLimit(ctx context.Context, message *domain.Message) bool {
	if t.dailyLimit <= 0 {
		return true
	}

	if t.Used(message.ChatID) < t.dailyLimit {
		return true
	}

	_, err := t.sender.SendMessageReply(ctx, message,
		fmt.Sprintf(overLimit, t.dailyLimit, time.Until(getNextResetTime()).Truncate(time.Second)))
	if err != nil {
		log.Warn().Err(err).Msg("failed to send daily limit exceeded warning")
	}

	return false
}

func (t *UsageTracker) ResetDailyLimit(ctx context.Context) {
	reset := getNextResetTime()

	for {
		log.Debug().Time("reset", reset).Msg("running reset timer")
		select {
		case <-time.After(time.Until(reset)):
			log.Debug().Msg("resetting daily limit")
			t.mutex.Lock()
			t.chats = make(map[int64]int)
			t.mutex.Unlock()
			time.Sleep(time.Second)
			reset = getNextResetTime()
		case <-ctx.Done():
			log.Debug().Msg("stopping daily limit reset")
			return
		}
	}
}

func getNextResetTime() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
