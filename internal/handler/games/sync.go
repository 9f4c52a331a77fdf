package games

import (
	"context"
	"log"
	"strconv"
	"time"

	"getunitycodes/internal/events"
	"getunitycodes/internal/model"
	"getunitycodes/internal/search"
	"getunitycodes/internal/worker"
)

// Sync 把商品異動推到搜尋索引與 Kafka，全部在 worker pool 裡非同步執行
type Sync struct {
	Events events.Publisher
	Index  search.Index
	Jobs   worker.Pool
}

const syncTimeout = 10 * time.Second

func (s Sync) submit(name string, fn func(ctx context.Context) error) {
	if s.Jobs == nil {
		return
	}
	s.Jobs.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Printf("%s: %v", name, err)
		}
	})
}

func (s Sync) publish(ctx context.Context, topic string, g model.Game) error {
	if s.Events == nil {
		return nil
	}
	return s.Events.Publish(ctx, topic, strconv.Itoa(g.ID), g)
}

func (s Sync) Created(g model.Game) {
	s.submit("game created", func(ctx context.Context) error {
		if s.Index != nil {
			if err := s.Index.IndexGame(ctx, g); err != nil {
				log.Printf("index game %d: %v", g.ID, err)
			}
		}
		return s.publish(ctx, events.TopicGameCreated, g)
	})
}

func (s Sync) Updated(g model.Game) {
	s.submit("game updated", func(ctx context.Context) error {
		if s.Index != nil {
			if err := s.Index.IndexGame(ctx, g); err != nil {
				log.Printf("reindex game %d: %v", g.ID, err)
			}
		}
		return s.publish(ctx, events.TopicGameUpdated, g)
	})
}

func (s Sync) Deleted(g model.Game) {
	s.submit("game deleted", func(ctx context.Context) error {
		if s.Index != nil {
			if err := s.Index.DeleteGame(ctx, g.ID); err != nil {
				log.Printf("unindex game %d: %v", g.ID, err)
			}
		}
		return s.publish(ctx, events.TopicGameDeleted, g)
	})
}
