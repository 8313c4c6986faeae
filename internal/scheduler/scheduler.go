// Package scheduler runs the day-rollover jobs: streak maintenance and
// daily trivia generation.
package scheduler

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/sword-drill/backend/internal/generator"
	"github.com/sword-drill/backend/internal/progress"
)

type Scheduler struct {
	cron    *gocron.Scheduler
	service *progress.Service
	store   *progress.Store
	gen     *generator.Generator
}

func New(service *progress.Service, store *progress.Store, gen *generator.Generator) *Scheduler {
	return &Scheduler{
		cron:    gocron.NewScheduler(time.UTC),
		service: service,
		store:   store,
		gen:     gen,
	}
}

// Start registers the jobs and runs them in the background. The trivia
// job also fires once at startup so a fresh deployment has a question
// for today.
func (s *Scheduler) Start() {
	s.cron.Every(1).Day().At("00:05").Do(func() {
		log.Println("[scheduler] running daily streak check")
		s.service.RunDailyStreakCheck()
	})

	s.cron.Every(1).Day().At("00:10").Do(s.generateDailyTrivia)

	s.cron.StartAsync()

	go s.generateDailyTrivia()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) generateDailyTrivia() {
	today := time.Now().UTC()

	// Skip if today's question already exists.
	if _, _, _, _, err := s.store.GetDailyTrivia(today); err == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	trivia, _, err := s.gen.GenerateDailyTrivia(ctx, today)
	if err != nil {
		log.Printf("[scheduler] daily trivia generation failed: %v", err)
		return
	}

	choicesJSON, err := json.Marshal(trivia.Choices)
	if err != nil {
		log.Printf("[scheduler] failed to encode trivia choices: %v", err)
		return
	}

	if err := s.store.SaveDailyTrivia(today, trivia.Question, string(choicesJSON), trivia.CorrectAnswerID, trivia.Reference, s.gen.ModelName()); err != nil {
		log.Printf("[scheduler] failed to save daily trivia: %v", err)
		return
	}
	log.Printf("[scheduler] generated daily trivia for %s (%s)", today.Format("2006-01-02"), trivia.Reference)
}
