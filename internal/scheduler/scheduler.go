package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"GasSentinel/internal/notifier"
	"GasSentinel/internal/pipeline"
	"GasSentinel/internal/publisher"
	"GasSentinel/internal/recorder"
	"GasSentinel/internal/store"

	"github.com/robfig/cron/v3"
)

// Run triggers.
const (
	TriggerWeekly = "WEEKLY"
	TriggerDaily  = "DAILY"
	TriggerManual = "MANUAL"
)

// Sender delivers text messages; *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks and keeps the latest run result.
type Scheduler struct {
	Cron         *cron.Cron
	Pipeline     *pipeline.Pipeline
	ReadingsPath string
	Store        *store.Store
	Notifier     Sender
	Recorder     recorder.Recorder
	Publisher    publisher.Publisher
	Ctx          context.Context

	mu     sync.RWMutex
	latest *pipeline.Result
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, p *pipeline.Pipeline, readingsPath string, st *store.Store,
	sender Sender, rec recorder.Recorder, pub publisher.Publisher) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if pub == nil {
		pub = publisher.NoopPublisher{}
	}
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Pipeline:     p,
		ReadingsPath: readingsPath,
		Store:        st,
		Notifier:     sender,
		Recorder:     rec,
		Publisher:    pub,
		Ctx:          ctx,
	}
}

// RegisterAll registers the weekly plan and the weekday critical check.
func (s *Scheduler) RegisterAll(weeklyCron, dailyCron string) error {
	if _, err := s.Cron.AddFunc(weeklyCron, func() { s.planTask(TriggerWeekly) }); err != nil {
		return fmt.Errorf("register weekly task: %w", err)
	}
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyCheck); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunWeeklyNow executes the weekly plan immediately, recorded as a manual run.
func (s *Scheduler) RunWeeklyNow() {
	s.planTask(TriggerManual)
}

// Latest returns the result of the most recent successful run, or nil.
func (s *Scheduler) Latest() *pipeline.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Scheduler) planTask(trigger string) {
	log.Printf("[INFO] running weekly plan (%s)", trigger)
	res, err := s.execute(trigger)
	if err != nil {
		log.Printf("[ERROR] %s run: %v", trigger, err)
		s.trySend(fmt.Sprintf("❌ Weekly plan failed: %v", err))
		return
	}
	s.trySend(notifier.FormatActionPlan(res.Plan))
}

func (s *Scheduler) dailyCheck() {
	log.Println("[INFO] running daily critical check")
	res, err := s.execute(TriggerDaily)
	if err != nil {
		log.Printf("[ERROR] daily run: %v", err)
		return
	}
	if msg := notifier.FormatCriticalAlert(res.Bundle); msg != "" {
		s.trySend(msg)
	}
}

// execute runs the pipeline on the configured file and fans the result out
// to the store, recorder and publisher. Side-channel failures are logged only.
func (s *Scheduler) execute(trigger string) (*pipeline.Result, error) {
	res, err := s.Pipeline.RunFile(s.ReadingsPath)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.latest = res
	s.mu.Unlock()

	if s.Store != nil {
		if err := s.Store.SaveAll(res.Bundle, res.Plan, res.Report); err != nil {
			log.Printf("[ERROR] save documents: %v", err)
		}
	}

	run := recorder.NewRunRecord(s.ReadingsPath, trigger, res.Bundle, res.Plan)
	if err := s.Recorder.RecordRun(run); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	if err := s.Recorder.RecordForecasts(run.ID, res.Bundle); err != nil {
		log.Printf("[ERROR] record forecasts: %v", err)
	}
	if err := s.Recorder.RecordPlan(run.ID, res.Plan); err != nil {
		log.Printf("[ERROR] record plan: %v", err)
	}

	if err := s.Publisher.PublishPlan(s.Ctx, res.Plan); err != nil {
		log.Printf("[ERROR] publish plan: %v", err)
	}
	log.Printf("[INFO] %s run %s: %d rooms, %d critical", trigger, run.ID, len(res.Bundle.Rooms), len(res.Bundle.CriticalRooms))
	return res, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	name := ""
	if fields := strings.Fields(command); len(fields) > 0 {
		name = strings.ToLower(fields[0])
	}
	switch name {
	case "/run":
		s.planTask(TriggerManual)
		return ""
	case "/plan":
		if res := s.Latest(); res != nil {
			return notifier.FormatActionPlan(res.Plan)
		}
	case "/forecast":
		if res := s.Latest(); res != nil {
			return notifier.FormatForecastSummary(res.Bundle)
		}
	case "/problems":
		if res := s.Latest(); res != nil {
			return notifier.FormatProblemSummary(res.Report)
		}
	case "/status":
		if res := s.Latest(); res != nil {
			return fmt.Sprintf("Last run %s: %d rooms, %d critical",
				res.Bundle.GeneratedAt.Format("2006-01-02 15:04"), len(res.Bundle.Rooms), len(res.Bundle.CriticalRooms))
		}
	default:
		return "Available commands:\n• /run\n• /plan\n• /forecast\n• /problems\n• /status"
	}
	return "No completed run yet. Send /run to analyse now."
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Printf("[INFO] no notifier configured:\n%s", text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
