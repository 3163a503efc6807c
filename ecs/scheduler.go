package ecs

// Stage groups systems that run together. Stages run in the order they were
// added, and systems inside a stage run in the order they were given.
type Stage struct {
	Name    string
	systems []System
}

// Scheduler runs the frame: every stage in order, then drops the frame's
// unconsumed events.
type Scheduler struct {
	stages []*Stage
}

// NewScheduler returns a scheduler with a single unnamed stage holding
// systems.
func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	if len(systems) > 0 {
		s.AddStage("", systems...)
	}
	return s
}

// AddStage appends a stage. Nil systems are skipped.
func (s *Scheduler) AddStage(name string, systems ...System) *Stage {
	stage := &Stage{Name: name}
	for _, sys := range systems {
		if sys != nil {
			stage.systems = append(stage.systems, sys)
		}
	}
	s.stages = append(s.stages, stage)
	return stage
}

func (s *Scheduler) Update(w *World) {
	for _, stage := range s.stages {
		for _, sys := range stage.systems {
			sys.Update(w)
		}
	}
	if evts := w.Events(); evts != nil {
		evts.Drain()
	}
}

// Stages lists the stage names in run order.
func (s *Scheduler) Stages() []string {
	names := make([]string, 0, len(s.stages))
	for _, stage := range s.stages {
		names = append(names, stage.Name)
	}
	return names
}
