package session

// System is one per-frame step of a session. Systems run in the order they
// were added and share state through the Session.
type System interface {
	Update(s *Session)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(s *Session)

func (f SystemFunc) Update(s *Session) { f(s) }

// Scheduler is the frame pipeline a Session steps through: movement first,
// then whatever reads its snapshot.
type Scheduler struct {
	systems []System
}

// NewScheduler keeps its own copy of the initial pipeline.
func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

// Add appends to the end of the frame. A nil system is dropped.
func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs one frame of sess.
func (s *Scheduler) Update(sess *Session) {
	for _, system := range s.systems {
		system.Update(sess)
	}
}

// Systems lists the pipeline in run order. The slice is a copy.
func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
