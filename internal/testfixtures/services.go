package testfixtures

import (
	"time"

	"github.com/nessimus/workday-scheduler/internal/application"
	"github.com/nessimus/workday-scheduler/internal/persistence"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// ShiftService builds a shift service on the given repository.
func (f *ServiceFactory) ShiftService(shifts persistence.ShiftRepository) *application.ShiftService {
	return application.NewShiftService(shifts, f.IDGenerator.NextFunc(), f.Clock.NowFunc())
}

// EmployeeService builds an employee service on the given repository.
func (f *ServiceFactory) EmployeeService(employees persistence.EmployeeRepository) *application.EmployeeService {
	return application.NewEmployeeService(employees, f.IDGenerator.NextFunc(), f.Clock.NowFunc())
}

// AgendaService builds an agenda service on the given repositories.
func (f *ServiceFactory) AgendaService(shifts persistence.ShiftRepository, employees persistence.EmployeeRepository) *application.AgendaService {
	return application.NewAgendaService(shifts, employees)
}

// WorkdayService builds a workday service on the given repositories.
func (f *ServiceFactory) WorkdayService(employees persistence.EmployeeRepository, availability persistence.AvailabilityRepository, workdays persistence.WorkdayRepository) *application.WorkdayService {
	return application.NewWorkdayService(employees, availability, workdays, f.Clock.NowFunc())
}

// DispatchService builds a dispatch service on the given repository. Tokens
// come from the factory's identifier generator.
func (f *ServiceFactory) DispatchService(items persistence.ActionItemRepository) *application.DispatchService {
	return application.NewDispatchService(items, f.IDGenerator.NextFunc(), f.Clock.NowFunc())
}
