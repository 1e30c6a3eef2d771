package folio

import "errors"

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions selects where handlers are registered.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the constructed handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      Handlers
	Subscriptions []CommandSubscription
}

// Unsubscribe tears down every dispatcher subscription.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterCommands builds the module handlers and registers them with the
// supplied registry and dispatcher. Registration keeps going after a failure
// and returns every error joined.
func (m *Module) RegisterCommands(opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{Handlers: m.Handlers()}

	var errs error
	for _, handler := range result.Handlers.All() {
		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			sub, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}
			if sub != nil {
				result.Subscriptions = append(result.Subscriptions, sub)
			}
		}
	}
	return result, errs
}
