// Package notifications defines the user-facing feedback contracts the
// coordinator depends on. The core only decides what to say and which
// recovery actions exist; rendering belongs to the UI.
package notifications

import (
	log "github.com/sirupsen/logrus"
)

// NotificationAction is one operator choice the UI renders as a button.
type NotificationAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// NotifyOptions controls presentation. Persistent suppresses auto-dismiss.
type NotifyOptions struct {
	Persistent bool
	Actions    []NotificationAction
}

// Notifier is the user-facing feedback collaborator.
type Notifier interface {
	Success(message string)
	Error(message string, opts *NotifyOptions)
	Warning(message string, opts *NotifyOptions)
}

// LoadingIndicator is the caller-visible busy signal the coordinator toggles
// around every entry point, on every exit path included.
type LoadingIndicator interface {
	Set(active bool)
}

// LogNotifier writes notifications to the structured log. It stands in for
// the UI notification layer on the server side.
type LogNotifier struct {
	logger *log.Logger
}

var _ Notifier = (*LogNotifier)(nil)

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(message string) {
	n.logger.WithField("kind", "success").Info(message)
}

func (n *LogNotifier) Error(message string, opts *NotifyOptions) {
	n.logger.WithFields(optFields(opts)).WithField("kind", "error").Error(message)
}

func (n *LogNotifier) Warning(message string, opts *NotifyOptions) {
	n.logger.WithFields(optFields(opts)).WithField("kind", "warning").Warn(message)
}

func optFields(opts *NotifyOptions) log.Fields {
	if opts == nil {
		return log.Fields{}
	}
	fields := log.Fields{"persistent": opts.Persistent}
	if len(opts.Actions) > 0 {
		fields["actions"] = opts.Actions
	}
	return fields
}

// NopLoadingIndicator discards loading transitions.
type NopLoadingIndicator struct{}

func (NopLoadingIndicator) Set(bool) {}
