package service

import "log"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notifier is the transient notification surface. Display is the
// collaborator's concern; the services only emit message and severity.
type Notifier interface {
	Notify(message string, severity Severity)
}

type logNotifier struct{}

func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Notify(message string, severity Severity) {
	log.Printf("[%s] %s", severity, message)
}
